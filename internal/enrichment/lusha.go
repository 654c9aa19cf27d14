package enrichment

import (
	"context"
	"strings"

	"github.com/octobees/contact-enricher/internal/resilience"
	"github.com/octobees/contact-enricher/pkg/lusha"
)

// LushaProvider fills a contact through Lusha's person lookup.
type LushaProvider struct {
	client lusha.Client
	norm   Normalizer
	retry  resilience.RetryConfig
}

// NewLushaProvider wraps a Lusha client.
func NewLushaProvider(client lusha.Client, settings Settings) *LushaProvider {
	return &LushaProvider{
		client: client,
		norm:   NewNormalizer(settings.PhoneRegion),
		retry:  settings.retryFor(ProviderLusha),
	}
}

func (p *LushaProvider) Name() ProviderName { return ProviderLusha }

// CanQuery is false only for a contact with neither a LinkedIn URL nor a name.
func (p *LushaProvider) CanQuery(view *ContactView, lookup Lookup) bool {
	_, ok := p.query(view, lookup)
	return ok
}

// Enrich queries by LinkedIn URL when one is known, otherwise by name and, when the
// contact has one, organization name. A failed HTTP call is always an error, never not_found.
func (p *LushaProvider) Enrich(ctx context.Context, view *ContactView, lookup Lookup) (Outcome, error) {
	query, ok := p.query(view, lookup)
	if !ok {
		return OutcomeSkipped, nil
	}

	person, err := resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*lusha.Person, error) {
		return p.client.Person(ctx, query)
	})
	if err != nil {
		return OutcomeError, err
	}
	if person == nil {
		return OutcomeNotFound, nil
	}

	return fillAll(view, map[Field]string{
		FieldWorkEmail:     p.norm.Email(lushaEmail(person.EmailAddresses, "work", true)),
		FieldPersonalEmail: p.norm.Email(lushaEmail(person.EmailAddresses, "personal", false)),
		FieldMobilePhone:   p.norm.Phone(lushaPhone(person.PhoneNumbers, true, "mobile")),
		FieldWorkPhone:     p.norm.Phone(lushaPhone(person.PhoneNumbers, false, "direct", "work")),
	}), nil
}

func (p *LushaProvider) query(view *ContactView, lookup Lookup) (lusha.PersonQuery, bool) {
	if linkedIn := view.Get(FieldLinkedInURL); linkedIn != "" {
		return lusha.PersonQuery{LinkedInURL: linkedIn}, true
	}
	first, last := splitName(view.FullName())
	if first == "" {
		return lusha.PersonQuery{}, false
	}
	return lusha.PersonQuery{
		FirstName:   first,
		LastName:    last,
		CompanyName: strings.TrimSpace(lookup.OrganizationName),
	}, true
}

func lushaEmail(emails []lusha.EmailAddress, want string, fallback bool) string {
	for _, e := range emails {
		if strings.EqualFold(e.EmailType, want) && strings.TrimSpace(e.Email) != "" {
			return e.Email
		}
	}
	if fallback {
		for _, e := range emails {
			if strings.TrimSpace(e.Email) != "" {
				return e.Email
			}
		}
	}
	return ""
}

func lushaPhone(numbers []lusha.PhoneNumber, fallback bool, preferred ...string) string {
	for _, want := range preferred {
		for _, n := range numbers {
			if strings.EqualFold(n.PhoneType, want) && strings.TrimSpace(n.Number) != "" {
				return n.Number
			}
		}
	}
	if fallback {
		for _, n := range numbers {
			if strings.TrimSpace(n.Number) != "" {
				return n.Number
			}
		}
	}
	return ""
}
