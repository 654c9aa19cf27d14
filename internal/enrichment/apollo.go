package enrichment

import (
	"context"
	"strings"

	"github.com/octobees/contact-enricher/internal/resilience"
	"github.com/octobees/contact-enricher/pkg/apollo"
)

// lockedEmailPlaceholder is what Apollo returns instead of an address the plan cannot reveal.
const lockedEmailPlaceholder = "email_not_unlocked"

// ApolloProvider fills a contact through Apollo's people match.
type ApolloProvider struct {
	client apollo.Client
	norm   Normalizer
	retry  resilience.RetryConfig
}

// NewApolloProvider wraps an Apollo client.
func NewApolloProvider(client apollo.Client, settings Settings) *ApolloProvider {
	return &ApolloProvider{
		client: client,
		norm:   NewNormalizer(settings.PhoneRegion),
		retry:  settings.retryFor(ProviderApollo),
	}
}

func (p *ApolloProvider) Name() ProviderName { return ProviderApollo }

// Enrich reports enriched only when the match filled at least one empty field.
func (p *ApolloProvider) Enrich(ctx context.Context, view *ContactView, _ Lookup) (Outcome, error) {
	first, last := splitName(view.FullName())
	req := apollo.MatchRequest{
		FirstName:            first,
		LastName:             last,
		Domain:               p.norm.Domain(view.Get(FieldCompanyDomain)),
		LinkedInURL:          view.Get(FieldLinkedInURL),
		RevealPersonalEmails: true,
	}

	person, err := resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*apollo.Person, error) {
		return p.client.MatchPerson(ctx, req)
	})
	if err != nil {
		return OutcomeError, err
	}
	if person == nil {
		return OutcomeNotFound, nil
	}

	candidates := map[Field]string{
		FieldWorkEmail:     p.workEmail(person),
		FieldPersonalEmail: p.personalEmail(person),
		FieldMobilePhone:   p.norm.Phone(apolloPhone(person.PhoneNumbers, "mobile")),
		FieldWorkPhone:     p.norm.Phone(apolloPhone(person.PhoneNumbers, "work_direct", "work_hq")),
		FieldPosition:      strings.TrimSpace(person.Title),
		FieldLinkedInURL:   p.norm.LinkedIn(person.LinkedInURL),
	}
	if person.Organization != nil {
		candidates[FieldCompanyDomain] = p.norm.Domain(person.Organization.PrimaryDomain)
	}
	return fillAll(view, candidates), nil
}

func (p *ApolloProvider) workEmail(person *apollo.Person) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(person.Email)), lockedEmailPlaceholder) {
		return ""
	}
	return p.norm.Email(person.Email)
}

func (p *ApolloProvider) personalEmail(person *apollo.Person) string {
	for _, e := range person.PersonalEmails {
		if email := p.norm.Email(e); email != "" {
			return email
		}
	}
	return ""
}

// apolloPhone picks the first number whose type matches preferred, in order.
// The mobile lookup alone falls back to the first number of any type.
func apolloPhone(numbers []apollo.PhoneNumber, preferred ...string) string {
	for _, want := range preferred {
		for _, n := range numbers {
			if strings.EqualFold(n.Type, want) && n.Number() != "" {
				return n.Number()
			}
		}
	}
	if len(preferred) == 1 && preferred[0] == "mobile" {
		for _, n := range numbers {
			if n.Number() != "" {
				return n.Number()
			}
		}
	}
	return ""
}

// fillAll offers every candidate to the view. The outcome is enriched iff at least
// one field was written.
func fillAll(view *ContactView, candidates map[Field]string) Outcome {
	filled := false
	for f, value := range candidates {
		if view.Fill(f, value) {
			filled = true
		}
	}
	if !filled {
		return OutcomeNotFound
	}
	return OutcomeEnriched
}
