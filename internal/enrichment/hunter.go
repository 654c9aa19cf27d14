package enrichment

import (
	"context"

	"github.com/octobees/contact-enricher/internal/resilience"
	"github.com/octobees/contact-enricher/pkg/hunter"
)

// DefaultHunterMinScore is the confidence a Hunter email must exceed to be stored.
const DefaultHunterMinScore = 30

// HunterProvider fills a contact through Hunter's email finder.
type HunterProvider struct {
	client   hunter.Client
	norm     Normalizer
	minScore int
	retry    resilience.RetryConfig
}

// NewHunterProvider wraps a Hunter client.
func NewHunterProvider(client hunter.Client, settings Settings) *HunterProvider {
	return &HunterProvider{
		client:   client,
		norm:     NewNormalizer(settings.PhoneRegion),
		minScore: settings.hunterMinScore(),
		retry:    settings.retryFor(ProviderHunter),
	}
}

func (p *HunterProvider) Name() ProviderName { return ProviderHunter }

// CanQuery reports whether the contact has a usable company domain.
func (p *HunterProvider) CanQuery(view *ContactView, _ Lookup) bool {
	return p.norm.Domain(view.Get(FieldCompanyDomain)) != ""
}

// Enrich needs a company domain; without one the contact is skipped.
func (p *HunterProvider) Enrich(ctx context.Context, view *ContactView, _ Lookup) (Outcome, error) {
	domain := p.norm.Domain(view.Get(FieldCompanyDomain))
	if domain == "" {
		return OutcomeSkipped, nil
	}
	first, last := splitName(view.FullName())

	res, err := resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*hunter.EmailFinderResult, error) {
		return p.client.FindEmail(ctx, hunter.EmailFinderRequest{
			Domain:    domain,
			FirstName: first,
			LastName:  last,
		})
	})
	if err != nil {
		return OutcomeError, err
	}
	if res == nil || (res.Email == "" && res.Position == "") {
		return OutcomeNotFound, nil
	}

	if res.Score > p.minScore {
		view.Fill(FieldWorkEmail, p.norm.Email(res.Email))
	}
	view.Fill(FieldPosition, res.Position)
	view.Fill(FieldLinkedInURL, p.norm.LinkedIn(res.LinkedInURL))
	view.Fill(FieldWorkPhone, p.norm.Phone(res.PhoneNumber))
	view.Fill(FieldCompanyDomain, p.norm.Domain(res.Domain))
	return OutcomeEnriched, nil
}
