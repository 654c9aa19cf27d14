package entity

import "time"

// ProviderStatus records how far a single enrichment provider got with a contact.
type ProviderStatus string

// Provider status values persisted on contacts. A NULL column reads as StatusPending.
const (
	StatusPending  ProviderStatus = "pending"
	StatusEnriched ProviderStatus = "enriched"
	StatusNotFound ProviderStatus = "not_found"
)

// Definitive reports whether the status closes the provider for this contact.
func (s ProviderStatus) Definitive() bool {
	return s == StatusEnriched || s == StatusNotFound
}

// Contact is a CRM person record and the unit of work for enrichment.
type Contact struct {
	ID             string         `json:"id"`
	FullName       string         `json:"full_name"`
	OrganizationID *string        `json:"organization_id,omitempty"`
	Email          *string        `json:"email,omitempty"`
	WorkEmail      *string        `json:"work_email,omitempty"`
	PersonalEmail  *string        `json:"personal_email,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	MobilePhone    *string        `json:"mobile_phone,omitempty"`
	WorkPhone      *string        `json:"work_phone,omitempty"`
	LinkedInURL    *string        `json:"linkedin_url,omitempty"`
	CompanyDomain  *string        `json:"company_domain,omitempty"`
	Position       *string        `json:"position,omitempty"`
	HunterStatus   ProviderStatus `json:"hunter_status"`
	ApolloStatus   ProviderStatus `json:"apollo_status"`
	LushaStatus    ProviderStatus `json:"lusha_status"`
	// FindymailStatus is maintained by the single-contact Findymail lookup, never by the batch job.
	FindymailStatus       ProviderStatus `json:"findymail_status"`
	LastEnrichedAt        *time.Time     `json:"last_enriched_at,omitempty"`
	EnrichmentExhaustedAt *time.Time     `json:"enrichment_exhausted_at,omitempty"`
	ClaimedUntil          *time.Time     `json:"-"`
	CreatedBy             string         `json:"created_by"`
}

// Organization is the company a contact belongs to.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
