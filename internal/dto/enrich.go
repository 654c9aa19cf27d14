package dto

import "time"

// BulkEnrichRequest is the body of one batch invocation. Both fields are optional.
type BulkEnrichRequest struct {
	LastID   string   `json:"last_id"`
	Services []string `json:"services"`
}

// ProviderStatuses reports every provider status of a contact, pending when unset.
type ProviderStatuses struct {
	Hunter    string `json:"hunter"`
	Apollo    string `json:"apollo"`
	Lusha     string `json:"lusha"`
	Findymail string `json:"findymail"`
}

// EnrichmentStatusResponse tells an operator why a contact did or did not get enriched.
type EnrichmentStatusResponse struct {
	ContactID      string           `json:"contact_id"`
	FullName       string           `json:"full_name"`
	Statuses       ProviderStatuses `json:"statuses"`
	HasEmail       bool             `json:"has_email"`
	HasPhone       bool             `json:"has_phone"`
	Eligible       bool             `json:"eligible"`
	LastEnrichedAt *time.Time       `json:"last_enriched_at,omitempty"`
	ExhaustedAt    *time.Time       `json:"exhausted_at,omitempty"`
	ClaimedUntil   *time.Time       `json:"claimed_until,omitempty"`
}
