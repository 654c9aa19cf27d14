// Package apollo provides a client for the Apollo.io people match API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/octobees/contact-enricher/internal/resilience"
)

// Client defines the Apollo operations used by enrichment.
type Client interface {
	// MatchPerson returns the matched person, or nil when Apollo has no match.
	MatchPerson(ctx context.Context, req MatchRequest) (*Person, error)
}

// MatchRequest carries the identifiers Apollo matches on. Empty values are omitted.
type MatchRequest struct {
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	Domain               string `json:"domain,omitempty"`
	LinkedInURL          string `json:"linkedin_url,omitempty"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails"`
}

// PhoneNumber is one of the numbers attached to a person.
type PhoneNumber struct {
	RawNumber       string `json:"raw_number"`
	SanitizedNumber string `json:"sanitized_number"`
	Type            string `json:"type"`
}

// Number prefers the sanitized form.
func (p PhoneNumber) Number() string {
	if p.SanitizedNumber != "" {
		return p.SanitizedNumber
	}
	return p.RawNumber
}

// Organization is the employer block of a person.
type Organization struct {
	Name          string `json:"name"`
	PrimaryDomain string `json:"primary_domain"`
}

// Person is the subset of the people/match payload enrichment reads.
type Person struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	PersonalEmails []string      `json:"personal_emails"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers"`
	Title          string        `json:"title"`
	LinkedInURL    string        `json:"linkedin_url"`
	Organization   *Organization `json:"organization"`
}

type matchResponse struct {
	Person *Person `json:"person"`
}

// Option configures the Apollo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Apollo client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.apollo.io/api/v1",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) MatchPerson(ctx context.Context, req MatchRequest) (*Person, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/people/match", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	var result matchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	return result.Person, nil
}
