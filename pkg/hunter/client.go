// Package hunter provides a client for the Hunter.io email finder API.
package hunter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/octobees/contact-enricher/internal/resilience"
)

// Client defines the Hunter operations used by enrichment.
type Client interface {
	// FindEmail looks up the most likely address for a person at a domain.
	FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResult, error)
}

// EmailFinderRequest identifies the person to look up.
type EmailFinderRequest struct {
	Domain    string
	FirstName string
	LastName  string
}

// EmailFinderResult is the data object of an email-finder response. Missing values are empty strings.
type EmailFinderResult struct {
	Email       string `json:"email"`
	Score       int    `json:"score"`
	Domain      string `json:"domain"`
	Position    string `json:"position"`
	LinkedInURL string `json:"linkedin_url"`
	PhoneNumber string `json:"phone_number"`
	Company     string `json:"company"`
}

type emailFinderResponse struct {
	Data EmailFinderResult `json:"data"`
}

// Option configures the Hunter client.
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

// NewClient creates a Hunter client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.hunter.io/v2",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FindEmail(ctx context.Context, req EmailFinderRequest) (*EmailFinderResult, error) {
	params := url.Values{}
	params.Set("domain", req.Domain)
	params.Set("first_name", req.FirstName)
	params.Set("last_name", req.LastName)
	params.Set("api_key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/email-finder?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: create request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("hunter: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	var result emailFinderResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}

	return &result.Data, nil
}
