// Package lusha provides a client for the Lusha person enrichment API.
package lusha

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

// Client defines the Lusha operations used by enrichment.
type Client interface {
	// Person looks a person up. It returns nil when Lusha answers successfully without contact data.
	// Any non-2xx answer is returned as an error, never as "no data".
	Person(ctx context.Context, q PersonQuery) (*Person, error)
}

// PersonQuery selects a person either by LinkedIn URL, or by name plus company.
// When LinkedInURL is set the other fields are not sent.
type PersonQuery struct {
	LinkedInURL string
	FirstName   string
	LastName    string
	CompanyName string
}

// EmailAddress is a typed email entry.
type EmailAddress struct {
	Email     string `json:"email"`
	EmailType string `json:"emailType"`
}

// PhoneNumber is a typed phone entry.
type PhoneNumber struct {
	Number    string `json:"number"`
	PhoneType string `json:"phoneType"`
}

// Person holds the contact channels Lusha revealed.
type Person struct {
	FullName       string         `json:"fullName"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
	PhoneNumbers   []PhoneNumber  `json:"phoneNumbers"`
}

type contactError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type personResponse struct {
	Contact struct {
		Data  *Person       `json:"data"`
		Error *contactError `json:"error"`
	} `json:"contact"`
}

// Option configures the Lusha client.
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

// NewClient creates a Lusha client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.lusha.com/v2",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Person(ctx context.Context, q PersonQuery) (*Person, error) {
	params := url.Values{}
	if q.LinkedInURL != "" {
		params.Set("linkedinUrl", q.LinkedInURL)
	} else {
		params.Set("firstName", q.FirstName)
		params.Set("lastName", q.LastName)
		if q.CompanyName != "" {
			params.Set("companyName", q.CompanyName)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/person?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "lusha: create request")
	}
	httpReq.Header.Set("api_key", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "lusha: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "lusha: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := eris.Errorf("lusha: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	var result personResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "lusha: unmarshal response")
	}

	// A 200 can still carry a per-contact failure. Only 404 means no match.
	if e := result.Contact.Error; e != nil {
		if e.Code == http.StatusNotFound {
			return nil, nil
		}
		lookupErr := eris.Errorf("lusha: contact lookup failed with code %d: %s", e.Code, e.Message)
		if resilience.IsTransientHTTPStatus(e.Code) {
			return nil, resilience.NewTransientError(lookupErr, e.Code)
		}
		return nil, lookupErr
	}

	return result.Contact.Data, nil
}
