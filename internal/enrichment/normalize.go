package enrichment

import (
	"errors"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "US"
	linkedInDomain     = "linkedin.com"
)

var idnaProfile = idna.Lookup

// Normalizer cleans provider values before they reach the contact view.
type Normalizer struct {
	PhoneRegion string
}

// NewNormalizer returns a normalizer parsing national numbers in region.
func NewNormalizer(region string) Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return Normalizer{PhoneRegion: region}
}

// Phone formats raw as E.164 when it parses as a valid number and otherwise
// returns the trimmed input, so unusual but real numbers are kept.
func (n Normalizer) Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	region := n.PhoneRegion
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// Email lower-cases the address and rejects values without a usable domain.
func (n Normalizer) Email(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	domain, err := idnaProfile.ToASCII(email[at+1:])
	if err != nil || !strings.Contains(domain, ".") {
		return ""
	}
	return email[:at+1] + domain
}

// Domain strips scheme, credentials, port, path and a leading "www." and returns
// the ASCII form of the host.
func (n Normalizer) Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		raw = raw[:i]
	}
	host := strings.Trim(strings.ToLower(raw), ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}
	ascii, err := idnaProfile.ToASCII(host)
	if err != nil {
		return ""
	}
	return ascii
}

// LinkedIn returns the https form of a linkedin.com URL without tracking parameters,
// or an empty string for anything else.
func (n Normalizer) LinkedIn(raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(strings.Trim(u.Hostname(), "."))
	if host != linkedInDomain && !strings.HasSuffix(host, "."+linkedInDomain) {
		return ""
	}
	stripTracking(u)
	u.Fragment = ""
	return u.String()
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

// splitName splits a full name into first token and remainder.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
