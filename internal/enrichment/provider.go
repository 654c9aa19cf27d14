package enrichment

import (
	"context"
	"fmt"
	"strings"
)

// ProviderName identifies an enrichment provider in requests, results and status columns.
type ProviderName string

// Providers driven by the batch job, in the order they run for each contact.
const (
	ProviderHunter ProviderName = "hunter"
	ProviderApollo ProviderName = "apollo"
	ProviderLusha  ProviderName = "lusha"
)

// AllProviders is the default service list of a batch request.
var AllProviders = []ProviderName{ProviderHunter, ProviderApollo, ProviderLusha}

// ParseProviders validates requested service names. An empty list selects AllProviders.
// The result follows the canonical provider order and contains no duplicates.
func ParseProviders(names []string) ([]ProviderName, error) {
	if len(names) == 0 {
		return append([]ProviderName(nil), AllProviders...), nil
	}

	requested := make(map[ProviderName]struct{}, len(names))
	for _, raw := range names {
		name := ProviderName(strings.ToLower(strings.TrimSpace(raw)))
		if !knownProvider(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, raw)
		}
		requested[name] = struct{}{}
	}

	out := make([]ProviderName, 0, len(requested))
	for _, p := range AllProviders {
		if _, ok := requested[p]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func knownProvider(name ProviderName) bool {
	for _, p := range AllProviders {
		if p == name {
			return true
		}
	}
	return false
}

// Lookup carries batch-level context an adapter cannot read from the contact itself.
type Lookup struct {
	OrganizationName string
}

// Provider adapts one external enrichment API to the contact model.
//
// Enrich fills gaps through view.Fill and reports the outcome. A returned error means the
// call failed and the orchestrator discards anything written to the view during the call.
type Provider interface {
	Name() ProviderName
	Enrich(ctx context.Context, view *ContactView, lookup Lookup) (Outcome, error)
}

// Queryable is implemented by providers that can tell from the contact alone that no
// request would be sent. The orchestrator records such providers as skipped without
// spending a pacing slot on them.
type Queryable interface {
	CanQuery(view *ContactView, lookup Lookup) bool
}

// ProviderKeys holds the per-deployment API keys. A provider is available iff its key is set.
type ProviderKeys struct {
	Hunter string
	Apollo string
	Lusha  string
}

// Enabled lists the providers that have a key, in canonical order.
func (k ProviderKeys) Enabled() []ProviderName {
	var out []ProviderName
	if k.Hunter != "" {
		out = append(out, ProviderHunter)
	}
	if k.Apollo != "" {
		out = append(out, ProviderApollo)
	}
	if k.Lusha != "" {
		out = append(out, ProviderLusha)
	}
	return out
}
