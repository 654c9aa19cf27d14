package enrichment

import (
	"net/http"
	"time"

	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/resilience"
	"github.com/octobees/contact-enricher/pkg/apollo"
	"github.com/octobees/contact-enricher/pkg/hunter"
	"github.com/octobees/contact-enricher/pkg/lusha"
)

// Settings tunes the adapters.
type Settings struct {
	HunterMinScore int
	PhoneRegion    string
	Retry          resilience.RetryConfig
}

// DefaultSettings matches the production defaults.
func DefaultSettings() Settings {
	return Settings{
		HunterMinScore: DefaultHunterMinScore,
		PhoneRegion:    defaultPhoneRegion,
		Retry:          resilience.DefaultRetryConfig(),
	}
}

func (s Settings) hunterMinScore() int {
	if s.HunterMinScore <= 0 {
		return DefaultHunterMinScore
	}
	return s.HunterMinScore
}

func (s Settings) retryFor(name ProviderName) resilience.RetryConfig {
	cfg := s.Retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(string(name))
	}
	return cfg
}

// NewProviders builds an adapter for every provider that has a key, in canonical order.
func NewProviders(keys ProviderKeys, settings Settings, clientOpts ClientOptions) []Provider {
	var providers []Provider
	if keys.Hunter != "" {
		providers = append(providers, NewHunterProvider(hunter.NewClient(keys.Hunter, clientOpts.Hunter...), settings))
	}
	if keys.Apollo != "" {
		providers = append(providers, NewApolloProvider(apollo.NewClient(keys.Apollo, clientOpts.Apollo...), settings))
	}
	if keys.Lusha != "" {
		providers = append(providers, NewLushaProvider(lusha.NewClient(keys.Lusha, clientOpts.Lusha...), settings))
	}
	return providers
}

// ClientOptions forwards options to the HTTP clients NewProviders creates.
type ClientOptions struct {
	Hunter []hunter.Option
	Apollo []apollo.Option
	Lusha  []lusha.Option
}

// FromConfig wires the orchestrator from environment configuration.
func FromConfig(cfg config.EnrichmentConfig, store ContactStore, opts ...Option) *Orchestrator {
	settings := DefaultSettings()
	settings.HunterMinScore = cfg.HunterMinScore
	if cfg.PhoneRegion != "" {
		settings.PhoneRegion = cfg.PhoneRegion
	}
	if cfg.MaxAttempts > 0 {
		settings.Retry.MaxAttempts = cfg.MaxAttempts
	}

	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}
	if cfg.ProviderTimeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}
	clientOpts := ClientOptions{
		Hunter: []hunter.Option{hunter.WithHTTPClient(httpClient)},
		Apollo: []apollo.Option{apollo.WithHTTPClient(httpClient)},
		Lusha:  []lusha.Option{lusha.WithHTTPClient(httpClient)},
	}
	if cfg.HunterBaseURL != "" {
		clientOpts.Hunter = append(clientOpts.Hunter, hunter.WithBaseURL(cfg.HunterBaseURL))
	}
	if cfg.ApolloBaseURL != "" {
		clientOpts.Apollo = append(clientOpts.Apollo, apollo.WithBaseURL(cfg.ApolloBaseURL))
	}
	if cfg.LushaBaseURL != "" {
		clientOpts.Lusha = append(clientOpts.Lusha, lusha.WithBaseURL(cfg.LushaBaseURL))
	}

	keys := ProviderKeys{Hunter: cfg.HunterAPIKey, Apollo: cfg.ApolloAPIKey, Lusha: cfg.LushaAPIKey}
	base := []Option{
		WithPageSize(cfg.PageSize),
		WithPacer(NewPacer(cfg.ProviderDelay)),
		WithLeaseTTL(cfg.LeaseTTL),
	}
	return NewOrchestrator(store, NewProviders(keys, settings, clientOpts), append(base, opts...)...)
}
