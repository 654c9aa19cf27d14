package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/entity"
	"github.com/octobees/contact-enricher/internal/repository"
)

const (
	// DefaultPageSize bounds the provider calls one invocation can make.
	DefaultPageSize = 3
	// DefaultProviderDelay spaces consecutive provider calls.
	DefaultProviderDelay = 500 * time.Millisecond
	// DefaultLeaseTTL is how long a claimed contact stays reserved for one run.
	DefaultLeaseTTL = 2 * time.Minute

	writeTimeout = 10 * time.Second
)

// ContactStore is the persistence the orchestrator needs.
type ContactStore interface {
	SelectCandidates(ctx context.Context, q repository.CandidateQuery) ([]entity.Contact, error)
	OrganizationNames(ctx context.Context, ids []string) (map[string]string, error)
	ClaimContact(ctx context.Context, id, token string, until time.Time) (bool, error)
	ApplyEnrichment(ctx context.Context, patch repository.ContactPatch) error
	ReleaseContact(ctx context.Context, id, token string) error
}

// Request is one invocation of the batch job.
type Request struct {
	OwnerID string
	// LastID is the cursor returned by the previous invocation.
	LastID string
	// Services restricts the providers to run. Empty means all.
	Services []ProviderName
}

// ContactResult is the per-contact outcome log.
type ContactResult struct {
	ContactID string  `json:"contact_id"`
	FullName  string  `json:"full_name"`
	Hunter    Outcome `json:"hunter"`
	Apollo    Outcome `json:"apollo"`
	Lusha     Outcome `json:"lusha"`
}

// Outcome returns the recorded outcome for a provider.
func (r ContactResult) Outcome(p ProviderName) Outcome {
	switch p {
	case ProviderHunter:
		return r.Hunter
	case ProviderApollo:
		return r.Apollo
	case ProviderLusha:
		return r.Lusha
	default:
		return OutcomeSkipped
	}
}

func (r *ContactResult) set(p ProviderName, o Outcome) {
	switch p {
	case ProviderHunter:
		r.Hunter = o
	case ProviderApollo:
		r.Apollo = o
	case ProviderLusha:
		r.Lusha = o
	}
}

// BatchResult is returned to the caller after each invocation.
type BatchResult struct {
	Done      bool            `json:"done"`
	Processed int             `json:"processed"`
	LastID    string          `json:"last_id,omitempty"`
	Results   []ContactResult `json:"results"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithPacer overrides the inter-call pacer.
func WithPacer(p Pacer) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.pacer = p
		}
	}
}

// WithLeaseTTL overrides DefaultLeaseTTL. Non-positive values are ignored.
func WithLeaseTTL(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.leaseTTL = d
		}
	}
}

// WithLogger sets the logger. The default is the zap global at construction time.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTokenSource overrides the lease token generator.
func WithTokenSource(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newToken = next
		}
	}
}

// Orchestrator runs one page of the enrichment job per call. It keeps no state
// between calls; progress lives in the contact rows and the caller's cursor.
type Orchestrator struct {
	store     ContactStore
	providers map[ProviderName]Provider
	pacer     Pacer
	pageSize  int
	leaseTTL  time.Duration
	log       *zap.Logger
	now       func() time.Time
	newToken  func() string
}

// NewOrchestrator wires providers and storage. Providers with a duplicate name replace earlier ones.
func NewOrchestrator(store ContactStore, providers []Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		providers: make(map[ProviderName]Provider, len(providers)),
		pacer:     NewPacer(DefaultProviderDelay),
		pageSize:  DefaultPageSize,
		leaseTTL:  DefaultLeaseTTL,
		log:       zap.L(),
		now:       time.Now,
		newToken:  uuid.NewString,
	}
	for _, p := range providers {
		o.providers[p.Name()] = p
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enabled lists configured providers in canonical order.
func (o *Orchestrator) Enabled() []ProviderName {
	var out []ProviderName
	for _, p := range AllProviders {
		if _, ok := o.providers[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PageSize returns the configured page size.
func (o *Orchestrator) PageSize() int { return o.pageSize }

// Run processes the page after req.LastID. Only a failure to load the page is
// returned as an error; provider and write failures are reported per contact.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*BatchResult, error) {
	if req.OwnerID == "" {
		return nil, ErrMissingOwner
	}

	requested := req.Services
	if len(requested) == 0 {
		requested = AllProviders
	}
	active := o.active(requested)

	result := &BatchResult{Results: []ContactResult{}}
	if len(active) == 0 {
		o.log.Info("no enabled providers requested", zap.String("owner_id", req.OwnerID))
		result.Done = true
		return result, nil
	}

	names := make([]string, len(active))
	for i, p := range active {
		names[i] = string(p)
	}
	candidates, err := o.store.SelectCandidates(ctx, repository.CandidateQuery{
		OwnerID:   req.OwnerID,
		AfterID:   req.LastID,
		Limit:     o.pageSize,
		Providers: names,
	})
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	if len(candidates) == 0 {
		result.Done = true
		return result, nil
	}

	result.Done = len(candidates) < o.pageSize
	result.LastID = candidates[len(candidates)-1].ID

	views := make([]*ContactView, 0, len(candidates))
	for _, c := range candidates {
		v := NewContactView(c)
		if !Eligible(v, active) {
			o.log.Debug("contact no longer eligible", zap.String("contact_id", c.ID))
			continue
		}
		views = append(views, v)
	}
	if len(views) == 0 {
		return result, nil
	}

	orgNames := o.organizationNames(ctx, views)

	for _, v := range views {
		cr, processed := o.processContact(ctx, v, active, Lookup{OrganizationName: orgNames[v.OrganizationID()]})
		if cr == nil {
			continue
		}
		result.Results = append(result.Results, *cr)
		if processed {
			result.Processed++
		}
	}

	o.log.Info("enrichment batch finished",
		zap.String("owner_id", req.OwnerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("processed", result.Processed),
		zap.String("last_id", result.LastID),
		zap.Bool("done", result.Done),
	)
	return result, nil
}

func (o *Orchestrator) active(requested []ProviderName) []ProviderName {
	want := make(map[ProviderName]bool, len(requested))
	for _, p := range requested {
		want[p] = true
	}
	var out []ProviderName
	for _, p := range o.Enabled() {
		if want[p] {
			out = append(out, p)
		}
	}
	return out
}

func (o *Orchestrator) organizationNames(ctx context.Context, views []*ContactView) map[string]string {
	seen := make(map[string]struct{})
	var ids []string
	for _, v := range views {
		id := v.OrganizationID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	names, err := o.store.OrganizationNames(ctx, ids)
	if err != nil {
		o.log.Warn("organization lookup failed", zap.Strings("organization_ids", ids), zap.Error(err))
		return nil
	}
	return names
}

// processContact returns nil when another run holds the contact's lease.
func (o *Orchestrator) processContact(ctx context.Context, v *ContactView, active []ProviderName, lookup Lookup) (*ContactResult, bool) {
	cr := &ContactResult{ContactID: v.ID(), FullName: v.FullName()}
	logger := o.log.With(zap.String("contact_id", v.ID()))

	token := o.newToken()
	claimed, err := o.store.ClaimContact(ctx, v.ID(), token, o.now().Add(o.leaseTTL))
	if err != nil {
		logger.Error("claim contact failed", zap.Error(err))
		for _, p := range PendingProviders(v, active) {
			cr.set(p, OutcomeError)
		}
		return cr, false
	}
	if !claimed {
		logger.Info("contact leased by another run, skipping")
		return nil, false
	}

	for _, name := range active {
		if v.Status(name).Definitive() {
			continue
		}
		outcome := o.runProvider(ctx, logger, o.providers[name], v, lookup)
		cr.set(name, outcome)
		if status, ok := outcome.Status(); ok {
			v.SetStatus(name, status)
		}
	}

	if err := o.persist(ctx, v, token); err != nil {
		logger.Error("persist enrichment failed", zap.Error(err))
		for _, name := range active {
			if _, definitive := cr.Outcome(name).Status(); definitive {
				cr.set(name, OutcomeError)
			}
		}
	}
	return cr, true
}

func (o *Orchestrator) runProvider(ctx context.Context, logger *zap.Logger, p Provider, v *ContactView, lookup Lookup) Outcome {
	logger = logger.With(zap.String("provider", string(p.Name())))
	if q, ok := p.(Queryable); ok && !q.CanQuery(v, lookup) {
		logger.Debug("provider has nothing to query, skipping")
		return OutcomeSkipped
	}
	if err := o.pacer.Wait(ctx); err != nil {
		logger.Warn("provider call not attempted", zap.Error(err))
		return OutcomeError
	}

	cp := v.checkpoint()
	outcome, err := p.Enrich(ctx, v, lookup)
	if err != nil {
		v.restore(cp)
		logger.Warn("provider call failed", zap.Error(err))
		return OutcomeError
	}
	if outcome == OutcomeError {
		v.restore(cp)
	}
	logger.Debug("provider call finished", zap.Stringer("outcome", outcome))
	return outcome
}

// persist writes everything the providers produced and releases the lease.
// The write ignores cancellation of ctx but not its values.
func (o *Orchestrator) persist(ctx context.Context, v *ContactView, token string) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if !v.Dirty() {
		return o.store.ReleaseContact(writeCtx, v.ID(), token)
	}

	patch := repository.ContactPatch{
		ID:         v.ID(),
		ClaimToken: token,
		Fields:     make(map[string]string),
		Statuses:   make(map[string]entity.ProviderStatus),
	}
	for f, value := range v.Changes() {
		patch.Fields[string(f)] = value
	}
	for p, s := range v.StatusChanges() {
		patch.Statuses[string(p)] = s
	}
	if len(patch.Statuses) > 0 {
		now := o.now()
		patch.LastEnrichedAt = &now
		if Exhausted(v) {
			patch.ExhaustedAt = &now
		}
	}
	return o.store.ApplyEnrichment(writeCtx, patch)
}
