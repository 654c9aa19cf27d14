package enrichment

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out outbound provider calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

type limiterPacer struct {
	limiter *rate.Limiter
}

// NewPacer allows one provider call per delay. A non-positive delay disables pacing.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return noPacer{}
	}
	return &limiterPacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

func (p *limiterPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error { return ctx.Err() }
