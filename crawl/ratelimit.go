package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/sitescribe"
	"golang.org/x/time/rate"
)

var _ sitescribe.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to the same registrable domain using
// token buckets. Each domain gets its own bucket, so requests to different
// domains never wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
}

// NewDomainLimiter creates a new DomainLimiter that allows one request per
// domain every interval, with no bursting. A zero interval disables waiting.
func NewDomainLimiter(every time.Duration) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.every <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(d.every), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
