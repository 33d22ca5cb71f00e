package mock

import (
	"context"

	"github.com/fwojciec/sitescribe"
)

var _ sitescribe.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitescribe.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ sitescribe.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of sitescribe.RobotsPolicy.
type RobotsPolicy struct {
	CanFetchFn func(ctx context.Context, url string) (bool, error)
}

func (p *RobotsPolicy) CanFetch(ctx context.Context, url string) (bool, error) {
	return p.CanFetchFn(ctx, url)
}
