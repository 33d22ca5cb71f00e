package mock

import (
	"context"

	"github.com/fwojciec/sitescribe"
	sshttp "github.com/fwojciec/sitescribe/http"
)

var _ sitescribe.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver is a mock implementation of sitescribe.SitemapResolver.
type SitemapResolver struct {
	ResolveSitemapFn func(ctx context.Context, sitemapURL string) ([]string, error)
	DiscoverURLsFn   func(ctx context.Context, baseURL string, filter *sitescribe.URLFilter) ([]string, error)
}

func (s *SitemapResolver) ResolveSitemap(ctx context.Context, sitemapURL string) ([]string, error) {
	return s.ResolveSitemapFn(ctx, sitemapURL)
}

func (s *SitemapResolver) DiscoverURLs(ctx context.Context, baseURL string, filter *sitescribe.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ sshttp.RobotsSitemaps = (*RobotsSitemaps)(nil)

// RobotsSitemaps is a mock implementation of http.RobotsSitemaps.
type RobotsSitemaps struct {
	SitemapsFn func(ctx context.Context, origin string) []string
}

func (r *RobotsSitemaps) Sitemaps(ctx context.Context, origin string) []string {
	return r.SitemapsFn(ctx, origin)
}
