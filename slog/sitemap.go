// Package slog provides logging decorators for sitescribe services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitescribe"
)

// Ensure LoggingSitemapResolver implements sitescribe.SitemapResolver.
var _ sitescribe.SitemapResolver = (*LoggingSitemapResolver)(nil)

// LoggingSitemapResolver wraps a SitemapResolver with logging.
type LoggingSitemapResolver struct {
	next   sitescribe.SitemapResolver
	logger *slog.Logger
}

// NewLoggingSitemapResolver creates a new LoggingSitemapResolver.
func NewLoggingSitemapResolver(next sitescribe.SitemapResolver, logger *slog.Logger) *LoggingSitemapResolver {
	return &LoggingSitemapResolver{next: next, logger: logger}
}

// ResolveSitemap delegates to the wrapped resolver and logs the operation.
func (s *LoggingSitemapResolver) ResolveSitemap(ctx context.Context, sitemapURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap resolve",
			"url", sitemapURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ResolveSitemap(ctx, sitemapURL)
}

// DiscoverURLs delegates to the wrapped resolver and logs the operation.
func (s *LoggingSitemapResolver) DiscoverURLs(ctx context.Context, baseURL string, filter *sitescribe.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
