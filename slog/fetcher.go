package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitescribe"
)

// Ensure LoggingFetcher implements sitescribe.Fetcher.
var _ sitescribe.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   sitescribe.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitescribe.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingPolicy implements sitescribe.RobotsPolicy.
var _ sitescribe.RobotsPolicy = (*LoggingPolicy)(nil)

// LoggingPolicy wraps a RobotsPolicy with logging.
type LoggingPolicy struct {
	next   sitescribe.RobotsPolicy
	logger *slog.Logger
}

// NewLoggingPolicy creates a new LoggingPolicy.
func NewLoggingPolicy(next sitescribe.RobotsPolicy, logger *slog.Logger) *LoggingPolicy {
	return &LoggingPolicy{next: next, logger: logger}
}

// CanFetch delegates to the wrapped policy and logs the decision.
func (p *LoggingPolicy) CanFetch(ctx context.Context, url string) (allowed bool, err error) {
	defer func(begin time.Time) {
		p.logger.Info("robots check",
			"url", url,
			"allowed", allowed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.CanFetch(ctx, url)
}
