package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitescribe"
)

// Ensure LoggingGenerator implements sitescribe.Generator.
var _ sitescribe.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. Prompt and response
// text are never logged, only their sizes.
type LoggingGenerator struct {
	next   sitescribe.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next sitescribe.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the operation.
func (g *LoggingGenerator) Generate(ctx context.Context, req sitescribe.GenerateRequest) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_bytes", len(req.Prompt),
			"json", req.JSON,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, req)
}
