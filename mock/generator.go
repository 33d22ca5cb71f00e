package mock

import (
	"context"

	"github.com/fwojciec/sitescribe"
)

var _ sitescribe.Generator = (*Generator)(nil)

// Generator is a mock implementation of sitescribe.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req sitescribe.GenerateRequest) (string, error)
}

func (g *Generator) Generate(ctx context.Context, req sitescribe.GenerateRequest) (string, error) {
	return g.GenerateFn(ctx, req)
}
