package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/mock"
	ssslog "github.com/fwojciec/sitescribe/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes but not text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Generator{
			GenerateFn: func(ctx context.Context, req sitescribe.GenerateRequest) (string, error) {
				return "generated", nil
			},
		}

		g := ssslog.NewLoggingGenerator(inner, logger)
		text, err := g.Generate(context.Background(), sitescribe.GenerateRequest{Prompt: "secret prompt"})

		require.NoError(t, err)
		assert.Equal(t, "generated", text)
		output := buf.String()
		assert.Contains(t, output, "msg=generate")
		assert.Contains(t, output, "prompt_bytes=13")
		assert.Contains(t, output, "bytes=9")
		assert.NotContains(t, output, "secret prompt")
	})

	t.Run("logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Generator{
			GenerateFn: func(ctx context.Context, req sitescribe.GenerateRequest) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}

		_, err := ssslog.NewLoggingGenerator(inner, logger).Generate(context.Background(), sitescribe.GenerateRequest{Prompt: "p"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="quota exceeded"`)
	})
}

func TestLoggingPolicy_CanFetch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.RobotsPolicy{
		CanFetchFn: func(ctx context.Context, url string) (bool, error) {
			return false, nil
		},
	}

	allowed, err := ssslog.NewLoggingPolicy(inner, logger).CanFetch(context.Background(), "https://example.com/private")

	require.NoError(t, err)
	assert.False(t, allowed)
	output := buf.String()
	assert.Contains(t, output, "robots check")
	assert.Contains(t, output, "url=https://example.com/private")
	assert.Contains(t, output, "allowed=false")
}
