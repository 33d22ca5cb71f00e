package publicsuffix_test

import (
	"testing"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/publicsuffix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrableDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "example.com"},
		{"https://www.example.com/about", "example.com"},
		{"https://blog.example.co.uk/post", "example.co.uk"},
		{"http://WWW.Example.COM:8080/", "example.com"},
		{"http://127.0.0.1:8080/page", "127.0.0.1"},
		{"http://localhost:3000/", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := publicsuffix.RegistrableDomain(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("fails for URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := publicsuffix.RegistrableDomain("/relative/path")

		require.Error(t, err)
		assert.Equal(t, sitescribe.EINVALID, sitescribe.ErrorCode(err))
	})

	t.Run("fails for bare public suffix", func(t *testing.T) {
		t.Parallel()

		_, err := publicsuffix.RegistrableDomain("https://co.uk/")

		require.Error(t, err)
	})

	t.Run("fails for malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := publicsuffix.RegistrableDomain("http://exa mple.com")

		require.Error(t, err)
	})
}

func TestInScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"same domain", "https://example.com/about", true},
		{"subdomain", "https://docs.example.com/", true},
		{"http scheme", "http://example.com/", true},
		{"other domain", "https://other.com/", false},
		{"suffix lookalike", "https://example.com.evil.net/", false},
		{"mailto", "mailto:hi@example.com", false},
		{"ftp", "ftp://example.com/file", false},
		{"malformed", "http://exa mple.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, publicsuffix.InScope(tt.url, "example.com"))
		})
	}
}
