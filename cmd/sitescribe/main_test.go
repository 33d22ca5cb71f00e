package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sitescribe"
	main "github.com/fwojciec/sitescribe/cmd/sitescribe"
	"github.com/fwojciec/sitescribe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSiteServer serves a small site. Every occurrence of {{BASE}} in a body
// is replaced with the server URL.
func newSiteServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ".xml"):
			w.Header().Set("Content-Type", "application/xml")
		case r.URL.Path == "/robots.txt":
			w.Header().Set("Content-Type", "text/plain")
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSite() map[string]string {
	return map[string]string{
		"/robots.txt": "User-agent: *\nDisallow: /private\nSitemap: {{BASE}}/sitemap.xml\n",
		"/":           `<html><body><nav>Menu</nav><h1>Home</h1><p>Welcome.</p><a href="/about">About</a><a href="/private">Secret</a></body></html>`,
		"/about":      `<html><body><h2>About</h2><p>We write.</p></body></html>`,
		"/private":    `<html><body><h1>Private</h1></body></html>`,
		"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/</loc></url>
  <url><loc>{{BASE}}/about</loc></url>
  <url><loc>{{BASE}}/blog/post</loc></url>
</urlset>`,
	}
}

func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout, "crawl")
	})

	t.Run("help flag succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, main.NewMain(), "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "rewrite")
	})

	t.Run("crawl prints page structure and skips disallowed pages", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())

		stdout, stderr, err := run(t, main.NewMain(), "--delay=0s", "crawl", srv.URL+"/")

		require.NoError(t, err)
		assert.Contains(t, stdout, "## "+srv.URL+"/\n")
		assert.Contains(t, stdout, "# Home")
		assert.Contains(t, stdout, "## "+srv.URL+"/about")
		assert.Contains(t, stdout, "We write.")
		assert.NotContains(t, stdout, "Menu")
		assert.NotContains(t, stdout, "Private")
		assert.Contains(t, stderr, "2 pages recorded, 1 skipped by robots.txt, 0 failed")
	})

	t.Run("crawl respects max pages", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())

		stdout, _, err := run(t, main.NewMain(), "--delay=0s", "crawl", "--max-pages=1", srv.URL+"/")

		require.NoError(t, err)
		assert.Contains(t, stdout, "# Home")
		assert.NotContains(t, stdout, "We write.")
	})

	t.Run("crawl writes pages to a directory", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())
		dir := t.TempDir()

		stdout, _, err := run(t, main.NewMain(), "--delay=0s", "crawl", "--markdown", "--out", dir, srv.URL+"/")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Saved 2 pages")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		about, err := os.ReadFile(filepath.Join(dir, entries[0].Name(), "about.md"))
		require.NoError(t, err)
		assert.Contains(t, string(about), "source: "+srv.URL+"/about")
		assert.Contains(t, string(about), "We write.")
	})

	t.Run("crawl rejects a malformed URL", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, main.NewMain(), "crawl", "not a url")

		require.Error(t, err)
		assert.Equal(t, sitescribe.EINVALID, sitescribe.ErrorCode(err))
		assert.Contains(t, stderr, "error:")
	})

	t.Run("sitemap lists URLs", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())

		stdout, _, err := run(t, main.NewMain(), "sitemap", srv.URL+"/sitemap.xml", "--exclude", "/blog/")

		require.NoError(t, err)
		lines := strings.Fields(stdout)
		assert.ElementsMatch(t, []string{srv.URL + "/", srv.URL + "/about"}, lines)
	})

	t.Run("sitemap discovers from robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())

		stdout, _, err := run(t, main.NewMain(), "sitemap", "--discover", srv.URL)

		require.NoError(t, err)
		assert.Contains(t, stdout, srv.URL+"/blog/post")
	})

	t.Run("robots reports the decision", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())

		allowed, _, err := run(t, main.NewMain(), "robots", srv.URL+"/about")
		require.NoError(t, err)
		disallowed, _, err := run(t, main.NewMain(), "robots", srv.URL+"/private")
		require.NoError(t, err)

		assert.Equal(t, "allowed: "+srv.URL+"/about\n", allowed)
		assert.Equal(t, "disallowed: "+srv.URL+"/private\n", disallowed)
	})

	t.Run("generate uses the injected generator", func(t *testing.T) {
		t.Parallel()

		var got sitescribe.GenerateRequest
		m := main.NewMain()
		m.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, req sitescribe.GenerateRequest) (string, error) {
				got = req
				return "# Tax advice\n\nCopy.", nil
			},
		}
		m.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 1500, nil },
		}

		stdout, stderr, err := run(t, m, "generate", "tax advice", "--type", "FAQ", "--length", "Short")

		require.NoError(t, err)
		assert.Equal(t, "# Tax advice\n\nCopy.\n", stdout)
		assert.Contains(t, stderr, "Prompt: ~2k tokens")
		assert.Equal(t, sitescribe.BriefSystemInstruction, got.System)
		assert.Contains(t, got.Prompt, "short faq")
		assert.Equal(t, 1500, got.MaxTokens)
	})

	t.Run("generate passes the output token cap", func(t *testing.T) {
		t.Parallel()

		var got sitescribe.GenerateRequest
		m := main.NewMain()
		m.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, req sitescribe.GenerateRequest) (string, error) {
				got = req
				return "Copy.", nil
			},
		}
		m.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 10, nil },
		}

		_, _, err := run(t, m, "generate", "tax advice", "--max-tokens", "4000")

		require.NoError(t, err)
		assert.Equal(t, 4000, got.MaxTokens)
	})

	t.Run("generate without an API key fails", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Getenv = func(string) string { return "" }

		_, stderr, err := run(t, m, "generate", "tax advice")

		require.Error(t, err)
		assert.Contains(t, stderr, "GEMINI_API_KEY")
	})

	t.Run("rejects an unknown content type", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, main.NewMain(), "generate", "tax", "--type", "Poem")

		require.Error(t, err)
	})

	t.Run("rewrite exports a document", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, testSite())
		dir := t.TempDir()
		m := main.NewMain()
		m.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, req sitescribe.GenerateRequest) (string, error) {
				return `{"title":"Our Story","sections":[{"heading":"Who we are","level":2,"paragraphs":["We write."]}]}`, nil
			},
		}
		m.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 10, nil },
		}

		stdout, _, err := run(t, m, "--delay=0s", "rewrite", "--out", dir, srv.URL+"/")

		require.NoError(t, err)
		path := filepath.Join(dir, "our-story.md")
		assert.Equal(t, "Wrote "+path+"\n", stdout)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "source: "+srv.URL+"/")
		assert.Contains(t, string(content), "pages: 2")
		assert.Contains(t, string(content), "# Our Story")
		assert.Contains(t, string(content), "## Who we are")
	})
}
