package main_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitescribe"
	main "github.com/fwojciec/sitescribe/cmd/sitescribe"
	"github.com/fwojciec/sitescribe/crawl"
	"github.com/fwojciec/sitescribe/goquery"
	"github.com/fwojciec/sitescribe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDeps returns dependencies writing to fresh buffers.
func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Now:    func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}, stdout, stderr
}

// staticCrawler returns a crawler over a fixed set of pages.
func staticCrawler(pages map[string]string) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", sitescribe.Errorf(sitescribe.EFETCH, "HTTP 404 for %s", url)
				}
				return html, nil
			},
		},
		Extractor: goquery.NewExtractor(),
		Links:     goquery.NewLinkExtractor(),
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("aborts the page store when a save fails", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Crawler = staticCrawler(map[string]string{
			"https://example.com/": `<h1>Home</h1>`,
		})
		aborted := false
		deps.Pages = &mock.PageStore{
			SaveFn:   func(context.Context, *sitescribe.PageRecord) error { return errors.New("disk full") },
			CommitFn: func() error { t.Fatal("commit after failed save"); return nil },
			AbortFn:  func() error { aborted = true; return nil },
		}

		err := (&main.CrawlCmd{URL: "https://example.com/", MaxPages: 5}).Run(deps)

		require.Error(t, err)
		assert.True(t, aborted)
		assert.Contains(t, stderr.String(), "disk full")
	})

	t.Run("reports failed pages", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		home := `<h1>Home</h1><a href="/missing">x</a>`
		deps.Crawler = staticCrawler(map[string]string{
			"https://example.com/": home,
		})

		err := (&main.CrawlCmd{URL: "https://example.com/", MaxPages: 5}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Home")
		assert.Contains(t, stderr.String(), "1 pages recorded, 0 skipped by robots.txt, 1 failed")
		assert.Contains(t, stderr.String(), "("+crawl.FormatBytes(len(home))+" fetched)")
		assert.Contains(t, stderr.String(), "failed: https://example.com/missing")
	})

	t.Run("returns partial output on cancellation", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		ctx, cancel := context.WithCancel(context.Background())
		deps.Ctx = ctx
		deps.Crawler = staticCrawler(map[string]string{
			"https://example.com/":  `<h1>Home</h1><a href="/a">a</a>`,
			"https://example.com/a": `<h1>A</h1>`,
		})
		deps.Crawler.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				cancel()
				return "converted", nil
			},
		}

		err := (&main.CrawlCmd{URL: "https://example.com/", MaxPages: 5}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, stdout.String(), "## https://example.com/\n")
		assert.NotContains(t, stdout.String(), "https://example.com/a")
	})
}

func TestSitemapCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rejects an invalid pattern", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.SitemapCmd{URL: "https://example.com/sitemap.xml", Filter: []string{"("}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitescribe.EINVALID, sitescribe.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})

	t.Run("passes the filter to discovery", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		var gotFilter *sitescribe.URLFilter
		deps.Sitemaps = &mock.SitemapResolver{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *sitescribe.URLFilter) ([]string, error) {
				gotFilter = filter
				return []string{"https://example.com/docs/a"}, nil
			},
		}

		err := (&main.SitemapCmd{URL: "https://example.com", Discover: true, Filter: []string{"/docs/"}}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter)
		assert.Len(t, gotFilter.Include, 1)
		assert.Equal(t, "https://example.com/docs/a\n", stdout.String())
	})

	t.Run("reports resolver errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Sitemaps = &mock.SitemapResolver{
			ResolveSitemapFn: func(context.Context, string) ([]string, error) {
				return nil, sitescribe.Errorf(sitescribe.EFETCH, "HTTP 404 fetching sitemap")
			},
		}

		err := (&main.SitemapCmd{URL: "https://example.com/sitemap.xml"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "HTTP 404 fetching sitemap")
	})
}

func TestRobotsCmd_Run(t *testing.T) {
	t.Parallel()

	deps, _, stderr := newDeps()
	deps.Policy = &mock.RobotsPolicy{
		CanFetchFn: func(context.Context, string) (bool, error) {
			return false, sitescribe.Errorf(sitescribe.EINVALID, "malformed URL")
		},
	}

	err := (&main.RobotsCmd{URL: "::"}).Run(deps)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "malformed URL")
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("exports with keyword front matter", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) { return "Body", nil },
		}
		var gotName string
		var gotMeta sitescribe.ExportMeta
		deps.Exporter = &mock.Exporter{
			WriteExportFn: func(name string, meta sitescribe.ExportMeta, body string) (string, error) {
				gotName, gotMeta = name, meta
				return "/out/estate-planning.md", nil
			},
		}

		err := (&main.GenerateCmd{Keyword: "estate planning", Type: "Blog Post", Length: "Long"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "estate planning", gotName)
		assert.Equal(t, "estate planning", gotMeta.Keyword)
		assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), gotMeta.Generated)
		assert.Equal(t, "Wrote /out/estate-planning.md\n", stdout.String())
	})

	t.Run("rejects a blank keyword before generating", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) {
				t.Fatal("generator called")
				return "", nil
			},
		}

		err := (&main.GenerateCmd{Keyword: "  "}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitescribe.EINVALID, sitescribe.ErrorCode(err))
	})

	t.Run("reports generation errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) {
				return "", sitescribe.Errorf(sitescribe.EFETCH, "quota exceeded")
			},
		}

		err := (&main.GenerateCmd{Keyword: "tax"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "quota exceeded")
	})
}

func TestRewriteCmd_Run(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com/": `<h1>Home</h1><p>We help small firms with their accounts every single year.</p>`,
	}

	t.Run("sends pages as a JSON request", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Crawler = staticCrawler(pages)
		var got sitescribe.GenerateRequest
		deps.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, req sitescribe.GenerateRequest) (string, error) {
				got = req
				return "```json\n{\"title\":\"Accounts\",\"sections\":[]}\n```", nil
			},
		}

		err := (&main.RewriteCmd{URL: "https://example.com/", MaxPages: 3}).Run(deps)

		require.NoError(t, err)
		assert.True(t, got.JSON)
		assert.Equal(t, sitescribe.RewriteSystemInstruction, got.System)
		assert.Contains(t, got.Prompt, "<url>https://example.com/</url>")
		assert.Contains(t, got.Prompt, sitescribe.DefaultRewriteInstructions)
		assert.Contains(t, stdout.String(), "# Accounts")
	})

	t.Run("keeps an unstructured answer", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Crawler = staticCrawler(pages)
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) {
				return "Plain prose answer.", nil
			},
		}

		err := (&main.RewriteCmd{URL: "https://example.com/", MaxPages: 3}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Plain prose answer.\n", stdout.String())
		assert.Contains(t, stderr.String(), "keeping raw answer")
	})

	t.Run("falls back to crawled content outside tolerance", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Crawler = staticCrawler(pages)
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) {
				return `{"title":"Short","sections":[]}`, nil
			},
		}

		err := (&main.RewriteCmd{URL: "https://example.com/", MaxPages: 3, Tolerance: 0.1}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "outside tolerance")
		assert.True(t, strings.Contains(stdout.String(), "We help small firms"))
	})

	t.Run("fails when nothing was crawled", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Crawler = staticCrawler(map[string]string{})
		deps.Generator = &mock.Generator{
			GenerateFn: func(context.Context, sitescribe.GenerateRequest) (string, error) {
				t.Fatal("generator called")
				return "", nil
			},
		}

		err := (&main.RewriteCmd{URL: "https://example.com/", MaxPages: 3}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitescribe.ENOTFOUND, sitescribe.ErrorCode(err))
	})
}
