// Package crawl provides same-domain breadth-first crawling.
// It coordinates politeness checks, fetching, structure extraction, and link
// following for a single crawl run.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/publicsuffix"
	"github.com/google/uuid"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the Bloom filter false positive rate.
	frontierFalsePositiveRate = 0.01
)

// State is the lifecycle state of a crawl run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Crawler walks a single registrable domain breadth-first, recording the
// extracted structure of every page it is allowed to fetch.
//
// Fetcher, Extractor, and Links are required. Policy, Sitemaps, Converter,
// Cleaner, RateLimiter, and Frontier are optional. Cleaner replaces
// Extractor.Clean as the input to Converter.
type Crawler struct {
	Fetcher     sitescribe.Fetcher
	Policy      sitescribe.RobotsPolicy
	Extractor   sitescribe.StructureExtractor
	Links       sitescribe.LinkExtractor
	Sitemaps    sitescribe.SitemapResolver
	Converter   sitescribe.Converter
	Cleaner     sitescribe.Cleaner
	RateLimiter sitescribe.DomainLimiter

	// Frontier returns an empty queue for a new run. Defaults to a
	// Bloom-filter backed Frontier.
	Frontier func() sitescribe.URLFrontier

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a crawl run.
type Result struct {
	RunID string
	State State

	// Pages holds one record per recorded page, in the order they were recorded.
	Pages []*sitescribe.PageRecord

	// Visited lists every URL dequeued, in dequeue order.
	Visited []string

	// Skipped lists URLs the robots policy disallowed.
	Skipped []string

	// Failed lists URLs whose fetch failed.
	Failed []string

	// Bytes is the total size of the fetched HTML of recorded pages.
	Bytes int
}

// Lookup returns the record for a page URL.
func (r *Result) Lookup(pageURL string) (*sitescribe.PageRecord, bool) {
	for _, p := range r.Pages {
		if p.URL == pageURL {
			return p, true
		}
	}
	return nil, false
}

// Units returns the recorded pages as a map from URL to content units.
func (r *Result) Units() map[string][]sitescribe.ContentUnit {
	m := make(map[string][]sitescribe.ContentUnit, len(r.Pages))
	for _, p := range r.Pages {
		m[p.URL] = p.Units
	}
	return m
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type     ProgressType
	Recorded int
	Limit    int
	Queued   int
	URL      string
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRecorded
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl runs a breadth-first crawl of target's registrable domain.
//
// A malformed target fails the run before any request is made; the returned
// Result is then in StateFailed alongside the error. Per-page failures never
// abort the run. If ctx is canceled the partial Result is returned in
// StateCanceled together with the context error.
func (c *Crawler) Crawl(ctx context.Context, target sitescribe.CrawlTarget, progress ProgressFunc) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), State: StateIdle}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	if err := target.Validate(); err != nil {
		result.State = StateFailed
		return result, err
	}
	seed := normalizeURL(target.StartURL)
	rootDomain, err := publicsuffix.RegistrableDomain(seed)
	if err != nil {
		result.State = StateFailed
		return result, err
	}

	result.State = StateRunning

	frontier := c.newFrontier()
	frontier.Push(seed)
	if target.UseSitemap && c.Sitemaps != nil {
		c.seedFromSitemaps(ctx, frontier, seed, rootDomain)
	}

	progress(ProgressEvent{Type: ProgressStarted, Limit: target.MaxPages, Queued: frontier.Len(), URL: seed})

	var stopErr error
	visited := make(map[string]bool)
	for len(result.Pages) < target.MaxPages {
		if ctx.Err() != nil {
			break
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true
		result.Visited = append(result.Visited, pageURL)

		event := ProgressEvent{Limit: target.MaxPages, URL: pageURL}

		if c.Policy != nil {
			allowed, err := c.Policy.CanFetch(ctx, pageURL)
			if err != nil {
				result.Failed = append(result.Failed, pageURL)
				event.Type, event.Error = ProgressFailed, err
				event.Recorded, event.Queued = len(result.Pages), frontier.Len()
				progress(event)
				continue
			}
			if !allowed {
				result.Skipped = append(result.Skipped, pageURL)
				event.Type = ProgressSkipped
				event.Error = sitescribe.Errorf(sitescribe.EPOLICY, "robots.txt disallows %s", pageURL)
				event.Recorded, event.Queued = len(result.Pages), frontier.Len()
				progress(event)
				continue
			}
		}

		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, rootDomain); err != nil {
				stopErr = err
				break
			}
		}

		html, err := c.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			result.Failed = append(result.Failed, pageURL)
			event.Type, event.Error = ProgressFailed, err
			event.Recorded, event.Queued = len(result.Pages), frontier.Len()
			progress(event)
			continue
		}

		result.Pages = append(result.Pages, c.record(pageURL, html, now()))
		result.Bytes += len(html)

		if len(result.Pages) < target.MaxPages {
			c.enqueueLinks(frontier, html, pageURL, rootDomain)
		}

		event.Type = ProgressRecorded
		event.Recorded, event.Queued = len(result.Pages), frontier.Len()
		progress(event)
	}

	if stopErr == nil {
		stopErr = ctx.Err()
	}
	if err := stopErr; err != nil {
		result.State = StateCanceled
		progress(ProgressEvent{Type: ProgressFinished, Recorded: len(result.Pages), Limit: target.MaxPages, Error: err})
		return result, err
	}

	result.State = StateCompleted
	progress(ProgressEvent{Type: ProgressFinished, Recorded: len(result.Pages), Limit: target.MaxPages})
	return result, nil
}

// record builds the page record for a fetched page. Extraction failures
// degrade to an empty unit sequence.
func (c *Crawler) record(pageURL, html string, fetchedAt time.Time) *sitescribe.PageRecord {
	units, err := c.Extractor.Extract(html)
	if err != nil {
		units = nil
	}

	page := &sitescribe.PageRecord{
		URL:       pageURL,
		Units:     units,
		Hash:      HashUnits(units),
		FetchedAt: fetchedAt,
	}

	if c.Converter != nil {
		if cleaned, err := c.clean(html); err == nil {
			if md, err := c.Converter.Convert(cleaned); err == nil {
				page.Markdown = md
			}
		}
	}
	return page
}

func (c *Crawler) newFrontier() sitescribe.URLFrontier {
	if c.Frontier != nil {
		return c.Frontier()
	}
	return NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
}

func (c *Crawler) clean(html string) (string, error) {
	if c.Cleaner != nil {
		return c.Cleaner.Clean(html)
	}
	return c.Extractor.Clean(html)
}

// enqueueLinks pushes every in-scope link on the page onto the frontier.
// The frontier drops URLs that were already visited or queued.
func (c *Crawler) enqueueLinks(frontier sitescribe.URLFrontier, html, pageURL, rootDomain string) {
	links, err := c.Links.ExtractLinks(html, pageURL)
	if err != nil {
		return
	}
	for _, link := range links {
		if u := normalizeURL(link); u != "" && publicsuffix.InScope(u, rootDomain) {
			frontier.Push(u)
		}
	}
}

// seedFromSitemaps queues the site's sitemap URLs behind the seed.
// Sitemap problems never fail the run.
func (c *Crawler) seedFromSitemaps(ctx context.Context, frontier sitescribe.URLFrontier, seed, rootDomain string) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, nil)
	if err != nil {
		return
	}
	for _, u := range urls {
		if n := normalizeURL(u); n != "" && publicsuffix.InScope(n, rootDomain) {
			frontier.Push(n)
		}
	}
}

// normalizeURL lower-cases the scheme and host, defaults an empty path to
// "/", and strips the fragment. Returns "" for unparsable or relative URLs.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
