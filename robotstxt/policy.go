// Package robotstxt provides a robots exclusion policy backed by
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/sitescribe"
	"github.com/temoto/robotstxt"
)

// DefaultTimeout bounds a single robots.txt request.
const DefaultTimeout = 10 * time.Second

// agent is the user agent group evaluated for every URL.
const agent = "*"

// maxRobotsBytes caps how much of a robots.txt body is read.
const maxRobotsBytes = 512 << 10

// Ensure Policy implements sitescribe.RobotsPolicy at compile time.
var _ sitescribe.RobotsPolicy = (*Policy)(nil)

// Policy evaluates URLs against their origin's robots.txt.
// Results are cached per origin and the cache is safe to share between
// concurrent crawl runs.
//
// A robots.txt that cannot be fetched, answers with a non-200 status, or does
// not parse is treated as allowing everything.
type Policy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

// Option configures a Policy.
type Option func(*Policy)

// WithClient sets the HTTP client used to fetch robots.txt.
func WithClient(c *http.Client) Option {
	return func(p *Policy) {
		p.client = c
	}
}

// WithUserAgent sets the User-Agent header sent when fetching robots.txt.
func WithUserAgent(ua string) Option {
	return func(p *Policy) {
		p.userAgent = ua
	}
}

// NewPolicy creates a new Policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		cache: make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: DefaultTimeout}
	}
	return p
}

// CanFetch reports whether rawURL may be fetched by a generic user agent.
func (p *Policy) CanFetch(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false, sitescribe.Errorf(sitescribe.EINVALID, "malformed URL %q", rawURL)
	}

	data := p.rules(ctx, u.Scheme+"://"+u.Host)
	if data == nil {
		return true, nil
	}
	return data.TestAgent(u.RequestURI(), agent), nil
}

// Sitemaps returns the Sitemap directives declared in the origin's robots.txt.
func (p *Policy) Sitemaps(ctx context.Context, origin string) []string {
	data := p.rules(ctx, origin)
	if data == nil {
		return nil
	}
	return data.Sitemaps
}

// rules returns cached robots data for the origin, fetching it on first use.
// A nil result means no restrictions.
func (p *Policy) rules(ctx context.Context, origin string) *robotstxt.RobotsData {
	p.mu.Lock()
	data, ok := p.cache[origin]
	p.mu.Unlock()
	if ok {
		return data
	}

	data = p.fetch(ctx, origin)

	// Cancellation is not a property of the origin, so don't cache it.
	if ctx.Err() != nil {
		return data
	}

	p.mu.Lock()
	p.cache[origin] = data
	p.mu.Unlock()
	return data
}

func (p *Policy) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}
