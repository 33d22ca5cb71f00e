// Package http provides net/http implementations of sitescribe.Fetcher and
// sitescribe.SitemapResolver.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 15 * time.Second

// DefaultUserAgent identifies the crawler to the sites it visits.
const DefaultUserAgent = "sitescribe/1.0 (+https://github.com/fwojciec/sitescribe)"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// maxRedirects bounds the redirect chain of a single fetch.
const maxRedirects = 10

// Ensure Fetcher implements sitescribe.Fetcher at compile time.
var _ sitescribe.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using a single HTTP GET.
// It does not execute JavaScript, retry, or send cookies.
//
// Redirects are followed only within the registrable domain of the requested
// URL. With a robots policy configured, every redirect target must also be
// allowed by it.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	policy    sitescribe.RobotsPolicy
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRobotsPolicy checks redirect targets against p.
func WithRobotsPolicy(p sitescribe.RobotsPolicy) Option {
	return func(f *Fetcher) {
		f.policy = p
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:       f.timeout,
		CheckRedirect: f.checkRedirect,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
// Failures are reported with code EFETCH, or EPOLICY when a redirect
// target is disallowed by the robots policy.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EFETCH, "creating request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		var serr *sitescribe.Error
		if errors.As(err, &serr) {
			return "", serr
		}
		return "", sitescribe.Errorf(sitescribe.EFETCH, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", sitescribe.Errorf(sitescribe.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EFETCH, "reading %s: %v", url, err)
	}

	return string(body), nil
}

// checkRedirect refuses redirects that leave the original request's
// registrable domain or that the robots policy disallows.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return sitescribe.Errorf(sitescribe.EFETCH, "stopped after %d redirects", maxRedirects)
	}
	origin := via[0].URL.String()
	target := req.URL.String()

	from, err := publicsuffix.RegistrableDomain(origin)
	if err != nil {
		return err
	}
	to, err := publicsuffix.RegistrableDomain(target)
	if err != nil || to != from {
		return sitescribe.Errorf(sitescribe.EFETCH, "%s redirects off-domain to %s", origin, target)
	}

	if f.policy != nil {
		allowed, err := f.policy.CanFetch(req.Context(), target)
		if err != nil {
			return err
		}
		if !allowed {
			return sitescribe.Errorf(sitescribe.EPOLICY, "%s redirects to %s, disallowed by robots.txt", origin, target)
		}
	}
	return nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
