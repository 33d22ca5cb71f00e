package sitescribe

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a single GET and returns the response body.
	// Any non-200 status, timeout or transport failure is reported as an
	// EFETCH error; callers treat it as an absent page.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RobotsPolicy decides whether a URL may be fetched under the target host's
// robots exclusion rules.
type RobotsPolicy interface {
	// CanFetch evaluates the URL against the generic ("*") user agent.
	// An unreachable or unparsable robots.txt is treated as allowing everything.
	CanFetch(ctx context.Context, url string) (bool, error)
}

// URLFrontier manages a FIFO crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the back of the queue.
	// Returns false if the URL has already been pushed during this run.
	Push(url string) bool

	// Pop removes and returns the URL at the front of the queue.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs waiting in the queue.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
