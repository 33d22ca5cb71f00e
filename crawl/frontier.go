package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/bloom"
)

// Compile-time interface verification.
var _ sitescribe.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier that accepts each URL at most once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Set
	queue []string
}

// NewFrontier creates a new Frontier whose seen set is sized for n expected
// URLs with the given Bloom filter false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewSet(n, fpRate),
	}
}

// Push appends a URL to the back of the queue.
// Returns false if the URL has ever been pushed before, whether or not it
// has since been popped. Fragments are stripped before deduplication.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := stripFragment(rawURL)
	if !f.seen.Add(u) {
		return false
	}
	f.queue = append(f.queue, u)
	return true
}

// Pop removes and returns the URL at the front of the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued, whether or not it is still waiting.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Has(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	u, _, _ := strings.Cut(rawURL, "#")
	return u
}
