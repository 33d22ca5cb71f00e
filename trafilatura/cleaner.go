// Package trafilatura isolates the main content of a page with
// go-trafilatura, for the markdown variant of a crawl.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitescribe"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Cleaner implements sitescribe.Cleaner at compile time.
var _ sitescribe.Cleaner = (*Cleaner)(nil)

// Cleaner keeps only the main content of a page, dropping navigation,
// sidebars, comments and other chrome that a fixed tag list misses.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the page's main content as HTML. Pages where no main content
// can be found yield an empty string.
func (c *Cleaner) Clean(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EPARSE, "extracting main content: %v", err)
	}
	if result == nil || result.ContentNode == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return "", sitescribe.Errorf(sitescribe.EPARSE, "rendering main content: %v", err)
	}
	return buf.String(), nil
}
