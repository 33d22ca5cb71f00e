package sitescribe

import (
	"net/url"
	"strings"
)

// CrawlTarget describes a single crawl invocation.
type CrawlTarget struct {
	StartURL string `json:"startUrl"`
	MaxPages int    `json:"maxPages"`

	// UseSitemap seeds the frontier with the site's sitemap URLs
	// after the start URL.
	UseSitemap bool `json:"useSitemap"`
}

// Validate returns an error if the target cannot start a crawl.
func (t CrawlTarget) Validate() error {
	if strings.TrimSpace(t.StartURL) == "" {
		return Errorf(EINVALID, "start URL required")
	}
	u, err := url.Parse(t.StartURL)
	if err != nil {
		return Errorf(EINVALID, "malformed start URL %q", t.StartURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "start URL %q must use http or https", t.StartURL)
	}
	if u.Hostname() == "" {
		return Errorf(EINVALID, "start URL %q has no host", t.StartURL)
	}
	if t.MaxPages < 1 {
		return Errorf(EINVALID, "max pages must be at least 1")
	}
	return nil
}
