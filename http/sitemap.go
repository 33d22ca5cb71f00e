package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitescribe"
	"golang.org/x/sync/errgroup"
)

// DefaultSitemapTimeout is the default timeout for sitemap and robots.txt requests.
const DefaultSitemapTimeout = 10 * time.Second

const (
	// maxSitemapDepth bounds sitemap index nesting.
	maxSitemapDepth = 5
	// sitemapConcurrency limits child sitemaps fetched at once per index.
	sitemapConcurrency = 4
	// maxSitemapBytes caps a single sitemap body (the protocol limit is 50 MiB).
	maxSitemapBytes = 50 << 20
)

// Ensure SitemapResolver implements sitescribe.SitemapResolver.
var _ sitescribe.SitemapResolver = (*SitemapResolver)(nil)

// RobotsSitemaps lists the Sitemap directives of an origin's robots.txt.
type RobotsSitemaps interface {
	Sitemaps(ctx context.Context, origin string) []string
}

// SitemapResolver resolves sitemaps into page URLs via HTTP.
type SitemapResolver struct {
	client *http.Client

	// Robots, if set, supplies the sitemaps declared in robots.txt.
	// Discovery otherwise only probes /sitemap.xml.
	Robots RobotsSitemaps

	// UserAgent is sent with every request. Defaults to DefaultUserAgent.
	UserAgent string

	// OnSkip, if set, is called for each child sitemap of an index that
	// could not be fetched or parsed. Such children are otherwise ignored.
	OnSkip func(sitemapURL string, err error)
}

// NewSitemapResolver creates a new SitemapResolver with the given HTTP client.
// If client is nil, a client with DefaultSitemapTimeout is used.
func NewSitemapResolver(client *http.Client) *SitemapResolver {
	if client == nil {
		client = &http.Client{Timeout: DefaultSitemapTimeout}
	}
	return &SitemapResolver{client: client, UserAgent: DefaultUserAgent}
}

// ResolveSitemap fetches the sitemap at sitemapURL and returns the
// deduplicated page URLs it lists, following sitemap indexes.
//
// A non-2xx status or a non-XML content type is reported as EFETCH.
// Malformed XML is re-read with a permissive parser before giving up with EPARSE.
func (s *SitemapResolver) ResolveSitemap(ctx context.Context, sitemapURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &resolution{seen: make(map[string]bool), urls: make(map[string]bool)}
	r.seen[sitemapURL] = true
	if err := s.resolve(ctx, r, sitemapURL, 0); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(r.urls))
	for u := range r.urls {
		urls = append(urls, u)
	}
	return urls, nil
}

// resolution is the shared state of one ResolveSitemap call.
type resolution struct {
	mu   sync.Mutex
	seen map[string]bool // sitemap URLs already scheduled
	urls map[string]bool // page URLs collected
}

// claim marks a sitemap URL as scheduled. Returns false if it already was.
func (r *resolution) claim(sitemapURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[sitemapURL] {
		return false
	}
	r.seen[sitemapURL] = true
	return true
}

func (r *resolution) add(urls []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range urls {
		r.urls[u] = true
	}
}

func (s *SitemapResolver) resolve(ctx context.Context, r *resolution, sitemapURL string, depth int) error {
	body, err := s.fetchXML(ctx, sitemapURL)
	if err != nil {
		return err
	}

	doc, err := parseSitemap(body)
	if err != nil {
		return sitescribe.Errorf(sitescribe.EPARSE, "parsing sitemap %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root.Tag != "sitemapindex" {
		r.add(locs(root, "url"))
		return nil
	}

	if depth >= maxSitemapDepth {
		return sitescribe.Errorf(sitescribe.EPARSE, "sitemap index %s nested deeper than %d levels", sitemapURL, maxSitemapDepth)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sitemapConcurrency)
	for _, child := range locs(root, "sitemap") {
		if !r.claim(child) {
			continue
		}
		g.Go(func() error {
			if err := s.resolve(gctx, r, child, depth+1); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if s.OnSkip != nil {
					s.OnSkip(child, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// parseSitemap parses strictly first and falls back to etree's permissive
// mode, keeping whatever tree it managed to build.
func parseSitemap(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	err := doc.ReadFromBytes(body)
	if err == nil && doc.Root() != nil {
		return doc, nil
	}

	lenient := etree.NewDocument()
	lenient.ReadSettings.Permissive = true
	lerr := lenient.ReadFromBytes(body)
	if lenient.Root() != nil {
		return lenient, nil
	}
	if lerr == nil {
		lerr = err
	}
	if lerr == nil {
		return nil, sitescribe.Errorf(sitescribe.EPARSE, "empty sitemap XML")
	}
	return nil, lerr
}

// locs returns the trimmed <loc> text of every child element named tag.
// Entries with a missing or empty <loc> are skipped.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.ChildElements() {
		if el.Tag != tag {
			continue
		}
		for _, child := range el.ChildElements() {
			if child.Tag != "loc" {
				continue
			}
			if loc := strings.TrimSpace(child.Text()); loc != "" {
				out = append(out, loc)
			}
			break
		}
	}
	return out
}

// fetchXML GETs targetURL and returns its body, requiring a 2xx status and
// an XML-like content type.
func (s *SitemapResolver) fetchXML(ctx context.Context, targetURL string) ([]byte, error) {
	resp, err := s.get(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, sitescribe.Errorf(sitescribe.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	if ct := resp.Header.Get("Content-Type"); !isXMLContentType(ct) {
		return nil, sitescribe.Errorf(sitescribe.EFETCH, "%s is not XML (content type %q)", targetURL, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, sitescribe.Errorf(sitescribe.EFETCH, "reading %s: %v", targetURL, err)
	}
	return body, nil
}

func isXMLContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "xml")
}

func (s *SitemapResolver) get(ctx context.Context, targetURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, sitescribe.Errorf(sitescribe.EFETCH, "creating request for %s: %v", targetURL, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sitescribe.Errorf(sitescribe.EFETCH, "GET %s: %v", targetURL, err)
	}
	return resp, nil
}

// DiscoverURLs finds all URLs from a site's sitemaps.
// Returns an empty slice (not nil) if no sitemaps are found.
//
// When baseURL has a non-root path (e.g., https://example.com/blog/),
// only URLs with paths starting with that prefix are returned.
func (s *SitemapResolver) DiscoverURLs(ctx context.Context, baseURL string, filter *sitescribe.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, sitescribe.Errorf(sitescribe.EINVALID, "invalid base URL %q", baseURL)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	// For sitemap discovery, use the root of the domain (strip any path)
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemapURLs, err := s.findSitemapURLs(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return []string{}, nil
	}

	var allURLs []string
	seenURLs := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		urls, err := s.ResolveSitemap(ctx, sitemapURL)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if seenURLs[u] {
				continue
			}
			seenURLs[u] = true
			if pathPrefix != "" && !matchesPathPrefix(u, pathPrefix) {
				continue
			}
			if !filter.Match(u) {
				continue
			}
			allURLs = append(allURLs, u)
		}
	}

	if allURLs == nil {
		return []string{}, nil
	}
	return allURLs, nil
}

// matchesPathPrefix checks if a URL's path starts with the given prefix,
// respecting path boundaries (/blog matches /blog/ and /blog/post but not /blogroll).
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path+"/" == prefix
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapResolver) findSitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	if s.Robots != nil {
		if sitemaps := s.Robots.Sitemaps(ctx, root.String()); len(sitemaps) > 0 {
			return sitemaps, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sitemapURL := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}
	return nil, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapResolver) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
