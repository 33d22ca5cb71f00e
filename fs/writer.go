// Package fs provides file-based storage for crawl output and exports.
package fs

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitescribe"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/services/audit → services/audit.md
//
// A query string adds a short hash of the query to the file name, so
// /list?page=2 maps to list-<hash>.md. Fragments are ignored.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	rel, ok := pathOf(u.Path)
	if !ok {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "path traversal in %q", rawURL)
	}
	if u.RawQuery != "" {
		rel = withSuffix(rel, shortHash(u.RawQuery))
	}
	return rel, nil
}

// pathOf maps a URL path to a relative file path. It reports false when the
// path contains a ".." segment.
func pathOf(p string) (string, bool) {
	// Handle root or trailing slash → index.md
	if p == "" || p == "/" {
		return "index.md", true
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}

	trailing := strings.HasSuffix(p, "/")
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" {
		return "index.md", true
	}

	// Trailing slash becomes index.md in that directory
	if trailing {
		return rel + "/index.md", true
	}
	return strings.TrimSuffix(rel, ".html") + ".md", true
}

// withSuffix inserts "-suffix" before the .md extension.
func withSuffix(rel, suffix string) string {
	return strings.TrimSuffix(rel, ".md") + "-" + suffix + ".md"
}

// shortHash returns the first 8 hex digits of the xxhash of s.
func shortHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))[:8]
}

// FrontMatter renders v as a YAML front matter block followed by body.
func FrontMatter(v any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, sitescribe.Errorf(sitescribe.EINTERNAL, "encoding front matter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return nil, sitescribe.Errorf(sitescribe.EINTERNAL, "encoding front matter: %v", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s and replaces every run of other characters with '-'.
func Slug(s string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}

// Ensure Writer implements sitescribe.Exporter at compile time.
var _ sitescribe.Exporter = (*Writer)(nil)

// Writer writes exports as markdown files to a directory.
type Writer struct {
	baseDir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, Now: time.Now}
}

// WriteExport writes body to <baseDir>/<slug of name>.md with meta as YAML
// front matter. A zero meta.Generated is stamped with the current time.
func (w *Writer) WriteExport(name string, meta sitescribe.ExportMeta, body string) (string, error) {
	slug := Slug(name)
	if slug == "" {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "export name %q has no usable characters", name)
	}
	if meta.Generated.IsZero() {
		meta.Generated = w.Now().UTC().Truncate(time.Second)
	}

	content, err := FrontMatter(meta, body)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	fullPath := filepath.Join(w.baseDir, slug+".md")
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return fullPath, nil
}
