package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/sitescribe"
)

// Ensure FileStore implements sitescribe.PageStore at compile time.
var _ sitescribe.PageStore = (*FileStore)(nil)

// pageFrontMatter is the front matter of a saved page.
type pageFrontMatter struct {
	Source  string    `yaml:"source"`
	Hash    string    `yaml:"hash"`
	Crawled time.Time `yaml:"crawled"`
	Units   int       `yaml:"units"`
}

// FileStore implements sitescribe.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
//
// Pages on the host of the first saved page are laid out from the output
// root; pages on any other host go under a directory named after that host.
// When two URLs map to the same file, the later one gets a hash of its URL
// appended to the file name.
type FileStore struct {
	baseDir     string
	name        string
	primaryHost string

	// owners maps each written path to the URL saved there.
	owners map[string]string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		owners:  make(map[string]string),
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page's markdown, or its flattened text when no markdown
// was produced, with YAML front matter.
func (s *FileStore) Save(ctx context.Context, page *sitescribe.PageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := s.pagePath(page.URL)
	if err != nil {
		return err
	}

	body := page.Markdown
	if body == "" {
		body = page.Text()
	}
	content, err := FrontMatter(pageFrontMatter{
		Source:  page.URL,
		Hash:    page.Hash,
		Crawled: page.FetchedAt.UTC(),
		Units:   len(page.Units),
	}, body)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating page directory: %w", err)
	}
	return os.WriteFile(fullPath, content, 0644)
}

func (s *FileStore) pagePath(rawURL string) (string, error) {
	relPath, err := URLToPath(rawURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if s.primaryHost == "" {
		s.primaryHost = host
	}
	if host != s.primaryHost {
		relPath = host + "/" + relPath
	}
	if owner, ok := s.owners[relPath]; ok && owner != rawURL {
		relPath = withSuffix(relPath, shortHash(rawURL))
	}
	s.owners[relPath] = rawURL
	return filepath.FromSlash(relPath), nil
}

// Commit replaces the output directory with everything saved so far.
func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Nothing saved: leave an empty output directory
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return os.MkdirAll(s.finalDir(), 0755)
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved so far.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
