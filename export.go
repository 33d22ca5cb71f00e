package sitescribe

import (
	"context"
	"time"
)

// ExportMeta is the front matter written at the top of an exported file.
type ExportMeta struct {
	Source    string    `yaml:"source,omitempty"`
	Keyword   string    `yaml:"keyword,omitempty"`
	Generated time.Time `yaml:"generated"`
	Pages     int       `yaml:"pages,omitempty"`
}

// Exporter writes a rendered markdown body to durable storage.
type Exporter interface {
	// WriteExport writes body under name with meta as front matter and
	// returns the path written.
	WriteExport(name string, meta ExportMeta, body string) (string, error)
}

// PageStore persists crawled pages for a single run. Saved pages become
// visible only after Commit.
type PageStore interface {
	Save(ctx context.Context, page *PageRecord) error
	Commit() error
	Abort() error
}
