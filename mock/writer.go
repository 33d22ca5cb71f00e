package mock

import (
	"context"

	"github.com/fwojciec/sitescribe"
)

var _ sitescribe.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of sitescribe.Exporter.
type Exporter struct {
	WriteExportFn func(name string, meta sitescribe.ExportMeta, body string) (string, error)
}

func (e *Exporter) WriteExport(name string, meta sitescribe.ExportMeta, body string) (string, error) {
	return e.WriteExportFn(name, meta, body)
}

var _ sitescribe.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of sitescribe.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *sitescribe.PageRecord) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *sitescribe.PageRecord) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}
