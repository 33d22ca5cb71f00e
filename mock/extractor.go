package mock

import "github.com/fwojciec/sitescribe"

var _ sitescribe.StructureExtractor = (*StructureExtractor)(nil)

// StructureExtractor is a mock implementation of sitescribe.StructureExtractor.
type StructureExtractor struct {
	ExtractFn func(html string) ([]sitescribe.ContentUnit, error)
	CleanFn   func(html string) (string, error)
}

func (e *StructureExtractor) Extract(html string) ([]sitescribe.ContentUnit, error) {
	return e.ExtractFn(html)
}

func (e *StructureExtractor) Clean(html string) (string, error) {
	return e.CleanFn(html)
}

var _ sitescribe.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitescribe.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
