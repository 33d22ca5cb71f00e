package mock

import "github.com/fwojciec/sitescribe"

var _ sitescribe.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitescribe.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ sitescribe.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of sitescribe.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (string, error)
}

func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanFn(html)
}
