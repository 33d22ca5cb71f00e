package sitescribe

import (
	"strings"
	"time"
)

// ContentKind identifies the type of a ContentUnit.
type ContentKind string

// Content unit kinds.
const (
	KindHeading   ContentKind = "heading"
	KindParagraph ContentKind = "paragraph"
)

// ContentUnit is one typed fragment of a page's textual structure.
// Level is 1-6 for headings and 0 for paragraphs.
type ContentUnit struct {
	Kind  ContentKind `json:"kind"`
	Level int         `json:"level,omitempty"`
	Text  string      `json:"text"`
}

// Heading returns a heading unit. Levels outside 1-6 are clamped.
func Heading(level int, text string) ContentUnit {
	level = max(1, min(level, 6))
	return ContentUnit{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph returns a paragraph unit.
func Paragraph(text string) ContentUnit {
	return ContentUnit{Kind: KindParagraph, Text: text}
}

// IsHeading reports whether the unit is a heading.
func (u ContentUnit) IsHeading() bool {
	return u.Kind == KindHeading
}

// PageRecord holds the extracted structure of one successfully fetched,
// in-scope, robots-permitted page. Records are not mutated after the crawl
// controller creates them.
type PageRecord struct {
	URL       string        `json:"url"`
	Units     []ContentUnit `json:"units"`
	Markdown  string        `json:"markdown,omitempty"`
	Hash      string        `json:"hash"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// Text returns the page's units flattened to a single text blob.
func (p *PageRecord) Text() string {
	return FlattenUnits(p.Units)
}

// FlattenUnits joins units into a text blob separated by blank lines.
// Headings are prefixed with one '#' per level. Empty units are skipped.
func FlattenUnits(units []ContentUnit) string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		if u.Text == "" {
			continue
		}
		if u.IsHeading() {
			parts = append(parts, strings.Repeat("#", u.Level)+" "+u.Text)
			continue
		}
		parts = append(parts, u.Text)
	}
	return strings.Join(parts, "\n\n")
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
