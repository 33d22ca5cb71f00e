package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitescribe"
)

// Ensure Extractor implements sitescribe.StructureExtractor.
var _ sitescribe.StructureExtractor = (*Extractor)(nil)

// boilerplateSelector matches subtrees whose text never counts as content.
const boilerplateSelector = "script, style, nav, footer, header, form, iframe"

// contentSelector matches the tags that become content units.
const contentSelector = "h1, h2, h3, h4, h5, h6, p"

// Extractor turns HTML into an ordered sequence of headings and paragraphs.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract removes boilerplate subtrees and returns one unit per heading or
// paragraph in document order. Units whose normalised text is empty are kept.
func (e *Extractor) Extract(html string) ([]sitescribe.ContentUnit, error) {
	doc, err := parseClean(html)
	if err != nil {
		return nil, err
	}

	var units []sitescribe.ContentUnit
	doc.Find(contentSelector).Each(func(_ int, sel *goquery.Selection) {
		text := sitescribe.NormalizeSpace(sel.Text())
		if level := headingLevel(goquery.NodeName(sel)); level > 0 {
			units = append(units, sitescribe.Heading(level, text))
			return
		}
		units = append(units, sitescribe.Paragraph(text))
	})
	return units, nil
}

// Clean removes boilerplate subtrees and returns the inner HTML of <body>.
func (e *Extractor) Clean(html string) (string, error) {
	doc, err := parseClean(html)
	if err != nil {
		return "", err
	}

	body, err := doc.Find("body").First().Html()
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EPARSE, "failed to render HTML: %v", err)
	}
	return strings.TrimSpace(body), nil
}

func parseClean(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitescribe.Errorf(sitescribe.EPARSE, "failed to parse HTML: %v", err)
	}
	doc.Find(boilerplateSelector).Remove()
	return doc, nil
}

// headingLevel returns 1-6 for h1-h6 and 0 for anything else.
func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}
