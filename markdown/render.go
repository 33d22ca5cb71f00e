// Package markdown renders crawl results and generated documents as markdown
// using github.com/nao1215/markdown.
package markdown

import (
	"io"

	"github.com/fwojciec/sitescribe"
	"github.com/nao1215/markdown"
)

// RenderPages writes one section per page: an H2 with the page URL followed
// by the page's content. Pages carrying a markdown conversion are written
// verbatim; otherwise their units are rendered as headings and paragraphs.
func RenderPages(w io.Writer, pages []*sitescribe.PageRecord) error {
	md := markdown.NewMarkdown(w)
	for _, page := range pages {
		md.H2(page.URL)
		md.PlainText("")
		if page.Markdown != "" {
			md.PlainText(page.Markdown)
			md.PlainText("")
			continue
		}
		if len(page.Units) == 0 {
			md.PlainText("_No content extracted._")
			md.PlainText("")
			continue
		}
		writeUnits(md, page.Units)
	}
	return md.Build()
}

// RenderDocument writes a generated document: the title as H1 and each
// section heading at its own level.
func RenderDocument(w io.Writer, doc *sitescribe.Document) error {
	md := markdown.NewMarkdown(w)
	writeUnits(md, doc.Units())
	return md.Build()
}

func writeUnits(md *markdown.Markdown, units []sitescribe.ContentUnit) {
	for _, u := range units {
		if u.Text == "" {
			continue
		}
		if !u.IsHeading() {
			md.PlainText(u.Text)
			md.PlainText("")
			continue
		}
		heading(md, u.Level, u.Text)
		md.PlainText("")
	}
}

func heading(md *markdown.Markdown, level int, text string) {
	switch level {
	case 1:
		md.H1(text)
	case 2:
		md.H2(text)
	case 3:
		md.H3(text)
	case 4:
		md.H4(text)
	case 5:
		md.H5(text)
	default:
		md.H6(text)
	}
}
