package sitescribe_test

import (
	"testing"

	"github.com/fwojciec/sitescribe"
	"github.com/stretchr/testify/assert"
)

func TestComposePagesPrompt(t *testing.T) {
	t.Parallel()

	pages := []*sitescribe.PageRecord{
		{
			URL:   "https://example.com/",
			Units: []sitescribe.ContentUnit{sitescribe.Heading(1, "Home"), sitescribe.Paragraph("Welcome.")},
		},
		{
			URL:   "https://example.com/empty",
			Units: []sitescribe.ContentUnit{sitescribe.Paragraph("")},
		},
		{
			URL:   "https://example.com/about",
			Units: []sitescribe.ContentUnit{sitescribe.Paragraph("About us.")},
		},
	}

	prompt := sitescribe.ComposePagesPrompt(pages, "  Summarise.  ")

	t.Run("serialises pages in order", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, prompt, "<index>1</index>\n<url>https://example.com/</url>\n<content>\n# Home\n\nWelcome.\n</content>")
		assert.Contains(t, prompt, "<index>2</index>\n<url>https://example.com/about</url>")
	})

	t.Run("omits pages without text", func(t *testing.T) {
		t.Parallel()

		assert.NotContains(t, prompt, "https://example.com/empty")
	})

	t.Run("ends with trimmed instructions", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, prompt, "</pages>\n\nSummarise.")
	})
}

func TestDefaultRewriteInstructions_DescribesDocumentShape(t *testing.T) {
	t.Parallel()

	assert.Contains(t, sitescribe.DefaultRewriteInstructions, `"sections"`)
	assert.Contains(t, sitescribe.DefaultRewriteInstructions, `"paragraphs"`)
}
