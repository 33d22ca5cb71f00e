package sitescribe

import (
	"fmt"
	"strings"
)

// RewriteSystemInstruction is the system instruction sent with page prompts.
const RewriteSystemInstruction = "You are a professional content strategist. Work only from the website content provided."

// DefaultRewriteInstructions asks the model to restructure crawled content
// into a Document-shaped JSON answer.
const DefaultRewriteInstructions = `Rewrite the website content above as one well-structured article in UK English.
Keep the facts from the pages and remove repetition.
Answer with JSON only, using this shape:
{"title": string, "sections": [{"heading": string, "level": 2, "paragraphs": [string]}]}`

// ComposePagesPrompt builds a user prompt embedding crawled pages followed by
// the caller's instructions. Pages with no text are omitted.
func ComposePagesPrompt(pages []*PageRecord, instructions string) string {
	var sb strings.Builder
	sb.WriteString("<pages>\n")
	n := 0
	for _, page := range pages {
		text := page.Text()
		if text == "" {
			continue
		}
		n++
		sb.WriteString("<page>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", n)
		fmt.Fprintf(&sb, "<url>%s</url>\n", page.URL)
		fmt.Fprintf(&sb, "<content>\n%s\n</content>\n", text)
		sb.WriteString("</page>\n")
	}
	sb.WriteString("</pages>\n\n")
	sb.WriteString(strings.TrimSpace(instructions))
	return sb.String()
}
