package sitescribe

import (
	"fmt"
	"strings"
)

// ContentType is the kind of copy requested in a ContentBrief.
type ContentType string

// Supported content types.
const (
	ContentBlogPost    ContentType = "Blog Post"
	ContentServicePage ContentType = "Service Page"
	ContentLandingPage ContentType = "Landing Page"
	ContentFAQ         ContentType = "FAQ"
)

// ContentTypes lists the supported content types in display order.
var ContentTypes = []ContentType{ContentBlogPost, ContentServicePage, ContentLandingPage, ContentFAQ}

// ContentLength is the requested size of generated copy.
type ContentLength string

// Supported content lengths.
const (
	LengthShort    ContentLength = "Short"
	LengthStandard ContentLength = "Standard"
	LengthLong     ContentLength = "Long"
)

// WordCount returns the word-count guidance given to the model.
func (l ContentLength) WordCount() string {
	switch l {
	case LengthShort:
		return "300–500 words"
	case LengthLong:
		return "1000+ words"
	default:
		return "600–800 words"
	}
}

// ContentBrief is the request-scoped input for keyword-driven generation.
type ContentBrief struct {
	ContentType   ContentType   `json:"contentType"`
	Keyword       string        `json:"keyword"`
	Length        ContentLength `json:"length"`
	Audience      string        `json:"audience"`
	Tone          string        `json:"tone"`
	CallsToAction []string      `json:"callsToAction"`
}

// Validate returns an error if the brief cannot produce a prompt.
func (b *ContentBrief) Validate() error {
	if strings.TrimSpace(b.Keyword) == "" {
		return Errorf(EINVALID, "keyword required")
	}
	switch b.ContentType {
	case "", ContentBlogPost, ContentServicePage, ContentLandingPage, ContentFAQ:
	default:
		return Errorf(EINVALID, "unsupported content type %q", b.ContentType)
	}
	switch b.Length {
	case "", LengthShort, LengthStandard, LengthLong:
	default:
		return Errorf(EINVALID, "unsupported content length %q", b.Length)
	}
	return nil
}

// BriefSystemInstruction is the system instruction sent with brief prompts.
const BriefSystemInstruction = "You are a professional UK copywriter."

// Defaults applied by ComposeBriefPrompt to empty brief fields.
const (
	DefaultAudience = "a professional services firm's website"
	DefaultTone     = "formal, professional, informative and reassuring"
)

// ComposeBriefPrompt builds the user prompt for a ContentBrief.
func ComposeBriefPrompt(b ContentBrief) string {
	contentType := b.ContentType
	if contentType == "" {
		contentType = ContentBlogPost
	}
	length := b.Length
	if length == "" {
		length = LengthStandard
	}
	audience := b.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	tone := b.Tone
	if tone == "" {
		tone = DefaultTone
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s %s about %q for %s. ",
		strings.ToLower(string(length)), strings.ToLower(string(contentType)), strings.TrimSpace(b.Keyword), audience)
	sb.WriteString("Use UK English spelling. ")
	fmt.Fprintf(&sb, "The tone must be %s. ", tone)
	fmt.Fprintf(&sb, "Structure the content with clear headings and paragraphs. Aim for %s. ", length.WordCount())
	sb.WriteString("Incorporate the keyword and closely related terms naturally throughout. ")
	sb.WriteString("Make it SEO-friendly and accessible to the general public. ")
	sb.WriteString("Ensure originality; do not copy existing sources.")
	if len(b.CallsToAction) > 0 {
		quoted := make([]string, len(b.CallsToAction))
		for i, cta := range b.CallsToAction {
			quoted[i] = fmt.Sprintf("'%s'", cta)
		}
		if len(quoted) == 1 {
			fmt.Fprintf(&sb, " Include a strong call-to-action: %s. ", quoted[0])
			sb.WriteString("Place it in a logical position like the introduction or conclusion.")
		} else {
			fmt.Fprintf(&sb, " Include at least two strong calls-to-action such as: %s. ", strings.Join(quoted, " or "))
			sb.WriteString("Place CTAs in logical positions like the introduction and/or conclusion.")
		}
	}
	return sb.String()
}
