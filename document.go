package sitescribe

import (
	"encoding/json"
	"strings"
)

// Document is the structured output of a rewrite generation.
type Document struct {
	Title    string            `json:"title"`
	Sections []DocumentSection `json:"sections"`
}

// DocumentSection is one heading with its paragraphs.
type DocumentSection struct {
	Heading    string   `json:"heading"`
	Level      int      `json:"level"`
	Paragraphs []string `json:"paragraphs"`
}

// Validate returns an error if the document carries no content.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" && len(d.Sections) == 0 {
		return Errorf(EPARSE, "document has no title and no sections")
	}
	return nil
}

// Units flattens the document back into content units.
// Section levels outside 1-6 default to 2.
func (d *Document) Units() []ContentUnit {
	var units []ContentUnit
	if d.Title != "" {
		units = append(units, Heading(1, d.Title))
	}
	for _, s := range d.Sections {
		level := s.Level
		if level < 1 || level > 6 {
			level = 2
		}
		if s.Heading != "" {
			units = append(units, Heading(level, s.Heading))
		}
		for _, p := range s.Paragraphs {
			units = append(units, Paragraph(p))
		}
	}
	return units
}

// ParseDocument decodes a generation answer into a Document.
// A surrounding markdown code fence is tolerated. Malformed JSON or an empty
// document is reported as EPARSE so the caller can fall back.
func ParseDocument(text string) (*Document, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return nil, Errorf(EPARSE, "empty generation response")
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, Errorf(EPARSE, "generation response is not valid JSON: %v", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// stripCodeFence removes a leading ``` or ```json line and a trailing ```.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
