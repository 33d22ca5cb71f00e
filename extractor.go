package sitescribe

// StructureExtractor turns fetched HTML into an ordered sequence of content units.
type StructureExtractor interface {
	// Extract removes boilerplate subtrees (script, style, nav, footer,
	// header, form, iframe) and returns one unit per heading (h1-h6) or
	// paragraph in document order.
	Extract(html string) ([]ContentUnit, error)

	// Clean applies the same boilerplate removal and returns the remaining
	// body HTML.
	Clean(html string) (string, error)
}

// LinkExtractor extracts outbound links from HTML.
type LinkExtractor interface {
	// ExtractLinks returns absolute URLs of every anchor in the page,
	// resolved against baseURL, fragments stripped, in document order.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// Cleaner reduces a page to its main content HTML before conversion.
type Cleaner interface {
	Clean(html string) (string, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from StructureExtractor.Clean).
	Convert(html string) (string, error)
}
