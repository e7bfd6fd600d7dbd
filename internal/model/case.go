package model

// Case is one court-case reference loaded from the input CSV.
// Immutable after load.
type Case struct {
	CaseID       string `json:"case_id"`                 // Unique key
	Title        string `json:"title"`                   // Defaults to CaseID
	SourceURL    string `json:"source_url,omitempty"`    // Required unless LocalText is set
	LocalText    string `json:"local_text,omitempty"`    // Pre-supplied judgment text
	Jurisdiction string `json:"jurisdiction,omitempty"`  // e.g. "Jersey"
	Row          int    `json:"-"`                       // 1-based CSV data row, for error reporting
}

// HasLocalText reports whether the judgment text was supplied inline,
// in which case the fetcher must never be invoked for this case.
func (c Case) HasLocalText() bool {
	return c.LocalText != ""
}

// Paragraph is one segment of a case's resolved judgment text.
// ParagraphID is a zero-based sequential index, stable across runs
// for identical input text.
type Paragraph struct {
	CaseID      string `json:"case_id"`
	ParagraphID int    `json:"paragraph_id"`
	Text        string `json:"text"`
}
