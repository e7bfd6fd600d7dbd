package model

// BreachCandidate is a mined (phrase, location) pair believed to indicate
// a court's breach finding. Field names are part of the
// breach_candidates.json contract.
type BreachCandidate struct {
	CaseID       string `json:"case_id"`
	ParagraphID  int    `json:"paragraph_id"`
	Tag          string `json:"tag"`
	Snippet      string `json:"snippet"`
	Jurisdiction string `json:"jurisdiction"`
}

// ProvenanceEntry traces one candidate back to its source text.
// Field names are part of the breaches.json contract consumed by Breach-ui.
type ProvenanceEntry struct {
	CaseID       string `json:"case_id"`
	ParagraphID  int    `json:"paragraph_id"`
	Snippet      string `json:"snippet"`
	Jurisdiction string `json:"jurisdiction"`
}

// BreachGroup is the export-time grouping of candidates by tag.
type BreachGroup struct {
	Tag   string            `json:"tag"`
	Items []ProvenanceEntry `json:"items"`
}

// FetchLogEntry records the outcome of resolving one case's text.
// Written to fetch_log.json as an audit trail.
type FetchLogEntry struct {
	CaseID     string `json:"case_id"`
	Status     string `json:"status"` // "ok", "local_text", "error"
	RequestURL string `json:"request_url,omitempty"`
	FinalURL   string `json:"final_url,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
	Error      string `json:"error,omitempty"`
}
