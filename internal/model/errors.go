package model

import "fmt"

// ValidationError reports a bad input row. Load-time errors abort the
// entire run before any fetching begins.
type ValidationError struct {
	Row    int    // 1-based data row in the CSV
	Field  string // Offending column, if any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: invalid %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// DuplicateCaseError reports a repeated case_id in the input.
type DuplicateCaseError struct {
	CaseID   string
	Row      int // Row of the second occurrence
	FirstRow int
}

func (e *DuplicateCaseError) Error() string {
	return fmt.Sprintf("row %d: duplicate case_id %q (first seen at row %d)", e.Row, e.CaseID, e.FirstRow)
}

// FetchError reports a network or HTTP failure for one case. Per-case:
// the run continues for the remaining cases.
type FetchError struct {
	CaseID     string
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("case %s: fetch %s: status %d", e.CaseID, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("case %s: fetch %s: %v", e.CaseID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports malformed or unusable judgment HTML/text for one case.
type ParseError struct {
	CaseID string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("case %s: parse: %v", e.CaseID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExportError reports a failure writing one output artifact. Fatal for
// that file only; other artifacts are still attempted.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
