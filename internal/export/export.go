// Package export groups mined candidates by tag and writes the JSON
// artifacts. breach_candidates.json is the flat audit trail;
// breaches.json is the grouped Breach-ui feed. Field names in both are
// external contracts and must not change.
package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/courtfirst/breachminer/internal/model"
)

// Artifact file names inside the output directory.
const (
	CandidatesFile = "breach_candidates.json"
	BreachesFile   = "breaches.json"
	FetchLogFile   = "fetch_log.json"
)

// Group collects candidates into BreachGroups. Tag order is the
// insertion order of each tag's first occurrence; within a group,
// provenance entries keep candidate order (case order, then paragraph
// order — the order candidates were mined in).
func Group(candidates []model.BreachCandidate) []model.BreachGroup {
	index := make(map[string]int)
	groups := make([]model.BreachGroup, 0)

	for _, c := range candidates {
		i, ok := index[c.Tag]
		if !ok {
			i = len(groups)
			index[c.Tag] = i
			groups = append(groups, model.BreachGroup{Tag: c.Tag})
		}
		groups[i].Items = append(groups[i].Items, model.ProvenanceEntry{
			CaseID:       c.CaseID,
			ParagraphID:  c.ParagraphID,
			Snippet:      c.Snippet,
			Jurisdiction: c.Jurisdiction,
		})
	}

	return groups
}

// Writer serializes artifacts into an output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAll writes both mining artifacts. The two writes are independent:
// a failure in one does not prevent the other, and all failures are
// returned together.
func (w *Writer) WriteAll(candidates []model.BreachCandidate) error {
	var errs []error

	if err := w.writeJSON(CandidatesFile, nonNilCandidates(candidates)); err != nil {
		errs = append(errs, err)
	}
	if err := w.writeJSON(BreachesFile, Group(candidates)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// WriteFetchLog writes the per-case fetch audit trail.
func (w *Writer) WriteFetchLog(entries []model.FetchLogEntry) error {
	if entries == nil {
		entries = []model.FetchLogEntry{}
	}
	return w.writeJSON(FetchLogFile, entries)
}

// writeJSON marshals v with two-space indentation and a trailing
// newline, so warm-cache reruns produce byte-identical files.
func (w *Writer) writeJSON(name string, v interface{}) error {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return &model.ExportError{Path: path, Err: err}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &model.ExportError{Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &model.ExportError{Path: path, Err: err}
	}

	return nil
}

// nonNilCandidates keeps an empty run serializing as [] rather than
// null.
func nonNilCandidates(c []model.BreachCandidate) []model.BreachCandidate {
	if c == nil {
		return []model.BreachCandidate{}
	}
	return c
}
