// Package loader reads the case list CSV. Load-time errors are fatal for
// the whole run: the case list is foundational, so nothing is fetched
// until every row validates.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/courtfirst/breachminer/internal/model"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	// Trailing pinpoint page spans like ", 12-34, 77-81" at the end of a
	// title, left over from the source case lists.
	pagesTailRe = regexp.MustCompile(`\s*,\s*\d{1,3}(?:-\d{1,3})?(?:\s*,\s*\d{1,3}(?:-\d{1,3})?)*\s*$`)
)

// LoadCases reads and validates cases from a CSV file.
func LoadCases(path string) ([]model.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseCases(f)
}

// ParseCases reads and validates cases from CSV data. Required columns:
// case_id, and source_url unless local_text is supplied. Recognized
// optional columns: title (defaults to case_id), local_text, jurisdiction.
func ParseCases(r io.Reader) ([]model.Case, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Tolerate ragged rows; missing cells read as empty
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &model.ValidationError{Row: 0, Reason: "empty cases file"}
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["case_id"]; !ok {
		return nil, &model.ValidationError{Row: 0, Field: "case_id", Reason: "column missing from header"}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var cases []model.Case
	firstRow := make(map[string]int)

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", row, err)
		}

		// Skip fully blank rows.
		blank := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		c := model.Case{
			CaseID:       field(record, "case_id"),
			Title:        CleanTitle(field(record, "title")),
			SourceURL:    field(record, "source_url"),
			LocalText:    field(record, "local_text"),
			Jurisdiction: field(record, "jurisdiction"),
			Row:          row,
		}

		if c.CaseID == "" {
			return nil, &model.ValidationError{Row: row, Field: "case_id", Reason: "missing"}
		}
		if c.SourceURL == "" && c.LocalText == "" {
			return nil, &model.ValidationError{Row: row, Field: "source_url", Reason: "neither source_url nor local_text supplied"}
		}
		if first, dup := firstRow[c.CaseID]; dup {
			return nil, &model.DuplicateCaseError{CaseID: c.CaseID, Row: row, FirstRow: first}
		}
		firstRow[c.CaseID] = row

		if c.Title == "" {
			c.Title = c.CaseID
		}

		cases = append(cases, c)
	}

	return cases, nil
}

// CleanTitle normalizes a case title: drops a trailing page-range block
// and collapses internal whitespace.
func CleanTitle(title string) string {
	t := pagesTailRe.ReplaceAllString(title, "")
	t = strings.Trim(t, " ,;\u00a0")
	return multiSpaceRe.ReplaceAllString(t, " ")
}
