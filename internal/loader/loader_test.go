package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/courtfirst/breachminer/internal/model"
)

func TestParseCases_Basic(t *testing.T) {
	csv := `case_id,title,source_url,local_text,jurisdiction
C1,Re A Trust,https://example.com/c1,,Jersey
C2,,,The court held there was a breach of trust.,Guernsey
`
	cases, err := ParseCases(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCases failed: %v", err)
	}

	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}

	if cases[0].CaseID != "C1" || cases[0].Title != "Re A Trust" || cases[0].SourceURL != "https://example.com/c1" {
		t.Errorf("unexpected first case: %+v", cases[0])
	}
	if cases[0].Jurisdiction != "Jersey" {
		t.Errorf("expected jurisdiction Jersey, got %q", cases[0].Jurisdiction)
	}

	// Title defaults to case_id.
	if cases[1].Title != "C2" {
		t.Errorf("expected title to default to case_id, got %q", cases[1].Title)
	}
	if !cases[1].HasLocalText() {
		t.Error("expected second case to carry local text")
	}
}

func TestParseCases_MissingCaseID(t *testing.T) {
	csv := `case_id,source_url
C1,https://example.com/c1
,https://example.com/c2
`
	_, err := ParseCases(strings.NewReader(csv))

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Row != 2 || verr.Field != "case_id" {
		t.Errorf("unexpected error detail: %+v", verr)
	}
}

func TestParseCases_NoSourceAndNoText(t *testing.T) {
	csv := `case_id,source_url,local_text
C1,,
`
	_, err := ParseCases(strings.NewReader(csv))

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseCases_DuplicateCaseID(t *testing.T) {
	csv := `case_id,source_url
C1,https://example.com/a
C2,https://example.com/b
C1,https://example.com/c
`
	_, err := ParseCases(strings.NewReader(csv))

	var derr *model.DuplicateCaseError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DuplicateCaseError, got %v", err)
	}
	if derr.CaseID != "C1" || derr.Row != 3 || derr.FirstRow != 1 {
		t.Errorf("unexpected error detail: %+v", derr)
	}
}

func TestParseCases_MissingHeaderColumn(t *testing.T) {
	csv := `title,source_url
Re A,https://example.com
`
	_, err := ParseCases(strings.NewReader(csv))

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing case_id column, got %v", err)
	}
}

func TestParseCases_SkipsBlankRows(t *testing.T) {
	csv := `case_id,source_url
C1,https://example.com/a

C2,https://example.com/b
`
	cases, err := ParseCases(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCases failed: %v", err)
	}
	if len(cases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(cases))
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Re B Trust, 12-34, 77-81", "Re B Trust"},
		{"Smith v Jones,  45-60", "Smith v Jones"},
		{"A  B   C", "A B C"},
		{"Plain Title", "Plain Title"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := CleanTitle(tc.in); got != tc.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
