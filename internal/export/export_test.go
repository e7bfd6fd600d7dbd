package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/courtfirst/breachminer/internal/model"
)

func sampleCandidates() []model.BreachCandidate {
	return []model.BreachCandidate{
		{CaseID: "C1", ParagraphID: 2, Tag: "Breach of trust", Snippet: "there was a breach of trust", Jurisdiction: "Jersey"},
		{CaseID: "C1", ParagraphID: 4, Tag: "Negligence", Snippet: "the trustee's negligence", Jurisdiction: "Jersey"},
		{CaseID: "C2", ParagraphID: 0, Tag: "Breach of trust", Snippet: "a clear breach of trust", Jurisdiction: "Guernsey"},
	}
}

func TestGroup_PreservesCountsAndProvenance(t *testing.T) {
	candidates := sampleCandidates()
	groups := Group(candidates)

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	if total != len(candidates) {
		t.Errorf("grouping changed item count: %d != %d", total, len(candidates))
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	bot := groups[0]
	if bot.Tag != "Breach of trust" || len(bot.Items) != 2 {
		t.Fatalf("unexpected first group: %+v", bot)
	}
	if bot.Items[0].CaseID != "C1" || bot.Items[0].ParagraphID != 2 || bot.Items[0].Jurisdiction != "Jersey" {
		t.Errorf("provenance lost: %+v", bot.Items[0])
	}
	if bot.Items[1].CaseID != "C2" {
		t.Errorf("expected candidate order kept within group: %+v", bot.Items)
	}
}

func TestGroup_FirstOccurrenceTagOrder(t *testing.T) {
	groups := Group([]model.BreachCandidate{
		{CaseID: "C1", Tag: "B"},
		{CaseID: "C1", Tag: "A"},
		{CaseID: "C2", Tag: "B"},
	})

	if len(groups) != 2 || groups[0].Tag != "B" || groups[1].Tag != "A" {
		t.Errorf("expected first-occurrence order [B A], got %+v", groups)
	}
}

func TestGroup_Empty(t *testing.T) {
	groups := Group(nil)
	if groups == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %+v", groups)
	}
}

func TestWriteAll_ProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteAll(sampleCandidates()); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	var flat []model.BreachCandidate
	readJSON(t, filepath.Join(dir, CandidatesFile), &flat)
	if len(flat) != 3 {
		t.Errorf("expected 3 candidates, got %d", len(flat))
	}

	var groups []model.BreachGroup
	readJSON(t, filepath.Join(dir, BreachesFile), &groups)
	if len(groups) != 2 {
		t.Errorf("expected 2 groups, got %d", len(groups))
	}
}

func TestWriteAll_FieldNames(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteAll(sampleCandidates()[:1]); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, BreachesFile))
	if err != nil {
		t.Fatal(err)
	}

	// The downstream UI depends on these exact keys.
	for _, key := range []string{`"tag"`, `"items"`, `"case_id"`, `"paragraph_id"`, `"snippet"`, `"jurisdiction"`} {
		if !bytes.Contains(raw, []byte(key)) {
			t.Errorf("breaches.json missing key %s:\n%s", key, raw)
		}
	}
}

func TestWriteAll_EmptyRunWritesEmptyArrays(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteAll(nil); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	for _, name := range []string{CandidatesFile, BreachesFile} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if string(bytes.TrimSpace(raw)) != "[]" {
			t.Errorf("%s: expected [], got %s", name, raw)
		}
	}
}

func TestWriteAll_ByteIdenticalRerun(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	candidates := sampleCandidates()

	if err := w.WriteAll(candidates); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, BreachesFile))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.WriteAll(candidates); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, BreachesFile))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected byte-identical output on rerun")
	}
}

func TestWriteAll_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// A file where the output directory should be.
	blocked := filepath.Join(dir, "out")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewWriter(blocked).WriteAll(sampleCandidates())
	if err == nil {
		t.Fatal("expected error for unwritable output directory")
	}

	var xerr *model.ExportError
	if !errors.As(err, &xerr) {
		t.Errorf("expected ExportError, got %T: %v", err, err)
	}
}

func TestWriteFetchLog(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	entries := []model.FetchLogEntry{
		{CaseID: "C1", Status: "ok", RequestURL: "https://example.com/c1", HTTPStatus: 200, Bytes: 1024},
		{CaseID: "C2", Status: "local_text"},
		{CaseID: "C3", Status: "error", Error: "unexpected status: 404 Not Found"},
	}
	if err := w.WriteFetchLog(entries); err != nil {
		t.Fatalf("WriteFetchLog failed: %v", err)
	}

	var got []model.FetchLogEntry
	readJSON(t, filepath.Join(dir, FetchLogFile), &got)
	if len(got) != 3 || got[1].Status != "local_text" {
		t.Errorf("unexpected log entries: %+v", got)
	}
}

func readJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
}
