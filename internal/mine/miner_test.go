package mine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/courtfirst/breachminer/internal/lexicon"
	"github.com/courtfirst/breachminer/internal/model"
)

var testCase = model.Case{CaseID: "C1", Jurisdiction: "Jersey"}

func para(id int, text string) model.Paragraph {
	return model.Paragraph{CaseID: "C1", ParagraphID: id, Text: text}
}

func TestMineParagraph_PositiveMatch(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of duty", Patterns: []string{`breach of duty`}},
		},
		Negations:      []string{"no"},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)
	got := m.MineParagraph(testCase, para(0, "The court held that there was a breach of duty by the trustee."))

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}

	c := got[0]
	if c.CaseID != "C1" || c.ParagraphID != 0 || c.Tag != "Breach of duty" || c.Jurisdiction != "Jersey" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if !strings.Contains(c.Snippet, "breach of duty") {
		t.Errorf("snippet does not contain the match: %q", c.Snippet)
	}
}

func TestMineParagraph_NegatedMatch(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of duty", Patterns: []string{`breach of duty`}},
		},
		Negations:      []string{"no"},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)
	got := m.MineParagraph(testCase, para(0, "The court held that there was no breach of duty by the trustee."))

	if len(got) != 0 {
		t.Errorf("expected no candidates for negated match, got %+v", got)
	}
}

func TestMineParagraph_NegationWindowBounded(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`}},
		},
		Negations:      []string{"no"},
		NegationWindow: 3,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)

	// "no" sits outside the 3-token window before the match.
	got := m.MineParagraph(testCase, para(0, "There was no suggestion the trustee ever denied committing a breach of trust."))
	if len(got) != 1 {
		t.Errorf("expected distant negation ignored, got %d candidates", len(got))
	}
}

func TestMineParagraph_MultiWordNegation(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`}},
		},
		Negations:      []string{"absence of"},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)
	got := m.MineParagraph(testCase, para(0, "The evidence shows an absence of any breach of trust."))
	if len(got) != 0 {
		t.Errorf("expected multi-word negation to suppress match, got %+v", got)
	}
}

func TestMineParagraph_NegationScopedToSentence(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`}},
		},
		Negations:      []string{"not"},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)

	// Negation in the previous sentence does not carry over.
	got := m.MineParagraph(testCase, para(0, "The claim was not pursued. There was a breach of trust."))
	if len(got) != 1 {
		t.Errorf("expected 1 candidate across sentence boundary, got %d: %+v", len(got), got)
	}
}

func TestMineParagraph_MultipleTagsOnSameSpan(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`}},
			{Tag: "Breach of duty", Patterns: []string{`breach of (fiduciary )?trust`}},
		},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)
	got := m.MineParagraph(testCase, para(0, "It was held this was a breach of trust."))

	if len(got) != 2 {
		t.Fatalf("expected both groups to yield a candidate, got %d: %+v", len(got), got)
	}
	tags := []string{got[0].Tag, got[1].Tag}
	if !reflect.DeepEqual(tags, []string{"Breach of trust", "Breach of duty"}) {
		t.Errorf("unexpected tag order: %v", tags)
	}
}

func TestMineParagraph_DedupesIdenticalRecords(t *testing.T) {
	lex := &lexicon.Lexicon{
		Phrases: []lexicon.PhraseGroup{
			// Two patterns in the same group matching the same span
			// produce identical (tag, snippet) records.
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`, `breach of (trust|duty)`}},
		},
		NegationWindow: 5,
	}
	if err := lex.Compile(); err != nil {
		t.Fatal(err)
	}

	m := New(lex)
	got := m.MineParagraph(testCase, para(0, "Held: breach of trust."))
	if len(got) != 1 {
		t.Errorf("expected duplicates collapsed, got %d: %+v", len(got), got)
	}
}

func TestMineParagraph_Deterministic(t *testing.T) {
	m := New(lexicon.Default())

	p := para(3, "The court held there was a breach of trust and a breach of fiduciary duty. The unauthorised investment caused loss.")

	first := m.MineParagraph(testCase, p)
	for i := 0; i < 10; i++ {
		if got := m.MineParagraph(testCase, p); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
	if len(first) == 0 {
		t.Fatal("expected candidates from default lexicon")
	}
}

func TestSnippet_ClampsLongSentences(t *testing.T) {
	long := strings.Repeat("x", 600) + " breach of trust " + strings.Repeat("y", 600)
	start := strings.Index(long, "breach of trust")
	end := start + len("breach of trust")

	s := snippet(long, start, end)
	if !strings.Contains(s, "breach of trust") {
		t.Errorf("snippet lost the match: %q", s)
	}
	if len(s) > 2*snippetContext+len("breach of trust")+2 {
		t.Errorf("snippet too long: %d chars", len(s))
	}
}

func TestSnippet_UTF8Boundary(t *testing.T) {
	// Multibyte runes around the clamp points must not be split.
	long := strings.Repeat("é", 300) + " breach " + strings.Repeat("é", 300)
	start := strings.Index(long, "breach")
	end := start + len("breach")

	s := snippet(long, start, end)
	if !strings.Contains(s, "breach") {
		t.Errorf("snippet lost the match: %q", s)
	}
	for _, r := range s {
		if r == '�' {
			t.Fatal("snippet contains a broken rune")
		}
	}
}
