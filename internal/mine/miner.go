// Package mine scans in-zone paragraphs for breach-indicative phrases
// and produces candidates with provenance. Patterns and negation markers
// are supplied by the lexicon — the scan logic carries no legal
// terminology of its own. Mining is deterministic: identical paragraph
// text, pattern set and negation set always yield the same candidates.
package mine

import (
	"strings"

	"github.com/courtfirst/breachminer/internal/lexicon"
	"github.com/courtfirst/breachminer/internal/model"
	"github.com/courtfirst/breachminer/internal/segment"
)

// snippetContext is how many characters either side of the match are
// kept when the containing sentence is too long to quote whole.
const snippetContext = 240

// Miner scans paragraphs for breach phrases.
type Miner struct {
	groups    []lexicon.PhraseGroup
	negations []string
	window    int
}

// New builds a miner from the lexicon.
func New(lex *lexicon.Lexicon) *Miner {
	negations := make([]string, 0, len(lex.Negations))
	for _, n := range lex.Negations {
		negations = append(negations, strings.ToLower(n))
	}

	return &Miner{
		groups:    lex.Phrases,
		negations: negations,
		window:    lex.NegationWindow,
	}
}

// MineParagraph scans one paragraph. Patterns are scanned independently
// with non-overlapping leftmost-greedy regexp semantics; every surviving
// occurrence yields one candidate tagged with its group's canonical tag.
// Exact duplicate records are collapsed, preserving first-occurrence
// order.
func (m *Miner) MineParagraph(c model.Case, p model.Paragraph) []model.BreachCandidate {
	var out []model.BreachCandidate
	seen := make(map[string]bool)

	for _, sent := range segment.Sentences(p.Text) {
		for gi := range m.groups {
			group := &m.groups[gi]
			for _, re := range group.Regexps() {
				for _, loc := range re.FindAllStringIndex(sent, -1) {
					if m.negated(sent[:loc[0]]) {
						continue
					}

					cand := model.BreachCandidate{
						CaseID:       c.CaseID,
						ParagraphID:  p.ParagraphID,
						Tag:          group.Tag,
						Snippet:      snippet(sent, loc[0], loc[1]),
						Jurisdiction: c.Jurisdiction,
					}

					key := cand.Tag + "\x00" + cand.Snippet
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, cand)
				}
			}
		}
	}

	return out
}

// negated reports whether a negation marker occurs within the token
// window immediately before the match, inside the same sentence.
// Markers may span multiple tokens ("absence of").
func (m *Miner) negated(prefix string) bool {
	tokens := tokenize(prefix)
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) > m.window {
		tokens = tokens[len(tokens)-m.window:]
	}

	joined := " " + strings.Join(tokens, " ") + " "
	for _, neg := range m.negations {
		if strings.Contains(joined, " "+neg+" ") {
			return true
		}
	}
	return false
}

// tokenize lowercases and splits on non-letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 0x80)
	})
}

// snippet quotes the containing sentence, clamped to snippetContext
// characters either side of the match when the sentence runs long.
func snippet(sentence string, start, end int) string {
	lo := start - snippetContext
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetContext
	if hi > len(sentence) {
		hi = len(sentence)
	}

	// Avoid cutting runes mid-sequence.
	for lo > 0 && lo < len(sentence) && (sentence[lo]&0xC0) == 0x80 {
		lo--
	}
	for hi < len(sentence) && (sentence[hi]&0xC0) == 0x80 {
		hi++
	}

	return segment.Normalize(sentence[lo:hi])
}
