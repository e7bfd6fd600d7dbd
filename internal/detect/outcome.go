// Package detect flags paragraphs likely to contain the court's holding.
// A paragraph is in-zone when it sits within a small lookahead window
// after an outcome heading (Held, Conclusion, Order, ...) or contains a
// holding verb (held, found, ordered, liable). The heading and verb sets
// come from the lexicon; nothing is hard-coded here.
package detect

import (
	"regexp"
	"strings"

	"github.com/courtfirst/breachminer/internal/lexicon"
	"github.com/courtfirst/breachminer/internal/model"
)

// maxHeadingLen bounds how long a paragraph can be and still count as a
// section heading.
const maxHeadingLen = 64

// Detector is a pure predicate over paragraph text and position.
type Detector struct {
	headings  map[string]bool
	verbRe    *regexp.Regexp
	lookahead int
}

// New builds a detector from the lexicon's heading and verb sets.
func New(lex *lexicon.Lexicon) *Detector {
	headings := make(map[string]bool, len(lex.Headings))
	for _, h := range lex.Headings {
		headings[strings.ToLower(h)] = true
	}

	// No verbs means no verb matches; an empty alternation would match
	// every paragraph.
	var verbRe *regexp.Regexp
	if len(lex.HoldingVerbs) > 0 {
		quoted := make([]string, 0, len(lex.HoldingVerbs))
		for _, v := range lex.HoldingVerbs {
			quoted = append(quoted, regexp.QuoteMeta(v))
		}
		verbRe = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}

	return &Detector{
		headings:  headings,
		verbRe:    verbRe,
		lookahead: lex.HeadingLookahead,
	}
}

// Flag classifies every paragraph; the result slice is parallel to the
// input. Heading paragraphs themselves are not in-zone; the window
// starts at the paragraph after the heading.
func (d *Detector) Flag(paragraphs []model.Paragraph) []bool {
	flags := make([]bool, len(paragraphs))
	lastHeading := -1

	for i, p := range paragraphs {
		if d.IsHeading(p.Text) {
			lastHeading = i
			continue
		}

		inWindow := lastHeading >= 0 && i-lastHeading <= d.lookahead
		flags[i] = inWindow || d.HasHoldingVerb(p.Text)
	}

	return flags
}

// IsHeading reports whether the paragraph is an outcome heading: short,
// and starting with a configured heading term.
func (d *Detector) IsHeading(text string) bool {
	t := strings.TrimLeft(text, "#*-–— \t")
	t = strings.TrimSpace(t)
	if t == "" || len(t) > maxHeadingLen {
		return false
	}

	// "Held", "Conclusion:", "ORDER OF THE COURT"
	first := strings.ToLower(strings.TrimRight(strings.Fields(t)[0], ":.;,"))
	return d.headings[first]
}

// HasHoldingVerb reports whether any sentence of the paragraph contains
// a configured holding verb as a whole word.
func (d *Detector) HasHoldingVerb(text string) bool {
	return d.verbRe != nil && d.verbRe.MatchString(text)
}
