// Package segment turns resolved judgment text into ordered paragraphs
// with stable zero-based ids, and provides the sentence splitter used by
// zone detection and mining. Segmentation is deterministic: identical
// input text always yields identical paragraphs.
package segment

import (
	"regexp"
	"strings"

	"github.com/courtfirst/breachminer/internal/model"
)

var (
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Split segments plain judgment text into paragraphs on blank lines.
// Paragraph ids are assigned sequentially from zero; empty blocks are
// dropped without consuming an id.
func Split(caseID, text string) []model.Paragraph {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []model.Paragraph
	for _, block := range blankLineRe.Split(text, -1) {
		clean := Normalize(block)
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, model.Paragraph{
			CaseID:      caseID,
			ParagraphID: len(paragraphs),
			Text:        clean,
		})
	}

	return paragraphs
}

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// Sentences splits paragraph text into sentences. The heuristic splits
// after '.', '!' or '?' followed by whitespace; there is no length
// filter, since holdings can be very short sentences.
func Sentences(text string) []string {
	var sentences []string
	start := 0

	flush := func(end int) {
		if trimmed := strings.TrimSpace(text[start:end]); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\n' {
				flush(i + 1)
			}
		}
	}
	if start < len(text) {
		flush(len(text))
	}

	return sentences
}
