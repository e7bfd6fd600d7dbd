// Package lexicon holds the externally supplied term lists driving the
// pipeline: breach phrase patterns, negation markers, outcome headings and
// holding verbs. The mining and detection logic never hard-codes legal
// terminology; everything configurable lives here and can be replaced via
// a YAML file.
package lexicon

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// PhraseGroup maps one canonical tag to the patterns that indicate it.
// Patterns are case-insensitive regular expressions.
type PhraseGroup struct {
	Tag      string   `yaml:"tag"`
	Patterns []string `yaml:"patterns"`

	compiled []*regexp.Regexp
}

// Regexps returns the compiled patterns. Compile must have been called.
func (g *PhraseGroup) Regexps() []*regexp.Regexp {
	return g.compiled
}

// Lexicon is the full configurable term set.
type Lexicon struct {
	Phrases      []PhraseGroup `yaml:"phrases"`
	Negations    []string      `yaml:"negations"`
	Headings     []string      `yaml:"headings"`
	HoldingVerbs []string      `yaml:"holding_verbs"`

	// HeadingLookahead is how many paragraphs after an outcome heading
	// remain in-zone. NegationWindow is how many tokens before a match
	// are checked for negation markers.
	HeadingLookahead int `yaml:"heading_lookahead"`
	NegationWindow   int `yaml:"negation_window"`
}

// Default returns the built-in lexicon. The phrase groups and their
// canonical tags follow the curated trust-law list shipped with the
// original corpus; override with a YAML file for other domains.
func Default() *Lexicon {
	l := &Lexicon{
		Phrases: []PhraseGroup{
			{Tag: "Breach of trust", Patterns: []string{`breach of trust`}},
			{Tag: "Breach of fiduciary duty", Patterns: []string{`breach of fiduciary duty`, `fiduciary breach`}},
			{Tag: "Acting in self-interest", Patterns: []string{`acted in self[- ]interest`}},
			{Tag: "Conflicted trustee", Patterns: []string{`conflicted trustee`}},
			{Tag: "Misappropriation of trust assets", Patterns: []string{`misappropriation of (trust )?assets?`}},
			{Tag: "Failure to disclose", Patterns: []string{`failure to (disclose|account)`}},
			{Tag: "Improper investment", Patterns: []string{`unauthori[sz]ed investment`}},
			{Tag: "Negligence", Patterns: []string{`negligence\b`}},
			{Tag: "Breach of mandatory duty", Patterns: []string{`breach of (mandatory|regulatory) duty`}},
		},
		Negations:        []string{"no", "not", "never", "without", "absence of", "denied", "rejected"},
		Headings:         []string{"held", "conclusion", "conclusions", "disposition", "order", "orders", "result", "decision", "outcome", "judgment"},
		HoldingVerbs:     []string{"held", "found", "ordered", "liable"},
		HeadingLookahead: 2,
		NegationWindow:   5,
	}
	if err := l.Compile(); err != nil {
		// Built-in patterns are fixed literals; a compile failure here
		// is a programming error.
		panic(err)
	}
	return l
}

// Load reads a lexicon from a YAML file and compiles it.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var l Lexicon
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	if err := l.Compile(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}

	return &l, nil
}

// Compile validates the lexicon and compiles its phrase patterns
// case-insensitively. Zero window settings fall back to defaults.
func (l *Lexicon) Compile() error {
	if len(l.Phrases) == 0 {
		return fmt.Errorf("no phrase groups defined")
	}

	seen := make(map[string]bool)
	for i := range l.Phrases {
		g := &l.Phrases[i]
		if g.Tag == "" {
			return fmt.Errorf("phrase group %d: missing tag", i)
		}
		if seen[g.Tag] {
			return fmt.Errorf("phrase group %d: duplicate tag %q", i, g.Tag)
		}
		seen[g.Tag] = true

		if len(g.Patterns) == 0 {
			return fmt.Errorf("phrase group %q: no patterns", g.Tag)
		}

		g.compiled = make([]*regexp.Regexp, 0, len(g.Patterns))
		for _, p := range g.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return fmt.Errorf("phrase group %q: pattern %q: %w", g.Tag, p, err)
			}
			g.compiled = append(g.compiled, re)
		}
	}

	if l.HeadingLookahead <= 0 {
		l.HeadingLookahead = 2
	}
	if l.NegationWindow <= 0 {
		l.NegationWindow = 5
	}

	return nil
}
