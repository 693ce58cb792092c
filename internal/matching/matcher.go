// Package matching decides whether a taxonomy term occurs in normalized text
// by running an ordered cascade of strategies, most precise first.
package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/symptom-advisor/internal/taxonomy"
	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

// Strategy tags the cascade step that produced a match.
type Strategy string

const (
	StrategyNone         Strategy = "none"
	StrategyExact        Strategy = "exact"
	StrategyPartialMulti Strategy = "partial_multi"
	StrategySynonym      Strategy = "synonym"
	StrategyPhonetic     Strategy = "phonetic"
	StrategySubstring    Strategy = "substring"
)

// Result is the outcome of matching one term against one text.
type Result struct {
	Found      bool     `json:"found"`
	Confidence float64  `json:"confidence"`
	Strategy   Strategy `json:"strategy"`
}

var noMatch = Result{Strategy: StrategyNone}

// Thresholds tune the fuzzy steps of the cascade.
type Thresholds struct {
	// PartialWord is the similarity a term word needs against some text word.
	PartialWord float64
	// PartialTerm is the share of significant term words that must match.
	PartialTerm float64
	// Synonym is the confidence reported for a synonym hit.
	Synonym   float64
	Phonetic  float64
	Substring float64
}

// DefaultThresholds returns the stock cascade thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PartialWord: 0.8,
		PartialTerm: 0.6,
		Synonym:     0.9,
		Phonetic:    0.8,
		Substring:   0.8,
	}
}

// minSignificantWord is the shortest term word considered by partial_multi.
const minSignificantWord = 3

// minPhoneticKey is the shortest phonetic key, on either side, the phonetic
// step will compare. Shorter keys collide across unrelated words.
const minPhoneticKey = 3

type step struct {
	strategy Strategy
	run      func(m *Matcher, text, term, original string) (float64, bool)
}

// Matcher is safe for concurrent use; it holds only read-only tables.
type Matcher struct {
	thresholds Thresholds
	synonyms   map[string][]string
	steps      []step
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithThresholds overrides the default thresholds. Zero fields keep their default.
func WithThresholds(t Thresholds) Option {
	return func(m *Matcher) {
		if t.PartialWord > 0 {
			m.thresholds.PartialWord = t.PartialWord
		}
		if t.PartialTerm > 0 {
			m.thresholds.PartialTerm = t.PartialTerm
		}
		if t.Synonym > 0 {
			m.thresholds.Synonym = t.Synonym
		}
		if t.Phonetic > 0 {
			m.thresholds.Phonetic = t.Phonetic
		}
		if t.Substring > 0 {
			m.thresholds.Substring = t.Substring
		}
	}
}

// New builds a Matcher whose synonym step draws on tax. The synonym variants
// are normalized once here.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Matcher {
	if tax == nil {
		panic("matching: taxonomy cannot be nil")
	}
	m := &Matcher{
		thresholds: DefaultThresholds(),
		synonyms:   make(map[string][]string),
		steps:      defaultSteps(),
	}
	tax.Each(func(_, term string) {
		variants := tax.Synonyms(term)
		if len(variants) == 0 {
			return
		}
		normalized := make([]string, 0, len(variants))
		for _, v := range variants {
			if n := textnorm.Normalize(v); n != "" {
				normalized = append(normalized, n)
			}
		}
		m.synonyms[term] = normalized
	})
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Thresholds returns the thresholds in effect.
func (m *Matcher) Thresholds() Thresholds {
	return m.thresholds
}

// Match tests a normalized term against normalized text. original is the
// term as written in the taxonomy and keys the synonym table. The first
// successful step wins and later steps are not evaluated.
func (m *Matcher) Match(text, term, original string) Result {
	if term == "" || text == "" {
		return noMatch
	}
	for _, s := range m.steps {
		if confidence, ok := s.run(m, text, term, original); ok {
			return Result{Found: true, Confidence: confidence, Strategy: s.strategy}
		}
	}
	return noMatch
}

func defaultSteps() []step {
	return []step{
		{StrategyExact, (*Matcher).exact},
		{StrategyPartialMulti, (*Matcher).partialMulti},
		{StrategySynonym, (*Matcher).synonym},
		{StrategyPhonetic, (*Matcher).phonetic},
		{StrategySubstring, (*Matcher).substring},
	}
}

func (m *Matcher) exact(text, term, _ string) (float64, bool) {
	if text == term || strings.Contains(text, term) {
		return 1, true
	}
	return 0, false
}

func (m *Matcher) partialMulti(text, term, _ string) (float64, bool) {
	if !strings.Contains(term, " ") {
		return 0, false
	}
	var significant []string
	for _, w := range strings.Fields(term) {
		if utf8.RuneCountInString(w) >= minSignificantWord {
			significant = append(significant, w)
		}
	}
	if len(significant) == 0 {
		return 0, false
	}

	textWords := strings.Fields(text)
	matched := 0
	for _, w := range significant {
		for _, tw := range textWords {
			if Similarity(w, tw) >= m.thresholds.PartialWord {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(significant))
	if ratio >= m.thresholds.PartialTerm {
		return ratio, true
	}
	return 0, false
}

func (m *Matcher) synonym(text, _, original string) (float64, bool) {
	for _, variant := range m.synonyms[original] {
		if strings.Contains(text, variant) {
			return m.thresholds.Synonym, true
		}
	}
	return 0, false
}

func (m *Matcher) phonetic(text, term, _ string) (float64, bool) {
	tk, mk := PhoneticKey(text), PhoneticKey(term)
	if len(tk) < minPhoneticKey || len(mk) < minPhoneticKey {
		return 0, false
	}
	ratio := Similarity(tk, mk)
	if ratio >= m.thresholds.Phonetic {
		return ratio, true
	}
	return 0, false
}

// substring slides a window the length of term across text and keeps the
// best scoring window.
func (m *Matcher) substring(text, term, _ string) (float64, bool) {
	tr, mr := []rune(text), []rune(term)
	width := len(mr)
	if width == 0 || width > len(tr) {
		return 0, false
	}
	best := 0.0
	for i := 0; i+width <= len(tr); i++ {
		if score := Similarity(string(tr[i:i+width]), term); score > best {
			best = score
		}
	}
	if best >= m.thresholds.Substring {
		return best, true
	}
	return 0, false
}
