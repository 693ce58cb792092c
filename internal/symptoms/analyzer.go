// Package symptoms classifies a user message against the ailment taxonomy.
package symptoms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wolfman30/symptom-advisor/internal/matching"
	"github.com/wolfman30/symptom-advisor/internal/taxonomy"
	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

// summaryTopHits caps how many hits the summary lists.
const summaryTopHits = 5

// Hit is one taxonomy term found in a message.
type Hit struct {
	Term           string            `json:"term"`
	NormalizedTerm string            `json:"normalized_term"`
	Category       string            `json:"category"`
	Confidence     float64           `json:"confidence"`
	Strategy       matching.Strategy `json:"strategy"`
}

// Result is the analysis of a single message. Hits are ordered by
// descending confidence; ties keep taxonomy order.
type Result struct {
	Categories    []string `json:"categories"`
	Hits          []Hit    `json:"hits"`
	Keywords      []string `json:"keywords"`
	AvgConfidence float64  `json:"avg_confidence"`
	Summary       string   `json:"summary"`
}

// Empty reports whether no ailment was detected.
func (r Result) Empty() bool {
	return len(r.Hits) == 0
}

// Terms returns the canonical hit terms in ranking order.
func (r Result) Terms() []string {
	out := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, h.Term)
	}
	return out
}

type entry struct {
	category   string
	term       string
	normalized string
}

// Analyzer is a pure function of its taxonomy and matcher and is safe for
// concurrent use.
type Analyzer struct {
	matcher *matching.Matcher
	entries []entry
}

// NewAnalyzer precomputes the normalized form of every taxonomy term and
// drops terms that normalize to one already seen.
func NewAnalyzer(tax *taxonomy.Taxonomy, matcher *matching.Matcher) *Analyzer {
	if tax == nil {
		panic("symptoms: taxonomy cannot be nil")
	}
	if matcher == nil {
		panic("symptoms: matcher cannot be nil")
	}
	a := &Analyzer{matcher: matcher}
	seen := make(map[string]bool)
	tax.Each(func(category, term string) {
		normalized := textnorm.Normalize(term)
		// A term listed twice keeps its first category.
		if normalized == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		a.entries = append(a.entries, entry{
			category:   category,
			term:       term,
			normalized: normalized,
		})
	})
	return a
}

// Analyze runs every taxonomy term through the matcher and aggregates the hits.
func (a *Analyzer) Analyze(message string) Result {
	text := textnorm.Normalize(message)
	result := Result{
		Categories: []string{},
		Hits:       []Hit{},
		Keywords:   []string{},
	}
	if text == "" {
		result.Summary = summarize(result)
		return result
	}

	seenCategory := make(map[string]bool)
	var total float64
	for _, e := range a.entries {
		m := a.matcher.Match(text, e.normalized, e.term)
		if !m.Found {
			continue
		}
		result.Hits = append(result.Hits, Hit{
			Term:           e.term,
			NormalizedTerm: e.normalized,
			Category:       e.category,
			Confidence:     m.Confidence,
			Strategy:       m.Strategy,
		})
		if !seenCategory[e.category] {
			seenCategory[e.category] = true
			result.Categories = append(result.Categories, e.category)
		}
		total += m.Confidence
	}

	sort.SliceStable(result.Hits, func(i, j int) bool {
		return result.Hits[i].Confidence > result.Hits[j].Confidence
	})

	seenKeyword := make(map[string]bool)
	for _, h := range result.Hits {
		if !seenKeyword[h.NormalizedTerm] {
			seenKeyword[h.NormalizedTerm] = true
			result.Keywords = append(result.Keywords, h.NormalizedTerm)
		}
	}

	if n := len(result.Hits); n > 0 {
		result.AvgConfidence = total / float64(n)
	}
	result.Summary = summarize(result)
	return result
}

func summarize(r Result) string {
	if len(r.Hits) == 0 {
		return "No se detectaron padecimientos específicos en el mensaje."
	}

	top := r.Hits
	if len(top) > summaryTopHits {
		top = top[:summaryTopHits]
	}
	parts := make([]string, 0, len(top))
	for _, h := range top {
		parts = append(parts, fmt.Sprintf("%s (%s)", h.Term, percent(h.Confidence)))
	}

	return fmt.Sprintf("Se detectaron %d %s en %d %s con una confianza promedio de %s. Principales: %s.",
		len(r.Hits), plural(len(r.Hits), "padecimiento", "padecimientos"),
		len(r.Categories), plural(len(r.Categories), "categoría", "categorías"),
		percent(r.AvgConfidence),
		strings.Join(parts, ", "),
	)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
