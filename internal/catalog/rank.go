package catalog

import (
	"sort"
	"strings"

	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

const (
	relationWeight     = 10
	nameKeywordWeight  = 5
	otherKeywordWeight = 2
)

// Ranked is a product with the score that placed it.
type Ranked struct {
	Item  Item
	Score int
}

// RankRelevant orders visible items for a set of detected ailment keywords.
// related maps product ids to knowledge-base relevance (1-10) for the
// detected ailments and dominates keyword overlap. Unscored items fill the
// remaining slots in catalog order. A non-positive limit returns every item.
func RankRelevant(items []Item, keywords []string, related map[int64]int, limit int) []Ranked {
	visible := Visible(items)

	normalizedKeywords := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if n := textnorm.Normalize(k); n != "" {
			normalizedKeywords = append(normalizedKeywords, n)
		}
	}

	ranked := make([]Ranked, 0, len(visible))
	for _, it := range visible {
		ranked = append(ranked, Ranked{Item: it, Score: score(it, normalizedKeywords, related)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func score(it Item, keywords []string, related map[int64]int) int {
	total := related[it.ID] * relationWeight
	if len(keywords) == 0 {
		return total
	}
	name := textnorm.Normalize(it.Name)
	rest := textnorm.Normalize(strings.Join(append(append([]string{it.ShortDescription, it.Description}, it.Tags...), it.Categories...), " "))
	for _, k := range keywords {
		if strings.Contains(name, k) {
			total += nameKeywordWeight
		}
		if strings.Contains(rest, k) {
			total += otherKeywordWeight
		}
	}
	return total
}
