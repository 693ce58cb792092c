// Package taxonomy holds the fixed ailment catalogue and the synonym table
// used by the matcher. Both are built once and never mutated.
package taxonomy

import "sync"

// Category groups canonical ailment terms.
type Category struct {
	Name  string
	Terms []string
}

// Taxonomy is the immutable, ordered set of categories plus synonyms keyed
// by canonical term. Share it by pointer.
type Taxonomy struct {
	categories []Category
	synonyms   map[string][]string
}

// New copies the provided data so later changes by the caller are not observed.
func New(categories []Category, synonyms map[string][]string) *Taxonomy {
	cats := make([]Category, len(categories))
	for i, c := range categories {
		cats[i] = Category{Name: c.Name, Terms: append([]string(nil), c.Terms...)}
	}
	syn := make(map[string][]string, len(synonyms))
	for k, v := range synonyms {
		syn[k] = append([]string(nil), v...)
	}
	return &Taxonomy{categories: cats, synonyms: syn}
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the process-wide storefront taxonomy.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		defaultTax = New(defaultCategories, defaultSynonyms)
	})
	return defaultTax
}

// Categories returns the categories in declaration order. The returned slice
// is a copy; term slices must be treated as read-only.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Each calls fn for every (category, term) pair in declaration order.
func (t *Taxonomy) Each(fn func(category, term string)) {
	for _, c := range t.categories {
		for _, term := range c.Terms {
			fn(c.Name, term)
		}
	}
}

// Synonyms returns the alternate phrasings registered for a canonical term.
func (t *Taxonomy) Synonyms(term string) []string {
	return t.synonyms[term]
}

// TermCount is the number of canonical terms across all categories.
func (t *Taxonomy) TermCount() int {
	n := 0
	for _, c := range t.categories {
		n += len(c.Terms)
	}
	return n
}
