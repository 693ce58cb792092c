package learning

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)

// productIDParams are query keys storefront links use to carry a product id.
var productIDParams = []string{"p", "product_id", "add-to-cart", "post"}

const minProductNameLength = 3

// matchPatterns returns the symptoms whose phrases occur as whole words in
// normalized text, in table order.
func matchPatterns(text string, patterns []Pattern) []string {
	padded := " " + text + " "
	var out []string
	for _, p := range patterns {
		for _, phrase := range p.Phrases {
			if strings.Contains(padded, " "+phrase+" ") {
				out = append(out, p.Symptom)
				break
			}
		}
	}
	return out
}

// productExtraction is the outcome of scanning an assistant reply.
type productExtraction struct {
	ids      []int64
	existing int
}

// extractProducts finds catalog names in the reply and resolves product
// links back to ids. Links may name ids that are not in the snapshot; those
// are kept but do not count as existing.
func extractProducts(response string, items []catalog.Item) productExtraction {
	index := catalog.Index(items)
	seen := make(map[int64]bool)
	var out productExtraction
	add := func(id int64) {
		if id <= 0 || seen[id] {
			return
		}
		seen[id] = true
		out.ids = append(out.ids, id)
		if _, ok := index[id]; ok {
			out.existing++
		}
	}

	text := textnorm.Normalize(response)
	for _, it := range items {
		if !it.Visible {
			continue
		}
		name := textnorm.Normalize(it.Name)
		if utf8.RuneCountInString(name) >= minProductNameLength && strings.Contains(text, name) {
			add(it.ID)
		}
	}

	for _, raw := range urlPattern.FindAllString(response, -1) {
		add(resolveProductURL(strings.TrimRight(raw, ".,;:!?"), items))
	}
	return out
}

func resolveProductURL(raw string, items []catalog.Item) int64 {
	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	q := u.Query()
	for _, key := range productIDParams {
		if v := q.Get(key); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				return id
			}
		}
	}

	clean := strings.TrimSuffix(u.Host+u.Path, "/")
	slug := path.Base(strings.TrimSuffix(u.Path, "/"))
	for _, it := range items {
		if it.Permalink != "" {
			if p, err := url.Parse(it.Permalink); err == nil && strings.TrimSuffix(p.Host+p.Path, "/") == clean {
				return it.ID
			}
		}
		if it.Slug != "" && strings.EqualFold(it.Slug, slug) {
			return it.ID
		}
	}
	return 0
}

// dedupeSymptoms merges symptom names by normalized form, keeping the first spelling.
func dedupeSymptoms(groups ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range groups {
		for _, name := range g {
			key := textnorm.Normalize(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}
