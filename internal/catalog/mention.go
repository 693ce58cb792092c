package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

// Mention detection strategies.
const (
	MentionNameExact   = "name_exact"
	MentionSKU         = "sku"
	MentionNamePartial = "name_partial"
)

// Mention is a catalog product referenced in a message.
type Mention struct {
	ProductID  int64   `json:"product_id"`
	Product    Product `json:"product"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy"`
}

// MentionConfidences sets the confidence reported per strategy tier.
type MentionConfidences struct {
	NameExact float64
	SKU       float64
	// PartialBase and PartialSpan map the share of matched name words onto
	// PartialBase + share*PartialSpan.
	PartialBase float64
	PartialSpan float64
}

func DefaultMentionConfidences() MentionConfidences {
	return MentionConfidences{NameExact: 0.95, SKU: 0.85, PartialBase: 0.5, PartialSpan: 0.3}
}

const (
	minSKULength       = 3
	minNameWordLength  = 4
	minPartialCoverage = 0.5
)

// MentionDetector finds product references in free text. It never mutates
// the products it is given.
type MentionDetector struct {
	conf MentionConfidences
}

func NewMentionDetector(conf MentionConfidences) *MentionDetector {
	def := DefaultMentionConfidences()
	if conf.NameExact <= 0 {
		conf.NameExact = def.NameExact
	}
	if conf.SKU <= 0 {
		conf.SKU = def.SKU
	}
	if conf.PartialBase <= 0 {
		conf.PartialBase = def.PartialBase
	}
	if conf.PartialSpan <= 0 {
		conf.PartialSpan = def.PartialSpan
	}
	return &MentionDetector{conf: conf}
}

// Detect returns one mention per referenced visible product, keeping the
// strongest strategy, ordered by descending confidence.
func (d *MentionDetector) Detect(message string, products []Product) []Mention {
	text := textnorm.Normalize(message)
	if text == "" {
		return nil
	}
	tokens := make(map[string]bool)
	for _, tok := range textnorm.Tokens(text) {
		tokens[tok] = true
	}

	var mentions []Mention
	for _, p := range products {
		if p == nil || !p.IsVisible() {
			continue
		}
		if m, ok := d.detectOne(text, tokens, p); ok {
			mentions = append(mentions, m)
		}
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Confidence > mentions[j].Confidence
	})
	return mentions
}

func (d *MentionDetector) detectOne(text string, tokens map[string]bool, p Product) (Mention, bool) {
	mention := Mention{ProductID: p.ProductID(), Product: p}

	name := textnorm.Normalize(p.ProductName())
	if name != "" && strings.Contains(text, name) {
		mention.Confidence = d.conf.NameExact
		mention.Strategy = MentionNameExact
		return mention, true
	}

	if sku := strings.ReplaceAll(textnorm.Normalize(p.ProductSKU()), " ", ""); utf8.RuneCountInString(sku) >= minSKULength && tokens[sku] {
		mention.Confidence = d.conf.SKU
		mention.Strategy = MentionSKU
		return mention, true
	}

	var significant, matched int
	for _, w := range textnorm.Tokens(name) {
		if utf8.RuneCountInString(w) < minNameWordLength {
			continue
		}
		significant++
		if tokens[w] {
			matched++
		}
	}
	if significant == 0 || matched == 0 {
		return mention, false
	}
	coverage := float64(matched) / float64(significant)
	if coverage < minPartialCoverage {
		return mention, false
	}
	mention.Confidence = d.conf.PartialBase + coverage*d.conf.PartialSpan
	mention.Strategy = MentionNamePartial
	return mention, true
}
