package catalog

import (
	"strings"

	"github.com/wolfman30/symptom-advisor/internal/textnorm"
)

// purchaseIntentPhrases are stored normalized.
var purchaseIntentPhrases = []string{
	"comprar",
	"precio de",
	"precio del",
	"cuanto cuesta",
	"cuanto vale",
	"quiero",
	"busco",
	"disponible",
	"tienen",
	"venden",
	"me interesa",
	"necesito",
	"pedir",
	"ordenar",
	"agregar al carrito",
}

// Decider chooses whether a reply must be limited to the mentioned products.
type Decider struct {
	threshold float64
}

// NewDecider builds a Decider. Any mention at or above threshold restricts
// the reply; 0.9 when threshold is not positive.
func NewDecider(threshold float64) *Decider {
	if threshold <= 0 {
		threshold = 0.9
	}
	return &Decider{threshold: threshold}
}

// ShouldRestrictToMentioned is true when at least one product was mentioned
// and either a mention is high confidence or the message shows purchase intent.
func (d *Decider) ShouldRestrictToMentioned(mentions []Mention, message string) bool {
	if len(mentions) == 0 {
		return false
	}
	for _, m := range mentions {
		if m.Confidence >= d.threshold {
			return true
		}
	}
	return HasPurchaseIntent(message)
}

// HasPurchaseIntent reports whether the message contains a buying phrase.
func HasPurchaseIntent(message string) bool {
	text := textnorm.Normalize(message)
	if text == "" {
		return false
	}
	for _, phrase := range purchaseIntentPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
