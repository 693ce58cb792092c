package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
)

// FormatMentions renders the mentioned products with price and stock.
func FormatMentions(mentions []catalog.Mention) string {
	lines := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if m.Product == nil {
			continue
		}
		line := fmt.Sprintf("- %s | Precio: %s | Disponibilidad: %s", m.Product.ProductName(), m.Product.PriceDisplay(), m.Product.StockDisplay())
		if sku := m.Product.ProductSKU(); sku != "" {
			line += " | SKU: " + sku
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatInventory renders ranked catalog items, one per line.
func FormatInventory(ranked []catalog.Ranked) string {
	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		it := r.Item
		line := fmt.Sprintf("- %s | Precio: %s | Disponibilidad: %s", it.Name, it.PriceDisplay(), it.StockDisplay())
		if desc := summaryOf(it); desc != "" {
			line += " | " + desc
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

const maxDescriptionRunes = 160

var htmlTag = regexp.MustCompile(`<[^>]*>`)

func summaryOf(it catalog.Item) string {
	desc := strings.TrimSpace(it.ShortDescription)
	if desc == "" {
		desc = strings.TrimSpace(it.Description)
	}
	desc = strings.Join(strings.Fields(htmlTag.ReplaceAllString(desc, " ")), " ")
	if runes := []rune(desc); len(runes) > maxDescriptionRunes {
		desc = strings.TrimSpace(string(runes[:maxDescriptionRunes])) + "..."
	}
	return desc
}
