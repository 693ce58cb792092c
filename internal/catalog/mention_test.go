package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Item {
	return []Item{
		{ID: 1, Name: "Árnica Gel", SKU: "ARN-001", Price: 189.5, StockStatus: StockInStock, Visible: true},
		{ID: 2, Name: "Té de Tila Relajante", SKU: "TIL-010", Price: 45, StockStatus: StockInStock, Visible: true},
		{ID: 3, Name: "Jarabe Miel y Limón", SKU: "JRB-3", Price: 99, StockStatus: StockOutOfStock, Visible: true},
		{ID: 4, Name: "Producto Oculto", SKU: "HID-404", Visible: false},
	}
}

func TestDetectStrategies(t *testing.T) {
	d := NewMentionDetector(MentionConfidences{})
	products := AsProducts(testCatalog())

	tests := []struct {
		name       string
		message    string
		productID  int64
		strategy   string
		confidence float64
	}{
		{"full name ignores case and accents", "quiero comprar ARNICA gel", 1, MentionNameExact, 0.95},
		{"sku token", "¿tienen el arn-001?", 1, MentionSKU, 0.85},
		{"partial single word", "tienen arnica?", 1, MentionNamePartial, 0.8},
		{"partial half of the words", "busco algo con tila", 2, MentionNamePartial, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := d.Detect(tt.message, products)
			require.NotEmpty(t, mentions)
			assert.Equal(t, tt.productID, mentions[0].ProductID)
			assert.Equal(t, tt.strategy, mentions[0].Strategy)
			assert.InDelta(t, tt.confidence, mentions[0].Confidence, 1e-9)
		})
	}
}

func TestDetectSkipsHiddenAndUnrelated(t *testing.T) {
	d := NewMentionDetector(DefaultMentionConfidences())
	products := AsProducts(testCatalog())

	assert.Empty(t, d.Detect("me interesa el producto oculto HID-404", products))
	assert.Empty(t, d.Detect("tengo dolor de cabeza", products))
	assert.Empty(t, d.Detect("", products))
	assert.Empty(t, d.Detect("limón", products), "one of three significant words is below coverage")
}

func TestDetectOrdersByConfidence(t *testing.T) {
	d := NewMentionDetector(DefaultMentionConfidences())
	mentions := d.Detect("tila relajante o Árnica Gel", AsProducts(testCatalog()))

	require.Len(t, mentions, 2)
	assert.Equal(t, int64(1), mentions[0].ProductID)
	assert.Equal(t, int64(2), mentions[1].ProductID)
	assert.Equal(t, "$189.50 MXN", mentions[0].Product.PriceDisplay())
}

func TestDetectDoesNotMutateSnapshot(t *testing.T) {
	items := testCatalog()
	before := testCatalog()
	NewMentionDetector(DefaultMentionConfidences()).Detect("arnica gel", AsProducts(items))
	assert.Equal(t, before, items)
}
