package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/matching"
	"github.com/wolfman30/symptom-advisor/internal/symptoms"
	"github.com/wolfman30/symptom-advisor/internal/taxonomy"
)

func analyze(msg string) symptoms.Result {
	tax := taxonomy.Default()
	return symptoms.NewAnalyzer(tax, matching.New(tax)).Analyze(msg)
}

func arnica() catalog.Item {
	return catalog.Item{ID: 1, Name: "Árnica Gel", SKU: "ARN-001", Price: 189.5, StockStatus: catalog.StockInStock, Visible: true}
}

func TestBuildRestrictedOmitsInventory(t *testing.T) {
	msg := "quiero comprar Árnica Gel"
	products := catalog.AsProducts([]catalog.Item{arnica()})
	mentions := catalog.NewMentionDetector(catalog.DefaultMentionConfidences()).Detect(msg, products)
	require.Len(t, mentions, 1)
	require.Equal(t, 0.95, mentions[0].Confidence)

	restrict := catalog.NewDecider(0.9).ShouldRestrictToMentioned(mentions, msg)
	require.True(t, restrict)

	out := NewAssembler().Build(Input{
		Message:          msg,
		Analysis:         analyze(msg),
		RelevantProducts: "- Té de Tila | Precio: $45.00 MXN",
		Mentions:         mentions,
		Restrict:         restrict,
	})

	assert.NotContains(t, out, headerInventory)
	assert.NotContains(t, out, "Té de Tila")
	assert.Contains(t, out, headerRestricted)
	assert.NotContains(t, out, headerGeneral)
	assert.Contains(t, out, "- Árnica Gel | Precio: $189.50 MXN | Disponibilidad: disponible | SKU: ARN-001")
}

func TestBuildGeneralSectionOrder(t *testing.T) {
	msg := "tengo dolor de cabeza y estrés"
	out := NewAssembler(WithStoreName("Botica Verde"), WithDisclaimer("Consulta a tu médico.")).Build(Input{
		Message:          msg,
		Analysis:         analyze(msg),
		RelevantProducts: "- Té de Tila | Precio: $45.00 MXN",
	})

	order := []string{
		"Eres el asesor virtual de bienestar de Botica Verde.",
		headerMessage,
		"\"tengo dolor de cabeza y estrés\"",
		headerAnalysis,
		"Categorías detectadas: ",
		headerInventory,
		"- Té de Tila",
		headerGeneral,
		headerFormat,
		"Termina siempre con: \"Consulta a tu médico.\"",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.GreaterOrEqual(t, idx, 0, "missing %q", marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
	assert.NotContains(t, out, headerMentioned)
	assert.Contains(t, out, "dolor de cabeza [neurologicas, 100%]")
}

func TestBuildDeterministic(t *testing.T) {
	in := Input{
		Message:  "busco algo para la gripa",
		Analysis: analyze("busco algo para la gripa"),
		Mentions: []catalog.Mention{{ProductID: 1, Product: arnica(), Confidence: 0.8, Strategy: catalog.MentionNamePartial}},
	}
	a := NewAssembler()
	assert.Equal(t, a.Build(in), a.Build(in))
}

func TestBuildWithoutHitsOrInventory(t *testing.T) {
	out := NewAssembler().Build(Input{Message: "hola", Analysis: analyze("hola")})

	assert.Contains(t, out, "Categorías detectadas: ninguna")
	assert.Contains(t, out, "Padecimientos detectados: ninguno")
	assert.Contains(t, out, noInventoryNotice)
	assert.Contains(t, out, defaultDisclaimer)
}

func TestFormatInventory(t *testing.T) {
	ranked := []catalog.Ranked{
		{Item: catalog.Item{Name: "Valeriana", Price: 120, StockStatus: catalog.StockOutOfStock, Description: "<p>Ayuda a <b>dormir</b></p>"}},
		{Item: catalog.Item{Name: "Tila", Price: 45, StockStatus: catalog.StockInStock, ShortDescription: strings.Repeat("a", 200)}},
	}
	lines := strings.Split(FormatInventory(ranked), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "- Valeriana | Precio: $120.00 MXN | Disponibilidad: agotado | Ayuda a dormir", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], strings.Repeat("a", 160)+"..."))
}
