package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShape(t *testing.T) {
	tax := Default()
	cats := tax.Categories()

	assert.Len(t, cats, 14)
	assert.GreaterOrEqual(t, tax.TermCount(), 160)
	assert.Same(t, tax, Default())

	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c.Name], "duplicate category %s", c.Name)
		seen[c.Name] = true
		assert.NotEmpty(t, c.Terms)
	}
	assert.True(t, seen["neurologicas"])
	assert.True(t, seen["mentales"])
}

func TestSynonymKeysAreCanonicalTerms(t *testing.T) {
	tax := Default()
	terms := map[string]bool{}
	tax.Each(func(_, term string) { terms[term] = true })
	for term := range defaultSynonyms {
		assert.True(t, terms[term], "synonym key %q missing from taxonomy", term)
	}
	assert.Contains(t, tax.Synonyms("cáncer"), "kanser")
	assert.Nil(t, tax.Synonyms("no existe"))
}

func TestEachVisitsInDeclarationOrder(t *testing.T) {
	tax := New([]Category{
		{Name: "a", Terms: []string{"uno", "dos"}},
		{Name: "b", Terms: []string{"tres"}},
	}, nil)

	var got []string
	tax.Each(func(category, term string) {
		got = append(got, category+":"+term)
	})
	assert.Equal(t, []string{"a:uno", "a:dos", "b:tres"}, got)
}

func TestNewCopiesInput(t *testing.T) {
	terms := []string{"tos"}
	syn := map[string][]string{"tos": {"carraspera"}}
	tax := New([]Category{{Name: "respiratorias", Terms: terms}}, syn)

	terms[0] = "mutado"
	syn["tos"][0] = "mutado"

	cats := tax.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "respiratorias", cats[0].Name)
	assert.Equal(t, []string{"tos"}, cats[0].Terms)
	assert.Equal(t, []string{"carraspera"}, tax.Synonyms("tos"))
}
