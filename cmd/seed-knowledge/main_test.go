package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/symptom-advisor/internal/knowledge"
)

func TestSeedSampleFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "knowledge-seed.json"))
	require.NoError(t, err)
	file, err := parseSeedFile(data)
	require.NoError(t, err)

	store := knowledge.NewMemoryStore()
	symptoms, relations, err := seed(context.Background(), store, file)
	require.NoError(t, err)
	assert.Equal(t, len(file.Symptoms), symptoms)
	assert.Len(t, store.Relations(), relations)

	// Re-seeding upserts instead of duplicating.
	_, _, err = seed(context.Background(), store, file)
	require.NoError(t, err)
	assert.Len(t, store.Relations(), relations)

	sym, err := store.GetSymptomByName(context.Background(), "Dolor de Cabeza")
	require.NoError(t, err)
	assert.Equal(t, "neurologico", sym.Category)
}

func TestParseSeedFileRejectsInvalidEntries(t *testing.T) {
	_, err := parseSeedFile([]byte(`{"symptoms":[{"name":" "}]}`))
	assert.Error(t, err)

	_, err = parseSeedFile([]byte(`{"symptoms":[{"name":"tos","products":[{"product_id":0}]}]}`))
	assert.Error(t, err)

	_, err = parseSeedFile([]byte(`{`))
	assert.Error(t, err)
}
