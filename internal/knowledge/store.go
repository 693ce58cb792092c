// Package knowledge persists the learned symptom catalogue and its
// symptom to product relations.
package knowledge

import (
	"context"
	"time"
)

// Severity and category values written when a symptom is learned.
const (
	SeverityMild         = "leve"
	CategoryAutoDetected = "auto_detected"
)

// Symptom is a knowledge-base entry, unique by Name.
type Symptom struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Synonyms    []string  `json:"synonyms,omitempty"`
	Severity    string    `json:"severity"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// SymptomProduct links a symptom to a catalog product. One row per pair.
type SymptomProduct struct {
	SymptomID      int64     `json:"symptom_id"`
	ProductID      int64     `json:"product_id"`
	RelevanceScore int       `json:"relevance_score"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the knowledge base contract. SaveSymptom upserts by name and
// RelateProductToSymptom replaces an existing pair, so concurrent or repeated
// writes never produce duplicates.
type Store interface {
	// SearchSymptoms returns symptoms whose normalized name occurs in term or
	// contains it, longest names first.
	SearchSymptoms(ctx context.Context, term string, limit int) ([]Symptom, error)
	// GetSymptomByName returns apperrors.ErrNotFound when absent.
	GetSymptomByName(ctx context.Context, name string) (*Symptom, error)
	SaveSymptom(ctx context.Context, s Symptom) (int64, error)
	RelateProductToSymptom(ctx context.Context, symptomID, productID int64, score int, note string) error
	// RelatedProducts maps product ids to their best relevance for any of the names.
	RelatedProducts(ctx context.Context, names []string) (map[int64]int, error)
}
