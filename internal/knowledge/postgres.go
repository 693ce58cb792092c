package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/symptom-advisor/internal/textnorm"
	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on the symptoms and symptom_products tables.
type PostgresStore struct {
	db db
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("knowledge: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithDB(d db) *PostgresStore {
	if d == nil {
		panic("knowledge: db required")
	}
	return &PostgresStore{db: d}
}

const symptomColumns = `id, name, description, synonyms, severity, category, created_at`

func (s *PostgresStore) SearchSymptoms(ctx context.Context, term string, limit int) ([]Symptom, error) {
	needle := textnorm.Normalize(term)
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	query := `
		SELECT ` + symptomColumns + `
		FROM symptoms
		WHERE strpos($1, normalized_name) > 0 OR strpos(normalized_name, $1) > 0
		ORDER BY length(normalized_name) DESC, name
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, needle, limit)
	if err != nil {
		return nil, fmt.Errorf("knowledge: search symptoms: %w: %w", apperrors.ErrExternalCollaborator, err)
	}
	defer rows.Close()

	var out []Symptom
	for rows.Next() {
		sym, err := scanSymptom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetSymptomByName(ctx context.Context, name string) (*Symptom, error) {
	query := `SELECT ` + symptomColumns + ` FROM symptoms WHERE normalized_name = $1`
	sym, err := scanSymptom(s.db.QueryRow(ctx, query, textnorm.Normalize(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("knowledge: symptom %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &sym, nil
}

// SaveSymptom inserts or updates by normalized name. Empty fields never
// overwrite stored values.
func (s *PostgresStore) SaveSymptom(ctx context.Context, sym Symptom) (int64, error) {
	name := canonicalName(sym.Name)
	if name == "" {
		return 0, fmt.Errorf("knowledge: symptom name required: %w", apperrors.ErrValidation)
	}
	if sym.Synonyms == nil {
		sym.Synonyms = []string{}
	}
	query := `
		INSERT INTO symptoms (name, normalized_name, description, synonyms, severity, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (normalized_name) DO UPDATE SET
			description = COALESCE(NULLIF(EXCLUDED.description, ''), symptoms.description),
			synonyms = CASE WHEN cardinality(EXCLUDED.synonyms) > 0 THEN EXCLUDED.synonyms ELSE symptoms.synonyms END,
			severity = COALESCE(NULLIF(EXCLUDED.severity, ''), symptoms.severity),
			category = COALESCE(NULLIF(EXCLUDED.category, ''), symptoms.category),
			updated_at = now()
		RETURNING id
	`
	var id int64
	if err := s.db.QueryRow(ctx, query, name, textnorm.Normalize(name), sym.Description, sym.Synonyms, sym.Severity, sym.Category).Scan(&id); err != nil {
		return 0, fmt.Errorf("knowledge: save symptom: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) RelateProductToSymptom(ctx context.Context, symptomID, productID int64, score int, note string) error {
	query := `
		INSERT INTO symptom_products (symptom_id, product_id, relevance_score, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symptom_id, product_id) DO UPDATE SET
			relevance_score = EXCLUDED.relevance_score,
			notes = EXCLUDED.notes
	`
	if _, err := s.db.Exec(ctx, query, symptomID, productID, clampRelevance(score), note); err != nil {
		return fmt.Errorf("knowledge: relate product: %w", err)
	}
	return nil
}

func (s *PostgresStore) RelatedProducts(ctx context.Context, names []string) (map[int64]int, error) {
	out := make(map[int64]int)
	normalized := normalizeAll(names)
	if len(normalized) == 0 {
		return out, nil
	}
	query := `
		SELECT sp.product_id, MAX(sp.relevance_score)
		FROM symptom_products sp
		JOIN symptoms s ON s.id = sp.symptom_id
		WHERE s.normalized_name = ANY($1)
		GROUP BY sp.product_id
	`
	rows, err := s.db.Query(ctx, query, normalized)
	if err != nil {
		return nil, fmt.Errorf("knowledge: related products: %w: %w", apperrors.ErrExternalCollaborator, err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID int64
		var score int
		if err := rows.Scan(&productID, &score); err != nil {
			return nil, fmt.Errorf("knowledge: scan related product: %w", err)
		}
		out[productID] = score
	}
	return out, rows.Err()
}

func scanSymptom(row pgx.Row) (Symptom, error) {
	var sym Symptom
	var description *string
	if err := row.Scan(&sym.ID, &sym.Name, &description, &sym.Synonyms, &sym.Severity, &sym.Category, &sym.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sym, err
		}
		return sym, fmt.Errorf("knowledge: scan symptom: %w", err)
	}
	if description != nil {
		sym.Description = *description
	}
	return sym, nil
}

// canonicalName is the stored form of a symptom name: trimmed, lowercase,
// accents kept for display.
func canonicalName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if v := textnorm.Normalize(n); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func clampRelevance(score int) int {
	switch {
	case score < 1:
		return 1
	case score > 10:
		return 10
	default:
		return score
	}
}
