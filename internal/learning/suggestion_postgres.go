package learning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSuggestionStore stores suggestions in learning_suggestions.
type PostgresSuggestionStore struct {
	db db
}

func NewPostgresSuggestionStore(pool *pgxpool.Pool) *PostgresSuggestionStore {
	if pool == nil {
		panic("learning: pgx pool required")
	}
	return &PostgresSuggestionStore{db: pool}
}

func newPostgresSuggestionStoreWithDB(d db) *PostgresSuggestionStore {
	if d == nil {
		panic("learning: db required")
	}
	return &PostgresSuggestionStore{db: d}
}

const suggestionColumns = `id, user_message, ai_response, detected_symptoms, detected_products,
	confidence_score::float8, status, created_at, reviewed_at, reviewed_by`

func (s *PostgresSuggestionStore) Insert(ctx context.Context, sug Suggestion) (Suggestion, error) {
	if sug.Status == "" {
		sug.Status = StatusPending
	}
	if sug.DetectedSymptoms == nil {
		sug.DetectedSymptoms = []string{}
	}
	if sug.DetectedProducts == nil {
		sug.DetectedProducts = []int64{}
	}
	query := `
		INSERT INTO learning_suggestions (user_message, ai_response, detected_symptoms, detected_products, confidence_score, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query, sug.UserMessage, sug.AIResponse, sug.DetectedSymptoms, sug.DetectedProducts, sug.ConfidenceScore, string(sug.Status)).
		Scan(&sug.ID, &sug.CreatedAt)
	if err != nil {
		return Suggestion{}, fmt.Errorf("learning: insert suggestion: %w", err)
	}
	return sug, nil
}

func (s *PostgresSuggestionStore) Get(ctx context.Context, id int64) (Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM learning_suggestions WHERE id = $1`
	sug, err := scanSuggestion(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Suggestion{}, fmt.Errorf("learning: suggestion %d: %w", id, apperrors.ErrNotFound)
		}
		return Suggestion{}, err
	}
	return sug, nil
}

func (s *PostgresSuggestionStore) List(ctx context.Context, filter ListFilter) ([]Suggestion, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT ` + suggestionColumns + `
		FROM learning_suggestions
		WHERE ($1 = '' OR status = $1) AND confidence_score >= $2
		ORDER BY created_at, id
		LIMIT $3
	`
	rows, err := s.db.Query(ctx, query, string(filter.Status), filter.MinConfidence, limit)
	if err != nil {
		return nil, fmt.Errorf("learning: list suggestions: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		sug, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sug)
	}
	return out, rows.Err()
}

func (s *PostgresSuggestionStore) Settle(ctx context.Context, id int64, status Status, reviewer int64, at time.Time) (bool, error) {
	if !status.Settled() {
		return false, fmt.Errorf("learning: settle to %q: %w", status, apperrors.ErrInvalidTransition)
	}
	query := `
		UPDATE learning_suggestions
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	ct, err := s.db.Exec(ctx, query, id, string(status), reviewer, at)
	if err != nil {
		return false, fmt.Errorf("learning: settle suggestion: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (s *PostgresSuggestionStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM learning_suggestions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("learning: count suggestions: %w", err)
	}
	defer rows.Close()

	out := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("learning: scan count: %w", err)
		}
		out[Status(status)] = int(count)
	}
	return out, rows.Err()
}

func scanSuggestion(row pgx.Row) (Suggestion, error) {
	var sug Suggestion
	var status string
	if err := row.Scan(
		&sug.ID, &sug.UserMessage, &sug.AIResponse, &sug.DetectedSymptoms, &sug.DetectedProducts,
		&sug.ConfidenceScore, &status, &sug.CreatedAt, &sug.ReviewedAt, &sug.ReviewedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sug, err
		}
		return sug, fmt.Errorf("learning: scan suggestion: %w", err)
	}
	sug.Status = Status(status)
	return sug, nil
}
