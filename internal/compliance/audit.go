// Package compliance keeps the audit trail of knowledge-base review decisions
// and the health disclaimer attached to every recommendation.
package compliance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ReviewAction is what happened to a suggestion.
type ReviewAction string

const (
	ActionApproved     ReviewAction = "approved"
	ActionAutoApproved ReviewAction = "auto_approved"
	ActionRejected     ReviewAction = "rejected"
)

// ReviewEvent is an immutable record of one settled suggestion.
type ReviewEvent struct {
	ID               string    `json:"id"`
	SuggestionID     int64     `json:"suggestion_id"`
	Action           string    `json:"action"`
	ReviewerID       int64     `json:"reviewer_id"`
	RelationsCreated int       `json:"relations_created"`
	Symptoms         []string  `json:"symptoms"`
	ProductIDs       []int64   `json:"product_ids"`
	Confidence       float64   `json:"confidence"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// AuditService writes review events to learning_audit_events.
type AuditService struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) *AuditService {
	if db == nil {
		panic("compliance: sql db required")
	}
	return &AuditService{db: db}
}

// RecordReview stores event. Missing id and timestamp are filled in.
func (s *AuditService) RecordReview(ctx context.Context, event ReviewEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO learning_audit_events (
			id, suggestion_id, action, reviewer_id, relations_created,
			symptoms, product_ids, confidence, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.SuggestionID,
		event.Action,
		event.ReviewerID,
		event.RelationsCreated,
		pq.Array(event.Symptoms),
		pq.Array(event.ProductIDs),
		event.Confidence,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to record review event: %w", err)
	}
	return nil
}

// ReviewHistory returns the events for one suggestion, newest first.
func (s *AuditService) ReviewHistory(ctx context.Context, suggestionID int64) ([]ReviewEvent, error) {
	query := `
		SELECT id, suggestion_id, action, reviewer_id, relations_created,
		       symptoms, product_ids, confidence, occurred_at
		FROM learning_audit_events
		WHERE suggestion_id = $1
		ORDER BY occurred_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query review events: %w", err)
	}
	defer rows.Close()

	var events []ReviewEvent
	for rows.Next() {
		var e ReviewEvent
		if err := rows.Scan(
			&e.ID, &e.SuggestionID, &e.Action, &e.ReviewerID, &e.RelationsCreated,
			pq.Array(&e.Symptoms), pq.Array(&e.ProductIDs), &e.Confidence, &e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("compliance: failed to scan review event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compliance: failed to iterate review events: %w", err)
	}
	return events, nil
}
