package learning

import (
	"context"
	"time"
)

// Status is the review state of a suggestion. Only pending suggestions move,
// and only to one of the settled states.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusAutoApproved Status = "auto_approved"
	StatusRejected     Status = "rejected"
)

// SystemReviewer is the reviewer id recorded for automatic promotions.
const SystemReviewer int64 = 0

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusAutoApproved, StatusRejected:
		return true
	}
	return false
}

// Settled reports whether s is a terminal state.
func (s Status) Settled() bool {
	return s == StatusApproved || s == StatusAutoApproved || s == StatusRejected
}

// Suggestion is a candidate symptom to product association mined from a
// conversation and waiting for promotion.
type Suggestion struct {
	ID               int64      `json:"id"`
	UserMessage      string     `json:"user_message"`
	AIResponse       string     `json:"ai_response"`
	DetectedSymptoms []string   `json:"detected_symptoms"`
	DetectedProducts []int64    `json:"detected_products"`
	ConfidenceScore  float64    `json:"confidence_score"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy       *int64     `json:"reviewed_by,omitempty"`
}

// ListFilter narrows suggestion queries. Zero values mean no constraint,
// except Limit which defaults per store.
type ListFilter struct {
	Status        Status
	MinConfidence float64
	Limit         int
}

// SuggestionStore persists suggestions.
type SuggestionStore interface {
	Insert(ctx context.Context, s Suggestion) (Suggestion, error)
	// Get returns apperrors.ErrNotFound when id is unknown.
	Get(ctx context.Context, id int64) (Suggestion, error)
	List(ctx context.Context, filter ListFilter) ([]Suggestion, error)
	// Settle moves a pending suggestion to status. It reports false without
	// error when the suggestion was no longer pending.
	Settle(ctx context.Context, id int64, status Status, reviewer int64, at time.Time) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

const defaultListLimit = 50
