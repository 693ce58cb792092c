package archive

import "time"

const recordVersion = "1.0"

// SuggestionRecord is the archived form of a settled learning suggestion.
// Free text is scrubbed of contact data before it leaves the database.
type SuggestionRecord struct {
	Version         string     `json:"version"`
	SuggestionID    int64      `json:"suggestion_id"`
	Status          string     `json:"status"`
	ReviewerID      int64      `json:"reviewer_id"`
	ConfidenceScore float64    `json:"confidence_score"`
	Symptoms        []string   `json:"symptoms"`
	ProductIDs      []int64    `json:"product_ids"`
	UserMessage     string     `json:"user_message"`
	AIResponse      string     `json:"ai_response"`
	MessageHash     string     `json:"message_hash"` // sha256 of the unscrubbed user message
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ArchivedAt      time.Time  `json:"archived_at"`
}

// ManifestEntry is one JSONL line in the monthly manifest file.
type ManifestEntry struct {
	SuggestionID int64   `json:"suggestion_id"`
	S3Key        string  `json:"s3_key"`
	Status       string  `json:"status"`
	Confidence   float64 `json:"confidence"`
	SymptomCount int     `json:"symptom_count"`
	ProductCount int     `json:"product_count"`
	ArchivedAt   string  `json:"archived_at"`
}
