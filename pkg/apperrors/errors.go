// Package apperrors holds the sentinel errors shared across packages.
// Callers wrap them with context and match with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed or empty input rejected before analysis.
	ErrValidation = errors.New("validation failed")
	// ErrExternalCollaborator marks an unavailable catalog, knowledge base or model backend.
	ErrExternalCollaborator = errors.New("external collaborator unavailable")
	// ErrLearningExtraction marks a failure inside conversation analysis.
	ErrLearningExtraction = errors.New("learning extraction failed")
	ErrNotFound           = errors.New("not found")
	// ErrInvalidTransition marks a status change away from a settled suggestion.
	ErrInvalidTransition = errors.New("invalid status transition")
)
