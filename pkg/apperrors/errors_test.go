package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrappedSentinelsMatch(t *testing.T) {
	err := fmt.Errorf("knowledge: search symptoms: %w: %w", ErrExternalCollaborator, errors.New("dial tcp: refused"))
	if !errors.Is(err, ErrExternalCollaborator) {
		t.Fatalf("expected wrapped collaborator error, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("unexpected validation match")
	}
}
