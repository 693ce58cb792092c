package learning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
)

// MemorySuggestionStore keeps suggestions in process memory.
type MemorySuggestionStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]Suggestion
	now    func() time.Time
}

func NewMemorySuggestionStore() *MemorySuggestionStore {
	return &MemorySuggestionStore{items: make(map[int64]Suggestion), now: time.Now}
}

func (s *MemorySuggestionStore) Insert(_ context.Context, sug Suggestion) (Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sug.ID = s.nextID
	if sug.Status == "" {
		sug.Status = StatusPending
	}
	sug.CreatedAt = s.now().UTC()
	sug.DetectedSymptoms = append([]string(nil), sug.DetectedSymptoms...)
	sug.DetectedProducts = append([]int64(nil), sug.DetectedProducts...)
	s.items[sug.ID] = sug
	return sug, nil
}

func (s *MemorySuggestionStore) Get(_ context.Context, id int64) (Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sug, ok := s.items[id]
	if !ok {
		return Suggestion{}, fmt.Errorf("learning: suggestion %d: %w", id, apperrors.ErrNotFound)
	}
	return sug, nil
}

func (s *MemorySuggestionStore) List(_ context.Context, filter ListFilter) ([]Suggestion, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Suggestion
	for _, sug := range s.items {
		if filter.Status != "" && sug.Status != filter.Status {
			continue
		}
		if sug.ConfidenceScore+scoreEpsilon < filter.MinConfidence {
			continue
		}
		out = append(out, sug)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemorySuggestionStore) Settle(_ context.Context, id int64, status Status, reviewer int64, at time.Time) (bool, error) {
	if !status.Settled() {
		return false, fmt.Errorf("learning: settle to %q: %w", status, apperrors.ErrInvalidTransition)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sug, ok := s.items[id]
	if !ok || sug.Status != StatusPending {
		return false, nil
	}
	sug.Status = status
	reviewedAt := at.UTC()
	sug.ReviewedAt = &reviewedAt
	sug.ReviewedBy = &reviewer
	s.items[id] = sug
	return true, nil
}

func (s *MemorySuggestionStore) CountByStatus(_ context.Context) (map[Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Status]int)
	for _, sug := range s.items {
		out[sug.Status]++
	}
	return out, nil
}
