package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/symptom-advisor/internal/textnorm"
	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
)

type pairKey struct {
	symptomID int64
	productID int64
}

// MemoryStore is an in-process Store for local runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	symptoms  map[string]*Symptom
	relations map[pairKey]SymptomProduct
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		symptoms:  make(map[string]*Symptom),
		relations: make(map[pairKey]SymptomProduct),
		now:       time.Now,
	}
}

func (s *MemoryStore) SearchSymptoms(_ context.Context, term string, limit int) ([]Symptom, error) {
	needle := textnorm.Normalize(term)
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Symptom
	for key, sym := range s.symptoms {
		if strings.Contains(needle, key) || strings.Contains(key, needle) {
			out = append(out, *sym)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len(textnorm.Normalize(out[i].Name)), len(textnorm.Normalize(out[j].Name))
		if li != lj {
			return li > lj
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetSymptomByName(_ context.Context, name string) (*Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sym, ok := s.symptoms[textnorm.Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("knowledge: symptom %q: %w", name, apperrors.ErrNotFound)
	}
	cp := *sym
	return &cp, nil
}

func (s *MemoryStore) SaveSymptom(_ context.Context, sym Symptom) (int64, error) {
	name := canonicalName(sym.Name)
	key := textnorm.Normalize(name)
	if key == "" {
		return 0, fmt.Errorf("knowledge: symptom name required: %w", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.symptoms[key]; ok {
		if sym.Description != "" {
			existing.Description = sym.Description
		}
		if len(sym.Synonyms) > 0 {
			existing.Synonyms = append([]string(nil), sym.Synonyms...)
		}
		if sym.Severity != "" {
			existing.Severity = sym.Severity
		}
		if sym.Category != "" {
			existing.Category = sym.Category
		}
		return existing.ID, nil
	}

	s.nextID++
	stored := sym
	stored.ID = s.nextID
	stored.Name = name
	stored.Synonyms = append([]string(nil), sym.Synonyms...)
	stored.CreatedAt = s.now().UTC()
	s.symptoms[key] = &stored
	return stored.ID, nil
}

func (s *MemoryStore) RelateProductToSymptom(_ context.Context, symptomID, productID int64, score int, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{symptomID: symptomID, productID: productID}
	rel, ok := s.relations[key]
	if !ok {
		rel = SymptomProduct{SymptomID: symptomID, ProductID: productID, CreatedAt: s.now().UTC()}
	}
	rel.RelevanceScore = clampRelevance(score)
	rel.Notes = note
	s.relations[key] = rel
	return nil
}

func (s *MemoryStore) RelatedProducts(_ context.Context, names []string) (map[int64]int, error) {
	out := make(map[int64]int)
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[int64]bool)
	for _, n := range normalizeAll(names) {
		if sym, ok := s.symptoms[n]; ok {
			ids[sym.ID] = true
		}
	}
	for key, rel := range s.relations {
		if ids[key.symptomID] && rel.RelevanceScore > out[key.productID] {
			out[key.productID] = rel.RelevanceScore
		}
	}
	return out, nil
}

// Relations returns every stored pair ordered by symptom then product.
func (s *MemoryStore) Relations() []SymptomProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SymptomProduct, 0, len(s.relations))
	for _, rel := range s.relations {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SymptomID != out[j].SymptomID {
			return out[i].SymptomID < out[j].SymptomID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
