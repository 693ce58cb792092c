// Package learning mines finished conversations for symptom to product
// associations, stores them as suggestions and promotes reviewed
// suggestions into the knowledge base.
package learning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	"github.com/wolfman30/symptom-advisor/internal/knowledge"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/internal/textnorm"
	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

var tracer = otel.Tracer("symptom-advisor.learning")

const (
	defaultMinConfidence         = 0.7
	defaultAutoApproveConfidence = 0.9
	defaultAutoApproveBatch      = 10
	knowledgeSearchLimit         = 5

	// scoreEpsilon absorbs float noise when comparing scores to thresholds.
	scoreEpsilon = 1e-9

	learnedSymptomDescription = "Detectado automáticamente en conversaciones con clientes."
)

// Auditor records review decisions.
type Auditor interface {
	RecordReview(ctx context.Context, event compliance.ReviewEvent) error
}

// Archiver exports settled suggestions.
type Archiver interface {
	ArchiveSuggestion(ctx context.Context, s Suggestion) error
}

// Record is the outcome of analyzing one conversation.
type Record struct {
	Symptoms         []string `json:"symptoms"`
	Products         []int64  `json:"products"`
	ExistingProducts int      `json:"existing_products"`
	Confidence       float64  `json:"confidence"`
	Persisted        bool     `json:"persisted"`
	SuggestionID     int64    `json:"suggestion_id,omitempty"`
}

// Engine is safe for concurrent use. Its write paths rely on the stores'
// upsert and pending-guard semantics.
type Engine struct {
	catalog     catalog.Provider
	knowledge   knowledge.Store
	suggestions SuggestionStore
	patterns    []Pattern
	auditor     Auditor
	archiver    Archiver
	metrics     *metrics.LearningMetrics
	logger      *logging.Logger
	now         func() time.Time

	minConfidence         float64
	autoApproveConfidence float64
	autoApproveBatch      int
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithMinConfidence sets the score a conversation needs to become a suggestion.
func WithMinConfidence(v float64) EngineOption {
	return func(e *Engine) {
		if v > 0 {
			e.minConfidence = v
		}
	}
}

// WithAutoApprove sets the auto-approval confidence floor and batch size.
func WithAutoApprove(confidence float64, batch int) EngineOption {
	return func(e *Engine) {
		if confidence > 0 {
			e.autoApproveConfidence = confidence
		}
		if batch > 0 {
			e.autoApproveBatch = batch
		}
	}
}

func WithPatterns(patterns []Pattern) EngineOption {
	return func(e *Engine) {
		if len(patterns) > 0 {
			e.patterns = patterns
		}
	}
}

func WithAuditor(a Auditor) EngineOption {
	return func(e *Engine) { e.auditor = a }
}

func WithArchiver(a Archiver) EngineOption {
	return func(e *Engine) { e.archiver = a }
}

func WithMetrics(m *metrics.LearningMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func withClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(provider catalog.Provider, kb knowledge.Store, suggestions SuggestionStore, logger *logging.Logger, opts ...EngineOption) *Engine {
	if provider == nil {
		panic("learning: catalog provider cannot be nil")
	}
	if kb == nil {
		panic("learning: knowledge store cannot be nil")
	}
	if suggestions == nil {
		panic("learning: suggestion store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		catalog:               provider,
		knowledge:             kb,
		suggestions:           suggestions,
		patterns:              DefaultPatterns,
		logger:                logger,
		now:                   time.Now,
		minConfidence:         defaultMinConfidence,
		autoApproveConfidence: defaultAutoApproveConfidence,
		autoApproveBatch:      defaultAutoApproveBatch,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzeConversation extracts symptoms from the user message and products
// from the reply, scores the pair and stores a pending suggestion when both
// sides are non-empty and the score reaches the minimum confidence.
func (e *Engine) AnalyzeConversation(ctx context.Context, userMessage, aiResponse string) (Record, error) {
	ctx, span := tracer.Start(ctx, "learning.analyze_conversation")
	defer span.End()

	symptoms, err := e.extractSymptoms(ctx, userMessage)
	if err != nil {
		return Record{}, fmt.Errorf("learning: extract symptoms: %w: %w", apperrors.ErrLearningExtraction, err)
	}
	record := Record{Symptoms: symptoms}
	if len(symptoms) == 0 {
		e.metrics.ObserveSuggestion("no_symptoms")
		return record, nil
	}

	items, err := e.catalog.Snapshot(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("learning: load catalog: %w: %w", apperrors.ErrLearningExtraction, err)
	}
	products := extractProducts(aiResponse, items)
	record.Products = products.ids
	record.ExistingProducts = products.existing
	if len(products.ids) == 0 {
		e.metrics.ObserveSuggestion("no_products")
		return record, nil
	}

	record.Confidence = confidenceScore(len(symptoms), len(products.ids), products.existing)
	span.SetAttributes(
		attribute.Int("learning.symptoms", len(symptoms)),
		attribute.Int("learning.products", len(products.ids)),
		attribute.Float64("learning.confidence", record.Confidence),
	)
	if !meetsThreshold(record.Confidence, e.minConfidence) {
		e.metrics.ObserveSuggestion("below_threshold")
		return record, nil
	}

	stored, err := e.suggestions.Insert(ctx, Suggestion{
		UserMessage:      userMessage,
		AIResponse:       aiResponse,
		DetectedSymptoms: symptoms,
		DetectedProducts: products.ids,
		ConfidenceScore:  record.Confidence,
		Status:           StatusPending,
	})
	if err != nil {
		return record, fmt.Errorf("learning: store suggestion: %w: %w", apperrors.ErrLearningExtraction, err)
	}
	record.Persisted = true
	record.SuggestionID = stored.ID
	e.metrics.ObserveSuggestion("stored")
	e.logger.Info("learning suggestion stored",
		"suggestion_id", stored.ID,
		"confidence", record.Confidence,
		"symptoms", len(symptoms),
		"products", len(products.ids),
	)
	return record, nil
}

func (e *Engine) extractSymptoms(ctx context.Context, message string) ([]string, error) {
	text := textnorm.Normalize(message)
	if text == "" {
		return nil, nil
	}
	fromPatterns := matchPatterns(text, e.patterns)

	known, err := e.knowledge.SearchSymptoms(ctx, text, knowledgeSearchLimit)
	if err != nil {
		return nil, err
	}
	fromKnowledge := make([]string, 0, len(known))
	for _, s := range known {
		fromKnowledge = append(fromKnowledge, s.Name)
	}
	return dedupeSymptoms(fromPatterns, fromKnowledge), nil
}

// confidenceScore works in tenths so the sum is exact:
// min(0.4, 0.2*symptoms) + min(0.4, 0.2*products) + 0.1*existing, capped at 1.
func confidenceScore(symptoms, products, existing int) float64 {
	tenths := min(4, 2*symptoms) + min(4, 2*products) + existing
	if tenths > 10 {
		tenths = 10
	}
	return float64(tenths) / 10
}

func meetsThreshold(score, threshold float64) bool {
	return score+scoreEpsilon >= threshold
}

// ProcessSuggestion promotes a pending suggestion into the knowledge base.
// reviewer SystemReviewer marks an automatic promotion. It reports whether at
// least one relation was written; a suggestion that is no longer pending is
// left untouched and reports false.
func (e *Engine) ProcessSuggestion(ctx context.Context, id, reviewer int64) (bool, error) {
	settled, created, err := e.promote(ctx, id, reviewer)
	if err != nil {
		return false, err
	}
	return settled && created > 0, nil
}

func (e *Engine) promote(ctx context.Context, id, reviewer int64) (bool, int, error) {
	sug, err := e.suggestions.Get(ctx, id)
	if err != nil {
		return false, 0, err
	}
	if sug.Status != StatusPending {
		e.logger.Debug("suggestion already settled", "suggestion_id", id, "status", sug.Status)
		return false, 0, nil
	}

	relevance := int(math.Round(sug.ConfidenceScore * 10))
	note := fmt.Sprintf("Aprendido de la sugerencia #%d (confianza %.0f%%)", sug.ID, sug.ConfidenceScore*100)
	created := 0
	for _, name := range sug.DetectedSymptoms {
		symptomID, err := e.ensureSymptom(ctx, name)
		if err != nil {
			return false, created, err
		}
		for _, productID := range sug.DetectedProducts {
			if err := e.knowledge.RelateProductToSymptom(ctx, symptomID, productID, relevance, note); err != nil {
				return false, created, fmt.Errorf("learning: relate %q to product %d: %w", name, productID, err)
			}
			created++
		}
	}

	status := StatusApproved
	mode := "manual"
	if reviewer == SystemReviewer {
		status = StatusAutoApproved
		mode = "auto"
	}
	at := e.now().UTC()
	ok, err := e.suggestions.Settle(ctx, id, status, reviewer, at)
	if err != nil {
		return false, created, err
	}
	if !ok {
		e.logger.Info("suggestion settled concurrently", "suggestion_id", id)
		return false, created, nil
	}

	e.metrics.ObservePromotion(mode, created)
	sug.Status = status
	sug.ReviewedAt = &at
	sug.ReviewedBy = &reviewer
	e.afterReview(ctx, sug, created)
	return true, created, nil
}

func (e *Engine) ensureSymptom(ctx context.Context, name string) (int64, error) {
	existing, err := e.knowledge.GetSymptomByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, fmt.Errorf("learning: lookup symptom %q: %w", name, err)
	}
	id, err := e.knowledge.SaveSymptom(ctx, knowledge.Symptom{
		Name:        name,
		Description: learnedSymptomDescription,
		Severity:    knowledge.SeverityMild,
		Category:    knowledge.CategoryAutoDetected,
	})
	if err != nil {
		return 0, fmt.Errorf("learning: create symptom %q: %w", name, err)
	}
	return id, nil
}

// RejectSuggestion settles a pending suggestion as rejected.
func (e *Engine) RejectSuggestion(ctx context.Context, id, reviewer int64) error {
	sug, err := e.suggestions.Get(ctx, id)
	if err != nil {
		return err
	}
	if sug.Status != StatusPending {
		return fmt.Errorf("learning: reject suggestion %d in status %s: %w", id, sug.Status, apperrors.ErrInvalidTransition)
	}
	at := e.now().UTC()
	ok, err := e.suggestions.Settle(ctx, id, StatusRejected, reviewer, at)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("learning: reject suggestion %d: %w", id, apperrors.ErrInvalidTransition)
	}
	e.metrics.ObservePromotion("rejected", 0)
	sug.Status = StatusRejected
	sug.ReviewedAt = &at
	sug.ReviewedBy = &reviewer
	e.afterReview(ctx, sug, 0)
	return nil
}

// AutoApprove promotes up to the batch size of pending suggestions at or
// above the auto-approval confidence and returns how many it settled.
// Settled suggestions are never selected again, so repeated runs are safe.
func (e *Engine) AutoApprove(ctx context.Context) (int, error) {
	pending, err := e.suggestions.List(ctx, ListFilter{
		Status:        StatusPending,
		MinConfidence: e.autoApproveConfidence,
		Limit:         e.autoApproveBatch,
	})
	if err != nil {
		return 0, fmt.Errorf("learning: list auto-approval candidates: %w", err)
	}

	promoted := 0
	var errs []error
	for _, sug := range pending {
		ok, _, err := e.promote(ctx, sug.ID, SystemReviewer)
		if err != nil {
			e.logger.Error("auto-approval failed", "error", err, "suggestion_id", sug.ID)
			errs = append(errs, err)
			continue
		}
		if ok {
			promoted++
		}
	}
	if promoted > 0 {
		e.logger.Info("auto-approved learning suggestions", "count", promoted)
	}
	return promoted, errors.Join(errs...)
}

// Suggestions lists stored suggestions for review.
func (e *Engine) Suggestions(ctx context.Context, filter ListFilter) ([]Suggestion, error) {
	return e.suggestions.List(ctx, filter)
}

// Stats counts suggestions per status.
func (e *Engine) Stats(ctx context.Context) (map[Status]int, error) {
	return e.suggestions.CountByStatus(ctx)
}

func (e *Engine) afterReview(ctx context.Context, sug Suggestion, relations int) {
	if e.auditor != nil {
		event := compliance.ReviewEvent{
			SuggestionID:     sug.ID,
			Action:           string(sug.Status),
			ReviewerID:       *sug.ReviewedBy,
			RelationsCreated: relations,
			Symptoms:         sug.DetectedSymptoms,
			ProductIDs:       sug.DetectedProducts,
			Confidence:       sug.ConfidenceScore,
			OccurredAt:       *sug.ReviewedAt,
		}
		if err := e.auditor.RecordReview(ctx, event); err != nil {
			e.logger.Warn("failed to record review audit event", "error", err, "suggestion_id", sug.ID)
		}
	}
	if e.archiver != nil {
		if err := e.archiver.ArchiveSuggestion(ctx, sug); err != nil {
			e.logger.Warn("failed to archive suggestion", "error", err, "suggestion_id", sug.ID)
		}
	}
}
