// Package chat answers storefront wellness questions: it analyzes the
// message, picks products from the catalog, builds the model prompt and
// returns the reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/internal/prompt"
	"github.com/wolfman30/symptom-advisor/internal/symptoms"
	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

var tracer = otel.Tracer("symptom-advisor.chat")

const (
	StrategyRestricted = "restricted"
	StrategyGeneral    = "general"

	maxMessageRunes       = 2000
	defaultInventoryLimit = 10
	defaultLLMTimeout     = 30 * time.Second
	scheduleTimeout       = 5 * time.Second

	defaultFallbackMessage = "En este momento no puedo responder. Por favor contáctanos directamente y un asesor te ayudará."
)

// RelationLookup returns knowledge-base relevance per product id for a set
// of ailment names.
type RelationLookup interface {
	RelatedProducts(ctx context.Context, names []string) (map[int64]int, error)
}

// ConversationScheduler defers learning over a finished exchange.
type ConversationScheduler interface {
	ScheduleConversation(ctx context.Context, userMessage, aiResponse string) error
}

// Analysis is everything derived from a message before the model is called.
type Analysis struct {
	Symptoms  symptoms.Result   `json:"symptoms"`
	Mentions  []catalog.Mention `json:"mentions"`
	Restrict  bool              `json:"restrict_to_mentioned"`
	Strategy  string            `json:"strategy"`
	Inventory []InventoryItem   `json:"inventory"`
	Prompt    string            `json:"prompt"`
}

// InventoryItem is a ranked product offered in the general prompt.
type InventoryItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
}

// Reply is the answer returned to the shopper.
type Reply struct {
	Message  string   `json:"message"`
	Fallback bool     `json:"fallback"`
	Analysis Analysis `json:"analysis"`
}

// ModelConfig selects the model and sampling settings.
type ModelConfig struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
}

// Service runs the message flow. It is safe for concurrent use.
type Service struct {
	analyzer  *symptoms.Analyzer
	catalog   catalog.Provider
	relations RelationLookup
	detector  *catalog.MentionDetector
	decider   *catalog.Decider
	assembler *prompt.Assembler
	llm       LLMClient
	model     ModelConfig
	learning  ConversationScheduler
	metrics   *metrics.AdvisorMetrics
	logger    *logging.Logger

	fallback       string
	disclaimer     compliance.DisclaimerLevel
	inventoryLimit int
	llmTimeout     time.Duration
}

// Option customizes a Service.
type Option func(*Service)

func WithKnowledge(lookup RelationLookup) Option {
	return func(s *Service) { s.relations = lookup }
}

func WithLLM(client LLMClient, model ModelConfig) Option {
	return func(s *Service) {
		s.llm = client
		s.model = model
	}
}

// WithLearning enables deferred learning over every answered exchange.
func WithLearning(scheduler ConversationScheduler) Option {
	return func(s *Service) { s.learning = scheduler }
}

func WithDecider(d *catalog.Decider) Option {
	return func(s *Service) {
		if d != nil {
			s.decider = d
		}
	}
}

func WithMentionDetector(d *catalog.MentionDetector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

func WithAssembler(a *prompt.Assembler) Option {
	return func(s *Service) {
		if a != nil {
			s.assembler = a
		}
	}
}

// WithFallbackMessage sets the text returned when the model is unavailable.
func WithFallbackMessage(text string) Option {
	return func(s *Service) {
		if strings.TrimSpace(text) != "" {
			s.fallback = strings.TrimSpace(text)
		}
	}
}

func WithDisclaimerLevel(level compliance.DisclaimerLevel) Option {
	return func(s *Service) { s.disclaimer = level }
}

func WithInventoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.inventoryLimit = n
		}
	}
}

func WithLLMTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.llmTimeout = d
		}
	}
}

func WithMetrics(m *metrics.AdvisorMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(analyzer *symptoms.Analyzer, provider catalog.Provider, logger *logging.Logger, opts ...Option) *Service {
	if analyzer == nil {
		panic("chat: analyzer cannot be nil")
	}
	if provider == nil {
		panic("chat: catalog provider cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		analyzer:       analyzer,
		catalog:        provider,
		detector:       catalog.NewMentionDetector(catalog.DefaultMentionConfidences()),
		decider:        catalog.NewDecider(0),
		logger:         logger,
		fallback:       defaultFallbackMessage,
		disclaimer:     compliance.DisclaimerStandard,
		inventoryLimit: defaultInventoryLimit,
		llmTimeout:     defaultLLMTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.assembler == nil {
		s.assembler = prompt.NewAssembler(prompt.WithDisclaimer(compliance.DisclaimerText(s.disclaimer)))
	}
	return s
}

// Analyze runs everything up to prompt assembly without calling the model.
func (s *Service) Analyze(ctx context.Context, message string) (Analysis, error) {
	ctx, span := tracer.Start(ctx, "chat.analyze")
	defer span.End()

	analysis, err := s.analyze(ctx, message)
	if err != nil {
		span.RecordError(err)
		return Analysis{}, err
	}
	s.metrics.ObserveRequest("analyze", analysis.Strategy)
	return analysis, nil
}

// Respond answers message. A model failure degrades to the fallback text;
// only invalid input and catalog or knowledge outages return an error.
func (s *Service) Respond(ctx context.Context, message string) (Reply, error) {
	ctx, span := tracer.Start(ctx, "chat.respond")
	defer span.End()

	analysis, err := s.analyze(ctx, message)
	if err != nil {
		span.RecordError(err)
		return Reply{}, err
	}
	s.metrics.ObserveRequest("messages", analysis.Strategy)

	reply := Reply{Analysis: analysis}
	text, err := s.complete(ctx, analysis.Prompt)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("language model unavailable, using fallback", "error", err)
		reply.Message = s.fallback
		reply.Fallback = true
	} else {
		reply.Message = compliance.EnsureDisclaimer(text, s.disclaimer)
		s.scheduleLearning(ctx, message, reply.Message)
	}

	span.SetAttributes(
		attribute.String("chat.strategy", analysis.Strategy),
		attribute.Int("chat.symptom_hits", len(analysis.Symptoms.Hits)),
		attribute.Int("chat.mentions", len(analysis.Mentions)),
		attribute.Bool("chat.fallback", reply.Fallback),
	)
	return reply, nil
}

func (s *Service) analyze(ctx context.Context, message string) (Analysis, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Analysis{}, fmt.Errorf("chat: message is required: %w", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return Analysis{}, fmt.Errorf("chat: message exceeds %d characters: %w", maxMessageRunes, apperrors.ErrValidation)
	}

	result := s.analyzer.Analyze(message)
	for _, h := range result.Hits {
		s.metrics.ObserveSymptomHit(string(h.Strategy))
	}

	items, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("chat: load catalog: %w", withCollaborator(err))
	}

	mentions := s.detector.Detect(message, catalog.AsProducts(items))
	for _, m := range mentions {
		s.metrics.ObserveMention(m.Strategy)
	}
	restrict := s.decider.ShouldRestrictToMentioned(mentions, message)

	analysis := Analysis{
		Symptoms:  result,
		Mentions:  mentions,
		Restrict:  restrict,
		Strategy:  StrategyGeneral,
		Inventory: []InventoryItem{},
	}
	if analysis.Mentions == nil {
		analysis.Mentions = []catalog.Mention{}
	}

	in := prompt.Input{
		Message:           message,
		Analysis:          result,
		Mentions:          mentions,
		MentionedProducts: prompt.FormatMentions(mentions),
		Restrict:          restrict,
	}
	if restrict {
		analysis.Strategy = StrategyRestricted
	} else {
		ranked, err := s.rank(ctx, items, result)
		if err != nil {
			return Analysis{}, err
		}
		in.RelevantProducts = prompt.FormatInventory(ranked)
		for _, r := range ranked {
			analysis.Inventory = append(analysis.Inventory, InventoryItem{ProductID: r.Item.ID, Name: r.Item.Name, Score: r.Score})
		}
	}

	analysis.Prompt = s.assembler.Build(in)
	return analysis, nil
}

func (s *Service) rank(ctx context.Context, items []catalog.Item, result symptoms.Result) ([]catalog.Ranked, error) {
	var related map[int64]int
	if s.relations != nil && !result.Empty() {
		var err error
		related, err = s.relations.RelatedProducts(ctx, result.Terms())
		if err != nil {
			return nil, fmt.Errorf("chat: load related products: %w", withCollaborator(err))
		}
	}
	return catalog.RankRelevant(items, result.Keywords, related, s.inventoryLimit), nil
}

func (s *Service) complete(ctx context.Context, builtPrompt string) (string, error) {
	if s.llm == nil {
		s.metrics.ObserveLLM("disabled", 0)
		return "", fmt.Errorf("chat: no language model configured: %w", apperrors.ErrExternalCollaborator)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	started := time.Now()
	resp, err := s.llm.Complete(callCtx, LLMRequest{
		Model:       s.model.ModelID,
		System:      []string{prompt.SystemRole},
		Messages:    []Message{{Role: RoleUser, Content: builtPrompt}},
		MaxTokens:   s.model.MaxTokens,
		Temperature: s.model.Temperature,
	})
	elapsed := time.Since(started).Seconds()
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = errors.New("chat: language model returned an empty reply")
	}
	if err != nil {
		s.metrics.ObserveLLM("error", elapsed)
		return "", fmt.Errorf("chat: complete: %w: %w", apperrors.ErrExternalCollaborator, err)
	}
	s.metrics.ObserveLLM("ok", elapsed)
	return resp.Text, nil
}

// scheduleLearning hands the exchange to the learning queue without
// blocking the reply. Errors are logged only.
func (s *Service) scheduleLearning(ctx context.Context, userMessage, aiResponse string) {
	if s.learning == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("learning schedule panicked", "panic", r)
			}
		}()
		scheduleCtx, cancel := context.WithTimeout(bg, scheduleTimeout)
		defer cancel()
		if err := s.learning.ScheduleConversation(scheduleCtx, userMessage, aiResponse); err != nil {
			s.logger.Warn("failed to schedule learning", "error", err)
		}
	}()
}

func withCollaborator(err error) error {
	if errors.Is(err, apperrors.ErrExternalCollaborator) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrExternalCollaborator, err)
}
