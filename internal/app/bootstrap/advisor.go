package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/chat"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/matching"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/internal/prompt"
	"github.com/wolfman30/symptom-advisor/internal/symptoms"
	"github.com/wolfman30/symptom-advisor/internal/taxonomy"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// BuildAnalyzer returns a symptom analyzer over the default taxonomy with
// matcher thresholds from config.
func BuildAnalyzer(cfg *appconfig.Config, logger *logging.Logger) *symptoms.Analyzer {
	if logger == nil {
		logger = logging.Default()
	}
	tax := taxonomy.Default()
	logger.Info("symptom taxonomy loaded", "categories", len(tax.Categories()), "terms", tax.TermCount())
	var opts []matching.Option
	if cfg != nil {
		opts = append(opts, matching.WithThresholds(matching.Thresholds{
			PartialWord: cfg.MatchPartialWord,
			PartialTerm: cfg.MatchPartialTerm,
			Synonym:     cfg.MatchSynonym,
			Phonetic:    cfg.MatchPhonetic,
			Substring:   cfg.MatchSubstring,
		}))
	}
	return symptoms.NewAnalyzer(tax, matching.New(tax, opts...))
}

// BuildLLMClient returns the Bedrock client, or nil when no model is
// configured so replies degrade to the contact fallback.
func BuildLLMClient(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (chat.LLMClient, chat.ModelConfig) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || strings.TrimSpace(cfg.BedrockModelID) == "" {
		logger.Warn("no Bedrock model configured; chat replies will use the fallback message")
		return nil, chat.ModelConfig{}
	}
	model := chat.ModelConfig{
		ModelID:     strings.TrimSpace(cfg.BedrockModelID),
		MaxTokens:   int32(cfg.BedrockMaxTokens),
		Temperature: float32(cfg.BedrockTemperature),
	}
	logger.Info("language model enabled", "model", model.ModelID)
	return chat.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), model
}

// ChatDeps carries the optional collaborators of the chat service.
type ChatDeps struct {
	LLM       chat.LLMClient
	Model     chat.ModelConfig
	Scheduler chat.ConversationScheduler
	Metrics   *metrics.AdvisorMetrics
}

// BuildChatService wires the message flow from config.
func BuildChatService(cfg *appconfig.Config, stores Stores, deps ChatDeps, logger *logging.Logger) *chat.Service {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	level := compliance.ParseDisclaimerLevel(cfg.DisclaimerLevel)
	assembler := prompt.NewAssembler(
		prompt.WithStoreName(cfg.StorefrontName),
		prompt.WithDisclaimer(compliance.DisclaimerText(level)),
	)

	opts := []chat.Option{
		chat.WithKnowledge(stores.Knowledge),
		chat.WithAssembler(assembler),
		chat.WithDecider(catalog.NewDecider(cfg.RestrictConfidence)),
		chat.WithDisclaimerLevel(level),
		chat.WithFallbackMessage(cfg.ContactFallback),
		chat.WithInventoryLimit(cfg.InventoryLimit),
		chat.WithLLMTimeout(cfg.LLMTimeout),
		chat.WithMetrics(deps.Metrics),
	}
	if deps.LLM != nil {
		opts = append(opts, chat.WithLLM(deps.LLM, deps.Model))
	}
	if deps.Scheduler != nil {
		opts = append(opts, chat.WithLearning(deps.Scheduler))
	}
	return chat.NewService(BuildAnalyzer(cfg, logger), stores.Catalog, logger.Component("chat"), opts...)
}
