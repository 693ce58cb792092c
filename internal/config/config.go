package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	AdminJWTSecret string

	// Public chat surface
	CORSAllowedOrigins []string
	ChatRateLimit      int

	// Storefront catalog cache
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	CatalogCacheTTL time.Duration
	InventoryLimit  int

	// Learning queue and worker
	UseMemoryQueue        bool
	LearningEnabled       bool
	LearningQueueURL      string
	LearningDelay         time.Duration
	WorkerCount           int
	LearningMinConfidence float64
	AutoApproveConfidence float64
	AutoApproveBatch      int
	AutoApproveInterval   time.Duration

	// Matching thresholds
	MatchPartialWord     float64
	MatchPartialTerm     float64
	MatchSynonym         float64
	MatchPhonetic        float64
	MatchSubstring       float64
	RestrictConfidence   float64
	ContactFallback      string
	DisclaimerLevel      string
	ArchiveBucket        string
	AWSRegion            string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	AWSEndpointOverride  string
	BedrockModelID       string
	BedrockMaxTokens     int
	BedrockTemperature   float64
	LLMTimeout           time.Duration
	MetricsNamespace     string
	ShutdownGracePeriod  time.Duration
	StorefrontName       string
	StorefrontProductURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ChatRateLimit:      getEnvAsInt("CHAT_RATE_LIMIT_PER_MINUTE", 30),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		InventoryLimit:  getEnvAsInt("INVENTORY_LIMIT", 10),

		UseMemoryQueue:        getEnvAsBool("USE_MEMORY_QUEUE", false),
		LearningEnabled:       getEnvAsBool("LEARNING_ENABLED", true),
		LearningQueueURL:      getEnv("LEARNING_QUEUE_URL", ""),
		LearningDelay:         getEnvAsDuration("LEARNING_DELAY", 2*time.Second),
		WorkerCount:           getEnvAsInt("WORKER_COUNT", 2),
		LearningMinConfidence: getEnvAsFloat("LEARNING_MIN_CONFIDENCE", 0.7),
		AutoApproveConfidence: getEnvAsFloat("AUTO_APPROVE_CONFIDENCE", 0.9),
		AutoApproveBatch:      getEnvAsInt("AUTO_APPROVE_BATCH", 10),
		AutoApproveInterval:   getEnvAsDuration("AUTO_APPROVE_INTERVAL", time.Hour),

		MatchPartialWord:     getEnvAsFloat("MATCH_PARTIAL_WORD", 0.8),
		MatchPartialTerm:     getEnvAsFloat("MATCH_PARTIAL_TERM", 0.6),
		MatchSynonym:         getEnvAsFloat("MATCH_SYNONYM_CONFIDENCE", 0.9),
		MatchPhonetic:        getEnvAsFloat("MATCH_PHONETIC", 0.8),
		MatchSubstring:       getEnvAsFloat("MATCH_SUBSTRING", 0.8),
		RestrictConfidence:   getEnvAsFloat("RESTRICT_CONFIDENCE", 0.9),
		ContactFallback:      getEnv("CONTACT_FALLBACK_MESSAGE", "En este momento no puedo responder. Escríbenos por WhatsApp o a contacto@tienda.mx y un asesor te ayudará."),
		DisclaimerLevel:      strings.ToLower(strings.TrimSpace(getEnv("DISCLAIMER_LEVEL", "standard"))),
		ArchiveBucket:        getEnv("ARCHIVE_BUCKET", ""),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:  getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BedrockModelID:       getEnv("BEDROCK_MODEL_ID", ""),
		BedrockMaxTokens:     getEnvAsInt("BEDROCK_MAX_TOKENS", 800),
		BedrockTemperature:   getEnvAsFloat("BEDROCK_TEMPERATURE", 0.7),
		LLMTimeout:           getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		MetricsNamespace:     getEnv("METRICS_NAMESPACE", "advisor"),
		ShutdownGracePeriod:  getEnvAsDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		StorefrontName:       getEnv("STOREFRONT_NAME", "la tienda"),
		StorefrontProductURL: getEnv("STOREFRONT_PRODUCT_URL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
