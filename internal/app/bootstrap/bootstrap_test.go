package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/chat"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/knowledge"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client without REDIS_ADDR")
	}
	if client := BuildRedisClient(context.Background(), nil, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client for nil config")
	}
}

func TestBuildRedisClientVerifiesConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.New("error"), true)
	if client == nil {
		t.Fatalf("expected client for reachable redis")
	}
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	if unreachable := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true); unreachable != nil {
		t.Fatalf("expected nil client for unreachable redis")
	}
}

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	if pool := ConnectPostgresPool(context.Background(), "", logging.New("error")); pool != nil {
		t.Fatalf("expected nil pool for empty URL")
	}
	if db := OpenAuditDB("  ", logging.New("error")); db != nil {
		t.Fatalf("expected nil audit db for empty URL")
	}
}

func TestBuildStoresInMemory(t *testing.T) {
	stores := BuildStores(&appconfig.Config{}, nil, nil, logging.New("error"))
	if _, ok := stores.Catalog.(*catalog.StaticProvider); !ok {
		t.Fatalf("expected static catalog, got %T", stores.Catalog)
	}
	if _, ok := stores.Knowledge.(*knowledge.MemoryStore); !ok {
		t.Fatalf("expected memory knowledge store, got %T", stores.Knowledge)
	}
	if _, ok := stores.Suggestions.(*learning.MemorySuggestionStore); !ok {
		t.Fatalf("expected memory suggestion store, got %T", stores.Suggestions)
	}
}

func TestBuildStoresWrapsCatalogWithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.New("error"), false)
	defer client.Close()

	stores := BuildStores(&appconfig.Config{}, nil, client, logging.New("error"))
	if _, ok := stores.Catalog.(*catalog.CachedProvider); !ok {
		t.Fatalf("expected cached catalog, got %T", stores.Catalog)
	}
}

func TestBuildLearningQueue(t *testing.T) {
	queue, memory, err := BuildLearningQueue(&appconfig.Config{UseMemoryQueue: true}, aws.Config{})
	if err != nil || queue == nil || memory == nil {
		t.Fatalf("expected memory queue, got %v %v %v", queue, memory, err)
	}

	if _, _, err := BuildLearningQueue(&appconfig.Config{}, aws.Config{}); err == nil {
		t.Fatalf("expected error without queue url")
	}

	queue, memory, err = BuildLearningQueue(&appconfig.Config{LearningQueueURL: "http://localhost:4566/000000000000/learning"}, aws.Config{Region: "us-east-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := queue.(*learning.SQSQueue); !ok || memory != nil {
		t.Fatalf("expected sqs queue only, got %T %v", queue, memory)
	}

	if _, _, err := BuildLearningQueue(nil, aws.Config{}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildArchiveStoreDisabledWithoutBucket(t *testing.T) {
	if BuildArchiveStore(&appconfig.Config{}, aws.Config{}, logging.New("error")).Enabled() {
		t.Fatalf("expected archive disabled without bucket")
	}
	store := BuildArchiveStore(&appconfig.Config{ArchiveBucket: "archive"}, aws.Config{Region: "us-east-1"}, logging.New("error"))
	if !store.Enabled() {
		t.Fatalf("expected archive enabled with bucket")
	}
}

func TestBuildLLMClient(t *testing.T) {
	client, _ := BuildLLMClient(&appconfig.Config{}, aws.Config{}, logging.New("error"))
	if client != nil {
		t.Fatalf("expected no client without model id")
	}

	client, model := BuildLLMClient(&appconfig.Config{BedrockModelID: " model-x ", BedrockMaxTokens: 512, BedrockTemperature: 0.4}, aws.Config{Region: "us-east-1"}, logging.New("error"))
	if client == nil {
		t.Fatalf("expected bedrock client")
	}
	if model.ModelID != "model-x" || model.MaxTokens != 512 {
		t.Fatalf("unexpected model config: %+v", model)
	}
}

func TestBuildChatServiceAnalyzes(t *testing.T) {
	cfg := appconfig.Load()
	stores := Stores{
		Catalog: catalog.NewStaticProvider([]catalog.Item{
			{ID: 9, Name: "Pomada de Árnica", Price: 120, StockStatus: catalog.StockInStock, Visible: true},
		}),
		Knowledge:   knowledge.NewMemoryStore(),
		Suggestions: learning.NewMemorySuggestionStore(),
	}
	svc := BuildChatService(cfg, stores, ChatDeps{}, logging.New("error"))

	analysis, err := svc.Analyze(context.Background(), "quiero comprar pomada de arnica")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Strategy != chat.StrategyRestricted {
		t.Fatalf("expected restricted strategy, got %s", analysis.Strategy)
	}

	reply, err := svc.Respond(context.Background(), "tengo dolor de cabeza")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.Fallback || reply.Message != cfg.ContactFallback {
		t.Fatalf("expected configured fallback without a model, got %+v", reply)
	}
}

func TestBuildLearningEngine(t *testing.T) {
	stores := BuildStores(&appconfig.Config{}, nil, nil, logging.New("error"))
	engine := BuildLearningEngine(appconfig.Load(), stores, LearningDeps{}, logging.New("error"))
	if engine == nil {
		t.Fatalf("expected engine")
	}
	record, err := engine.AnalyzeConversation(context.Background(), "hola", "gracias")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Persisted {
		t.Fatalf("expected nothing persisted for a symptom-free exchange")
	}
}
