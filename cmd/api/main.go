package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/symptom-advisor/cmd/mainconfig"
	"github.com/wolfman30/symptom-advisor/internal/api/router"
	"github.com/wolfman30/symptom-advisor/internal/app/bootstrap"
	"github.com/wolfman30/symptom-advisor/internal/catalog"
	"github.com/wolfman30/symptom-advisor/internal/chat"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	httpmiddleware "github.com/wolfman30/symptom-advisor/internal/http/middleware"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

func main() {
	mainconfig.LoadEnv()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting symptom-advisor API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Initialize stores
	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	auditDB := bootstrap.OpenAuditDB(cfg.DatabaseURL, logger)
	stores := bootstrap.BuildStores(cfg, pool, redisClient, logger)

	metricsHandler, advisorMetrics, learningMetrics := setupMetrics(cfg.MetricsNamespace)

	var audit *compliance.AuditService
	if auditDB != nil {
		audit = compliance.NewAuditService(auditDB)
	}

	// Learning pipeline
	engine := bootstrap.BuildLearningEngine(cfg, stores, bootstrap.LearningDeps{
		Audit:   audit,
		Archive: bootstrap.BuildArchiveStore(cfg, awsCfg, logger),
		Metrics: learningMetrics,
	}, logger)
	scheduler, memoryQueue, err := setupLearningQueue(cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to set up learning queue", "error", err)
		os.Exit(1)
	}
	inlineWorker := startInlineWorker(ctx, cfg, engine, memoryQueue, learningMetrics, logger)

	// Chat service
	llm, model := bootstrap.BuildLLMClient(cfg, awsCfg, logger)
	chatDeps := bootstrap.ChatDeps{LLM: llm, Model: model, Metrics: advisorMetrics}
	if scheduler != nil {
		chatDeps.Scheduler = scheduler
	}
	chatService := bootstrap.BuildChatService(cfg, stores, chatDeps, logger)

	// Initialize handlers
	reviewLogger := logger.Component("review")
	learningHandler := learning.NewHandler(engine, nil, reviewLogger)
	if audit != nil {
		learningHandler = learning.NewHandler(engine, audit, reviewLogger)
	}

	routerCfg := &router.Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(chatService, logger.Component("chat-http")),
		LearningHandler:    learningHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		HealthChecks:       healthChecks(pool, redisClient, auditDB),
	}
	if cached, ok := stores.Catalog.(*catalog.CachedProvider); ok {
		routerCfg.CatalogCache = cached
	}
	if redisClient != nil && cfg.ChatRateLimit > 0 {
		routerCfg.ChatLimiter = httpmiddleware.NewRedisLimiter(redisClient, cfg.ChatRateLimit, time.Minute)
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	cancel()
	waitForInlineWorker(inlineWorker, cfg.ShutdownGracePeriod, logger)
	if auditDB != nil {
		_ = auditDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers advisor and learning collectors on a dedicated
// registry and returns the handler serving it.
func setupMetrics(namespace string) (http.Handler, *metrics.AdvisorMetrics, *metrics.LearningMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	advisorMetrics := metrics.NewAdvisorMetrics(reg, namespace)
	learningMetrics := metrics.NewLearningMetrics(reg, namespace)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), advisorMetrics, learningMetrics
}

// setupLearningQueue returns nil scheduler when learning is disabled.
func setupLearningQueue(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (*learning.Scheduler, *learning.MemoryQueue, error) {
	if !cfg.LearningEnabled {
		logger.Info("conversation learning disabled")
		return nil, nil, nil
	}
	queue, memoryQueue, err := bootstrap.BuildLearningQueue(cfg, awsCfg)
	if err != nil {
		return nil, nil, err
	}
	return learning.NewScheduler(queue, cfg.LearningDelay, logger.Component("learning-scheduler")), memoryQueue, nil
}

// startInlineWorker consumes the in-memory queue and runs auto-approval
// inside the API process.
// With SQS the dedicated learning-worker binary does this instead.
func startInlineWorker(ctx context.Context, cfg *appconfig.Config, engine *learning.Engine, memoryQueue *learning.MemoryQueue, m *metrics.LearningMetrics, logger *logging.Logger) *learning.Worker {
	if memoryQueue == nil {
		return nil
	}
	worker := learning.NewWorker(engine, memoryQueue, logger.Component("learning-worker"),
		learning.WithWorkerCount(cfg.WorkerCount),
		learning.WithWorkerMetrics(m),
	)
	worker.Start(ctx)
	go learning.NewAutoApprover(engine, cfg.AutoApproveInterval, logger.Component("auto-approver")).Start(ctx)
	logger.Info("inline learning worker started", "workers", cfg.WorkerCount)
	return worker
}

func waitForInlineWorker(worker *learning.Worker, timeout time.Duration, logger *logging.Logger) {
	if worker == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		worker.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("inline learning worker stopped")
	case <-time.After(timeout):
		logger.Error("inline learning worker shutdown timed out")
	}
}

func healthChecks(pool *pgxpool.Pool, redisClient *redis.Client, auditDB *sql.DB) map[string]router.HealthCheck {
	checks := make(map[string]router.HealthCheck)
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if auditDB != nil {
		checks["audit_db"] = auditDB.PingContext
	}
	return checks
}
