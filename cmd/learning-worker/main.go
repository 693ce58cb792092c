package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/symptom-advisor/cmd/mainconfig"
	"github.com/wolfman30/symptom-advisor/internal/app/bootstrap"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

func main() {
	mainconfig.LoadEnv()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsConfig, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	if cfg.UseMemoryQueue {
		logger.Error("learning worker needs SQS; the memory queue is consumed inside the API process")
		os.Exit(1)
	}

	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool == nil {
		logger.Error("learning worker requires DATABASE_URL")
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	stores := bootstrap.BuildStores(cfg, pool, redisClient, logger)

	reg := prometheus.NewRegistry()
	learningMetrics := metrics.NewLearningMetrics(reg, cfg.MetricsNamespace)

	deps := bootstrap.LearningDeps{
		Archive: bootstrap.BuildArchiveStore(cfg, awsConfig, logger),
		Metrics: learningMetrics,
	}
	if auditDB := bootstrap.OpenAuditDB(cfg.DatabaseURL, logger); auditDB != nil {
		defer auditDB.Close()
		deps.Audit = compliance.NewAuditService(auditDB)
	}
	engine := bootstrap.BuildLearningEngine(cfg, stores, deps, logger)

	queue, _, err := bootstrap.BuildLearningQueue(cfg, awsConfig)
	if err != nil {
		logger.Error("failed to build learning queue", "error", err)
		os.Exit(1)
	}

	worker := learning.NewWorker(
		engine,
		queue,
		logger.Component("learning-worker"),
		learning.WithWorkerCount(cfg.WorkerCount),
		learning.WithWorkerMetrics(learningMetrics),
	)
	worker.Start(ctx)

	approver := learning.NewAutoApprover(engine, cfg.AutoApproveInterval, logger.Component("auto-approver"))
	go approver.Start(ctx)

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("learning worker started", "workers", cfg.WorkerCount, "metrics_addr", metricsSrv.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down learning worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer doneCancel()
	_ = metricsSrv.Shutdown(doneCtx)

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("learning worker stopped")
	case <-doneCtx.Done():
		logger.Error("learning worker shutdown timed out", "error", doneCtx.Err())
	}
}
