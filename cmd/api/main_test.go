package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/symptom-advisor/internal/app/bootstrap"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, advisorMetrics, learningMetrics := setupMetrics("advisor")
	if handler == nil || advisorMetrics == nil || learningMetrics == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	advisorMetrics.ObserveRequest("messages", "general")
	learningMetrics.ObserveSuggestion("stored")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "advisor_chat_requests_total") {
		t.Fatalf("expected chat request counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestSetupLearningQueueDisabled(t *testing.T) {
	scheduler, memoryQueue, err := setupLearningQueue(&appconfig.Config{LearningEnabled: false}, aws.Config{}, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scheduler != nil || memoryQueue != nil {
		t.Fatalf("expected no scheduler when learning is disabled")
	}
}

func TestSetupLearningQueueMemoryPath(t *testing.T) {
	cfg := &appconfig.Config{LearningEnabled: true, UseMemoryQueue: true, LearningDelay: time.Millisecond}
	scheduler, memoryQueue, err := setupLearningQueue(cfg, aws.Config{}, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scheduler == nil || memoryQueue == nil {
		t.Fatalf("expected scheduler backed by the memory queue")
	}
}

func TestSetupLearningQueueSQSWithoutURLFails(t *testing.T) {
	cfg := &appconfig.Config{LearningEnabled: true}
	if _, _, err := setupLearningQueue(cfg, aws.Config{}, logging.New("error")); err == nil {
		t.Fatalf("expected error without LEARNING_QUEUE_URL")
	}
}

func TestStartInlineWorkerDisabled(t *testing.T) {
	if worker := startInlineWorker(context.Background(), &appconfig.Config{}, nil, nil, nil, logging.New("error")); worker != nil {
		t.Fatalf("expected no worker without a memory queue")
	}
	waitForInlineWorker(nil, time.Millisecond, logging.New("error"))
}

func TestStartInlineWorkerStartsAndStops(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{WorkerCount: 1, AutoApproveInterval: time.Hour}
	stores := bootstrap.BuildStores(cfg, nil, nil, logger)
	engine := bootstrap.BuildLearningEngine(cfg, stores, bootstrap.LearningDeps{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	worker := startInlineWorker(ctx, cfg, engine, learning.NewMemoryQueue(2), nil, logger)
	if worker == nil {
		t.Fatalf("expected worker when memory queue is enabled")
	}

	cancel()
	waitForInlineWorker(worker, 5*time.Second, logger)
}

func TestHealthChecksSkipMissingDependencies(t *testing.T) {
	if checks := healthChecks(nil, nil, nil); len(checks) != 0 {
		t.Fatalf("expected no checks, got %d", len(checks))
	}
}
