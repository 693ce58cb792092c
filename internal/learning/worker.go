package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

type conversationAnalyzer interface {
	AnalyzeConversation(ctx context.Context, userMessage, aiResponse string) (Record, error)
}

// Worker consumes learning jobs from the queue. Jobs are never retried: a
// failed analysis is logged and the message is deleted.
type Worker struct {
	analyzer conversationAnalyzer
	queue    Queue
	metrics  *metrics.LearningMetrics
	logger   *logging.Logger

	cfg workerConfig
	wg  sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	metrics          *metrics.LearningMetrics
}

const (
	defaultWorkerCount   = 2
	defaultWaitSeconds   = 2
	defaultBatchSize     = 5
	maxWaitSeconds       = 20
	maxReceiveBatchSize  = 10
	deleteTimeoutSeconds = 5
)

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the SQS long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchSize {
			size = maxReceiveBatchSize
		}
		cfg.receiveBatchSize = size
	}
}

func WithWorkerMetrics(m *metrics.LearningMetrics) WorkerOption {
	return func(cfg *workerConfig) {
		cfg.metrics = m
	}
}

func NewWorker(analyzer conversationAnalyzer, queue Queue, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if analyzer == nil {
		panic("learning: analyzer cannot be nil")
	}
	if queue == nil {
		panic("learning: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Worker{
		analyzer: analyzer,
		queue:    queue,
		metrics:  cfg.metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Start launches the configured number of consumer goroutines.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("learning worker started", "worker_id", workerID)

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("learning worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive learning jobs", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg QueueMessage) {
	defer w.deleteMessage(context.Background(), msg.ReceiptHandle)

	var job Job
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		w.logger.Error("failed to decode learning job", "error", err, "msg_id", msg.ID)
		w.metrics.ObserveJob("decode_error", 0)
		return
	}

	start := time.Now()
	record, err := w.analyze(ctx, job)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		w.logger.Error("learning analysis failed", "error", err, "job_id", job.ID)
		w.metrics.ObserveJob("error", elapsed)
		return
	}
	w.metrics.ObserveJob("ok", elapsed)
	w.logger.Debug("learning job processed",
		"job_id", job.ID,
		"persisted", record.Persisted,
		"confidence", record.Confidence,
	)
}

func (w *Worker) analyze(ctx context.Context, job Job) (record Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("learning: analysis panicked: %v", r)
		}
	}()
	return w.analyzer.AnalyzeConversation(ctx, job.UserMessage, job.AIResponse)
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}
	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSeconds*time.Second)
	defer cancel()
	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete learning job", "error", err)
	}
}
