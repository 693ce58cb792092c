package bootstrap

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wolfman30/symptom-advisor/internal/archive"
	"github.com/wolfman30/symptom-advisor/internal/compliance"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/internal/observability/metrics"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

const memoryQueueBuffer = 256

// BuildLearningQueue returns the in-memory queue when USE_MEMORY_QUEUE is set
// and the SQS queue otherwise. The returned MemoryQueue is non-nil only in
// the first case so callers know to run an inline worker.
func BuildLearningQueue(cfg *appconfig.Config, awsCfg aws.Config) (learning.Queue, *learning.MemoryQueue, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if cfg.UseMemoryQueue {
		q := learning.NewMemoryQueue(memoryQueueBuffer)
		return q, q, nil
	}
	if strings.TrimSpace(cfg.LearningQueueURL) == "" {
		return nil, nil, fmt.Errorf("bootstrap: LEARNING_QUEUE_URL is required when the memory queue is disabled")
	}
	return learning.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.LearningQueueURL), nil, nil
}

// BuildArchiveStore returns the S3 suggestion archive. With no bucket
// configured the store is a no-op.
func BuildArchiveStore(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) *archive.Store {
	if cfg == nil || strings.TrimSpace(cfg.ArchiveBucket) == "" {
		return archive.NewStore(nil, "", logger)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// LocalStack only serves path-style bucket addressing.
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	return archive.NewStore(client, cfg.ArchiveBucket, logger)
}

// LearningDeps carries the optional collaborators of the learning engine.
type LearningDeps struct {
	Audit    *compliance.AuditService
	Archive  *archive.Store
	Metrics  *metrics.LearningMetrics
	Patterns []learning.Pattern
}

// BuildLearningEngine wires the engine with thresholds from config.
func BuildLearningEngine(cfg *appconfig.Config, stores Stores, deps LearningDeps, logger *logging.Logger) *learning.Engine {
	opts := []learning.EngineOption{
		learning.WithMetrics(deps.Metrics),
		learning.WithPatterns(deps.Patterns),
	}
	if cfg != nil {
		opts = append(opts,
			learning.WithMinConfidence(cfg.LearningMinConfidence),
			learning.WithAutoApprove(cfg.AutoApproveConfidence, cfg.AutoApproveBatch),
		)
	}
	if deps.Audit != nil {
		opts = append(opts, learning.WithAuditor(deps.Audit))
	}
	if deps.Archive.Enabled() {
		opts = append(opts, learning.WithArchiver(deps.Archive))
	}
	return learning.NewEngine(stores.Catalog, stores.Knowledge, stores.Suggestions, logger.Component("learning"), opts...)
}
