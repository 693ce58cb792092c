package learning

import (
	"context"
	"time"

	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

const defaultAutoApproveInterval = time.Hour

type autoApproveRunner interface {
	AutoApprove(ctx context.Context) (int, error)
}

// AutoApprover runs the auto-approval batch on a fixed interval.
type AutoApprover struct {
	runner   autoApproveRunner
	interval time.Duration
	logger   *logging.Logger
}

func NewAutoApprover(runner autoApproveRunner, interval time.Duration, logger *logging.Logger) *AutoApprover {
	if runner == nil {
		panic("learning: auto-approve runner cannot be nil")
	}
	if interval <= 0 {
		interval = defaultAutoApproveInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AutoApprover{runner: runner, interval: interval, logger: logger}
}

// Start blocks, running one batch per tick until ctx is done.
func (a *AutoApprover) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOnce(ctx)
		}
	}
}

func (a *AutoApprover) runOnce(ctx context.Context) {
	promoted, err := a.runner.AutoApprove(ctx)
	if err != nil {
		a.logger.Error("auto-approval batch failed", "error", err, "promoted", promoted)
		return
	}
	a.logger.Debug("auto-approval batch finished", "promoted", promoted)
}
