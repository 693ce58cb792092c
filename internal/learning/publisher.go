package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// Scheduler enqueues finished exchanges for delayed analysis so learning
// never sits on the reply path.
type Scheduler struct {
	queue  Queue
	delay  time.Duration
	logger *logging.Logger
	now    func() time.Time
}

func NewScheduler(queue Queue, delay time.Duration, logger *logging.Logger) *Scheduler {
	if queue == nil {
		panic("learning: queue cannot be nil")
	}
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{queue: queue, delay: delay, logger: logger, now: time.Now}
}

// ScheduleConversation publishes a learning job for one exchange.
func (s *Scheduler) ScheduleConversation(ctx context.Context, userMessage, aiResponse string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	job, body, err := encodeJob(Job{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		ScheduledAt: s.now().UTC().Add(s.delay),
	})
	if err != nil {
		return err
	}
	if err := s.queue.Send(ctx, body, s.delay); err != nil {
		return fmt.Errorf("learning: failed to enqueue job: %w", err)
	}
	s.logger.Debug("learning job enqueued", "job_id", job.ID, "delay", s.delay)
	return nil
}
