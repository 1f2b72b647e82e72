package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// TaskWebhookDeliver is the asynq task type carrying a delivery ID payload.
const TaskWebhookDeliver = "webhook:deliver"

// TaskEnqueuer abstracts the asynq client for testing.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func (d *Dispatcher) enqueue(ctx context.Context, deliveryID string, delay time.Duration) error {
	if strings.TrimSpace(deliveryID) == "" || d.Tasks == nil {
		return nil
	}
	maxAttempts := d.DefaultMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 6
	}
	opts := []asynq.Option{
		asynq.TaskID(deliveryID),
		asynq.MaxRetry(maxAttempts - 1),
		asynq.Queue("webhooks"),
	}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}
	task := asynq.NewTask(TaskWebhookDeliver, []byte(deliveryID))
	_, err := d.Tasks.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Already queued for this delivery.
		return nil
	}
	return err
}

// EnqueueDelivery schedules a delivery task, used by admin replay.
func (d *Dispatcher) EnqueueDelivery(ctx context.Context, deliveryID string, delay time.Duration) error {
	return d.enqueue(ctx, deliveryID, delay)
}
