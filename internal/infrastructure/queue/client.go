package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"storefront-checkout/internal/shared"
	"storefront-checkout/pkg/logger"
)

// reconcileDelay cho upstream thời gian hồi phục trước lần replay đầu tiên
const reconcileDelay = 30 * time.Second

// Enqueuer - phần của *asynq.Client được dùng (tách ra để test)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReconcilePayload - payload của task checkout:reconcile
type ReconcilePayload struct {
	SubmissionID string `json:"submission_id"`
}

// Client enqueue task nền cho checkout
type Client struct {
	enqueuer Enqueuer
	maxRetry int
}

func NewClient(enqueuer Enqueuer, maxRetry int) *Client {
	return &Client{enqueuer: enqueuer, maxRetry: maxRetry}
}

// EnqueueReconcile đặt lịch replay các bước bookkeeping lỗi của một submission.
// TaskID = submission id nên enqueue trùng sẽ bị bỏ qua.
func (c *Client) EnqueueReconcile(ctx context.Context, submissionID uuid.UUID) error {
	payload, err := json.Marshal(ReconcilePayload{SubmissionID: submissionID.String()})
	if err != nil {
		return fmt.Errorf("marshal reconcile payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeCheckoutReconcile, payload)
	info, err := c.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCheckout),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(2*time.Minute),
		asynq.ProcessIn(reconcileDelay),
		asynq.TaskID("reconcile:"+submissionID.String()),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reconcile: %w", err)
	}

	logger.Info("reconcile task enqueued", map[string]interface{}{
		"submission_id": submissionID.String(),
		"task_id":       info.ID,
		"queue":         info.Queue,
	})
	return nil
}
