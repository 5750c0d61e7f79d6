package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/domains/checkout/service"
	journalModel "storefront-checkout/internal/domains/journal/model"
	journalRepo "storefront-checkout/internal/domains/journal/repository"
	"storefront-checkout/internal/infrastructure/metrics"
	"storefront-checkout/internal/infrastructure/queue"
	"storefront-checkout/internal/shared"
)

// ============================================
// Checkout Reconcile Handler
// ============================================

// ReconcileHandler replay các bước bookkeeping lỗi của một submission.
// Chỉ chạy lại step chưa OK; còn lỗi thì trả error để asynq retry.
type ReconcileHandler struct {
	journal journalRepo.Repository
	gateway service.OrderGateway
	tokens  shared.ServiceTokenIssuer
	metrics *metrics.Metrics
}

func NewReconcileHandler(journal journalRepo.Repository, gateway service.OrderGateway, tokens shared.ServiceTokenIssuer, m *metrics.Metrics) *ReconcileHandler {
	return &ReconcileHandler{
		journal: journal,
		gateway: gateway,
		tokens:  tokens,
		metrics: m,
	}
}

func (h *ReconcileHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.ReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(payload.SubmissionID)
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", payload.SubmissionID, asynq.SkipRetry)
	}

	sub, err := h.journal.FindByID(ctx, id)
	if errors.Is(err, journalModel.ErrSubmissionNotFound) {
		log.Warn().Str("submission_id", id.String()).Msg("Submission not found, skip reconcile")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}
	if sub.Status != journalModel.StatusPartial {
		return nil
	}

	ctx, err = shared.AuthorizeService(ctx, h.tokens, "worker:"+shared.TypeCheckoutReconcile)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	replayed := 0
	for i := range sub.Steps {
		st := &sub.Steps[i]
		if st.OK {
			continue
		}
		replayed++
		err := service.RunStep(ctx, h.gateway, st)
		st.Attempts++
		st.OK = err == nil
		st.Error = ""
		if err != nil {
			st.Error = err.Error()
		}
		h.metrics.IncBookkeeping(string(st.Kind), st.OK)
	}

	status := sub.Settle()
	if err := h.journal.UpdateSteps(ctx, sub.ID, sub.Steps, status); err != nil {
		return fmt.Errorf("update submission steps: %w", err)
	}

	remaining := len(sub.FailedSteps())
	logEvt := log.Info()
	if remaining > 0 {
		logEvt = log.Warn()
	}
	retry, _ := asynq.GetRetryCount(ctx)
	logEvt.
		Str("submission_id", sub.ID.String()).
		Str("order_id", sub.OrderID).
		Int("replayed", replayed).
		Int("remaining", remaining).
		Int("retry", retry).
		Msg("Checkout reconcile finished")

	if remaining > 0 {
		return fmt.Errorf("%d bookkeeping steps still failing for order %s", remaining, sub.OrderID)
	}
	return nil
}
