package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-checkout/internal/domains/journal/model"
)

// Repository ghi lại các lần submit checkout và kết quả bookkeeping
type Repository interface {
	// Record insert submission + steps trong một transaction
	Record(ctx context.Context, sub *model.Submission) error

	// FindByID load submission kèm steps
	FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)

	// UpdateSteps ghi kết quả replay và status mới
	UpdateSteps(ctx context.Context, id uuid.UUID, steps []model.Step, status model.Status) error
}
