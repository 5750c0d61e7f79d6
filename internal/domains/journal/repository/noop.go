package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-checkout/internal/domains/journal/model"
)

// NoopRepository dùng khi JOURNAL_ENABLED=false
type NoopRepository struct{}

func NewNoopRepository() Repository {
	return NoopRepository{}
}

func (NoopRepository) Record(context.Context, *model.Submission) error { return nil }

func (NoopRepository) FindByID(context.Context, uuid.UUID) (*model.Submission, error) {
	return nil, model.ErrSubmissionNotFound
}

func (NoopRepository) UpdateSteps(context.Context, uuid.UUID, []model.Step, model.Status) error {
	return nil
}
