package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storefront-checkout/internal/domains/journal/model"
	"storefront-checkout/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// DB là phần của *pgxpool.Pool mà repository dùng
type DB interface {
	database.Beginner
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository triển khai Repository với PostgreSQL
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository tạo instance mới
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema tạo bảng journal nếu chưa có
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

const insertSubmissionSQL = `
	INSERT INTO checkout_submissions (
		id, user_id, idempotency_key, order_id,
		payment_method, shipping_method, total,
		status, error, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
`

const insertStepSQL = `
	INSERT INTO checkout_submission_steps (
		submission_id, seq, kind, target_id, payload, ok, error, attempts
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Record insert submission + steps trong một transaction
func (r *PostgresRepository) Record(ctx context.Context, sub *model.Submission) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertSubmissionSQL,
			sub.ID, sub.UserID, sub.IdempotencyKey, nullIfEmpty(sub.OrderID),
			sub.PaymentMethod, sub.ShippingMethod, sub.Total,
			string(sub.Status), nullIfEmpty(sub.Error), sub.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}

		for _, st := range sub.Steps {
			attempts := st.Attempts
			if attempts == 0 {
				attempts = 1
			}
			if _, err := tx.Exec(ctx, insertStepSQL,
				sub.ID, st.Seq, string(st.Kind), st.TargetID,
				nullJSON(st.Payload), st.OK, nullIfEmpty(st.Error), attempts,
			); err != nil {
				return fmt.Errorf("insert step %d: %w", st.Seq, err)
			}
		}
		return nil
	})
}

const updateStepSQL = `
	UPDATE checkout_submission_steps
	SET ok = $3, error = $4, attempts = attempts + 1, updated_at = NOW()
	WHERE submission_id = $1 AND seq = $2
`

const updateStatusSQL = `
	UPDATE checkout_submissions
	SET status = $2, updated_at = NOW()
	WHERE id = $1
`

// UpdateSteps ghi kết quả replay của các step và status mới
func (r *PostgresRepository) UpdateSteps(ctx context.Context, id uuid.UUID, steps []model.Step, status model.Status) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		for _, st := range steps {
			if _, err := tx.Exec(ctx, updateStepSQL, id, st.Seq, st.OK, nullIfEmpty(st.Error)); err != nil {
				return fmt.Errorf("update step %d: %w", st.Seq, err)
			}
		}

		tag, err := tx.Exec(ctx, updateStatusSQL, id, string(status))
		if err != nil {
			return fmt.Errorf("update submission status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrSubmissionNotFound
		}
		return nil
	})
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

// FindByID load submission kèm steps
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	query := `
		SELECT
			id, user_id, idempotency_key, order_id,
			payment_method, shipping_method, total,
			status, error, created_at, updated_at
		FROM checkout_submissions
		WHERE id = $1
	`

	var (
		sub      model.Submission
		orderID  *string
		errText  *string
		statusDB string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.IdempotencyKey,
		&orderID,
		&sub.PaymentMethod,
		&sub.ShippingMethod,
		&sub.Total,
		&statusDB,
		&errText,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	sub.Status = model.Status(statusDB)
	sub.OrderID = deref(orderID)
	sub.Error = deref(errText)

	steps, err := r.findSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Steps = steps

	return &sub, nil
}

func (r *PostgresRepository) findSteps(ctx context.Context, id uuid.UUID) ([]model.Step, error) {
	query := `
		SELECT seq, kind, target_id, payload, ok, error, attempts
		FROM checkout_submission_steps
		WHERE submission_id = $1
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var steps []model.Step
	for rows.Next() {
		var (
			st      model.Step
			kind    string
			errText *string
		)
		if err := rows.Scan(&st.Seq, &kind, &st.TargetID, &st.Payload, &st.OK, &errText, &st.Attempts); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Kind = model.StepKind(kind)
		st.Error = deref(errText)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}

	return steps, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
