package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSubmissionNotFound = errors.New("checkout submission not found")

// Status của một lần submit
type Status string

const (
	StatusFailed    Status = "failed"    // tạo order thất bại, không có gì được ghi upstream
	StatusPartial   Status = "partial"   // order đã tạo, ít nhất một bước bookkeeping lỗi
	StatusCompleted Status = "completed" // order + toàn bộ bookkeeping thành công
)

// StepKind - loại call bookkeeping sau khi tạo order
type StepKind string

const (
	StepOrderItem       StepKind = "order_item"
	StepCartRemoval     StepKind = "cart_removal"
	StepCouponUsage     StepKind = "coupon_usage"
	StepUserCouponUsage StepKind = "user_coupon_usage"
)

// Step - kết quả một call bookkeeping
type Step struct {
	Seq      int             `json:"seq"`
	Kind     StepKind        `json:"kind"`
	TargetID string          `json:"target_id"`
	Payload  json.RawMessage `json:"payload,omitempty"` // body để replay
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Attempts int             `json:"attempts"`
}

// Submission - bản ghi một lần submit checkout
type Submission struct {
	ID             uuid.UUID       `json:"id"`
	UserID         string          `json:"user_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	OrderID        string          `json:"order_id,omitempty"`
	PaymentMethod  string          `json:"payment_method"`
	ShippingMethod string          `json:"shipping_method"`
	Total          decimal.Decimal `json:"total"`
	Status         Status          `json:"status"`
	Error          string          `json:"error,omitempty"`
	Steps          []Step          `json:"steps,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FailedSteps trả về các bước chưa thành công
func (s *Submission) FailedSteps() []Step {
	var out []Step
	for _, st := range s.Steps {
		if !st.OK {
			out = append(out, st)
		}
	}
	return out
}

// Settle tính lại status từ các step (không đổi submission failed)
func (s *Submission) Settle() Status {
	if s.Status == StatusFailed {
		return s.Status
	}
	s.Status = StatusCompleted
	if len(s.FailedSteps()) > 0 {
		s.Status = StatusPartial
	}
	return s.Status
}

// UsagePayload - body replay cho coupon / user-coupon usage
type UsagePayload struct {
	UsedCount int `json:"used_count"`
}
