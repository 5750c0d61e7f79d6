package repository

import (
	"context"
	"fmt"
	"time"

	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/pkg/cache"
)

const idempotencyKeyPrefix = "checkout:idem:"

type reservationState string

const (
	statePending reservationState = "pending"
	stateDone    reservationState = "done"
)

type reservation struct {
	State  reservationState    `json:"state"`
	Result *model.SubmitResult `json:"result,omitempty"`
}

// IdempotencyStore giữ chỗ cho một idempotency key (SETNX) và lưu kết quả
type IdempotencyStore interface {
	// Reserve: acquired=true nếu lần đầu thấy key.
	// Nếu key đã xong thì trả về kết quả cũ; nếu đang xử lý thì ErrSubmissionInProgress.
	Reserve(ctx context.Context, userID, key string) (acquired bool, previous *model.SubmitResult, err error)
	Complete(ctx context.Context, userID, key string, result *model.SubmitResult) error
	Release(ctx context.Context, userID, key string) error
}

type cacheIdempotencyStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewIdempotencyStore(c cache.Cache, ttl time.Duration) IdempotencyStore {
	return &cacheIdempotencyStore{cache: c, ttl: ttl}
}

// key gắn theo user để key do client sinh không đụng nhau giữa các user
func idempotencyKey(userID, key string) string {
	return idempotencyKeyPrefix + userID + ":" + key
}

func (s *cacheIdempotencyStore) Reserve(ctx context.Context, userID, key string) (bool, *model.SubmitResult, error) {
	k := idempotencyKey(userID, key)

	ok, err := s.cache.SetNX(ctx, k, reservation{State: statePending}, s.ttl)
	if err != nil {
		return false, nil, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return true, nil, nil
	}

	var existing reservation
	found, err := s.cache.Get(ctx, k, &existing)
	if err != nil {
		return false, nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if !found {
		// hết hạn giữa SETNX và GET, thử lại một lần
		ok, err = s.cache.SetNX(ctx, k, reservation{State: statePending}, s.ttl)
		if err != nil {
			return false, nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return true, nil, nil
		}
		return false, nil, model.ErrSubmissionInProgress
	}

	if existing.State == stateDone && existing.Result != nil {
		return false, existing.Result, nil
	}
	return false, nil, model.ErrSubmissionInProgress
}

func (s *cacheIdempotencyStore) Complete(ctx context.Context, userID, key string, result *model.SubmitResult) error {
	r := reservation{State: stateDone, Result: result}
	if err := s.cache.Set(ctx, idempotencyKey(userID, key), r, s.ttl); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release xoá key để user retry được (dùng khi tạo order thất bại)
func (s *cacheIdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.cache.Delete(ctx, idempotencyKey(userID, key)); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
