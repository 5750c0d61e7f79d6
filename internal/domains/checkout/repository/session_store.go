package repository

import (
	"context"
	"fmt"
	"time"

	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/pkg/cache"
)

const sessionKeyPrefix = "checkout:session:"

// SessionStore lưu checkout session theo user
type SessionStore interface {
	Get(ctx context.Context, userID string) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Delete(ctx context.Context, userID string) error
}

type cacheSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionStore(c cache.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{cache: c, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

// Get trả về ErrSessionNotFound nếu không có hoặc đã hết hạn
func (s *cacheSessionStore) Get(ctx context.Context, userID string) (*model.Session, error) {
	var sess model.Session
	found, err := s.cache.Get(ctx, sessionKey(userID), &sess)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if !found {
		return nil, model.ErrSessionNotFound
	}
	return &sess, nil
}

// Save ghi đè session và gia hạn TTL
func (s *cacheSessionStore) Save(ctx context.Context, sess *model.Session) error {
	if err := s.cache.Set(ctx, sessionKey(sess.UserID), sess, s.ttl); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}

func (s *cacheSessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, sessionKey(userID)); err != nil {
		return fmt.Errorf("delete checkout session: %w", err)
	}
	return nil
}
