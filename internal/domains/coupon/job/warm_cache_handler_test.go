package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/shared"
)

type fakeRefresher struct {
	token string
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (int, error) {
	f.token = shared.AccessTokenFrom(ctx)
	return 3, f.err
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) GenerateServiceToken(subject string, _ time.Duration) (string, error) {
	return "svc-" + subject, f.err
}

func TestWarmCacheHandler(t *testing.T) {
	r := &fakeRefresher{}
	h := NewWarmCacheHandler(r, fakeIssuer{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCouponWarmCache, nil))
	require.NoError(t, err)
	assert.Equal(t, "svc-worker:coupon:warm_cache", r.token)
}

func TestWarmCacheHandler_Errors(t *testing.T) {
	h := NewWarmCacheHandler(&fakeRefresher{err: errors.New("down")}, fakeIssuer{})
	assert.Error(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCouponWarmCache, nil)))

	h = NewWarmCacheHandler(&fakeRefresher{}, fakeIssuer{err: errors.New("no secret")})
	assert.Error(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCouponWarmCache, nil)))
}
