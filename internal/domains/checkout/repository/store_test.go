package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/checkout/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
	"storefront-checkout/pkg/cache"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore(cache.NewMemoryCache(), time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	sess := &model.Session{
		UserID:         "u1",
		ShippingMethod: pricingModel.ShippingExpress,
		Items:          []pricingModel.LineItem{{ProductID: "p1", Quantity: 2, SellingPrice: decimal.NewFromInt(1000)}},
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, pricingModel.ShippingExpress, got.ShippingMethod)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].SellingPrice.Equal(decimal.NewFromInt(1000)))

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewIdempotencyStore(cache.NewMemoryCache(), time.Hour)
	ctx := context.Background()

	ok, prev, err := store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, prev)

	// đang xử lý
	_, _, err = store.Reserve(ctx, "u1", "k1")
	assert.ErrorIs(t, err, model.ErrSubmissionInProgress)

	// cùng key nhưng user khác thì độc lập
	ok, _, err = store.Reserve(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Complete(ctx, "u1", "k1", &model.SubmitResult{OrderID: "o-1", NextStep: model.NextStepConfirmation}))

	ok, prev, err = store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, prev)
	assert.Equal(t, "o-1", prev.OrderID)
}

func TestIdempotencyStore_Release(t *testing.T) {
	store := NewIdempotencyStore(cache.NewMemoryCache(), time.Hour)
	ctx := context.Background()

	ok, _, err := store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "u1", "k1"))

	ok, _, err = store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, ok, "released key can be reserved again")
}

func TestSessionClone_Independent(t *testing.T) {
	orig := &model.Session{
		UserID: "u1",
		Items:  []pricingModel.LineItem{{ProductID: "p1", Quantity: 1}},
	}
	cp := orig.Clone()
	cp.Items[0].Quantity = 9
	cp.ShippingMethod = pricingModel.ShippingSameDay

	assert.Equal(t, 1, orig.Items[0].Quantity)
	assert.Empty(t, orig.ShippingMethod)
}
