package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/domains/order/service"
)

type stubService struct {
	err error
}

func (s *stubService) Get(_ context.Context, id string) (*model.OrderDetailResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.OrderDetailResponse{Order: &model.Order{OrderID: id, Status: model.OrderStatusPending}, CanCancel: true}, nil
}

func (s *stubService) RequestTransition(_ context.Context, id, status string) (*model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{OrderID: id, Status: status}, nil
}

func (s *stubService) Cancel(ctx context.Context, id string) (*model.Order, error) {
	return s.RequestTransition(ctx, id, model.OrderStatusCancelled)
}

var _ service.OrderService = (*stubService)(nil)

func newRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.PUT("/admin/orders/:id/status", h.UpdateOrderStatus)
	return r
}

func TestGetOrder(t *testing.T) {
	r := newRouter(&stubService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/o-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool                      `json:"success"`
		Data    model.OrderDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "o-1", body.Data.Order.OrderID)
}

func TestCancelOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", model.NewOrderError(model.ErrCodeOrderNotFound, "x", model.ErrOrderNotFound), 404, model.ErrCodeOrderNotFound},
		{"cannot cancel", model.NewOrderError(model.ErrCodeOrderCannotCancel, "x", nil), 422, model.ErrCodeOrderCannotCancel},
		{"upstream", model.NewOrderError(model.ErrCodeUpstreamFailure, "x", nil), 502, model.ErrCodeUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{err: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/o-1/cancel", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	r := newRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/o-1/status", strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/orders/o-1/status", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
