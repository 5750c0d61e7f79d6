package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/domains/order/service"
	"storefront-checkout/internal/shared/response"
)

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// =====================================================
// GET ORDER
// =====================================================

// GetOrder godoc
// @Summary Get order (payment status page)
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response{data=model.OrderDetailResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		response.BadRequest(c, "Thiếu mã đơn hàng")
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// CANCEL ORDER
// =====================================================

// CancelOrder godoc
// @Summary Request order cancellation
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 422 {object} response.Response
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	if orderID == "" {
		response.BadRequest(c, "Thiếu mã đơn hàng")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// =====================================================
// UPDATE STATUS (ADMIN)
// =====================================================

// UpdateOrderStatus godoc
// @Summary Request an order status transition (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body model.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /api/v1/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.RequestTransition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// handleServiceError handles service layer errors and maps to HTTP responses
func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		response.ErrorResponse(c, model.HTTPStatus(orderErr.Code), orderErr.Code, orderErr.Message)
		return
	}

	response.InternalServerError(c, "Internal server error")
}
