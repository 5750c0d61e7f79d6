package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-checkout/internal/domains/address"
	addressModel "storefront-checkout/internal/domains/address/model"
	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/checkout/service"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	"storefront-checkout/internal/shared"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/logger"
)

// IdempotencyHeader - client gửi kèm khi submit để retry an toàn
const IdempotencyHeader = "Idempotency-Key"

// =====================================================
// CHECKOUT HANDLER
// =====================================================
type CheckoutHandler struct {
	sessions service.SessionService
	checkout service.CheckoutService
}

func NewCheckoutHandler(sessions service.SessionService, checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, checkout: checkout}
}

// =====================================================
// SESSION
// =====================================================

// StartSession godoc
// @Summary Start checkout (snapshot cart + addresses)
// @Tags Checkout
// @Produce json
// @Success 201 {object} response.Response{data=model.SessionView}
// @Router /api/v1/checkout/session [post]
func (h *CheckoutHandler) StartSession(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.sessions.Start(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, view)
}

// GetSession godoc
// @Summary Get checkout session with price summary
// @Tags Checkout
// @Produce json
// @Success 200 {object} response.Response{data=model.SessionView}
// @Router /api/v1/checkout/session [get]
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.sessions.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SetShippingMethod godoc
// @Summary Choose shipping method
// @Tags Checkout
// @Accept json
// @Param request body model.SetShippingMethodRequest true "standard | express | sameday"
// @Router /api/v1/checkout/session/shipping-method [put]
func (h *CheckoutHandler) SetShippingMethod(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req model.SetShippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.sessions.SetShippingMethod(c.Request.Context(), userID, strings.TrimSpace(req.Method))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SelectAddress godoc
// @Summary Select a saved address
// @Tags Checkout
// @Accept json
// @Param request body model.SelectAddressRequest true "Saved address id"
// @Router /api/v1/checkout/session/address [put]
func (h *CheckoutHandler) SelectAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req model.SelectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.sessions.SelectAddress(c.Request.Context(), userID, req.AddressID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// EnterNewAddress godoc
// @Summary Enter a one-off address (not saved to the address book)
// @Tags Checkout
// @Accept json
// @Param request body addressModel.NewAddressInput true "Address"
// @Router /api/v1/checkout/session/address/new [post]
func (h *CheckoutHandler) EnterNewAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req addressModel.NewAddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.sessions.EnterNewAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// ApplyCoupon godoc
// @Summary Apply a coupon code
// @Tags Checkout
// @Accept json
// @Param request body model.ApplyCouponRequest true "Coupon code"
// @Router /api/v1/checkout/session/coupon [post]
func (h *CheckoutHandler) ApplyCoupon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req model.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// mã phân biệt hoa thường, chỉ bỏ khoảng trắng
	view, err := h.sessions.ApplyCoupon(c.Request.Context(), userID, strings.TrimSpace(req.Code))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// RemoveCoupon godoc
// @Summary Remove applied coupon
// @Tags Checkout
// @Router /api/v1/checkout/session/coupon [delete]
func (h *CheckoutHandler) RemoveCoupon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.sessions.RemoveCoupon(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// =====================================================
// SUBMIT
// =====================================================

// Submit godoc
// @Summary Place the order
// @Tags Checkout
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry key; generated when absent"
// @Param request body model.SubmitRequest true "cod | vnpay"
// @Success 201 {object} response.Response{data=model.SubmitResult}
// @Failure 502 {object} response.Response
// @Router /api/v1/checkout/submit [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 128 {
		response.BadRequest(c, "Idempotency-Key quá dài")
		return
	}
	c.Header(IdempotencyHeader, key)

	result, err := h.checkout.Submit(c.Request.Context(), userID, strings.TrimSpace(req.PaymentMethod), key)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// =====================================================
// HELPERS
// =====================================================

func getUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(shared.CtxKeyUserID)
	if userID == "" {
		response.Unauthorized(c, "Unauthorized")
		return "", false
	}
	return userID, true
}

// handleError map lỗi domain sang HTTP response
func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	var checkoutErr *model.CheckoutError
	if errors.As(err, &checkoutErr) {
		if checkoutErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("checkout request failed", err)
		}
		if len(checkoutErr.Details) > 0 {
			response.ErrorWithDetails(c, checkoutErr.HTTPStatus, string(checkoutErr.Code), checkoutErr.Message, checkoutErr.Details)
			return
		}
		response.ErrorResponse(c, checkoutErr.HTTPStatus, string(checkoutErr.Code), checkoutErr.Message)
		return
	}

	var couponErr *couponModel.CouponError
	if errors.As(err, &couponErr) {
		if len(couponErr.Details) > 0 {
			response.ErrorWithDetails(c, couponErr.HTTPStatus, string(couponErr.Code), couponErr.Message, couponErr.Details)
			return
		}
		response.ErrorResponse(c, couponErr.HTTPStatus, string(couponErr.Code), couponErr.Message)
		return
	}

	if address.IsDomainError(err) {
		status, code, msg := address.MapErrorToHTTP(err)
		response.ErrorResponse(c, status, code, msg)
		return
	}

	logger.Error("unhandled checkout error", err)
	response.InternalServerError(c, "Internal server error")
}
