package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	addressModel "storefront-checkout/internal/domains/address/model"
	couponModel "storefront-checkout/internal/domains/coupon/model"
	dashboardModel "storefront-checkout/internal/domains/dashboard/model"
	orderModel "storefront-checkout/internal/domains/order/model"
	pricingModel "storefront-checkout/internal/domains/pricing/model"
)

// ErrEmptyPaymentURL - cổng thanh toán không trả về URL
var ErrEmptyPaymentURL = errors.New("payment gateway returned an empty url")

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

// =====================================================
// CART
// =====================================================

func (c *Client) ListCartItems(ctx context.Context) ([]pricingModel.LineItem, error) {
	return ListAll[pricingModel.LineItem](ctx, c, "carts.list", "/v1/carts/user", nil)
}

// RemoveCartItem xoá một dòng giỏ hàng. ordered=true báo server đây là xoá do đặt hàng,
// không phải user tự xoá (bỏ qua side effect thông thường).
func (c *Client) RemoveCartItem(ctx context.Context, cartItemID string, ordered bool) error {
	var q url.Values
	if ordered {
		q = url.Values{"is_ordered": []string{"true"}}
	}
	return c.Do(ctx, Call{
		Name:   "carts.remove",
		Method: http.MethodDelete,
		Path:   idPath("/v1/carts", cartItemID),
		Query:  q,
	}, nil)
}

// =====================================================
// ADDRESS
// =====================================================

func (c *Client) ListAddresses(ctx context.Context) ([]addressModel.Address, error) {
	return ListAll[addressModel.Address](ctx, c, "addresses.list", "/v1/addresses/user", nil)
}

// =====================================================
// COUPON
// =====================================================

func (c *Client) ListActiveCoupons(ctx context.Context) ([]couponModel.Coupon, error) {
	return ListAll[couponModel.Coupon](ctx, c, "coupons.active", "/v1/coupons/active", nil)
}

func (c *Client) ListUserCoupons(ctx context.Context) ([]couponModel.UserCoupon, error) {
	return ListAll[couponModel.UserCoupon](ctx, c, "user_coupons.list", "/v1/user-coupons/user", nil)
}

// UpdateCouponUsage - PUT /v1/coupons/:id, body chỉ có used_count
func (c *Client) UpdateCouponUsage(ctx context.Context, couponID string, usedCount int) error {
	return c.Do(ctx, Call{
		Name:   "coupons.update_usage",
		Method: http.MethodPut,
		Path:   idPath("/v1/coupons", couponID),
		Body:   couponModel.UsageUpdate{UsedCount: usedCount},
	}, nil)
}

// UpdateUserCouponUsage - PUT /v1/user-coupons/:id, body chỉ có used_count
func (c *Client) UpdateUserCouponUsage(ctx context.Context, userCouponID string, usedCount int) error {
	return c.Do(ctx, Call{
		Name:   "user_coupons.update_usage",
		Method: http.MethodPut,
		Path:   idPath("/v1/user-coupons", userCouponID),
		Body:   couponModel.UsageUpdate{UsedCount: usedCount},
	}, nil)
}

// =====================================================
// ORDER
// =====================================================

// CreateOrder - POST /v1/orders. idempotencyKey được gửi qua header Idempotency-Key
func (c *Client) CreateOrder(ctx context.Context, req *orderModel.CreateOrderRequest, idempotencyKey string) (*orderModel.Order, error) {
	call := Call{
		Name:   "orders.create",
		Method: http.MethodPost,
		Path:   "/v1/orders",
		Body:   req,
	}
	if idempotencyKey != "" {
		call.Headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	var out orderModel.Order
	if err := c.Do(ctx, call, &out); err != nil {
		return nil, err
	}
	if out.OrderID == "" {
		return nil, errors.New("create order: response has no order_id")
	}
	return &out, nil
}

func (c *Client) CreateOrderItem(ctx context.Context, req *orderModel.CreateOrderItemRequest) (*orderModel.OrderItem, error) {
	var out orderModel.OrderItem
	err := c.Do(ctx, Call{
		Name:   "order_items.create",
		Method: http.MethodPost,
		Path:   "/v1/order-items",
		Body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*orderModel.Order, error) {
	var out orderModel.Order
	err := c.Do(ctx, Call{
		Name:   "orders.get",
		Method: http.MethodGet,
		Path:   idPath("/v1/orders", orderID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus - PUT /v1/orders/:id {status}. Server quyết định transition có hợp lệ hay không
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*orderModel.Order, error) {
	var out orderModel.Order
	err := c.Do(ctx, Call{
		Name:   "orders.update_status",
		Method: http.MethodPut,
		Path:   idPath("/v1/orders", orderID),
		Body:   orderModel.UpdateOrderStatusRequest{Status: status},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// =====================================================
// ADMIN COLLECTIONS (dashboard)
// =====================================================

func (c *Client) ListOrders(ctx context.Context) ([]orderModel.Order, error) {
	return ListAll[orderModel.Order](ctx, c, "orders.list", "/v1/orders", nil)
}

func (c *Client) ListOrderItems(ctx context.Context) ([]orderModel.OrderItem, error) {
	return ListAll[orderModel.OrderItem](ctx, c, "order_items.list", "/v1/order-items", nil)
}

func (c *Client) ListImports(ctx context.Context) ([]dashboardModel.Import, error) {
	return ListAll[dashboardModel.Import](ctx, c, "imports.list", "/v1/imports", nil)
}

// =====================================================
// PAYMENT
// =====================================================

type paymentURLRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID string          `json:"order_id"`
	Method  string          `json:"method"`
}

// CreatePaymentURL lấy redirect URL của cổng thanh toán (amount, orderID, method).
// Response có thể là string trần hoặc object {url}/{payment_url}.
func (c *Client) CreatePaymentURL(ctx context.Context, amount decimal.Decimal, orderID, method string) (string, error) {
	var raw json.RawMessage
	err := c.Do(ctx, Call{
		Name:   "payments.vnpay_url",
		Method: http.MethodPost,
		Path:   "/v1/payments/vnpay/url",
		Body:   paymentURLRequest{Amount: amount, OrderID: orderID, Method: method},
	}, &raw)
	if err != nil {
		return "", err
	}

	paymentURL := decodePaymentURL(raw)
	if paymentURL == "" {
		return "", ErrEmptyPaymentURL
	}
	return paymentURL, nil
}

func decodePaymentURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		URL        string `json:"url"`
		PaymentURL string `json:"payment_url"`
		PayURL     string `json:"paymentUrl"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, v := range []string{obj.PaymentURL, obj.URL, obj.PayURL} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Status text cho log
func StatusText(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.Status)
	}
	return "network"
}
