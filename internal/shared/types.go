package shared

// Task types (asynq)
const (
	TypeCheckoutReconcile = "checkout:reconcile"
	TypeCouponWarmCache   = "coupon:warm_cache"
)

// Queues
const (
	QueueCheckout = "checkout"
	QueueCoupon   = "coupon"
	QueueDefault  = "default"
)

// Gin context keys (set bởi middleware)
const (
	CtxKeyUserID      = "userID"
	CtxKeyRole        = "role"
	CtxKeyAccessToken = "access_token"
	CtxKeyClientIP    = "client_ip"
	CtxKeyRequestID   = "request_id"
)
