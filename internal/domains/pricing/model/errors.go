package model

import "errors"

var (
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrUnknownDiscountType   = errors.New("unknown discount type")
)
