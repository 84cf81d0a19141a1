package service

import "errors"

var (
	ErrInvalidCoupon = errors.New("invalid or expired coupon")
	ErrInvalidStatus = errors.New("invalid order status")
)
