package model

import "time"

type OrderEventType string

const (
	OrderPlaced        OrderEventType = "order.placed"
	OrderStatusChanged OrderEventType = "order.status_changed"
)

type OrderEvent struct {
	Type       OrderEventType
	Order      Order
	OccurredAt time.Time
}
