package events

import "time"

const OrderEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "coffeeshop.orders",
	"name": "OrderEvent",
	"fields": [
		{"name": "type", "type": "string"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "order_id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "customer_email", "type": "string"},
		{"name": "coupon_code", "type": "string"},
		{"name": "subtotal", "type": "double"},
		{"name": "discount", "type": "double"},
		{"name": "total", "type": "double"},
		{"name": "items", "type": {"type": "array", "items": {
			"type": "record",
			"name": "OrderEventItem",
			"fields": [
				{"name": "product_id", "type": "string"},
				{"name": "name", "type": "string"},
				{"name": "price", "type": "double"},
				{"name": "qty", "type": "int"}
			]
		}}}
	]
}`

type (
	OrderEventV1 struct {
		Type          string             `avro:"type"`
		OccurredAt    time.Time          `avro:"occurred_at"`
		OrderID       string             `avro:"order_id"`
		Status        string             `avro:"status"`
		CustomerEmail string             `avro:"customer_email"`
		CouponCode    string             `avro:"coupon_code"`
		Subtotal      float64            `avro:"subtotal"`
		Discount      float64            `avro:"discount"`
		Total         float64            `avro:"total"`
		Items         []OrderEventItemV1 `avro:"items"`
	}

	OrderEventItemV1 struct {
		ProductID string  `avro:"product_id"`
		Name      string  `avro:"name"`
		Price     float64 `avro:"price"`
		Qty       int     `avro:"qty"`
	}
)
