package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fsanano/coffee-shop/internal/model"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/kgo"
)

const eventTypeHeader = "event-type"

// ProducerClient is the part of [kgo.Client] the producer uses.
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Codec struct {
	schema avro.Schema
}

func NewCodec() (Codec, error) {
	schema, err := avro.Parse(OrderEventSchemaTextV1)
	if err != nil {
		return Codec{}, fmt.Errorf("parse order event schema: %w", err)
	}
	return Codec{schema: schema}, nil
}

func (c Codec) Encode(evt model.OrderEvent) ([]byte, error) {
	return avro.Marshal(c.schema, toSchemaV1(evt))
}

func (c Codec) Decode(data []byte) (OrderEventV1, error) {
	var v OrderEventV1
	err := avro.Unmarshal(c.schema, data, &v)
	return v, err
}

func toSchemaV1(evt model.OrderEvent) OrderEventV1 {
	o := evt.Order
	v := OrderEventV1{
		Type:          string(evt.Type),
		OccurredAt:    evt.OccurredAt.UTC(),
		OrderID:       o.ID,
		Status:        string(o.Status),
		CustomerEmail: o.Customer.Email,
		CouponCode:    o.CouponCode,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Total:         o.Total,
		Items:         make([]OrderEventItemV1, len(o.Items)),
	}
	for i, it := range o.Items {
		v.Items[i] = OrderEventItemV1{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Qty:       it.Qty,
		}
	}
	return v
}

// OrderProducer writes order lifecycle events to one topic, keyed by order
// id so events of an order stay ordered within a partition.
type OrderProducer struct {
	cl    ProducerClient
	codec Codec
	topic string
}

func NewOrderProducer(cl ProducerClient, topic string) (*OrderProducer, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &OrderProducer{cl: cl, codec: codec, topic: topic}, nil
}

// deliveryTimeout caps how long a record is retried before it fails.
const deliveryTimeout = 10 * time.Second

// NewKafkaClient builds the franz-go client used by [OrderProducer].
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
		kgo.ProduceRequestTimeout(deliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return cl, nil
}

func (p *OrderProducer) PublishOrder(ctx context.Context, evt model.OrderEvent) error {
	const op = "OrderProducer.PublishOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b, err := p.codec.Encode(evt)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}

	r := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(evt.Order.ID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: eventTypeHeader, Value: []byte(evt.Type)},
		},
	}
	if err := p.cl.ProduceSync(ctx, r).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *OrderProducer) Close() {
	const op = "OrderProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}
