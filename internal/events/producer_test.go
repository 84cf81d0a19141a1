package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"fsanano/coffee-shop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeClient struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (c *fakeClient) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	c.records = append(c.records, rs...)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: c.err}
	}
	return results
}

func (c *fakeClient) Close() { c.closed = true }

func sampleEvent() model.OrderEvent {
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	return model.OrderEvent{
		Type:       model.OrderPlaced,
		OccurredAt: at,
		Order: model.Order{
			ID:         "order-1",
			Subtotal:   109.97,
			Discount:   11,
			Total:      98.97,
			CouponCode: "SAVE10",
			Customer:   model.Customer{Name: "Ada", Email: "ada@example.com"},
			Status:     model.OrderPending,
			Items: []model.OrderItem{
				{ProductID: "1", Name: "Strawberry Coffee", Price: 39.99, Qty: 2},
				{ProductID: "2", Name: "Green Tea Coffee", Price: 29.99, Qty: 1},
			},
			CreatedAt: at,
		},
	}
}

func TestOrderProducer_PublishOrder(t *testing.T) {
	cl := &fakeClient{}
	p, err := NewOrderProducer(cl, "orders")
	require.NoError(t, err)

	evt := sampleEvent()
	require.NoError(t, p.PublishOrder(context.Background(), evt))

	require.Len(t, cl.records, 1)
	r := cl.records[0]
	assert.Equal(t, "orders", r.Topic)
	assert.Equal(t, []byte("order-1"), r.Key)
	require.Len(t, r.Headers, 1)
	assert.Equal(t, eventTypeHeader, r.Headers[0].Key)
	assert.Equal(t, "order.placed", string(r.Headers[0].Value))

	got, err := p.codec.Decode(r.Value)
	require.NoError(t, err)
	assert.Equal(t, "order.placed", got.Type)
	assert.Equal(t, evt.OccurredAt.UnixMilli(), got.OccurredAt.UnixMilli())
	assert.Equal(t, "order-1", got.OrderID)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "ada@example.com", got.CustomerEmail)
	assert.Equal(t, "SAVE10", got.CouponCode)
	assert.Equal(t, 98.97, got.Total)
	assert.Equal(t, []OrderEventItemV1{
		{ProductID: "1", Name: "Strawberry Coffee", Price: 39.99, Qty: 2},
		{ProductID: "2", Name: "Green Tea Coffee", Price: 29.99, Qty: 1},
	}, got.Items)
}

func TestOrderProducer_PublishOrderError(t *testing.T) {
	cl := &fakeClient{err: errors.New("not enough replicas")}
	p, err := NewOrderProducer(cl, "orders")
	require.NoError(t, err)

	err = p.PublishOrder(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "not enough replicas")
}

func TestOrderProducer_CancelledContext(t *testing.T) {
	cl := &fakeClient{}
	p, err := NewOrderProducer(cl, "orders")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.PublishOrder(ctx, sampleEvent())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cl.records)
}

func TestOrderProducer_Close(t *testing.T) {
	cl := &fakeClient{}
	p, err := NewOrderProducer(cl, "orders")
	require.NoError(t, err)

	p.Close()
	assert.True(t, cl.closed)
}

// stuckClient waits for the context like kgo does when no broker answers.
type stuckClient struct{}

func (stuckClient) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	<-ctx.Done()
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: ctx.Err()}
	}
	return results
}

func (stuckClient) Close() {}

func TestOrderProducer_PublishOrderHonoursDeadline(t *testing.T) {
	p, err := NewOrderProducer(stuckClient{}, "orders")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = p.PublishOrder(ctx, sampleEvent())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
