package repository

import (
	"context"
	"fmt"
	"time"

	"fsanano/coffee-shop/internal/model"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, subtotal, discount, total, coupon_code,
	customer_name, customer_email, customer_phone, customer_address,
	payment_method, payment_ref, status, created_at, updated_at`

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Subtotal, &o.Discount, &o.Total, &o.CouponCode,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.PaymentMethod, &o.PaymentRef, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOrder inserts the order row followed by its items. Callers should run
// it inside RunAtomic so a failed item insert does not leave a bare order.
func (r *ShopRepository) CreateOrder(ctx context.Context, o model.Order) error {
	exec := r.getExecutor(ctx)
	_, err := exec.Exec(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
		o.ID, o.Subtotal, o.Discount, o.Total, o.CouponCode,
		o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
		o.PaymentMethod, o.PaymentRef, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to create order")
	}

	for i, it := range o.Items {
		_, err := exec.Exec(ctx,
			"INSERT INTO order_items (order_id, position, product_id, name, price, qty) VALUES ($1, $2, $3, $4, $5, $6)",
			o.ID, i, it.ProductID, it.Name, it.Price, it.Qty)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

// ListOrders returns every order, newest first, with items attached.
func (r *ShopRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	index := make(map[string]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := r.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for orderID, its := range items {
		if i, ok := index[orderID]; ok {
			orders[i].Items = its
		}
	}
	return orders, nil
}

func (r *ShopRepository) GetOrder(ctx context.Context, id string) (model.Order, error) {
	o, err := scanOrder(r.getExecutor(ctx).QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return model.Order{}, mapError(err, "order "+id)
	}

	items, err := r.orderItems(ctx, []string{id})
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	return o, nil
}

func (r *ShopRepository) orderItems(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`SELECT order_id, product_id, name, price, qty
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]model.OrderItem)
	for rows.Next() {
		var orderID string
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Price, &it.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	return items, nil
}

func (r *ShopRepository) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		"UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1", id, status, at)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireAffected(tag, "order "+id)
}

func (r *ShopRepository) CountOrders(ctx context.Context) (int, error) {
	return r.count(ctx, "orders")
}
