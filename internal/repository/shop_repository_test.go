package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fsanano/coffee-shop/internal/model"
	"fsanano/coffee-shop/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to DATABASE_URL with migrations already applied and
// empties every table. Tests are skipped without a database.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	tables := []string{"order_items", "orders", "coupons", "products", "contact_messages", "reviews", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	return pool
}

func TestShopRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewShopRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	p := model.Product{ID: "p1", Name: "Flat White", Price: 31.5, Category: "hot", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProduct(ctx, p))
	assert.ErrorIs(t, repo.CreateProduct(ctx, p), model.ErrConflict)

	got, err := repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 31.5, got.Price)

	_, err = repo.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	c := model.Coupon{ID: "c1", Code: "SAVE10", Discount: 10, Active: true, CreatedAt: now}
	require.NoError(t, repo.CreateCoupon(ctx, c))
	byCode, err := repo.GetCouponByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "c1", byCode.ID)
	assert.ErrorIs(t, repo.CreateCoupon(ctx, model.Coupon{ID: "c2", Code: "SAVE10", Discount: 5, CreatedAt: now}), model.ErrConflict)

	order := model.Order{
		ID:         "o1",
		Items:      []model.OrderItem{{ProductID: "p1", Name: "Flat White", Price: 31.5, Qty: 2}},
		Subtotal:   63,
		Discount:   6.3,
		Total:      56.7,
		CouponCode: "SAVE10",
		Customer:   model.Customer{Name: "Ada", Email: "ada@example.com"},
		Status:     model.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = repo.RunAtomic(ctx, func(ctx context.Context) error {
		locked, err := repo.GetCouponByCodeForUpdate(ctx, "SAVE10")
		if err != nil {
			return err
		}
		if err := repo.IncrementCouponUsage(ctx, locked.ID); err != nil {
			return err
		}
		return repo.CreateOrder(ctx, order)
	})
	require.NoError(t, err)

	stored, err := repo.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, 56.7, stored.Total)

	coupon, err := repo.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.TimesUsed)

	require.NoError(t, repo.UpdateOrderStatus(ctx, "o1", model.OrderCompleted, now.Add(time.Minute)))
	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderCompleted, orders[0].Status)
	assert.Len(t, orders[0].Items, 1)
}

func TestShopRepository_RunAtomicRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewShopRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateCoupon(ctx, model.Coupon{ID: "c1", Code: "ONCE", Discount: 10, Active: true, CreatedAt: now}))

	err := repo.RunAtomic(ctx, func(ctx context.Context) error {
		if err := repo.IncrementCouponUsage(ctx, "c1"); err != nil {
			return err
		}
		// The second insert hits the primary key.
		o := model.Order{ID: "dup", Customer: model.Customer{Name: "A", Email: "a@example.com"}, Status: model.OrderPending, CreatedAt: now, UpdatedAt: now}
		if err := repo.CreateOrder(ctx, o); err != nil {
			return err
		}
		return repo.CreateOrder(ctx, o)
	})
	assert.ErrorIs(t, err, model.ErrConflict)

	c, err := repo.GetCoupon(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, c.TimesUsed)

	n, err := repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
