package repository

import (
	"context"
	"fmt"

	"fsanano/coffee-shop/internal/model"

	"github.com/jackc/pgx/v5"
)

const couponColumns = "id, code, discount, expiry, description, active, times_used, created_at"

func scanCoupon(row pgx.Row) (model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Discount, &c.Expiry, &c.Description, &c.Active, &c.TimesUsed, &c.CreatedAt)
	return c, err
}

func (r *ShopRepository) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT "+couponColumns+" FROM coupons ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (r *ShopRepository) GetCoupon(ctx context.Context, id string) (model.Coupon, error) {
	c, err := scanCoupon(r.getExecutor(ctx).QueryRow(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE id = $1", id))
	if err != nil {
		return model.Coupon{}, mapError(err, "coupon "+id)
	}
	return c, nil
}

func (r *ShopRepository) GetCouponByCode(ctx context.Context, code string) (model.Coupon, error) {
	c, err := scanCoupon(r.getExecutor(ctx).QueryRow(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE code = $1", code))
	if err != nil {
		return model.Coupon{}, mapError(err, "coupon "+code)
	}
	return c, nil
}

// GetCouponByCodeForUpdate locks the coupon row until the surrounding
// transaction ends.
func (r *ShopRepository) GetCouponByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error) {
	c, err := scanCoupon(r.getExecutor(ctx).QueryRow(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE code = $1 FOR UPDATE", code))
	if err != nil {
		return model.Coupon{}, mapError(err, "coupon "+code)
	}
	return c, nil
}

func (r *ShopRepository) CreateCoupon(ctx context.Context, c model.Coupon) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"INSERT INTO coupons ("+couponColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		c.ID, c.Code, c.Discount, c.Expiry, c.Description, c.Active, c.TimesUsed, c.CreatedAt)
	if err != nil {
		return mapError(err, "coupon "+c.Code)
	}
	return nil
}

func (r *ShopRepository) UpdateCoupon(ctx context.Context, c model.Coupon) error {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		`UPDATE coupons SET code = $2, discount = $3, expiry = $4, description = $5, active = $6
		 WHERE id = $1`,
		c.ID, c.Code, c.Discount, c.Expiry, c.Description, c.Active)
	if err != nil {
		return mapError(err, "coupon "+c.Code)
	}
	return requireAffected(tag, "coupon "+c.ID)
}

func (r *ShopRepository) DeleteCoupon(ctx context.Context, id string) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM coupons WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return requireAffected(tag, "coupon "+id)
}

func (r *ShopRepository) IncrementCouponUsage(ctx context.Context, id string) error {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		"UPDATE coupons SET times_used = times_used + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to update coupon usage: %w", err)
	}
	return requireAffected(tag, "coupon "+id)
}

func (r *ShopRepository) CountCoupons(ctx context.Context) (int, error) {
	return r.count(ctx, "coupons")
}
