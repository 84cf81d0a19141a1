package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fsanano/coffee-shop/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var couponCodeRe = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CouponInput struct {
	Code        string
	Discount    int
	Expiry      *time.Time
	Description string
	// Active defaults to true when nil.
	Active *bool
}

type CouponPatch struct {
	Code        *string
	Discount    *int
	Expiry      *time.Time
	ClearExpiry bool
	Description *string
	Active      *bool
}

type CouponQuote struct {
	Code     string  `json:"code"`
	Percent  int     `json:"percent"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

func validateCoupon(c *model.Coupon) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Code, validation.Required, validation.Length(3, 32), validation.Match(couponCodeRe)),
		validation.Field(&c.Discount, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Description, validation.Length(0, 500)),
	)
}

func (s *ShopService) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	return s.store.ListCoupons(ctx)
}

func (s *ShopService) CreateCoupon(ctx context.Context, in CouponInput) (model.Coupon, error) {
	c := model.Coupon{
		ID:          s.newID(),
		Code:        normalizeCode(in.Code),
		Discount:    in.Discount,
		Expiry:      in.Expiry,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   s.now(),
	}
	if err := validateCoupon(&c); err != nil {
		return model.Coupon{}, err
	}

	if err := s.store.CreateCoupon(ctx, c); err != nil {
		return model.Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	return c, nil
}

func (s *ShopService) UpdateCoupon(ctx context.Context, id string, patch CouponPatch) (model.Coupon, error) {
	c, err := s.store.GetCoupon(ctx, id)
	if err != nil {
		return model.Coupon{}, err
	}

	if patch.Code != nil {
		c.Code = normalizeCode(*patch.Code)
	}
	if patch.Discount != nil {
		c.Discount = *patch.Discount
	}
	switch {
	case patch.ClearExpiry:
		c.Expiry = nil
	case patch.Expiry != nil:
		c.Expiry = patch.Expiry
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Active != nil {
		c.Active = *patch.Active
	}

	if err := validateCoupon(&c); err != nil {
		return model.Coupon{}, err
	}
	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return model.Coupon{}, fmt.Errorf("update coupon: %w", err)
	}
	return c, nil
}

func (s *ShopService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.store.DeleteCoupon(ctx, id); err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}

// ValidateCoupon prices a subtotal with the given coupon without redeeming it.
func (s *ShopService) ValidateCoupon(ctx context.Context, code string, subtotal float64) (CouponQuote, error) {
	code = normalizeCode(code)
	if code == "" {
		return CouponQuote{}, validation.Errors{"code": validation.ErrRequired}
	}
	if subtotal < 0 {
		return CouponQuote{}, validation.Errors{"subtotal": validation.NewError("validation_min_greater_equal_than_required", "must be no less than 0")}
	}

	c, err := s.store.GetCouponByCode(ctx, code)
	if errors.Is(err, model.ErrNotFound) {
		return CouponQuote{}, fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
	}
	if err != nil {
		return CouponQuote{}, err
	}
	if !c.Usable(s.now()) {
		return CouponQuote{}, fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
	}

	t := quoteSubtotal(decimal.NewFromFloat(subtotal), c.Discount)
	return CouponQuote{
		Code:     c.Code,
		Percent:  c.Discount,
		Subtotal: t.Subtotal,
		Discount: t.Discount,
		Total:    t.Total,
	}, nil
}
