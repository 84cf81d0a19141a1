package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fsanano/coffee-shop/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CartLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (l CartLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ProductID, validation.Required),
		validation.Field(&l.Qty, validation.Min(1), validation.Max(100)),
	)
}

type PlaceOrderInput struct {
	Items         []CartLine     `json:"items"`
	CouponCode    string         `json:"coupon_code"`
	Customer      model.Customer `json:"customer"`
	PaymentMethod string         `json:"payment_method"`
	PaymentRef    string         `json:"payment_ref"`
}

func (in PlaceOrderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Items, validation.Required.Error("cart is empty")),
		validation.Field(&in.Customer, validation.By(validateCustomer)),
		validation.Field(&in.PaymentMethod, validation.Length(0, 40)),
		validation.Field(&in.PaymentRef, validation.Length(0, 120)),
	)
}

func validateCustomer(value any) error {
	c, _ := value.(model.Customer)
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Phone, validation.Length(0, 40)),
		validation.Field(&c.Address, validation.Length(0, 500)),
	)
}

func (in *PlaceOrderInput) normalize() {
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		if in.Items[i].Qty == 0 {
			in.Items[i].Qty = 1
		}
	}
	in.CouponCode = normalizeCode(in.CouponCode)
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	in.Customer.Address = strings.TrimSpace(in.Customer.Address)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.PaymentRef = strings.TrimSpace(in.PaymentRef)
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	pos := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := pos[l.ProductID]; ok {
			out[i].Qty += l.Qty
			continue
		}
		pos[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// PlaceOrder turns a cart into a pending order. Prices come from the catalog,
// never from the caller. A coupon, when given, must be usable and has its
// usage counted in the same transaction that stores the order.
func (s *ShopService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return model.Order{}, err
	}
	// Limits apply per product, so they are checked again after merging.
	lines := mergeLines(in.Items)
	if err := validation.Validate(lines); err != nil {
		return model.Order{}, validation.Errors{"items": err}
	}

	now := s.now()
	order := model.Order{
		ID:            s.newID(),
		Customer:      in.Customer,
		PaymentMethod: in.PaymentMethod,
		PaymentRef:    in.PaymentRef,
		Status:        model.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		items, err := s.priceLines(ctx, lines)
		if err != nil {
			return err
		}

		discountPct := 0
		if in.CouponCode != "" {
			c, err := s.redeemCoupon(ctx, in.CouponCode, now)
			if err != nil {
				return err
			}
			discountPct = c.Discount
			order.CouponCode = c.Code
		}

		totals := Quote(items, discountPct)
		order.Items = items
		order.Subtotal = totals.Subtotal
		order.Discount = totals.Discount
		order.Total = totals.Total

		return s.store.CreateOrder(ctx, order)
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.publish(ctx, model.OrderPlaced, order)
	return order, nil
}

func (s *ShopService) priceLines(ctx context.Context, lines []CartLine) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.store.GetProduct(ctx, l.ProductID)
		if errors.Is(err, model.ErrNotFound) {
			return nil, validation.Errors{
				"items": validation.NewError("validation_unknown_product", fmt.Sprintf("product %q does not exist", l.ProductID)),
			}
		}
		if err != nil {
			return nil, err
		}
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       l.Qty,
		})
	}
	return items, nil
}

func (s *ShopService) redeemCoupon(ctx context.Context, code string, now time.Time) (model.Coupon, error) {
	c, err := s.store.GetCouponByCodeForUpdate(ctx, code)
	if errors.Is(err, model.ErrNotFound) {
		return model.Coupon{}, fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
	}
	if err != nil {
		return model.Coupon{}, err
	}
	if !c.Usable(now) {
		return model.Coupon{}, fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
	}
	if err := s.store.IncrementCouponUsage(ctx, c.ID); err != nil {
		return model.Coupon{}, err
	}
	c.TimesUsed++
	return c, nil
}

func (s *ShopService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *ShopService) GetOrder(ctx context.Context, id string) (model.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *ShopService) UpdateOrderStatus(ctx context.Context, id string, status string) (model.Order, error) {
	st := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return model.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.store.UpdateOrderStatus(ctx, id, st, s.now()); err != nil {
		return model.Order{}, fmt.Errorf("update order status: %w", err)
	}
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}

	s.publish(ctx, model.OrderStatusChanged, o)
	return o, nil
}
