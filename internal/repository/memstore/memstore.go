// Package memstore keeps the shop's data in process memory. It backs the
// server when STORAGE_DRIVER=memory and doubles as the store in tests.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"fsanano/coffee-shop/internal/model"
	"fsanano/coffee-shop/internal/service"
	"fsanano/coffee-shop/internal/service/auth"
)

var (
	_ service.Store  = (*Store)(nil)
	_ auth.UserStore = (*Store)(nil)
)

type Store struct {
	// txMu serializes RunAtomic callers; mu guards the maps.
	txMu sync.Mutex
	mu   sync.RWMutex

	products map[string]model.Product
	orders   map[string]model.Order
	coupons  map[string]model.Coupon
	contacts []model.ContactMessage
	reviews  []model.Review
	users    map[string]model.User
}

// New returns a store seeded with the default catalog.
func New() *Store {
	s := NewEmpty()
	for _, p := range DefaultProducts(time.Now()) {
		s.products[p.ID] = p
	}
	return s
}

func NewEmpty() *Store {
	return &Store{
		products: make(map[string]model.Product),
		orders:   make(map[string]model.Order),
		coupons:  make(map[string]model.Coupon),
		users:    make(map[string]model.User),
	}
}

// RunAtomic runs fn while holding the transaction lock. Writes already made
// by fn are not undone when it fails.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

type txKey struct{}

func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := createdAt(b).Compare(createdAt(a)); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
}

// Products

func (s *Store) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	newestFirst(out, func(p model.Product) time.Time { return p.CreatedAt }, func(p model.Product) string { return p.ID })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, notFound("product", id)
	}
	return p, nil
}

func (s *Store) CreateProduct(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; ok {
		return fmt.Errorf("product %s: %w", p.ID, model.ErrConflict)
	}
	s.products[p.ID] = p
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.products[p.ID]
	if !ok {
		return notFound("product", p.ID)
	}
	p.CreatedAt = old.CreatedAt
	s.products[p.ID] = p
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return notFound("product", id)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) CountProducts(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// Orders

func (s *Store) CreateOrder(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, model.ErrConflict)
	}
	o.Items = slices.Clone(o.Items)
	s.orders[o.ID] = o
	return nil
}

func (s *Store) ListOrders(_ context.Context) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		o.Items = slices.Clone(o.Items)
		out = append(out, o)
	}
	newestFirst(out, func(o model.Order) time.Time { return o.CreatedAt }, func(o model.Order) string { return o.ID })
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, notFound("order", id)
	}
	o.Items = slices.Clone(o.Items)
	return o, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status model.OrderStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return notFound("order", id)
	}
	o.Status = status
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}

func (s *Store) CountOrders(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

// Coupons

func (s *Store) codeTaken(code, exceptID string) bool {
	for _, c := range s.coupons {
		if c.ID != exceptID && strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

func (s *Store) ListCoupons(_ context.Context) ([]model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	newestFirst(out, func(c model.Coupon) time.Time { return c.CreatedAt }, func(c model.Coupon) string { return c.ID })
	return out, nil
}

func (s *Store) GetCoupon(_ context.Context, id string) (model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coupons[id]
	if !ok {
		return model.Coupon{}, notFound("coupon", id)
	}
	return c, nil
}

// GetCouponByCodeForUpdate is GetCouponByCode. Row locking is provided by
// RunAtomic's transaction lock.
func (s *Store) GetCouponByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error) {
	return s.GetCouponByCode(ctx, code)
}

func (s *Store) GetCouponByCode(_ context.Context, code string) (model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return model.Coupon{}, notFound("coupon", code)
}

func (s *Store) CreateCoupon(_ context.Context, c model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.coupons[c.ID]; ok || s.codeTaken(c.Code, "") {
		return fmt.Errorf("coupon %s: %w", c.Code, model.ErrConflict)
	}
	s.coupons[c.ID] = c
	return nil
}

func (s *Store) UpdateCoupon(_ context.Context, c model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.coupons[c.ID]
	if !ok {
		return notFound("coupon", c.ID)
	}
	if s.codeTaken(c.Code, c.ID) {
		return fmt.Errorf("coupon %s: %w", c.Code, model.ErrConflict)
	}
	c.TimesUsed = old.TimesUsed
	c.CreatedAt = old.CreatedAt
	s.coupons[c.ID] = c
	return nil
}

func (s *Store) DeleteCoupon(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.coupons[id]; !ok {
		return notFound("coupon", id)
	}
	delete(s.coupons, id)
	return nil
}

func (s *Store) IncrementCouponUsage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.coupons[id]
	if !ok {
		return notFound("coupon", id)
	}
	c.TimesUsed++
	s.coupons[id] = c
	return nil
}

func (s *Store) CountCoupons(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.coupons), nil
}

// Contact messages

func (s *Store) CreateContact(_ context.Context, m model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, m)
	return nil
}

func (s *Store) ListContacts(_ context.Context) ([]model.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.contacts)
	if out == nil {
		out = []model.ContactMessage{}
	}
	newestFirst(out, func(m model.ContactMessage) time.Time { return m.CreatedAt }, func(m model.ContactMessage) string { return m.ID })
	return out, nil
}

func (s *Store) CountContacts(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts), nil
}

// Reviews

func (s *Store) CreateReview(_ context.Context, r model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, r)
	return nil
}

func (s *Store) ListReviews(_ context.Context) ([]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.reviews)
	if out == nil {
		out = []model.Review{}
	}
	newestFirst(out, func(r model.Review) time.Time { return r.CreatedAt }, func(r model.Review) string { return r.ID })
	return out, nil
}

func (s *Store) CountReviews(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews), nil
}

// Users

func (s *Store) CreateUser(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Email]; ok {
		return fmt.Errorf("user %s: %w", u.Email, model.ErrConflict)
	}
	s.users[u.Email] = u
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return model.User{}, notFound("user", email)
	}
	return u, nil
}
