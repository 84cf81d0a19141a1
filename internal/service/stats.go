package service

import (
	"context"
	"fmt"

	"fsanano/coffee-shop/internal/model"

	"golang.org/x/sync/errgroup"
)

// Stats gathers the admin dashboard counters concurrently.
func (s *ShopService) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	g, ctx := errgroup.WithContext(ctx)

	counters := []struct {
		name  string
		dst   *int
		count func(context.Context) (int, error)
	}{
		{"products", &st.Products, s.store.CountProducts},
		{"orders", &st.Orders, s.store.CountOrders},
		{"coupons", &st.Coupons, s.store.CountCoupons},
		{"reviews", &st.Reviews, s.store.CountReviews},
		{"contacts", &st.Contacts, s.store.CountContacts},
	}
	for _, c := range counters {
		g.Go(func() error {
			n, err := c.count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", c.name, err)
			}
			*c.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return st, nil
}
