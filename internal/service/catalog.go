package service

import (
	"context"
	"fmt"
	"strings"

	"fsanano/coffee-shop/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ProductFilter struct {
	Query    string
	Category string
	// MaxPrice of zero means no limit.
	MaxPrice float64
}

func (f ProductFilter) match(p model.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.Query != "" {
		text := strings.ToLower(p.Name + " " + p.Description)
		if !strings.Contains(text, strings.ToLower(strings.TrimSpace(f.Query))) {
			return false
		}
	}
	return true
}

type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// ProductPatch carries the fields of an update; nil fields are left as is.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

func validateProduct(p *model.Product) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Category, validation.Length(0, 40)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
		validation.Field(&p.Image, validation.Length(0, 500)),
	)
}

func (s *ShopService) ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// catalog returns the full product list, refreshing the cached copy when it
// has expired. The returned slice is shared and must not be modified.
func (s *ShopService) catalog(ctx context.Context) ([]model.Product, error) {
	if s.cfg.CatalogTTL <= 0 {
		return s.store.ListProducts(ctx)
	}

	s.cacheMu.RLock()
	if s.cachedList != nil && s.now().Before(s.cachedExpiry) {
		list := s.cachedList
		s.cacheMu.RUnlock()
		return list, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.cachedList != nil && s.now().Before(s.cachedExpiry) {
		return s.cachedList, nil
	}

	list, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cachedList = list
	s.cachedExpiry = s.now().Add(s.cfg.CatalogTTL)
	return list, nil
}

func (s *ShopService) invalidateCatalog() {
	s.cacheMu.Lock()
	s.cachedList = nil
	s.cacheMu.Unlock()
}

func (s *ShopService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *ShopService) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	now := s.now()
	p := model.Product{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Price:       roundCents(in.Price),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateProduct(&p); err != nil {
		return model.Product{}, err
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidateCatalog()
	return p, nil
}

func (s *ShopService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		p.Price = roundCents(*patch.Price)
	}
	if patch.Category != nil {
		p.Category = strings.ToLower(strings.TrimSpace(*patch.Category))
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Image != nil {
		p.Image = strings.TrimSpace(*patch.Image)
	}
	p.UpdatedAt = s.now()

	if err := validateProduct(&p); err != nil {
		return model.Product{}, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	s.invalidateCatalog()
	return p, nil
}

func (s *ShopService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCatalog()
	return nil
}
