package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fsanano/coffee-shop/internal/model"

	"github.com/google/uuid"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o model.Order) error
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error
	CountOrders(ctx context.Context) (int, error)
}

type CouponStore interface {
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (model.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (model.Coupon, error)
	GetCouponByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error)
	CreateCoupon(ctx context.Context, c model.Coupon) error
	UpdateCoupon(ctx context.Context, c model.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	IncrementCouponUsage(ctx context.Context, id string) error
	CountCoupons(ctx context.Context) (int, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, m model.ContactMessage) error
	ListContacts(ctx context.Context) ([]model.ContactMessage, error)
	CountContacts(ctx context.Context) (int, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r model.Review) error
	ListReviews(ctx context.Context) ([]model.Review, error)
	CountReviews(ctx context.Context) (int, error)
}

// Store is everything ShopService needs from persistence. RunAtomic must make
// calls using the context it passes to fn part of one transaction.
type Store interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	ProductStore
	OrderStore
	CouponStore
	ContactStore
	ReviewStore
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, evt model.OrderEvent) error
}

type Config struct {
	// CatalogTTL is how long the product list is served from memory.
	// Zero disables the cache.
	CatalogTTL time.Duration
	// PublishTimeout bounds each order event publish. Zero means
	// defaultPublishTimeout.
	PublishTimeout time.Duration
}

const defaultPublishTimeout = 5 * time.Second

type ShopService struct {
	store     Store
	publisher OrderPublisher
	cfg       Config

	now   func() time.Time
	newID func() string

	cacheMu      sync.RWMutex
	cachedList   []model.Product
	cachedExpiry time.Time
}

// NewShopService wires the service. A nil publisher disables order events.
func NewShopService(store Store, publisher OrderPublisher, cfg Config) *ShopService {
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return &ShopService{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock replaces the time source.
func (s *ShopService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ShopService) publish(ctx context.Context, typ model.OrderEventType, o model.Order) {
	if s.publisher == nil {
		return
	}
	const op = "ShopService.publish"

	// Detached from the request, bounded by PublishTimeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PublishTimeout)
	defer cancel()

	evt := model.OrderEvent{Type: typ, Order: o, OccurredAt: s.now()}
	if err := s.publisher.PublishOrder(ctx, evt); err != nil {
		slog.Error("failed to publish order event",
			"op", op, "type", typ, "order_id", o.ID, "err", err)
	}
}
