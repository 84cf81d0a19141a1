package handler

import (
	"io"
	"net/http"

	"fsanano/coffee-shop/internal/service"
	"fsanano/coffee-shop/internal/service/auth"
	"fsanano/coffee-shop/internal/service/media"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	CORSOrigins    []string
	MaxUploadBytes int64
}

type Handler struct {
	router *chi.Mux
	shop   *service.ShopService
	auth   *auth.Service
	media  *media.Store
	opts   Options
}

func NewHandler(shop *service.ShopService, authSvc *auth.Service, mediaStore *media.Store, opts Options) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", adminKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	compressor := middleware.NewCompressor(5, "application/json", "text/plain")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	router.Use(compressor.Handler)

	h := &Handler{
		router: router,
		shop:   shop,
		auth:   authSvc,
		media:  mediaStore,
		opts:   opts,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/uploads/{key}", h.ServeUpload)

	h.router.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.CreateProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.PlaceOrder)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Get("/", h.ListOrders)
				r.Get("/{id}", h.GetOrder)
				r.Put("/{id}", h.UpdateOrderStatus)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", h.ValidateCoupon)
			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Get("/", h.ListCoupons)
				r.Post("/", h.CreateCoupon)
				r.Put("/{id}", h.UpdateCoupon)
				r.Delete("/{id}", h.DeleteCoupon)
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", h.SubmitContact)
			r.With(h.requireAdmin).Get("/", h.ListContacts)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.ListReviews)
			r.Post("/", h.SubmitReview)
		})

		r.Post("/admin/login", h.AdminLogin)
		r.With(h.requireAdmin).Get("/admin/stats", h.Stats)

		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.With(h.requireAdmin).Post("/upload", h.Upload)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
