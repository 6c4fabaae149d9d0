package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/model"
	"github.com/example/marketplace/internal/realtime"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	AuthHandlers    *AuthHandlers
	BrandHandlers   *BrandHandlers
	ProductHandlers *ProductHandlers
	OrderHandlers   *OrderHandlers
	Hub             *realtime.Hub
	JWTService      *auth.JWTService
}

// NewRouter wires every endpoint with its guard. Public catalog reads
// take no auth; mutations are role-gated per route.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)

	authenticate := middleware.Authenticate(cfg.JWTService)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	customerOnly := middleware.RequireRole(model.RoleCustomer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandlers.Register)
		r.Post("/login", cfg.AuthHandlers.Login)
		r.With(authenticate).Get("/profile", cfg.AuthHandlers.Profile)
	})

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", cfg.BrandHandlers.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", cfg.BrandHandlers.Create)
			r.Put("/{id}", cfg.BrandHandlers.Rename)
			r.Delete("/{id}", cfg.BrandHandlers.Delete)
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", cfg.ProductHandlers.List)
		r.Get("/{id}/{page}/{limit}", cfg.ProductHandlers.ListByBrand)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", cfg.ProductHandlers.Create)
			r.Delete("/{id}", cfg.ProductHandlers.Delete)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(authenticate, customerOnly).Post("/", cfg.OrderHandlers.Create)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Get("/", cfg.OrderHandlers.List)
			r.Get("/{orderId}", cfg.OrderHandlers.Get)
			r.Patch("/{orderId}/status", cfg.OrderHandlers.SetStatus)
			r.Patch("/{orderId}/items/{itemId}/shipping-status", cfg.OrderHandlers.SetItemShippingStatus)
		})
	})

	// Realtime connections authenticate at the handshake, not through the
	// HTTP middleware chain.
	r.Get("/ws", realtime.ServeWS(cfg.Hub, cfg.JWTService))

	return r
}
