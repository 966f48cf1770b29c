package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/auth"
	"github.com/example/ec-shop-api/internal/domain/user"
)

type RouterConfig struct {
	Auth       *AuthHandlers
	Products   *ProductHandlers
	Carts      *CartHandlers
	Orders     *OrderHandlers
	Coupons    *CouponHandlers
	Activities *ActivityHandlers
	Tokens     *auth.TokenManager
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	authed := middleware.Authenticate(cfg.Tokens)
	adminOnly := middleware.RequireRole(string(user.RoleAdmin))

	// Public
	r.Post("/auth/register", cfg.Auth.Register)
	r.Post("/auth/login", cfg.Auth.Login)
	r.Post("/auth/refresh", cfg.Auth.Refresh)
	r.Post("/auth/logout", cfg.Auth.Logout)
	r.Get("/products", cfg.Products.List)
	r.Get("/products/featured", cfg.Products.Featured)
	r.Get("/products/{productID}", cfg.Products.Get)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(authed)

		r.Get("/auth/profile", cfg.Auth.Profile)

		r.Get("/cart", cfg.Carts.Get)
		r.Post("/cart", cfg.Carts.AddItem)
		r.Put("/cart/{itemID}", cfg.Carts.UpdateQuantity)
		r.Delete("/cart", cfg.Carts.Clear)

		r.Post("/orders", cfg.Orders.Create)
		r.Get("/orders/user", cfg.Orders.ListMine)
		r.Get("/orders/{orderID}", cfg.Orders.Get)
		r.Patch("/orders/{orderID}/cancel", cfg.Orders.Cancel)

		r.Get("/coupons", cfg.Coupons.Get)
		r.Post("/coupons/validate", cfg.Coupons.Validate)
	})

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(authed, adminOnly)

		r.Get("/orders", cfg.Orders.ListAll)
		r.Patch("/orders/{orderID}", cfg.Orders.UpdateStatus)
		r.Delete("/orders/{orderID}", cfg.Orders.Delete)

		r.Post("/products", cfg.Products.Create)
		r.Put("/products/{productID}", cfg.Products.Update)
		r.Delete("/products/{productID}", cfg.Products.Delete)

		r.Get("/activities", cfg.Activities.Recent)
	})

	return r
}
