package http

import (
	"net/http"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	// Authn guards the admin routes.
	Authn Authenticator
}

// NewRouter mounts the local API under /api/v1 next to /health and /metrics.
func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{product_id}", h.Products.GetProduct)
		})
		r.Route("/search", func(r chi.Router) {
			r.Get("/", h.Products.GetSearch)
			r.Put("/", h.Products.SetSearchTerm)
			r.Put("/page", h.Products.SetPage)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Post("/items/{product_id}/decrement", h.Cart.Decrement)
			r.Put("/items/{product_id}/stock", h.Cart.UpdateStock)
			r.Post("/open", h.Cart.Open)
			r.Post("/close", h.Cart.Close)
			r.Post("/toggle", h.Cart.Toggle)
			r.Delete("/error", h.Cart.ClearError)
		})
		r.Post("/checkout", h.Checkout.Checkout)
		r.Get("/orders", h.Checkout.ListOrders)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", h.Auth.Session)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/validate", h.Auth.Validate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAuth(h.Authn))
			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{product_id}", h.Admin.UpdateProduct)
			r.Delete("/products/{product_id}", h.Admin.DeleteProduct)
			r.Post("/images", h.Admin.UploadImage)
			r.Delete("/images/{filename}", h.Admin.DeleteImage)
		})
	})

	return r
}
