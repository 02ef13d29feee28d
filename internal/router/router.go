package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"clothing-store/internal/handler"
	"clothing-store/internal/metrics"
	"clothing-store/internal/middleware"
	"clothing-store/internal/model"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Product   *handler.ProductHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Inventory *handler.InventoryHandler
	User      *handler.UserHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, m *metrics.Metrics, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth -> Identity
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.Identity(logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.User.Register)

		r.Get("/products", h.Product.GetAll)
		r.Get("/products/{id}", h.Product.GetByID)

		r.Get("/cart", h.Cart.Get)
		r.Post("/cart/items", h.Cart.AddItem)
		r.Put("/cart/items/{itemId}", h.Cart.UpdateItem)
		r.Delete("/cart/items/{itemId}", h.Cart.RemoveItem)

		r.Post("/orders/checkout", h.Order.Checkout)
		r.Get("/orders/me", h.Order.GetMine)
		r.Get("/orders/{id}", h.Order.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get("/orders", h.Order.ListAll)
			r.Put("/orders/{id}/status/{statusId}", h.Order.UpdateStatus)

			r.Get("/inventory-logs", h.Inventory.List)
			r.Post("/inventory-logs", h.Inventory.Adjust)
			r.Get("/variants/{id}/inventory-logs", h.Inventory.ListVariant)
		})
	})

	return r
}
