// Package handler provides the HTTP API for GroupOrder Hub.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/metrics"
	"github.com/prn-tf/grouporder-hub/internal/service"
)

// Router assembles the HTTP API.
type Router struct {
	auth     *AuthHandler
	products *ProductHandler
	orders   *OrderHandler
	admin    *AdminHandler
	sessions *service.SessionService
	metrics  *metrics.Metrics
	demoMode bool
	logger   zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	SessionService *service.SessionService
	Metrics        *metrics.Metrics
	DemoMode       bool
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		auth:     config.AuthHandler,
		products: config.ProductHandler,
		orders:   config.OrderHandler,
		admin:    config.AdminHandler,
		sessions: config.SessionService,
		metrics:  config.Metrics,
		demoMode: config.DemoMode,
		logger:   config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(rt.logger))
	r.Use(Metrics(rt.metrics))
	r.Use(Authenticator(rt.sessions))

	demoGuard := DemoGuard(rt.demoMode)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.handleHealth)

		// Authentication
		r.With(demoGuard).Post("/register", rt.auth.HandleRegister)
		r.Post("/login", rt.auth.HandleLogin)
		r.Post("/logout", rt.auth.HandleLogout)
		r.Get("/user", rt.auth.HandleCurrentUser)

		// Catalog: reads are public, writes are admin-only
		r.Get("/products", rt.products.HandleList)
		r.Get("/products/{id}", rt.products.HandleGet)
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/products", rt.products.HandleCreate)
			r.Patch("/products/{id}", rt.products.HandleUpdate)
			r.Delete("/products/{id}", rt.products.HandleDelete)
		})

		// Group registry, readable by anyone logged in
		r.With(RequireUser).Get("/groups", rt.admin.HandleListGroups)

		// Member orders
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.With(demoGuard).Post("/orders", rt.orders.HandlePlace)
			r.Get("/orders", rt.orders.HandleListOwn)
			r.Get("/orders/{id}", rt.orders.HandleGet)
		})

		r.Route("/admin", func(r chi.Router) {
			// Order views for coordinators and admins
			r.Group(func(r chi.Router) {
				r.Use(RequireCoordinator)
				r.Get("/orders", rt.admin.HandleListOrders)
				r.Get("/orders/group/{groupName}", rt.admin.HandleListOrdersByGroup)
				r.Patch("/orders/{id}/status", rt.admin.HandleUpdateOrderStatus)
			})

			// Group registry management
			r.Group(func(r chi.Router) {
				r.Use(RequireUserAdmin)
				r.Put("/groups", rt.admin.HandleReplaceGroups)
				r.Post("/groups", rt.admin.HandleAddGroup)
				r.Delete("/groups/{name}", rt.admin.HandleRemoveGroup)
			})

			// Account management
			r.Group(func(r chi.Router) {
				r.Use(RequireUserAdmin)
				r.Get("/users", rt.admin.HandleListUsers)
				r.Post("/users", rt.admin.HandleCreateUser)
				r.Patch("/users/{id}", rt.admin.HandleUpdateUser)
				r.Delete("/users/{id}", rt.admin.HandleDeleteUser)
				r.Delete("/users/members", rt.admin.HandleDeleteMembers)
				r.Post("/users/promote", rt.admin.HandlePromote)
			})
		})
	})

	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
