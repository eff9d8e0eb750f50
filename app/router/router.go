package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/api"
	"github.com/andreysx/storefront/app/auth"
	"github.com/andreysx/storefront/app/cart"
	"github.com/andreysx/storefront/app/catalog"
	"github.com/andreysx/storefront/app/categories"
	"github.com/andreysx/storefront/app/reviews"
	"github.com/andreysx/storefront/app/users"
	"github.com/andreysx/storefront/metrics"
	"github.com/andreysx/storefront/models"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Cart       *cart.CartHandler
	Reviews    *reviews.ReviewHandler
	Users      *users.UserHandler
}

// NewRouter mounts all routes. Reads are public; writes sit behind the auth
// middleware with per-route role guards.
func NewRouter(h Handlers, tokens *auth.Tokens, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(requestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/users", h.Users.HandleRegister)
	r.Post("/users/login", h.Users.HandleLogin)

	r.Get("/products", h.Catalog.HandleList)
	r.Get("/products/{id}", h.Catalog.HandleGetProduct)

	r.Get("/categories", h.Categories.HandleGetAll)

	r.Get("/reviews", h.Reviews.HandleGetAll)
	r.Get("/reviews/products/{productID}", h.Reviews.HandleGetByProduct)

	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)

		r.With(auth.RequireRole(models.RoleAdmin)).Post("/users/admin", h.Users.HandleCreateAdmin)
		r.With(auth.RequireRole(models.RoleAdmin)).Patch("/users/{id}/role", h.Users.HandleUpdateRole)

		r.With(auth.RequireRole(models.RoleSeller, models.RoleAdmin)).Post("/products", h.Catalog.HandleCreate)
		r.With(auth.RequireRole(models.RoleSeller, models.RoleAdmin)).Put("/products/{id}", h.Catalog.HandleUpdate)
		r.With(auth.RequireRole(models.RoleSeller, models.RoleAdmin)).Delete("/products/{id}", h.Catalog.HandleDelete)
		r.With(auth.RequireRole(models.RoleSeller, models.RoleAdmin)).Post("/products/{id}/image", h.Catalog.HandleUploadImage)

		r.With(auth.RequireRole(models.RoleAdmin)).Post("/categories", h.Categories.HandleCreate)
		r.With(auth.RequireRole(models.RoleAdmin)).Put("/categories/{id}", h.Categories.HandleUpdate)
		r.With(auth.RequireRole(models.RoleAdmin)).Delete("/categories/{id}", h.Categories.HandleDelete)

		r.Get("/cart", h.Cart.HandleGet)
		r.Post("/cart/items", h.Cart.HandleAddItem)
		r.Put("/cart/items/{productID}", h.Cart.HandleUpdateItem)
		r.Delete("/cart/items/{productID}", h.Cart.HandleRemoveItem)
		r.Delete("/cart", h.Cart.HandleClear)

		r.With(auth.RequireRole(models.RoleBuyer)).Post("/reviews", h.Reviews.HandleCreate)
		r.Delete("/reviews/{id}", h.Reviews.HandleDelete)
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
