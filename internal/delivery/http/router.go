package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/slumberhaus/storefront/internal/config"
	"github.com/slumberhaus/storefront/internal/delivery/http/handler"
	"github.com/slumberhaus/storefront/internal/delivery/http/middleware"
	"github.com/slumberhaus/storefront/internal/delivery/http/response"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	catalogHandler *handler.CatalogHandler
	productHandler *handler.ProductHandler
	reviewHandler  *handler.ReviewHandler
	cartHandler    *handler.CartHandler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	catalogHandler *handler.CatalogHandler,
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	cartHandler *handler.CartHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		catalogHandler: catalogHandler,
		productHandler: productHandler,
		reviewHandler:  reviewHandler,
		cartHandler:    cartHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-Session-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", rt.catalogHandler.ListProducts)
			r.Get("/filters", rt.catalogHandler.ListFilters)
			r.Get("/featured", rt.catalogHandler.ListFeatured)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/{id}", rt.productHandler.GetDetail)
			r.Get("/{id}/recommended", rt.productHandler.ListRecommended)
			r.Get("/{id}/reviews", rt.reviewHandler.ListByProduct)
			r.Post("/{id}/reviews", rt.reviewHandler.Create)
		})

		// Role enforcement (admin vs customer) is the auth collaborator's
		// job, applied as middleware upstream of this service.
		r.Route("/admin/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
			r.Post("/{id}/variants", rt.productHandler.CreateVariant)
			r.Put("/{id}/variants/{variantID}", rt.productHandler.UpdateVariant)
			r.Delete("/{id}/variants/{variantID}", rt.productHandler.DeleteVariant)
			r.Post("/{id}/images", rt.productHandler.AddImage)
			r.Delete("/{id}/images/{imageID}", rt.productHandler.RemoveImage)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.cartHandler.Get)
			r.Post("/items", rt.cartHandler.AddItem)
			r.Put("/items/{itemID}", rt.cartHandler.UpdateItem)
			r.Delete("/items/{itemID}", rt.cartHandler.RemoveItem)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
