// Package handler exposes the storefront over HTTP: catalog browsing, the
// session cart, and WhatsApp checkout links. Handlers translate between the
// JSON surface and the catalog/cart/checkout packages.
package handler

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velora-jewels/storefront/internal/cart"
	"github.com/velora-jewels/storefront/internal/catalog"
	"github.com/velora-jewels/storefront/internal/checkout"
)

// Config holds the non-dependency knobs of the HTTP surface.
type Config struct {
	// ImageBaseURL is prepended to relative product image paths in responses.
	ImageBaseURL string
	// PageSize is the default collection page size.
	PageSize int
	// MaxPageSize caps client-requested page sizes.
	MaxPageSize int
	// PreviewLimit is the home-page preview length.
	PreviewLimit int
	// SessionCookie names the cart session cookie.
	SessionCookie string
	// SessionTTL bounds the cookie lifetime; it matches the cart store TTL.
	SessionTTL time.Duration
}

// Handler serves the storefront API. The catalog is read-only; carts are
// resolved per request from the injected session store.
type Handler struct {
	cfg      Config
	catalog  *catalog.Catalog
	carts    *cart.Store
	composer checkout.Composer
}

// New constructs a Handler. Zero config values get working defaults.
func New(cfg Config, cat *catalog.Catalog, carts *cart.Store, composer checkout.Composer) *Handler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 12
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 48
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = 8
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "velora_cart"
	}
	return &Handler{
		cfg:      cfg,
		catalog:  cat,
		carts:    carts,
		composer: composer,
	}
}

// Routes returns the chi router for the API surface; the server mounts it
// under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/featured", h.previewProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/products/{productID}/inquiry-link", h.inquiryLink)
	r.Get("/categories", h.listCategories)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Get("/checkout-link", h.checkoutLink)
		r.Post("/items", h.addCartItem)
		r.Patch("/items/{productID}", h.updateCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
	})

	return r
}
