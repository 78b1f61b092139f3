package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/velora-jewels/storefront/internal/catalog"
)

// listProducts serves the collection view: an optionally category-filtered,
// paginated slice of the catalog. An out-of-range page is a valid request
// that yields an empty product list.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := h.cfg.PageSize
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = min(n, h.cfg.MaxPageSize)
		}
	}

	result := h.catalog.Search(catalog.Query{
		Category: q.Get("category"),
		Page:     page,
		PageSize: pageSize,
	})

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("products", func(e *jx.Encoder) { h.encodeProducts(e, result.Products) })
			e.Field("total", func(e *jx.Encoder) { e.Int(result.Total) })
			e.Field("page", func(e *jx.Encoder) { e.Int(result.Page) })
			e.Field("pageSize", func(e *jx.Encoder) { e.Int(result.PageSize) })
			e.Field("totalPages", func(e *jx.Encoder) { e.Int(result.TotalPages) })
		})
	})
}

// previewProducts serves the home-page preview: the first N catalog products,
// never paginated.
func (h *Handler) previewProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Preview(h.cfg.PreviewLimit)
	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("products", func(e *jx.Encoder) { h.encodeProducts(e, products) })
		})
	})
}

// getProduct serves the detail view. A missing or malformed id renders the
// not-found state rather than a fault.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProduct(w, r)
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p)
	})
}

// inquiryLink serves the detail view's direct-order action: a WhatsApp link
// asking about a single product, independent of cart state.
func (h *Handler) inquiryLink(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolveProduct(w, r)
	if !ok {
		return
	}
	link := h.composer.InquiryLink(p.Name, p.Price)
	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("url", func(e *jx.Encoder) { e.Str(link) })
		})
	})
}

// listCategories serves the filter UI's category records.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("categories", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range h.catalog.Categories() {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
							e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
							e.Field("icon", func(e *jx.Encoder) { e.Str(c.Icon) })
						})
					}
				})
			})
		})
	})
}

// resolveProduct parses the productID route param and looks it up in the
// catalog, writing the 404 state on any miss.
func (h *Handler) resolveProduct(w http.ResponseWriter, r *http.Request) (*catalog.Product, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "product not found")
		return nil, false
	}
	p, err := h.catalog.FindByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return nil, false
		}
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return p, true
}

func (h *Handler) encodeProducts(e *jx.Encoder, products []catalog.Product) {
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			h.encodeProduct(e, p)
		}
	})
}

// encodeProduct writes one product object. Optional fields (originalPrice,
// gemstone) are omitted when absent, preserving the presence distinction the
// detail view renders conditionally.
func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", func(e *jx.Encoder) { encodeAmount(e, p.Price) })
		if p.OriginalPrice != nil {
			e.Field("originalPrice", func(e *jx.Encoder) { encodeAmount(e, *p.OriginalPrice) })
		}
		e.Field("quantity", func(e *jx.Encoder) { e.Int(p.Quantity) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("material", func(e *jx.Encoder) { e.Str(p.Material) })
		if p.Gemstone != "" {
			e.Field("gemstone", func(e *jx.Encoder) { e.Str(p.Gemstone) })
		}
		e.Field("weight", func(e *jx.Encoder) { e.Str(p.Weight) })
		e.Field("image", func(e *jx.Encoder) { e.Str(h.cfg.ImageBaseURL + p.Image) })
		e.Field("featured", func(e *jx.Encoder) { e.Bool(p.Featured) })
	})
}
