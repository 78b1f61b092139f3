package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/velora-jewels/storefront/internal/cart"
	"github.com/velora-jewels/storefront/internal/catalog"
	"github.com/velora-jewels/storefront/internal/checkout"
)

// getCart serves the cart drawer: items in insertion order plus derived
// totals.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, h.sessionCart(w, r))
}

// addCartItem resolves the referenced product and adds its snapshot to the
// session cart: an existing line gains quantity 1, a new line is appended.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var productID int
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			id, err := d.Int()
			if err != nil {
				return err
			}
			productID = id
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if productID == 0 {
		respondError(w, r, http.StatusBadRequest, "productId required")
		return
	}

	p, err := h.catalog.FindByID(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, r, http.StatusUnprocessableEntity, "product "+strconv.Itoa(productID)+" not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	c := h.sessionCart(w, r)
	c.Add(cart.ProductRef{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
	})
	h.respondCart(w, r, c)
}

// updateCartItem sets the quantity of one cart line. A quantity <= 0 removes
// the line; an id not present in the cart is a silent no-op.
func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid product id")
		return
	}

	quantity := 0
	hasQuantity := false
	err = decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "quantity":
			q, err := d.Int()
			if err != nil {
				return err
			}
			quantity, hasQuantity = q, true
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil || !hasQuantity {
		respondError(w, r, http.StatusBadRequest, "quantity required")
		return
	}

	c := h.sessionCart(w, r)
	c.UpdateQuantity(id, quantity)
	h.respondCart(w, r, c)
}

// removeCartItem deletes one cart line; a missing id is a silent no-op.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid product id")
		return
	}

	c := h.sessionCart(w, r)
	c.Remove(id)
	h.respondCart(w, r, c)
}

// clearCart empties the session cart unconditionally.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)
	c.Clear()
	h.respondCart(w, r, c)
}

// checkoutLink composes the order message for the current cart and returns
// the WhatsApp deep link carrying it. An empty cart still composes a link
// with a zero total.
func (h *Handler) checkoutLink(w http.ResponseWriter, r *http.Request) {
	items := h.sessionCart(w, r).Items()
	total := cart.TotalPrice(items)

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("url", func(e *jx.Encoder) { e.Str(h.composer.OrderLink(items, total)) })
			e.Field("message", func(e *jx.Encoder) { e.Str(checkout.OrderMessage(items, total)) })
		})
	})
}

// respondCart writes the cart state shared by all cart endpoints. Totals are
// derived from the one item snapshot taken here, so the response is internally
// consistent even when the same session mutates the cart concurrently.
func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	items := c.Items()
	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, item := range items {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Int(item.ID) })
							e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
							e.Field("price", func(e *jx.Encoder) { encodeAmount(e, item.Price) })
							e.Field("image", func(e *jx.Encoder) { e.Str(h.cfg.ImageBaseURL + item.Image) })
							e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
							e.Field("lineTotal", func(e *jx.Encoder) { encodeAmount(e, item.LineTotal()) })
						})
					}
				})
			})
			e.Field("totalItems", func(e *jx.Encoder) { e.Int(cart.TotalItems(items)) })
			e.Field("totalPrice", func(e *jx.Encoder) { encodeAmount(e, cart.TotalPrice(items)) })
		})
	})
}
