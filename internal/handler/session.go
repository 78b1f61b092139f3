package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velora-jewels/storefront/internal/cart"
)

// sessionCart resolves the cart for the request's session, minting a new
// session cookie on first contact. The cookie is host-scoped and HttpOnly;
// losing it simply yields a fresh empty cart.
func (h *Handler) sessionCart(w http.ResponseWriter, r *http.Request) *cart.Cart {
	id := ""
	if c, err := r.Cookie(h.cfg.SessionCookie); err == nil {
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			id = c.Value
		}
	}

	if id == "" {
		id = uuid.New().String()
		cookie := &http.Cookie{
			Name:     h.cfg.SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if h.cfg.SessionTTL > 0 {
			cookie.MaxAge = int(h.cfg.SessionTTL.Seconds())
		}
		http.SetCookie(w, cookie)
	}

	return h.carts.Get(id)
}
