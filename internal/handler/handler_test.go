package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-jewels/storefront/internal/cart"
	"github.com/velora-jewels/storefront/internal/catalog"
	"github.com/velora-jewels/storefront/internal/checkout"
)

// Response shapes, decoded with encoding/json to keep tests independent of
// the jx encoders under test.

type productJSON struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         int64    `json:"price"`
	OriginalPrice *int64   `json:"originalPrice"`
	Gemstone      *string  `json:"gemstone"`
	Image         string   `json:"image"`
	Featured      bool     `json:"featured"`
}

type listJSON struct {
	Products   []productJSON `json:"products"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

type cartItemJSON struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type cartJSON struct {
	Items      []cartItemJSON `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice int64          `json:"totalPrice"`
}

type errorJSON struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	products := []catalog.Product{
		{ID: 1, Name: "Eternal Solitaire Ring", Category: "rings", Price: decimal.NewFromInt(45999), OriginalPrice: price(52999), Gemstone: "Diamond", Image: "/images/1.jpg", Featured: true},
		{ID: 2, Name: "Gold Ring", Category: "rings", Price: decimal.NewFromInt(1500), Image: "/images/2.jpg"},
		{ID: 3, Name: "Heritage Kundan Necklace", Category: "necklaces", Price: decimal.NewFromInt(125000), Image: "/images/3.jpg"},
		{ID: 4, Name: "Classic Gold Hoops", Category: "earrings", Price: decimal.NewFromInt(6200), Image: "/images/4.jpg"},
		{ID: 5, Name: "Ruby Cluster Ring", Category: "rings", Price: decimal.NewFromInt(41300), Image: "/images/5.jpg"},
	}
	categories := []catalog.Category{
		{ID: "rings", Name: "Rings", Icon: "R"},
		{ID: "necklaces", Name: "Necklaces", Icon: "N"},
	}

	return New(
		Config{PageSize: 2, PreviewLimit: 3, SessionTTL: time.Hour},
		catalog.New(products, categories),
		cart.NewStore(time.Hour),
		checkout.NewComposer("", "918485918272"),
	)
}

// client drives the handler like a browser, carrying the session cookie
// between requests.
type client struct {
	t       *testing.T
	routes  http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, h *Handler) *client {
	return &client{t: t, routes: h.Routes()}
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.routes.ServeHTTP(rec, req)

	if len(c.cookies) == 0 {
		c.cookies = rec.Result().Cookies()
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestListProducts_FilterAndPaginate(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/products?category=rings&page=1&pageSize=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[listJSON](t, rec)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Products, 2)
	assert.Equal(t, 1, list.Products[0].ID)
	assert.Equal(t, 2, list.Products[1].ID)

	// Second page holds the remaining ring.
	rec = c.do(http.MethodGet, "/products?category=rings&page=2&pageSize=2", "")
	list = decode[listJSON](t, rec)
	require.Len(t, list.Products, 1)
	assert.Equal(t, 5, list.Products[0].ID)
}

func TestListProducts_WildcardMatchesUnfiltered(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	all := decode[listJSON](t, c.do(http.MethodGet, "/products?category=all&pageSize=48", ""))
	unfiltered := decode[listJSON](t, c.do(http.MethodGet, "/products?pageSize=48", ""))

	assert.Equal(t, unfiltered, all)
	assert.Equal(t, 5, all.Total)
}

func TestListProducts_PagePastEndIsEmpty(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/products?page=99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listJSON](t, rec)
	assert.Empty(t, list.Products)
	assert.Equal(t, 5, list.Total)
}

func TestPreviewProducts(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/products/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []productJSON `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 3)
	assert.Equal(t, 1, resp.Products[0].ID)
}

func TestGetProduct(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	p := decode[productJSON](t, rec)
	assert.Equal(t, "Eternal Solitaire Ring", p.Name)
	require.NotNil(t, p.OriginalPrice)
	assert.EqualValues(t, 52999, *p.OriginalPrice)
	require.NotNil(t, p.Gemstone)
	assert.Equal(t, "Diamond", *p.Gemstone)
}

func TestGetProduct_OmitsAbsentOptionalFields(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	p := decode[productJSON](t, c.do(http.MethodGet, "/products/2", ""))
	assert.Nil(t, p.OriginalPrice)
	assert.Nil(t, p.Gemstone)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	for _, target := range []string{"/products/99", "/products/abc"} {
		rec := c.do(http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		e := decode[errorJSON](t, rec)
		assert.Equal(t, 404, e.Code)
		assert.Equal(t, "product not found", e.Message)
	}
}

func TestCategories(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "rings", resp.Categories[0].ID)
}

func TestCartFlow(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	// Add the same product twice: one merged line, quantity 2.
	c.do(http.MethodPost, "/cart/items", `{"productId": 2}`)
	rec := c.do(http.MethodPost, "/cart/items", `{"productId": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[cartJSON](t, rec)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.EqualValues(t, 3000, state.Items[0].LineTotal)
	assert.Equal(t, 2, state.TotalItems)
	assert.EqualValues(t, 3000, state.TotalPrice)

	// A second product appends after the first.
	state = decode[cartJSON](t, c.do(http.MethodPost, "/cart/items", `{"productId": 3}`))
	require.Len(t, state.Items, 2)
	assert.Equal(t, 2, state.Items[0].ID)
	assert.Equal(t, 3, state.Items[1].ID)
	assert.EqualValues(t, 128000, state.TotalPrice)

	// Update quantity, then drive it to zero to remove the line.
	state = decode[cartJSON](t, c.do(http.MethodPatch, "/cart/items/2", `{"quantity": 5}`))
	assert.Equal(t, 5, state.Items[0].Quantity)

	state = decode[cartJSON](t, c.do(http.MethodPatch, "/cart/items/2", `{"quantity": 0}`))
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].ID)

	// Clear empties everything.
	state = decode[cartJSON](t, c.do(http.MethodDelete, "/cart", ""))
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.TotalItems)
	assert.EqualValues(t, 0, state.TotalPrice)
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodPost, "/cart/items", `{"productId": 99}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decode[errorJSON](t, rec)
	assert.Equal(t, 422, e.Code)
	assert.Contains(t, e.Message, "99")
}

func TestAddCartItem_BadBody(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	for _, body := range []string{``, `{`, `{"productId": "two"}`, `{}`} {
		rec := c.do(http.MethodPost, "/cart/items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestUpdateCartItem_MissingQuantity(t *testing.T) {
	c := newClient(t, newTestHandler(t))
	c.do(http.MethodPost, "/cart/items", `{"productId": 2}`)

	rec := c.do(http.MethodPatch, "/cart/items/2", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionIsolation(t *testing.T) {
	h := newTestHandler(t)
	alice := newClient(t, h)
	bob := newClient(t, h)

	alice.do(http.MethodPost, "/cart/items", `{"productId": 2}`)

	state := decode[cartJSON](t, bob.do(http.MethodGet, "/cart", ""))
	assert.Empty(t, state.Items)

	state = decode[cartJSON](t, alice.do(http.MethodGet, "/cart", ""))
	require.Len(t, state.Items, 1)
}

func TestCheckoutLink(t *testing.T) {
	c := newClient(t, newTestHandler(t))
	c.do(http.MethodPost, "/cart/items", `{"productId": 2}`)
	c.do(http.MethodPatch, "/cart/items/2", `{"quantity": 2}`)

	rec := c.do(http.MethodGet, "/cart/checkout-link", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		URL     string `json:"url"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Contains(t, resp.Message, "• Gold Ring x2 - ₹3,000")
	assert.Contains(t, resp.Message, "Total: ₹3,000")

	u, err := url.Parse(resp.URL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, resp.Message, u.Query().Get("text"))
}

func TestCheckoutLink_EmptyCartAfterClear(t *testing.T) {
	c := newClient(t, newTestHandler(t))
	c.do(http.MethodPost, "/cart/items", `{"productId": 3}`)
	c.do(http.MethodDelete, "/cart", "")

	rec := c.do(http.MethodGet, "/cart/checkout-link", "")
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Contains(t, resp.Message, "Total: ₹0")
	assert.NotContains(t, resp.Message, "•")
}

func TestInquiryLink(t *testing.T) {
	c := newClient(t, newTestHandler(t))

	rec := c.do(http.MethodGet, "/products/1/inquiry-link", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	u, err := url.Parse(resp.URL)
	require.NoError(t, err)
	msg := u.Query().Get("text")
	assert.Contains(t, msg, `"Eternal Solitaire Ring"`)
	assert.Contains(t, msg, "₹45,999")

	rec = c.do(http.MethodGet, "/products/99/inquiry-link", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImageBaseURL(t *testing.T) {
	h := New(
		Config{ImageBaseURL: "https://cdn.example.com"},
		catalog.New([]catalog.Product{{ID: 1, Name: "Ring", Category: "rings", Price: decimal.NewFromInt(100), Image: "/images/1.jpg"}}, nil),
		cart.NewStore(time.Hour),
		checkout.NewComposer("", "1"),
	)
	c := newClient(t, h)

	p := decode[productJSON](t, c.do(http.MethodGet, "/products/1", ""))
	assert.Equal(t, "https://cdn.example.com/images/1.jpg", p.Image)
}
