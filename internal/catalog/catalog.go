// Package catalog holds the read-only product catalog: an ordered sequence of
// products plus the category records used by the filter UI. The catalog is
// loaded once at startup and never mutated afterwards, so it is safe to share
// across requests without locking.
package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// CategoryAll is the wildcard category selector matching every product.
const CategoryAll = "all"

// Product represents a single jewelry piece in the catalog. Prices are
// whole-rupee amounts. OriginalPrice is present only for discounted pieces and
// is always >= Price; Gemstone is empty for pieces without one.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Quantity      int              `json:"quantity"`
	Description   string           `json:"description"`
	Material      string           `json:"material"`
	Gemstone      string           `json:"gemstone"`
	Weight        string           `json:"weight"`
	Image         string           `json:"image"`
	Featured      bool             `json:"featured"`
}

// Category describes a product category for the filter UI.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Catalog is the immutable in-memory product catalog.
type Catalog struct {
	products   []Product
	categories []Category
}

// New builds a Catalog from already-decoded records. The input order of
// products is the catalog's display order.
func New(products []Product, categories []Category) *Catalog {
	return &Catalog{
		products:   products,
		categories: categories,
	}
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	return c.products
}

// Categories returns the category records in their configured order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// FindByID returns the first product whose id matches. A missing id is a
// regular outcome reported as ErrNotFound, never a fault.
func (c *Catalog) FindByID(id int) (*Product, error) {
	for i := range c.products {
		if c.products[i].ID == id {
			return &c.products[i], nil
		}
	}
	return nil, ErrNotFound
}

// FilterByCategory returns the products whose category matches the selector,
// preserving catalog order. The CategoryAll wildcard returns the full catalog.
func (c *Catalog) FilterByCategory(category string) []Product {
	if category == "" || category == CategoryAll {
		return c.products
	}
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Preview returns the first limit products, used by the home-page preview.
// It never paginates; a limit beyond the catalog size returns everything.
func (c *Catalog) Preview(limit int) []Product {
	if limit < 0 {
		limit = 0
	}
	if limit > len(c.products) {
		limit = len(c.products)
	}
	return c.products[:limit]
}
