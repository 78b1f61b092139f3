// Package cart implements the session-scoped shopping cart: an ordered set of
// product snapshots with quantities and derived totals, plus the Store that
// maps browser sessions to carts.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// ProductRef is the catalog snapshot captured when a product is added to a
// cart. Name, price and image are frozen at add time and do not track later
// catalog changes.
type ProductRef struct {
	ID    int
	Name  string
	Price decimal.Decimal
	Image string
}

// Item is one cart line: a product snapshot with a positive quantity. Items
// with quantity <= 0 never exist; mutations that would produce one remove the
// line instead.
type Item struct {
	ProductRef
	Quantity int
}

// LineTotal returns price * quantity for this line.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the items of a single session in insertion order. It starts
// empty. All methods are safe for concurrent use; each individual mutation
// runs to completion before the next is observed.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts the referenced product into the cart. If a line with the same id
// already exists its quantity is incremented by 1; otherwise a new line with
// quantity 1 is appended. Add always succeeds.
func (c *Cart) Add(ref ProductRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(ref.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, Item{ProductRef: ref, Quantity: 1})
}

// UpdateQuantity sets the quantity of the identified line. A quantity <= 0
// removes the line. An unknown id is a silent no-op.
func (c *Cart) UpdateQuantity(id, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.remove(i)
		return
	}
	c.items[i].Quantity = quantity
}

// Remove deletes the line with the given id. An unknown id is a silent no-op.
// Re-adding a removed product places it at the end of the cart.
func (c *Cart) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.remove(i)
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems returns the sum of all line quantities. It is derived from the
// line sequence on every call, never stored.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalItems(c.items)
}

// TotalPrice returns the sum of price * quantity over all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalPrice(c.items)
}

// TotalItems returns the sum of line quantities over an item snapshot.
// Callers rendering a snapshot derive its totals from the same slice so the
// counts always agree with the lines shown.
func TotalItems(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price * quantity over an item snapshot.
func TotalPrice(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// index returns the position of the line with the given id, or -1.
// Caller must hold c.mu.
func (c *Cart) index(id int) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// remove deletes the line at position i, keeping insertion order of the rest.
// Caller must hold c.mu.
func (c *Cart) remove(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
