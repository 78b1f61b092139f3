// Package checkout composes human-readable order messages and the WhatsApp
// deep links that carry them. Composition is pure: it reads cart or product
// data and produces strings, with no error conditions.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velora-jewels/storefront/internal/cart"
	"github.com/velora-jewels/storefront/internal/money"
)

// DefaultBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me"

// Composer builds order and inquiry deep links for a fixed recipient.
type Composer struct {
	baseURL string
	number  string
}

// NewComposer returns a Composer targeting the given recipient number. An
// empty baseURL falls back to DefaultBaseURL.
func NewComposer(baseURL, number string) Composer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Composer{
		baseURL: strings.TrimRight(baseURL, "/"),
		number:  number,
	}
}

// OrderMessage renders the full order text: a greeting, one bullet per cart
// line ("• {name} x{qty} - ₹{line total}"), the bolded total, and a closing
// note. An empty cart produces no bullets and a ₹0 total.
func OrderMessage(items []cart.Item, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("Hi! I'd like to place an order:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s x%d - %s\n", item.Name, item.Quantity, money.Format(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\n*Total: %s*\n\nPlease confirm availability and payment details.", money.Format(total))
	return b.String()
}

// InquiryMessage renders the single-product inquiry sent from the detail
// view. It is independent of any cart state.
func InquiryMessage(name string, price decimal.Decimal) string {
	return fmt.Sprintf("Hi! I'm interested in purchasing the %q (%s). Please share more details.",
		name, money.Format(price))
}

// OrderLink returns the deep link carrying OrderMessage for the given cart.
func (c Composer) OrderLink(items []cart.Item, total decimal.Decimal) string {
	return c.link(OrderMessage(items, total))
}

// InquiryLink returns the deep link carrying InquiryMessage for one product.
func (c Composer) InquiryLink(name string, price decimal.Decimal) string {
	return c.link(InquiryMessage(name, price))
}

// link appends the percent-encoded message to the recipient endpoint.
func (c Composer) link(message string) string {
	return c.baseURL + "/" + c.number + "?text=" + encodeComponent(message)
}

// encodeComponent percent-encodes a query component, keeping spaces as %20.
// Messaging apps do not reliably decode '+' back into a space.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
