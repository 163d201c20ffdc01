// Package receipt turns an order summary into an ESC/POS byte stream ready
// for chunked transmission to a thermal printer. Composition is pure: the
// order value is never mutated and no I/O happens here.
package receipt

import "time"

// CurrencyFormatter renders a monetary amount for the given ISO currency
// code. The composer never hardcodes a currency symbol; the business layer
// supplies this function.
type CurrencyFormatter func(amount float64, currencyCode string) string

// Modifier is a priced add-on to a line item.
type Modifier struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Customization is an unpriced option choice on a line item.
type Customization struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// LineItem is one ordered item with its modifiers and customizations.
type LineItem struct {
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      float64         `json:"unitPrice"`
	Modifiers      []Modifier      `json:"modifiers,omitempty"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// Charges are the aggregate amounts as computed by the business layer. The
// composer renders Total verbatim; it never recomputes it from the parts.
type Charges struct {
	Subtotal float64 `json:"subtotal"`
	Delivery float64 `json:"delivery"`
	Service  float64 `json:"service"`
	Tax      float64 `json:"tax"`
	Tip      float64 `json:"tip"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// OrderSummary is the fully resolved order handed in by the business layer.
// Immutable once passed to Compose.
type OrderSummary struct {
	OrderNumber         string     `json:"orderNumber"`
	PlacedAt            time.Time  `json:"placedAt"`
	CurrencyCode        string     `json:"currencyCode"`
	OrderType           string     `json:"orderType,omitempty"`
	BranchName          string     `json:"branchName,omitempty"`
	LocationName        string     `json:"locationName,omitempty"`
	Items               []LineItem `json:"items"`
	Charges             Charges    `json:"charges"`
	Allergens           []string   `json:"allergens,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
}
