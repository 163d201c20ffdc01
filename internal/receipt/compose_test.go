package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(amount float64, currencyCode string) string {
	return fmt.Sprintf("$%.2f", amount)
}

func baseOrder() OrderSummary {
	return OrderSummary{
		OrderNumber:  "ORD-1001",
		PlacedAt:     time.Date(2026, 3, 14, 18, 45, 0, 0, time.UTC),
		CurrencyCode: "USD",
		BranchName:   "Harbor Grill",
		Items: []LineItem{
			{Name: "Fish & Chips", Quantity: 1, UnitPrice: 12.00},
			{Name: "Lemonade", Quantity: 2, UnitPrice: 4.00},
		},
		Charges: Charges{Subtotal: 20.00, Tax: 2.00, Total: 22.00},
	}
}

// composeText returns the stream as a string so tests can search it; the
// embedded ESC/POS control bytes never collide with the labels asserted on.
func composeText(t *testing.T, order OrderSummary) string {
	t.Helper()
	return string(Compose(order, usd))
}

func TestJustifyPadding(t *testing.T) {
	cases := []struct {
		left, right string
		wantPad     int
	}{
		{"Subtotal:", "$20.00", 32 - 9 - 6},
		{"", "", 32},
		{"a", "b", 30},
		{strings.Repeat("x", 30), "yy", 1},        // exactly full needs min gap
		{strings.Repeat("x", 40), "$9,999.99", 1}, // overflow keeps 1 space
	}
	for _, tc := range cases {
		got := justify(tc.left, tc.right)
		assert.Equal(t, tc.left+strings.Repeat(" ", tc.wantPad)+tc.right, got,
			"justify(%q, %q)", tc.left, tc.right)
	}
}

func TestComposeFramesStream(t *testing.T) {
	out := Compose(baseOrder(), usd)
	assert.True(t, bytes.HasPrefix(out, []byte{0x1B, 0x40}), "stream must start with ESC @ init")
	assert.True(t, bytes.HasSuffix(out, []byte{0x1D, 0x56, 0x42, 0x00}), "stream must end with the paper cut")
}

func TestComposeEndToEndScenario(t *testing.T) {
	// Two items, subtotal 20.00, tax 2.00, total 22.00, no optional blocks.
	text := composeText(t, baseOrder())

	assert.Contains(t, text, "Harbor Grill")
	assert.Contains(t, text, "Order #: ORD-1001")
	assert.Contains(t, text, "1x Fish & Chips")
	assert.Contains(t, text, "2x Lemonade")
	assert.Contains(t, text, "Subtotal:")
	assert.Contains(t, text, "Tax:")
	assert.NotContains(t, text, "Delivery:")
	assert.NotContains(t, text, "Service:")
	assert.NotContains(t, text, "Tip:")
	assert.NotContains(t, text, "Discount:")
	assert.NotContains(t, text, "ALLERGENS:")
	assert.NotContains(t, text, "SPECIAL INSTRUCTIONS:")

	require.Equal(t, 1, strings.Count(text, "TOTAL:"), "exactly one totals line")
	totalLine := lineContaining(t, text, "TOTAL:")
	assert.Contains(t, totalLine, "$22.00")
}

func TestComposeRendersSuppliedTotalVerbatim(t *testing.T) {
	// A total inconsistent with its components is rendered as supplied,
	// never recomputed.
	order := baseOrder()
	order.Charges.Total = 99.99

	totalLine := lineContaining(t, composeText(t, order), "TOTAL:")
	assert.Contains(t, totalLine, "$99.99")
	assert.NotContains(t, totalLine, "$22.00")
}

func TestComposeOptionalChargeGuards(t *testing.T) {
	order := baseOrder()
	order.Charges = Charges{
		Subtotal: 20.00,
		Delivery: 3.00,
		Service:  1.50,
		Tax:      2.00,
		Tip:      5.00,
		Discount: 2.50,
		Total:    29.00,
	}
	text := composeText(t, order)

	assert.Contains(t, text, "Delivery:")
	assert.Contains(t, text, "Service:")
	assert.Contains(t, text, "Tip:")
	discountLine := lineContaining(t, text, "Discount:")
	assert.Contains(t, discountLine, "-$2.50", "discount is rendered negative")
}

func TestComposeSubtotalAlwaysPresent(t *testing.T) {
	order := baseOrder()
	order.Charges = Charges{Total: 0}
	assert.Contains(t, composeText(t, order), "Subtotal:")
}

func TestComposeModifiers(t *testing.T) {
	order := baseOrder()
	order.Items = []LineItem{{
		Name:      "Burger",
		Quantity:  1,
		UnitPrice: 10.00,
		Modifiers: []Modifier{
			{Name: "Extra Cheese", UnitPrice: 0.50, Quantity: 2},
			{Name: "Bacon", UnitPrice: 1.50, Quantity: 1},
		},
	}}
	text := composeText(t, order)

	cheese := lineContaining(t, text, "Extra Cheese")
	assert.True(t, strings.HasPrefix(cheese, "  + "), "modifier indented two spaces with + prefix")
	assert.Contains(t, cheese, "(x2)", "quantity suffix only above 1")
	assert.Contains(t, cheese, "$1.00", "modifier price multiplied by quantity")

	bacon := lineContaining(t, text, "Bacon")
	assert.NotContains(t, bacon, "(x1)")
	assert.Contains(t, bacon, "$1.50")
}

func TestComposeCustomizations(t *testing.T) {
	order := baseOrder()
	order.Items = []LineItem{{
		Name:           "Steak",
		Quantity:       1,
		UnitPrice:      25.00,
		Customizations: []Customization{{Name: "Doneness", Option: "Medium Rare"}},
	}}
	text := composeText(t, order)

	line := lineContaining(t, text, "Doneness")
	assert.Equal(t, "  * Doneness: Medium Rare", line)
}

func TestComposeAllergensBlock(t *testing.T) {
	order := baseOrder()
	order.Allergens = []string{"nuts", "gluten", "shellfish"}
	text := composeText(t, order)

	assert.Contains(t, text, "ALLERGENS:")
	assert.Contains(t, text, "nuts, gluten, shellfish")
}

func TestComposeSpecialInstructionsTrimmed(t *testing.T) {
	order := baseOrder()
	order.SpecialInstructions = "   \t  "
	assert.NotContains(t, composeText(t, order), "SPECIAL INSTRUCTIONS:",
		"whitespace-only instructions are omitted")

	order.SpecialInstructions = "  ring the bell twice  "
	text := composeText(t, order)
	assert.Contains(t, text, "SPECIAL INSTRUCTIONS:")
	assert.Contains(t, text, "ring the bell twice")
}

func TestComposeHeaderFallback(t *testing.T) {
	order := baseOrder()
	order.BranchName = "  "
	assert.Contains(t, composeText(t, order), "RECEIPT")

	custom := Layout{HeaderFallback: "VENDORVIEW"}
	out := string(custom.Compose(order, usd))
	assert.Contains(t, out, "VENDORVIEW")
	assert.NotContains(t, out, "RECEIPT")
}

func TestComposeFooterText(t *testing.T) {
	text := composeText(t, baseOrder())
	assert.Contains(t, text, "Thank you for your order!")

	custom := Layout{FooterText: "See you soon"}
	assert.Contains(t, string(custom.Compose(baseOrder(), usd)), "See you soon")
}

func TestComposeMetadataGuards(t *testing.T) {
	order := baseOrder()
	order.OrderType = "Delivery"
	order.LocationName = "Pier 7"
	text := composeText(t, order)
	assert.Contains(t, text, "Type: Delivery")
	assert.Contains(t, text, "Location: Pier 7")

	order.OrderType = ""
	order.LocationName = ""
	text = composeText(t, order)
	assert.NotContains(t, text, "Type:")
	assert.NotContains(t, text, "Location:")
}

func TestComposeUsesInjectedFormatter(t *testing.T) {
	order := baseOrder()
	order.CurrencyCode = "EUR"
	var seenCodes []string
	format := func(amount float64, code string) string {
		seenCodes = append(seenCodes, code)
		return fmt.Sprintf("%.2f %s", amount, code)
	}

	text := string(Compose(order, format))
	assert.Contains(t, text, "22.00 EUR")
	for _, code := range seenCodes {
		assert.Equal(t, "EUR", code, "every amount is formatted with the order's currency code")
	}
}

// lineContaining returns the first receipt line containing substr.
func lineContaining(t *testing.T, text, substr string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q in output", substr)
	return ""
}
