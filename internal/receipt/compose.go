package receipt

import (
	"bytes"
	"fmt"
	"strings"
)

// LineWidth is the printable character width of the target paper (58mm roll,
// standard font).
const LineWidth = 32

// Layout holds the texts the composer cannot derive from the order itself.
type Layout struct {
	// HeaderFallback is printed as the header when the order carries no
	// branch name.
	HeaderFallback string
	// FooterText is the centered closing line.
	FooterText string
}

// DefaultLayout is the layout used by Compose.
var DefaultLayout = Layout{
	HeaderFallback: "RECEIPT",
	FooterText:     "Thank you for your order!",
}

// Compose serializes the order using DefaultLayout.
func Compose(order OrderSummary, format CurrencyFormatter) []byte {
	return DefaultLayout.Compose(order, format)
}

// Compose serializes the order into an ESC/POS byte stream: header, order
// metadata, itemized body, totals, optional allergen and instruction blocks,
// footer, and paper cut. Pure function of its inputs.
func (l Layout) Compose(order OrderSummary, format CurrencyFormatter) []byte {
	if l.HeaderFallback == "" {
		l.HeaderFallback = DefaultLayout.HeaderFallback
	}
	if l.FooterText == "" {
		l.FooterText = DefaultLayout.FooterText
	}

	money := func(amount float64) string {
		return format(amount, order.CurrencyCode)
	}

	var buf bytes.Buffer
	buf.Write(escInit)

	// Header: centered, enlarged branch name.
	header := strings.TrimSpace(order.BranchName)
	if header == "" {
		header = l.HeaderFallback
	}
	buf.Write(alignCenter)
	buf.Write(sizeDouble)
	buf.Write(boldOn)
	writeLine(&buf, header)
	buf.Write(boldOff)
	buf.Write(sizeNormal)
	buf.Write(alignLeft)
	writeRule(&buf)

	// Order metadata.
	buf.Write(boldOn)
	writeLine(&buf, "Order #: "+order.OrderNumber)
	buf.Write(boldOff)
	writeLine(&buf, "Date: "+order.PlacedAt.Format("Jan 02, 2006 3:04 PM"))
	if order.OrderType != "" {
		writeLine(&buf, "Type: "+order.OrderType)
	}
	if order.LocationName != "" {
		writeLine(&buf, "Location: "+order.LocationName)
	}
	writeRule(&buf)
	writeLine(&buf, "")

	// Itemized body.
	writeLine(&buf, "ITEMS:")
	writeRule(&buf)
	for _, item := range order.Items {
		left := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		writeLine(&buf, justify(left, money(item.UnitPrice)))
		for _, mod := range item.Modifiers {
			name := mod.Name
			if mod.Quantity > 1 {
				name = fmt.Sprintf("%s (x%d)", name, mod.Quantity)
			}
			price := money(mod.UnitPrice * float64(mod.Quantity))
			writeLine(&buf, justify("  + "+name, price))
		}
		for _, c := range item.Customizations {
			writeLine(&buf, fmt.Sprintf("  * %s: %s", c.Name, c.Option))
		}
	}

	// Totals. Zero-valued optional charges are omitted; Total is rendered as
	// supplied by the caller.
	writeRule(&buf)
	writeLine(&buf, justify("Subtotal:", money(order.Charges.Subtotal)))
	if order.Charges.Delivery > 0 {
		writeLine(&buf, justify("Delivery:", money(order.Charges.Delivery)))
	}
	if order.Charges.Service > 0 {
		writeLine(&buf, justify("Service:", money(order.Charges.Service)))
	}
	if order.Charges.Tax > 0 {
		writeLine(&buf, justify("Tax:", money(order.Charges.Tax)))
	}
	if order.Charges.Tip > 0 {
		writeLine(&buf, justify("Tip:", money(order.Charges.Tip)))
	}
	if order.Charges.Discount > 0 {
		writeLine(&buf, justify("Discount:", "-"+money(order.Charges.Discount)))
	}
	writeRule(&buf)
	buf.Write(boldOn)
	buf.Write(sizeDouble)
	writeLine(&buf, justify("TOTAL:", money(order.Charges.Total)))
	buf.Write(sizeNormal)
	buf.Write(boldOff)
	writeRule(&buf)

	if len(order.Allergens) > 0 {
		buf.Write(boldOn)
		writeLine(&buf, "ALLERGENS:")
		buf.Write(boldOff)
		writeLine(&buf, strings.Join(order.Allergens, ", "))
		writeRule(&buf)
	}

	if instr := strings.TrimSpace(order.SpecialInstructions); instr != "" {
		buf.Write(boldOn)
		writeLine(&buf, "SPECIAL INSTRUCTIONS:")
		buf.Write(boldOff)
		writeLine(&buf, instr)
		writeRule(&buf)
	}

	// Footer.
	buf.Write(alignCenter)
	writeLine(&buf, l.FooterText)
	writeLine(&buf, "")
	buf.Write(alignLeft)
	buf.Write(paperCut)

	return buf.Bytes()
}

// justify pads left and right apart to fill LineWidth, with at least one
// space of separation. Overflowing lines are kept intact: truncating
// financial figures is a worse failure than a misaligned line.
func justify(left, right string) string {
	pad := LineWidth - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func writeLine(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte('\n')
}

func writeRule(buf *bytes.Buffer) {
	writeLine(buf, strings.Repeat("=", LineWidth))
}
