package printer

import (
	"context"
	"fmt"

	"github.com/asammad48/vendorview-printer/internal/receipt"
)

// PrintReceipt composes the order into a printer byte stream and delivers it
// over the chunked transport. A print while another is in flight is refused
// with ErrPrintInFlight. If no live session exists, one inline reconnect is
// attempted before failing with ErrNotConnected. The transport's result is
// returned unchanged: a single outcome for the whole receipt, with no notion
// of partial success.
func (m *Manager) PrintReceipt(ctx context.Context, order receipt.OrderSummary) error {
	if !m.printMu.TryLock() {
		return ErrPrintInFlight
	}
	defer m.printMu.Unlock()

	if !m.IsActivelyConnected() {
		if err := m.reconnect(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
	}

	data := m.layout.Compose(order, m.format)
	return m.tr.write(ctx, data)
}
