package ble

import (
	"context"
	"fmt"
	"time"
)

// ScanForPrinters scans for peripherals advertising any of the given printer
// service UUIDs, for at most timeout.
func ScanForPrinters(adapter Adapter, serviceUUIDs []string, timeout time.Duration) ([]Device, error) {
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ble: enable adapter: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	devices, err := adapter.Scan(ctx, serviceUUIDs)
	if err != nil {
		return nil, fmt.Errorf("ble: scan: %w", err)
	}
	return devices, nil
}
