// Command vvprint connects to a BLE thermal receipt printer and prints an
// order. It is the operational harness around the printer client: scan for
// printers, pick one interactively, print an order from a JSON file or a
// built-in sample.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asammad48/vendorview-printer/internal/ble"
	"github.com/asammad48/vendorview-printer/internal/config"
	"github.com/asammad48/vendorview-printer/internal/printer"
	"github.com/asammad48/vendorview-printer/internal/receipt"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/vendorview-printer/config.yaml)")
	orderPath := flag.String("order", "", "path to an order JSON file (default: built-in sample order)")
	scanOnly := flag.Bool("scan", false, "scan for printers and exit")
	forget := flag.Bool("forget", false, "clear the saved printer and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	setLogLevel(cfg.LogLevel)

	adapter := ble.NewNativeAdapter()

	if *scanOnly {
		scanTimeout := time.Duration(cfg.Scan.TimeoutSeconds) * time.Second
		devices, err := ble.ScanForPrinters(adapter, printer.ProfileServiceUUIDs(), scanTimeout)
		if err != nil {
			log.Fatalf("scan: %v", err)
		}
		if len(devices) == 0 {
			fmt.Println("No printers found.")
			return
		}
		for _, d := range devices {
			fmt.Printf("%s  %s (RSSI %d)\n", d.ID, displayName(d), d.RSSI)
		}
		return
	}

	store := printer.NewFileDeviceStore(cfg.StorePath)

	mgr, err := printer.NewManager(adapter, printer.Options{
		ScanTimeout: time.Duration(cfg.Scan.TimeoutSeconds) * time.Second,
		Selector:    promptSelector,
		Store:       store,
		Write: printer.WriteConfig{
			ChunkSize:       cfg.Write.ChunkSize,
			InterChunkDelay: time.Duration(cfg.Write.InterChunkDelayMS) * time.Millisecond,
			MaxAttempts:     cfg.Write.MaxAttempts,
			BackoffBase:     time.Duration(cfg.Write.BackoffBaseMS) * time.Millisecond,
			MaxReconnects:   cfg.Write.MaxReconnectsPerPrint,
		},
		FormatCurrency: formatCurrency,
		Layout: receipt.Layout{
			HeaderFallback: cfg.Receipt.HeaderFallback,
			FooterText:     cfg.Receipt.FooterText,
		},
	})
	if err != nil {
		log.Fatalf("printer: %v", err)
	}

	if *forget {
		mgr.Disconnect()
		fmt.Println("Saved printer cleared.")
		return
	}

	mgr.OnConnectionChange(func(connected bool) {
		if connected {
			log.Printf("Printer connected: %s", mgr.DeviceName())
		} else {
			log.Println("Printer disconnected")
		}
	})

	if mgr.HasSavedDevice() {
		log.Printf("Last used printer: %s", mgr.SavedDeviceName())
	}

	order, err := loadOrder(*orderPath)
	if err != nil {
		log.Fatalf("order: %v", err)
	}

	ctx := context.Background()
	handle, err := mgr.Connect(ctx)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	log.Printf("Connected to %s, printing order %s...", handle.Name, order.OrderNumber)

	if err := mgr.PrintReceipt(ctx, *order); err != nil {
		log.Fatalf("print: %v", err)
	}
	log.Println("Receipt printed.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(l)
}

// promptSelector lists discovered printers and asks the operator to choose.
// An empty answer cancels the selection.
func promptSelector(devices []ble.Device) (ble.Device, bool) {
	if len(devices) == 0 {
		return ble.Device{}, false
	}
	if len(devices) == 1 {
		fmt.Printf("Found printer: %s\n", displayName(devices[0]))
		return devices[0], true
	}

	fmt.Println("Found printers:")
	for i, d := range devices {
		fmt.Printf("  [%d] %s (RSSI %d)\n", i+1, displayName(d), d.RSSI)
	}
	fmt.Printf("Select printer [1-%d], empty to cancel: ", len(devices))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ble.Device{}, false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return ble.Device{}, false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(devices) {
		return ble.Device{}, false
	}
	return devices[n-1], true
}

func displayName(d ble.Device) string {
	if d.Name == "" {
		return "(unnamed) " + d.ID
	}
	return d.Name
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"PKR": "Rs ",
	"AED": "AED ",
}

func formatCurrency(amount float64, currencyCode string) string {
	if sym, ok := currencySymbols[currencyCode]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currencyCode)
}

func loadOrder(path string) (*receipt.OrderSummary, error) {
	if path == "" {
		return sampleOrder(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order file: %w", err)
	}
	var order receipt.OrderSummary
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("parsing order file: %w", err)
	}
	return &order, nil
}

func sampleOrder() *receipt.OrderSummary {
	return &receipt.OrderSummary{
		OrderNumber:  "TEST-001",
		PlacedAt:     time.Now(),
		CurrencyCode: "USD",
		OrderType:    "Dine-in",
		BranchName:   "Test Kitchen",
		Items: []receipt.LineItem{
			{Name: "Cheeseburger", Quantity: 1, UnitPrice: 9.99},
			{Name: "Fries", Quantity: 2, UnitPrice: 3.50,
				Customizations: []receipt.Customization{{Name: "Size", Option: "Large"}}},
		},
		Charges: receipt.Charges{
			Subtotal: 16.99,
			Tax:      1.70,
			Total:    18.69,
		},
	}
}
