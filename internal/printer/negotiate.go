package printer

import (
	"fmt"
	"log/slog"

	"github.com/asammad48/vendorview-printer/internal/ble"
)

// Known GATT profiles exposed by consumer thermal printers. Profile UUIDs are
// inconsistent across models, so connection scans for all of them and
// negotiation tries them in order.
const (
	// Generic BLE printer profile (common on Goojprt/Zjiang boards).
	PrinterServiceUUID   = "000018f0-0000-1000-8000-00805f9b34fb"
	PrinterWriteCharUUID = "00002af1-0000-1000-8000-00805f9b34fb"

	// ISSC transparent UART profile (Microchip BM7x modules).
	UARTServiceUUID   = "49535343-fe7d-4ae5-8fa9-9fafd205e455"
	UARTWriteCharUUID = "49535343-8841-43f4-a8d4-ecbe34729bb3"
)

// ProfileServiceUUIDs lists the service UUIDs a device may advertise to be
// offered for selection.
func ProfileServiceUUIDs() []string {
	return []string{PrinterServiceUUID, UARTServiceUUID}
}

// WriteEndpoint is the negotiated (service, characteristic) pair that accepts
// printer command bytes. It is owned by the active connection session and is
// invalid the moment the session ends.
type WriteEndpoint struct {
	ServiceUUID string
	Char        ble.Characteristic
}

// negotiationStrategy locates a writable endpoint on an open link.
type negotiationStrategy struct {
	name    string
	resolve func(conn ble.Connection) (*WriteEndpoint, error)
}

// strategies is the ordered fallback list. Deterministic ordering keeps
// behavior reproducible across printer models without runtime configuration.
var strategies = []negotiationStrategy{
	{name: "printer profile", resolve: knownProfile(PrinterServiceUUID, PrinterWriteCharUUID)},
	{name: "uart profile", resolve: knownProfile(UARTServiceUUID, UARTWriteCharUUID)},
	{name: "enumerate", resolve: enumerateFirstWritable},
}

func knownProfile(serviceUUID, charUUID string) func(ble.Connection) (*WriteEndpoint, error) {
	return func(conn ble.Connection) (*WriteEndpoint, error) {
		char, err := conn.DiscoverCharacteristic(serviceUUID, charUUID)
		if err != nil {
			return nil, err
		}
		return &WriteEndpoint{ServiceUUID: serviceUUID, Char: char}, nil
	}
}

// enumerateFirstWritable is the last-resort strategy: enumerate all primary
// services and take the first characteristic of the first service that
// exposes any.
func enumerateFirstWritable(conn ble.Connection) (*WriteEndpoint, error) {
	services, err := conn.DiscoverServices()
	if err != nil {
		return nil, fmt.Errorf("enumerate services: %w", err)
	}
	for _, svc := range services {
		chars, err := svc.Characteristics()
		if err != nil {
			return nil, fmt.Errorf("enumerate characteristics of %s: %w", svc.UUID(), err)
		}
		if len(chars) > 0 {
			return &WriteEndpoint{ServiceUUID: svc.UUID(), Char: chars[0]}, nil
		}
	}
	return nil, fmt.Errorf("no service exposes characteristics")
}

// negotiate tries each strategy in order and returns the first endpoint that
// resolves. Returns ErrNoWritableEndpoint only when every strategy fails.
func negotiate(conn ble.Connection) (*WriteEndpoint, error) {
	for _, s := range strategies {
		ep, err := s.resolve(conn)
		if err != nil {
			slog.Debug("[printer] negotiation strategy failed", "strategy", s.name, "error", err)
			continue
		}
		slog.Debug("[printer] negotiated write endpoint",
			"strategy", s.name, "service", ep.ServiceUUID, "char", ep.Char.UUID())
		return ep, nil
	}
	return nil, ErrNoWritableEndpoint
}
