// Package ble abstracts the Bluetooth Low Energy stack used to talk to
// thermal receipt printers. It defines the adapter, connection, and
// characteristic interfaces the printer layer is written against, plus a
// production implementation on tinygo.org/x/bluetooth.
package ble

import "context"

// Characteristic represents a writable BLE GATT characteristic.
type Characteristic interface {
	// UUID returns the characteristic UUID as a lowercase string.
	UUID() string
	// Write sends data to the characteristic.
	Write(data []byte) error
}

// Service represents a discovered primary GATT service.
type Service interface {
	// UUID returns the service UUID as a lowercase string.
	UUID() string
	// Characteristics enumerates all characteristics exposed by the service.
	Characteristics() ([]Characteristic, error)
}

// Device represents a discovered BLE peripheral.
type Device struct {
	ID   string // platform device identifier (MAC or CoreBluetooth UUID)
	Name string
	RSSI int
}

// Connection represents an active BLE link to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// DiscoverServices enumerates all primary services on the peripheral.
	DiscoverServices() ([]Service, error)
	// Disconnect terminates the link.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the link drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter so the printer layer can be
// tested against a mock.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan discovers peripherals advertising any of the given service UUIDs.
	// Runs until ctx is cancelled or its deadline expires.
	Scan(ctx context.Context, serviceUUIDs []string) ([]Device, error)
	// Connect opens a link to the device with the given identifier.
	Connect(ctx context.Context, id string) (Connection, error)
}
