// Package printer drives a BLE thermal receipt printer: connection lifecycle,
// write-endpoint negotiation, chunked transfer with retry, and the public
// print entry point. The BLE hardware sits behind the ble.Adapter interface;
// receipt serialization lives in the receipt package.
package printer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asammad48/vendorview-printer/internal/ble"
	"github.com/asammad48/vendorview-printer/internal/receipt"
)

// ConnectionState is the lifecycle state of the printer connection. Exactly
// one instance exists per Manager; only the Manager mutates it.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("ConnectionState(%d)", int(s))
	}
}

// Handle identifies a paired printer: opaque device ID plus human-readable
// name. A persisted handle is advisory only and never implies a live
// connection.
type Handle struct {
	ID   string
	Name string
}

// DeviceSelector picks one device from a scan result, modeling the
// user-mediated selection step. Returning ok=false means the user cancelled.
type DeviceSelector func(devices []ble.Device) (ble.Device, bool)

// FirstDeviceSelector accepts the first discovered device. Useful for
// unattended setups with a single printer in range.
func FirstDeviceSelector(devices []ble.Device) (ble.Device, bool) {
	if len(devices) == 0 {
		return ble.Device{}, false
	}
	return devices[0], true
}

// Options configures a Manager.
type Options struct {
	// ScanTimeout bounds device discovery during Connect. Default 10s.
	ScanTimeout time.Duration
	// Selector performs device selection. Default FirstDeviceSelector.
	Selector DeviceSelector
	// Store persists the last-selected device identity. Default is an
	// in-memory store.
	Store DeviceStore
	// Write configures the chunked transfer. Zero fields take defaults.
	Write WriteConfig
	// FormatCurrency renders monetary values on receipts. Required.
	FormatCurrency receipt.CurrencyFormatter
	// Layout controls receipt header fallback and footer text. Zero value
	// uses receipt.DefaultLayout.
	Layout receipt.Layout
}

type connListener struct {
	id int
	fn func(connected bool)
}

// Manager owns the printer connection lifecycle. It is constructed once at
// process start and passed by reference to callers; all connection state,
// including the listener registry, lives on the instance.
type Manager struct {
	adapter  ble.Adapter
	store    DeviceStore
	selector DeviceSelector
	scanTO   time.Duration
	format   receipt.CurrencyFormatter
	layout   receipt.Layout
	tr       *transport

	mu         sync.Mutex
	state      ConnectionState
	conn       ble.Connection
	endpoint   *WriteEndpoint
	device     Handle // current session's device; survives a drop, cleared on Disconnect
	listeners  []connListener
	nextListID int

	printMu sync.Mutex // serializes PrintReceipt; TryLock refusal, no queueing
}

// NewManager creates a connection manager over the given BLE adapter.
func NewManager(adapter ble.Adapter, opts Options) (*Manager, error) {
	if adapter == nil {
		return nil, fmt.Errorf("printer: adapter must not be nil")
	}
	if opts.FormatCurrency == nil {
		return nil, fmt.Errorf("printer: FormatCurrency must not be nil")
	}
	if opts.ScanTimeout <= 0 {
		opts.ScanTimeout = 10 * time.Second
	}
	if opts.Selector == nil {
		opts.Selector = FirstDeviceSelector
	}
	if opts.Store == nil {
		opts.Store = newMemoryDeviceStore()
	}
	m := &Manager{
		adapter:  adapter,
		store:    opts.Store,
		selector: opts.Selector,
		scanTO:   opts.ScanTimeout,
		format:   opts.FormatCurrency,
		layout:   opts.Layout,
		state:    StateDisconnected,
	}
	m.tr = newTransport(m, opts.Write.withDefaults())
	return m, nil
}

// State returns the current connection state.
func (m *Manager) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsActivelyConnected reports whether a live link and a valid write endpoint
// both exist. A saved device alone never makes this true.
func (m *Manager) IsActivelyConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected && m.conn != nil && m.endpoint != nil
}

// DeviceName returns the name of the actively connected printer, or "" when
// no live session exists.
func (m *Manager) DeviceName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected {
		return ""
	}
	return m.device.Name
}

// HasSavedDevice reports whether a last-selected printer identity is
// persisted.
func (m *Manager) HasSavedDevice() bool {
	_, ok := m.store.Load()
	return ok
}

// SavedDeviceName returns the persisted printer name, or "" if none.
func (m *Manager) SavedDeviceName() string {
	dev, _ := m.store.Load()
	return dev.Name
}

// OnConnectionChange registers a listener for boolean connected-state
// changes and returns a token for OffConnectionChange. Delivery is
// synchronous, in registration order, on the goroutine performing the
// transition; listeners must not block.
func (m *Manager) OnConnectionChange(fn func(connected bool)) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextListID++
	m.listeners = append(m.listeners, connListener{id: m.nextListID, fn: fn})
	return m.nextListID
}

// OffConnectionChange removes a previously registered listener. Unknown
// tokens are ignored.
func (m *Manager) OffConnectionChange(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// notify invokes listeners outside the state lock so a listener may call
// back into the Manager.
func (m *Manager) notify(connected bool) {
	m.mu.Lock()
	ls := make([]connListener, len(m.listeners))
	copy(ls, m.listeners)
	m.mu.Unlock()
	for _, l := range ls {
		l.fn(connected)
	}
}

// Connect scans for printers advertising a known profile service, runs
// device selection, opens the link, and negotiates a write endpoint. On
// success the device identity is persisted for UI convenience.
func (m *Manager) Connect(ctx context.Context) (Handle, error) {
	m.mu.Lock()
	switch m.state {
	case StateConnecting, StateReconnecting:
		m.mu.Unlock()
		return Handle{}, ErrBusy
	case StateConnected:
		h := m.device
		m.mu.Unlock()
		return h, nil
	}
	m.state = StateConnecting
	m.mu.Unlock()

	handle, err := m.doConnect(ctx)
	if err != nil {
		m.mu.Lock()
		m.state = StateDisconnected
		m.mu.Unlock()
		return Handle{}, err
	}
	m.notify(true)
	return handle, nil
}

func (m *Manager) doConnect(ctx context.Context) (Handle, error) {
	if err := m.adapter.Enable(); err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, m.scanTO)
	devices, err := m.adapter.Scan(scanCtx, ProfileServiceUUIDs())
	cancel()
	if err != nil {
		return Handle{}, fmt.Errorf("printer: scan: %w", err)
	}

	dev, ok := m.selector(devices)
	if !ok {
		return Handle{}, ErrNoDeviceSelected
	}

	conn, err := m.adapter.Connect(ctx, dev.ID)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrLinkOpenFailed, err)
	}

	endpoint, err := negotiate(conn)
	if err != nil {
		_ = conn.Disconnect()
		return Handle{}, err
	}

	handle := Handle{ID: dev.ID, Name: dev.Name}
	m.mu.Lock()
	m.conn = conn
	m.endpoint = endpoint
	m.device = handle
	m.state = StateConnected
	m.mu.Unlock()

	conn.OnDisconnect(func() { m.handleDrop(conn) })

	if err := m.store.Save(SavedDevice{ID: handle.ID, Name: handle.Name}); err != nil {
		slog.Warn("[printer] failed to persist device identity", "error", err)
	}

	slog.Info("[printer] connected", "device", handle.Name, "id", handle.ID,
		"service", endpoint.ServiceUUID)
	return handle, nil
}

// handleDrop reacts to an unexpected link loss: the endpoint is invalidated
// and listeners are told, but the persisted identity stays — the user's
// intent to use that printer is remembered even though the session is gone.
func (m *Manager) handleDrop(conn ble.Connection) {
	m.mu.Lock()
	if m.conn != conn || m.state != StateConnected {
		// Stale callback from a superseded session.
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.endpoint = nil
	m.state = StateDisconnected
	name := m.device.Name
	m.mu.Unlock()

	slog.Warn("[printer] connection lost", "device", name)
	m.notify(false)
}

// Disconnect closes any open link, resets state, and clears the persisted
// device identity: an explicit disconnect is a statement of intent, unlike
// an unexpected drop. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	conn := m.conn
	wasConnected := m.state == StateConnected
	m.conn = nil
	m.endpoint = nil
	m.device = Handle{}
	m.state = StateDisconnected
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Disconnect()
	}
	if err := m.store.Clear(); err != nil {
		slog.Warn("[printer] failed to clear persisted device identity", "error", err)
	}
	if wasConnected {
		slog.Info("[printer] disconnected")
		m.notify(false)
	}
}

// activeEndpoint returns the current write endpoint if a live session exists.
func (m *Manager) activeEndpoint() (*WriteEndpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected || m.conn == nil || m.endpoint == nil {
		return nil, false
	}
	return m.endpoint, true
}

// reconnect reopens the link to the current session's device and re-runs
// negotiation, via the explicit Reconnecting transition. It never consults
// the persisted identity: reconnection requires a device from a live or
// just-dropped session.
func (m *Manager) reconnect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateConnecting || m.state == StateReconnecting {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.device.ID == "" {
		m.mu.Unlock()
		return ErrNotConnected
	}
	id := m.device.ID
	old := m.conn
	wasConnected := m.state == StateConnected
	m.conn = nil
	m.endpoint = nil
	m.state = StateReconnecting
	m.mu.Unlock()

	if old != nil {
		_ = old.Disconnect()
	}

	slog.Info("[printer] reconnecting", "id", id)
	conn, err := m.adapter.Connect(ctx, id)
	if err != nil {
		m.failReconnect(wasConnected)
		return fmt.Errorf("%w: %v", ErrLinkOpenFailed, err)
	}
	endpoint, err := negotiate(conn)
	if err != nil {
		_ = conn.Disconnect()
		m.failReconnect(wasConnected)
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.endpoint = endpoint
	m.state = StateConnected
	m.mu.Unlock()

	conn.OnDisconnect(func() { m.handleDrop(conn) })

	slog.Info("[printer] reconnected", "id", id)
	if !wasConnected {
		m.notify(true)
	}
	return nil
}

// failReconnect resolves a failed Reconnecting transition to Disconnected.
func (m *Manager) failReconnect(wasConnected bool) {
	m.mu.Lock()
	m.state = StateDisconnected
	m.mu.Unlock()
	if wasConnected {
		m.notify(false)
	}
}
