package printer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Fixed keys for the persisted device identity.
const (
	savedDeviceIDKey   = "printer_device_id"
	savedDeviceNameKey = "printer_device_name"
)

// SavedDevice is the persisted identity of the last selected printer. It is
// advisory only, kept so the UI can show a familiar name: the transport
// requires a fresh user-mediated selection, so a saved device never implies a
// live connection.
type SavedDevice struct {
	ID   string
	Name string
}

// DeviceStore persists the last-selected device identity across restarts.
type DeviceStore interface {
	// Load returns the saved device, or ok=false if none is saved.
	Load() (dev SavedDevice, ok bool)
	// Save writes the device identity.
	Save(dev SavedDevice) error
	// Clear removes any saved identity. Idempotent.
	Clear() error
}

// FileDeviceStore stores the device identity as a small JSON key/value file.
type FileDeviceStore struct {
	mu   sync.Mutex
	path string
}

// NewFileDeviceStore creates a store backed by the file at path. The parent
// directory is created on first save.
func NewFileDeviceStore(path string) *FileDeviceStore {
	return &FileDeviceStore{path: path}
}

func (s *FileDeviceStore) Load() (SavedDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return SavedDevice{}, false
	}
	var kv map[string]string
	if err := json.Unmarshal(data, &kv); err != nil {
		return SavedDevice{}, false
	}
	dev := SavedDevice{ID: kv[savedDeviceIDKey], Name: kv[savedDeviceNameKey]}
	return dev, dev.ID != ""
}

func (s *FileDeviceStore) Save(dev SavedDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("printer: create store dir: %w", err)
	}
	kv := map[string]string{
		savedDeviceIDKey:   dev.ID,
		savedDeviceNameKey: dev.Name,
	}
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("printer: marshal saved device: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("printer: write saved device: %w", err)
	}
	return nil
}

func (s *FileDeviceStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("printer: clear saved device: %w", err)
	}
	return nil
}

var _ DeviceStore = (*FileDeviceStore)(nil)

// memoryDeviceStore keeps the identity in memory only. Used when no store
// path is configured.
type memoryDeviceStore struct {
	mu  sync.Mutex
	dev SavedDevice
	set bool
}

func newMemoryDeviceStore() *memoryDeviceStore { return &memoryDeviceStore{} }

func (s *memoryDeviceStore) Load() (SavedDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev, s.set
}

func (s *memoryDeviceStore) Save(dev SavedDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev, s.set = dev, true
	return nil
}

func (s *memoryDeviceStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev, s.set = SavedDevice{}, false
	return nil
}

var _ DeviceStore = (*memoryDeviceStore)(nil)
