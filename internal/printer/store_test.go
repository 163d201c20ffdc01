package printer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestFileDeviceStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.json")
	store := NewFileDeviceStore(path)

	if _, ok := store.Load(); ok {
		t.Fatal("Load() on fresh store reported a saved device")
	}

	saved := SavedDevice{ID: "AA:BB:CC:DD:EE:FF", Name: "BlueTherm-58"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok := store.Load()
	if !ok {
		t.Fatal("Load() after Save reported no saved device")
	}
	if got != saved {
		t.Errorf("Load() = %+v, want %+v", got, saved)
	}
}

func TestFileDeviceStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	store := NewFileDeviceStore(path)

	if err := store.Save(SavedDevice{ID: "id", Name: "name"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Error("Load() after Clear reported a saved device")
	}

	// Idempotent on a missing file.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestFileDeviceStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	store := NewFileDeviceStore(path)

	writeFile(t, path, "{not json")
	if _, ok := store.Load(); ok {
		t.Error("Load() on corrupt file reported a saved device")
	}
}
