package printer

import (
	"errors"
	"fmt"
)

// Sentinel errors returned across the package's public contract. Callers
// branch on these with errors.Is rather than exception handling.
var (
	// ErrTransportUnavailable means the host has no usable BLE capability.
	ErrTransportUnavailable = errors.New("printer: bluetooth transport unavailable")

	// ErrNoDeviceSelected means the selection callback declined every
	// discovered device (the user cancelled).
	ErrNoDeviceSelected = errors.New("printer: no device selected")

	// ErrLinkOpenFailed means the low-level link to the chosen device could
	// not be opened.
	ErrLinkOpenFailed = errors.New("printer: link open failed")

	// ErrNoWritableEndpoint means negotiation exhausted every known profile
	// and the exhaustive fallback without finding a writable characteristic.
	ErrNoWritableEndpoint = errors.New("printer: no writable endpoint found")

	// ErrNotConnected means a print was attempted with no live session and
	// the inline reconnect attempt failed.
	ErrNotConnected = errors.New("printer: printer not connected")

	// ErrPrintInFlight means a print was refused because another print is
	// still running. The transport has no queueing of its own; interleaved
	// chunk streams would corrupt the printer's buffer.
	ErrPrintInFlight = errors.New("printer: another print is in flight")

	// ErrBusy means connect was refused while a connect or reconnect
	// negotiation was already in progress.
	ErrBusy = errors.New("printer: connection attempt already in progress")
)

// ChunkWriteError reports that a single chunk exhausted all write attempts,
// aborting the rest of the transfer. Index is zero-based.
type ChunkWriteError struct {
	Index int
	Total int
	Err   error
}

func (e *ChunkWriteError) Error() string {
	return fmt.Sprintf("printer: write of chunk %d/%d failed: %v", e.Index+1, e.Total, e.Err)
}

func (e *ChunkWriteError) Unwrap() error { return e.Err }
