package printer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// WriteConfig tunes the chunked transfer.
type WriteConfig struct {
	// ChunkSize is the bytes per BLE write. Default 128.
	ChunkSize int
	// InterChunkDelay paces the transfer between chunks so the printer's
	// receive buffer is not overrun. Default 100ms.
	InterChunkDelay time.Duration
	// MaxAttempts is the write attempts per chunk. Default 3.
	MaxAttempts int
	// BackoffBase is the wait before the 2nd attempt; doubled per further
	// attempt. Default 200ms.
	BackoffBase time.Duration
	// MaxReconnects caps inline reconnections across one whole transfer.
	// The per-chunk retry counter alone would otherwise allow unbounded
	// reconnect cycles over many chunks. Default 3.
	MaxReconnects int
}

// DefaultWriteConfig returns the production transfer parameters.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{
		ChunkSize:       DefaultChunkSize,
		InterChunkDelay: 100 * time.Millisecond,
		MaxAttempts:     3,
		BackoffBase:     200 * time.Millisecond,
		MaxReconnects:   3,
	}
}

func (c WriteConfig) withDefaults() WriteConfig {
	d := DefaultWriteConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.InterChunkDelay <= 0 {
		c.InterChunkDelay = d.InterChunkDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = d.BackoffBase
	}
	if c.MaxReconnects <= 0 {
		c.MaxReconnects = d.MaxReconnects
	}
	return c
}

// session is the transport's view of the connection manager: the current
// endpoint, and reconnection through the manager's own state machine rather
// than by poking connection fields directly.
type session interface {
	activeEndpoint() (*WriteEndpoint, bool)
	reconnect(ctx context.Context) error
}

// transport delivers a receipt byte stream as a sequence of bounded writes
// with pacing, per-chunk retry, and inline reconnection.
type transport struct {
	sess session
	cfg  WriteConfig
}

func newTransport(sess session, cfg WriteConfig) *transport {
	return &transport{sess: sess, cfg: cfg}
}

// write sends data in order, one chunk at a time. A chunk that exhausts its
// attempts aborts the whole transfer: partial receipts are worse than no
// receipt, so the caller must not assume any partial print occurred.
func (t *transport) write(ctx context.Context, data []byte) error {
	chunks := splitChunks(data, t.cfg.ChunkSize)
	reconnects := 0
	for i, chunk := range chunks {
		if err := t.writeChunk(ctx, chunk, &reconnects); err != nil {
			return &ChunkWriteError{Index: i, Total: len(chunks), Err: err}
		}
		if i < len(chunks)-1 {
			if err := sleepCtx(ctx, t.cfg.InterChunkDelay); err != nil {
				return &ChunkWriteError{Index: i + 1, Total: len(chunks), Err: err}
			}
		}
	}
	slog.Debug("[printer] transfer complete", "bytes", len(data), "chunks", len(chunks))
	return nil
}

// writeChunk attempts one chunk up to MaxAttempts times. Before each attempt
// a closed link gets a single inline reconnection; if that fails the chunk
// fails immediately with no further attempts.
func (t *transport) writeChunk(ctx context.Context, chunk []byte, reconnects *int) error {
	var lastErr error
	for attempt := 1; attempt <= t.cfg.MaxAttempts; attempt++ {
		endpoint, ok := t.sess.activeEndpoint()
		if !ok {
			if *reconnects >= t.cfg.MaxReconnects {
				return fmt.Errorf("reconnect budget exhausted after %d: %w", *reconnects, ErrNotConnected)
			}
			*reconnects++
			if err := t.sess.reconnect(ctx); err != nil {
				return fmt.Errorf("mid-transfer reconnect: %w", err)
			}
			endpoint, ok = t.sess.activeEndpoint()
			if !ok {
				return ErrNotConnected
			}
		}

		err := endpoint.Char.Write(chunk)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("[printer] chunk write failed", "attempt", attempt, "error", err)
		if attempt < t.cfg.MaxAttempts {
			backoff := t.cfg.BackoffBase << (attempt - 1)
			if err := sleepCtx(ctx, backoff); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
