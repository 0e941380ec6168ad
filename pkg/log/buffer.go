package log

import (
	"bytes"
	"io"
	"sync"
)

const defaultRingSize = 256

// Ring is an [io.Writer] that keeps the most recent writes in memory.
// It is used as the log destination while the terminal UI owns the screen.
type Ring struct {
	lines [][]byte
	next  int
	count int
	mu    sync.Mutex
}

// NewRing returns a [Ring] that keeps up to size writes.
// A non-positive size selects a default.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}

	return &Ring{lines: make([][]byte, size)}
}

// Write copies p into the ring, evicting the oldest entry when full.
func (r *Ring) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines[r.next] = bytes.Clone(p)
	r.next = (r.next + 1) % len(r.lines)
	if r.count < len(r.lines) {
		r.count++
	}

	return len(p), nil
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// Entries returns copies of the stored entries, oldest first.
func (r *Ring) Entries() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entries()
}

// Reset drops all entries.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
}

// FlushTo writes every entry to w in order and empties the ring.
// Entries are kept if writing fails.
func (r *Ring) FlushTo(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries() {
		if _, err := w.Write(e); err != nil {
			return err //nolint:wrapcheck // Passthrough of caller's writer.
		}
	}

	r.reset()

	return nil
}

func (r *Ring) entries() [][]byte {
	if r.count == 0 {
		return nil
	}

	out := make([][]byte, 0, r.count)
	start := (r.next - r.count + len(r.lines)) % len(r.lines)
	for i := range r.count {
		out = append(out, bytes.Clone(r.lines[(start+i)%len(r.lines)]))
	}

	return out
}

func (r *Ring) reset() {
	clear(r.lines)
	r.next = 0
	r.count = 0
}
