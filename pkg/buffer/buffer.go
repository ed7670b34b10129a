// Package buffer owns the in-memory byte buffer every binkit command
// operates on. The whole input is materialized before any algorithm runs;
// core operations read immutable slices, write/edit mutate in place.
package buffer

import (
	"github.com/saworbit/binkit/pkg/binerr"
)

// Buffer holds the raw bytes being inspected or manipulated.
type Buffer struct {
	data []byte
}

// New wraps raw bytes in a Buffer. The slice is owned by the buffer
// afterwards.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the full backing slice. Callers must treat it as read-only.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// ReadRange returns the bytes in [start, end). end == -1 means "to the end
// of the buffer".
func (b *Buffer) ReadRange(start, end int) ([]byte, error) {
	if end == -1 {
		end = len(b.data)
	}
	if start < 0 || start >= len(b.data) || end > len(b.data) || start >= end {
		return nil, binerr.InvalidRangef("invalid range [%d, %d) for %d bytes", start, end, len(b.data))
	}
	return b.data[start:end], nil
}

// WriteRange overwrites len(data) bytes starting at start.
func (b *Buffer) WriteRange(start int, data []byte) error {
	if start < 0 || start+len(data) > len(b.data) {
		return binerr.InvalidRangef("write of %d bytes at %d exceeds %d-byte buffer", len(data), start, len(b.data))
	}
	copy(b.data[start:], data)
	return nil
}

// Insert splices data in at position, growing the buffer.
func (b *Buffer) Insert(position int, data []byte) error {
	if position < 0 || position > len(b.data) {
		return binerr.InvalidRangef("insert position %d out of bounds (length %d)", position, len(b.data))
	}
	b.data = append(b.data[:position], append(append([]byte(nil), data...), b.data[position:]...)...)
	return nil
}

// Remove deletes the bytes in [start, end), shrinking the buffer.
func (b *Buffer) Remove(start, end int) error {
	if start < 0 || start >= len(b.data) || end > len(b.data) || start >= end {
		return binerr.InvalidRangef("invalid range [%d, %d) for %d bytes", start, end, len(b.data))
	}
	b.data = append(b.data[:start], b.data[end:]...)
	return nil
}
