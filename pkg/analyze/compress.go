package analyze

import (
	"io"

	"github.com/klauspost/compress/flate"
)

// Compressibility estimates how well data deflates, as the ratio of
// compressed size to original size. Values near 0 mean highly redundant
// input; values at or above 1.0 mean the data is effectively
// incompressible (already compressed, or random). Empty input yields 0.0.
func Compressibility(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	var counter countingWriter
	w, err := flate.NewWriter(&counter, flate.DefaultCompression)
	if err != nil {
		// Only reachable with an invalid level constant.
		return 1.0
	}
	if _, err := w.Write(data); err != nil {
		return 1.0
	}
	if err := w.Close(); err != nil {
		return 1.0
	}
	return float64(counter.n) / float64(len(data))
}

// countingWriter discards bytes and tracks the count. The compressed
// output itself is never needed, only its size.
type countingWriter struct {
	n int64
}

var _ io.Writer = (*countingWriter)(nil)

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
