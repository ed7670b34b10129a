package buffer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Compressed-input magic bytes recognized by the loader.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// LoadOptions controls how input bytes are materialized.
type LoadOptions struct {
	// Decompress enables magic-byte sniffing for gzip and xz inputs.
	Decompress bool
}

// FromFile reads the whole file into a new Buffer.
func FromFile(path string, opts LoadOptions) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return fromBytes(data, opts)
}

// FromReader drains r into a new Buffer. Used for stdin.
func FromReader(r io.Reader, opts LoadOptions) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return fromBytes(data, opts)
}

func fromBytes(data []byte, opts LoadOptions) (*Buffer, error) {
	if opts.Decompress {
		decoded, err := maybeDecompress(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return New(data), nil
}

// maybeDecompress inflates gzip or xz payloads; anything else passes
// through untouched.
func maybeDecompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("inflate gzip stream: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, xzMagic):
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		out, err := io.ReadAll(xr)
		if err != nil {
			return nil, fmt.Errorf("inflate xz stream: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}
