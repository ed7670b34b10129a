package buffer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestFromReader(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	t.Run("plain", func(t *testing.T) {
		buf, err := FromReader(bytes.NewReader(payload), LoadOptions{})
		if err != nil {
			t.Fatalf("FromReader() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), payload) {
			t.Errorf("Bytes() = %x, want %x", buf.Bytes(), payload)
		}
	})

	t.Run("gzip with decompress", func(t *testing.T) {
		buf, err := FromReader(bytes.NewReader(gzipped(t, payload)), LoadOptions{Decompress: true})
		if err != nil {
			t.Fatalf("FromReader() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), payload) {
			t.Errorf("Bytes() = %x, want %x", buf.Bytes(), payload)
		}
	})

	t.Run("gzip without decompress passes through", func(t *testing.T) {
		compressed := gzipped(t, payload)
		buf, err := FromReader(bytes.NewReader(compressed), LoadOptions{})
		if err != nil {
			t.Fatalf("FromReader() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), compressed) {
			t.Errorf("Bytes() = %x, want raw gzip stream", buf.Bytes())
		}
	})

	t.Run("non-compressed with decompress passes through", func(t *testing.T) {
		buf, err := FromReader(bytes.NewReader(payload), LoadOptions{Decompress: true})
		if err != nil {
			t.Fatalf("FromReader() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), payload) {
			t.Errorf("Bytes() = %x, want %x", buf.Bytes(), payload)
		}
	})

	t.Run("truncated gzip stream errors", func(t *testing.T) {
		broken := gzipped(t, payload)[:3]
		// Still has the magic prefix but no valid header behind it.
		broken = append(broken, 0x00)
		if _, err := FromReader(bytes.NewReader(broken), LoadOptions{Decompress: true}); err == nil {
			t.Error("FromReader() error = nil, want error for truncated stream")
		}
	})
}

func TestFromFile(t *testing.T) {
	payload := []byte("file contents")
	path := filepath.Join(t.TempDir(), "input.bin")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	buf, err := FromFile(path, LoadOptions{})
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("Bytes() = %q, want %q", buf.Bytes(), payload)
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing"), LoadOptions{}); err == nil {
		t.Error("FromFile() error = nil, want error for missing file")
	}
}
