package diff

import (
	"bytes"
	"testing"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine("bsdiff")
	if err != nil {
		t.Fatalf("NewEngine(bsdiff) error = %v", err)
	}
	if engine.Name() != "bsdiff" {
		t.Errorf("Name() = %q, want bsdiff", engine.Name())
	}

	if _, err := NewEngine("xdelta"); err == nil {
		t.Error("NewEngine(xdelta) error = nil, want error")
	}
}

func TestBsdiffEngineRoundTrip(t *testing.T) {
	engine := NewBsdiffEngine()

	tests := []struct {
		name    string
		oldData []byte
		newData []byte
	}{
		{
			name:    "small change",
			oldData: []byte("hello world, this is the old content"),
			newData: []byte("hello world, this is the new content"),
		},
		{
			name:    "append",
			oldData: bytes.Repeat([]byte{0xab}, 512),
			newData: append(bytes.Repeat([]byte{0xab}, 512), 0x01, 0x02, 0x03),
		},
		{
			name:    "identical",
			oldData: []byte("same bytes"),
			newData: []byte("same bytes"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := engine.ComputeDiff(tt.oldData, tt.newData)
			if err != nil {
				t.Fatalf("ComputeDiff() error = %v", err)
			}
			got, err := engine.ApplyPatch(tt.oldData, patch)
			if err != nil {
				t.Fatalf("ApplyPatch() error = %v", err)
			}
			if !bytes.Equal(got, tt.newData) {
				t.Errorf("ApplyPatch() = %d bytes, want %d bytes matching new data", len(got), len(tt.newData))
			}
		})
	}
}

func TestBsdiffEngineEmptyInputs(t *testing.T) {
	engine := NewBsdiffEngine()

	t.Run("both empty", func(t *testing.T) {
		patch, err := engine.ComputeDiff(nil, nil)
		if err != nil {
			t.Fatalf("ComputeDiff() error = %v", err)
		}
		if len(patch) != 0 {
			t.Errorf("ComputeDiff() = %d bytes, want empty", len(patch))
		}
	})

	t.Run("empty old uses new as patch", func(t *testing.T) {
		newData := []byte("fresh content")
		patch, err := engine.ComputeDiff(nil, newData)
		if err != nil {
			t.Fatalf("ComputeDiff() error = %v", err)
		}
		got, err := engine.ApplyPatch(nil, patch)
		if err != nil {
			t.Fatalf("ApplyPatch() error = %v", err)
		}
		if !bytes.Equal(got, newData) {
			t.Errorf("ApplyPatch() = %q, want %q", got, newData)
		}
	})

	t.Run("empty patch returns base", func(t *testing.T) {
		base := []byte("base")
		got, err := engine.ApplyPatch(base, nil)
		if err != nil {
			t.Fatalf("ApplyPatch() error = %v", err)
		}
		if !bytes.Equal(got, base) {
			t.Errorf("ApplyPatch() = %q, want %q", got, base)
		}
	})
}

func TestComputeEngineStats(t *testing.T) {
	stats := ComputeEngineStats(make([]byte, 100), make([]byte, 200), make([]byte, 50))
	if stats.OldSize != 100 || stats.NewSize != 200 || stats.PatchSize != 50 {
		t.Errorf("sizes = %d/%d/%d, want 100/200/50", stats.OldSize, stats.NewSize, stats.PatchSize)
	}
	if stats.CompressionRate != 0.25 {
		t.Errorf("CompressionRate = %v, want 0.25", stats.CompressionRate)
	}

	empty := ComputeEngineStats(nil, nil, nil)
	if empty.CompressionRate != 0.0 {
		t.Errorf("CompressionRate = %v, want 0.0 for empty new data", empty.CompressionRate)
	}
}
