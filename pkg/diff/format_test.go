package diff

import (
	"errors"
	"strings"
	"testing"

	"github.com/saworbit/binkit/pkg/binerr"
)

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{
		"auto":   ColorAuto,
		"always": ColorAlways,
		"NEVER":  ColorNever,
	} {
		got, err := ParseColorMode(in)
		if err != nil {
			t.Fatalf("ParseColorMode(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseColorMode(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseColorMode("256"); !errors.Is(err, binerr.ErrInvalidInput) {
		t.Errorf("ParseColorMode(256) error = %v, want ErrInvalidInput", err)
	}
}

func TestFormatSimple(t *testing.T) {
	diffs := []Entry{
		{Offset: 0, Byte1: bp(0xde), Byte2: bp(0xfe)},
		{Offset: 3, Byte1: bp(0xef)},
		{Offset: 4, Byte2: bp(0x11)},
	}
	got := formatSimple(diffs, false)
	want := "0x00000000: 0xde != 0xfe\n" +
		"0x00000003: 0xef != EOF\n" +
		"0x00000004: EOF != 0x11"
	if got != want {
		t.Errorf("formatSimple() = %q, want %q", got, want)
	}
}

func TestFormatSimpleColor(t *testing.T) {
	diffs := []Entry{{Offset: 0, Byte1: bp(0xde), Byte2: bp(0xfe)}}
	got := formatSimple(diffs, true)
	if !strings.Contains(got, ansiCyan) || !strings.Contains(got, ansiBoldRed) ||
		!strings.Contains(got, ansiBoldGreen) || !strings.Contains(got, ansiReset) {
		t.Errorf("formatSimple() color output missing ANSI sequences: %q", got)
	}
}

func TestFormatDiffSimple(t *testing.T) {
	data1 := []byte{0xde, 0xad, 0xbe, 0xef}
	data2 := []byte{0xfe, 0xad, 0xbe, 0xef}
	diffs := Compare(data1, data2, Config{})

	out, err := FormatDiff(data1, data2, diffs, "a.bin", "b.bin", Config{
		Format: FormatSimple,
		Color:  ColorNever,
		Width:  16,
	})
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if out != "0x00000000: 0xde != 0xfe" {
		t.Errorf("FormatDiff() = %q", out)
	}
}

func TestFormatDiffUnified(t *testing.T) {
	data1 := []byte("The quick brown fox")
	data2 := []byte("The quack brown fox")
	cfg := Config{Format: FormatUnified, Context: 3, Color: ColorNever, Width: 16}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "a.bin", "b.bin", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}

	for _, want := range []string{
		"--- a.bin",
		"+++ b.bin",
		"@@ -0x3,0x7 +0x3,0x7 @@",
		"-0x00000003: ",
		"+0x00000003: ",
		"| quick |",
		"| quack |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ansiReset) {
		t.Errorf("FormatDiff() with ColorNever contains ANSI sequences:\n%s", out)
	}
}

func TestFormatDiffUnifiedPastEOF(t *testing.T) {
	data1 := []byte{0x41, 0x42}
	data2 := []byte{0x41, 0x42, 0x43}
	cfg := Config{Format: FormatUnified, Context: 1, Color: ColorNever, Width: 16}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "short", "long", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if !strings.Contains(out, "-- ") {
		t.Errorf("FormatDiff() missing EOF placeholder:\n%s", out)
	}
	if !strings.Contains(out, "43") {
		t.Errorf("FormatDiff() missing added byte:\n%s", out)
	}
}

func TestFormatDiffUnifiedEmpty(t *testing.T) {
	out, err := FormatDiff([]byte{1}, []byte{1}, nil, "a", "b", Config{
		Format: FormatUnified, Context: 3, Color: ColorNever, Width: 16,
	})
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if out != "" {
		t.Errorf("FormatDiff() = %q, want empty for identical inputs", out)
	}
}

func TestFormatDiffSideBySide(t *testing.T) {
	data1 := []byte{0x00, 0x11, 0x22, 0x33}
	data2 := []byte{0x00, 0xff, 0x22, 0x33}
	cfg := Config{Format: FormatSideBySide, Context: 2, Color: ColorNever, Width: 4}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "left", "right", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	for _, want := range []string{
		"left",
		"right",
		"-+-",
		"0x00000000: 00 11 22 33  ! 0x00000000: 00 ff 22 33",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiffPatch(t *testing.T) {
	data1 := []byte{0xde, 0xad}
	data2 := []byte{0xde, 0xaf}
	cfg := Config{Format: FormatPatch, Color: ColorNever, Width: 16}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "a.bin", "b.bin", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	for _, want := range []string{
		"# binkit patch file",
		"# source: a.bin",
		"# target: b.bin",
		"# format: OFFSET:OLD_HEX:NEW_HEX",
		"# differences: 1",
		"0x00000001:ad:af",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiffSummary(t *testing.T) {
	data1 := []byte{1, 2, 3, 4}
	data2 := []byte{9, 9, 3, 4, 5}
	cfg := Config{Format: FormatSummary, Color: ColorNever, Width: 16}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "a", "b", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	for _, want := range []string{
		"Binary Diff Summary",
		"File 1: a (4 bytes)",
		"File 2: b (5 bytes)",
		"Overview:",
		"Assessment:",
		"Files have major differences (50-80% changed)",
		"Suggestions:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiffAuto(t *testing.T) {
	// One diff in 1000 bytes is below 1%, so auto picks the simple layout.
	data1 := make([]byte, 1000)
	data2 := make([]byte, 1000)
	data2[500] = 0xff
	cfg := Config{Format: FormatAuto, Context: 3, Color: ColorNever, Width: 16}
	diffs := Compare(data1, data2, cfg)

	out, err := FormatDiff(data1, data2, diffs, "a", "b", cfg)
	if err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if out != "0x000001f4: 0x00 != 0xff" {
		t.Errorf("FormatDiff() = %q", out)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int
		want  string
	}{
		{bytes: 512, want: "512 bytes"},
		{bytes: 2048, want: "2.0 KB"},
		{bytes: 3 * 1024 * 1024, want: "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
