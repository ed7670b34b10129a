package diff

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/saworbit/binkit/pkg/binerr"
)

func TestPatchTextRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		data1 []byte
		data2 []byte
	}{
		{
			name:  "changes only",
			data1: []byte{0xde, 0xad, 0xbe, 0xef},
			data2: []byte{0xfe, 0xad, 0xbe, 0xed},
		},
		{
			name:  "file2 longer",
			data1: []byte{1, 2, 3},
			data2: []byte{1, 9, 3, 4, 5},
		},
		{
			name:  "file1 longer",
			data1: []byte{1, 2, 3, 4, 5},
			data2: []byte{1, 9, 3},
		},
		{
			name:  "identical",
			data1: []byte{7, 7, 7},
			data2: []byte{7, 7, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs := Compare(tt.data1, tt.data2, Config{})
			text := FormatPatchText(diffs, "old", "new")

			entries, err := ParsePatchText(text)
			if err != nil {
				t.Fatalf("ParsePatchText() error = %v", err)
			}
			got, err := ApplyPatchText(tt.data1, entries)
			if err != nil {
				t.Fatalf("ApplyPatchText() error = %v", err)
			}
			if !bytes.Equal(got, tt.data2) {
				t.Errorf("ApplyPatchText() = %x, want %x", got, tt.data2)
			}
		})
	}
}

func TestFormatPatchTextLayout(t *testing.T) {
	diffs := []Entry{
		{Offset: 1, Byte1: bp(0xad), Byte2: bp(0xaf)},
		{Offset: 5, Byte2: bp(0x42)},
		{Offset: 6, Byte1: bp(0x43)},
	}
	got := FormatPatchText(diffs, "a.bin", "b.bin")
	want := "# binkit patch file\n" +
		"# source: a.bin\n" +
		"# target: b.bin\n" +
		"# format: OFFSET:OLD_HEX:NEW_HEX\n" +
		"# differences: 3\n" +
		"#\n" +
		"0x00000001:ad:af\n" +
		"0x00000005::42\n" +
		"0x00000006:43:"
	if got != want {
		t.Errorf("FormatPatchText() = %q, want %q", got, want)
	}
}

func TestParsePatchTextErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "missing field", text: "0x10:ab"},
		{name: "bad offset", text: "zz:ab:cd"},
		{name: "bad old byte", text: "0x10:xyz:cd"},
		{name: "bad new byte", text: "0x10:ab:xyz"},
		{name: "both sides empty", text: "0x10::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatchText(tt.text)
			if !errors.Is(err, binerr.ErrParse) {
				t.Errorf("ParsePatchText(%q) error = %v, want ErrParse", tt.text, err)
			}
			if err != nil && !strings.Contains(err.Error(), "line 1") {
				t.Errorf("ParsePatchText(%q) error missing line number: %v", tt.text, err)
			}
		})
	}
}

func TestParsePatchTextSkipsCommentsAndBlanks(t *testing.T) {
	entries, err := ParsePatchText("# header\n\n  \n0x02:aa:bb\n# trailer")
	if err != nil {
		t.Fatalf("ParsePatchText() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Offset != 2 || *entries[0].Byte1 != 0xaa || *entries[0].Byte2 != 0xbb {
		t.Errorf("ParsePatchText() = %+v, want one aa->bb entry at offset 2", entries)
	}
}

func TestApplyPatchTextMismatch(t *testing.T) {
	entries := []Entry{{Offset: 0, Byte1: bp(0x99), Byte2: bp(0x01)}}
	_, err := ApplyPatchText([]byte{0x42}, entries)
	if !errors.Is(err, binerr.ErrInvalidInput) {
		t.Errorf("ApplyPatchText() error = %v, want ErrInvalidInput", err)
	}
}

func TestApplyPatchTextOutOfRange(t *testing.T) {
	t.Run("expected byte past end", func(t *testing.T) {
		entries := []Entry{{Offset: 5, Byte1: bp(0x01), Byte2: bp(0x02)}}
		_, err := ApplyPatchText([]byte{0x01}, entries)
		if !errors.Is(err, binerr.ErrInvalidRange) {
			t.Errorf("ApplyPatchText() error = %v, want ErrInvalidRange", err)
		}
	})

	t.Run("addition with hole", func(t *testing.T) {
		entries := []Entry{{Offset: 3, Byte2: bp(0x02)}}
		_, err := ApplyPatchText([]byte{0x01}, entries)
		if !errors.Is(err, binerr.ErrInvalidRange) {
			t.Errorf("ApplyPatchText() error = %v, want ErrInvalidRange", err)
		}
	})
}

func TestApplyPatchTextDoesNotMutateInput(t *testing.T) {
	data := []byte{0x01, 0x02}
	entries := []Entry{{Offset: 0, Byte1: bp(0x01), Byte2: bp(0xff)}}
	out, err := ApplyPatchText(data, entries)
	if err != nil {
		t.Fatalf("ApplyPatchText() error = %v", err)
	}
	if data[0] != 0x01 {
		t.Error("ApplyPatchText() mutated its input")
	}
	if out[0] != 0xff {
		t.Errorf("out[0] = 0x%02x, want 0xff", out[0])
	}
}
