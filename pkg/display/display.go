// Package display renders byte slices as text in hex, dec, oct, bin, or
// ascii, with configurable bit-level chunking and line wrapping.
package display

import (
	"fmt"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// Bytes formats bytes for display.
//
// chunkBits is the number of bits per display chunk (1-64); width is the
// number of chunks per line, 0 meaning no wrapping. ASCII output requires
// 8-bit chunks.
func Bytes(data []byte, format string, chunkBits, width int) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	switch strings.ToLower(format) {
	case "hex":
		return chunked(data, chunkBits, width, chunkHex), nil
	case "dec":
		return chunked(data, chunkBits, width, chunkDec), nil
	case "oct":
		return chunked(data, chunkBits, width, chunkOct), nil
	case "bin":
		return chunked(data, chunkBits, width, chunkBin), nil
	case "ascii":
		if chunkBits != 8 {
			return "", binerr.InvalidInputf("ASCII output only supported for 8-bit chunks")
		}
		return asciiLines(data, width), nil
	default:
		return "", binerr.InvalidInputf("unknown output format %q: supported: hex, dec, oct, bin, ascii", format)
	}
}

// chunked walks the bit stream in chunkBits steps, formats each chunk, and
// wraps lines at width chunks.
func chunked(data []byte, chunkBits, width int, formatFn func(v uint64, bits int) string) string {
	var sb strings.Builder
	totalBits := len(data) * 8
	bitOffset := 0
	chunksOnLine := 0

	for bitOffset < totalBits {
		bits := chunkBits
		if remaining := totalBits - bitOffset; bits > remaining {
			bits = remaining
		}
		value := extractBits(data, bitOffset, bits)

		if chunksOnLine > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatFn(value, bits))

		chunksOnLine++
		bitOffset += chunkBits

		if width > 0 && chunksOnLine >= width && bitOffset < totalBits {
			sb.WriteByte('\n')
			chunksOnLine = 0
		}
	}

	return sb.String()
}

// extractBits reads bitCount bits starting at bitOffset, MSB first.
func extractBits(data []byte, bitOffset, bitCount int) uint64 {
	if bitCount <= 0 || bitCount > 64 {
		return 0
	}

	var value uint64
	for collected := 0; collected < bitCount; collected++ {
		pos := bitOffset + collected
		byteIndex := pos / 8
		if byteIndex >= len(data) {
			break
		}
		bitInByte := 7 - pos%8
		bit := uint64(data[byteIndex]>>bitInByte) & 1
		value = value<<1 | bit
	}
	return value
}

func chunkHex(v uint64, bits int) string {
	digits := (bits + 3) / 4
	return fmt.Sprintf("%0*x", digits, v)
}

func chunkDec(v uint64, _ int) string {
	return fmt.Sprintf("%d", v)
}

func chunkOct(v uint64, _ int) string {
	return fmt.Sprintf("%o", v)
}

func chunkBin(v uint64, bits int) string {
	return fmt.Sprintf("%0*b", bits, v)
}

// asciiLines shows printable bytes (0x20-0x7E) as-is and everything else
// as '.'.
func asciiLines(data []byte, width int) string {
	var sb strings.Builder
	charsOnLine := 0
	for i, b := range data {
		if b >= 0x20 && b <= 0x7E {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
		charsOnLine++
		if width > 0 && charsOnLine >= width && i+1 < len(data) {
			sb.WriteByte('\n')
			charsOnLine = 0
		}
	}
	return sb.String()
}

// Match formats a single search match as "0x%08x: <data>".
func Match(offset int, data []byte, format string, chunkBits int) (string, error) {
	formatted, err := Bytes(data, format, chunkBits, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%08x: %s", offset, formatted), nil
}

// MatchWithContext formats a match together with the surrounding bytes.
func MatchWithContext(offset int, matchData, before, after []byte, format string, chunkBits int) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match at 0x%08x:\n", offset)

	if len(before) > 0 {
		s, err := Bytes(before, format, chunkBits, 0)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  Before: %s\n", s)
	}

	s, err := Bytes(matchData, format, chunkBits, 0)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "  Match:  %s\n", s)

	if len(after) > 0 {
		s, err := Bytes(after, format, chunkBits, 0)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  After:  %s", s)
	}

	return sb.String(), nil
}
