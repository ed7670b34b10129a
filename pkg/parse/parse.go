// Package parse turns command-line strings into byte ranges, byte values,
// and search patterns.
//
// Range syntax: "10" (single byte), "10..20", "..20", "10..", "..",
// with decimal or 0x-prefixed hex indices. A leading zero followed by hex
// digits is treated as hex (e.g. "0100" = 256).
package parse

import (
	"math"
	"strconv"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
	"github.com/saworbit/binkit/pkg/diff"
	"github.com/saworbit/binkit/pkg/search"
)

// Range parses a range specification against a buffer of dataLen bytes
// and returns the half-open [start, end). Open ends resolve to dataLen;
// a bare index selects a single byte.
func Range(spec string, dataLen int) (start, end int, err error) {
	spec = strings.TrimSpace(spec)

	if strings.Contains(spec, "..") {
		parts := strings.Split(spec, "..")
		if len(parts) != 2 {
			return 0, 0, binerr.Parsef("invalid range %q: expected 'start..end', '..end', 'start..', or '..'", spec)
		}

		start = 0
		if parts[0] != "" {
			if start, err = Number(parts[0]); err != nil {
				return 0, 0, err
			}
		}

		end = dataLen
		if parts[1] != "" {
			if end, err = Number(parts[1]); err != nil {
				return 0, 0, err
			}
		}

		if start > dataLen {
			return 0, 0, binerr.InvalidRangef("start index %d exceeds data length %d", start, dataLen)
		}
		if parts[1] != "" {
			if end > dataLen {
				return 0, 0, binerr.InvalidRangef("end index %d exceeds data length %d", end, dataLen)
			}
			if start >= end {
				return 0, 0, binerr.InvalidRangef("start index %d must be less than end index %d", start, end)
			}
		}
		return start, end, nil
	}

	idx, err := Number(spec)
	if err != nil {
		return 0, 0, err
	}
	if idx >= dataLen {
		return 0, 0, binerr.InvalidRangef("index %d out of bounds (data length: %d)", idx, dataLen)
	}
	return idx, idx + 1, nil
}

// Number parses a decimal or hexadecimal offset. "0x1F", "0X1f" and
// leading-zero forms like "01F" are hex; everything else is decimal.
func Number(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, binerr.Parsef("empty number string")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, binerr.Parsef("invalid hexadecimal number %q: %v", s, err)
		}
		return int(v), nil
	}
	if len(s) > 1 && s[0] == '0' && allHexDigits(s[1:]) {
		v, err := strconv.ParseUint(s[1:], 16, 64)
		if err != nil {
			return 0, binerr.Parsef("invalid hexadecimal number %q: %v", s, err)
		}
		return int(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, binerr.Parsef("invalid decimal number %q: %v", s, err)
	}
	return int(v), nil
}

func allHexDigits(s string) bool {
	for _, c := range s {
		if !isHexDigit(byte(c)) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Input parses raw byte values from the given textual format
// (hex, dec, oct, bin, ascii).
func Input(input, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "hex":
		return hexInput(input)
	case "dec":
		return decInput(input)
	case "oct":
		return octInput(input)
	case "bin":
		return binInput(input)
	case "ascii":
		return []byte(input), nil
	default:
		return nil, binerr.InvalidInputf("unknown input format %q: supported: hex, dec, oct, bin, ascii", format)
	}
}

// hexInput accepts hex digits with arbitrary separators: "DEADBEEF",
// "DE AD BE EF", "de-ad-be-ef".
func hexInput(input string) ([]byte, error) {
	var cleaned []byte
	for i := 0; i < len(input); i++ {
		if isHexDigit(input[i]) {
			cleaned = append(cleaned, input[i])
		}
	}
	if len(cleaned)%2 != 0 {
		return nil, binerr.Parsef("hex input must have even number of digits, got %d digits", len(cleaned))
	}

	out := make([]byte, 0, len(cleaned)/2)
	for i := 0; i < len(cleaned); i += 2 {
		v, err := strconv.ParseUint(string(cleaned[i:i+2]), 16, 8)
		if err != nil {
			return nil, binerr.Parsef("invalid hex input: %v", err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func decInput(input string) ([]byte, error) {
	var out []byte
	for _, part := range strings.Fields(input) {
		v, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return nil, binerr.Parsef("invalid decimal value %q: %v", part, err)
		}
		if v > 255 {
			return nil, binerr.Parsef("decimal value %d exceeds byte range (0-255)", v)
		}
		out = append(out, byte(v))
	}
	if len(out) == 0 {
		return nil, binerr.Parsef("empty decimal input")
	}
	return out, nil
}

func octInput(input string) ([]byte, error) {
	var out []byte
	for _, part := range strings.Fields(input) {
		v, err := strconv.ParseUint(part, 8, 16)
		if err != nil {
			return nil, binerr.Parsef("invalid octal value %q: %v", part, err)
		}
		if v > 255 {
			return nil, binerr.Parsef("octal value %s (decimal %d) exceeds byte range (0-377 octal)", part, v)
		}
		out = append(out, byte(v))
	}
	if len(out) == 0 {
		return nil, binerr.Parsef("empty octal input")
	}
	return out, nil
}

func binInput(input string) ([]byte, error) {
	var out []byte
	for _, part := range strings.Fields(input) {
		if len(part) > 8 {
			return nil, binerr.Parsef("binary value %q exceeds 8 bits", part)
		}
		v, err := strconv.ParseUint(part, 2, 8)
		if err != nil {
			return nil, binerr.Parsef("invalid binary value %q: %v", part, err)
		}
		out = append(out, byte(v))
	}
	if len(out) == 0 {
		return nil, binerr.Parsef("empty binary input")
	}
	return out, nil
}

// SearchPattern parses a search pattern string according to the input
// format. hex/ascii/dec/oct/bin yield exact patterns, "regex" defers
// compilation to search time, and "mask" supports ?? / XX wildcards.
func SearchPattern(input, format string) (search.Pattern, error) {
	switch strings.ToLower(format) {
	case "hex":
		b, err := hexInput(input)
		if err != nil {
			return search.Pattern{}, err
		}
		return search.Exact(b), nil
	case "ascii":
		return search.Exact([]byte(input)), nil
	case "dec":
		b, err := decInput(input)
		if err != nil {
			return search.Pattern{}, err
		}
		return search.Exact(b), nil
	case "oct":
		b, err := octInput(input)
		if err != nil {
			return search.Pattern{}, err
		}
		return search.Exact(b), nil
	case "bin":
		b, err := binInput(input)
		if err != nil {
			return search.Pattern{}, err
		}
		return search.Exact(b), nil
	case "regex":
		return search.Regex(input), nil
	case "mask":
		return MaskPattern(input)
	default:
		return search.Pattern{}, binerr.InvalidInputf(
			"unknown search pattern format %q: supported: hex, ascii, dec, oct, bin, regex, mask", format)
	}
}

// MaskPattern parses a hex pattern with wildcards, e.g. "DE ?? BE EF".
// Wildcards are "??" or "XX" (case-insensitive).
func MaskPattern(input string) (search.Pattern, error) {
	var cleaned []byte
	for i := 0; i < len(input); i++ {
		c := input[i]
		if isHexDigit(c) || c == '?' || c == 'x' || c == 'X' {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned)%2 != 0 {
		return search.Pattern{}, binerr.Parsef("mask pattern must have pairs of characters, got %d characters", len(cleaned))
	}

	mask := make([]search.MaskByte, 0, len(cleaned)/2)
	for i := 0; i < len(cleaned); i += 2 {
		pair := strings.ToUpper(string(cleaned[i : i+2]))
		if pair == "??" || pair == "XX" {
			mask = append(mask, search.MaskByte{Wildcard: true})
			continue
		}
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return search.Pattern{}, binerr.Parsef("invalid mask byte %q: %v", pair, err)
		}
		mask = append(mask, search.MaskByte{Value: byte(v)})
	}
	if len(mask) == 0 {
		return search.Pattern{}, binerr.Parsef("empty mask pattern")
	}
	return search.Mask(mask), nil
}

// IgnoreRanges parses a comma-separated list of ranges excluded from diff
// comparison, e.g. "0x0..0x10,0x100..0x200". A bare index excludes a
// single byte.
func IgnoreRanges(spec string) ([]diff.ByteRange, error) {
	if spec == "" {
		return nil, nil
	}

	var ranges []diff.ByteRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		start, end, err := Range(part, math.MaxInt)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, diff.ByteRange{Start: start, End: end})
	}
	return ranges, nil
}
