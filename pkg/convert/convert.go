// Package convert transforms text held in byte buffers between encodings,
// normalizes line endings, and manages byte order marks. The pipeline is
// strip BOM, decode, convert newlines, encode, apply BOM policy.
package convert

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/saworbit/binkit/pkg/binerr"
)

var (
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
	utf16BEBOM = []byte{0xfe, 0xff}
	utf16LEBOM = []byte{0xff, 0xfe}
)

// Encoding identifies a supported text encoding.
type Encoding int

const (
	// UTF8 is the default for both source and target.
	UTF8 Encoding = iota
	// UTF16LE is UTF-16 little endian.
	UTF16LE
	// UTF16BE is UTF-16 big endian.
	UTF16BE
	// Windows1252 also serves Latin-1 requests; it is a superset.
	Windows1252
)

// ParseEncoding parses an encoding name, accepting common aliases.
// Latin-1 maps to Windows-1252.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	case "latin-1", "latin1", "iso-8859-1", "windows-1252", "cp1252":
		return Windows1252, nil
	default:
		return 0, binerr.InvalidInputf(
			"unsupported encoding %q: supported: utf-8, utf-16le, utf-16be, latin-1, windows-1252", name)
	}
}

// Name returns the canonical encoding name.
func (e Encoding) Name() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case Windows1252:
		return "windows-1252"
	default:
		return "UTF-8"
	}
}

// BOM returns the byte order mark for the encoding, empty when the
// encoding has none.
func (e Encoding) BOM() []byte {
	switch e {
	case UTF8:
		return utf8BOM
	case UTF16LE:
		return utf16LEBOM
	case UTF16BE:
		return utf16BEBOM
	default:
		return nil
	}
}

// NewlineMode selects the target line ending convention.
type NewlineMode int

const (
	// NewlineKeep preserves original line endings.
	NewlineKeep NewlineMode = iota
	// NewlineUnix converts to LF.
	NewlineUnix
	// NewlineWindows converts to CRLF.
	NewlineWindows
	// NewlineMac converts to CR.
	NewlineMac
)

// ParseNewlineMode parses a newline mode keyword.
func ParseNewlineMode(s string) (NewlineMode, error) {
	switch strings.ToLower(s) {
	case "unix", "lf":
		return NewlineUnix, nil
	case "windows", "crlf", "dos":
		return NewlineWindows, nil
	case "mac", "cr":
		return NewlineMac, nil
	case "keep", "preserve":
		return NewlineKeep, nil
	default:
		return 0, binerr.InvalidInputf("unknown newline mode %q: supported: unix, windows, mac, keep", s)
	}
}

// BOMMode selects the byte order mark policy for output.
type BOMMode int

const (
	// BOMKeep writes a BOM only when the input had one.
	BOMKeep BOMMode = iota
	// BOMAdd always writes the target encoding's BOM.
	BOMAdd
	// BOMRemove never writes a BOM.
	BOMRemove
)

// ParseBOMMode parses a BOM mode keyword.
func ParseBOMMode(s string) (BOMMode, error) {
	switch strings.ToLower(s) {
	case "add", "yes", "true":
		return BOMAdd, nil
	case "remove", "strip", "no", "false":
		return BOMRemove, nil
	case "keep", "preserve":
		return BOMKeep, nil
	default:
		return 0, binerr.InvalidInputf("unknown BOM mode %q: supported: add, remove, keep", s)
	}
}

// ErrorMode selects the handling of invalid or unrepresentable sequences.
type ErrorMode int

const (
	// ErrorReplace substitutes a replacement character, the default.
	ErrorReplace ErrorMode = iota
	// ErrorStrict fails on the first invalid sequence.
	ErrorStrict
	// ErrorIgnore drops invalid sequences, losing data.
	ErrorIgnore
)

// ParseErrorMode parses an error mode keyword.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(s) {
	case "strict", "error", "fail":
		return ErrorStrict, nil
	case "replace", "substitute":
		return ErrorReplace, nil
	case "ignore", "skip":
		return ErrorIgnore, nil
	default:
		return 0, binerr.InvalidInputf("unknown error mode %q: supported: strict, replace, ignore", s)
	}
}

// Config describes one conversion.
type Config struct {
	From     Encoding
	To       Encoding
	Newlines NewlineMode
	BOM      BOMMode
	OnError  ErrorMode
}

// DefaultConfig is UTF-8 to UTF-8 with everything preserved and invalid
// sequences replaced.
func DefaultConfig() Config {
	return Config{OnError: ErrorReplace}
}

// Describe summarizes the conversion for verbose output.
func (c Config) Describe() string {
	newlines := [...]string{"keep", "unix", "windows", "mac"}[c.Newlines]
	bom := [...]string{"keep", "add", "remove"}[c.BOM]
	onError := [...]string{"replace", "strict", "ignore"}[c.OnError]
	return "Convert: " + c.From.Name() + " -> " + c.To.Name() +
		", newlines: " + newlines + ", bom: " + bom + ", on_error: " + onError
}

// Convert runs the full pipeline over input.
func Convert(input []byte, cfg Config) ([]byte, error) {
	stripped, hadBOM := stripBOM(input)

	decoded, err := decode(stripped, cfg.From, cfg.OnError)
	if err != nil {
		return nil, err
	}

	decoded = convertNewlines(decoded, cfg.Newlines)

	encoded, err := encode(decoded, cfg.To, cfg.OnError)
	if err != nil {
		return nil, err
	}

	return applyBOMMode(encoded, cfg.To, cfg.BOM, hadBOM), nil
}

// DetectBOMEncoding sniffs the encoding from a leading byte order mark.
// The second return is false when no BOM is present. UTF-16LE must be
// checked after UTF-8 since 0xff 0xfe is not a UTF-8 prefix.
func DetectBOMEncoding(data []byte) (Encoding, bool) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return UTF8, true
	case bytes.HasPrefix(data, utf16BEBOM):
		return UTF16BE, true
	case bytes.HasPrefix(data, utf16LEBOM):
		return UTF16LE, true
	default:
		return UTF8, false
	}
}

func stripBOM(input []byte) ([]byte, bool) {
	for _, bom := range [][]byte{utf8BOM, utf16BEBOM, utf16LEBOM} {
		if bytes.HasPrefix(input, bom) {
			return input[len(bom):], true
		}
	}
	return input, false
}

func decode(input []byte, from Encoding, onError ErrorMode) (string, error) {
	switch from {
	case UTF8:
		if utf8.Valid(input) {
			return string(input), nil
		}
		if onError == ErrorStrict {
			return "", binerr.Parsef("decoding error: input contains invalid sequences for %s encoding", from.Name())
		}
		decoded := strings.ToValidUTF8(string(input), "�")
		if onError == ErrorIgnore {
			decoded = strings.ReplaceAll(decoded, "�", "")
		}
		return decoded, nil

	case UTF16LE, UTF16BE:
		endian := unicode.LittleEndian
		if from == UTF16BE {
			endian = unicode.BigEndian
		}
		dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
		decoded, err := dec.Bytes(input)
		if err != nil {
			return "", binerr.Parsef("decoding error: %v", err)
		}
		s := string(decoded)
		if strings.ContainsRune(s, utf8.RuneError) {
			switch onError {
			case ErrorStrict:
				return "", binerr.Parsef("decoding error: input contains invalid sequences for %s encoding", from.Name())
			case ErrorIgnore:
				s = strings.ReplaceAll(s, "�", "")
			}
		}
		return s, nil

	default: // Windows1252
		var sb strings.Builder
		sb.Grow(len(input))
		for _, b := range input {
			r := charmap.Windows1252.DecodeByte(b)
			if r == utf8.RuneError {
				switch onError {
				case ErrorStrict:
					return "", binerr.Parsef("decoding error: input contains invalid sequences for %s encoding", from.Name())
				case ErrorIgnore:
					continue
				}
			}
			sb.WriteRune(r)
		}
		return sb.String(), nil
	}
}

func convertNewlines(text string, mode NewlineMode) string {
	switch mode {
	case NewlineUnix:
		// CRLF first so lone CRs do not double-convert.
		return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	case NewlineWindows:
		normalized := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
		return strings.ReplaceAll(normalized, "\n", "\r\n")
	case NewlineMac:
		return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\r"), "\n", "\r")
	default:
		return text
	}
}

func encode(text string, to Encoding, onError ErrorMode) ([]byte, error) {
	switch to {
	case UTF8:
		return []byte(text), nil

	case UTF16LE, UTF16BE:
		endian := unicode.LittleEndian
		if to == UTF16BE {
			endian = unicode.BigEndian
		}
		enc := unicode.UTF16(endian, unicode.IgnoreBOM).NewEncoder()
		encoded, err := enc.Bytes([]byte(text))
		if err != nil {
			return nil, binerr.Parsef("encoding error: %v", err)
		}
		return encoded, nil

	default: // Windows1252
		out := make([]byte, 0, len(text))
		for _, r := range text {
			b, ok := charmap.Windows1252.EncodeRune(r)
			if !ok {
				switch onError {
				case ErrorStrict:
					return nil, binerr.Parsef(
						"encoding error: text contains characters that cannot be represented in %s encoding", to.Name())
				case ErrorIgnore:
					continue
				default:
					b = '?'
				}
			}
			out = append(out, b)
		}
		return out, nil
	}
}

func applyBOMMode(data []byte, to Encoding, mode BOMMode, hadBOM bool) []byte {
	switch mode {
	case BOMAdd:
		return append(append([]byte(nil), to.BOM()...), data...)
	case BOMRemove:
		return data
	default:
		if hadBOM {
			return append(append([]byte(nil), to.BOM()...), data...)
		}
		return data
	}
}
