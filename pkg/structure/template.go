// Package structure interprets binary data through YAML field templates:
// named, typed fields at fixed offsets with optional assertions and enum
// labels.
package structure

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saworbit/binkit/pkg/binerr"
)

// Endianness is the byte order for multi-byte fields.
type Endianness int

const (
	// LittleEndian is least significant byte first, the template default.
	LittleEndian Endianness = iota
	// BigEndian is most significant byte first.
	BigEndian
)

// ParseEndianness parses an endianness keyword.
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(s) {
	case "little", "le", "little-endian", "littleendian":
		return LittleEndian, nil
	case "big", "be", "big-endian", "bigendian":
		return BigEndian, nil
	default:
		return 0, binerr.Parsef("invalid endianness %q: expected 'little' or 'big'", s)
	}
}

func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// UnmarshalYAML accepts the keyword forms ParseEndianness does.
func (e *Endianness) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEndianness(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalYAML emits the canonical keyword.
func (e Endianness) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// FieldType is the interpretation applied to a field's raw bytes.
type FieldType string

const (
	TypeU8        FieldType = "u8"
	TypeU16       FieldType = "u16"
	TypeU32       FieldType = "u32"
	TypeU64       FieldType = "u64"
	TypeI8        FieldType = "i8"
	TypeI16       FieldType = "i16"
	TypeI32       FieldType = "i32"
	TypeI64       FieldType = "i64"
	TypeHexString FieldType = "hex_string"
	TypeString    FieldType = "string"
	TypeBytes     FieldType = "bytes"
)

// ParseFieldType parses a field type keyword, accepting common aliases.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(s) {
	case "u8", "uint8", "byte":
		return TypeU8, nil
	case "u16", "uint16", "word", "ushort":
		return TypeU16, nil
	case "u32", "uint32", "dword", "uint":
		return TypeU32, nil
	case "u64", "uint64", "qword", "ulong":
		return TypeU64, nil
	case "i8", "int8", "sbyte":
		return TypeI8, nil
	case "i16", "int16", "short":
		return TypeI16, nil
	case "i32", "int32", "int":
		return TypeI32, nil
	case "i64", "int64", "long":
		return TypeI64, nil
	case "hex_string", "hexstring", "hex":
		return TypeHexString, nil
	case "string", "str", "ascii", "utf8":
		return TypeString, nil
	case "bytes", "raw", "data":
		return TypeBytes, nil
	default:
		return "", binerr.Parsef(
			"invalid field type %q: expected u8, u16, u32, u64, i8, i16, i32, i64, hex_string, string, or bytes", s)
	}
}

// ExpectedSize returns the fixed byte size for integer types and 0 for
// variable-size types.
func (t FieldType) ExpectedSize() int {
	switch t {
	case TypeU8, TypeI8:
		return 1
	case TypeU16, TypeI16:
		return 2
	case TypeU32, TypeI32:
		return 4
	case TypeU64, TypeI64:
		return 8
	default:
		return 0
	}
}

// UnmarshalYAML accepts the aliases ParseFieldType does.
func (t *FieldType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFieldType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Offset is a byte position that unmarshals from either a YAML integer or
// a "0x"-prefixed hex string.
type Offset int

// UnmarshalYAML handles both numeric and hex-string offsets.
func (o *Offset) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*o = Offset(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", s, err)
	}
	*o = Offset(v)
	return nil
}

// MarshalYAML emits the offset as a plain integer.
func (o Offset) MarshalYAML() (interface{}, error) {
	return int(o), nil
}

// FieldDefinition is one field of a template.
type FieldDefinition struct {
	Name   string    `yaml:"name"`
	Offset Offset    `yaml:"offset"`
	Size   int       `yaml:"size"`
	Type   FieldType `yaml:"type,omitempty"`
	// Assert is an expected hex value; parsing records whether the raw
	// bytes matched.
	Assert string `yaml:"assert,omitempty"`
	// Enum maps numeric values (as decimal strings) to display names.
	Enum        map[string]string `yaml:"enum,omitempty"`
	Description string            `yaml:"description,omitempty"`
}

// Template is a complete structure description.
type Template struct {
	Name        string            `yaml:"name"`
	Endian      Endianness        `yaml:"endian,omitempty"`
	Fields      []FieldDefinition `yaml:"fields"`
	Description string            `yaml:"description,omitempty"`
}

// LoadTemplate parses a template from YAML text. Fields without an
// explicit type default to raw bytes.
func LoadTemplate(text []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(text, &tpl); err != nil {
		return nil, binerr.Parsef("failed to parse template YAML: %v", err)
	}
	for i := range tpl.Fields {
		if tpl.Fields[i].Type == "" {
			tpl.Fields[i].Type = TypeBytes
		}
	}
	return &tpl, nil
}

// LoadTemplateFile reads and parses a template file.
func LoadTemplateFile(path string) (*Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %q: %w", path, err)
	}
	return LoadTemplate(content)
}

// TotalSize is the number of bytes the template covers, the maximum of
// offset+size over all fields.
func (t *Template) TotalSize() int {
	total := 0
	for _, f := range t.Fields {
		if end := int(f.Offset) + f.Size; end > total {
			total = end
		}
	}
	return total
}

// GetField finds a field definition by name.
func (t *Template) GetField(name string) *FieldDefinition {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Validate checks for duplicate field names and size/type mismatches.
func (t *Template) Validate() error {
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if seen[f.Name] {
			return binerr.Parsef("duplicate field name %q in template", f.Name)
		}
		seen[f.Name] = true
	}

	for _, f := range t.Fields {
		if expected := f.Type.ExpectedSize(); expected != 0 && f.Size != expected {
			return binerr.Parsef("field %q has type %s which requires %d bytes, but size is %d",
				f.Name, f.Type, expected, f.Size)
		}
	}
	return nil
}
