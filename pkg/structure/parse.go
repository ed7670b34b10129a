package structure

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// ParsedField is one field's interpreted value.
type ParsedField struct {
	Name     string `json:"name" yaml:"name"`
	Offset   int    `json:"offset" yaml:"offset"`
	Size     int    `json:"size" yaml:"size"`
	RawBytes []byte `json:"-" yaml:"-"`
	// Value is the display string, including the enum label when one
	// matched.
	Value           string `json:"value" yaml:"value"`
	NumericValue    *int64 `json:"numeric_value,omitempty" yaml:"numeric_value,omitempty"`
	EnumName        string `json:"enum_name,omitempty" yaml:"enum_name,omitempty"`
	AssertionPassed *bool  `json:"assertion_passed,omitempty" yaml:"assertion_passed,omitempty"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ParsedStruct is the result of applying a template to data.
type ParsedStruct struct {
	Name                string        `json:"name" yaml:"name"`
	Description         string        `json:"description,omitempty" yaml:"description,omitempty"`
	Fields              []ParsedField `json:"fields" yaml:"fields"`
	AllAssertionsPassed bool          `json:"all_assertions_passed" yaml:"all_assertions_passed"`
}

// Config selects what Parse extracts and how it is rendered.
type Config struct {
	Format OutputFormat
	// GetFields restricts parsing to the named fields; empty means all.
	GetFields []string
	// ListFields renders the template itself instead of parsing data.
	ListFields bool
}

// Parse applies the template to data, validating it first. Fields outside
// the data bounds fail with an invalid range error.
func Parse(data []byte, tpl *Template, cfg Config) (*ParsedStruct, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(cfg.GetFields))
	for _, name := range cfg.GetFields {
		want[name] = true
	}

	parsed := &ParsedStruct{
		Name:                tpl.Name,
		Description:         tpl.Description,
		AllAssertionsPassed: true,
	}

	for _, def := range tpl.Fields {
		if len(want) > 0 && !want[def.Name] {
			continue
		}

		field, err := parseField(data, def, tpl.Endian)
		if err != nil {
			return nil, err
		}
		if field.AssertionPassed != nil && !*field.AssertionPassed {
			parsed.AllAssertionsPassed = false
		}
		parsed.Fields = append(parsed.Fields, *field)
	}
	return parsed, nil
}

func parseField(data []byte, def FieldDefinition, endian Endianness) (*ParsedField, error) {
	offset := int(def.Offset)
	if offset+def.Size > len(data) {
		return nil, binerr.InvalidRangef("field %q at offset 0x%x with size %d exceeds data length %d",
			def.Name, offset, def.Size, len(data))
	}

	raw := append([]byte(nil), data[offset:offset+def.Size]...)
	value, numeric := interpretField(raw, def.Type, endian)

	enumName := ""
	if def.Enum != nil && numeric != nil {
		enumName = def.Enum[strconv.FormatInt(*numeric, 10)]
	}

	var assertionPassed *bool
	if def.Assert != "" {
		expected := parseAssertValue(def.Assert)
		ok := expected != nil && string(expected) == string(raw)
		assertionPassed = &ok
	}

	display := value
	if enumName != "" {
		display = fmt.Sprintf("%s (%s)", value, enumName)
	}

	return &ParsedField{
		Name:            def.Name,
		Offset:          offset,
		Size:            def.Size,
		RawBytes:        raw,
		Value:           display,
		NumericValue:    numeric,
		EnumName:        enumName,
		AssertionPassed: assertionPassed,
		Description:     def.Description,
	}, nil
}

func interpretField(raw []byte, fieldType FieldType, endian Endianness) (string, *int64) {
	var order binary.ByteOrder = binary.LittleEndian
	if endian == BigEndian {
		order = binary.BigEndian
	}

	num := func(v int64) (string, *int64) {
		return strconv.FormatInt(v, 10), &v
	}

	switch fieldType {
	case TypeU8:
		return num(int64(raw[0]))
	case TypeI8:
		return num(int64(int8(raw[0])))
	case TypeU16:
		return num(int64(order.Uint16(raw)))
	case TypeI16:
		return num(int64(int16(order.Uint16(raw))))
	case TypeU32:
		return num(int64(order.Uint32(raw)))
	case TypeI32:
		return num(int64(int32(order.Uint32(raw))))
	case TypeU64:
		// Values above math.MaxInt64 wrap in the numeric field; the display
		// string stays exact.
		v := order.Uint64(raw)
		signed := int64(v)
		return strconv.FormatUint(v, 10), &signed
	case TypeI64:
		return num(int64(order.Uint64(raw)))
	case TypeString:
		end := len(raw)
		for i, b := range raw {
			if b == 0 {
				end = i
				break
			}
		}
		return fmt.Sprintf("%q", string(raw[:end])), nil
	default: // TypeHexString, TypeBytes
		parts := make([]string, len(raw))
		for i, b := range raw {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		return strings.Join(parts, " "), nil
	}
}

// parseAssertValue decodes an assertion hex string, tolerating a 0x
// prefix and embedded whitespace. Returns nil when undecodable.
func parseAssertValue(value string) []byte {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Join(strings.Fields(s), "")
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return decoded
}

// GetFieldValue returns the display value of a named parsed field.
func GetFieldValue(parsed *ParsedStruct, name string) (string, bool) {
	for _, f := range parsed.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
