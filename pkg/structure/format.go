package structure

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saworbit/binkit/pkg/binerr"
)

// OutputFormat selects the rendering of parsed structures.
type OutputFormat int

const (
	// FormatHuman is a readable aligned table.
	FormatHuman OutputFormat = iota
	// FormatJSON is pretty-printed JSON.
	FormatJSON
	// FormatYAML is a YAML document.
	FormatYAML
)

// ParseOutputFormat parses an output format keyword.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "human", "table", "text":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, binerr.Parsef("invalid output format %q: expected 'human', 'json', or 'yaml'", s)
	}
}

// FormatOutput renders a parsed structure in the configured format.
func FormatOutput(parsed *ParsedStruct, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return "", binerr.Parsef("failed to serialize to JSON: %v", err)
		}
		return string(out), nil
	case FormatYAML:
		out, err := yaml.Marshal(parsed)
		if err != nil {
			return "", binerr.Parsef("failed to serialize to YAML: %v", err)
		}
		return string(out), nil
	default:
		return formatHuman(parsed), nil
	}
}

func formatHuman(parsed *ParsedStruct) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Structure: %s\n", parsed.Name)
	if parsed.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", parsed.Description)
	}
	status := "✓ All passed"
	if !parsed.AllAssertionsPassed {
		status = "✗ Some failed"
	}
	fmt.Fprintf(&sb, "Assertions: %s\n\n", status)

	nameWidth, valueWidth := 4, 5
	for _, f := range parsed.Fields {
		if len(f.Name) > nameWidth {
			nameWidth = len(f.Name)
		}
		if len(f.Value) > valueWidth {
			valueWidth = len(f.Value)
		}
	}
	const offsetWidth, sizeWidth = 10, 4

	fmt.Fprintf(&sb, "%-*s  %*s  %*s  %-*s  Status\n",
		nameWidth, "Name", offsetWidth, "Offset", sizeWidth, "Size", valueWidth, "Value")
	fmt.Fprintf(&sb, "%s  %s  %s  %s  ------\n",
		strings.Repeat("-", nameWidth), strings.Repeat("-", offsetWidth),
		strings.Repeat("-", sizeWidth), strings.Repeat("-", valueWidth))

	for _, f := range parsed.Fields {
		status := ""
		if f.AssertionPassed != nil {
			if *f.AssertionPassed {
				status = "✓"
			} else {
				status = "✗ FAIL"
			}
		}
		fmt.Fprintf(&sb, "%-*s  0x%08x  %*d  %-*s  %s\n",
			nameWidth, f.Name, f.Offset, sizeWidth, f.Size, valueWidth, f.Value, status)
	}
	return sb.String()
}

// ListFields renders the template's field table without parsing any data.
func ListFields(tpl *Template) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Template: %s\n", tpl.Name)
	if tpl.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", tpl.Description)
	}
	fmt.Fprintf(&sb, "Endianness: %s\n", tpl.Endian)
	fmt.Fprintf(&sb, "Total size: %d bytes\n", tpl.TotalSize())
	fmt.Fprintf(&sb, "Fields: %d\n\n", len(tpl.Fields))

	nameWidth := 4
	for _, f := range tpl.Fields {
		if len(f.Name) > nameWidth {
			nameWidth = len(f.Name)
		}
	}
	const typeWidth = 10

	fmt.Fprintf(&sb, "%-*s  %10s  %4s  %-*s  Description\n",
		nameWidth, "Name", "Offset", "Size", typeWidth, "Type")
	fmt.Fprintf(&sb, "%s  %s  %s  %s  -----------\n",
		strings.Repeat("-", nameWidth), strings.Repeat("-", 10),
		strings.Repeat("-", 4), strings.Repeat("-", typeWidth))

	for _, f := range tpl.Fields {
		desc := f.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(&sb, "%-*s  0x%08x  %4d  %-*s  %s\n",
			nameWidth, f.Name, int(f.Offset), f.Size, typeWidth, string(f.Type), desc)
	}
	return sb.String()
}
