package analyze

import (
	"fmt"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// OutputFormat selects the rendering of analysis results.
type OutputFormat int

const (
	// FormatHuman is the default readable text layout.
	FormatHuman OutputFormat = iota
	// FormatCSV emits one record per line with a header row.
	FormatCSV
	// FormatJSON emits a single JSON document.
	FormatJSON
)

// ParseOutputFormat parses an output format keyword.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "human", "text":
		return FormatHuman, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, binerr.InvalidInputf("unknown output format %q: valid formats: human, csv, json", s)
	}
}

// metricSpec carries the per-metric labels and precision used by the
// shared block-result renderer.
type metricSpec struct {
	title     string
	fieldName string // csv/json key
	label     string // human label, e.g. "Entropy"
	unit      string // appended after the value in human output
	precision int
	reference string // extra reference block for human output, may be empty
}

var metricSpecs = map[string]metricSpec{
	"entropy": {
		title:     "Entropy Analysis",
		fieldName: "entropy",
		label:     "Entropy",
		unit:      " bits/byte",
		precision: 4,
	},
	"ic": {
		title:     "Index of Coincidence Analysis",
		fieldName: "ic",
		label:     "IC",
		precision: 6,
		reference: "\nReference values:\n  Random data:  ~0.0039 (1/256)\n  English text: ~0.0667\n",
	},
	"ratio": {
		title:     "Compressibility Analysis",
		fieldName: "ratio",
		label:     "Compression ratio",
		precision: 4,
	},
}

// formatBlockResults renders per-block metric records in the configured
// output format. Multi-block human output leads with summary statistics;
// single-block output shows the value and its interpretation.
func formatBlockResults(results []BlockResult, cfg Config, metric string, interpret func(float64) string) string {
	spec := metricSpecs[metric]
	switch cfg.Format {
	case FormatCSV:
		var sb strings.Builder
		fmt.Fprintf(&sb, "offset,size,%s\n", spec.fieldName)
		for _, r := range results {
			fmt.Fprintf(&sb, "%d,%d,%.*f\n", r.Offset, r.Size, spec.precision, r.Value)
		}
		return sb.String()

	case FormatJSON:
		blocks := make([]string, len(results))
		for i, r := range results {
			blocks[i] = fmt.Sprintf(`{"offset":%d,"size":%d,"%s":%.6f}`, r.Offset, r.Size, spec.fieldName, r.Value)
		}
		if len(results) == 1 {
			return blocks[0]
		}
		return fmt.Sprintf(`{"blocks":[%s]}`, strings.Join(blocks, ","))

	default:
		return formatBlocksHuman(results, cfg, spec, interpret)
	}
}

func formatBlocksHuman(results []BlockResult, cfg Config, spec metricSpec, interpret func(float64) string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", spec.title)

	if len(results) > 1 {
		min, max, sum := results[0].Value, results[0].Value, 0.0
		for _, r := range results {
			if r.Value < min {
				min = r.Value
			}
			if r.Value > max {
				max = r.Value
			}
			sum += r.Value
		}
		avg := sum / float64(len(results))

		fmt.Fprintf(&sb, "Blocks: %d\n", len(results))
		fmt.Fprintf(&sb, "Block size: %d bytes\n", cfg.BlockSize)
		fmt.Fprintf(&sb, "Min %s: %.*f%s\n", strings.ToLower(spec.label), spec.precision, min, spec.unit)
		fmt.Fprintf(&sb, "Max %s: %.*f%s\n", strings.ToLower(spec.label), spec.precision, max, spec.unit)
		fmt.Fprintf(&sb, "Avg %s: %.*f%s\n", strings.ToLower(spec.label), spec.precision, avg, spec.unit)
		sb.WriteString(spec.reference)
		sb.WriteString("\n--- Block Details ---\n")

		for _, r := range results {
			fmt.Fprintf(&sb, "Offset 0x%08x: %.*f%s (%s)\n",
				r.Offset, spec.precision, r.Value, spec.unit, interpret(r.Value))
		}
		return sb.String()
	}

	r := results[0]
	fmt.Fprintf(&sb, "Size: %d bytes\n", r.Size)
	fmt.Fprintf(&sb, "%s: %.*f%s\n", spec.label, spec.precision, r.Value, spec.unit)
	fmt.Fprintf(&sb, "Interpretation: %s\n", interpret(r.Value))
	sb.WriteString(spec.reference)
	return sb.String()
}

// formatHistogram renders the frequency distribution. Human output shows
// the top 20 values with a proportional bar.
func formatHistogram(hist []ByteFrequency, totalBytes int, format OutputFormat) string {
	switch format {
	case FormatCSV:
		var sb strings.Builder
		sb.WriteString("byte_value,hex,count,percentage\n")
		for _, e := range hist {
			fmt.Fprintf(&sb, "%d,0x%02x,%d,%.4f\n", e.ByteValue, e.ByteValue, e.Count, e.Percentage)
		}
		return sb.String()

	case FormatJSON:
		entries := make([]string, len(hist))
		for i, e := range hist {
			entries[i] = fmt.Sprintf(`{"byte":%d,"hex":"0x%02x","count":%d,"percentage":%.4f}`,
				e.ByteValue, e.ByteValue, e.Count, e.Percentage)
		}
		return fmt.Sprintf(`{"total_bytes":%d,"unique_values":%d,"frequencies":[%s]}`,
			totalBytes, len(hist), strings.Join(entries, ","))

	default:
		var sb strings.Builder
		sb.WriteString("=== Byte Frequency Histogram ===\n")
		fmt.Fprintf(&sb, "Total bytes: %d\n", totalBytes)
		fmt.Fprintf(&sb, "Unique byte values: %d\n\n", len(hist))
		sb.WriteString("Top 20 most frequent bytes:\n")
		sb.WriteString("Byte   Hex   Count      Percentage  Bar\n")
		sb.WriteString(strings.Repeat("─", 41) + "\n")

		for i, e := range hist {
			if i >= 20 {
				break
			}
			barLen := int(e.Percentage/2.0 + 0.5)
			if barLen > 25 {
				barLen = 25
			}
			printable := "   "
			if e.ByteValue >= 0x21 && e.ByteValue <= 0x7e || e.ByteValue == ' ' {
				printable = fmt.Sprintf("'%c'", e.ByteValue)
			}
			fmt.Fprintf(&sb, "%3s  0x%02x %10d  %6.2f%%     %s\n",
				printable, e.ByteValue, e.Count, e.Percentage, strings.Repeat("█", barLen))
		}
		return sb.String()
	}
}
