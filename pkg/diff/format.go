package diff

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/saworbit/binkit/pkg/binerr"
)

// ColorMode controls ANSI color emission.
type ColorMode int

const (
	// ColorAuto enables color when stdout is a color-capable terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on.
	ColorAlways
	// ColorNever forces color off.
	ColorNever
)

// ParseColorMode parses a color mode keyword.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return 0, binerr.InvalidInputf("unknown color mode %q: supported: auto, always, never", s)
	}
}

const (
	ansiReset      = "\x1b[0m"
	ansiBoldRed    = "\x1b[1;31m"
	ansiBoldGreen  = "\x1b[1;32m"
	ansiBoldYellow = "\x1b[1;33m"
	ansiCyan       = "\x1b[36m"
	ansiDim        = "\x1b[2m"
	ansiMagenta    = "\x1b[35m"
)

func (m ColorMode) enabled() bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return termenv.ColorProfile() != termenv.Ascii
	}
}

// FormatDiff renders the differences in the configured format. FormatAuto
// resolves to a concrete format from the difference density before
// rendering. Names are used in headers only.
func FormatDiff(data1, data2 []byte, diffs []Entry, name1, name2 string, cfg Config) (string, error) {
	format := cfg.Format
	if format == FormatAuto {
		maxLen := len(data1)
		if len(data2) > maxLen {
			maxLen = len(data2)
		}
		format = AutoSelect(len(diffs), maxLen)
	}

	useColor := cfg.Color.enabled()

	switch format {
	case FormatSimple:
		return formatSimple(diffs, useColor), nil
	case FormatUnified:
		return formatUnified(data1, data2, diffs, name1, name2, cfg, useColor), nil
	case FormatSideBySide:
		return formatSideBySide(data1, data2, diffs, name1, name2, cfg, useColor), nil
	case FormatPatch:
		return FormatPatchText(diffs, name1, name2), nil
	case FormatSummary:
		return formatSummary(data1, data2, diffs, name1, name2), nil
	default:
		return "", binerr.InvalidInputf("unknown diff format %d", format)
	}
}

func hexOrEOF(b *byte, useColor bool, color string) string {
	if b == nil {
		if useColor {
			return ansiDim + "EOF" + ansiReset
		}
		return "EOF"
	}
	if useColor {
		return fmt.Sprintf("%s0x%02x%s", color, *b, ansiReset)
	}
	return fmt.Sprintf("0x%02x", *b)
}

// formatSimple emits one `0xOFFSET: 0xAA != 0xBB` line per entry. Missing
// sides render as EOF.
func formatSimple(diffs []Entry, useColor bool) string {
	lines := make([]string, len(diffs))
	for i, d := range diffs {
		b1 := hexOrEOF(d.Byte1, useColor, ansiBoldRed)
		b2 := hexOrEOF(d.Byte2, useColor, ansiBoldGreen)
		if useColor {
			lines[i] = fmt.Sprintf("%s0x%08x%s: %s != %s", ansiCyan, d.Offset, ansiReset, b1, b2)
		} else {
			lines[i] = fmt.Sprintf("0x%08x: %s != %s", d.Offset, b1, b2)
		}
	}
	return strings.Join(lines, "\n")
}

func formatUnified(data1, data2 []byte, diffs []Entry, name1, name2 string, cfg Config, useColor bool) string {
	if len(diffs) == 0 {
		return ""
	}

	var sb strings.Builder
	if useColor {
		fmt.Fprintf(&sb, "%s--- %s%s\n", ansiBoldRed, name1, ansiReset)
		fmt.Fprintf(&sb, "%s+++ %s%s\n", ansiBoldGreen, name2, ansiReset)
	} else {
		fmt.Fprintf(&sb, "--- %s\n", name1)
		fmt.Fprintf(&sb, "+++ %s\n", name2)
	}

	for _, hunkIdx := range GroupIntoHunks(diffs, cfg.Context) {
		hunk := make([]Entry, len(hunkIdx))
		for i, idx := range hunkIdx {
			hunk[i] = diffs[idx]
		}
		formatUnifiedHunk(&sb, data1, data2, hunk, cfg, useColor)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatUnifiedHunk(sb *strings.Builder, data1, data2 []byte, hunk []Entry, cfg Config, useColor bool) {
	if len(hunk) == 0 {
		return
	}

	firstOffset := hunk[0].Offset
	lastOffset := hunk[len(hunk)-1].Offset

	start := firstOffset - cfg.Context
	if start < 0 {
		start = 0
	}
	end1 := min(lastOffset+cfg.Context+1, len(data1))
	end2 := min(lastOffset+cfg.Context+1, len(data2))
	end := max(end1, end2)

	header := fmt.Sprintf("@@ -0x%x,0x%x +0x%x,0x%x @@",
		start, maxInt0(end1-start), start, maxInt0(end2-start))
	if useColor {
		fmt.Fprintf(sb, "%s%s%s\n", ansiMagenta, header, ansiReset)
	} else {
		sb.WriteString(header + "\n")
	}

	diffOffsets := make(map[int]bool, len(hunk))
	for _, d := range hunk {
		diffOffsets[d.Offset] = true
	}

	for offset := start; offset < end; {
		lineEnd := min(offset+cfg.Width, end)

		hasDiff := false
		for o := offset; o < lineEnd; o++ {
			if diffOffsets[o] {
				hasDiff = true
				break
			}
		}

		if hasDiff {
			formatUnifiedLine(sb, data1, offset, lineEnd, '-', useColor, diffOffsets)
			formatUnifiedLine(sb, data2, offset, lineEnd, '+', useColor, diffOffsets)
		} else {
			formatUnifiedLine(sb, data1, offset, lineEnd, ' ', useColor, diffOffsets)
		}
		offset = lineEnd
	}
}

func markerColor(marker byte) string {
	switch marker {
	case '-':
		return ansiBoldRed
	case '+':
		return ansiBoldGreen
	default:
		return ansiBoldYellow
	}
}

func formatUnifiedLine(sb *strings.Builder, data []byte, start, end int, marker byte, useColor bool, diffOffsets map[int]bool) {
	if useColor && (marker == '-' || marker == '+') {
		fmt.Fprintf(sb, "%s%c%s", markerColor(marker), marker, ansiReset)
	} else {
		sb.WriteByte(marker)
	}
	fmt.Fprintf(sb, "0x%08x: ", start)

	for offset := start; offset < end; offset++ {
		if offset >= len(data) {
			if useColor {
				sb.WriteString(ansiDim + "--" + ansiReset + " ")
			} else {
				sb.WriteString("-- ")
			}
			continue
		}
		if useColor && diffOffsets[offset] {
			fmt.Fprintf(sb, "%s%02x%s ", markerColor(marker), data[offset], ansiReset)
		} else {
			fmt.Fprintf(sb, "%02x ", data[offset])
		}
	}

	sb.WriteString(" |")
	for offset := start; offset < end; offset++ {
		if offset >= len(data) {
			sb.WriteByte(' ')
			continue
		}
		ch := byte('.')
		if data[offset] >= 0x20 && data[offset] <= 0x7e {
			ch = data[offset]
		}
		if useColor && diffOffsets[offset] {
			fmt.Fprintf(sb, "%s%c%s", markerColor(marker), ch, ansiReset)
		} else {
			sb.WriteByte(ch)
		}
	}
	sb.WriteString("|\n")
}

func formatSideBySide(data1, data2 []byte, diffs []Entry, name1, name2 string, cfg Config, useColor bool) string {
	if len(diffs) == 0 {
		return ""
	}

	var sb strings.Builder
	diffOffsets := make(map[int]bool, len(diffs))
	for _, d := range diffs {
		diffOffsets[d.Offset] = true
	}

	halfWidth := cfg.Width*3 + 12
	if useColor {
		fmt.Fprintf(&sb, "%s%-*s%s | %s%-*s%s\n",
			ansiBoldRed, halfWidth, name1, ansiReset,
			ansiBoldGreen, halfWidth, name2, ansiReset)
	} else {
		fmt.Fprintf(&sb, "%-*s | %-*s\n", halfWidth, name1, halfWidth, name2)
	}
	fmt.Fprintf(&sb, "%s-+-%s\n", strings.Repeat("-", halfWidth), strings.Repeat("-", halfWidth))

	for _, hunkIdx := range GroupIntoHunks(diffs, cfg.Context) {
		firstOffset := diffs[hunkIdx[0]].Offset
		lastOffset := diffs[hunkIdx[len(hunkIdx)-1]].Offset

		start := firstOffset - cfg.Context
		if start < 0 {
			start = 0
		}
		end1 := min(lastOffset+cfg.Context+1, len(data1))
		end2 := min(lastOffset+cfg.Context+1, len(data2))
		end := max(end1, end2)

		// Align to a line boundary so both columns stay in step.
		start = (start / cfg.Width) * cfg.Width

		for offset := start; offset < end; {
			lineEnd := min(offset+cfg.Width, end)

			hasDiff := false
			for o := offset; o < lineEnd; o++ {
				if diffOffsets[o] {
					hasDiff = true
					break
				}
			}

			sb.WriteString(formatSideLine(data1, offset, lineEnd, useColor, diffOffsets, true))
			if hasDiff {
				if useColor {
					fmt.Fprintf(&sb, " %s!%s ", ansiBoldYellow, ansiReset)
				} else {
					sb.WriteString(" ! ")
				}
			} else {
				sb.WriteString(" | ")
			}
			sb.WriteString(formatSideLine(data2, offset, lineEnd, useColor, diffOffsets, false))
			sb.WriteByte('\n')

			offset = lineEnd
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSideLine(data []byte, start, end int, useColor bool, diffOffsets map[int]bool, isLeft bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "0x%08x: ", start)

	for offset := start; offset < end; offset++ {
		if offset >= len(data) {
			sb.WriteString("   ")
			continue
		}
		if useColor && diffOffsets[offset] {
			color := ansiBoldGreen
			if isLeft {
				color = ansiBoldRed
			}
			fmt.Fprintf(&sb, "%s%02x%s ", color, data[offset], ansiReset)
		} else {
			fmt.Fprintf(&sb, "%02x ", data[offset])
		}
	}
	return sb.String()
}

func formatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024.0)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024.0*1024.0))
	}
}

func formatSummary(data1, data2 []byte, diffs []Entry, name1, name2 string) string {
	var sb strings.Builder
	sb.WriteString("Binary Diff Summary\n")
	sb.WriteString("===================\n\n")
	fmt.Fprintf(&sb, "File 1: %s (%s)\n", name1, formatSize(len(data1)))
	fmt.Fprintf(&sb, "File 2: %s (%s)\n\n", name2, formatSize(len(data2)))

	changed, deleted, added := categorize(diffs)
	totalDiffs := len(diffs)
	maxSize := max(len(data1), len(data2))

	if maxSize == 0 {
		sb.WriteString("Both files are empty\n")
		return sb.String()
	}

	sb.WriteString("Overview:\n")
	fmt.Fprintf(&sb, "  Total differences: %10d bytes (%5.1f%% of file)\n",
		totalDiffs, float64(totalDiffs)/float64(maxSize)*100.0)
	fmt.Fprintf(&sb, "  Changed bytes:     %10d       (%5.1f%%)\n",
		changed, float64(changed)/float64(maxSize)*100.0)
	if deleted > 0 {
		fmt.Fprintf(&sb, "  Deleted bytes:     %10d       (%5.1f%%) - file1 larger\n",
			deleted, float64(deleted)/float64(len(data1))*100.0)
	}
	if added > 0 {
		fmt.Fprintf(&sb, "  Added bytes:       %10d       (%5.1f%%) - file2 larger\n",
			added, float64(added)/float64(len(data2))*100.0)
	}

	sizeDiff := len(data2) - len(data1)
	if sizeDiff != 0 {
		sign := "+"
		abs := sizeDiff
		if sizeDiff < 0 {
			sign = "-"
			abs = -sizeDiff
		}
		fmt.Fprintf(&sb, "  File size change:  %10d bytes (%s%4.1f%%)\n",
			abs, sign, float64(abs)/float64(len(data1))*100.0)
	}
	sb.WriteByte('\n')

	sb.WriteString("Assessment:\n")
	diffPercent := float64(totalDiffs) / float64(maxSize) * 100.0
	switch {
	case diffPercent > 80.0:
		sb.WriteString("  Files are substantially different (>80% changed)\n")
		sb.WriteString("  Likely: Major version update, recompilation, or different builds\n")
	case diffPercent > 50.0:
		sb.WriteString("  Files have major differences (50-80% changed)\n")
		sb.WriteString("  Likely: Significant refactoring or feature additions\n")
	case diffPercent > 10.0:
		sb.WriteString("  Files have moderate differences (10-50% changed)\n")
		sb.WriteString("  Likely: Bug fixes, minor updates, or targeted changes\n")
	case diffPercent > 0.0:
		sb.WriteString("  Files have minor differences (<10% changed)\n")
		sb.WriteString("  Likely: Patch, hotfix, or configuration change\n")
	default:
		sb.WriteString("  Files are identical\n")
	}
	sb.WriteByte('\n')

	if totalDiffs > 0 {
		sb.WriteString("Suggestions:\n")
		sb.WriteString("  --format unified      : View grouped changes with context\n")
		sb.WriteString("  --format patch        : Generate machine-readable patch\n")
		sb.WriteString("  --format side-by-side : Two-column hex comparison\n")
	}
	return sb.String()
}

func maxInt0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
