package search

import (
	"fmt"
	"strings"

	"github.com/saworbit/binkit/pkg/display"
)

// FormatOptions controls how matches are rendered. These are display
// concerns only and never affect matching semantics.
type FormatOptions struct {
	// Format is the byte rendering: hex, dec, oct, bin, ascii.
	Format string
	// ChunkBits is the bits-per-chunk display granularity.
	ChunkBits int
	// CountOnly prints just the number of matches.
	CountOnly bool
	// OffsetsOnly prints one 0x%08x offset per match.
	OffsetsOnly bool
	// Context is the number of bytes shown before and after each match.
	Context int
}

// FormatResults renders matches against the haystack they were found in.
func FormatResults(haystack []byte, matches []Match, opts FormatOptions) (string, error) {
	if opts.CountOnly {
		return fmt.Sprintf("%d", len(matches)), nil
	}

	var sb strings.Builder
	for i, m := range matches {
		if i > 0 {
			sb.WriteByte('\n')
		}

		switch {
		case opts.OffsetsOnly:
			fmt.Fprintf(&sb, "0x%08x", m.Offset)
		case opts.Context > 0:
			beforeStart := m.Offset - opts.Context
			if beforeStart < 0 {
				beforeStart = 0
			}
			afterEnd := m.Offset + len(m.Data) + opts.Context
			if afterEnd > len(haystack) {
				afterEnd = len(haystack)
			}
			before := haystack[beforeStart:m.Offset]
			after := haystack[m.Offset+len(m.Data) : afterEnd]

			formatted, err := display.MatchWithContext(m.Offset, m.Data, before, after, opts.Format, opts.ChunkBits)
			if err != nil {
				return "", err
			}
			sb.WriteString(formatted)
		default:
			formatted, err := display.Match(m.Offset, m.Data, opts.Format, opts.ChunkBits)
			if err != nil {
				return "", err
			}
			sb.WriteString(formatted)
		}
	}
	return sb.String(), nil
}
