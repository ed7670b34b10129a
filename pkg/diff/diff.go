// Package diff compares byte sequences position by position and renders
// the differences in several formats, from one-line-per-byte listings to
// grouped hunks and statistical summaries. It also produces and applies
// byte-level patches, plus compact bsdiff patches for whole files.
package diff

import (
	"fmt"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// Format selects the rendering of comparison results.
type Format int

const (
	// FormatSimple is one line per differing byte.
	FormatSimple Format = iota
	// FormatUnified groups differences into hunks with context, like a
	// unified text diff.
	FormatUnified
	// FormatSideBySide is a two-column hex view.
	FormatSideBySide
	// FormatPatch is the machine-readable OFFSET:OLD:NEW listing.
	FormatPatch
	// FormatSummary is a statistical overview without byte detail.
	FormatSummary
	// FormatAuto picks a format from the difference density.
	FormatAuto
)

// ParseFormat parses a diff format keyword.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "simple":
		return FormatSimple, nil
	case "unified":
		return FormatUnified, nil
	case "side-by-side", "sidebyside", "side":
		return FormatSideBySide, nil
	case "patch":
		return FormatPatch, nil
	case "summary":
		return FormatSummary, nil
	case "auto":
		return FormatAuto, nil
	default:
		return 0, binerr.InvalidInputf(
			"unknown diff format %q: supported: simple, unified, side-by-side, patch, summary, auto", s)
	}
}

// AutoSelect picks the output format from difference density: sparse
// diffs list every byte, moderate diffs group into hunks, and heavily
// divergent files get a summary.
func AutoSelect(totalDiffs, fileSize int) Format {
	if fileSize == 0 || totalDiffs == 0 {
		return FormatSimple
	}

	ratio := float64(totalDiffs) / float64(fileSize)
	switch {
	case ratio < 0.01:
		return FormatSimple
	case ratio < 0.50:
		return FormatUnified
	default:
		return FormatSummary
	}
}

// ByteRange is a half-open [Start, End) span of offsets.
type ByteRange struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the range.
func (r ByteRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Entry is a single differing position. Byte1 and Byte2 are nil when the
// offset is past the end of the corresponding input.
type Entry struct {
	Offset int
	Byte1  *byte
	Byte2  *byte
}

// IsChange reports whether both inputs have a byte here.
func (e Entry) IsChange() bool { return e.Byte1 != nil && e.Byte2 != nil }

// IsDeletion reports whether the byte exists only in the first input.
func (e Entry) IsDeletion() bool { return e.Byte1 != nil && e.Byte2 == nil }

// IsAddition reports whether the byte exists only in the second input.
func (e Entry) IsAddition() bool { return e.Byte1 == nil && e.Byte2 != nil }

// Config holds the comparison and rendering settings.
type Config struct {
	Format Format
	// Context is the number of bytes shown around each hunk in unified
	// and side-by-side output.
	Context int
	Color   ColorMode
	// IgnoreRanges are offset spans excluded from comparison.
	IgnoreRanges []ByteRange
	// Width is the number of bytes per output line.
	Width int
}

// DefaultConfig returns the standard diff settings.
func DefaultConfig() Config {
	return Config{
		Format:  FormatSimple,
		Context: 3,
		Color:   ColorAuto,
		Width:   16,
	}
}

// Compare walks both inputs over the full length of the longer one and
// records every position where the bytes differ or where exactly one
// input has ended. Ignored ranges are skipped entirely. Entries come out
// in strictly increasing offset order.
func Compare(data1, data2 []byte, cfg Config) []Entry {
	maxLen := len(data1)
	if len(data2) > maxLen {
		maxLen = len(data2)
	}

	var diffs []Entry
	for offset := 0; offset < maxLen; offset++ {
		if isIgnored(offset, cfg.IgnoreRanges) {
			continue
		}

		var b1, b2 *byte
		if offset < len(data1) {
			v := data1[offset]
			b1 = &v
		}
		if offset < len(data2) {
			v := data2[offset]
			b2 = &v
		}

		if !bytesEqual(b1, b2) {
			diffs = append(diffs, Entry{Offset: offset, Byte1: b1, Byte2: b2})
		}
	}
	return diffs
}

func isIgnored(offset int, ranges []ByteRange) bool {
	for _, r := range ranges {
		if r.Contains(offset) {
			return true
		}
	}
	return false
}

func bytesEqual(a, b *byte) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// GroupIntoHunks clusters entries into hunks using adaptive gap
// thresholds: tiny gaps always merge, and larger hunks tolerate larger
// gaps so dense regions do not fragment. Returns indices into diffs.
func GroupIntoHunks(diffs []Entry, context int) [][]int {
	if len(diffs) == 0 {
		return nil
	}

	var hunks [][]int
	current := []int{0}
	for idx := 1; idx < len(diffs); idx++ {
		lastOffset := diffs[current[len(current)-1]].Offset
		gap := diffs[idx].Offset - lastOffset

		n := len(current)
		merge := gap <= 16 ||
			(n > 100 && gap <= 256) ||
			(n > 20 && gap <= 128) ||
			gap <= 64 ||
			gap <= 2*context+1

		if merge {
			current = append(current, idx)
		} else {
			hunks = append(hunks, current)
			current = []int{idx}
		}
	}
	return append(hunks, current)
}

// Summary is the one-line difference count breakdown.
func Summary(diffs []Entry, data1Len, data2Len int) string {
	changed, deleted, added := categorize(diffs)
	return fmt.Sprintf("%d difference(s): %d changed, %d deleted, %d added (file1: %d bytes, file2: %d bytes)",
		len(diffs), changed, deleted, added, data1Len, data2Len)
}

func categorize(diffs []Entry) (changed, deleted, added int) {
	for _, d := range diffs {
		switch {
		case d.IsChange():
			changed++
		case d.IsDeletion():
			deleted++
		case d.IsAddition():
			added++
		}
	}
	return changed, deleted, added
}
