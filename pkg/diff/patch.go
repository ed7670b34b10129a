package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// FormatPatchText renders entries as a text patch: a commented header
// followed by one OFFSET:OLD_HEX:NEW_HEX line per difference. A missing
// side leaves its field empty, which marks bytes past one file's end.
func FormatPatchText(diffs []Entry, name1, name2 string) string {
	var sb strings.Builder
	sb.WriteString("# binkit patch file\n")
	fmt.Fprintf(&sb, "# source: %s\n", name1)
	fmt.Fprintf(&sb, "# target: %s\n", name2)
	sb.WriteString("# format: OFFSET:OLD_HEX:NEW_HEX\n")
	fmt.Fprintf(&sb, "# differences: %d\n", len(diffs))
	sb.WriteString("#\n")

	for _, d := range diffs {
		oldHex, newHex := "", ""
		if d.Byte1 != nil {
			oldHex = fmt.Sprintf("%02x", *d.Byte1)
		}
		if d.Byte2 != nil {
			newHex = fmt.Sprintf("%02x", *d.Byte2)
		}
		fmt.Fprintf(&sb, "0x%08x:%s:%s\n", d.Offset, oldHex, newHex)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ParsePatchText parses the OFFSET:OLD_HEX:NEW_HEX format back into
// entries. Blank lines and # comments are skipped.
func ParsePatchText(text string) ([]Entry, error) {
	var entries []Entry
	for lineno, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 3 {
			return nil, binerr.Parsef("line %d: expected OFFSET:OLD_HEX:NEW_HEX, got %q", lineno+1, line)
		}

		offset, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(parts[0]), "0x"), 16, 63)
		if err != nil {
			return nil, binerr.Parsef("line %d: invalid offset %q: %v", lineno+1, parts[0], err)
		}

		entry := Entry{Offset: int(offset)}
		if parts[1] != "" {
			v, err := strconv.ParseUint(parts[1], 16, 8)
			if err != nil {
				return nil, binerr.Parsef("line %d: invalid old byte %q: %v", lineno+1, parts[1], err)
			}
			b := byte(v)
			entry.Byte1 = &b
		}
		if parts[2] != "" {
			v, err := strconv.ParseUint(parts[2], 16, 8)
			if err != nil {
				return nil, binerr.Parsef("line %d: invalid new byte %q: %v", lineno+1, parts[2], err)
			}
			b := byte(v)
			entry.Byte2 = &b
		}
		if entry.Byte1 == nil && entry.Byte2 == nil {
			return nil, binerr.Parsef("line %d: both sides empty", lineno+1)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ApplyPatchText applies parsed entries to a copy of data. Changes
// replace the byte in place; additions append when the offset lands
// exactly at the current end; deletions truncate from the entry offset
// when it marks the tail of the data. Every old byte is verified against
// the data before any write, so a mismatched source refuses cleanly.
func ApplyPatchText(data []byte, entries []Entry) ([]byte, error) {
	for _, e := range entries {
		if e.Byte1 != nil {
			if e.Offset >= len(data) {
				return nil, binerr.InvalidRangef("patch expects byte at offset 0x%08x but data is %d bytes", e.Offset, len(data))
			}
			if data[e.Offset] != *e.Byte1 {
				return nil, binerr.InvalidInputf("patch mismatch at offset 0x%08x: expected 0x%02x, found 0x%02x",
					e.Offset, *e.Byte1, data[e.Offset])
			}
		}
	}

	out := append([]byte(nil), data...)

	// Changes first; tail edits afterwards. Additions grow the tail in
	// ascending offset order, deletions shrink it from the end down.
	var additions, deletions []Entry
	for _, e := range entries {
		switch {
		case e.IsChange():
			out[e.Offset] = *e.Byte2
		case e.IsAddition():
			additions = append(additions, e)
		default:
			deletions = append(deletions, e)
		}
	}

	for _, e := range additions {
		if e.Offset != len(out) {
			return nil, binerr.InvalidRangef("patch adds byte at offset 0x%08x but data ends at 0x%08x", e.Offset, len(out))
		}
		out = append(out, *e.Byte2)
	}
	for i := len(deletions) - 1; i >= 0; i-- {
		e := deletions[i]
		if e.Offset != len(out)-1 {
			return nil, binerr.InvalidRangef("patch deletes byte at offset 0x%08x but data ends at 0x%08x", e.Offset, len(out))
		}
		out = out[:len(out)-1]
	}
	return out, nil
}
