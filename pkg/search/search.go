package search

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/saworbit/binkit/pkg/binerr"
)

// Config carries the matching semantics for one search call. Display
// concerns (count-only, offsets-only, context) live in the formatting
// layer, not here.
type Config struct {
	Pattern Pattern
	// FindAll reports every match; otherwise the search stops at the first.
	FindAll bool
	// NoOverlap rejects matches sharing any byte with the previous
	// accepted match.
	NoOverlap bool
}

// Match is one search hit. Offset is the absolute zero-based position of
// the match start; Data is an owned copy of the matched bytes. Matches
// from a single call are in strictly increasing offset order.
type Match struct {
	Offset int
	Data   []byte
}

// Search runs the configured pattern over haystack sequentially.
func Search(haystack []byte, cfg Config) ([]Match, error) {
	switch cfg.Pattern.Kind {
	case KindExact:
		return searchExact(haystack, cfg.Pattern.Needle, cfg)
	case KindMask:
		return searchMask(haystack, cfg.Pattern.Mask, cfg)
	case KindRegex:
		return searchRegex(haystack, cfg.Pattern.Expr, cfg)
	default:
		return nil, binerr.InvalidInputf("unknown pattern kind %d", cfg.Pattern.Kind)
	}
}

// searchExact finds literal needle occurrences, leftmost first. After a
// match at offset o the cursor advances to o+len(needle) with NoOverlap,
// o+1 otherwise.
func searchExact(haystack, needle []byte, cfg Config) ([]Match, error) {
	if len(needle) == 0 {
		return nil, binerr.InvalidInputf("search pattern cannot be empty")
	}

	var matches []Match
	start := 0
	for start < len(haystack) {
		rel := bytes.Index(haystack[start:], needle)
		if rel < 0 {
			break
		}
		abs := start + rel
		matches = append(matches, Match{Offset: abs, Data: append([]byte(nil), needle...)})

		if !cfg.FindAll {
			break
		}
		if cfg.NoOverlap {
			start = abs + len(needle)
		} else {
			start = abs + 1
		}
	}
	return matches, nil
}

// searchMask slides the fixed-length mask over the haystack. Accepted
// no-overlap matches advance the scan by the mask length; everything else
// advances by one. A haystack shorter than the mask yields no matches.
func searchMask(haystack []byte, mask []MaskByte, cfg Config) ([]Match, error) {
	if len(mask) == 0 {
		return nil, binerr.InvalidInputf("mask pattern cannot be empty")
	}
	if len(haystack) < len(mask) {
		return nil, nil
	}

	var matches []Match
	pos := 0
	for pos <= len(haystack)-len(mask) {
		if matchesMask(haystack[pos:pos+len(mask)], mask) {
			matches = append(matches, Match{
				Offset: pos,
				Data:   append([]byte(nil), haystack[pos:pos+len(mask)]...),
			})
			if !cfg.FindAll {
				break
			}
			if cfg.NoOverlap {
				pos += len(mask)
			} else {
				pos++
			}
		} else {
			pos++
		}
	}
	return matches, nil
}

func matchesMask(window []byte, mask []MaskByte) bool {
	for i, m := range mask {
		if !m.Wildcard && window[i] != m.Value {
			return false
		}
	}
	return true
}

// searchRegex compiles the expression per call and evaluates it against
// raw bytes: each haystack byte is matched as the rune of the same value,
// so `\xde` finds the byte 0xDE and `.` matches any single byte except
// newline. NoOverlap skips matches starting before the end of the last
// accepted one.
func searchRegex(haystack []byte, expr string, cfg Config) ([]Match, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, binerr.Parsef("invalid regex pattern: %v", err)
	}

	widened, back := widenBytes(haystack)

	var matches []Match
	lastEnd := 0
	for _, loc := range re.FindAllStringIndex(widened, -1) {
		start, end := back[loc[0]], back[loc[1]]
		if cfg.NoOverlap && start < lastEnd {
			continue
		}
		matches = append(matches, Match{
			Offset: start,
			Data:   append([]byte(nil), haystack[start:end]...),
		})
		if !cfg.FindAll {
			break
		}
		if cfg.NoOverlap {
			lastEnd = end
		}
	}
	return matches, nil
}

// widenBytes maps every input byte to the rune of the same value. Bytes
// above 0x7F encode as two bytes in the widened string; back translates
// widened indexes to original byte offsets and carries a sentinel entry
// for the end position.
func widenBytes(haystack []byte) (string, []int) {
	var sb strings.Builder
	sb.Grow(len(haystack))
	back := make([]int, 0, len(haystack)+1)
	for i, b := range haystack {
		for n := utf8.RuneLen(rune(b)); n > 0; n-- {
			back = append(back, i)
		}
		sb.WriteRune(rune(b))
	}
	back = append(back, len(haystack))
	return sb.String(), back
}
