// Package search finds byte patterns in a haystack. It supports exact
// needles, fixed-length masks with wildcard slots, and byte-oriented
// regular expressions, sequentially or fanned out across chunks for large
// inputs.
package search

// Kind discriminates the closed set of pattern variants. The matcher
// switches over it exhaustively at its single entry point.
type Kind int

const (
	// KindExact matches a literal byte sequence.
	KindExact Kind = iota
	// KindMask matches a fixed-length window of required-or-wildcard bytes.
	KindMask
	// KindRegex matches a regular expression against raw bytes.
	KindRegex
)

// MaskByte is one slot of a mask pattern: either a required byte value or
// a wildcard that matches anything.
type MaskByte struct {
	Value    byte
	Wildcard bool
}

// Pattern is the tagged pattern variant handed to Search.
type Pattern struct {
	Kind   Kind
	Needle []byte     // KindExact
	Mask   []MaskByte // KindMask
	Expr   string     // KindRegex, compiled lazily per search call
}

// Exact builds an exact-needle pattern.
func Exact(needle []byte) Pattern {
	return Pattern{Kind: KindExact, Needle: needle}
}

// Mask builds a mask pattern.
func Mask(mask []MaskByte) Pattern {
	return Pattern{Kind: KindMask, Mask: mask}
}

// Regex builds a regex pattern. The expression is compiled when the
// search runs.
func Regex(expr string) Pattern {
	return Pattern{Kind: KindRegex, Expr: expr}
}

// Len returns the fixed match length for Exact and Mask patterns and 0
// for Regex (variable length).
func (p Pattern) Len() int {
	switch p.Kind {
	case KindExact:
		return len(p.Needle)
	case KindMask:
		return len(p.Mask)
	default:
		return 0
	}
}
