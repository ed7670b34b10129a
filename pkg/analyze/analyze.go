// Package analyze computes statistical signals over byte data: Shannon
// entropy, byte-frequency histograms, Index of Coincidence, and a
// deflate-based compressibility estimate. All functions are pure over
// their input slice; block-based variants partition the input into
// fixed-size, non-overlapping chunks.
package analyze

import (
	"math"
	"sort"
	"strings"

	"github.com/saworbit/binkit/pkg/binerr"
)

// Type selects the analysis to perform.
type Type int

const (
	// TypeEntropy is Shannon entropy in bits per byte.
	TypeEntropy Type = iota
	// TypeHistogram is the byte-frequency distribution.
	TypeHistogram
	// TypeIC is the Index of Coincidence.
	TypeIC
	// TypeCompressibility is the per-block deflate compression ratio.
	TypeCompressibility
)

// ParseType parses an analysis type keyword.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "entropy":
		return TypeEntropy, nil
	case "histogram", "hist":
		return TypeHistogram, nil
	case "ic", "ioc", "index-of-coincidence":
		return TypeIC, nil
	case "compress", "compressibility":
		return TypeCompressibility, nil
	default:
		return 0, binerr.InvalidInputf("unknown analysis type %q: valid types: entropy, histogram, ic, compress", s)
	}
}

// Config holds the per-call analysis configuration.
type Config struct {
	Type Type
	// BlockSize partitions the input into fixed blocks; 0 means the whole
	// input is one block.
	BlockSize int
	Format    OutputFormat
	// Range optionally restricts analysis to [Start, End). Nil analyzes
	// everything.
	Range *ByteRange
}

// ByteRange is a half-open [Start, End) restriction.
type ByteRange struct {
	Start int
	End   int
}

// BlockResult is one per-block metric record. Value is the entropy, IC,
// or compression ratio depending on the analysis type.
type BlockResult struct {
	Offset int
	Size   int
	Value  float64
}

// ByteFrequency is one histogram record.
type ByteFrequency struct {
	ByteValue  byte
	Count      int
	Percentage float64
}

// frequencies builds the 256-bucket table in one pass.
func frequencies(data []byte) [256]int {
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}
	return freq
}

// Entropy computes Shannon entropy, base 2: H = -Σ p_i·log2(p_i).
// Empty input yields exactly 0.0; the range for byte data is [0, 8].
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	freq := frequencies(data)
	n := float64(len(data))
	entropy := 0.0
	for _, count := range freq {
		if count > 0 {
			p := float64(count) / n
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// IC computes the Index of Coincidence: Σ n_i(n_i-1) / (N(N-1)).
// Inputs shorter than 2 bytes yield 0.0 by definition. Uniform random
// bytes score about 1/256; a single repeated byte scores 1.0.
func IC(data []byte) float64 {
	if len(data) < 2 {
		return 0.0
	}

	freq := frequencies(data)
	n := float64(len(data))
	numerator := 0.0
	for _, count := range freq {
		if count > 1 {
			numerator += float64(count) * (float64(count) - 1.0)
		}
	}
	return numerator / (n * (n - 1.0))
}

// Histogram returns one record per byte value actually present, sorted by
// descending count. Ties keep ascending byte-value order.
func Histogram(data []byte) []ByteFrequency {
	if len(data) == 0 {
		return nil
	}

	freq := frequencies(data)
	n := float64(len(data))
	var hist []ByteFrequency
	for v, count := range freq {
		if count > 0 {
			hist = append(hist, ByteFrequency{
				ByteValue:  byte(v),
				Count:      count,
				Percentage: float64(count) / n * 100.0,
			})
		}
	}

	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Count > hist[j].Count })
	return hist
}

// FullHistogram returns all 256 records including zero counts, in byte
// order. Used for visualization.
func FullHistogram(data []byte) []ByteFrequency {
	freq := frequencies(data)
	n := float64(len(data))
	if len(data) == 0 {
		n = 1.0
	}

	hist := make([]ByteFrequency, 256)
	for v := 0; v < 256; v++ {
		hist[v] = ByteFrequency{
			ByteValue:  byte(v),
			Count:      freq[v],
			Percentage: float64(freq[v]) / n * 100.0,
		}
	}
	return hist
}

// Blocks applies fn to each fixed-size block of data and tags results
// with block offset and size. blockSize 0 treats the whole input as one
// block; empty input produces a single zero-valued record.
func Blocks(data []byte, blockSize int, fn func([]byte) float64) []BlockResult {
	if len(data) == 0 {
		return []BlockResult{{Offset: 0, Size: 0, Value: 0.0}}
	}

	if blockSize == 0 {
		blockSize = len(data)
	}

	var results []BlockResult
	for offset := 0; offset < len(data); offset += blockSize {
		end := offset + blockSize
		if end > len(data) {
			end = len(data)
		}
		results = append(results, BlockResult{
			Offset: offset,
			Size:   end - offset,
			Value:  fn(data[offset:end]),
		})
	}
	return results
}

// Run executes the configured analysis and returns formatted output.
func Run(data []byte, cfg Config) (string, error) {
	if cfg.Range != nil {
		start, end := cfg.Range.Start, cfg.Range.End
		if start >= len(data) || end > len(data) || start >= end {
			return "", binerr.InvalidRangef("invalid range [%d, %d) for data of length %d", start, end, len(data))
		}
		data = data[start:end]
	}

	switch cfg.Type {
	case TypeEntropy:
		results := Blocks(data, cfg.BlockSize, Entropy)
		return formatBlockResults(results, cfg, "entropy", interpretEntropy), nil
	case TypeHistogram:
		return formatHistogram(Histogram(data), len(data), cfg.Format), nil
	case TypeIC:
		results := Blocks(data, cfg.BlockSize, IC)
		return formatBlockResults(results, cfg, "ic", interpretIC), nil
	case TypeCompressibility:
		results := Blocks(data, cfg.BlockSize, Compressibility)
		return formatBlockResults(results, cfg, "ratio", interpretCompressibility), nil
	default:
		return "", binerr.InvalidInputf("unknown analysis type %d", cfg.Type)
	}
}

// interpretEntropy maps an entropy value to a rough content class.
func interpretEntropy(entropy float64) string {
	switch {
	case entropy < 1.0:
		return "highly repetitive/uniform"
	case entropy < 4.0:
		return "structured data/text/code"
	case entropy < 6.0:
		return "mixed content"
	case entropy < 7.5:
		return "likely compressed"
	default:
		return "encrypted or random"
	}
}

func interpretIC(ic float64) string {
	switch {
	case ic < 0.006:
		return "random/encrypted"
	case ic < 0.02:
		return "possibly compressed"
	case ic < 0.05:
		return "structured binary"
	default:
		return "text-like patterns"
	}
}

func interpretCompressibility(ratio float64) string {
	switch {
	case ratio < 0.2:
		return "highly compressible"
	case ratio < 0.7:
		return "moderately compressible"
	case ratio < 0.98:
		return "barely compressible"
	default:
		return "incompressible (already compressed or random)"
	}
}
