package search

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultParallelThreshold is the input size at which exact/mask
	// searches fan out across chunks.
	DefaultParallelThreshold = 1 << 20 // 1 MiB
	// DefaultChunkSize is the primary region size of each parallel chunk.
	DefaultChunkSize = 256 << 10 // 256 KiB
)

// ParallelOptions tunes the chunked fan-out. Zero values fall back to the
// defaults above.
type ParallelOptions struct {
	Threshold int
	ChunkSize int
}

// SearchParallel produces exactly the matches Search would, fanning the
// work out across fixed-size chunks when it is safe and worthwhile:
// exact/mask patterns, FindAll requested, and input at or above the
// threshold. Regex never decomposes across chunk boundaries and always
// runs sequentially, as do first-match-only searches and small inputs.
func SearchParallel(ctx context.Context, haystack []byte, cfg Config, opts ParallelOptions) ([]Match, error) {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	patternLen := cfg.Pattern.Len()
	if cfg.Pattern.Kind == KindRegex || !cfg.FindAll || len(haystack) < threshold ||
		patternLen == 0 || patternLen > chunkSize {
		return Search(haystack, cfg)
	}

	// Each chunk owns [start, primaryEnd) and reads patternLen-1 bytes of
	// lookahead so boundary-crossing matches are found by exactly one chunk.
	type chunk struct {
		start      int
		primaryEnd int
		end        int
	}
	var chunks []chunk
	for start := 0; start < len(haystack); start += chunkSize {
		primaryEnd := start + chunkSize
		if primaryEnd > len(haystack) {
			primaryEnd = len(haystack)
		}
		end := primaryEnd + patternLen - 1
		if end > len(haystack) {
			end = len(haystack)
		}
		chunks = append(chunks, chunk{start: start, primaryEnd: primaryEnd, end: end})
	}

	// Every chunk finds all matches unfiltered; overlap semantics are
	// re-established globally after the join so results match the
	// sequential greedy rule.
	chunkCfg := Config{Pattern: cfg.Pattern, FindAll: true, NoOverlap: false}

	results := make([][]Match, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial, err := Search(haystack[c.start:c.end], chunkCfg)
			if err != nil {
				return err
			}
			final := i == len(chunks)-1
			kept := partial[:0]
			for _, m := range partial {
				m.Offset += c.start
				// Matches starting in the lookahead tail belong to the next
				// chunk; only the final chunk has no successor to defer to.
				if m.Offset >= c.primaryEnd && !final {
					continue
				}
				kept = append(kept, m)
			}
			results[i] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Match
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Offset < merged[j].Offset })

	deduped := merged[:0]
	for _, m := range merged {
		if len(deduped) > 0 && deduped[len(deduped)-1].Offset == m.Offset {
			continue
		}
		deduped = append(deduped, m)
	}

	if !cfg.NoOverlap {
		return deduped, nil
	}

	// Greedy left-to-right overlap filter, identical to the sequential
	// advance-by-pattern-length rule.
	var filtered []Match
	nextFree := 0
	for _, m := range deduped {
		if m.Offset < nextFree {
			continue
		}
		filtered = append(filtered, m)
		nextFree = m.Offset + len(m.Data)
	}
	return filtered, nil
}
