package main

import (
	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/pkg/parse"
	"github.com/saworbit/binkit/pkg/search"
)

func newSearchCmd(opts *globalOpts) *cobra.Command {
	var (
		all         bool
		count       bool
		offsetsOnly bool
		context     int
		noOverlap   bool
	)

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search for patterns in binary data",
		Long: "Search for a pattern interpreted per --input-format. Hex patterns " +
			"support '??' wildcard bytes; --input-format regex matches raw bytes " +
			"with a regular expression.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("search", func() error {
				pattern, err := parse.SearchPattern(args[0], opts.inputFormat)
				if err != nil {
					return err
				}

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				data := buf.Bytes()
				metrics.ObserveBytesProcessed("search", len(data))

				cfg := search.Config{
					Pattern:   pattern,
					FindAll:   all,
					NoOverlap: noOverlap,
				}
				parallelOpts := search.ParallelOptions{
					Threshold: opts.cfg.ParallelThresholdBytes,
					ChunkSize: opts.cfg.SearchChunkSizeBytes,
				}
				matches, err := search.SearchParallel(cmd.Context(), data, cfg, parallelOpts)
				if err != nil {
					return err
				}
				metrics.ObserveSearch(len(matches),
					cfg.FindAll && pattern.Kind != search.KindRegex && len(data) >= parallelOpts.Threshold)

				out, err := search.FormatResults(data, matches, search.FormatOptions{
					Format:      opts.format,
					ChunkBits:   opts.chunkBits,
					CountOnly:   count,
					OffsetsOnly: offsetsOnly,
					Context:     context,
				})
				if err != nil {
					return err
				}
				return opts.writeText(out)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Find all matches (default: first match only)")
	cmd.Flags().BoolVar(&count, "count", false, "Only output the count of matches")
	cmd.Flags().BoolVar(&offsetsOnly, "offsets-only", false, "Only output match offsets (hex)")
	cmd.Flags().IntVar(&context, "context", 0, "Show N bytes of context before and after each match")
	cmd.Flags().BoolVar(&noOverlap, "no-overlap", false, "Prevent overlapping matches")
	return cmd
}
