package main

import (
	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/pkg/analyze"
	"github.com/saworbit/binkit/pkg/parse"
)

func newAnalyzeCmd(opts *globalOpts) *cobra.Command {
	var (
		blockSize    int
		outputFormat string
		rangeSpec    string
	)

	cmd := &cobra.Command{
		Use:       "analyze <type>",
		Short:     "Analyze binary data (entropy, histogram, ic, compress)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"entropy", "histogram", "hist", "ic", "ioc", "compress"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("analyze", func() error {
				analysisType, err := analyze.ParseType(args[0])
				if err != nil {
					return err
				}
				format, err := analyze.ParseOutputFormat(outputFormat)
				if err != nil {
					return err
				}

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				data := buf.Bytes()
				metrics.ObserveBytesProcessed("analyze", len(data))

				cfg := analyze.Config{
					Type:      analysisType,
					BlockSize: blockSize,
					Format:    format,
				}
				if rangeSpec != "" {
					start, end, err := parse.Range(rangeSpec, len(data))
					if err != nil {
						return err
					}
					cfg.Range = &analyze.ByteRange{Start: start, End: end}
				}

				out, err := analyze.Run(data, cfg)
				if err != nil {
					return err
				}
				return opts.writeText(out)
			})
		},
	}

	cmd.Flags().IntVar(&blockSize, "block-size", 256, "Block size for block-based analysis (0 = entire file)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "human", "Output format: human, csv, json")
	cmd.Flags().StringVar(&rangeSpec, "range", "", "Range to analyze (format: 'start..end')")
	return cmd
}
