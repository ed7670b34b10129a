package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/pkg/diff"
	"github.com/saworbit/binkit/pkg/parse"
)

func newDiffCmd(opts *globalOpts) *cobra.Command {
	var (
		diffFormat    string
		context       int
		color         string
		ignoreOffsets string
		diffWidth     int
		summary       bool
	)

	cmd := &cobra.Command{
		Use:   "diff <file1> <file2>",
		Short: "Compare two binary files and show differences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("diff", func() error {
				format, err := diff.ParseFormat(diffFormat)
				if err != nil {
					return err
				}
				colorMode, err := diff.ParseColorMode(color)
				if err != nil {
					return err
				}
				ignoreRanges, err := parse.IgnoreRanges(ignoreOffsets)
				if err != nil {
					return err
				}

				buf1, err := opts.loadFile(args[0])
				if err != nil {
					return err
				}
				buf2, err := opts.loadFile(args[1])
				if err != nil {
					return err
				}
				data1, data2 := buf1.Bytes(), buf2.Bytes()
				metrics.ObserveBytesProcessed("diff", len(data1)+len(data2))
				metrics.ObserveDiff(len(data1), len(data2))

				cfg := diff.Config{
					Format:       format,
					Context:      context,
					Color:        colorMode,
					IgnoreRanges: ignoreRanges,
					Width:        diffWidth,
				}
				diffs := diff.Compare(data1, data2, cfg)

				out, err := diff.FormatDiff(data1, data2, diffs, args[0], args[1], cfg)
				if err != nil {
					return err
				}
				if out != "" {
					if err := opts.writeText(out); err != nil {
						return err
					}
				}
				if summary {
					fmt.Println(diff.Summary(diffs, len(data1), len(data2)))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&diffFormat, "diff-format", "auto", "Output format: simple, unified, side-by-side, patch, summary, auto")
	cmd.Flags().IntVar(&context, "context", 3, "Number of context bytes around differences (for unified format)")
	cmd.Flags().StringVar(&color, "color", "auto", "Colorize output (always, auto, never)")
	cmd.Flags().StringVar(&ignoreOffsets, "ignore-offsets", "", "Ranges to ignore during comparison (e.g., \"0x0..0x10,0x100..0x200\")")
	cmd.Flags().IntVar(&diffWidth, "diff-width", 16, "Bytes per line in output")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print summary of differences")
	return cmd
}

func newPatchCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Create and apply binary patches",
	}
	cmd.AddCommand(newPatchCreateCmd(opts), newPatchApplyCmd(opts))
	return cmd
}

func newPatchCreateCmd(opts *globalOpts) *cobra.Command {
	var engineName string

	cmd := &cobra.Command{
		Use:   "create <old> <new>",
		Short: "Create a compact binary patch transforming old into new",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("patch_create", func() error {
				engine, err := diff.NewEngine(engineName)
				if err != nil {
					return err
				}

				oldBuf, err := opts.loadFile(args[0])
				if err != nil {
					return err
				}
				newBuf, err := opts.loadFile(args[1])
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("patch_create", oldBuf.Len()+newBuf.Len())

				patch, err := engine.ComputeDiff(oldBuf.Bytes(), newBuf.Bytes())
				if err != nil {
					return err
				}
				if !opts.silent {
					stats := diff.ComputeEngineStats(oldBuf.Bytes(), newBuf.Bytes(), patch)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s patch: %d -> %d bytes, patch %d bytes (%.1f%% of new)\n",
						engine.Name(), stats.OldSize, stats.NewSize, stats.PatchSize, stats.CompressionRate*100)
				}
				return opts.writeResult(patch)
			})
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", "bsdiff", "Patch engine")
	return cmd
}

func newPatchApplyCmd(opts *globalOpts) *cobra.Command {
	var patchType string

	cmd := &cobra.Command{
		Use:   "apply <base> <patch>",
		Short: "Apply a patch to base data",
		Long: "Apply a patch to base data. Type 'bsdiff' applies a compact binary " +
			"patch; type 'text' applies the OFFSET:OLD_HEX:NEW_HEX format produced " +
			"by 'diff --diff-format patch'.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("patch_apply", func() error {
				baseBuf, err := opts.loadFile(args[0])
				if err != nil {
					return err
				}
				patchBuf, err := opts.loadFile(args[1])
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("patch_apply", baseBuf.Len()+patchBuf.Len())

				var patched []byte
				switch patchType {
				case "text":
					entries, err := diff.ParsePatchText(string(patchBuf.Bytes()))
					if err != nil {
						return err
					}
					patched, err = diff.ApplyPatchText(baseBuf.Bytes(), entries)
					if err != nil {
						return err
					}
				case "bsdiff":
					engine := diff.NewBsdiffEngine()
					patched, err = engine.ApplyPatch(baseBuf.Bytes(), patchBuf.Bytes())
					if err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown patch type: %s (must be 'text' or 'bsdiff')", patchType)
				}
				return opts.writeResult(patched)
			})
		},
	}

	cmd.Flags().StringVar(&patchType, "type", "text", "Patch type: text, bsdiff")
	return cmd
}

func newChecksumCmd(opts *globalOpts) *cobra.Command {
	var (
		algo      string
		blockSize int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "checksum",
		Short: "Fingerprint data with per-block content IDs and a Merkle root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("checksum", func() error {
				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("checksum", buf.Len())

				report, err := integrityReport(buf.Bytes(), algo, blockSize)
				if err != nil {
					return err
				}
				return opts.writeText(report.Format(verbose))
			})
		},
	}

	cmd.Flags().StringVar(&algo, "algo", opts.cfg.HashAlgo, "Hash algorithm: sha256, blake3")
	cmd.Flags().IntVar(&blockSize, "block-size", opts.cfg.ChecksumBlockSize, "Checksum block size in bytes (0 = entire input)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "List every block checksum")
	return cmd
}
