package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/pkg/binerr"
	"github.com/saworbit/binkit/pkg/display"
	"github.com/saworbit/binkit/pkg/parse"
)

func newReadCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "read <range>",
		Short: "Read bytes from the binary data",
		Long:  "Read a byte range ('start..end', 'start..', '..end', or a single index) and render it in the output format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("read", func() error {
				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("read", buf.Len())

				start, end, err := parse.Range(args[0], buf.Len())
				if err != nil {
					return err
				}
				chunk, err := buf.ReadRange(start, end)
				if err != nil {
					return err
				}
				out, err := display.Bytes(chunk, opts.format, opts.chunkBits, opts.width)
				if err != nil {
					return err
				}
				return opts.writeText(out)
			})
		},
	}
}

func newWriteCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "write <position> <value>",
		Short: "Write bytes to the binary data",
		Long:  "Overwrite bytes at a position with a value parsed per --input-format, then emit the modified data.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("write", func() error {
				position, err := strconv.Atoi(args[0])
				if err != nil {
					return binerr.Parsef("invalid position %q: %v", args[0], err)
				}

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("write", buf.Len())

				value, err := parse.Input(args[1], opts.inputFormat)
				if err != nil {
					return err
				}
				previous, err := buf.ReadRange(position, position+len(value))
				if err != nil {
					return err
				}
				if err := buf.WriteRange(position, value); err != nil {
					return err
				}

				if !opts.silent {
					fmt.Printf("Previous: %s\n", hex.EncodeToString(previous))
					fmt.Printf("New:     %s\n", hex.EncodeToString(value))
				}
				return opts.writeResult(buf.Bytes())
			})
		},
	}
}

func newEditCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:       "edit <operation> <range> [data]",
		Short:     "Edit the binary data (insert, remove, replace)",
		Args:      cobra.RangeArgs(2, 3),
		ValidArgs: []string{"insert", "remove", "replace"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("edit", func() error {
				operation := args[0]

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("edit", buf.Len())

				start, end, err := parse.Range(args[1], buf.Len())
				if err != nil {
					return err
				}

				var value []byte
				if operation == "insert" || operation == "replace" {
					if len(args) < 3 {
						return binerr.InvalidInputf("data required for %s", operation)
					}
					value, err = parse.Input(args[2], opts.inputFormat)
					if err != nil {
						return err
					}
				}

				switch operation {
				case "insert":
					if !opts.silent {
						fmt.Printf("Inserting %d bytes at position %d\n", len(value), start)
					}
					if err := buf.Insert(start, value); err != nil {
						return err
					}
				case "remove":
					if !opts.silent {
						original, err := buf.ReadRange(start, end)
						if err != nil {
							return err
						}
						fmt.Printf("Removing %d bytes from position %d:\n", len(original), start)
						fmt.Printf("Data removed: %s\n", hex.EncodeToString(original))
					}
					if err := buf.Remove(start, end); err != nil {
						return err
					}
				case "replace":
					if !opts.silent {
						original, err := buf.ReadRange(start, end)
						if err != nil {
							return err
						}
						fmt.Printf("Replacing %d bytes at position %d:\n", len(original), start)
						fmt.Printf("Previous: %s\n", hex.EncodeToString(original))
						fmt.Printf("New:     %s\n", hex.EncodeToString(value))
					}
					if err := buf.Remove(start, end); err != nil {
						return err
					}
					if err := buf.Insert(start, value); err != nil {
						return err
					}
				default:
					return binerr.Unsupportedf("unknown edit operation: %s", operation)
				}
				return opts.writeResult(buf.Bytes())
			})
		},
	}
}
