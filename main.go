package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/internal/version"
	"github.com/saworbit/binkit/pkg/buffer"
	"github.com/saworbit/binkit/pkg/config"
)

func main() {
	root := newRootCmd(config.LoadFromEnv())
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// globalOpts carries the flags shared by every subcommand.
type globalOpts struct {
	cfg         *config.Config
	input       string
	output      string
	inFile      bool
	inputFormat string
	format      string
	silent      bool
	chunkBits   int
	width       int
	decompress  bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &globalOpts{cfg: cfg}

	root := &cobra.Command{
		Use:     "binkit",
		Short:   "binkit - binary data inspection and manipulation toolkit",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "", "Input file (use '-' for stdin)")
	pf.StringVarP(&opts.output, "output", "o", "", "Output file (use '-' for stdout)")
	pf.BoolVar(&opts.inFile, "in-file", false, "Modify the input file directly")
	pf.StringVar(&opts.inputFormat, "input-format", "hex", "Input format (hex, dec, oct, bin, ascii) for write/edit/search")
	pf.StringVarP(&opts.format, "format", "f", cfg.Format, "Output format (hex, dec, oct, bin, ascii)")
	pf.BoolVar(&opts.silent, "silent", false, "Suppress change output")
	pf.IntVarP(&opts.chunkBits, "chunk-size", "c", cfg.ChunkBits, "Chunk size in bits")
	pf.IntVar(&opts.width, "width", cfg.Width, "Number of chunks per line")
	pf.BoolVar(&opts.decompress, "decompress", false, "Transparently decompress gzip/xz input")

	root.AddCommand(
		newReadCmd(opts),
		newWriteCmd(opts),
		newEditCmd(opts),
		newSearchCmd(opts),
		newAnalyzeCmd(opts),
		newDiffCmd(opts),
		newPatchCmd(opts),
		newChecksumCmd(opts),
		newStructCmd(opts),
		newConvertCmd(opts),
		newWatchCmd(opts),
	)

	metrics.SetToolInfo(version.Version)
	return root
}

// loadInput reads the configured input source into a buffer. Missing
// --input or "-" reads stdin.
func (o *globalOpts) loadInput() (*buffer.Buffer, error) {
	loadOpts := buffer.LoadOptions{Decompress: o.decompress}
	if o.input == "" || o.input == "-" {
		return buffer.FromReader(os.Stdin, loadOpts)
	}
	return buffer.FromFile(o.input, loadOpts)
}

// loadFile reads a named file with the global decompression setting,
// used by commands taking positional file arguments.
func (o *globalOpts) loadFile(path string) (*buffer.Buffer, error) {
	if path == "-" {
		return buffer.FromReader(os.Stdin, buffer.LoadOptions{Decompress: o.decompress})
	}
	return buffer.FromFile(path, buffer.LoadOptions{Decompress: o.decompress})
}

// writeResult routes modified data to the configured destination:
// --in-file rewrites the input, --output writes a file or stdout, and no
// destination streams to stdout.
func (o *globalOpts) writeResult(data []byte) error {
	switch {
	case o.inFile:
		if o.input == "" || o.input == "-" {
			return fmt.Errorf("--in-file requires a file --input")
		}
		return os.WriteFile(o.input, data, 0o644)
	case o.output == "" || o.output == "-":
		_, err := os.Stdout.Write(data)
		return err
	default:
		return os.WriteFile(o.output, data, 0o644)
	}
}

// writeText prints command output, honoring --output for text results.
func (o *globalOpts) writeText(text string) error {
	if o.output != "" && o.output != "-" {
		return os.WriteFile(o.output, []byte(text+"\n"), 0o644)
	}
	_, err := fmt.Println(text)
	return err
}

// observe wraps a command run with duration and outcome metrics.
func observe(command string, fn func() error) error {
	start := time.Now()
	err := fn()
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveCommand(start, command, outcome)
	return err
}
