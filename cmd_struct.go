package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/saworbit/binkit/internal/metrics"
	"github.com/saworbit/binkit/pkg/binerr"
	"github.com/saworbit/binkit/pkg/convert"
	"github.com/saworbit/binkit/pkg/structure"
)

func newStructCmd(opts *globalOpts) *cobra.Command {
	var (
		getFields    []string
		listFields   bool
		structFormat string
	)

	cmd := &cobra.Command{
		Use:   "struct <template.yaml>",
		Short: "Interpret binary data using a YAML structure template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("struct", func() error {
				tpl, err := structure.LoadTemplateFile(args[0])
				if err != nil {
					return err
				}

				if listFields {
					return opts.writeText(structure.ListFields(tpl))
				}

				format, err := structure.ParseOutputFormat(structFormat)
				if err != nil {
					return err
				}

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("struct", buf.Len())

				parsed, err := structure.Parse(buf.Bytes(), tpl, structure.Config{
					Format:    format,
					GetFields: getFields,
				})
				if err != nil {
					return err
				}

				// --get with a single field prints just the value.
				if len(getFields) == 1 {
					value, ok := structure.GetFieldValue(parsed, getFields[0])
					if !ok {
						return binerr.InvalidInputf("field %q not found in template", getFields[0])
					}
					return opts.writeText(value)
				}

				out, err := structure.FormatOutput(parsed, format)
				if err != nil {
					return err
				}
				return opts.writeText(strings.TrimRight(out, "\n"))
			})
		},
	}

	cmd.Flags().StringSliceVar(&getFields, "get", nil, "Only extract the named field(s)")
	cmd.Flags().BoolVar(&listFields, "list-fields", false, "List template fields without parsing data")
	cmd.Flags().StringVar(&structFormat, "struct-format", "human", "Output format: human, json, yaml")
	return cmd
}

func newConvertCmd(opts *globalOpts) *cobra.Command {
	var (
		from     string
		to       string
		newlines string
		bom      string
		onError  string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert text encoding and line endings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return observe("convert", func() error {
				cfg := convert.DefaultConfig()
				var err error
				if cfg.From, err = convert.ParseEncoding(from); err != nil {
					return err
				}
				if cfg.To, err = convert.ParseEncoding(to); err != nil {
					return err
				}
				if cfg.Newlines, err = convert.ParseNewlineMode(newlines); err != nil {
					return err
				}
				if cfg.BOM, err = convert.ParseBOMMode(bom); err != nil {
					return err
				}
				if cfg.OnError, err = convert.ParseErrorMode(onError); err != nil {
					return err
				}

				buf, err := opts.loadInput()
				if err != nil {
					return err
				}
				metrics.ObserveBytesProcessed("convert", buf.Len())

				if verbose {
					cmd.PrintErrln(cfg.Describe())
				}

				converted, err := convert.Convert(buf.Bytes(), cfg)
				if err != nil {
					return err
				}
				return opts.writeResult(converted)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "utf-8", "Source encoding (utf-8, utf-16le, utf-16be, latin-1, windows-1252)")
	cmd.Flags().StringVar(&to, "to", "utf-8", "Target encoding (utf-8, utf-16le, utf-16be, latin-1, windows-1252)")
	cmd.Flags().StringVar(&newlines, "newlines", "keep", "Line ending conversion (unix, windows, mac, keep)")
	cmd.Flags().StringVar(&bom, "bom", "keep", "BOM handling (add, remove, keep)")
	cmd.Flags().StringVar(&onError, "on-error", "replace", "Error handling (strict, replace, ignore)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Describe the conversion on stderr")
	return cmd
}
