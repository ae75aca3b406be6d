package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/format"
	"github.com/dhamidi/sn/sn/parser"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var expression string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an expression and dump its syntax tree",
		Long: `Parse an expression and dump its syntax tree.

The expression comes from the file argument, from -e, or from standard
input. The default output format is taken from output.format in the
configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat == "" {
				outputFormat = opts.config.Output.Format
			}
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			name, source := "<expr>", []byte(expression)
			if !cmd.Flags().Changed("expr") {
				name, source, err = readSource(cmd, args)
				if err != nil {
					return err
				}
			} else if len(args) > 0 {
				return fmt.Errorf("-e and a file argument are mutually exclusive")
			}

			p := parser.ParseExpression(bytes.NewReader(source), parser.WithFile(name))
			expr, err := p.Finish()
			if err != nil {
				return err
			}

			if err := enc.Encode(expr); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().StringVarP(&expression, "expr", "e", "", "parse the given expression instead of a file")

	return cmd
}
