package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/format"
	"github.com/dhamidi/sn/sn/parser"
)

func newTokensCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var all bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Scan a source file and dump its tokens",
		Long: `Scan a source file and print one token per line.

Reads standard input when no file or "-" is given. With --all, scanning
continues past lexical errors, which are reported on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			enc, err := format.NewTokenEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			lexer := parser.NewLexer(source, name)
			if !all {
				tokens, err := lexer.Tokenize()
				if err != nil {
					return err
				}
				return enc.Encode(tokens)
			}

			tokens, errs := lexer.TokenizeAll()
			if err := enc.Encode(tokens); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			for _, lexErr := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), lexErr)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d lexical errors", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&all, "all", false, "continue past lexical errors")

	return cmd
}
