package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/format"
	"github.com/dhamidi/sn/sn/parser"
)

const (
	promptFirst = "sn> "
	promptMore  = "... "
)

func newReplCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read expressions interactively and print their syntax trees",
		Long: `Read expressions line by line and print their syntax trees.

An expression may span several lines: input is collected until it forms a
complete expression or an error that more input cannot fix. An empty line
discards pending input. The session ends at end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat == "" {
				outputFormat = opts.config.Output.Format
			}
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout(), enc)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format ("+strings.Join(format.Formats, ", ")+")")

	return cmd
}

func runRepl(in io.Reader, out io.Writer, enc format.Encoder) error {
	scanner := bufio.NewScanner(in)
	var pending strings.Builder
	p := parser.ParseExpression(strings.NewReader(""), parser.WithFile("repl"))

	fmt.Fprint(out, promptFirst)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" && pending.Len() > 0 {
			pending.Reset()
			fmt.Fprint(out, promptFirst)
			continue
		}
		pending.WriteString(line)
		pending.WriteByte('\n')

		p.Reset(strings.NewReader(pending.String()))
		if !p.IsComplete() {
			if strings.TrimSpace(pending.String()) == "" {
				pending.Reset()
				fmt.Fprint(out, promptFirst)
			} else {
				fmt.Fprint(out, promptMore)
			}
			continue
		}

		expr, err := p.Finish()
		pending.Reset()
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
		} else if err := enc.Encode(expr); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fmt.Fprint(out, promptFirst)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
