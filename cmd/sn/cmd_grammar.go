package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/ebnf/parse"
	"github.com/dhamidi/sn/sn/parser"
)

func newGrammarCmd() *cobra.Command {
	var (
		verify bool
		bnf    bool
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "grammar [file]",
		Short: "Print the EBNF grammar of the expression language",
		Long: `Print the EBNF grammar of the expression language.

With --check, the source file (or standard input) is recognized by an Earley
parser driven by the grammar itself instead of the hand-written parser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check && len(args) > 0 {
				return fmt.Errorf("a file argument requires --check")
			}
			if !verify && !bnf && !check {
				_, err := cmd.OutOrStdout().Write(parser.GrammarSource())
				return err
			}

			grammar, err := parser.Grammar()
			if err != nil {
				printErrors(cmd, err)
				return fmt.Errorf("grammar does not verify")
			}
			compiled, err := parse.Compile(grammar, parser.GrammarStart)
			if err != nil {
				return fmt.Errorf("compile grammar: %w", err)
			}

			switch {
			case bnf:
				fmt.Fprint(cmd.OutOrStdout(), compiled.String())
			case check:
				name, src, err := readSource(cmd, args)
				if err != nil {
					return err
				}
				tokens, err := parser.NewLexer(src, name).Tokenize()
				if err != nil {
					return err
				}
				if err := compiled.Recognize(tokens); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tokens\n", len(tokens))
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d productions, start %s\n", len(grammar), parser.GrammarStart)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "parse and verify the grammar instead of printing it")
	cmd.Flags().BoolVar(&bnf, "bnf", false, "print the grammar compiled to BNF rules")
	cmd.Flags().BoolVar(&check, "check", false, "recognize a source file with the grammar")
	cmd.MarkFlagsMutuallyExclusive("verify", "bnf", "check")

	return cmd
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(cmd *cobra.Command, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(cmd.ErrOrStderr(), v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
}
