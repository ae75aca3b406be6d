package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/format"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print an expression in canonical form",
		Long: `Print an expression in canonical form.

Comments are dropped, binary operators are surrounded by single spaces and
parentheses are kept as written. If no file is provided, reads source from
stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fmtOverwrite && (len(args) == 0 || args[0] == "-") {
				return fmt.Errorf("-w requires a file argument")
			}

			name, source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			output, err := format.PrettyPrint(source, name)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(name, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
