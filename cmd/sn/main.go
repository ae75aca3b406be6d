package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/sn/project"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("sn.cli")

type globalOptions struct {
	configPath string
	verbose    int
	config     *project.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "sn",
		Short:         "Tools for the sn expression language",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (default: sn.toml, sn.yaml or sn.yml in the current directory)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newReplCmd(opts))
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newUICmd(opts))

	return rootCmd
}

func (o *globalOptions) load() error {
	var err error
	if o.configPath != "" {
		o.config, err = project.LoadFile(o.configPath)
	} else {
		o.config, err = project.Load()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	verbosity := o.config.Log.Verbosity
	if o.verbose > 0 {
		verbosity = o.verbose
	}
	// 0 logs warnings and above, each step adds a level down to debug.
	if o.config.Log.File != "" {
		commonlog.Configure(verbosity-1, &o.config.Log.File)
	} else {
		commonlog.Configure(verbosity-1, nil)
	}
	log.Debugf("configuration: %+v", *o.config)
	return nil
}

// readSource reads the named file, or standard input for "" and "-".
func readSource(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return args[0], data, nil
}
