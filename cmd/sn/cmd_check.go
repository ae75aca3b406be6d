package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/sn/workspace"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report lexical and syntax errors in source files",
		Long: `Report lexical and syntax errors in source files.

Each path may be a file or a directory; directories are searched for files
with one of the configured source extensions. Without arguments the
configured source directories are checked.

With --watch, files are re-checked whenever they change until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *opts.config
			var files []string
			if len(args) > 0 {
				cfg.Source.Dirs = nil
				for _, path := range args {
					info, err := os.Stat(path)
					if err != nil {
						return err
					}
					if info.IsDir() {
						cfg.Source.Dirs = append(cfg.Source.Dirs, path)
					} else {
						files = append(files, path)
					}
				}
			}

			ws := workspace.New(&cfg)
			if len(cfg.Source.Dirs) > 0 {
				if err := ws.ScanAll(); err != nil {
					return err
				}
			}
			for _, path := range files {
				if _, err := ws.ScanFile(path); err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			if watch {
				return watchWorkspace(cmd.OutOrStdout(), ws)
			}

			errors := printDiagnostics(cmd.OutOrStdout(), ws.Diagnostics())
			log.Infof("checked %d files", len(ws.Files()))
			if errors > 0 {
				return fmt.Errorf("%d errors", errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-check files when they change")

	return cmd
}

// printDiagnostics writes one line per diagnostic and returns the number of
// errors among them.
func printDiagnostics(w io.Writer, diags []workspace.Diagnostic) int {
	errors := 0
	for _, d := range diags {
		fmt.Fprintln(w, d)
		if d.Severity == workspace.SeverityError {
			errors++
		}
	}
	return errors
}

func watchWorkspace(w io.Writer, ws *workspace.Workspace) error {
	watcher := workspace.NewWatcher(ws,
		workspace.OnChange(func(doc *workspace.Document) {
			if len(doc.Diagnostics) == 0 {
				fmt.Fprintf(w, "%s: ok\n", doc.Path)
				return
			}
			printDiagnostics(w, doc.Diagnostics)
		}),
		workspace.OnRemove(func(path string) {
			fmt.Fprintf(w, "%s: removed\n", path)
		}),
	)
	watcher.Start()
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	<-sig
	return nil
}
