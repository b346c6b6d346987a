package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.cog.dev/pkg"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a source file every time it is written",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return watchFile(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchFile watches the directory holding path, since editors often replace
// files instead of writing them in place.
func watchFile(ctx context.Context, out, errOut io.Writer, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "could not resolve path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not start watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "could not watch %s", filepath.Dir(abs))
	}

	diag := newDiagnostics(errOut, cfg.Output.Color)
	reparse(out, diag, path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("source changed", "file", path, "op", event.Op.String())
				reparse(out, diag, path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watcher error", "error", err)
		}
	}
}

func reparse(out io.Writer, diag *diagnostics, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		diag.Print(errors.Wrap(err, "could not read source"))
		return
	}

	ast, err := cog.Parse(string(src), cfg.ParserOptions()...)
	if err != nil {
		diag.Print(errors.Wrap(err, path))
		return
	}

	if err := printAST(out, cfg.Output.Format, ast); err != nil {
		diag.Print(err)
	}
}
