package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var buildOutDir string

var buildCmd = &cobra.Command{
	Use:   "build <file>...",
	Short: "Compile source files to LLVM IR (.ll)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := buildOutDir
		if outDir == "" {
			outDir = cfg.Output.Dir
		}

		outputs, err := outputPaths(outDir, args)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return errors.Wrap(err, "could not create output directory")
		}

		diag := newDiagnostics(cmd.ErrOrStderr(), cfg.Output.Color)

		g, gctx := errgroup.WithContext(cmd.Context())
		sem := make(chan struct{}, runtime.GOMAXPROCS(0))

		var failed atomic.Bool
		for i, path := range args {
			path, out := path, outputs[i]

			g.Go(func() error {
				select {
				case sem <- struct{}{}:
				case <-gctx.Done():
					return gctx.Err()
				}

				defer func() { <-sem }()

				res, err := compiler.Compile(path)
				if err != nil {
					diag.Print(err)
					failed.Store(true)
					return nil
				}

				if err := os.WriteFile(out, []byte(res.Module.String()), 0o644); err != nil {
					return errors.Wrapf(err, "could not write %s", out)
				}

				logger.Info("wrote module", "file", path, "out", out)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		if failed.Load() {
			return errReported
		}

		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(buildCmd)
}

// outputPaths maps every input to <dir>/<base name>.ll and rejects inputs
// that would write the same file.
func outputPaths(dir string, inputs []string) ([]string, error) {
	seen := make(map[string]string, len(inputs))

	outputs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		base := filepath.Base(in)
		out := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".ll")

		if prev, ok := seen[out]; ok {
			return nil, errors.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in

		outputs = append(outputs, out)
	}

	return outputs, nil
}
