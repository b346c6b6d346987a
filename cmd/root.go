package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.cog.dev/internal/config"
	"go.cog.dev/pkg"
)

var (
	cfgFile string
	verbose bool

	cfg      *config.Config
	logger   *slog.Logger
	compiler *cog.Compiler
)

// errReported is returned once diagnostics have already been printed, so
// only the exit status is left to set.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "cogc",
	Short: "cogc - lexer, parser and LLVM IR generator for cog",
	Long: `cogc reads cog source files and runs them through the front end
and the LLVM IR generator.

Commands:
  lex      - print the token vector
  parse    - print the syntax tree
  check    - parse and check the tree shape
  build    - write LLVM IR (.ll) files
  watch    - re-parse a file whenever it changes
  repl     - parse input interactively`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $COG_CONFIG, ./cog.toml or ~/.config/cog/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every compiler stage")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if err := cfg.Validate(Version); err != nil {
		return err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	logger = newLogger(cmd.ErrOrStderr(), level)
	logger.Debug("configuration loaded", "path", cfg.Path, "requires", cfg.Requires)

	compiler = cog.NewCompiler(
		cog.WithLogger(logger),
		cog.WithParserOptions(cfg.ParserOptions()...),
	)

	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func colorSetting() string {
	if cfg == nil {
		return "auto"
	}

	return cfg.Output.Color
}

// readSource reads the named file, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", errors.Wrap(err, "could not read standard input")
		}

		return "<stdin>", string(src), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrap(err, "could not read source")
	}

	return path, string(src), nil
}
