package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.cog.dev/pkg"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Print the syntax tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, src, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}

		ast, err := cog.Parse(src, cfg.ParserOptions()...)
		if err != nil {
			return errors.Wrap(err, name)
		}

		format := parseFormat
		if format == "" {
			format = cfg.Output.Format
		}

		return printAST(cmd.OutOrStdout(), format, ast)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: tree, json or yaml (default from config)")
	rootCmd.AddCommand(parseCmd)
}

func printAST(w io.Writer, format string, ast []cog.Expr) error {
	var (
		out []byte
		err error
	)

	switch format {
	case "tree":
		out = []byte(cog.SprintAll(ast))
	case "json":
		if out, err = cog.DumpJSON(ast); err == nil {
			out = append(out, '\n')
		}
	case "yaml":
		out, err = cog.DumpYAML(ast)
	default:
		return errors.Errorf("unknown format %q", format)
	}

	if err != nil {
		return errors.Wrapf(err, "could not encode tree as %s", format)
	}

	_, err = fmt.Fprint(w, string(out))
	return err
}
