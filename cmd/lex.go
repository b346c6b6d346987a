package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.cog.dev/pkg"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file|->",
	Short: "Print the tokens of a source file, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, src, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}

		tokens, err := cog.Lex(src)
		if err != nil {
			return errors.Wrap(err, name)
		}

		out := cmd.OutOrStdout()
		for _, tok := range tokens {
			fmt.Fprintln(out, tok)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
