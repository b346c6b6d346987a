package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse source files and check the shape of their trees",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		diag := newDiagnostics(cmd.ErrOrStderr(), cfg.Output.Color)
		okOut := newDiagnostics(cmd.OutOrStdout(), cfg.Output.Color)

		failed := false
		for _, path := range args {
			name, src, err := readSource(cmd, path)
			if err == nil {
				_, err = compiler.Analyze(name, src)
			}

			if err != nil {
				diag.Print(err)
				failed = true
				continue
			}

			okOut.OK(name)
		}

		if failed {
			return errReported
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
