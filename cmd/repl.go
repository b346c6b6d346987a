package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.cog.dev/pkg"
)

const (
	historyFile = ".cog_history"
	promptMain  = "cog> "
	promptCont  = "...  "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse cog interactively and print each tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, _ := os.UserHomeDir()
		histPath := filepath.Join(home, historyFile)

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()

		fmt.Fprintln(cmd.OutOrStdout(), "cogc", Version, "- type :quit to exit")
		runRepl(ln, ln, cmd.OutOrStdout(), newDiagnostics(cmd.ErrOrStderr(), cfg.Output.Color), cfg.ParserOptions())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type prompter interface {
	Prompt(prompt string) (string, error)
}

type historian interface {
	AppendHistory(item string)
}

func runRepl(p prompter, h historian, out io.Writer, diag *diagnostics, opts []cog.Option) {
	for {
		src, ok := readByParseProbe(p, promptMain, promptCont, opts)
		if !ok {
			fmt.Fprintln(out)
			return
		}

		code := strings.TrimSpace(src)
		switch {
		case code == "":
			continue
		case code == ":quit":
			return
		case strings.HasPrefix(code, ":"):
			fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			continue
		}

		h.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		ast, err := cog.Parse(src, opts...)
		if err != nil {
			diag.Print(err)
			continue
		}

		fmt.Fprint(out, cog.SprintAll(ast))
	}
}

// readByParseProbe keeps reading lines while the input so far fails to parse
// only because it ended early. An empty continuation line submits what was
// typed so the error is shown.
func readByParseProbe(p prompter, prompt, cont string, opts []cog.Option) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = p.Prompt(prompt)
		} else {
			line, err = p.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}

		if _, perr := cog.Parse(src, opts...); perr != nil && cog.IsIncomplete(perr) {
			continue
		}

		return src, true
	}
}
