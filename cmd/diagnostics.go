package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"go.cog.dev/pkg"
)

// longest remainder excerpt shown under a diagnostic
const maxExcerpt = 60

type diagnostics struct {
	mu sync.Mutex
	w  io.Writer

	errStyle     lipgloss.Style
	msgStyle     lipgloss.Style
	excerptStyle lipgloss.Style
	okStyle      lipgloss.Style
}

// newDiagnostics styles output for w. color is one of auto, always or never.
func newDiagnostics(w io.Writer, color string) *diagnostics {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}

	return &diagnostics{
		w:            w,
		errStyle:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		msgStyle:     r.NewStyle().Bold(true),
		excerptStyle: r.NewStyle().Foreground(lipgloss.Color("8")),
		okStyle:      r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Print writes err, expanding syntax and check errors into their parts.
func (d *diagnostics) Print(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var serr *cog.SyntaxError
	if errors.As(err, &serr) {
		prefix := strings.TrimSuffix(err.Error(), serr.Error())
		fmt.Fprintf(d.w, "%s%s %s\n", prefix, d.errStyle.Render("error["+serr.Code()+"]:"), d.msgStyle.Render(serr.Message()))

		if ex := excerpt(serr.Remainder); ex != "" {
			fmt.Fprintf(d.w, "  --> %s\n", d.excerptStyle.Render(ex))
		}
		return
	}

	var cerr *cog.CheckFailedError
	if errors.As(err, &cerr) {
		prefix := strings.TrimSuffix(err.Error(), cerr.Error())
		for _, e := range cerr.Errors {
			fmt.Fprintf(d.w, "%s%s %s\n", prefix, d.errStyle.Render("error:"), d.msgStyle.Render(e.String()))
		}
		return
	}

	fmt.Fprintf(d.w, "%s %s\n", d.errStyle.Render("error:"), err)
}

func (d *diagnostics) OK(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.w, "%s: %s\n", name, d.okStyle.Render("ok"))
}

// excerpt is the first line of the remainder, shortened to maxExcerpt runes.
func excerpt(rem string) string {
	if i := strings.IndexByte(rem, '\n'); i >= 0 {
		rem = rem[:i]
	}

	if r := []rune(rem); len(r) > maxExcerpt {
		rem = string(r[:maxExcerpt]) + "..."
	}

	return rem
}
