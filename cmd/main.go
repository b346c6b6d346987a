package main

import (
	"os"

	"github.com/pkg/errors"
)

func main() {
	if err := Execute(); err != nil {
		if !errors.Is(err, errReported) {
			newDiagnostics(os.Stderr, colorSetting()).Print(err)
		}
		os.Exit(1)
	}
}
