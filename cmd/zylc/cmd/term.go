package cmd

import (
	"os"

	"golang.org/x/term"
)

// isColorTerminal decides whether diagnostic output should carry ANSI
// color, based on whether stderr is an interactive terminal.
func isColorTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
