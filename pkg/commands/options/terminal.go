package options

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrNoTerminal is returned when an interactive command is not attached to
// a terminal.
var ErrNoTerminal = errors.New("this command needs an interactive terminal")

// RequireTerminal fails unless stdin and stdout are terminals.
func RequireTerminal() error {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return ErrNoTerminal
	}
	return nil
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
