package commands

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// stdinIsTerminal is replaced in tests
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword prompts on w and reads a line from the terminal without echo
var readPassword = func(w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
