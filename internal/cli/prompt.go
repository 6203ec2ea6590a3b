package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptToken prints a prompt to w and reads the refresh token from the
// user's terminal without echo. A newline is printed after the read to keep
// the UI tidy.
func promptToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter refresh token: "); err != nil {
		return "", err
	}
	tok, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(tok)), nil
}
