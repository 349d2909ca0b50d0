package wallet

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordEnv overrides the interactive prompt, for scripted use.
const PasswordEnv = "POAP_KEYSTORE_PASSWORD"

// TerminalPassword reads a passphrase from the terminal without echo.
func TerminalPassword(prompt string) (string, error) {
	if pwd, ok := os.LookupEnv(PasswordEnv); ok {
		return pwd, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal, set %s", PasswordEnv)
	}
	fmt.Fprint(os.Stderr, prompt)
	pwd, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(pwd), "\r\n"), nil
}
