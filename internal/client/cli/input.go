package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads one line from reader,
// trimming the trailing newline. A partial line before EOF is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo.
func GetPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// GetChoice prints a numbered list of options and reads a 1-based pick.
// An empty line aborts and returns -1.
func GetChoice(reader *bufio.Reader, prompt string, options []string, w io.Writer) (int, error) {
	fmt.Fprintln(w, prompt)
	for i, opt := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, opt)
	}
	line, err := GetSimpleText(reader, "Enter a number (empty to cancel)", w)
	if err != nil {
		return -1, err
	}
	if line == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return -1, fmt.Errorf("invalid choice %q", line)
	}
	return n - 1, nil
}
