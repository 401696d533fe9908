package auth

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdinCodeProvider reads multi-factor codes from the given reader,
// one per prompt. Used by the CLI front-end.
func StdinCodeProvider(in io.Reader, out io.Writer) CodeProvider {
	reader := bufio.NewReader(in)
	return func() (string, error) {
		fmt.Fprint(out, "Enter 6-digit code: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read code: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
}
