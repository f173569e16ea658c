package cli

import (
	"fmt"
	"io"
	"os"
)

// readResponseText loads the AI response text to plan from: the file named in
// args when present, otherwise stdin.
func readResponseText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read response file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no response text provided (pass a file or pipe text on stdin)")
	}
	return string(data), nil
}
