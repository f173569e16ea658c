// Package terminal provides the local process-execution backend.
package terminal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/codriver-ai/codriver/internal/ports"
)

// Local runs commands through the host shell. It implements the Terminal
// port: a non-zero exit is a normal result, not an error; errors are
// reserved for failures to start the process at all.
type Local struct {
	shell string
}

// NewLocal builds a terminal backend, shell defaults to $SHELL then /bin/sh.
func NewLocal(shell string) *Local {
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Local{shell: shell}
}

// Execute implements ports.Terminal.
func (t *Local) Execute(ctx context.Context, command, workdir string) (ports.ExecResult, error) {
	cmd := exec.CommandContext(ctx, t.shell, "-c", command)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return ports.ExecResult{}, err
	}
	return result, nil
}

var _ ports.Terminal = (*Local)(nil)
