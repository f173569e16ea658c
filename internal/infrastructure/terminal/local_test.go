package terminal

import (
	"context"
	"strings"
	"testing"
)

func TestLocalExecuteCapturesOutput(t *testing.T) {
	term := NewLocal("/bin/sh")
	res, err := term.Execute(context.Background(), "echo hello", t.TempDir())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d", res.ExitCode)
	}
}

func TestLocalExecuteNonZeroExitIsNotError(t *testing.T) {
	term := NewLocal("/bin/sh")
	res, err := term.Execute(context.Background(), "exit 3", t.TempDir())
	if err != nil {
		t.Fatalf("non-zero exit surfaced as error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestLocalExecuteRunsInWorkdir(t *testing.T) {
	dir := t.TempDir()
	term := NewLocal("/bin/sh")
	res, err := term.Execute(context.Background(), "pwd", dir)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != dir {
		t.Errorf("pwd = %q, want %q", strings.TrimSpace(res.Stdout), dir)
	}
}

func TestLocalExecuteContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	term := NewLocal("/bin/sh")
	if _, err := term.Execute(ctx, "sleep 5", t.TempDir()); err == nil {
		t.Error("expected error for canceled context")
	}
}
