// Package testutil holds helpers shared by command tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// ExecResult holds the result of a CLI command execution.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner is an in-process CLI entry point returning the process exit code.
type Runner func(ctx context.Context, args []string, stdout, stderr io.Writer) int

// RunCLI executes run with the given arguments and captures its output and
// exit code.
func RunCLI(tb testing.TB, run Runner, args ...string) ExecResult {
	tb.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns its path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}
