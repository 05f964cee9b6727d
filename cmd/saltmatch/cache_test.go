package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivoronin/saltmatch/internal/testutil"
)

func TestCacheImportAndMatch(t *testing.T) {
	t.Parallel()

	rosterPath := testutil.WriteFile(t, "roster.yaml", testRoster)
	dbPath := filepath.Join(t.TempDir(), "targets.db")

	result := testutil.RunCLI(t, run, "cache", "import", rosterPath, dbPath)
	if result.ExitCode != ExitSuccess {
		t.Fatalf("import exit code = %d, stderr: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "imported 3 targets") {
		t.Errorf("unexpected import output: %s", result.Stdout)
	}

	result = testutil.RunCLI(t, run, "cache", "list", "-j", dbPath)
	if result.ExitCode != ExitSuccess {
		t.Fatalf("list exit code = %d, stderr: %s", result.ExitCode, result.Stderr)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, result.Stdout)
	}
	if len(entries) != 3 || entries[0]["target"] != "db01" {
		t.Errorf("unexpected entries: %v", entries)
	}

	// Numbers survive the JSON round trip through the cache.
	result = testutil.RunCLI(t, run, "match", "-r", dbPath, "grains['num_cpus'] >= 4")
	if result.ExitCode != ExitSuccess {
		t.Fatalf("match exit code = %d, stderr: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "db01") || !strings.Contains(result.Stdout, "web01") {
		t.Errorf("unexpected match output:\n%s", result.Stdout)
	}
	if strings.Contains(result.Stdout, "web02") {
		t.Error("web02 has 2 CPUs and should not match")
	}
}

func TestCacheImportErrors(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, run, "cache", "import", "/nonexistent/roster.yaml", filepath.Join(t.TempDir(), "x.db"))
	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d", result.ExitCode, ExitInputError)
	}

	result = testutil.RunCLI(t, run, "cache", "import", "only-one-arg")
	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d", result.ExitCode, ExitInputError)
	}

	result = testutil.RunCLI(t, run, "cache", "list", filepath.Join(t.TempDir(), "missing.db"))
	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d", result.ExitCode, ExitInputError)
	}
}
