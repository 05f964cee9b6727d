package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ivoronin/saltmatch/internal/testutil"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantSubstr string
		wantJSON   bool
	}{
		{
			name:       "text output",
			args:       []string{"version"},
			wantSubstr: "saltmatch",
		},
		{
			name:       "json output",
			args:       []string{"version", "-j"},
			wantSubstr: `"version":`,
			wantJSON:   true,
		},
		{
			name:       "json long flag",
			args:       []string{"version", "--json"},
			wantSubstr: `"version":`,
			wantJSON:   true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunCLI(t, run, tt.args...)

			if result.ExitCode != 0 {
				t.Errorf("exit code = %d, want 0", result.ExitCode)
			}

			if !strings.Contains(result.Stdout, tt.wantSubstr) {
				t.Errorf("stdout should contain %q, got:\n%s", tt.wantSubstr, result.Stdout)
			}

			if tt.wantJSON {
				var info map[string]string
				if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
					t.Fatalf("invalid JSON: %v\n%s", err, result.Stdout)
				}
				if info["version"] != Version {
					t.Errorf("version = %q, want %q", info["version"], Version)
				}
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, run, "frobnicate")
	if result.ExitCode != ExitInputError {
		t.Errorf("exit code = %d, want %d", result.ExitCode, ExitInputError)
	}
	if !strings.Contains(result.Stderr, "unknown command") {
		t.Errorf("stderr should mention unknown command, got:\n%s", result.Stderr)
	}
}
