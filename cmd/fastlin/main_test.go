package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeHistory(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp history file: %v", err)
	}
	return path
}

func resetFlags() {
	printTime, excludePeeks, verbose, printHeader = false, false, false, false
}

func TestRunPrintsOneOrZero(t *testing.T) {
	defer resetFlags()
	resetFlags()

	path := writeHistory(t, "# set\ninsert 1 1 2\nremove 1 3 4\n")
	var out strings.Builder
	if err := run(path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "1 \n"; got != want {
		t.Fatalf("run() output = %q, want %q", got, want)
	}
}

func TestRunVerbosePrintsAllColumns(t *testing.T) {
	defer resetFlags()
	resetFlags()
	verbose = true

	path := writeHistory(t, "# set\ninsert 1 1 2\nremove 1 3 4\n")
	var out strings.Builder
	if err := run(path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := strings.Fields(out.String())
	if len(fields) != 4 {
		t.Fatalf("run() verbose output = %q, want 4 fields", out.String())
	}
	if fields[0] != "1" || fields[2] != "2" || fields[3] != "false" {
		t.Fatalf("run() verbose output = %q, unexpected field values", out.String())
	}
}

func TestRunRejectsUnknownDataType(t *testing.T) {
	defer resetFlags()
	resetFlags()

	path := writeHistory(t, "# bag\ninsert 1 1 2\n")
	if err := run(path, &strings.Builder{}); err == nil {
		t.Fatal("expected an error for an unknown datatype tag")
	}
}

func TestHelpFlagPrintsUsageAndExitsCleanly(t *testing.T) {
	defer resetFlags()
	resetFlags()

	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help returned an error: %v", err)
	}
	if got := out.String(); got != usageText {
		t.Fatalf("--help output = %q, want %q", got, usageText)
	}
}

func TestUnknownFlagReturnsErrorWithoutUsageBlock(t *testing.T) {
	defer resetFlags()
	resetFlags()

	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--bogus-flag"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	// SilenceUsage/SilenceErrors leave diagnosing this error to main's
	// log.Fatalf, matching the original's one-line stderr message instead
	// of cobra's default multi-line usage dump.
	if got := out.String(); got != "" {
		t.Fatalf("unknown-flag output = %q, want empty", got)
	}
}

func TestRunHeaderPrecedesResult(t *testing.T) {
	defer resetFlags()
	resetFlags()
	printHeader = true
	printTime = true

	path := writeHistory(t, "# set\ninsert 1 1 2\nremove 1 3 4\n")
	var out strings.Builder
	if err := run(path, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("run() output = %q, want header + result lines", out.String())
	}
	if lines[0] != "result time_taken " {
		t.Fatalf("header line = %q, want %q", lines[0], "result time_taken ")
	}
}
