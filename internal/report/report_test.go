package report

import (
	"strings"
	"testing"
)

func TestWriteDefaultColumnsOnlyPrintsResult(t *testing.T) {
	var buf strings.Builder
	if err := Write(&buf, Result{Linearizable: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "1 \n"; got != want {
		t.Fatalf("Write() = %q, want %q", got, want)
	}
}

func TestWriteFalseResult(t *testing.T) {
	var buf strings.Builder
	if err := Write(&buf, Result{Linearizable: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "0 \n"; got != want {
		t.Fatalf("Write() = %q, want %q", got, want)
	}
}

func TestWriteVerboseIncludesAllColumns(t *testing.T) {
	r := Result{
		Linearizable:      true,
		Operations:        42,
		PrintTime:         true,
		TimeTakenSecs:     0.125,
		PrintOperations:   true,
		PrintExcludePeeks: true,
		ExcludePeeks:      true,
	}
	var buf strings.Builder
	if err := Write(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "1 0.125 42 true \n"; got != want {
		t.Fatalf("Write() = %q, want %q", got, want)
	}
}

func TestWriteHeaderMatchesSelectedColumns(t *testing.T) {
	r := Result{Linearizable: true, PrintTime: true, PrintExcludePeeks: true}
	var buf strings.Builder
	if err := WriteHeader(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "result time_taken exclude_peeks \n"; got != want {
		t.Fatalf("WriteHeader() = %q, want %q", got, want)
	}
}

func TestWriteHeaderOmitsUnselectedColumns(t *testing.T) {
	var buf strings.Builder
	if err := WriteHeader(&buf, Result{Linearizable: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "result \n"; got != want {
		t.Fatalf("WriteHeader() = %q, want %q", got, want)
	}
}
