package historyfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fastlin/internal/model"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp history file: %v", err)
	}
	return path
}

func TestReadTypeParsesLeadingTag(t *testing.T) {
	path := writeTemp(t, "#   stack  \npush 1 1 2\npop 1 3 4\n")
	got, err := ReadType(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "stack" {
		t.Fatalf("ReadType() = %q, want %q", got, "stack")
	}
}

func TestReadTypeEmptyWhenNoTagLine(t *testing.T) {
	path := writeTemp(t, "push 1 1 2\npop 1 3 4\n")
	got, err := ReadType(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("ReadType() = %q, want empty string", got)
	}
}

func TestReadHistoryParsesOperationsAndAssignsSequentialIDs(t *testing.T) {
	path := writeTemp(t, "# queue\n\n# a comment\nenq 1 1 2\nenq 2 3 4\ndeq 1 5 6\n")
	hist, err := ReadHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("ReadHistory() returned %d ops, want 3", len(hist))
	}
	for i, o := range hist {
		wantID := uint64(i + 1)
		if o.ID != wantID {
			t.Fatalf("op[%d].ID = %d, want %d", i, o.ID, wantID)
		}
	}
	if hist[0].Method != model.ENQ || hist[0].Value != 1 || hist[0].Start != 1 || hist[0].End != 2 {
		t.Fatalf("op[0] = %+v, unexpected fields", hist[0])
	}
}

func TestReadHistoryRejectsUnknownMethod(t *testing.T) {
	path := writeTemp(t, "frobnicate 1 1 2\n")
	if _, err := ReadHistory(path); !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestReadHistoryRejectsStartNotLessThanEnd(t *testing.T) {
	path := writeTemp(t, "push 1 5 5\n")
	if _, err := ReadHistory(path); !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestReadHistoryRejectsWrongFieldCount(t *testing.T) {
	path := writeTemp(t, "push 1 5\n")
	if _, err := ReadHistory(path); !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
