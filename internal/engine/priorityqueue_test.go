package engine

import (
	"testing"

	"fastlin/internal/model"
)

// TestPriorityQueueStreamingVariant exercises the streaming alternative
// priority-queue algorithm, which is not wired to the CLI and is otherwise
// unreachable from outside this package.
func TestPriorityQueueStreamingVariant(t *testing.T) {
	tests := []struct {
		name string
		hist model.History
		want bool
	}{
		{
			name: "S7 linearizable",
			hist: model.History{
				op(1, model.INSERT, 10, 1, 2),
				op(2, model.INSERT, 5, 3, 4),
				op(3, model.POLL, 10, 5, 6),
				op(4, model.POLL, 5, 7, 8),
			},
			want: true,
		},
		{
			name: "S8 violation",
			hist: model.History{
				op(1, model.INSERT, 10, 1, 2),
				op(2, model.INSERT, 5, 3, 4),
				op(3, model.POLL, 5, 5, 6),
				op(4, model.POLL, 10, 7, 8),
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := priorityQueueIsLinearizableStreaming(tc.hist)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
