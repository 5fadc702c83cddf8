package engine

import (
	"testing"

	"fastlin/internal/model"
)

func TestStackIsLinearizableEmptyHistory(t *testing.T) {
	got, err := StackIsLinearizable(nil)
	if err != nil || !got {
		t.Fatalf("expected empty history to be trivially linearizable, got %v, err %v", got, err)
	}
}

func TestStackIsLinearizableSingleElement(t *testing.T) {
	hist := model.History{
		op(1, model.PUSH, 1, 1, 2),
		op(2, model.POP, 1, 3, 4),
	}
	got, err := StackIsLinearizable(hist)
	if err != nil || !got {
		t.Fatalf("expected single push/pop pair to be accepted, got %v, err %v", got, err)
	}
}

func TestStackIsLinearizableNoPeekSingleElement(t *testing.T) {
	hist := model.History{
		op(1, model.PUSH, 1, 1, 2),
		op(2, model.POP, 1, 3, 4),
	}
	got, err := StackIsLinearizableNoPeek(hist)
	if err != nil || !got {
		t.Fatalf("expected single push/pop pair to be accepted, got %v, err %v", got, err)
	}
}

func TestStackIsLinearizableNestedOverlap(t *testing.T) {
	// Value 2 is pushed and popped entirely within value 1's lifetime: a
	// valid LIFO order pushes 1, then 2, pops 2, then pops 1.
	hist := model.History{
		op(1, model.PUSH, 1, 1, 10),
		op(2, model.PUSH, 2, 3, 4),
		op(3, model.POP, 2, 5, 6),
		op(4, model.POP, 1, 11, 12),
	}
	got, err := StackIsLinearizable(hist)
	if err != nil || !got {
		t.Fatalf("expected nested push/pop to be accepted, got %v, err %v", got, err)
	}
}
