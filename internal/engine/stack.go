package engine

import (
	"fastlin/internal/model"
	"fastlin/internal/storage"
)

var (
	stackAddMethods    = model.NewMethodGroup(model.PUSH)
	stackRemoveMethods = model.NewMethodGroup(model.POP)
)

const (
	permMultiLayers = -1
	permInfLayers   = -2
	stackInfinity   = 1 << 30
)

// stackCoverNode is the critical-interval segment tree's composite node:
// Cover counts how many values' critical windows cover a position, and Sum
// carries the sum of those values along for the ride so that when Cover
// drops to exactly one, the single covering value is recoverable without a
// second lookup. Grounded on stack_perm_segtree::node_value_t in
// algo/stack_lin.h.
type stackCoverNode struct {
	Cover int
	Sum   int64
}

func addStackCover(a, b stackCoverNode) stackCoverNode {
	return stackCoverNode{Cover: a.Cover + b.Cover, Sum: a.Sum + b.Sum}
}

func lessStackCover(a, b stackCoverNode) bool {
	return a.Cover < b.Cover
}

// stackPermSegTree tracks, for every timestamp position, how many values'
// critical windows (push-response to pop-invocation) currently cover it,
// and drives the permissive-position search stack::is_linearizable and
// is_linearizable_x share. Grounded on stack_perm_segtree in
// algo/stack_lin.h.
type stackPermSegTree struct {
	n             int
	tree          *storage.SegmentTree[stackCoverNode]
	critIntervals map[int64]storage.Interval
	waitingReturns map[int64][]int
	pendingReturns []int
}

func newStackPermSegTree(hist model.History, n int) *stackPermSegTree {
	sst := &stackPermSegTree{
		n:              n,
		tree:           storage.NewSegmentTree(n, stackCoverNode{}, addStackCover, lessStackCover),
		critIntervals:  make(map[int64]storage.Interval),
		waitingReturns: make(map[int64][]int),
	}

	for _, o := range hist {
		iv := sst.critIntervals[o.Value]
		switch o.Method {
		case model.PUSH:
			iv.Start = int(o.End)
		case model.POP:
			iv.End = int(o.Start)
		}
		sst.critIntervals[o.Value] = iv
	}
	for value, iv := range sst.critIntervals {
		if iv.Start < iv.End {
			sst.tree.UpdateRange(iv.Start, iv.End-1, stackCoverNode{Cover: 1, Sum: value})
		}
	}

	return sst
}

// removeSubhistory retracts value's critical cover (it is fully resolved:
// both its push and pop have been discharged) and promotes every position
// that had been tentatively attributed to it into pendingReturns, so the
// permissive-position loop revisits them without needing the now-disabled
// segment tree to report them again.
func (sst *stackPermSegTree) removeSubhistory(value int64) {
	iv := sst.critIntervals[value]
	if iv.Start < iv.End {
		sst.tree.UpdateRange(iv.Start, iv.End-1, stackCoverNode{Cover: -1, Sum: -value})
	}
	sst.pendingReturns = append(sst.pendingReturns, sst.waitingReturns[value]...)
	delete(sst.waitingReturns, value)
}

// getPermissive returns the next position the loop should discharge. hasVal
// is true when the position was freed by a single covering value, in which
// case val names it and only that value's own operations should be
// discharged there; otherwise every operation containing the position is
// fair game. pos is permMultiLayers or permInfLayers when the covering set
// at the global minimum position is ambiguous (see stack.go's callers).
func (sst *stackPermSegTree) getPermissive() (pos int, val int64, hasVal bool) {
	if n := len(sst.pendingReturns); n > 0 {
		pos = sst.pendingReturns[n-1]
		sst.pendingReturns = sst.pendingReturns[:n-1]
		return pos, 0, false
	}

	node, p := sst.tree.QueryMin()
	sst.tree.Disable(p, stackCoverNode{Cover: stackInfinity, Sum: 0})

	switch {
	case node.Cover == 0:
		return p, 0, false
	case node.Cover == 1:
		val = node.Sum
		sst.waitingReturns[val] = append(sst.waitingReturns[val], p)
		return p, val, true
	case node.Cover <= sst.n:
		return permMultiLayers, 0, false
	default:
		return permInfLayers, 0, false
	}
}

// StackIsLinearizable decides linearizability of a LIFO stack history
// (PUSH/POP). Grounded on stack::is_linearizable in algo/stack_lin.h: a
// permissive-position loop that repeatedly finds a timestamp at which some
// value's operations can be legally discharged, using a live-operation
// interval tree per value plus a global one to know when every operation
// has been placed.
func StackIsLinearizable(hist model.History) (bool, error) {
	extended, ok := Extend(hist, stackAddMethods, stackRemoveMethods)
	if !ok {
		return false, nil
	}

	events := extended.Events()
	if !Tune(events, stackAddMethods, stackRemoveMethods) {
		return false, nil
	}
	if !VerifyEmpty(events, stackAddMethods, stackRemoveMethods) {
		return false, nil
	}

	stripped := StripEmpty(extended)
	if len(stripped) == 0 {
		return true, nil
	}
	maxTime := int(maxEventTime(stripped.Events()))
	if maxTime < 1 {
		return true, nil
	}

	ops := storage.NewIntervalTree(len(stripped) * 2)
	opByVal := make(map[int64]*storage.IntervalTree)
	startTimeToVal := make([]int64, maxTime+1)

	for _, o := range stripped {
		iv := storage.Interval{Start: int(o.Start), End: int(o.End)}
		ops.Insert(iv)
		startTimeToVal[o.Start] = o.Value
		tree, ok := opByVal[o.Value]
		if !ok {
			tree = storage.NewIntervalTree(4)
			opByVal[o.Value] = tree
		}
		tree.Insert(iv)
	}

	sst := newStackPermSegTree(stripped, maxTime)

	for !ops.Empty() {
		pos, val, hasVal := sst.getPermissive()
		if pos == permMultiLayers {
			return false, nil
		}
		if pos == permInfLayers {
			return true, nil
		}

		var overlaps []storage.Interval
		if hasVal {
			overlaps = opByVal[val].Query(pos)
		} else {
			overlaps = ops.Query(pos)
		}

		for _, itr := range overlaps {
			v := startTimeToVal[itr.Start]
			opByVal[v].Remove(itr)
			ops.Remove(itr)
			if opByVal[v].Empty() {
				sst.removeSubhistory(v)
			}
		}
	}

	return true, nil
}

// StackIsLinearizableNoPeek is the `_x` variant: it assumes no peek-style
// operations and so needs only a single generic live-operation interval
// tree plus a toggle set tracking which values have had exactly one of
// their two operations discharged. Grounded on stack::is_linearizable_x.
func StackIsLinearizableNoPeek(hist model.History) (bool, error) {
	extended, ok := Extend(hist, stackAddMethods, stackRemoveMethods)
	if !ok {
		return false, nil
	}

	events := extended.Events()
	if !TuneNoPeek(events, stackAddMethods) {
		return false, nil
	}
	if !VerifyEmpty(events, stackAddMethods, stackRemoveMethods) {
		return false, nil
	}

	stripped := StripEmpty(extended)
	if len(stripped) == 0 {
		return true, nil
	}
	maxTime := int(maxEventTime(stripped.Events()))
	if maxTime < 1 {
		return true, nil
	}

	intervals := make([]storage.Interval, 0, len(stripped))
	startTimeToVal := make([]int64, maxTime+1)
	for _, o := range stripped {
		intervals = append(intervals, storage.Interval{Start: int(o.Start), End: int(o.End)})
		startTimeToVal[o.Start] = o.Value
	}
	ops := storage.NewIntervalTreeFromSorted(intervals)

	sst := newStackPermSegTree(stripped, maxTime)
	pending := make(map[int64]bool)

	for !ops.Empty() {
		pos, _, hasVal := sst.getPermissive()
		if pos == permMultiLayers {
			return false, nil
		}
		if pos == permInfLayers {
			return true, nil
		}
		if hasVal {
			continue
		}

		for _, itr := range ops.Query(pos) {
			ops.Remove(itr)
			val := startTimeToVal[itr.Start]
			if pending[val] {
				sst.removeSubhistory(val)
			} else {
				pending[val] = true
			}
		}
	}

	return true, nil
}
