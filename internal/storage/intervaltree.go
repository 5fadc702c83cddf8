package storage

import "sort"

// Interval is a half-open [Start, End) range over the timestamp space.
type Interval struct {
	Start int
	End   int
}

const nilIdx int32 = -1

type intervalNode struct {
	intvl  Interval
	maxEnd int
	height int32
	left   int32
	right  int32
}

// IntervalTree is a self-balancing (AVL) BST keyed by interval start,
// augmented with each subtree's maximum end, so that Query(point) can prune
// any subtree whose maxEnd <= point. Nodes live in an arena (Allocator)
// rather than behind individually heap-allocated pointers. Every inserted
// interval must have a start value unique within the tree.
type IntervalTree struct {
	alloc *Allocator[intervalNode]
	root  int32
}

// NewIntervalTree returns an empty tree with an arena sized for capacity
// intervals. The arena grows automatically past capacity.
func NewIntervalTree(capacity int) *IntervalTree {
	return &IntervalTree{alloc: NewGrowableAllocator[intervalNode](capacity), root: nilIdx}
}

// NewIntervalTreeFromSorted bulk-builds a balanced tree from intervals in
// O(n), for when every interval is known upfront. intervals is sorted by
// Start in place.
func NewIntervalTreeFromSorted(intervals []Interval) *IntervalTree {
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })
	t := &IntervalTree{alloc: NewGrowableAllocator[intervalNode](len(intervals) + 1), root: nilIdx}
	if len(intervals) > 0 {
		t.root = t.build(intervals, 0, len(intervals)-1)
	}
	return t
}

func (t *IntervalTree) build(intervals []Interval, l, r int) int32 {
	mid := (l + r) >> 1
	idx := t.alloc.Alloc()
	*t.alloc.At(idx) = intervalNode{intvl: intervals[mid], maxEnd: intervals[mid].End, left: nilIdx, right: nilIdx, height: 1}
	if l < mid {
		t.alloc.At(idx).left = t.build(intervals, l, mid-1)
	}
	if mid < r {
		t.alloc.At(idx).right = t.build(intervals, mid+1, r)
	}
	t.recompute(idx)
	return idx
}

// Empty reports whether the tree holds no intervals.
func (t *IntervalTree) Empty() bool {
	return t.root == nilIdx
}

// Insert adds i to the tree. i.Start must not already be present.
func (t *IntervalTree) Insert(i Interval) {
	t.root = t.insert(t.root, i)
}

// Remove deletes the interval with the given Start and End. i must exist in
// the tree for correctness.
func (t *IntervalTree) Remove(i Interval) {
	t.root = t.remove(t.root, i)
}

// Query returns every currently-inserted interval containing point, i.e.
// every interval [s, e) with s <= point < e. O(m log n) where m is the
// result size.
func (t *IntervalTree) Query(point int) []Interval {
	var result []Interval
	t.query(t.root, point, &result)
	return result
}

func (t *IntervalTree) height(idx int32) int32 {
	if idx == nilIdx {
		return 0
	}
	return t.alloc.At(idx).height
}

func (t *IntervalTree) maxEnd(idx int32) int {
	if idx == nilIdx {
		return minInt
	}
	return t.alloc.At(idx).maxEnd
}

const minInt = -1 << 62

func (t *IntervalTree) balance(idx int32) int32 {
	n := t.alloc.At(idx)
	return t.height(n.left) - t.height(n.right)
}

func (t *IntervalTree) recompute(idx int32) {
	n := t.alloc.At(idx)
	lh, rh := t.height(n.left), t.height(n.right)
	if lh > rh {
		n.height = lh + 1
	} else {
		n.height = rh + 1
	}
	me := n.intvl.End
	if le := t.maxEnd(n.left); le > me {
		me = le
	}
	if re := t.maxEnd(n.right); re > me {
		me = re
	}
	n.maxEnd = me
}

func (t *IntervalTree) rightRotate(y int32) int32 {
	x := t.alloc.At(y).left
	t2 := t.alloc.At(x).right

	t.alloc.At(x).right = y
	t.alloc.At(y).left = t2

	t.recompute(y)
	t.recompute(x)
	return x
}

func (t *IntervalTree) leftRotate(x int32) int32 {
	y := t.alloc.At(x).right
	t2 := t.alloc.At(y).left

	t.alloc.At(y).left = x
	t.alloc.At(x).right = t2

	t.recompute(x)
	t.recompute(y)
	return y
}

func (t *IntervalTree) autoBalance(idx int32) int32 {
	bal := t.balance(idx)
	if bal >= 2 {
		if t.balance(t.alloc.At(idx).left) == -1 {
			t.alloc.At(idx).left = t.leftRotate(t.alloc.At(idx).left)
		}
		return t.rightRotate(idx)
	}
	if bal <= -2 {
		if t.balance(t.alloc.At(idx).right) == 1 {
			t.alloc.At(idx).right = t.rightRotate(t.alloc.At(idx).right)
		}
		return t.leftRotate(idx)
	}
	return idx
}

func (t *IntervalTree) insert(idx int32, i Interval) int32 {
	if idx == nilIdx {
		leaf := t.alloc.Alloc()
		*t.alloc.At(leaf) = intervalNode{intvl: i, maxEnd: i.End, left: nilIdx, right: nilIdx, height: 1}
		return leaf
	}

	n := t.alloc.At(idx)
	if i.Start < n.intvl.Start {
		n.left = t.insert(n.left, i)
	} else {
		n.right = t.insert(n.right, i)
	}

	t.recompute(idx)
	return t.autoBalance(idx)
}

func (t *IntervalTree) minValueNode(idx int32) int32 {
	for t.alloc.At(idx).left != nilIdx {
		idx = t.alloc.At(idx).left
	}
	return idx
}

func (t *IntervalTree) remove(idx int32, i Interval) int32 {
	if idx == nilIdx {
		return idx
	}

	n := t.alloc.At(idx)
	switch {
	case i.Start < n.intvl.Start:
		n.left = t.remove(n.left, i)
	case i.Start > n.intvl.Start:
		n.right = t.remove(n.right, i)
	default:
		if n.left == nilIdx || n.right == nilIdx {
			var tmp int32
			if n.left != nilIdx {
				tmp = n.left
			} else {
				tmp = n.right
			}
			t.alloc.Free(idx)
			idx = tmp
		} else {
			succ := t.minValueNode(n.right)
			succIntvl := t.alloc.At(succ).intvl
			n.intvl = succIntvl
			n.right = t.remove(n.right, succIntvl)
		}
	}

	if idx == nilIdx {
		return idx
	}
	t.recompute(idx)
	return t.autoBalance(idx)
}

func (t *IntervalTree) query(idx int32, point int, result *[]Interval) {
	if idx == nilIdx {
		return
	}
	n := t.alloc.At(idx)
	if n.intvl.Start <= point && point < n.intvl.End {
		*result = append(*result, n.intvl)
	}
	if n.left != nilIdx && t.alloc.At(n.left).maxEnd > point {
		t.query(n.left, point, result)
	}
	if n.right != nilIdx && n.intvl.Start <= point {
		t.query(n.right, point, result)
	}
}
