package storage

// SegmentTree is a lazy segment tree over positions [0, n) supporting
// O(log n) range-add and O(1)/O(log n) minimum queries. The node value type
// V is generic so the same tree backs both the plain int "cover count" used
// by the priority-queue monitor and the composite (cover, valueSum) pairs
// used by the stack monitor's permissive-position search.
//
// Ties in QueryMin/QueryMinRange are broken by leftmost position, matching
// the merge rule: a left child's minimum wins ties against its sibling.
type SegmentTree[V any] struct {
	n      int
	minVal []V
	minPos []int
	weight []V
	zero   V
	add    func(a, b V) V
	less   func(a, b V) bool
}

// NewSegmentTree builds a tree of size n (minimum 1), all positions starting
// at zero. add must be associative with identity zero (add(v, zero) == v);
// less must be a strict weak order; it decides which value is the minimum,
// and values it ranks equal go to the leftmost position.
func NewSegmentTree[V any](n int, zero V, add func(a, b V) V, less func(a, b V) bool) *SegmentTree[V] {
	if n < 1 {
		n = 1
	}
	t := &SegmentTree[V]{
		n:      n,
		minVal: make([]V, 4*n),
		minPos: make([]int, 4*n),
		weight: make([]V, 4*n),
		zero:   zero,
		add:    add,
		less:   less,
	}
	t.build(1, 0, n-1)
	return t
}

func (t *SegmentTree[V]) build(v, tl, tr int) {
	t.minVal[v] = t.zero
	t.weight[v] = t.zero
	t.minPos[v] = tl
	if tl != tr {
		tm := (tl + tr) >> 1
		t.build(v<<1, tl, tm)
		t.build(v<<1+1, tm+1, tr)
	}
}

func (t *SegmentTree[V]) merge(v, a, b int) {
	if t.less(t.minVal[b], t.minVal[a]) {
		t.minVal[v] = t.minVal[b]
		t.minPos[v] = t.minPos[b]
	} else {
		t.minVal[v] = t.minVal[a]
		t.minPos[v] = t.minPos[a]
	}
}

func (t *SegmentTree[V]) apply(v int, delta V) {
	t.minVal[v] = t.add(t.minVal[v], delta)
	t.weight[v] = t.add(t.weight[v], delta)
}

func (t *SegmentTree[V]) propagate(v int) {
	t.apply(v<<1, t.weight[v])
	t.apply(v<<1+1, t.weight[v])
	t.weight[v] = t.zero
}

// UpdateRange adds delta to every position in [l, r] (inclusive).
func (t *SegmentTree[V]) UpdateRange(l, r int, delta V) {
	if l > r {
		return
	}
	t.updateRange(1, 0, t.n-1, l, r, delta)
}

func (t *SegmentTree[V]) updateRange(v, tl, tr, l, r int, delta V) {
	if l == tl && r == tr {
		t.apply(v, delta)
		return
	}
	t.propagate(v)
	tm := (tl + tr) >> 1
	if l <= tm {
		rr := r
		if rr > tm {
			rr = tm
		}
		t.updateRange(v<<1, tl, tm, l, rr, delta)
	}
	if r > tm {
		ll := l
		if ll < tm+1 {
			ll = tm + 1
		}
		t.updateRange(v<<1+1, tm+1, tr, ll, r, delta)
	}
	t.merge(v, v<<1, v<<1+1)
}

// Disable adds infinity to exactly position pos, so it is never chosen
// again by QueryMin/QueryMinRange as long as infinity dominates every value
// that could ever accumulate at that position. A single-point UpdateRange is
// sufficient because this position's cover is never touched again once the
// tree's caller has retracted the value that owned it.
func (t *SegmentTree[V]) Disable(pos int, infinity V) {
	t.UpdateRange(pos, pos, infinity)
}

// QueryMin returns the minimum value over the whole tree and its leftmost
// achieving position, in O(1).
func (t *SegmentTree[V]) QueryMin() (V, int) {
	return t.minVal[1], t.minPos[1]
}

// QueryMinRange returns the minimum value over [l, r] and its leftmost
// achieving position, in O(log n).
func (t *SegmentTree[V]) QueryMinRange(l, r int) (V, int) {
	return t.queryMinRange(1, 0, t.n-1, l, r)
}

func (t *SegmentTree[V]) queryMinRange(v, tl, tr, l, r int) (V, int) {
	if l == tl && r == tr {
		return t.minVal[v], t.minPos[v]
	}
	t.propagate(v)
	tm := (tl + tr) >> 1
	if r <= tm {
		return t.queryMinRange(v<<1, tl, tm, l, r)
	}
	if l > tm {
		return t.queryMinRange(v<<1+1, tm+1, tr, l, r)
	}
	leftVal, leftPos := t.queryMinRange(v<<1, tl, tm, l, tm)
	rightVal, rightPos := t.queryMinRange(v<<1+1, tm+1, tr, tm+1, r)
	if t.less(rightVal, leftVal) {
		return rightVal, rightPos
	}
	return leftVal, leftPos
}

// QueryPoint returns the current value at position pos, in O(log n). It is
// a pure read: it sums pending weights along the root-to-leaf path without
// pushing them down, which is safe because every node's weight already
// represents exactly the portion of its value not yet propagated to its
// children.
func (t *SegmentTree[V]) QueryPoint(pos int) V {
	return t.queryPoint(1, 0, t.n-1, pos)
}

func (t *SegmentTree[V]) queryPoint(v, tl, tr, pos int) V {
	if tl == tr {
		return t.weight[v]
	}
	tm := (tl + tr) >> 1
	var sub V
	if pos <= tm {
		sub = t.queryPoint(v<<1, tl, tm, pos)
	} else {
		sub = t.queryPoint(v<<1+1, tm+1, tr, pos)
	}
	return t.add(sub, t.weight[v])
}
