// Package engine implements the shared history front-end (Extend, Tune,
// VerifyEmpty, StripEmpty) and the four datatype-specific monitors that sit
// on top of it. Every exported IsLinearizable/IsLinearizableNoPeek pair
// mirrors the original fastlin C++ algorithm it is grounded on; see
// DESIGN.md for the mapping.
package engine

import "fastlin/internal/model"

// Extend scans hist, rejecting a distinct-value violation (two adds or two
// removes of the same non-empty value). For any value with an add but no
// remove, it synthesizes one of removeGroup's canonical method at
// (maxTime+1, maxTime+2) with a fresh id, so that after Extend every
// non-empty value has exactly one add and one remove. Extend mutates hist
// only by appending synthetic operations; it never removes or reorders
// existing ones, so a second application on its own result is a no-op.
func Extend(hist model.History, addGroup, removeGroup model.MethodGroup) (model.History, bool) {
	type counts struct {
		hasAdd    bool
		hasRemove bool
	}

	var maxTime int64 = minInt64
	maxID := hist.MaxID()
	seen := make(map[int64]*counts)

	for _, o := range hist {
		if o.IsEmpty() {
			continue
		}
		c, ok := seen[o.Value]
		if !ok {
			c = &counts{}
			seen[o.Value] = c
		}
		if addGroup.Contains(o.Method) {
			if c.hasAdd {
				return hist, false
			}
			c.hasAdd = true
		}
		if removeGroup.Contains(o.Method) {
			if c.hasRemove {
				return hist, false
			}
			c.hasRemove = true
		}
		if o.End > maxTime {
			maxTime = o.End
		}
	}

	for value, c := range seen {
		if !c.hasAdd {
			return hist, false
		}
		if !c.hasRemove {
			maxID++
			hist = append(hist, &model.Operation{
				ID:     maxID,
				Method: removeGroup.First(),
				Value:  value,
				Start:  maxTime + 1,
				End:    maxTime + 2,
			})
		}
	}

	return hist, true
}

const minInt64 = -1 << 63

// valueEventData is the per-value bookkeeping Tune threads through its walk:
// the add and remove operations seen so far for this value, whether each
// has already been given a response timestamp, and the peek-style ("other")
// operations currently nested between them.
type valueEventData struct {
	addOp       *model.Operation
	removeOp    *model.Operation
	addEnded    bool
	removeEnded bool
	others      []*model.Operation
	othersHead  int
}

// Tune rewrites event timestamps in a single walk so that, for every value
// v, the add of v responds strictly before the remove of v is invoked, and
// every peek-style operation on v is nested between them. It fails if a
// remove of v is observed before any add of v was invoked, or if a
// peek-style operation on v overlaps an already-responded remove of v.
//
// Tuned timestamps are written back into both the operations and the
// events; the caller should treat events' order as unreliable afterwards
// and re-sort (VerifyEmpty does this with a counting sort, since tuned
// timestamps are dense integers).
func Tune(events []model.Event, addGroup, removeGroup model.MethodGroup) bool {
	model.SortEvents(events)

	ongoings := make(map[int64]*valueEventData)
	ongoingsOp := make(map[uint64]bool)

	var t int64
	next := func() int64 {
		t++
		return t
	}

	for i := range events {
		e := &events[i]
		o := e.Op
		value := o.Value

		data, ok := ongoings[value]
		if !ok {
			data = &valueEventData{}
			ongoings[value] = data
		}

		if o.IsEmpty() {
			if e.Kind == model.Invocation {
				o.Start = next()
			} else {
				o.End = next()
			}
			continue
		}

		if e.Kind == model.Invocation {
			o.Start = next()
			switch {
			case addGroup.Contains(o.Method):
				data.addOp = o
				for idx := data.othersHead; idx < len(data.others); idx++ {
					data.others[idx].Start = next()
				}
				if data.removeOp != nil {
					data.removeOp.Start = next()
				}
			case removeGroup.Contains(o.Method):
				data.removeOp = o
			default:
				ongoingsOp[o.ID] = true
				data.others = append(data.others, o)
				if data.removeOp != nil {
					if data.removeEnded {
						return false
					}
					data.removeOp.Start = next()
				}
			}
		} else {
			switch {
			case addGroup.Contains(o.Method):
				o.End = next()
				data.addEnded = true
			case removeGroup.Contains(o.Method):
				if data.addOp == nil {
					return false
				}
				if !data.addEnded {
					data.addOp.End = next()
				}
				for data.othersHead < len(data.others) {
					op := data.others[data.othersHead]
					data.othersHead++
					if !ongoingsOp[op.ID] {
						continue
					}
					ongoingsOp[op.ID] = false
					op.End = next()
				}
				data.removeOp.End = next()
				data.removeEnded = true
			default:
				if !ongoingsOp[o.ID] {
					continue
				}
				if data.addOp == nil {
					return false
				}
				if !data.addEnded {
					data.addOp.End = next()
					data.addEnded = true
				}
				ongoingsOp[o.ID] = false
				o.End = next()
			}
		}
	}

	writeBackTimes(events)
	return true
}

// TuneNoPeek is the `_x` variant of Tune: it omits all peek bookkeeping,
// assuming the history carries no peek-style operations. Every non-add
// operation on a value is treated directly as that value's remove.
func TuneNoPeek(events []model.Event, addGroup model.MethodGroup) bool {
	model.SortEvents(events)

	type dataX struct {
		addOp    *model.Operation
		removeOp *model.Operation
		addEnded bool
	}
	ongoings := make(map[int64]*dataX)

	var t int64
	next := func() int64 {
		t++
		return t
	}

	for i := range events {
		e := &events[i]
		o := e.Op
		value := o.Value

		data, ok := ongoings[value]
		if !ok {
			data = &dataX{}
			ongoings[value] = data
		}

		if o.IsEmpty() {
			if e.Kind == model.Invocation {
				o.Start = next()
			} else {
				o.End = next()
			}
			continue
		}

		if e.Kind == model.Invocation {
			o.Start = next()
			if addGroup.Contains(o.Method) {
				data.addOp = o
				if data.removeOp != nil {
					data.removeOp.Start = next()
				}
			} else {
				data.removeOp = o
			}
		} else {
			if addGroup.Contains(o.Method) {
				o.End = next()
				data.addEnded = true
			} else {
				if data.addOp == nil {
					return false
				}
				if !data.addEnded {
					data.addOp.End = next()
				}
				data.removeOp.End = next()
			}
		}
	}

	writeBackTimes(events)
	return true
}

func writeBackTimes(events []model.Event) {
	for i := range events {
		if events[i].Kind == model.Invocation {
			events[i].Time = events[i].Op.Start
		} else {
			events[i].Time = events[i].Op.End
		}
	}
}

// VerifyEmpty walks the tuned event stream maintaining the set of critical
// values (added but not yet removed). It fails if any empty-observation
// operation's entire interval sits while some critical value is live; the
// runningEmptyOp set is cleared every time the critical set empties, so an
// empty op only fails if it never saw a critical-count-zero moment between
// its invocation and response.
func VerifyEmpty(events []model.Event, addGroup, removeGroup model.MethodGroup) bool {
	countingSortEvents(events)

	runningEmptyOp := make(map[uint64]bool)
	critVal := make(map[int64]bool)
	critValCnt := 0

	for i := range events {
		e := &events[i]
		o := e.Op

		if !o.IsEmpty() {
			if e.Kind == model.Invocation && removeGroup.Contains(o.Method) {
				if critVal[o.Value] {
					critValCnt--
				}
				critVal[o.Value] = true
			} else if e.Kind == model.Response && addGroup.Contains(o.Method) {
				if !critVal[o.Value] {
					critVal[o.Value] = true
					critValCnt++
				}
			}
		} else {
			if e.Kind == model.Invocation {
				runningEmptyOp[o.ID] = true
			} else if runningEmptyOp[o.ID] {
				return false
			}
		}

		if critValCnt == 0 {
			runningEmptyOp = make(map[uint64]bool)
		}
	}

	return true
}

// countingSortEvents sorts events by Time in O(n + maxTime). It is only
// used after Tune, where timestamps are dense distinct integers starting
// at 1, so an O(n) bucket sort beats a general O(n log n) sort.
func countingSortEvents(events []model.Event) {
	if len(events) == 0 {
		return
	}
	var maxTime int64
	for _, e := range events {
		if e.Time > maxTime {
			maxTime = e.Time
		}
	}

	count := make([]int, maxTime+1)
	for _, e := range events {
		count[e.Time]++
	}
	for i := int64(1); i <= maxTime; i++ {
		count[i] += count[i-1]
	}

	output := make([]model.Event, len(events))
	for _, e := range events {
		count[e.Time]--
		output[count[e.Time]] = e
	}
	copy(events, output)
}

// StripEmpty drops every empty operation from hist; they have played their
// role once VerifyEmpty has accepted the history. Callers that already
// derived an event stream must regenerate it from the returned history.
func StripEmpty(hist model.History) model.History {
	out := make(model.History, 0, len(hist))
	for _, o := range hist {
		if !o.IsEmpty() {
			out = append(out, o)
		}
	}
	return out
}
