package engine

import "fastlin/internal/model"

var (
	setAddMethods    = model.NewMethodGroup(model.INSERT)
	setRemoveMethods = model.NewMethodGroup(model.REMOVE)
)

type setWindow struct {
	minResponse int64
	maxInvocation int64
}

// SetIsLinearizable decides linearizability of a set history: INSERT and
// REMOVE, plus CONTAINS_TRUE/CONTAINS_FALSE observations. Grounded on
// set::is_linearizable in algo/set_lin.h. Unlike the other three monitors,
// the set algorithm needs no augmented structure: a per-value window of
// (earliest possible response, latest possible invocation) among the
// operations that touch that value is enough to check every operation's
// placement.
func SetIsLinearizable(hist model.History) (bool, error) {
	if len(hist) == 0 {
		return true, nil
	}

	extended, ok := Extend(hist, setAddMethods, setRemoveMethods)
	if !ok {
		return false, nil
	}

	windows := make(map[int64]*setWindow)
	for _, o := range extended {
		if o.Method == model.CONTAINS_FALSE {
			continue
		}
		w, ok := windows[o.Value]
		if !ok {
			w = &setWindow{minResponse: maxInt64, maxInvocation: minInt64}
			windows[o.Value] = w
		}
		if o.End < w.minResponse {
			w.minResponse = o.End
		}
		if o.Start > w.maxInvocation {
			w.maxInvocation = o.Start
		}
	}

	for _, o := range extended {
		w := windows[o.Value]
		if o.Method != model.CONTAINS_FALSE {
			if o.Method == model.INSERT && o.Start > w.minResponse {
				return false, nil
			}
			if o.Method == model.REMOVE && o.End < w.maxInvocation {
				return false, nil
			}
		} else if w.minResponse < o.Start && o.End < w.maxInvocation {
			return false, nil
		}
	}

	return true, nil
}

const maxInt64 = 1<<63 - 1

// SetIsLinearizableNoPeek is the `_x` variant: it ignores CONTAINS_TRUE and
// CONTAINS_FALSE entirely and only checks that every INSERT's invocation
// happens no later than the earliest response recorded for its value.
// Grounded on set::is_linearizable_x in algo/set_lin.h.
func SetIsLinearizableNoPeek(hist model.History) (bool, error) {
	if len(hist) == 0 {
		return true, nil
	}

	filtered := make(model.History, 0, len(hist))
	for _, o := range hist {
		if o.Method != model.CONTAINS_TRUE && o.Method != model.CONTAINS_FALSE {
			filtered = append(filtered, o)
		}
	}

	extended, ok := Extend(filtered, setAddMethods, setRemoveMethods)
	if !ok {
		return false, nil
	}

	minResponse := make(map[int64]int64)
	for _, o := range extended {
		r, ok := minResponse[o.Value]
		if !ok || o.End < r {
			minResponse[o.Value] = o.End
		}
	}

	for _, o := range extended {
		if o.Method == model.INSERT && o.Start > minResponse[o.Value] {
			return false, nil
		}
	}

	return true, nil
}
