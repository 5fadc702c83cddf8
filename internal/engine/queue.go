package engine

import "fastlin/internal/model"

var (
	queueAddMethods    = model.NewMethodGroup(model.ENQ)
	queueRemoveMethods = model.NewMethodGroup(model.DEQ)
)

// queueScanState holds the reverse-scan bookkeeping that the original C++
// implementation keeps in file-scope globals keyed by value type. Carrying
// it as a local struct instead makes QueueIsLinearizable reentrant and safe
// to call concurrently.
type queueScanState struct {
	pending      map[int64]bool
	ignore       map[int64]bool
	runningFront map[int64]int
	countByValue map[int64]int
}

func newQueueScanState(hist model.History) *queueScanState {
	counts := make(map[int64]int)
	for _, o := range hist {
		counts[o.Value]++
	}
	return &queueScanState{
		pending:      make(map[int64]bool),
		ignore:       make(map[int64]bool),
		runningFront: make(map[int64]int),
		countByValue: counts,
	}
}

// upgrade moves val from untouched -> pending -> ignored. The second call
// for a given value is the signal that both the enqueue side and the
// dequeue side have independently resolved it, letting later scans skip
// straight past its remaining events.
func (s *queueScanState) upgrade(val int64) {
	if s.pending[val] {
		delete(s.pending, val)
		s.ignore[val] = true
	} else {
		s.pending[val] = true
	}
}

func (s *queueScanState) limitFront(val int64) bool {
	return s.runningFront[val]+1 == s.countByValue[val]
}

func (s *queueScanState) consumeFront(val int64) {
	s.runningFront[val]++
	if s.limitFront(val) {
		s.upgrade(val)
	}
}

// reverseScanEnq advances idx backward (toward index -1) over ENQ events it
// can resolve: an ENQ response for a not-yet-ignored value upgrades that
// value and is consumed; an ENQ invocation for a not-yet-ignored value
// blocks the scan. Events of ignored values or non-ENQ methods are skipped
// without stopping. Returns the index the scan stopped at (-1 if it
// consumed every event).
func (s *queueScanState) reverseScanEnq(idx int, events []model.Event) int {
	for idx >= 0 {
		e := &events[idx]
		o := e.Op
		val := o.Value

		if s.ignore[val] || o.Method != model.ENQ {
			idx--
			continue
		}
		if e.Kind == model.Invocation {
			break
		}

		s.upgrade(val)
		idx--
	}
	return idx
}

// reverseScanFront mirrors reverseScanEnq for DEQ events. last tracks the
// value currently "at the front" as the scan walks backward; a DEQ
// invocation for a different value, or one whose count is already
// exhausted, blocks the scan.
func (s *queueScanState) reverseScanFront(idx int, events []model.Event, last *int64, hasLast *bool) int {
	for idx >= 0 {
		e := &events[idx]
		o := e.Op
		val := o.Value

		if s.ignore[val] || o.Method == model.ENQ {
			idx--
			continue
		}

		if *hasLast && s.ignore[*last] {
			*hasLast = false
		}

		if e.Kind == model.Invocation {
			if !*hasLast {
				*last = val
				*hasLast = true
			}
			if *last != val || s.limitFront(val) {
				break
			}
		} else {
			s.consumeFront(val)
		}

		idx--
	}
	return idx
}

// QueueIsLinearizable decides linearizability of a FIFO queue history
// (ENQ/DEQ). Grounded on queue::is_linearizable in algo/queue_lin.h: a
// backward sweep of the tuned event stream, alternating between an
// ENQ-resolving cursor and a DEQ/front-resolving cursor, each making as
// much progress as it can before yielding; the history is accepted only if
// both cursors eventually consume the entire stream.
func QueueIsLinearizable(hist model.History) (bool, error) {
	extended, ok := Extend(hist, queueAddMethods, queueRemoveMethods)
	if !ok {
		return false, nil
	}

	events := extended.Events()
	if !Tune(events, queueAddMethods, queueRemoveMethods) {
		return false, nil
	}
	if !VerifyEmpty(events, queueAddMethods, queueRemoveMethods) {
		return false, nil
	}

	stripped := StripEmpty(extended)
	events = stripped.Events()
	model.SortEvents(events)

	state := newQueueScanState(stripped)
	var lastFront int64
	var hasLastFront bool

	enqIdx := len(events) - 1
	frontIdx := len(events) - 1

	for {
		nextEnq := state.reverseScanEnq(enqIdx, events)
		enqProgressed := nextEnq != enqIdx
		enqIdx = nextEnq

		nextFront := state.reverseScanFront(frontIdx, events, &lastFront, &hasLastFront)
		frontProgressed := nextFront != frontIdx
		frontIdx = nextFront

		if !enqProgressed && !frontProgressed {
			break
		}
	}

	return enqIdx < 0 && frontIdx < 0, nil
}
