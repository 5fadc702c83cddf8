package engine

import (
	"fmt"

	"fastlin/internal/model"
)

// Monitor selects the monitor function for dataType, honoring excludePeeks
// (the CLI's -x flag): when excludePeeks is set it selects the faster
// no-peek variant where one exists; otherwise it returns the general one. The queue
// monitor's method vocabulary has no peek-style "other" methods to begin
// with, so it has only the one algorithm; excludePeeks is a no-op there.
// The front-end is shared and parameterized by add/remove method
// predicates, so there is no need for a runtime "datatype" interface, just
// four entry points and a switch.
func Monitor(dataType model.DataType, excludePeeks bool) (func(model.History) (bool, error), error) {
	switch dataType {
	case model.Set:
		if excludePeeks {
			return SetIsLinearizableNoPeek, nil
		}
		return SetIsLinearizable, nil
	case model.Queue:
		return QueueIsLinearizable, nil
	case model.Stack:
		if excludePeeks {
			return StackIsLinearizableNoPeek, nil
		}
		return StackIsLinearizable, nil
	case model.PriorityQueue:
		if excludePeeks {
			return PriorityQueueIsLinearizableNoPeek, nil
		}
		return PriorityQueueIsLinearizable, nil
	default:
		return nil, fmt.Errorf("%w: unsupported data type %v", model.ErrMalformed, dataType)
	}
}
