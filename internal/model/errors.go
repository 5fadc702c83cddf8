package model

import "errors"

// ErrMalformed wraps every input error the reader and front-end can detect:
// a bad method tag, a non-integer field, an unknown datatype tag, an
// operation with start >= end. These are fatal: the CLI prints and exits
// non-zero. They are distinct from a monitor deciding a history is not
// linearizable, which is a legitimate false answer, never an error.
var ErrMalformed = errors.New("malformed history")
