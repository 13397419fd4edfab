package worker

import "errors"

// ErrIdle nothing to do this round
var ErrIdle = errors.New("EOF")
