package population

import "errors"

// errWrap signals a day-wrap precondition violation. Non-fatal: callers log
// it with the offending pid and keep the trace unwrapped.
var errWrap = errors.New("population: trace is not wrappable")
