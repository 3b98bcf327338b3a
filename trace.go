package vrf

import "fmt"

// TraceFunc receives diagnostic events from the suite. Intermediate
// verification booleans surfaced here are observability only and are not part
// of the functional contract.
type TraceFunc func(event, detail string)

var traceHook TraceFunc

// SetTraceHook installs a diagnostic hook. Pass nil to disable. Install the
// hook before starting concurrent work; the variable is not synchronized.
func SetTraceHook(f TraceFunc) {
	traceHook = f
}

func trace(event, format string, args ...interface{}) {
	if traceHook == nil {
		return
	}
	traceHook(event, fmt.Sprintf(format, args...))
}
