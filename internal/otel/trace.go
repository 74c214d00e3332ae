package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read from the environment once at package init.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("POKEDECK_TRACE") != "")
}

// TraceEnabled reports whether POKEDECK_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
