package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
)

// DefaultProfilingPrefix is where Profiling mounts when prefix is empty.
const DefaultProfilingPrefix = "/debug/pprof"

// Profiling registers the runtime profiling endpoints under prefix. They
// are served like any other route but never appear in the schema document.
// A prefix that collides with an existing route is reported as an error.
func Profiling(reg Registrar, prefix string) error {
	if prefix == "" {
		prefix = DefaultProfilingPrefix
	}
	prefix = strings.TrimSuffix(prefix, "/")

	handlers := map[string]http.HandlerFunc{
		"/":        pprof.Index,
		"/cmdline": pprof.Cmdline,
		"/profile": pprof.Profile,
		"/symbol":  pprof.Symbol,
		"/trace":   pprof.Trace,
	}
	for _, name := range []string{"goroutine", "heap", "allocs", "block", "mutex", "threadcreate"} {
		handlers["/"+name] = pprof.Handler(name).ServeHTTP
	}

	for suffix, h := range handlers {
		if err := Mount(reg, http.MethodGet, prefix+suffix, RawHandler(h), WithHidden()); err != nil {
			return err
		}
	}
	return nil
}
