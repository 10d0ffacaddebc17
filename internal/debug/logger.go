// Package debug provides the minimal logger threaded through the
// analyzer, narrating its recursive reachability search and branch
// enumeration.
package debug

import (
	"io"
	"log"
)

// Logger is the seam consumed by internal/arm64.DebugLogger.
type Logger interface {
	Logf(format string, args ...any)
}

// Noop discards everything, the default when a caller has not opted into
// tracing.
type Noop struct{}

func (Noop) Logf(string, ...any) {}

// StdLogger writes through the standard library's *log.Logger.
type StdLogger struct {
	*log.Logger
}

// NewStdLogger builds a StdLogger writing to w with the given prefix.
func NewStdLogger(w io.Writer, prefix string) StdLogger {
	return StdLogger{log.New(w, prefix, log.LstdFlags)}
}

func (s StdLogger) Logf(format string, args ...any) {
	s.Printf(format, args...)
}
