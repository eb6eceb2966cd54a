package voxscene

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// live tracks open engines so SetLogger can reach their backends.
var (
	liveMu sync.Mutex
	live   = make(map[*Engine]struct{})
)

// SetLogger configures the logger for voxscene and the backends of every
// open Engine. By default voxscene produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
//
// Log levels used by voxscene:
//   - [slog.LevelDebug]: resource uploads and releases
//   - [slog.LevelInfo]: engine creation and shutdown
//   - [slog.LevelWarn]: skipped volumes, resources left behind at Close
//
// Example:
//
//	voxscene.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for e := range live {
		propagateLogger(e.backend, l)
	}
}

// Logger returns the current logger used by voxscene.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(b any, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

func track(e *Engine) {
	liveMu.Lock()
	live[e] = struct{}{}
	liveMu.Unlock()
	propagateLogger(e.backend, Logger())
}

func untrack(e *Engine) {
	liveMu.Lock()
	delete(live, e)
	liveMu.Unlock()
}
