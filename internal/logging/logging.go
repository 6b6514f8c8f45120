// Package logging builds the debug logger for a git-vines run.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug logging regardless of the --debug flag.
const DebugEnv = "GIT_VINES_DEBUG"

// New returns a logger writing to w when debug logging is enabled,
// and a logger that discards everything otherwise.
func New(debug bool, w io.Writer) *slog.Logger {
	if os.Getenv(DebugEnv) == "1" {
		debug = true
	}
	if !debug || w == nil {
		return Discard()
	}
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops all records.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
