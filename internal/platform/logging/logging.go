// Package logging configures and exposes the engine's structured
// logger, built on the standard library's slog.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init configures the global slog default with the given level and
// format. If w is nil, os.Stderr is used. format must be "text" or
// "json"; anything else falls back to text.
func Init(level slog.Level, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a logger scoped to a named component, e.g. "graph" or
// "env".
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// Debug, Info, Warn, and Error log against the global default logger.
// Package-level components (node, factory, graph, module) that don't own a
// named logger call these directly rather than plumbing a *slog.Logger
// through every constructor.
func Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Default().Error(msg, args...) }
