// Package logging builds the slog loggers used by jerify: a human readable
// console handler in the classic jerify line format, optionally paired with a
// JSON file handler that always records debug output.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Name appears in every console line.
const Name = "jerify"

// TimeFormat is the console timestamp layout. Times are always rendered in UTC.
const TimeFormat = "2006-01-02 15:04:05 +0000"

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// DefaultLevel is used when no level is configured.
const DefaultLevel = slog.LevelWarn

// New configures a logger that writes human-readable lines to stderr and,
// when logFile is not empty, structured JSON lines to that file. The returned
// io.Closer closes the file and is nil when no file was opened.
//
// colour only takes effect when stderr is a terminal.
func New(stderr io.Writer, level *slog.LevelVar, logFile string, colour bool) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{
		w:      stderr,
		mu:     &sync.Mutex{},
		level:  level,
		colour: colour && IsTerminal(stderr),
		pid:    os.Getpid(),
	}

	if logFile == "" {
		return slog.New(console), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelName(l))
				}
			}
			return a
		},
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{fileHandler, console}}), f, nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Discard returns a logger which drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// InvalidLevelError reports a level name ParseLevel does not recognise.
type InvalidLevelError struct {
	Level string
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q: must be one of DEBUG, INFO, WARNING, ERROR or CRITICAL", e.Level)
}

// ParseLevel converts a level name to a slog.Level. Names are case-insensitive
// and WARN is accepted as an alias of WARNING.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	}
	return DefaultLevel, &InvalidLevelError{Level: s}
}

// LevelName returns the jerify name for l.
func LevelName(l slog.Level) string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
