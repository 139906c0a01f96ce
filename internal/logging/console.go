package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const (
	colReset   = "\033[0m"
	colRed     = "\033[31m"
	colYellow  = "\033[33m"
	colGrey    = "\033[90m"
	colBoldRed = "\033[1;31m"
)

// consoleHandler writes one line per record:
//
//	[2006-01-02 15:04:05 +0000] [pid] [LEVEL] [jerify] message key=value
//
// Attributes are only shown when the level is DEBUG, except for errors which
// are always appended.
type consoleHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  *slog.LevelVar
	colour bool
	pid    int
	attrs  []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "[%s] [%d] [%s] [%s] %s",
		record.Time.UTC().Format(TimeFormat), c.pid, c.levelTag(record.Level), Name, record.Message)

	for _, a := range c.attrs {
		c.formatAttr(&buf, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(&buf, a)
		return true
	})
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.w.Write(buf.Bytes())
	return err
}

func (c *consoleHandler) levelTag(l slog.Level) string {
	name := LevelName(l)
	if !c.colour {
		return name
	}
	switch {
	case l >= LevelCritical:
		return colBoldRed + name + colReset
	case l >= slog.LevelError:
		return colRed + name + colReset
	case l >= slog.LevelWarn:
		return colYellow + name + colReset
	case l < slog.LevelInfo:
		return colGrey + name + colReset
	}
	return name
}

func (c *consoleHandler) formatAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Key == "error" || a.Key == "err" {
		fmt.Fprintf(buf, ": %v", a.Value)
	} else if c.level.Level() <= slog.LevelDebug {
		fmt.Fprintf(buf, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nc := *c
	nc.attrs = append(append([]slog.Attr(nil), c.attrs...), attrs...)
	return &nc
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	// Groups are flattened on the console
	return c
}
