package reqlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleSink writes "<status>: <method> <path>" lines.
type ConsoleSink struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool

	success  *color.Color
	redirect *color.Color
	client   *color.Color
	server   *color.Color
}

// NewConsoleSink creates a sink writing to w. Status codes are coloured only
// when w is a terminal.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return newConsoleSink(w, isTerminal(w))
}

func newConsoleSink(w io.Writer, colorize bool) *ConsoleSink {
	s := &ConsoleSink{
		w:        w,
		colorize: colorize,
		success:  color.New(color.FgGreen),
		redirect: color.New(color.FgCyan),
		client:   color.New(color.FgYellow),
		server:   color.New(color.FgRed, color.Bold),
	}
	if colorize {
		for _, c := range []*color.Color{s.success, s.redirect, s.client, s.server} {
			c.EnableColor()
		}
	}
	return s
}

// Record implements Recorder. Write errors are ignored.
func (s *ConsoleSink) Record(_ context.Context, e Entry) {
	status := fmt.Sprintf("%d", e.Status)
	if s.colorize {
		status = s.colorFor(e.Status).Sprint(status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s: %s %s\n", status, e.Method, e.Path)
}

func (s *ConsoleSink) colorFor(status int) *color.Color {
	switch {
	case status >= 500:
		return s.server
	case status >= 400:
		return s.client
	case status >= 300:
		return s.redirect
	default:
		return s.success
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
