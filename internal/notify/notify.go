// Package notify delivers user-facing messages. These are sinks only:
// nothing in the core waits on, or branches on, a notification.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Action is a follow-up the user can take, rendered as a hint.
type Action struct {
	Label   string
	Command string
}

// Notification is one user-facing message.
type Notification struct {
	Level   Level
	Message string
	Actions []Action
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Info is shorthand for an info-level notification.
func Info(msg string, actions ...Action) Notification {
	return Notification{Level: LevelInfo, Message: msg, Actions: actions}
}

// Warning is shorthand for a warning-level notification.
func Warning(msg string) Notification {
	return Notification{Level: LevelWarning, Message: msg}
}

// Error is shorthand for an error-level notification.
func Error(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}

// Console prints notifications with colored status glyphs.
// Errors go to errOut, everything else to out.
type Console struct {
	out    io.Writer
	errOut io.Writer

	info    *color.Color
	warning *color.Color
	failure *color.Color
	dim     *color.Color
}

// NewConsole creates a Console. fatih/color disables colors when the
// output is not a TTY.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:     out,
		errOut:  errOut,
		info:    color.New(color.FgGreen, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		dim:     color.New(color.FgHiBlack),
	}
}

// Notify prints n.
func (c *Console) Notify(n Notification) {
	switch n.Level {
	case LevelError:
		_, _ = c.failure.Fprintf(c.errOut, "✗ %s\n", n.Message)
	case LevelWarning:
		_, _ = c.warning.Fprintf(c.out, "⚠ %s\n", n.Message)
	default:
		_, _ = c.info.Fprintf(c.out, "✓ %s\n", n.Message)
	}
	for _, a := range n.Actions {
		_, _ = c.dim.Fprintf(c.out, "  → %s: %s\n", a.Label, a.Command)
	}
}

// Log forwards notifications to a structured logger. The watch daemon uses it
// because nobody is reading its stdout.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Notify logs n at the matching level.
func (l *Log) Notify(n Notification) {
	switch n.Level {
	case LevelError:
		l.logger.Error(n.Message, "source", "notification")
	case LevelWarning:
		l.logger.Warn(n.Message, "source", "notification")
	default:
		l.logger.Info(n.Message, "source", "notification")
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify delivers n to every notifier in order.
func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Recorder keeps every notification in memory for tests.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of every recorded notification.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Count returns how many notifications of level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.all {
		if x.Level == level {
			n++
		}
	}
	return n
}

// Reset discards recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}

var (
	_ Notifier = (*Console)(nil)
	_ Notifier = (*Log)(nil)
	_ Notifier = Multi(nil)
	_ Notifier = (*Recorder)(nil)
)
