package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/muesli/termenv"
)

// DefaultFilePath is the log file used when no path is configured, relative to the working directory.
const DefaultFilePath = "logs/viewer.txt"

// DefaultCapacity is how many lines are kept in memory for the on-screen overlays.
const DefaultCapacity = 200

// Level orders log entries by severity. Entries below the logger's level are dropped.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a Level. Unknown names give Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	}
	return Info
}

// Logger stores recent lines in memory (for the HUD and console) and appends every line to a file on disk.
// Lines are mirrored to stderr, colored by level. Safe for concurrent use: background loaders log from workers.
type Logger struct {
	mu       sync.Mutex
	lines    []string
	errors   []string
	capacity int
	level    Level
	path     string
	out      *termenv.Output
}

// Options configures New. Zero values pick the defaults.
type Options struct {
	Path     string
	Level    Level
	Capacity int
	// Stderr receives the colored mirror of every line; nil means os.Stderr. Use io.Discard to silence it.
	Stderr io.Writer
}

// New returns a Logger and ensures the log directory exists. An empty Options.Path disables the file.
func New(opts Options) *Logger {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Path != "" {
		_ = os.MkdirAll(filepath.Dir(opts.Path), 0755)
	}
	return &Logger{
		capacity: opts.Capacity,
		level:    opts.Level,
		path:     opts.Path,
		out:      termenv.NewOutput(opts.Stderr),
	}
}

// Discard returns a Logger that keeps lines in memory only. Used by tests and tools.
func Discard() *Logger {
	return New(Options{Stderr: io.Discard, Level: Debug})
}

// SetLevel changes the minimum level. Called on config reload.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Log appends a line at Info level. Kept for callers that just want to record raw text (console input).
func (l *Logger) Log(line string) {
	l.write(Info, line)
}

// Debugf, Infof, Warnf and Errorf format a line at their level.
func (l *Logger) Debugf(format string, args ...any) { l.write(Debug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.write(Info, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.write(Warn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.write(Error, fmt.Sprintf(format, args...)) }

// write stamps the line with computer time and level, then stores, mirrors, and appends it.
func (l *Logger) write(level Level, line string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + level.String() + " " + line

	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}
	l.lines = appendBounded(l.lines, stamped, l.capacity)
	if level == Error {
		l.errors = appendBounded(l.errors, stamped, l.capacity)
	}
	path := l.path
	l.mu.Unlock()

	_, _ = l.out.WriteString(l.colorize(level, stamped) + "\n")

	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func (l *Logger) colorize(level Level, s string) string {
	style := l.out.String(s)
	switch level {
	case Debug:
		style = style.Faint()
	case Warn:
		style = style.Foreground(l.out.Color("3"))
	case Error:
		style = style.Foreground(l.out.Color("1")).Bold()
	}
	return style.String()
}

// appendBounded appends s and drops the oldest entries beyond limit.
func appendBounded(dst []string, s string, limit int) []string {
	dst = append(dst, s)
	if len(dst) > limit {
		dst = append(dst[:0], dst[len(dst)-limit:]...)
	}
	return dst
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Errors returns up to n of the most recent error lines, oldest first.
func (l *Logger) Errors(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := 0
	if n >= 0 && len(l.errors) > n {
		start = len(l.errors) - n
	}
	out := make([]string, len(l.errors)-start)
	copy(out, l.errors[start:])
	return out
}

// Truncate shortens s to at most limit runes, ending in "..." when something was cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return strings.Repeat(".", max(limit, 0))
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}
