package namedtree

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a diagnostic. Higher levels are chattier.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name, in any case, to a LogLevel. Unknown
// names give LevelWarn.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToUpper(s)
	if s == "WARNING" {
		return LevelWarn
	}
	for l, name := range levelNames {
		if name == s {
			return LogLevel(l)
		}
	}
	return LevelWarn
}

// Logger receives the soft diagnostics emitted while unifying and walking
// trees (structural mismatches, missing keys).
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger that appends fields to every entry.
	With(fields map[string]any) Logger
}

// field is one key=value pair attached by With.
type field struct {
	key string
	val any
}

// textLogger writes one line per entry:
//
//	[LEVEL] ts msg key1=val1 key2=val2
//
// Fields are sorted by key. Children made by With share the writer lock.
type textLogger struct {
	w      io.Writer
	max    LogLevel
	stamp  bool
	fields []field
	mu     *sync.Mutex
}

// NewLogger returns a timestamped text logger writing entries up to level
// to w, or to stderr when w is nil.
func NewLogger(level LogLevel, w io.Writer) Logger {
	return newTextLogger(level, w, true)
}

// NewPlainLogger is NewLogger without timestamps, for output that is
// compared or read line by line.
func NewPlainLogger(level LogLevel, w io.Writer) Logger {
	return newTextLogger(level, w, false)
}

func newTextLogger(level LogLevel, w io.Writer, stamp bool) *textLogger {
	if w == nil {
		w = os.Stderr
	}
	return &textLogger{w: w, max: level, stamp: stamp, mu: &sync.Mutex{}}
}

func (l *textLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make([]field, 0, len(l.fields)+len(fields))
	for _, f := range l.fields {
		if _, replaced := fields[f.key]; !replaced {
			merged = append(merged, f)
		}
	}
	for k, v := range fields {
		merged = append(merged, field{key: k, val: v})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].key < merged[j].key })

	child := *l
	child.fields = merged
	return &child
}

func (l *textLogger) Debugf(format string, args ...any) { l.entry(LevelDebug, format, args) }
func (l *textLogger) Infof(format string, args ...any)  { l.entry(LevelInfo, format, args) }
func (l *textLogger) Warnf(format string, args ...any)  { l.entry(LevelWarn, format, args) }
func (l *textLogger) Errorf(format string, args ...any) { l.entry(LevelError, format, args) }

func (l *textLogger) entry(level LogLevel, format string, args []any) {
	if level > l.max {
		return
	}

	var b strings.Builder
	b.WriteString("[" + level.String() + "] ")
	if l.stamp {
		b.WriteString(time.Now().UTC().Format(time.RFC3339Nano) + " ")
	}
	fmt.Fprintf(&b, format, args...)
	for _, f := range l.fields {
		b.WriteString(" " + f.key + "=" + safeSprint(f.val))
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, b.String())
}

// safeSprint renders a field value, quoting strings that contain
// whitespace or control characters.
func safeSprint(v any) string {
	switch t := v.(type) {
	case string:
		if strings.ContainsFunc(t, func(r rune) bool { return r <= ' ' }) {
			return fmt.Sprintf("%q", t)
		}
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
func (n nopLogger) With(map[string]any) Logger { return n }

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

// FormatPath renders a key path the way diagnostics print it: "/a/b/c".
// Extra keys are appended after path.
func FormatPath(path []string, keys ...string) string {
	var b strings.Builder
	for _, p := range path {
		b.WriteString("/" + p)
	}
	for _, k := range keys {
		b.WriteString("/" + k)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// truncateList joins the first limit items with "," and appends +N for
// the rest.
func truncateList(items []string, limit int) string {
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ",")
	}
	return strings.Join(items[:limit], ",") + fmt.Sprintf(",+%d", len(items)-limit)
}
