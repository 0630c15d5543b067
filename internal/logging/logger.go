package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Logger is the structured logger shared by every component.
// Fields are key/value pairs: key1, value1, key2, value2, ...
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// TextLogger writes one line per entry with a coloured level badge.
type TextLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	badges map[Level]lipgloss.Style
	now    func() time.Time
}

// New creates a logger writing entries at or above level to out.
func New(out io.Writer, level Level) *TextLogger {
	r := lipgloss.NewRenderer(out)
	badge := r.NewStyle().Bold(true).Width(5)
	return &TextLogger{
		out:   out,
		level: level,
		badges: map[Level]lipgloss.Style{
			LevelDebug: badge.Copy().Foreground(lipgloss.Color("245")),
			LevelInfo:  badge.Copy().Foreground(lipgloss.Color("39")),
			LevelWarn:  badge.Copy().Foreground(lipgloss.Color("214")),
			LevelError: badge.Copy().Foreground(lipgloss.Color("196")),
		},
		now: time.Now,
	}
}

func (l *TextLogger) Debug(msg string, fields ...interface{}) { l.log(LevelDebug, msg, fields) }
func (l *TextLogger) Info(msg string, fields ...interface{})  { l.log(LevelInfo, msg, fields) }
func (l *TextLogger) Warn(msg string, fields ...interface{})  { l.log(LevelWarn, msg, fields) }
func (l *TextLogger) Error(msg string, fields ...interface{}) { l.log(LevelError, msg, fields) }

func (l *TextLogger) log(level Level, msg string, fields []interface{}) {
	if level < l.level {
		return
	}
	var b strings.Builder
	b.WriteString(l.now().Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(l.badges[level].Render(level.String()))
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, kv := range formatFields(fields) {
		b.WriteByte(' ')
		b.WriteString(kv)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// formatFields converts the variadic fields slice to sorted key=value pairs.
// Non-string keys and a trailing odd value are given positional keys.
func formatFields(fields []interface{}) []string {
	values := make(map[string]interface{}, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("field_%d", i/2)
		}
		if i+1 < len(fields) {
			values[key] = fields[i+1]
		} else {
			values[fmt.Sprintf("field_%d", i/2)] = fields[i]
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprint(values[k])
		if strings.ContainsAny(v, " \t\n\"") {
			v = fmt.Sprintf("%q", v)
		}
		out = append(out, k+"="+v)
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
