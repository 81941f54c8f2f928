// Package logging provides the structured, severity-levelled logger used by
// forge. Entries are written one per line, either as JSON objects or as
// compact text lines for interactive terminals.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Severity levels for structured logs
type Severity string

const (
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

var severityRank = map[Severity]int{
	SeverityDebug:   0,
	SeverityInfo:    1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// ParseSeverity converts a config value such as "warning" into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if sev == "WARN" {
		sev = SeverityWarning
	}
	if _, ok := severityRank[sev]; !ok {
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warning, or error)", s)
	}
	return sev, nil
}

// Format selects how entries are rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Entry represents a single structured log entry
type Entry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes structured entries to a writer. It is safe for concurrent use.
type Logger struct {
	writer   io.Writer
	labels   map[string]string
	min      Severity
	format   Format
	disabled bool
	now      func() time.Time
	mu       *sync.Mutex
}

// Option configures a Logger
type Option func(*Logger)

// WithWriter sets a custom writer for log output
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.writer = w
	}
}

// WithLabels adds custom labels to all log entries
func WithLabels(labels map[string]string) Option {
	return func(l *Logger) {
		for k, v := range labels {
			l.labels[k] = v
		}
	}
}

// WithMinSeverity drops entries below the given severity
func WithMinSeverity(sev Severity) Option {
	return func(l *Logger) {
		if _, ok := severityRank[sev]; ok {
			l.min = sev
		}
	}
}

// WithFormat selects JSON or text output
func WithFormat(f Format) Option {
	return func(l *Logger) {
		l.format = f
	}
}

// New creates a Logger writing JSON entries at INFO and above to stderr.
func New(opts ...Option) *Logger {
	l := &Logger{
		writer: os.Stderr,
		labels: map[string]string{"component": "forge"},
		min:    SeverityInfo,
		format: FormatJSON,
		now:    time.Now,
		mu:     &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Nop returns a Logger that discards every entry.
func Nop() *Logger {
	return New(WithWriter(io.Discard), func(l *Logger) { l.disabled = true })
}

// With returns a child logger that carries extra labels and shares the
// parent's writer.
func (l *Logger) With(labels map[string]string) *Logger {
	child := *l
	child.labels = make(map[string]string, len(l.labels)+len(labels))
	for k, v := range l.labels {
		child.labels[k] = v
	}
	for k, v := range labels {
		child.labels[k] = v
	}
	return &child
}

// Enabled reports whether entries at sev would be written.
func (l *Logger) Enabled(sev Severity) bool {
	return !l.disabled && severityRank[sev] >= severityRank[l.min]
}

// Log writes a structured log entry
func (l *Logger) Log(severity Severity, message string, fields map[string]interface{}) {
	if !l.Enabled(severity) {
		return
	}

	entry := Entry{
		Severity:  severity,
		Message:   message,
		Timestamp: l.now().UTC(),
		Labels:    l.labels,
		Fields:    fields,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatText {
		fmt.Fprintln(l.writer, TextLine(entry))
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

// Debug writes a DEBUG level entry
func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.Log(SeverityDebug, message, fields)
}

// Info writes an INFO level entry
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.Log(SeverityInfo, message, fields)
}

// Warning writes a WARNING level entry
func (l *Logger) Warning(message string, fields map[string]interface{}) {
	l.Log(SeverityWarning, message, fields)
}

// Error writes an ERROR level entry
func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.Log(SeverityError, message, fields)
}

// TextLine renders an entry as "[SEVERITY] message key=value ...".
// Field keys are sorted so output is stable.
func TextLine(entry Entry) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(entry.Severity))
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}
