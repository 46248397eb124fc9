// Package logger provides structured JSON logging and run counters for the
// drop-in schedule pipeline.
//
// Log entries are emitted as one JSON object per line with a timestamp,
// level, message and optional structured fields. Counters accumulate run
// statistics (facilities scraped, records created, interpreter calls) that
// the drivers report at the end of a run.
//
// Example usage:
//
//	logger.Info("scraped facility", logger.Fields{
//	    "facility": "Plant Recreation Centre",
//	    "tables":   3,
//	})
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(name string) Level {
	switch Level(name) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(name)
	default:
		return LevelInfo
	}
}

// Fields represents structured log fields
type Fields map[string]interface{}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes structured JSON log lines at or above a minimum level.
type Logger struct {
	minLevel Level
	output   io.Writer
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a logger writing to output; messages below level are discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{minLevel: level, output: output}
}

// SetDefault replaces the package-level logger used by the convenience
// functions, centralizing configuration in the drivers.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			e.Timestamp, e.Level, e.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields, nil) }

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields, nil) }

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields, nil) }

// Error logs an error message with optional structured fields and an error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using the default logger

func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }
func Info(message string, fields Fields)  { defaultLogger.Info(message, fields) }
func Warn(message string, fields Fields)  { defaultLogger.Warn(message, fields) }
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Counters tracks named run statistics. All operations are thread-safe.
type Counters struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCounters creates an empty counter set.
func NewCounters() *Counters {
	return &Counters{counts: make(map[string]int64)}
}

// Incr increments a counter by 1.
func (c *Counters) Incr(name string) {
	c.Add(name, 1)
}

// Add increments a counter by n.
func (c *Counters) Add(name string, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name] += n
}

// Get returns the current value of a counter.
func (c *Counters) Get(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Snapshot returns a copy of all counters, as loggable fields.
func (c *Counters) Snapshot() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := make(Fields, len(c.counts))
	names := make([]string, 0, len(c.counts))
	for name := range c.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields[name] = c.counts[name]
	}
	return fields
}
