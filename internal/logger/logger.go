// Package logger provides a simple logging interface for cmdtree components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/rileyhilliard/cmdtree/internal/errors"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Level is a verbosity threshold. Messages below the threshold are dropped.
type Level int

// Verbosity levels, from most to least chatty.
const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	LevelNone
)

var levelNames = [...]string{"Verbose", "Debug", "Info", "Warning", "Error", "Critical", "None"}

func (l Level) String() string {
	if l < LevelVerbose || l > LevelNone {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// LevelNames returns the level names in threshold order.
func LevelNames() []string {
	return levelNames[:]
}

// ParseLevel matches s case-insensitively against the start of each level
// name, so "warn", "W" and "Warning" all select LevelWarning.
func ParseLevel(s string) (Level, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle != "" {
		for i, name := range levelNames {
			if strings.HasPrefix(strings.ToLower(name), needle) {
				return Level(i), nil
			}
		}
	}
	return LevelError, errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' is not a verbosity level", s),
		"Use one of: "+strings.Join(levelNames[:], ", "))
}

// LeveledLogger writes messages at or above its level to a writer.
// Safe for concurrent use.
type LeveledLogger struct {
	mu     sync.RWMutex
	out    *log.Logger
	prefix string
	level  Level
}

// New creates a leveled logger writing to w. The prefix is prepended to all
// log messages (e.g., "[dispatch]").
func New(w io.Writer, prefix string, level Level) *LeveledLogger {
	return &LeveledLogger{
		out:    log.New(w, "", 0),
		prefix: prefix,
		level:  level,
	}
}

// SetLevel changes the threshold.
func (l *LeveledLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current threshold.
func (l *LeveledLogger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *LeveledLogger) logf(level Level, tag, format string, args ...interface{}) {
	if l.Level() > level {
		return
	}
	prefix := l.prefix
	if prefix != "" {
		prefix += " "
	}
	l.out.Printf(prefix+tag+format, args...)
}

func (l *LeveledLogger) Debug(format string, args ...interface{}) {
	l.logf(LevelDebug, "DEBUG: ", format, args...)
}

func (l *LeveledLogger) Info(format string, args ...interface{}) {
	l.logf(LevelInfo, "", format, args...)
}

func (l *LeveledLogger) Warn(format string, args ...interface{}) {
	l.logf(LevelWarning, "WARN: ", format, args...)
}

func (l *LeveledLogger) Error(format string, args ...interface{}) {
	l.logf(LevelError, "ERROR: ", format, args...)
}

// envLogger implements Logger and logs through the standard log package.
// Debug messages are only printed when CMDTREE_DEBUG is set.
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the CMDTREE_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[tracker]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv("CMDTREE_DEBUG") != "" {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Option handlers log from several goroutines, so access is serialized.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any message at the given level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewEnvLogger("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}
