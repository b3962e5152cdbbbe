// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/agentup/internal/ui/style"
	"go.trai.ch/zerr"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	level    *slog.LevelVar
}

// New creates a Logger writing pretty output to stderr at info level.
func New() *Logger {
	l := &Logger{
		output: os.Stderr,
		level:  &slog.LevelVar{},
	}
	l.level.Set(slog.LevelInfo)
	l.rebuild()
	return l
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, zerr.With(zerr.Wrap(err, "invalid log level"), "level", name)
	}
	return level, nil
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode setting.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetLevel changes the minimum level for both handlers.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain. zerr links contribute their own message;
// the first foreign error contributes its full text and ends the walk.
func collectErrorEntries(err error) []string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}
	return messages
}

// formatErrorEntries renders the main error followed by an indented cause list.
func formatErrorEntries(messages []string) string {
	formattedLines := make([]string, 0, len(messages)+2)

	for i, msg := range messages {
		lines := strings.Split(msg, "\n")

		if i == 0 {
			formattedLines = append(formattedLines, "Error: "+lines[0])
			for _, line := range lines[1:] {
				formattedLines = append(formattedLines, "       "+line)
			}
			continue
		}

		if i == 1 {
			formattedLines = append(formattedLines, "", "  Caused by:")
		}
		formattedLines = append(formattedLines, "    "+style.Arrow+" "+lines[0])
		for _, line := range lines[1:] {
			formattedLines = append(formattedLines, "      "+line)
		}
	}

	return strings.Join(formattedLines, "\n")
}
