// Package logger provides the structured logger used by the repository
// engine and the CLI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Logger defines the logging interface used throughout the application.
// Format strings follow fmt.Printf style formatting.
type Logger interface {
	// Debug is only emitted when verbose mode is enabled.
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})

	// Close releases the log file, if any.
	Close() error
}

// DefaultLogger writes slog text records to a single writer.
type DefaultLogger struct {
	mu     sync.Mutex
	logger *slog.Logger
	file   *os.File
}

// New creates a Logger writing to w.
func New(w io.Writer, verbose bool) *DefaultLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &DefaultLogger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewFile creates a Logger appending to the file at path.
func NewFile(path string, verbose bool) (*DefaultLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	l := New(f, verbose)
	l.file = f
	return l, nil
}

// Nop returns a Logger that discards everything.
func Nop() *DefaultLogger {
	return New(io.Discard, false)
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
