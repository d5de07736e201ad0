// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

var logLevelStrings = map[LogLevel]string{
	LogDebug:   "DEBUG",
	LogInfo:    "INFO",
	LogWarning: "WARN",
	LogError:   "ERROR",
}

// Logger handles application logging
type Logger struct {
	logger    *log.Logger
	file      *os.File
	level     LogLevel
	filename  string
	maxSize   int64
	mutex     sync.Mutex
	startTime time.Time
}

// ParseLevel converts a LOG_LEVEL value into a LogLevel, defaulting to info
func ParseLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogDebug
	case "warn", "warning":
		return LogWarning
	case "error":
		return LogError
	default:
		return LogInfo
	}
}

// New creates a logger writing to stdout and, when logPath is set, to a rotating file
func New(logPath string, level LogLevel) (*Logger, error) {
	l := &Logger{
		level:     level,
		filename:  logPath,
		maxSize:   50 * 1024 * 1024, // 50MB
		startTime: time.Now(),
	}

	if logPath == "" {
		l.logger = log.New(os.Stdout, "MEDIABIAS: ", log.LstdFlags)
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	l.file = file
	l.logger = log.New(io.MultiWriter(file, os.Stdout), "MEDIABIAS: ", log.LstdFlags)
	l.Info("Logger initialized")
	return l, nil
}

// NewWriter creates a logger that writes only to w. Used by tests and the CLI.
func NewWriter(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		logger:    log.New(w, "", 0),
		level:     level,
		startTime: time.Now(),
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWriter(io.Discard, LogError+1)
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil || level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := l.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rotate log file: %v\n", err)
	}

	msg := fmt.Sprintf("[%s] %s", logLevelStrings[level], fmt.Sprintf(format, args...))
	l.logger.Print(msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(LogWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// Printf satisfies the small printf-style interfaces some libraries accept
func (l *Logger) Printf(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

// rotateIfNeeded checks if log rotation is needed and performs it
func (l *Logger) rotateIfNeeded() error {
	if l.file == nil {
		return nil
	}

	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat log file: %v", err)
	}

	if info.Size() < l.maxSize {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %v", err)
	}

	rotatedPath := fmt.Sprintf("%s.%s", l.filename, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.filename, rotatedPath); err != nil {
		return fmt.Errorf("failed to rename log file: %v", err)
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %v", err)
	}

	l.logger.SetOutput(io.MultiWriter(file, os.Stdout))
	l.file = file
	return nil
}

// Close closes the underlying file, if any
func (l *Logger) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %v", err)
	}
	return nil
}

// Uptime reports how long the logger has been running
func (l *Logger) Uptime() time.Duration {
	return time.Since(l.startTime)
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mutex.Lock()
	l.level = level
	l.mutex.Unlock()
	l.Info("Log level changed to %s", logLevelStrings[level])
}
