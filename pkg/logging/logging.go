package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// Format selects the slog handler used for output.
type Format string

const (
	// FormatText writes logfmt-style key=value lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (expected text or json)", s)
	}
}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Init initializes the logger with the given level, output and format.
// This should be called once at application startup.
func Init(level LogLevel, output io.Writer, format Format) {
	opts := &slog.HandlerOptions{
		Level: level.SlogLevel(), // This sets the minimum level for the handler
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()
	slog.SetDefault(defaultLogger) // Set for any global slog calls if necessary
}

// InitForCLI initializes the logging system with a text handler.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	Init(filterLevel, output, FormatText)
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	mu.RLock()
	logger := defaultLogger
	mu.RUnlock()

	if logger == nil {
		msg := messageFmt
		if len(args) > 0 {
			msg = fmt.Sprintf(messageFmt, args...)
		}
		fmt.Fprintf(os.Stderr, "[LOGGING_ERROR] Logger not initialized. Log: %s [%s] %s\n", time.Now().Format(time.RFC3339), level, msg)
		return
	}

	if !logger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	var slogAttrs []slog.Attr
	slogAttrs = append(slogAttrs, slog.String("subsystem", subsystem))
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
