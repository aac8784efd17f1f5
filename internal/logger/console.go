// Package logger provides the leveled console logger used across the
// cleanfiles pipeline. Output is timestamped, optionally colorized for
// terminals, and safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/cleanfiles/internal/models"
)

// Log level constants for filtering
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// ConsoleLogger logs pipeline progress to a writer with [HH:MM:SS]
// timestamps and level filtering. Color output is enabled
// automatically when writing to a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// Valid levels: debug, info, warn, error (case-insensitive); empty or
// invalid levels default to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// color's own detection also honors NO_COLOR
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel lowercases and validates a level name, defaulting
// to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel formats and writes one "[HH:MM:SS] [LEVEL] message"
// line if the configured level allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
	}
}

// colorLevel wraps a level tag in its ANSI color.
func colorLevel(level string) string {
	switch level {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogSummary logs the end-of-run statistics at INFO level.
func (cl *ConsoleLogger) LogSummary(report models.RunReport) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	header := "=== Run Summary ==="
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}

	fmt.Fprintf(cl.writer, "[%s] %s\n", ts, header)
	fmt.Fprintf(cl.writer, "[%s] Proposed: %d\n", ts, report.Proposed)
	fmt.Fprintf(cl.writer, "[%s] Approved: %d  Rejected: %d\n", ts, report.Approved, report.Rejected)

	executed := fmt.Sprintf("Executed: %d", report.Executed)
	if cl.colorOutput {
		executed = color.New(color.FgGreen).Sprint(executed)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", ts, executed)

	failed := fmt.Sprintf("Failed: %d", report.Failed)
	if cl.colorOutput && report.Failed > 0 {
		failed = color.New(color.FgRed).Sprint(failed)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", ts, failed)
	fmt.Fprintf(cl.writer, "[%s] Pruned directories: %d\n", ts, report.PrunedDirs)
	fmt.Fprintf(cl.writer, "[%s] Duration: %s\n", ts, report.Duration.Round(time.Millisecond))

	if len(report.Failures) > 0 {
		fmt.Fprintf(cl.writer, "[%s] Failed actions:\n", ts)
		for _, failure := range report.Failures {
			line := fmt.Sprintf("  - %s %s: %v", failure.Action.Kind, failure.Action.Target.Path, failure.Err)
			if cl.colorOutput {
				line = color.New(color.FgRed).Sprint(line)
			}
			fmt.Fprintf(cl.writer, "[%s] %s\n", ts, line)
		}
	}
}

// timestamp returns the current time formatted as "15:04:05".
func timestamp() string {
	return time.Now().Format("15:04:05")
}
