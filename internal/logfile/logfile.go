// Package logfile appends soil readings and error reports to a
// date-partitioned log tree: <base>/log/YYYY/MM/YYYY-MM-DD.log for
// readings and <base>/log/YYYY/MM/YYYY-MM-DD_error.log for errors.
// The file log tree is the system of record; MQTT and InfluxDB are
// additive telemetry on top of it.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const border = "============================================================"

// Logger writes append-only log files under BaseDir. Every operation
// takes an explicit timestamp so callers (and tests) control the clock.
// Timestamps are rendered in the time's own location; callers pass
// local time in production.
type Logger struct {
	BaseDir string
}

// New creates a Logger rooted at baseDir.
func New(baseDir string) *Logger {
	return &Logger{BaseDir: baseDir}
}

// ReadingPath returns the reading log file for the given time.
// The path is a pure function of the timestamp.
func (l *Logger) ReadingPath(now time.Time) string {
	return filepath.Join(l.dir(now), now.Format("2006-01-02")+".log")
}

// ErrorPath returns the error log file for the given time.
func (l *Logger) ErrorPath(now time.Time) string {
	return filepath.Join(l.dir(now), now.Format("2006-01-02")+"_error.log")
}

func (l *Logger) dir(now time.Time) string {
	return filepath.Join(l.BaseDir, "log", now.Format("2006"), now.Format("01"))
}

// Reading appends one reading line:
//
//	[2026-06-01 12:00:00] <message> | raw=<raw>, voltage=<voltage>V
//
// The directory is created if absent; creation is idempotent.
func (l *Logger) Reading(now time.Time, message string, raw int, voltage float64) error {
	line := fmt.Sprintf("[%s] %s | raw=%d, voltage=%.3fV\n",
		now.Format("2006-01-02 15:04:05"), message, raw, voltage)
	return l.append(now, l.ReadingPath(now), line)
}

// Error appends a bordered error block with the error kind, message, and
// optional details (such as a cause chain).
func (l *Logger) Error(now time.Time, kind, message, details string) error {
	var b strings.Builder
	b.WriteString(border + "\n")
	fmt.Fprintf(&b, "[ERROR] %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "error type: %s\n", kind)
	fmt.Fprintf(&b, "error: %s\n", message)
	if details != "" {
		b.WriteString(details)
		if !strings.HasSuffix(details, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString(border + "\n\n")
	return l.append(now, l.ErrorPath(now), b.String())
}

// append creates the day directory if needed and writes entry to path in
// append mode, synchronously, before returning.
func (l *Logger) append(now time.Time, path, entry string) error {
	if err := os.MkdirAll(l.dir(now), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("write log entry: %w", err)
	}
	return nil
}
