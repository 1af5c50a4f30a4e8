package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel parses a level name, defaulting to info for an empty string
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(s)
}

// ExportStarted logs the start of a notebook export
func (l *Logger) ExportStarted(tomboyDir, zimDir string, notes int) {
	l.Info("export started",
		"tomboy_dir", tomboyDir,
		"zim_dir", zimDir,
		"notes", notes)
}

// ExportCompleted logs the end of a notebook export
func (l *Logger) ExportCompleted(converted, skipped, errors int, duration time.Duration) {
	l.Info("export completed",
		"notes_converted", converted,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// NoteConverted logs a note written as a zim page
func (l *Logger) NoteConverted(source, page string) {
	l.Info("note converted",
		"source", source,
		"page", page)
}

// NoteError logs a note that could not be converted
func (l *Logger) NoteError(source string, err error) {
	l.Error("note conversion failed",
		"source", source,
		"error", err)
}

// PageCollision logs two notes mapping to the same page file
func (l *Logger) PageCollision(page, first, second string) {
	l.Warn("page name collision",
		"page", page,
		"first", first,
		"second", second)
}

// PageRenamed logs a retitled note whose old page was removed
func (l *Logger) PageRenamed(source, oldPage, newPage string) {
	l.Info("page renamed",
		"source", source,
		"old_page", oldPage,
		"new_page", newPage)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(tomboyDir, zimDir string, workers int) {
	l.Debug("config loaded",
		"tomboy_dir", tomboyDir,
		"zim_dir", zimDir,
		"workers", workers)
}

// Skipped logs when a note is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("note skipped",
		"file", file,
		"reason", reason)
}
