package commands

import (
	"os"
	"strings"
	"time"

	"github.com/gerunddev/tomzim/internal/config"
	"github.com/gerunddev/tomzim/internal/logger"
	"github.com/gerunddev/tomzim/internal/state"
)

// exportCompleted is the message logger.ExportCompleted writes
const exportCompleted = "export completed"

// loadConfig reads the config file at path, or the default location when
// path is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// loadState reads the export state file
func loadState() (*state.State, error) {
	return state.Load(config.StateFilePath())
}

// setupLogger opens the configured log file, falling back to fallback when
// none is configured or it cannot be opened
func setupLogger(cfg *config.Config, fallback *logger.Logger) (*logger.Logger, func()) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogFile == "" {
		return fallback, func() {}
	}

	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return fallback, func() {}
	}
	return l, cleanup
}

// LastExport scans the tail of the log file for the most recent completed
// export and returns when it finished. The zero time means none was found
func LastExport(logPath string, maxLines int) time.Time {
	if logPath == "" {
		return time.Time{}
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		return time.Time{}
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, exportCompleted) {
			continue
		}
		// Format: 2025-11-27 14:11:57 INFO export completed ...
		if len(line) < len(time.DateTime) {
			continue
		}
		if t, err := time.ParseInLocation(time.DateTime, line[:len(time.DateTime)], time.Local); err == nil {
			return t
		}
	}

	return time.Time{}
}
