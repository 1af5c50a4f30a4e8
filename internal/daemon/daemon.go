package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
)

// ErrNotRunning is returned when no watcher process is recorded
var ErrNotRunning = errors.New("watcher is not running")

// PIDFile returns the path to the watcher PID file
// Can be overridden for testing
var PIDFile = func() string {
	return filepath.Join(xdg.StateHome, "tomzim", "watch.pid")
}

// WritePID writes the current process ID to the PID file
func WritePID() error {
	pidFile := PIDFile()

	if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(pidFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// ReadPID reads the watcher PID from the PID file
func ReadPID() (int, error) {
	content, err := os.ReadFile(PIDFile())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}

	return pid, nil
}

// RemovePID removes the PID file
func RemovePID() error {
	if err := os.Remove(PIDFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning checks if the watcher is currently running. A PID file left
// behind by a dead process is removed
func IsRunning() (bool, int, time.Time) {
	pid, err := ReadPID()
	if err != nil {
		return false, 0, time.Time{}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, time.Time{}
	}

	// Signal 0 only checks that the process exists
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemovePID()
		return false, 0, time.Time{}
	}

	// PID file mtime approximates the start time
	var startTime time.Time
	if info, err := os.Stat(PIDFile()); err == nil {
		startTime = info.ModTime()
	}

	return true, pid, startTime
}

// Stop asks the running watcher to shut down with SIGTERM
func Stop() error {
	running, pid, _ := IsRunning()
	if !running {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	return nil
}

// Daemonize re-executes the current binary with args, detached from the
// terminal
func Daemonize(args []string) error {
	if running, pid, _ := IsRunning(); running {
		return fmt.Errorf("watcher already running with PID %d", pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release watcher process: %w", err)
	}

	return nil
}
