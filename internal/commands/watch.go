package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/tomzim/internal/config"
	"github.com/gerunddev/tomzim/internal/daemon"
	"github.com/gerunddev/tomzim/internal/export"
	"github.com/gerunddev/tomzim/internal/logger"
	"github.com/gerunddev/tomzim/internal/styles"
	"github.com/gerunddev/tomzim/internal/watch"
)

// WatchOptions controls the watcher
type WatchOptions struct {
	ConfigPath string
	TomboyDir  string
	ZimDir     string
	Detach     bool // run in the background
}

// Watch keeps the zim notebook in step with the Tomboy directory until
// interrupted
func Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Detach {
		return startDetached(opts)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyDirs(cfg, opts.TomboyDir, opts.ZimDir); err != nil {
		return err
	}

	st, err := loadState()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if running, pid, _ := daemon.IsRunning(); running {
		return fmt.Errorf("watcher already running with PID %d", pid)
	}
	if err := daemon.WritePID(); err != nil {
		return err
	}
	defer func() {
		if err := daemon.RemovePID(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, cleanup := setupLogger(cfg, logger.NewWithLevel(os.Stderr, level))
	defer cleanup()
	log.ConfigLoaded(cfg.TomboyDir, cfg.ZimDir, cfg.Workers)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := export.NewExporter(cfg, st)
	exporter.SetLogger(log)

	err = watch.Watch(ctx, cfg.TomboyDir, export.NoteExt, cfg.Debounce, log, func(ctx context.Context) error {
		result, err := exporter.Export(ctx)
		if err != nil {
			return err
		}
		if err := st.Save(config.StateFilePath()); err != nil {
			log.StateError("save", err)
			return err
		}
		if result.Converted > 0 || len(result.Errors) > 0 {
			log.Info(result.String())
		}
		return nil
	})

	log.Info("watcher shutdown complete", "pid", os.Getpid())
	return err
}

// startDetached re-runs the watch command in the background
func startDetached(opts WatchOptions) error {
	args := []string{"watch"}
	if opts.ConfigPath != "" {
		args = append(args, "--config", opts.ConfigPath)
	}
	if opts.TomboyDir != "" || opts.ZimDir != "" {
		args = append(args, opts.TomboyDir, opts.ZimDir)
	}

	if err := daemon.Daemonize(args); err != nil {
		return err
	}

	// Give it a moment to start
	time.Sleep(500 * time.Millisecond)

	running, pid, _ := daemon.IsRunning()
	if !running {
		return fmt.Errorf("watcher failed to start")
	}

	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher started with PID %d", pid)))
	fmt.Println(styles.DimStyle.Render("  Run 'tomzim stop' to stop it"))
	return nil
}

// Stop stops the background watcher
func Stop() error {
	running, pid, _ := daemon.IsRunning()
	if !running {
		fmt.Println(styles.DimStyle.Render("Watcher is not running"))
		return nil
	}

	fmt.Printf("Stopping watcher (PID %d)...\n", pid)

	if err := daemon.Stop(); err != nil {
		return err
	}

	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		if running, _, _ = daemon.IsRunning(); !running {
			break
		}
	}
	if running {
		return fmt.Errorf("watcher did not stop gracefully")
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Watcher stopped"))
	return nil
}
