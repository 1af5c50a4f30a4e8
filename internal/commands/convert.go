package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/gerunddev/tomzim/internal/config"
	"github.com/gerunddev/tomzim/internal/diff"
	"github.com/gerunddev/tomzim/internal/export"
	"github.com/gerunddev/tomzim/internal/logger"
	"github.com/gerunddev/tomzim/internal/styles"
	"github.com/gerunddev/tomzim/internal/tui"
)

// ConvertOptions controls a one-shot conversion
type ConvertOptions struct {
	ConfigPath string
	TomboyDir  string // overrides tomboy_dir when set
	ZimDir     string // overrides zim_dir when set
	DryRun     bool
	Force      bool
}

// Convert exports the Tomboy notes into the zim notebook once
func Convert(ctx context.Context, opts ConvertOptions) error {
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

	log, cleanup := setupLogger(cfg, logger.Discard())
	defer cleanup()
	log.ConfigLoaded(cfg.TomboyDir, cfg.ZimDir, cfg.Workers)

	fmt.Printf("%s → %s\n", styles.DimStyle.Render(cfg.TomboyDir), styles.DimStyle.Render(cfg.ZimDir))
	if opts.DryRun {
		fmt.Println(styles.DimStyle.Render("(dry run - no files will be modified)"))
	}

	exporter := export.NewExporter(cfg, st)
	exporter.SetLogger(log)
	exporter.DryRun = opts.DryRun
	exporter.Force = opts.Force

	var result *export.Result
	if isatty.IsTerminal(os.Stdout.Fd()) {
		result, err = runWithSpinner(ctx, exporter, opts.DryRun)
	} else {
		result, err = exporter.Export(ctx)
		if err == nil {
			fmt.Print(tui.Summary(result, nil))
		}
	}
	if err != nil {
		return err
	}

	if opts.DryRun {
		printDiffs(result.Diffs)
	} else if err := st.Save(config.StateFilePath()); err != nil {
		log.StateError("save", err)
		return fmt.Errorf("failed to save state: %w", err)
	}

	if n := len(result.Errors); n > 0 {
		return fmt.Errorf("%d note(s) failed to convert", n)
	}
	return nil
}

// applyDirs overrides the configured directories with command arguments
func applyDirs(cfg *config.Config, tomboyDir, zimDir string) error {
	if tomboyDir != "" {
		cfg.TomboyDir = tomboyDir
	}
	if zimDir != "" {
		cfg.ZimDir = zimDir
	}
	if err := cfg.ExpandPaths(); err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}
	return nil
}

// runWithSpinner runs the export behind a progress spinner. Quitting the
// spinner cancels the export
func runWithSpinner(ctx context.Context, exporter *export.Exporter, dryRun bool) (*export.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	status := "Converting notes..."
	if dryRun {
		status = "Comparing notes..."
	}

	p := tea.NewProgram(tui.InitExportModel(status))
	exporter.OnProgress = func(done, total int) {
		p.Send(tui.ProgressMsg{Done: done, Total: total})
	}

	type outcome struct {
		result *export.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := exporter.Export(ctx)
		done <- outcome{result, err}
		p.Send(tui.ExportMsg{Result: result, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	// The user may have quit before the export finished
	cancel()
	out := <-done
	return out.result, out.err
}

// printDiffs prints the dry-run diffs in page order
func printDiffs(diffs map[string]string) {
	if len(diffs) == 0 {
		fmt.Println(styles.DimStyle.Render("No pages would change"))
		return
	}

	pages := make([]string, 0, len(diffs))
	for page := range diffs {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	for _, page := range pages {
		fmt.Println(styles.HighlightStyle.Render(page))
		fmt.Print(diff.Render(diffs[page]))
	}
}
