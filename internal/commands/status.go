package commands

import (
	"fmt"

	"github.com/gerunddev/tomzim/internal/daemon"
	"github.com/gerunddev/tomzim/internal/export"
	"github.com/gerunddev/tomzim/internal/tui"
)

// logTailLines bounds how much of the log is scanned for the last export
const logTailLines = 200

// Status reports the notebook location and which notes still need
// converting
func Status(configPath string) error {
	data, err := gatherStatus(configPath)
	if err != nil {
		return err
	}
	fmt.Println(tui.RenderStatus(data))
	return nil
}

func gatherStatus(configPath string) (*tui.StatusData, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := loadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	notes, err := export.ScanDirectory(cfg.TomboyDir, export.NoteExt, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tomboy_dir: %w", err)
	}

	pending, err := export.NewExporter(cfg, st).Pending()
	if err != nil {
		return nil, err
	}

	running, pid, since := daemon.IsRunning()

	return &tui.StatusData{
		TomboyDir:    cfg.TomboyDir,
		ZimDir:       cfg.ZimDir,
		NotebookName: cfg.NotebookName,
		NoteCount:    len(notes),
		TrackedNotes: st.Len(),
		Pending:      pending,
		Watching:     running,
		WatcherPID:   pid,
		WatchSince:   since,
		LastExport:   LastExport(cfg.LogFile, logTailLines),
	}, nil
}
