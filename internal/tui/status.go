package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/tomzim/internal/styles"
)

// StatusData holds all the information for the status display
type StatusData struct {
	TomboyDir    string
	ZimDir       string
	NotebookName string
	NoteCount    int
	TrackedNotes int
	Pending      []string // notes new or changed since the last export
	Watching     bool
	WatcherPID   int
	WatchSince   time.Time
	LastExport   time.Time
}

// maxPendingRows caps the pending table height
const maxPendingRows = 10

// RenderStatus renders the status report
func RenderStatus(d *StatusData) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("tomzim status"))
	b.WriteString("\n\n")

	b.WriteString(styles.LabelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Tomboy directory: %s\n", styles.ValueStyle.Render(d.TomboyDir)))
	b.WriteString(fmt.Sprintf("  Zim notebook:     %s\n", styles.ValueStyle.Render(d.ZimDir)))
	b.WriteString(fmt.Sprintf("  Notebook name:    %s\n", styles.ValueStyle.Render(d.NotebookName)))
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Notes"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Tomboy notes:  %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", d.NoteCount))))
	b.WriteString(fmt.Sprintf("  Tracked notes: %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", d.TrackedNotes))))
	if !d.LastExport.IsZero() {
		b.WriteString(fmt.Sprintf("  Last export:   %s\n", styles.ValueStyle.Render(d.LastExport.Format(time.DateTime))))
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Pending Changes"))
	b.WriteString("\n")
	if len(d.Pending) == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render("✓ Notebook is up to date")))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", styles.HighlightStyle.Render(fmt.Sprintf("● %d note(s) to convert", len(d.Pending)))))
		b.WriteString(styles.TableStyle.Render(pendingTable(d.Pending).View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Watcher"))
	b.WriteString("\n")
	if d.Watching {
		since := ""
		if !d.WatchSince.IsZero() {
			since = " since " + d.WatchSince.Format(time.DateTime)
		}
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render(fmt.Sprintf("● running (PID %d)%s", d.WatcherPID, since))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", styles.DimStyle.Render("○ not running")))
	}

	return b.String()
}

// pendingTable lists pending notes by file name
func pendingTable(pending []string) table.Model {
	rows := make([]table.Row, 0, len(pending))
	for _, p := range pending {
		rows = append(rows, table.Row{filepath.Base(p)})
	}

	height := len(rows)
	if height > maxPendingRows {
		height = maxPendingRows
	}

	// Height includes the header and its border
	t := table.New(
		table.WithColumns([]table.Column{{Title: "Note", Width: 48}}),
		table.WithRows(rows),
		table.WithHeight(height+2),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Cell
	t.SetStyles(ts)

	return t
}
