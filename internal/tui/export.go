package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/tomzim/internal/export"
	"github.com/gerunddev/tomzim/internal/styles"
)

// exportModel is the Bubble Tea model for the export progress display
type exportModel struct {
	spinner  spinner.Model
	status   string
	done     int
	total    int
	complete bool
	result   *export.Result
	err      error
}

// ExportMsg is sent when the export completes
type ExportMsg struct {
	Result *export.Result
	Err    error
}

// ProgressMsg reports how many notes have been handled so far
type ProgressMsg struct {
	Done  int
	Total int
}

// InitExportModel creates a new export progress model
func InitExportModel(status string) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return exportModel{
		spinner: s,
		status:  status,
	}
}

func (m exportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		return m, nil

	case ExportMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m exportModel) View() string {
	if m.complete {
		return Summary(m.result, m.err)
	}

	if m.total > 0 {
		return fmt.Sprintf("\n%s %s %s\n\n", m.spinner.View(), m.status,
			styles.DimStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	}
	return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
}

// Summary renders the outcome of an export
func Summary(result *export.Result, err error) string {
	if err != nil {
		return styles.ErrorStyle.Render("✗ Export failed: "+err.Error()) + "\n"
	}
	if result == nil {
		return ""
	}

	took := styles.DimStyle.Render(fmt.Sprintf("Completed in %v", result.EndTime.Sub(result.StartTime).Round(time.Millisecond)))

	if result.Converted == 0 && len(result.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Nothing to convert") + "\n" + took + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Converted %d note(s)", result.Converted))
	if result.Skipped > 0 {
		msg += styles.DimStyle.Render(fmt.Sprintf(", %d unchanged", result.Skipped))
	}
	if result.Collisions > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d duplicate title(s) not written", result.Collisions))
	}
	if len(result.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors)))
		for _, e := range result.Errors {
			msg += "\n  " + styles.ErrorStyle.Render("✗ "+e.Error())
		}
	}
	return msg + "\n" + took + "\n"
}
