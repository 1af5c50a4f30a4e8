package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/tomzim/internal/export"
)

func TestExportModelProgress(t *testing.T) {
	var m tea.Model = InitExportModel("Converting notes...")

	m, _ = m.Update(ProgressMsg{Done: 3, Total: 10})
	if view := m.View(); !strings.Contains(view, "3/10") {
		t.Errorf("View should show progress, got %q", view)
	}

	start := time.Now()
	result := &export.Result{Converted: 3, Skipped: 7, StartTime: start, EndTime: start.Add(time.Second)}
	m, cmd := m.Update(ExportMsg{Result: result})
	if cmd == nil {
		t.Fatal("ExportMsg should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ExportMsg should return tea.Quit")
	}

	view := m.View()
	if !strings.Contains(view, "Converted 3 note(s)") || !strings.Contains(view, "7 unchanged") {
		t.Errorf("Summary view missing counts: %q", view)
	}
}

func TestSummary(t *testing.T) {
	start := time.Now()

	tests := []struct {
		name   string
		result *export.Result
		err    error
		want   string
	}{
		{
			name: "failure",
			err:  errors.New("boom"),
			want: "Export failed: boom",
		},
		{
			name:   "nothing to do",
			result: &export.Result{Skipped: 4, StartTime: start, EndTime: start},
			want:   "Nothing to convert",
		},
		{
			name: "duplicate titles",
			result: &export.Result{
				Converted:  2,
				Collisions: 1,
				StartTime:  start,
				EndTime:    start,
			},
			want: "1 duplicate title(s) not written",
		},
		{
			name: "note errors",
			result: &export.Result{
				Converted: 1,
				Errors:    []error{errors.New("a.note: mismatched tag")},
				StartTime: start,
				EndTime:   start,
			},
			want: "a.note: mismatched tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.result, tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("Summary() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRenderStatus(t *testing.T) {
	d := &StatusData{
		TomboyDir:    "/home/me/.local/share/tomboy",
		ZimDir:       "/home/me/Notebooks",
		NotebookName: "Tomboy Notes",
		NoteCount:    3,
		TrackedNotes: 2,
		Pending:      []string{"/home/me/.local/share/tomboy/new.note"},
	}

	out := RenderStatus(d)
	for _, want := range []string{"Tomboy Notes", "1 note(s) to convert", "new.note", "not running"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	d.Pending = nil
	d.Watching = true
	d.WatcherPID = 42
	out = RenderStatus(d)
	if !strings.Contains(out, "up to date") || !strings.Contains(out, "PID 42") {
		t.Errorf("status output missing up-to-date watcher state:\n%s", out)
	}
}
