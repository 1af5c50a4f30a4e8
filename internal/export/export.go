package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/tomzim/internal/config"
	"github.com/gerunddev/tomzim/internal/convert"
	"github.com/gerunddev/tomzim/internal/diff"
	"github.com/gerunddev/tomzim/internal/logger"
	"github.com/gerunddev/tomzim/internal/notebook"
	"github.com/gerunddev/tomzim/internal/state"
)

// NoteExt is the extension of Tomboy note files
const NoteExt = ".note"

// ErrNoTitle is returned for a note whose title is empty, since it has no
// page name to be written under
var ErrNoTitle = errors.New("note has no title")

// Exporter converts a Tomboy note directory into a zim notebook
type Exporter struct {
	config *config.Config
	state  *state.State
	logger *logger.Logger

	// DryRun converts notes without writing anything; Result.Diffs holds
	// what would change
	DryRun bool
	// Force converts every note, even those unchanged since the last run
	Force bool
	// OnProgress, when set, is called after each note with the number of
	// notes handled so far
	OnProgress func(done, total int)
}

// NewExporter creates a new exporter instance
func NewExporter(cfg *config.Config, st *state.State) *Exporter {
	return &Exporter{
		config: cfg,
		state:  st,
		logger: logger.Discard(),
	}
}

// SetLogger sets the logger used for export events
func (e *Exporter) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Discard()
	}
	e.logger = l
}

// Result represents the result of an export
type Result struct {
	NotesFound int
	Converted  int
	Skipped    int
	Collisions int // notes not written because an earlier note owns the page name
	Errors     []error
	Diffs      map[string]string // page path -> unified diff, dry runs only
	StartTime  time.Time
	EndTime    time.Time
}

// outcome is the conversion of a single note, before anything is written
type outcome struct {
	note    convert.Note
	skipped bool
	err     error
}

// Export converts every note in the Tomboy directory. Notes are converted
// in parallel and then written one by one in scan order, so when two notes
// share a page name the first one in file name order owns the page and the
// later one is reported and left unwritten. Notes that fail to convert are
// reported in Result.Errors and do not stop the others; the returned error
// is reserved for failures of the export as a whole
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
		Diffs:     make(map[string]string),
	}

	notes, err := ScanDirectory(e.config.TomboyDir, NoteExt, e.config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tomboy_dir: %w", err)
	}
	result.NotesFound = len(notes)

	e.logger.ExportStarted(e.config.TomboyDir, e.config.ZimDir, len(notes))

	if !e.DryRun {
		if err := notebook.Prepare(e.config.ZimDir); err != nil {
			return nil, err
		}
		ix := notebook.Index{
			Name:         e.config.NotebookName,
			Home:         e.config.StartNote,
			DocumentRoot: e.config.ZimDir,
		}
		if err := notebook.WriteIndex(e.config.ZimDir, ix); err != nil {
			return nil, err
		}
	}

	outcomes := make([]outcome, len(notes))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, path := range notes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcomes[i] = e.convertNote(path)

			mu.Lock()
			defer mu.Unlock()
			done++
			if e.OnProgress != nil {
				e.OnProgress(done, len(notes))
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		result.EndTime = time.Now()
		return result, err
	}

	// Unchanged notes keep the pages they already have on disk
	owners := make(map[string]string) // page name -> source note
	for i, out := range outcomes {
		if !out.skipped {
			continue
		}
		if fs, ok := e.state.Lookup(notes[i]); ok {
			owners[fs.Page] = notes[i]
		}
	}

	for i, out := range outcomes {
		path := notes[i]

		switch {
		case out.err != nil:
			e.noteFailed(result, path, out.err)

		case out.skipped:
			result.Skipped++

		default:
			name := out.note.Name
			if first, ok := owners[name]; ok {
				e.logger.PageCollision(name, first, path)
				result.Collisions++
				continue
			}
			owners[name] = path

			d, err := e.commit(path, out.note, owners)
			if err != nil {
				e.noteFailed(result, path, err)
				continue
			}
			result.Converted++
			if d != "" {
				result.Diffs[notebook.PagePath(e.config.ZimDir, out.note)] = d
			}
		}
	}

	result.EndTime = time.Now()
	e.logger.ExportCompleted(result.Converted, result.Skipped, len(result.Errors), result.EndTime.Sub(result.StartTime))

	return result, nil
}

func (e *Exporter) noteFailed(result *Result, path string, err error) {
	e.logger.NoteError(path, err)
	result.Errors = append(result.Errors, fmt.Errorf("%s: %w", filepath.Base(path), err))
}

// convertNote reads and converts one note. Unchanged notes are skipped
// unless forced
func (e *Exporter) convertNote(path string) outcome {
	if !e.Force && !e.DryRun && e.upToDate(path) {
		e.logger.Skipped(path, "unchanged since last export")
		return outcome{skipped: true}
	}

	f, err := os.Open(path)
	if err != nil {
		return outcome{err: err}
	}
	defer f.Close()

	note, err := convert.Convert(f)
	if err != nil {
		return outcome{err: err}
	}
	if note.Name == "" {
		return outcome{err: ErrNoTitle}
	}

	return outcome{note: note}
}

// commit writes the page for a converted note and records it in the state
// A dry run only returns the diff against the page on disk. When the note
// was exported before under another title its old page is removed, unless
// another note now owns that page name
func (e *Exporter) commit(path string, note convert.Note, owners map[string]string) (string, error) {
	pagePath := notebook.PagePath(e.config.ZimDir, note)

	if e.DryRun {
		return diff.Page(pagePath, note.String())
	}

	if id, ok := state.NoteID(path); ok {
		if old, ok := e.state.Page(id); ok && old != note.Name {
			if _, claimed := owners[old]; !claimed {
				oldPath := notebook.PagePath(e.config.ZimDir, convert.Note{Name: old})
				if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
					return "", fmt.Errorf("failed to remove renamed page: %w", err)
				}
				e.logger.PageRenamed(path, old, note.Name)
			}
		}
	}

	if _, err := notebook.WritePage(e.config.ZimDir, note); err != nil {
		return "", err
	}
	if err := e.state.Update(path, note.Name); err != nil {
		e.logger.StateError("update", err)
		return "", fmt.Errorf("failed to record note: %w", err)
	}

	e.logger.NoteConverted(path, pagePath)
	return "", nil
}

// upToDate reports whether the note is unchanged and its page is still on
// disk
func (e *Exporter) upToDate(path string) bool {
	changed, err := e.state.HasChanged(path)
	if err != nil || changed {
		return false
	}
	fs, ok := e.state.Lookup(path)
	if !ok {
		return false
	}
	_, err = os.Stat(notebook.PagePath(e.config.ZimDir, convert.Note{Name: fs.Page}))
	return err == nil
}

// Pending lists the notes the next incremental export would convert
func (e *Exporter) Pending() ([]string, error) {
	notes, err := ScanDirectory(e.config.TomboyDir, NoteExt, e.config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tomboy_dir: %w", err)
	}

	var pending []string
	for _, path := range notes {
		if !e.upToDate(path) {
			pending = append(pending, path)
		}
	}
	return pending, nil
}

// ScanDirectory lists the files in dir with the given extension. Tomboy
// keeps old revisions in subdirectories, so only the top level is read
// Files whose names match any exclude pattern are left out
func ScanDirectory(dir string, ext string, excludePatterns []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		if shouldExclude(entry.Name(), excludePatterns) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return files, nil
}

func shouldExclude(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the export result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Export complete: %d notes converted, %d skipped, %d errors (took %v)",
		r.Converted,
		r.Skipped,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
