package notebook

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gerunddev/tomzim/internal/convert"
)

// IndexFile is the name of the notebook index zim looks for
const IndexFile = "notebook.zim"

// Index describes the notebook as a whole
type Index struct {
	Name         string // notebook name shown by zim
	Home         string // page opened on start
	DocumentRoot string
}

// String renders the index file contents
func (ix Index) String() string {
	return fmt.Sprintf(`[Notebook]
name=%s
home=:%s
icon=None
document_root=%s
slow_fs=False
version=0.4
`, ix.Name, ix.Home, ix.DocumentRoot)
}

// Prepare makes sure dir can hold a notebook, creating it if needed
func Prepare(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create notebook directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("zim_dir %s is not a directory", dir)
	}
	return nil
}

// WriteIndex writes the notebook index into dir
func WriteIndex(dir string, ix Index) error {
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(ix.String()), 0644); err != nil {
		return fmt.Errorf("failed to write notebook index: %w", err)
	}
	return nil
}

// PagePath returns where the page for note lives in dir
func PagePath(dir string, note convert.Note) string {
	return filepath.Join(dir, note.FileName())
}

// WritePage writes note as a page file in dir and stamps it with the note's
// last change time. It returns the written path
func WritePage(dir string, note convert.Note) (string, error) {
	path := PagePath(dir, note)

	if err := os.WriteFile(path, []byte(note.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write page: %w", err)
	}

	if mtime, ok := note.MTime(); ok {
		t := time.Unix(mtime, 0)
		if err := os.Chtimes(path, t, t); err != nil {
			return "", fmt.Errorf("failed to set page time: %w", err)
		}
	}

	return path, nil
}
