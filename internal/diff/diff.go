package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff from oldContent to newContent, labelled
// with name. It returns "" when the contents are equal
func Unified(name, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), oldContent, newContent)
	return fmt.Sprint(gotextdiff.ToUnified(name+" (on disk)", name+" (converted)", oldContent, edits))
}

// Page diffs the page file at path against content. A missing page
// diffs as empty
func Page(path, content string) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return Unified(filepath.Base(path), string(existing), content), nil
}

// Render wraps a unified diff in a diff fence and renders it for the
// terminal. The plain fence is returned if rendering fails
func Render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}

	return rendered
}
