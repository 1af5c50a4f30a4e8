package convert

import (
	"fmt"
	"strings"
	"time"
)

// Note is a converted Tomboy note, ready to be written as a zim page
type Note struct {
	Name       string    // page name, safe for use as a file name
	Body       string    // zim wiki markup
	CreateDate string    // creation date as recorded, without time zone
	ModTime    time.Time // last change time; zero when the note has none
}

// MTime returns the last change time as a Unix timestamp
func (n Note) MTime() (int64, bool) {
	if n.ModTime.IsZero() {
		return 0, false
	}
	return n.ModTime.Unix(), true
}

// FileName returns the page file name for the note
func (n Note) FileName() string {
	return n.Name + ".txt"
}

// String renders the note as the contents of a zim page file
func (n Note) String() string {
	var b strings.Builder
	b.WriteString("Content-Type: text/x-zim-wiki\n")
	b.WriteString("Wiki-Format: zim 0.4\n")
	fmt.Fprintf(&b, "Creation-Date: %s\n", n.CreateDate)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(n.Body, "\n"))
	b.WriteString("\n")
	return b.String()
}
