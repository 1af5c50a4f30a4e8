package convert

import "strings"

// Tomboy element names the translator understands
const (
	TagTitle          = "title"
	TagCreateDate     = "create-date"
	TagLastChangeDate = "last-change-date"
	TagNoteContent    = "note-content"
	TagBold           = "bold"
	TagItalic         = "italic"
	TagStrikethrough  = "strikethrough"
	TagHighlight      = "highlight"
	TagMonospace      = "monospace"
	TagSizeHuge       = "size:huge"
	TagSizeLarge      = "size:large"
	TagLinkInternal   = "link:internal"
	TagList           = "list"
	TagListItem       = "list-item"
)

// marker holds the zim markup written around a tag's content
type marker struct {
	open  string
	close string
}

// markers maps Tomboy style tags to zim markup. Tags missing from the
// table (including list, list-item and the size tags) emit nothing here
var markers = map[string]marker{
	TagBold:          {"**", "**"},
	TagItalic:        {"//", "//"},
	TagStrikethrough: {"~~", "~~"},
	TagHighlight:     {"__", "__"},
	TagMonospace:     {"''", "''"},
	TagLinkInternal:  {"[[", "]]"},
}

const bullet = "* "

// openMarkup returns the fragments emitted when tag starts, given the
// currently open tags
func openMarkup(tag string, open tagStack) []string {
	if tag == TagListItem {
		// one tab per list level below the outermost
		if depth := open.count(TagList) - 1; depth > 0 {
			return []string{strings.Repeat("\t", depth), bullet}
		}
		return []string{bullet}
	}
	if m, ok := markers[tag]; ok {
		return []string{m.open}
	}
	return nil
}

// closeMarkup returns the fragment emitted when tag ends
func closeMarkup(tag string) string {
	return markers[tag].close
}

// Heading markup keyed by size tag
var headings = map[string]marker{
	TagSizeHuge:  {"====== ", " ======"},
	TagSizeLarge: {"===== ", " ====="},
}

func isSizeTag(tag string) bool {
	_, ok := headings[tag]
	return ok
}

// headingClosePrefix is what every heading close marker starts with
const headingClosePrefix = " ====="

// opensHeading reports whether a size tag starting now turns the bold run
// around it into a heading: the size tag is directly inside bold, the bold
// marker is the last fragment, and the fragment before it ends a line
func opensHeading(tag string, open tagStack, frags fragmentStack) bool {
	if !isSizeTag(tag) {
		return false
	}
	if open.top() != TagBold {
		return false
	}
	last, ok := frags.at(1)
	if !ok || last != markers[TagBold].open {
		return false
	}
	prev, ok := frags.at(2)
	return ok && strings.HasSuffix(prev, "\n")
}

// closesHeading reports whether the size element on top of open was
// opened as a heading and is still directly inside its bold run
func closesHeading(open tagStack) bool {
	if len(open) == 0 || !open[len(open)-1].heading {
		return false
	}
	return open.at(2) == TagBold
}

// suppressBoldClose reports whether the closing ** of a bold run would
// trail a heading line
func suppressBoldClose(frags fragmentStack) bool {
	last, ok := frags.at(1)
	return ok && strings.HasPrefix(last, headingClosePrefix)
}

var linkReplacer = strings.NewReplacer(":", ";", "/", "-")

// LinkName rewrites a note reference into a form usable as a zim link
// target
func LinkName(s string) string {
	return linkReplacer.Replace(s)
}

// FileName rewrites a note title into a page file name
func FileName(s string) string {
	return strings.ReplaceAll(LinkName(s), " ", "_")
}
