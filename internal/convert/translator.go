package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMismatchedTag is returned when an end tag does not close the
	// innermost open tag
	ErrMismatchedTag = errors.New("mismatched tag")
	// ErrUnclosedTag is returned when a document ends with tags still open
	ErrUnclosedTag = errors.New("unclosed tag")
	// ErrInvalidDate is returned when last-change-date cannot be parsed
	ErrInvalidDate = errors.New("invalid last-change-date")
)

// changeDateLayout is the part of last-change-date kept before the
// fractional seconds
const changeDateLayout = "2006-01-02T15:04:05"

// Translator turns the element events of one Tomboy note into a Note
// It is not safe for concurrent use; create one per document
type Translator struct {
	tags      tagStack
	frags     fragmentStack
	note      Note
	titleDone bool
	mtimeDone bool
}

// NewTranslator creates a translator for a single note document
func NewTranslator() *Translator {
	return &Translator{}
}

// StartElement handles an opening tag. Attributes are ignored
func (t *Translator) StartElement(name string, _ []xml.Attr) {
	e := element{name: name}

	if isSizeTag(name) {
		if opensHeading(name, t.tags, t.frags) {
			t.frags.pop() // the bold marker
			t.frags.push(headings[name].open)
			e.heading = true
		}
	} else {
		t.frags.push(openMarkup(name, t.tags)...)
	}

	t.tags.push(e)
}

// EndElement handles a closing tag. Closing markup goes before any
// trailing newlines so that it stays on the line it belongs to
func (t *Translator) EndElement(name string) error {
	newlines := t.frags.popNewlines()

	switch {
	case name == TagBold:
		if !suppressBoldClose(t.frags) {
			t.frags.push(closeMarkup(name))
		}
	case isSizeTag(name):
		if closesHeading(t.tags) {
			t.frags.push(headings[name].close)
		}
	default:
		if m := closeMarkup(name); m != "" {
			t.frags.push(m)
		}
	}

	t.frags.push(newlines...)

	open, ok := t.tags.pop()
	if !ok {
		return fmt.Errorf("%w: </%s> with no open tag", ErrMismatchedTag, name)
	}
	if open.name != name {
		return fmt.Errorf("%w: </%s> closes <%s>", ErrMismatchedTag, name, open.name)
	}
	return nil
}

// CharData handles a run of text. Runs are routed by the innermost open
// tag
func (t *Translator) CharData(data string) error {
	if data == "" {
		return nil
	}

	switch t.tags.top() {
	case "":
		return nil

	case TagTitle:
		t.note.Name = FileName(strings.TrimSpace(data))

	case TagCreateDate:
		date, _, _ := strings.Cut(strings.TrimSpace(data), "+")
		t.note.CreateDate = date

	case TagLastChangeDate:
		if t.mtimeDone {
			return nil
		}
		stamp, _, _ := strings.Cut(strings.TrimSpace(data), ".")
		mtime, err := time.ParseInLocation(changeDateLayout, stamp, time.Local)
		if err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidDate, data, err)
		}
		t.note.ModTime = mtime
		t.mtimeDone = true

	case TagLinkInternal:
		t.frags.push(linkText(strings.TrimSpace(data)))

	default:
		if !t.tags.contains(TagNoteContent) {
			return nil
		}
		if t.titleDone {
			t.frags.push(data)
			return nil
		}
		// The first line of the content repeats the title
		t.frags.push("====== " + data + " ======")
		t.titleDone = true
	}

	return nil
}

// linkText returns the zim link body for a note reference, keeping the
// original text as the label when the target had to be rewritten
func linkText(link string) string {
	target := LinkName(link)
	if target == link {
		return target
	}
	return target + "|" + link
}

// Depth returns the number of currently open tags
func (t *Translator) Depth() int {
	return len(t.tags)
}

// Note returns the note built so far
func (t *Translator) Note() Note {
	n := t.note
	n.Body = t.frags.String()
	return n
}
