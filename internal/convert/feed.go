package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Handler receives the element events of a note document in order
type Handler interface {
	StartElement(name string, attrs []xml.Attr)
	EndElement(name string) error
	CharData(data string) error
}

// Decode reads an XML note document from r and feeds its events to h
//
// Element names keep their namespace prefix ("size:large",
// "link:internal"). Character data is split after every newline, so a
// newline always ends its own text event
func Decode(r io.Reader, h Handler) error {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			h.StartElement(qualifiedName(t.Name), t.Attr)
		case xml.EndElement:
			if err := h.EndElement(qualifiedName(t.Name)); err != nil {
				return err
			}
		case xml.CharData:
			for _, line := range splitLines(string(t)) {
				if err := h.CharData(line); err != nil {
					return err
				}
			}
		}
	}
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// splitLines cuts s into text runs and bare "\n" runs
func splitLines(s string) []string {
	var runs []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		switch {
		case i < 0:
			runs = append(runs, s)
			s = ""
		case i == 0:
			runs = append(runs, "\n")
			s = s[1:]
		default:
			runs = append(runs, s[:i])
			s = s[i:]
		}
	}
	return runs
}

// Convert reads one Tomboy note from r and returns it as a zim page
func Convert(r io.Reader) (Note, error) {
	t := NewTranslator()
	if err := Decode(r, t); err != nil {
		return Note{}, err
	}
	if t.Depth() != 0 {
		return Note{}, fmt.Errorf("%w: <%s> still open at end of document", ErrUnclosedTag, t.tags.top())
	}
	return t.Note(), nil
}
