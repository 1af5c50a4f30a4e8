package convert

import "strings"

// element is one entry of the tag stack
type element struct {
	name    string
	heading bool // opened as a heading by the bold+size rule
}

// tagStack records the currently open tags, innermost last
type tagStack []element

func (s *tagStack) push(e element) { *s = append(*s, e) }

func (s *tagStack) pop() (element, bool) {
	if len(*s) == 0 {
		return element{}, false
	}
	e := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return e, true
}

// top returns the innermost open tag name, or "" when nothing is open
func (s tagStack) top() string {
	return s.at(1)
}

// at returns the name n levels from the top (1 = innermost)
func (s tagStack) at(n int) string {
	if n < 1 || n > len(s) {
		return ""
	}
	return s[len(s)-n].name
}

func (s tagStack) count(name string) int {
	n := 0
	for _, e := range s {
		if e.name == name {
			n++
		}
	}
	return n
}

func (s tagStack) contains(name string) bool {
	return s.count(name) > 0
}

// fragmentStack is the ordered output of a translation
type fragmentStack []string

func (s *fragmentStack) push(frags ...string) { *s = append(*s, frags...) }

func (s *fragmentStack) pop() string {
	if len(*s) == 0 {
		return ""
	}
	f := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return f
}

// at returns the fragment n positions from the top (1 = last pushed)
func (s fragmentStack) at(n int) (string, bool) {
	if n < 1 || n > len(s) {
		return "", false
	}
	return s[len(s)-n], true
}

// popNewlines removes the run of bare newline fragments at the top and
// returns them in push order
func (s *fragmentStack) popNewlines() []string {
	i := len(*s)
	for i > 0 && (*s)[i-1] == "\n" {
		i--
	}
	tail := append([]string(nil), (*s)[i:]...)
	*s = (*s)[:i]
	return tail
}

func (s fragmentStack) String() string {
	return strings.Join(s, "")
}
