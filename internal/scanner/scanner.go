// Package scanner turns documentation comments into pages and content
// units.
package scanner

import (
	"fmt"

	"escrido/internal/content"
	"escrido/internal/doc"
	"escrido/internal/extractor"
)

// PosError is a diagnostic with its source position.
type PosError struct {
	File string
	Line int
	Err  error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }

// Scanner feeds comments into a documentation. Content preceding the first
// page tag of a comment belongs to the page opened last.
type Scanner struct {
	doc   *doc.Documentation
	diags []error
}

// New returns a scanner filling d.
func New(d *doc.Documentation) *Scanner {
	return &Scanner{doc: d}
}

// Diagnostics returns the positioned problems found so far.
func (s *Scanner) Diagnostics() []error { return s.diags }

// ScanAll scans the comments in order.
func (s *Scanner) ScanAll(comments []*extractor.Comment) {
	for _, c := range comments {
		s.Scan(c)
	}
}

// Scan processes one comment.
func (s *Scanner) Scan(c *extractor.Comment) {
	kind := content.UnitMultiLine
	if c.Kind == extractor.CommentLine {
		kind = content.UnitSingleLine
	}
	st := &state{
		s:     s,
		file:  c.Filepath,
		line:  c.StartLine,
		start: c.StartLine,
		last:  c.StartLine,
		unit:  content.NewUnit(kind),
	}
	st.run(c.Text)
	st.flush()
}

type state struct {
	s        *Scanner
	file     string
	line     int
	start    int // line the current unit began on
	last     int // line of the last character put into the unit
	unit     *content.Unit
	headline *doc.Page
}

func (st *state) run(text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\r' {
			continue
		}
		if st.headline != nil {
			if c == '\n' {
				st.headline = nil
				st.line++
				continue
			}
			st.headline.AppendHeadlineChar(c)
			continue
		}
		switch {
		case c == '@' && i+1 < len(text) && content.IsIdentChar(text[i+1]):
			j := i + 1
			for j < len(text) && content.IsIdentChar(text[j]) {
				j++
			}
			st.tag(text[i+1 : j])
			st.last = st.line
			i = j - 1
		case c == ' ':
			st.unit.AppendBlank()
		case c == '\t':
			st.unit.AppendTab()
		case c == '\n':
			st.unit.AppendLineBreak()
			st.line++
		default:
			st.unit.AppendChar(c)
			st.last = st.line
		}
	}
}

func (st *state) tag(name string) {
	if doc.IsPageTag(name) {
		st.flush()
		n := len(st.s.doc.Diagnostics())
		st.headline = st.s.doc.NewPage(name)
		st.headline.AddSource(st.file, st.line, st.line)
		for _, err := range st.s.doc.Diagnostics()[n:] {
			st.report(err)
		}
		return
	}
	n := len(st.unit.Diagnostics())
	st.unit.AppendTag(name)
	for _, err := range st.unit.Diagnostics()[n:] {
		st.report(err)
	}
}

// flush hands the collected content to the newest page and starts over.
func (st *state) flush() {
	st.unit.CloseWrite()
	if !st.unit.Empty() {
		if st.s.doc.Back() == nil {
			st.report(doc.ErrNoPage)
		} else {
			st.s.doc.PushUnit(st.unit)
			st.s.doc.Back().AddSource(st.file, st.start, st.last)
		}
	}
	st.start = st.line
	st.unit = content.NewUnit(st.unit.Kind())
}

func (st *state) report(err error) {
	st.s.diags = append(st.s.diags, &PosError{File: st.file, Line: st.line, Err: err})
}
