// Package doc collects content units into documentation pages and arranges
// them into a group tree for navigation.
package doc

import (
	"strings"

	"escrido/internal/content"
)

// Kind is the sort of a documentation page.
type Kind int

const (
	KindPage Kind = iota
	KindMainPage
	KindRefPage
)

func (k Kind) String() string {
	switch k {
	case KindMainPage:
		return "mainpage"
	case KindRefPage:
		return "refpage"
	default:
		return "page"
	}
}

var pageTags = map[string]Kind{
	"_page_":     KindPage,
	"_mainpage_": KindMainPage,
	"_refpage_":  KindRefPage,
}

// LookupPageTag maps a page tag name without '@' to its kind.
func LookupPageTag(name string) (Kind, bool) {
	k, ok := pageTags[name]
	return k, ok
}

// IsPageTag reports whether name has the shape of a page tag, "_word_".
// Unknown page tags of that shape are still opened as plain pages.
func IsPageTag(name string) bool {
	return len(name) > 2 && name[0] == '_' && name[len(name)-1] == '_'
}

type headlineState int

const (
	headStart headlineState = iota
	headPageType
	headPageTypeQuoted
	headPostPageType
	headIdent
	headPostIdent
	headTitle
)

// Page is one output document: a headline (type, identifier, title) and the
// content of every unit pushed while it was the newest page.
type Page struct {
	kind      Kind
	typeLabel string
	typeID    string
	ident     string
	title     string
	state     headlineState
	unit      *content.Unit
	sources   []Span
}

// Span is a line range of a source file that contributed to a page.
type Span struct {
	File  string
	Start int
	End   int
}

// Contains reports whether line lies inside the span.
func (s Span) Contains(line int) bool { return line >= s.Start && line <= s.End }

// NewPage returns an empty page of the given kind awaiting its headline.
func NewPage(kind Kind) *Page {
	p := &Page{
		kind:      kind,
		typeLabel: "page",
		typeID:    "page",
		state:     headStart,
		unit:      content.NewUnit(content.UnitMultiLine),
	}
	if kind == KindMainPage {
		p.typeLabel = "mainpage"
		p.typeID = "mainpage"
		p.ident = "mainpage"
		p.state = headPostIdent
	}
	return p
}

// AppendHeadlineChar feeds one character of the page tag line.
func (p *Page) AppendHeadlineChar(c byte) {
	blank := content.IsBlank(c)
	switch p.state {
	case headStart:
		switch {
		case blank:
		case p.kind == KindRefPage && c == '"':
			p.typeLabel = ""
			p.state = headPageTypeQuoted
		case p.kind == KindRefPage:
			p.typeLabel = string(c)
			p.state = headPageType
		default:
			p.ident += string(c)
			p.state = headIdent
		}
	case headPageType:
		if blank {
			p.buildTypeID()
			p.state = headPostPageType
			return
		}
		p.typeLabel += string(c)
	case headPageTypeQuoted:
		if c == '"' {
			p.buildTypeID()
			p.state = headPostPageType
			return
		}
		p.typeLabel += string(c)
	case headPostPageType:
		if !blank {
			p.ident += string(c)
			p.state = headIdent
		}
	case headIdent:
		if blank {
			p.state = headPostIdent
			return
		}
		p.ident += string(c)
	case headPostIdent:
		if !blank {
			p.title += string(c)
			p.state = headTitle
		}
	case headTitle:
		p.title += string(c)
	}
}

// AppendHeadline feeds a whole headline.
func (p *Page) AppendHeadline(s string) {
	for i := 0; i < len(s); i++ {
		p.AppendHeadlineChar(s[i])
	}
}

// buildTypeID derives the lower-case type id, blanks turned into '_'.
func (p *Page) buildTypeID() {
	id := []byte(strings.ToLower(p.typeLabel))
	for i, c := range id {
		if content.IsBlank(c) {
			id[i] = '_'
		}
	}
	p.typeID = string(id)
}

// Kind returns the page kind.
func (p *Page) Kind() Kind { return p.kind }

// TypeLabel returns the page type as written, e.g. "data type".
func (p *Page) TypeLabel() string { return p.typeLabel }

// TypeID returns the page type usable in file names, e.g. "data_type".
func (p *Page) TypeID() string { return p.typeID }

// Ident returns the page identifier.
func (p *Page) Ident() string { return p.ident }

// Title returns the page title, or the identifier for untitled pages.
func (p *Page) Title() string {
	if t := strings.TrimRight(p.title, " \t"); t != "" {
		return t
	}
	return p.ident
}

// AddSource records that the lines start to end of file went into the page.
// Adjacent ranges of the same file are merged.
func (p *Page) AddSource(file string, start, end int) {
	if end < start {
		end = start
	}
	if n := len(p.sources); n > 0 {
		last := &p.sources[n-1]
		if last.File == file && start <= last.End+1 {
			if end > last.End {
				last.End = end
			}
			return
		}
	}
	p.sources = append(p.sources, Span{File: file, Start: start, End: end})
}

// Sources returns the source ranges of the page in scan order.
func (p *Page) Sources() []Span { return p.sources }

// References returns the identifiers the page refers to with @ref chunks
// and @see blocks, without duplicates.
func (p *Page) References() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, b := range p.unit.Blocks() {
		if b.Type() == content.TagSee {
			add(content.MakeIdentifier(b.PlainFirstWord()))
		}
		chunks := b.Chunks()
		for i := range chunks {
			if chunks[i].Type() == content.ChunkRef {
				add(content.MakeIdentifier(chunks[i].PlainFirstWord()))
			}
		}
	}
	return out
}

// Unit returns the content of the page.
func (p *Page) Unit() *content.Unit { return p.unit }

// URL returns the output file name of the page.
func (p *Page) URL(postfix string) string {
	switch p.kind {
	case KindMainPage:
		return "index" + postfix
	case KindRefPage:
		return p.typeID + "_" + p.ident + postfix
	default:
		return "page_" + p.ident + postfix
	}
}

// Brief returns the plain text of the first @brief block.
func (p *Page) Brief() string {
	if b := p.unit.FirstBlock(content.TagBrief); b != nil {
		return b.PlainText()
	}
	return ""
}

// Namespace returns the first word of the first @namespace block.
func (p *Page) Namespace() string {
	if b := p.unit.FirstBlock(content.TagNamespace); b != nil {
		return b.PlainFirstWord()
	}
	return ""
}

// GroupNames returns the group path of the page. Each @ingroup block names
// one more nesting level.
func (p *Page) GroupNames() []string {
	var names []string
	for _, b := range p.unit.BlocksOf(content.TagIngroup) {
		names = append(names, strings.TrimSpace(b.PlainTitleLine()))
	}
	return names
}

// FeatureNames returns the feature group names in order of appearance.
func (p *Page) FeatureNames() []string {
	var names []string
	for _, b := range p.unit.BlocksOf(content.TagFeature) {
		names = append(names, b.PlainFirstWordOrQuote())
	}
	return names
}

// OrderList returns the identifiers named by the @order blocks, separated by
// commas.
func (p *Page) OrderList() []string {
	var out []string
	for _, b := range p.unit.BlocksOf(content.TagOrder) {
		for _, tok := range strings.Split(b.PlainText(), ",") {
			if tok = strings.Trim(tok, " \t\n,"); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

// inGroup reports whether any group of the page is one of names.
func (p *Page) inGroup(names []string) bool {
	for _, g := range p.GroupNames() {
		for _, n := range names {
			if g == n {
				return true
			}
		}
	}
	return false
}
