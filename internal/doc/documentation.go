package doc

import (
	"errors"
	"fmt"

	"escrido/internal/content"
	"escrido/internal/reftable"
)

var (
	// ErrUnknownPageKind is reported for page tags other than the known ones.
	ErrUnknownPageKind = errors.New("unrecognized page type")
	// ErrNoPage is reported for content that precedes the first page tag.
	ErrNoPage = errors.New("content outside of any page")
)

// Documentation is the ordered list of pages of one build.
type Documentation struct {
	pages []*Page
	diags []error

	tree *Group
	nav  []*Page
}

// New returns an empty documentation.
func New() *Documentation {
	return &Documentation{}
}

// NewPage opens a page for the page tag name (without '@') and returns it.
// Unknown names open a plain page and record a diagnostic.
func (d *Documentation) NewPage(name string) *Page {
	kind, ok := LookupPageTag(name)
	if !ok {
		d.diags = append(d.diags, fmt.Errorf("%w '@%s' treated as '@_page_'", ErrUnknownPageKind, name))
		kind = KindPage
	}
	p := NewPage(kind)
	d.pages = append(d.pages, p)
	d.invalidate()
	return p
}

// Back returns the newest page, or nil.
func (d *Documentation) Back() *Page {
	if len(d.pages) == 0 {
		return nil
	}
	return d.pages[len(d.pages)-1]
}

// PushUnit appends the content of u to the newest page. Without any page the
// content is dropped. It returns false in that case.
func (d *Documentation) PushUnit(u *content.Unit) bool {
	p := d.Back()
	if p == nil {
		if !u.Empty() {
			d.diags = append(d.diags, ErrNoPage)
		}
		return false
	}
	p.unit.AppendUnit(u)
	return true
}

// Pages returns the pages in input order.
func (d *Documentation) Pages() []*Page {
	return append([]*Page(nil), d.pages...)
}

// Len returns the number of pages.
func (d *Documentation) Len() int { return len(d.pages) }

// Diagnostics returns the problems found while collecting pages. Markup
// diagnostics live on the page units.
func (d *Documentation) Diagnostics() []error { return d.diags }

// MainPage returns the first mainpage, or nil.
func (d *Documentation) MainPage() *Page {
	for _, p := range d.pages {
		if p.kind == KindMainPage {
			return p
		}
	}
	return nil
}

// PageByIdent returns the first page with the identifier, or nil.
func (d *Documentation) PageByIdent(ident string) *Page {
	for _, p := range d.pages {
		if p.ident == ident {
			return p
		}
	}
	return nil
}

// RemoveNamespaces keeps only pages whose namespace is in allowed.
func (d *Documentation) RemoveNamespaces(allowed []string) {
	keep := make(map[string]bool, len(allowed))
	for _, n := range allowed {
		keep[n] = true
	}
	d.filter(func(p *Page) bool { return keep[p.Namespace()] })
}

// RemoveGroups drops every page that is in one of the excluded groups.
func (d *Documentation) RemoveGroups(excluded []string) {
	d.filter(func(p *Page) bool { return !p.inGroup(excluded) })
}

func (d *Documentation) filter(keep func(*Page) bool) {
	out := d.pages[:0]
	for _, p := range d.pages {
		if keep(p) {
			out = append(out, p)
		}
	}
	for i := len(out); i < len(d.pages); i++ {
		d.pages[i] = nil
	}
	d.pages = out
	d.invalidate()
}

// BuildRefTable registers every page and all of its sections, subsections
// and subsubsections.
func (d *Documentation) BuildRefTable(postfix string) *reftable.Table {
	t := reftable.New()
	for _, p := range d.pages {
		url := p.URL(postfix)
		t.AddWithText(p.ident, url, p.Title())
		for _, typ := range []content.TagType{content.TagSection, content.TagSubsection, content.TagSubsubsection} {
			for _, b := range p.unit.BlocksOf(typ) {
				id := content.MakeIdentifier(b.PlainFirstWord())
				t.AddWithText(id, url+"#"+id, b.PlainTitleLineButFirstWord())
			}
		}
	}
	return t
}

// FeatureNames returns the distinct feature names of all pages in order of
// first appearance.
func (d *Documentation) FeatureNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range d.pages {
		for _, n := range p.FeatureNames() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

func (d *Documentation) invalidate() {
	d.tree = nil
	d.nav = nil
}
