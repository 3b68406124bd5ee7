package doc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"escrido/internal/content"
)

// writer keeps the first write error and ignores everything after.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) str(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) line(ctx *content.WriteContext, s string) {
	w.str(ctx.Margin + strings.Repeat("  ", ctx.Depth()) + s + "\n")
}

// WriteHTMLHeadline writes the page title as the top level heading.
func (p *Page) WriteHTMLHeadline(w io.Writer, ctx *content.WriteContext) error {
	o := &writer{w: w}
	o.str(fmt.Sprintf("<h1 id=\"%s\">%s</h1>", content.HTMLAttrEscape(p.ident), html.EscapeString(p.Title())))
	return o.err
}

// WriteLaTeXHeadline writes the page title with a label for references.
func (p *Page) WriteLaTeXHeadline(w io.Writer, ctx *content.WriteContext) error {
	o := &writer{w: w}
	o.str("\\pageheadline{" + content.LaTeXEscape(p.Title()) + "}\n")
	o.str("\\label{" + p.ident + "}\n")
	return o.err
}

var metaData = []struct {
	typ   content.TagType
	class string
	label string
}{
	{content.TagAuthor, "author", "Author"},
	{content.TagDate, "date", "Date"},
	{content.TagVersion, "version", "Version"},
	{content.TagCopyright, "copyright", "Copyright"},
}

// WriteHTMLMetaDataList writes author, date, version and copyright as a
// definition list. Missing entries are left out.
func (p *Page) WriteHTMLMetaDataList(w io.Writer, ctx *content.WriteContext) error {
	o := &writer{w: w}
	o.line(ctx, "<dl>")
	ctx.Indent()
	for _, m := range metaData {
		b := p.unit.FirstBlock(m.typ)
		if b == nil {
			continue
		}
		o.line(ctx, fmt.Sprintf("<dt class=\"%s\">%s</dt>", m.class, ctx.Label(m.label)))
		o.line(ctx, "<dd>")
		ctx.Indent()
		if o.err == nil {
			o.err = b.RenderHTML(w, ctx)
		}
		ctx.Dedent()
		o.line(ctx, "</dd>")
	}
	ctx.Dedent()
	o.line(ctx, "</dl>")
	return o.err
}

// ClearTextBrief returns the text of the rendered @brief block without
// markup.
func (p *Page) ClearTextBrief(ctx *content.WriteContext) string {
	var sb strings.Builder
	if err := p.unit.RenderTagBlockHTML(&sb, ctx, content.TagBrief); err != nil {
		return ""
	}
	return ClearText(sb.String())
}

// ClearTextContent returns the page text without markup for search. Flowing
// text comes first, then the remaining blocks. The brief is left out.
func (p *Page) ClearTextContent(ctx *content.WriteContext) string {
	var sb strings.Builder
	blocks := p.unit.Blocks()
	rest := make([]*content.Block, 0, len(blocks))
	for _, b := range blocks {
		switch {
		case b.Type() == content.TagBrief:
		case b.Type() == content.TagInternal && !ctx.ShowInternal:
		case content.FlowingText(b.Type()):
			if err := b.RenderHTML(&sb, ctx); err != nil {
				return ""
			}
		default:
			rest = append(rest, b)
		}
	}
	for _, b := range rest {
		if err := b.RenderHTML(&sb, ctx); err != nil {
			return ""
		}
	}
	return ClearText(sb.String())
}

// WriteHTMLTableOfContents writes the group tree as nested div containers
// with one list per page type. The entry of current is marked active.
func (d *Documentation) WriteHTMLTableOfContents(w io.Writer, ctx *content.WriteContext, current *Page) error {
	o := &writer{w: w}
	d.writeTOCGroup(o, ctx, d.Groups(), current)
	return o.err
}

func (d *Documentation) writeTOCGroup(o *writer, ctx *content.WriteContext, g *Group, current *Page) {
	o.line(ctx, "<div>")
	ctx.Indent()
	if g.Name != "" {
		// h6 is kept for page type headings
		lvl := g.Level + 1
		if lvl > 5 {
			lvl = 5
		}
		o.line(ctx, fmt.Sprintf("<h%d>%s</h%d>", lvl, html.EscapeString(g.Name), lvl))
	}
	for _, id := range g.TypeIDs() {
		d.writeTOCPages(o, ctx, g.PagesOf(id), current)
	}
	for _, c := range g.Children {
		d.writeTOCGroup(o, ctx, c, current)
	}
	ctx.Dedent()
	o.line(ctx, "</div>")
}

func (d *Documentation) writeTOCPages(o *writer, ctx *content.WriteContext, pages []*Page, current *Page) {
	if len(pages) == 0 {
		return
	}
	if id := pages[0].typeID; id != "page" && id != "mainpage" {
		o.line(ctx, "<h6>"+html.EscapeString(CapPluralForm(pages[0].typeLabel))+"</h6>")
	}
	o.line(ctx, "<ul>")
	ctx.Indent()
	for _, p := range pages {
		var li strings.Builder
		li.WriteString("<li")
		if brief := p.ClearTextBrief(ctx); brief != "" {
			li.WriteString(` title="` + content.HTMLAttrEscape(brief) + `"`)
		}
		if p == current {
			li.WriteString(` class="activepage"`)
		}
		li.WriteString(">")
		title := html.EscapeString(p.Title())
		if ref, ok := ctx.Refs.Lookup(p.ident); ok {
			li.WriteString(`<a href="` + ref.Link + `">` + title + "</a>")
		} else {
			li.WriteString(title)
		}
		li.WriteString("</li>")
		o.line(ctx, li.String())
	}
	ctx.Dedent()
	o.line(ctx, "</ul>")
}

// PaginationURL returns the link of the page before (step < 0) or after p in
// reading order, or "" when it has no reference.
func (d *Documentation) PaginationURL(ctx *content.WriteContext, p *Page, step int) string {
	var q *Page
	if step < 0 {
		q = d.Prev(p)
	} else {
		q = d.Next(p)
	}
	if q == nil {
		return ""
	}
	if ref, ok := ctx.Refs.Lookup(q.ident); ok {
		return ref.Link
	}
	return ""
}
