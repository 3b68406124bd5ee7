package content

import (
	"io"
	"sort"
	"strings"
)

// RenderHTML writes every block in order.
func (u *Unit) RenderHTML(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	for _, b := range u.blocks {
		b.renderTyped(o, ctx, FormatHTML)
	}
	return o.err
}

// RenderLaTeX writes every block in order.
func (u *Unit) RenderLaTeX(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	for _, b := range u.blocks {
		b.renderTyped(o, ctx, FormatLaTeX)
	}
	return o.err
}

// RenderTagBlockHTML writes the first block of type t, if any.
func (u *Unit) RenderTagBlockHTML(w io.Writer, ctx *WriteContext, t TagType) error {
	return u.renderFirst(w, ctx, FormatHTML, u.FirstBlock(t))
}

// RenderTagBlockLaTeX writes the first block of type t, if any.
func (u *Unit) RenderTagBlockLaTeX(w io.Writer, ctx *WriteContext, t TagType) error {
	return u.renderFirst(w, ctx, FormatLaTeX, u.FirstBlock(t))
}

// RenderTagBlockByIdent writes the block of type t whose first word is ident,
// without that word.
func (u *Unit) RenderTagBlockByIdent(w io.Writer, ctx *WriteContext, f Format, t TagType, ident string) error {
	b := u.BlockByIdent(t, ident)
	if b == nil {
		return nil
	}
	return b.Render(w, ctx, f, PartAllButFirstWord)
}

func (u *Unit) renderFirst(w io.Writer, ctx *WriteContext, f Format, b *Block) error {
	if b == nil {
		return nil
	}
	return b.Render(w, ctx, f, PartAll)
}

type listWrap struct {
	htmlOpen, htmlClose   string
	latexOpen, latexClose string
}

var listWraps = map[TagType]listWrap{
	TagAttribute: {`<dl class="attributes">`, "</dl>", "\\begin{description}", "\\end{description}"},
	TagParam:     {`<dl class="params">`, "</dl>", "\\begin{description}", "\\end{description}"},
	TagSee:       {`<ul class="see">`, "</ul>", "\\begin{itemize}", "\\end{itemize}"},
	TagSignature: {`<ul class="signatures">`, "</ul>", "\\begin{itemize}", "\\end{itemize}"},
}

// RenderTagBlockListHTML writes all blocks of type t as one list.
func (u *Unit) RenderTagBlockListHTML(w io.Writer, ctx *WriteContext, t TagType) error {
	o := newOut(w)
	u.renderList(o, ctx, FormatHTML, t)
	return o.err
}

// RenderTagBlockListLaTeX writes all blocks of type t as one list.
func (u *Unit) RenderTagBlockListLaTeX(w io.Writer, ctx *WriteContext, t TagType) error {
	o := newOut(w)
	u.renderList(o, ctx, FormatLaTeX, t)
	return o.err
}

func (u *Unit) renderList(o *out, ctx *WriteContext, f Format, t TagType) {
	blocks := u.BlocksOf(t)
	if len(blocks) == 0 {
		return
	}
	if t == TagFeature {
		renderFeatures(o, ctx, f, blocks)
		return
	}
	wrap, ok := listWraps[t]
	if !ok {
		for _, b := range blocks {
			b.renderTyped(o, ctx, f)
		}
		return
	}
	open, closing := wrap.htmlOpen, wrap.htmlClose
	if f == FormatLaTeX {
		open, closing = wrap.latexOpen, wrap.latexClose
	}
	o.tagLine(ctx, open)
	ctx.Indent()
	for _, b := range blocks {
		b.renderTyped(o, ctx, f)
	}
	ctx.Dedent()
	o.tagLine(ctx, closing)
}

// FeatureGroup is a run of feature blocks sharing a group name.
type FeatureGroup struct {
	Name   string
	Blocks []*Block
}

// GroupFeatures groups feature blocks by their leading word or quote. Groups
// are sorted alphanumerically; blocks keep their order inside a group.
func GroupFeatures(blocks []*Block) []FeatureGroup {
	var groups []FeatureGroup
	index := make(map[string]int)
	for _, b := range blocks {
		name := b.PlainFirstWordOrQuote()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, FeatureGroup{Name: name})
		}
		groups[i].Blocks = append(groups[i].Blocks, b)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return LessAlnum(groups[i].Name, groups[j].Name)
	})
	return groups
}

// LessAlnum orders strings case-insensitively, shorter prefixes first.
func LessAlnum(a, b string) bool {
	ua, ub := strings.ToUpper(a), strings.ToUpper(b)
	if ua != ub {
		return ua < ub
	}
	return a < b
}

func renderFeatures(o *out, ctx *WriteContext, f Format, blocks []*Block) {
	groups := GroupFeatures(blocks)
	if f == FormatLaTeX {
		for _, g := range groups {
			o.str("\\subsubsection*{" + ConvertHTMLToLaTeX(g.Name) + "}\n")
			for _, b := range g.Blocks {
				b.renderTyped(o, ctx, f)
			}
		}
		return
	}
	o.tagLine(ctx, `<div class="features">`)
	ctx.Indent()
	for _, g := range groups {
		o.tagLine(ctx, `<div class="feature-group">`)
		ctx.Indent()
		o.tagLine(ctx, "<h3>"+g.Name+"</h3>")
		for _, b := range g.Blocks {
			b.renderTyped(o, ctx, f)
		}
		ctx.Dedent()
		o.tagLine(ctx, "</div>")
	}
	ctx.Dedent()
	o.tagLine(ctx, "</div>")
}

// FlowingText reports block types rendered by RenderParagraphSectionDetails.
func FlowingText(t TagType) bool {
	switch t {
	case TagParagraph, TagDetails, TagSection, TagSubsection, TagSubsubsection,
		TagExample, TagImage, TagInternal, TagNote, TagOutput, TagRemark:
		return true
	}
	return false
}

var headings = map[TagType]struct{ class, html, latex string }{
	TagSection:       {"section", "h2", "\\subsection"},
	TagSubsection:    {"subsection", "h3", "\\subsubsection"},
	TagSubsubsection: {"subsubsection", "h4", "\\paragraph"},
}

var framed = map[TagType]struct{ class, label string }{
	TagNote:     {"note", "Note"},
	TagRemark:   {"remark", "Remark"},
	TagInternal: {"internal", "Internal"},
	TagExample:  {"example", "Example"},
	TagOutput:   {"output", "Output"},
}

// RenderParagraphSectionDetailsHTML writes the flowing text of the unit:
// paragraphs, sections, details and the framed blocks, in input order.
func (u *Unit) RenderParagraphSectionDetailsHTML(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	inDetails := false
	closeDetails := func() {
		if inDetails {
			ctx.Dedent()
			o.tagLine(ctx, "</div>")
			inDetails = false
		}
	}

	for _, b := range u.blocks {
		switch b.typ {
		case TagParagraph:
			b.renderPart(o, ctx, FormatHTML, PartAll)

		case TagDetails:
			if !inDetails {
				o.tagLine(ctx, `<div class="details">`)
				ctx.Indent()
				o.tagLine(ctx, "<h2>"+ctx.Label("Details")+"</h2>")
				inDetails = true
			}
			b.renderPart(o, ctx, FormatHTML, PartAll)

		case TagSection, TagSubsection, TagSubsubsection:
			if b.typ == TagSection {
				closeDetails()
			}
			h := headings[b.typ]
			o.tagLine(ctx, `<div id="`+MakeIdentifier(b.PlainFirstWord())+`" class="`+h.class+`">`)
			ctx.Indent()
			o.indent(ctx)
			o.str("<" + h.html + ">")
			b.renderPart(o, ctx, FormatHTML, PartTitleLineButFirstWord)
			o.str("</" + h.html + ">\n")
			b.renderPart(o, ctx, FormatHTML, PartAllButTitleLine)
			ctx.Dedent()
			o.tagLine(ctx, "</div>")

		case TagExample, TagOutput:
			fr := framed[b.typ]
			o.tagLine(ctx, `<div class="`+fr.class+`">`)
			ctx.Indent()
			o.tagLine(ctx, "<h4>"+ctx.Label(fr.label)+"</h4>")
			o.indent(ctx)
			o.str(`<pre class="` + fr.class + `">`)
			b.renderPart(o, ctx, FormatHTML, PartAll)
			o.str("</pre>\n")
			ctx.Dedent()
			o.tagLine(ctx, "</div>")

		case TagImage:
			o.tagLine(ctx, `<figure class="image">`)
			ctx.Indent()
			o.tagLine(ctx, `<img src="`+b.PlainFirstWord()+`" alt="`+HTMLAttrEscape(b.PlainTitleLineButFirstWord())+`">`)
			o.indent(ctx)
			o.str("<figcaption>")
			b.renderPart(o, ctx, FormatHTML, PartTitleLineButFirstWord)
			o.str("</figcaption>\n")
			ctx.Dedent()
			o.tagLine(ctx, "</figure>")

		case TagInternal, TagNote, TagRemark:
			if b.typ == TagInternal && !ctx.ShowInternal {
				continue
			}
			fr := framed[b.typ]
			o.tagLine(ctx, `<div class="`+fr.class+`">`)
			ctx.Indent()
			o.tagLine(ctx, "<h4>"+ctx.Label(fr.label)+"</h4>")
			b.renderPart(o, ctx, FormatHTML, PartAll)
			ctx.Dedent()
			o.tagLine(ctx, "</div>")
		}
	}
	closeDetails()
	return o.err
}

// RenderParagraphSectionDetailsLaTeX is the LaTeX counterpart of
// RenderParagraphSectionDetailsHTML.
func (u *Unit) RenderParagraphSectionDetailsLaTeX(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	inDetails := false

	for _, b := range u.blocks {
		switch b.typ {
		case TagParagraph:
			b.renderPart(o, ctx, FormatLaTeX, PartAll)

		case TagDetails:
			if !inDetails {
				o.str("\\subsection{" + ctx.Label("Details") + "}%\n\n")
				inDetails = true
			}
			b.renderPart(o, ctx, FormatLaTeX, PartAll)
			o.str("\n\n")

		case TagSection, TagSubsection, TagSubsubsection:
			if b.typ == TagSection {
				inDetails = false
			}
			o.str(headings[b.typ].latex + "{")
			b.renderPart(o, ctx, FormatLaTeX, PartTitleLineButFirstWord)
			o.str("}%\n\\label{" + MakeIdentifier(b.PlainFirstWord()) + "}%\n\n")
			b.renderPart(o, ctx, FormatLaTeX, PartAllButTitleLine)
			o.str("\n\n")

		case TagExample, TagOutput:
			o.str("\\verbatimtitle{" + ctx.Label(framed[b.typ].label) + "}\n")
			o.str("\\begin{lstlisting}\n")
			o.str(b.PlainText())
			o.str("\n\\end{lstlisting}\n")

		case TagImage:
			o.str("\\begin{minipage}{\\textwidth}\n")
			o.str("  \\begin{center}\n")
			o.str("    \\includegraphics[width=\\maxwidth{\\textwidth}]{" + b.PlainFirstWord() + "}\\\\\n")
			o.str("    {")
			b.renderPart(o, ctx, FormatLaTeX, PartTitleLineButFirstWord)
			o.str("}\n")
			o.str("  \\end{center}\n")
			o.str("\\end{minipage}\n\n")

		case TagInternal, TagNote, TagRemark:
			if b.typ == TagInternal && !ctx.ShowInternal {
				continue
			}
			env := framed[b.typ].class
			o.str("\\begin{" + env + "}\n")
			b.renderPart(o, ctx, FormatLaTeX, PartAll)
			o.str("\\end{" + env + "}\n\n")
		}
	}
	return o.err
}

// HTMLAttrEscape escapes s for a double quoted attribute value.
func HTMLAttrEscape(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}
