package content

import (
	"io"
	"strings"
)

// Part selects which portion of a block is rendered.
type Part int

const (
	PartAll Part = iota
	PartFirstWord
	PartAllButFirstWord
	PartTitleLine
	PartTitleLineButFirstWord
	PartTitleLineButFirstWordOrQuote
	PartAllButTitleLine
)

// RenderHTML writes the block as HTML. Attribute, feature, param, see and
// signature blocks get their list item markup.
func (b *Block) RenderHTML(w io.Writer, ctx *WriteContext) error {
	return b.Render(w, ctx, FormatHTML, PartAll)
}

// RenderLaTeX writes the block as LaTeX.
func (b *Block) RenderLaTeX(w io.Writer, ctx *WriteContext) error {
	return b.Render(w, ctx, FormatLaTeX, PartAll)
}

// Render writes the selected part of the block in format f. Only PartAll
// applies the type-specific wrapping.
func (b *Block) Render(w io.Writer, ctx *WriteContext, f Format, p Part) error {
	o := newOut(w)
	if p == PartAll {
		b.renderTyped(o, ctx, f)
	} else {
		b.renderPart(o, ctx, f, p)
	}
	return o.err
}

func (b *Block) renderPart(o *out, ctx *WriteContext, f Format, p Part) {
	end := b.titleEnd()
	switch p {
	case PartAll:
		b.renderRange(o, ctx, f, 0, len(b.chunks))
	case PartFirstWord:
		for i := range b.chunks {
			if b.chunks[i].partial(o, ctx, f, FirstWord) {
				return
			}
		}
	case PartAllButFirstWord:
		b.renderRest(o, ctx, f, AllButFirstWord, len(b.chunks))
	case PartTitleLine:
		b.renderRange(o, ctx, f, 0, end)
	case PartTitleLineButFirstWord:
		b.renderRest(o, ctx, f, AllButFirstWord, end)
	case PartTitleLineButFirstWordOrQuote:
		b.renderRest(o, ctx, f, AllButFirstWordOrQuote, end)
	case PartAllButTitleLine:
		if end < len(b.chunks) {
			b.renderRange(o, ctx, f, end+1, len(b.chunks))
		}
	}
}

// renderRange renders chunks [from, to) with the cursor kept current.
func (b *Block) renderRange(o *out, ctx *WriteContext, f Format, from, to int) {
	prevBlock, prevCursor := ctx.block, ctx.cursor
	ctx.block = b
	for i := from; i < to; i++ {
		ctx.cursor = i
		b.chunks[i].render(o, ctx, f)
	}
	ctx.block, ctx.cursor = prevBlock, prevCursor
}

// renderRest renders chunks before end, skipping the leading word that
// split cuts off the first text chunk holding one. Structural chunks in
// front of that word are rendered in full so scopes stay balanced.
func (b *Block) renderRest(o *out, ctx *WriteContext, f Format, split func(string) (string, bool), end int) {
	prevBlock, prevCursor := ctx.block, ctx.cursor
	ctx.block = b
	i := 0
	for ; i < end; i++ {
		ctx.cursor = i
		c := &b.chunks[i]
		if !c.typ.IsText() {
			c.render(o, ctx, f)
			continue
		}
		if c.partial(o, ctx, f, split) {
			i++
			break
		}
	}
	ctx.block, ctx.cursor = prevBlock, prevCursor
	b.renderRange(o, ctx, f, i, end)
}

func (b *Block) renderTyped(o *out, ctx *WriteContext, f Format) {
	if f == FormatHTML {
		b.renderTypedHTML(o, ctx)
	} else {
		b.renderTypedLaTeX(o, ctx)
	}
}

func (b *Block) renderTypedHTML(o *out, ctx *WriteContext) {
	switch b.typ {
	case TagAttribute, TagParam:
		o.indent(ctx)
		o.str(`<dt class="` + b.typ.String() + `">`)
		b.renderPart(o, ctx, FormatHTML, PartFirstWord)
		o.str("</dt>\n")
		o.tagLine(ctx, "<dd>")
		ctx.Indent()
		b.renderPart(o, ctx, FormatHTML, PartAllButFirstWord)
		ctx.Dedent()
		o.tagLine(ctx, "</dd>")
	case TagSee:
		o.indent(ctx)
		o.str("<li>")
		b.renderSeeTarget(o, ctx, FormatHTML)
		if strings.TrimSpace(b.PlainAllButFirstWord()) != "" {
			o.str(" ")
			b.renderFlat(o, ctx, FormatHTML, PartAllButFirstWord)
		}
		o.str("</li>\n")
	case TagSignature:
		o.indent(ctx)
		o.str(`<li class="signature">`)
		b.renderFlat(o, ctx, FormatHTML, PartAll)
		o.str("</li>\n")
	case TagFeature:
		o.tagLine(ctx, `<div class="feature">`)
		ctx.Indent()
		o.indent(ctx)
		o.str("<h4>")
		b.renderPart(o, ctx, FormatHTML, PartTitleLineButFirstWordOrQuote)
		o.str("</h4>\n")
		b.renderPart(o, ctx, FormatHTML, PartAllButTitleLine)
		ctx.Dedent()
		o.tagLine(ctx, "</div>")
	default:
		b.renderPart(o, ctx, FormatHTML, PartAll)
	}
}

func (b *Block) renderTypedLaTeX(o *out, ctx *WriteContext) {
	switch b.typ {
	case TagAttribute, TagParam:
		o.indent(ctx)
		o.str("\\item[")
		b.renderPart(o, ctx, FormatLaTeX, PartFirstWord)
		o.str("] ")
		b.renderPart(o, ctx, FormatLaTeX, PartAllButFirstWord)
		o.str("\n")
	case TagSee:
		o.indent(ctx)
		o.str("\\item ")
		b.renderSeeTarget(o, ctx, FormatLaTeX)
		if strings.TrimSpace(b.PlainAllButFirstWord()) != "" {
			o.str(" ")
			b.renderFlat(o, ctx, FormatLaTeX, PartAllButFirstWord)
		}
		o.str("\n")
	case TagSignature:
		o.indent(ctx)
		o.str("\\item ")
		b.renderFlat(o, ctx, FormatLaTeX, PartAll)
		o.str("\n")
	case TagFeature:
		o.str("\\paragraph{")
		b.renderPart(o, ctx, FormatLaTeX, PartTitleLineButFirstWordOrQuote)
		o.str("}\n")
		b.renderPart(o, ctx, FormatLaTeX, PartAllButTitleLine)
		o.str("\n")
	default:
		b.renderPart(o, ctx, FormatLaTeX, PartAll)
	}
}

// renderFlat renders a part without paragraph markup, for list items.
func (b *Block) renderFlat(o *out, ctx *WriteContext, f Format, p Part) {
	ctx.flat++
	b.renderPart(o, ctx, f, p)
	ctx.flat--
}

// renderSeeTarget writes the first word of a see block as a reference.
func (b *Block) renderSeeTarget(o *out, ctx *WriteContext, f Format) {
	word := b.PlainFirstWord()
	ident := MakeIdentifier(word)
	ref, ok := ctx.lookup(ident)
	switch {
	case ok && f == FormatHTML:
		o.str(`<a href="` + ref.Link + `">` + ref.Text + "</a>")
	case ok:
		o.str("\\hyperref[" + ident + "]{" + ConvertHTMLToLaTeX(ref.Text) + "}")
	default:
		b.renderPart(o, ctx, f, PartFirstWord)
	}
}
