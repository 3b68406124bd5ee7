package content

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format selects the output notation.
type Format int

const (
	FormatHTML Format = iota
	FormatLaTeX
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatLaTeX:
		return "latex"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// RenderHTML writes the HTML fragment of the chunk.
func (c *Chunk) RenderHTML(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	c.render(o, ctx, FormatHTML)
	return o.err
}

// RenderLaTeX writes the LaTeX fragment of the chunk.
func (c *Chunk) RenderLaTeX(w io.Writer, ctx *WriteContext) error {
	o := newOut(w)
	c.render(o, ctx, FormatLaTeX)
	return o.err
}

// RenderFirstWordHTML writes the first word of a text chunk and reports
// whether there was one. Structural chunks never write.
func (c *Chunk) RenderFirstWordHTML(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatHTML, FirstWord), o.err
}

func (c *Chunk) RenderFirstWordLaTeX(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatLaTeX, FirstWord), o.err
}

func (c *Chunk) RenderAllButFirstWordHTML(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatHTML, AllButFirstWord), o.err
}

func (c *Chunk) RenderAllButFirstWordLaTeX(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatLaTeX, AllButFirstWord), o.err
}

func (c *Chunk) RenderAllButFirstWordOrQuoteHTML(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatHTML, AllButFirstWordOrQuote), o.err
}

func (c *Chunk) RenderAllButFirstWordOrQuoteLaTeX(w io.Writer, ctx *WriteContext) (bool, error) {
	o := newOut(w)
	return c.partial(o, ctx, FormatLaTeX, AllButFirstWordOrQuote), o.err
}

// partial writes the part of a text chunk selected by split.
func (c *Chunk) partial(o *out, ctx *WriteContext, f Format, split func(string) (string, bool)) bool {
	if !c.typ.IsText() {
		return false
	}
	s, ok := split(string(c.text))
	if ok {
		o.str(c.escape(ctx, f, s))
	}
	return ok
}

// escape converts chunk text into the target notation.
func (c *Chunk) escape(ctx *WriteContext, f Format, s string) string {
	switch {
	case c.typ == ChunkHTMLText && f == FormatHTML:
		return s
	case c.typ == ChunkHTMLText:
		return ConvertHTMLToLaTeX(s)
	case f == FormatHTML:
		return HTMLEscape(s)
	case ctx.verbatim > 0:
		return s
	default:
		return LaTeXEscape(s)
	}
}

func (c *Chunk) render(o *out, ctx *WriteContext, f Format) {
	if f == FormatHTML {
		c.renderHTML(o, ctx)
	} else {
		c.renderLaTeX(o, ctx)
	}
}

func (c *Chunk) renderHTML(o *out, ctx *WriteContext) {
	switch c.typ {
	case ChunkUndefined, ChunkTitleDelim:
	case ChunkHTMLText, ChunkPlainText:
		o.str(c.escape(ctx, FormatHTML, string(c.text)))
	case ChunkNewLine:
		o.str("<br>")

	case ChunkStartParagraph:
		if ctx.flat > 0 {
			break
		}
		o.indent(ctx)
		o.str("<p>")
		ctx.Indent()
	case ChunkEndParagraph:
		if ctx.flat > 0 {
			break
		}
		o.str("</p>\n")
		ctx.Dedent()

	case ChunkStartTable:
		o.tagLine(ctx, "<table>")
		ctx.Indent()
		o.tagLine(ctx, "<tr>")
		ctx.Indent()
		o.tagLine(ctx, "<td>")
		ctx.Indent()
		o.lazyIndent(ctx)
	case ChunkEndTable:
		o.str("\n")
		ctx.Dedent()
		o.tagLine(ctx, "</td>")
		ctx.Dedent()
		o.tagLine(ctx, "</tr>")
		ctx.Dedent()
		o.tagLine(ctx, "</table>")
	case ChunkNewTableCell:
		o.str("\n")
		ctx.Dedent()
		o.tagLine(ctx, "</td>")
		o.tagLine(ctx, "<td>")
		ctx.Indent()
		o.lazyIndent(ctx)
	case ChunkNewTableRow:
		o.str("\n")
		ctx.Dedent()
		o.tagLine(ctx, "</td>")
		ctx.Dedent()
		o.tagLine(ctx, "</tr>")
		o.tagLine(ctx, "<tr>")
		ctx.Indent()
		o.tagLine(ctx, "<td>")
		ctx.Indent()
		o.lazyIndent(ctx)

	case ChunkStartUL:
		o.tagLine(ctx, "<ul>")
		ctx.Indent()
		o.indent(ctx)
		o.str("<li>")
		ctx.Indent()
	case ChunkEndUL:
		o.str("</li>\n")
		ctx.Dedent()
		ctx.Dedent()
		o.tagLine(ctx, "</ul>")
	case ChunkULItem:
		o.str("</li>\n")
		ctx.Dedent()
		o.indent(ctx)
		o.str("<li>")
		ctx.Indent()

	case ChunkRef:
		ident := MakeIdentifier(c.PlainFirstWord())
		override := c.PlainAllButFirstWord()
		if ref, ok := ctx.lookup(ident); ok {
			o.str(`<a href="` + ref.Link + `">`)
			o.str(firstNonEmpty(override, ref.Text))
			o.str("</a>")
		} else {
			o.str(firstNonEmpty(override, string(c.text)))
		}
	case ChunkLink:
		url := c.PlainFirstWord()
		o.str(`<a href="` + url + `" target="_blank">`)
		o.str(firstNonEmpty(c.PlainAllButFirstWord(), url))
		o.str("</a>")

	case ChunkStartCode:
		o.str(`<span class="code">`)
	case ChunkEndCode:
		o.str("</span>")

	case ChunkStartVerbatim:
		o.str(`<pre class="verbatim">`)
		ctx.verbatim++
	case ChunkEndVerbatim:
		o.str("</pre>\n")
		ctx.verbatim--

	default:
		panic(fmt.Sprintf("content: no HTML rendering for %v", c.typ))
	}
}

func (c *Chunk) renderLaTeX(o *out, ctx *WriteContext) {
	switch c.typ {
	case ChunkUndefined, ChunkTitleDelim, ChunkStartParagraph:
	case ChunkHTMLText, ChunkPlainText:
		o.str(c.escape(ctx, FormatLaTeX, string(c.text)))
	case ChunkNewLine:
		o.str("\n")
	case ChunkEndParagraph:
		if ctx.flat == 0 {
			o.str("\n\n")
		}

	case ChunkStartTable:
		cols := tableColumns(ctx.siblings())
		o.indent(ctx)
		o.str("\\noindent\\parbox{\\textwidth}{%\n")
		ctx.Indent()
		o.indent(ctx)
		o.str("\\tymin=" + strconv.FormatFloat(1/float64(cols+1), 'g', 6, 64) + "\\textwidth%\n")
		o.indent(ctx)
		o.str("\\centering%\n")
		o.indent(ctx)
		o.str("\\begin{tabulary}{\\textwidth}{" + strings.Repeat("L", cols) + "}\n")
		ctx.Indent()
	case ChunkEndTable:
		o.str("\n")
		ctx.Dedent()
		o.indent(ctx)
		o.str("\\end{tabulary}\n")
		ctx.Dedent()
		o.indent(ctx)
		o.str("}\n")
	case ChunkNewTableCell:
		o.str(" & ")
	case ChunkNewTableRow:
		o.str(" \\\\\n")

	case ChunkStartUL:
		o.indent(ctx)
		o.str("\\noindent\\parbox{\\textwidth}{%\n")
		ctx.Indent()
		o.indent(ctx)
		o.str("\\begin{itemize}\n")
		ctx.Indent()
		o.indent(ctx)
		o.str("\\item ")
	case ChunkEndUL:
		o.str("\n")
		ctx.Dedent()
		o.indent(ctx)
		o.str("\\end{itemize}\n")
		ctx.Dedent()
		o.indent(ctx)
		o.str("}\n")
	case ChunkULItem:
		o.str("\n")
		o.indent(ctx)
		o.str("\\item ")

	case ChunkRef:
		ident := MakeIdentifier(c.PlainFirstWord())
		override := c.PlainAllButFirstWord()
		if ref, ok := ctx.lookup(ident); ok {
			o.str("\\hyperref[" + ident + "]{" + ConvertHTMLToLaTeX(firstNonEmpty(override, ref.Text)) + "}")
		} else {
			o.str(ConvertHTMLToLaTeX(firstNonEmpty(override, string(c.text))))
		}
	case ChunkLink:
		url := c.PlainFirstWord()
		if caption := c.PlainAllButFirstWord(); caption != "" {
			o.str(ConvertHTMLToLaTeX(caption) + " (\\url{" + url + "})")
		} else {
			o.str("\\url{" + url + "}")
		}

	case ChunkStartCode:
		o.str("\\code{")
	case ChunkEndCode:
		o.str("}")

	case ChunkStartVerbatim:
		o.str("\n\\begin{verbatim}\n")
		ctx.verbatim++
	case ChunkEndVerbatim:
		o.str("\n\\end{verbatim}\n")
		ctx.verbatim--

	default:
		panic(fmt.Sprintf("content: no LaTeX rendering for %v", c.typ))
	}
}

// tableColumns returns the widest row of the table whose content starts
// with rest. Nested tables do not count.
func tableColumns(rest []Chunk) int {
	widest, cols, depth := 0, 1, 0
	for i := range rest {
		switch rest[i].typ {
		case ChunkStartTable:
			depth++
		case ChunkEndTable:
			if depth == 0 {
				return max(widest, cols)
			}
			depth--
		case ChunkNewTableRow:
			if depth == 0 {
				widest = max(widest, cols)
				cols = 1
			}
		case ChunkNewTableCell:
			if depth == 0 {
				cols++
			}
		}
	}
	return max(widest, cols)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
