package content

import (
	"io"
	"strings"

	"escrido/internal/reftable"
)

// WriteContext carries the state threaded through one render pass. It is
// mutated while rendering (indent depth, cursor) and must not be shared by
// concurrent renders. The reference table is only read.
type WriteContext struct {
	Refs         *reftable.Table
	ShowInternal bool
	Labels       map[string]string

	// Margin is written in front of every indented line. It carries the
	// column of a template placeholder into the rendered text.
	Margin string

	indent int
	// dedents that found the depth at zero
	underflow int

	// render cursor, set by the block loop before each chunk
	block  *Block
	cursor int

	verbatim int
	flat     int
}

// NewWriteContext returns a context resolving references against refs.
func NewWriteContext(refs *reftable.Table) *WriteContext {
	if refs == nil {
		refs = reftable.New()
	}
	return &WriteContext{Refs: refs}
}

// Indent increases the indent depth by one level.
func (c *WriteContext) Indent() { c.indent++ }

// Dedent decreases the indent depth by one level. The depth stays at zero
// when it is there already; the unmatched call is counted.
func (c *WriteContext) Dedent() {
	if c.indent == 0 {
		c.underflow++
		return
	}
	c.indent--
}

// Depth returns the current indent depth.
func (c *WriteContext) Depth() int { return c.indent }

// Label returns the configured replacement for a fixed output label.
func (c *WriteContext) Label(s string) string {
	if l, ok := c.Labels[s]; ok {
		return l
	}
	return s
}

func (c *WriteContext) lookup(ident string) (reftable.Ref, bool) {
	if c.Refs == nil {
		return reftable.Ref{}, false
	}
	return c.Refs.Lookup(ident)
}

// siblings returns the chunks following the one being rendered.
func (c *WriteContext) siblings() []Chunk {
	if c.block == nil || c.cursor+1 >= len(c.block.chunks) {
		return nil
	}
	return c.block.chunks[c.cursor+1:]
}

// out is a writer that remembers the first error and drops everything after.
type out struct {
	w   io.Writer
	err error

	// indentation deferred until the next text is written
	pending string
}

func newOut(w io.Writer) *out {
	if o, ok := w.(*out); ok {
		return o
	}
	return &out{w: w}
}

func (o *out) Write(p []byte) (int, error) {
	if o.err != nil {
		return 0, o.err
	}
	o.flush()
	if o.err != nil {
		return 0, o.err
	}
	n, err := o.w.Write(p)
	o.err = err
	return n, err
}

func (o *out) str(s string) {
	if o.err != nil || s == "" {
		return
	}
	o.flush()
	if o.err == nil {
		_, o.err = io.WriteString(o.w, s)
	}
}

func (o *out) flush() {
	if o.pending == "" {
		return
	}
	p := o.pending
	o.pending = ""
	_, o.err = io.WriteString(o.w, p)
}

func (o *out) indent(ctx *WriteContext) {
	o.pending = ""
	o.str(ctx.Margin + strings.Repeat("  ", ctx.indent))
}

// lazyIndent indents the next text. A structure written first brings its
// own indentation instead.
func (o *out) lazyIndent(ctx *WriteContext) {
	o.pending = ctx.Margin + strings.Repeat("  ", ctx.indent)
}

// tagLine writes an indented HTML tag followed by a newline.
func (o *out) tagLine(ctx *WriteContext, tag string) {
	o.indent(ctx)
	o.str(tag)
	o.str("\n")
}
