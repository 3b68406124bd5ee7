package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLEscape(t *testing.T) {
	assert.Equal(t, "a&lt;b&nbsp;&amp;&nbsp;c", HTMLEscape("a<b & c"))
	assert.Equal(t, "plain", HTMLEscape("plain"))
}

func TestLaTeXEscape(t *testing.T) {
	assert.Equal(t, `50\% of \$x\_1`, LaTeXEscape("50% of $x_1"))
	assert.Equal(t, `{[}a{]} {\textbar}`, LaTeXEscape("[a] |"))
}

func TestConvertHTMLToLaTeX(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<b>bold</b> &amp; more", `\textbf{bold} \& more`},
		{"written in LaTeX", `written in {\LaTeX}`},
		{"a--b", "a-{}-b"},
		{"x_1 <em>y</em>", `x\_1 \textit{y}`},
		{"&lt;tag&gt;", `{\textless}tag{\textgreater}`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertHTMLToLaTeX(tt.in))
		})
	}
}

func TestWordSplitting(t *testing.T) {
	w, ok := FirstWord("  foo bar")
	assert.True(t, ok)
	assert.Equal(t, "foo", w)

	w, ok = FirstWord("   ")
	assert.False(t, ok)
	assert.Empty(t, w)

	rest, ok := AllButFirstWord("foo  bar baz")
	assert.True(t, ok)
	assert.Equal(t, "bar baz", rest)

	rest, ok = AllButFirstWord("foo")
	assert.True(t, ok)
	assert.Empty(t, rest)

	w, _ = FirstWordOrQuote(`"My Group" title`)
	assert.Equal(t, "My Group", w)
	rest, _ = AllButFirstWordOrQuote(`"My Group" title`)
	assert.Equal(t, "title", rest)

	w, _ = FirstWordOrQuote("plain title")
	assert.Equal(t, "plain", w)

	assert.Equal(t, "one", FirstLine("one\ntwo"))
}

func TestMakeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"foo_1 bar", "foo_1"},
		{"1abc", "abc"},
		{"_x9", "x9"},
		{"a-b.c", "abc"},
		{"", "no-identifier"},
		{"123", "no-identifier"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeIdentifier(tt.in), "input %q", tt.in)
	}
}

func TestWriteContext_Dedent(t *testing.T) {
	ctx := NewWriteContext(nil)
	ctx.Indent()
	ctx.Dedent()
	assert.Zero(t, ctx.Depth())
	assert.Zero(t, ctx.underflow)

	ctx.Dedent()
	assert.Zero(t, ctx.Depth(), "depth never goes negative")
	assert.Equal(t, 1, ctx.underflow)
}

func TestOut_LazyIndent(t *testing.T) {
	ctx := NewWriteContext(nil)
	ctx.Margin = "\t"
	ctx.Indent()

	var sb strings.Builder
	o := newOut(&sb)
	o.lazyIndent(ctx)
	o.tagLine(ctx, "<ul>")
	o.lazyIndent(ctx)
	o.str("text")
	assert.Equal(t, "\t  <ul>\n\t  text", sb.String())
}
