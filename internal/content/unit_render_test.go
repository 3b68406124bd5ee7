package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func psdHTML(t *testing.T, u *Unit, ctx *WriteContext) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, u.RenderParagraphSectionDetailsHTML(&sb, ctx))
	requireBalancedHTML(t, sb.String())
	assert.Zero(t, ctx.Depth())
	return sb.String()
}

func psdLaTeX(t *testing.T, u *Unit, ctx *WriteContext) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, u.RenderParagraphSectionDetailsLaTeX(&sb, ctx))
	assert.Zero(t, ctx.Depth())
	return sb.String()
}

func TestRenderParagraphSectionDetailsHTML(t *testing.T) {
	t.Run("resolved reference", func(t *testing.T) {
		u := parse(UnitMultiLine, "Go to @ref foo now.")
		got := psdHTML(t, u, NewWriteContext(fooRefs()))
		assert.Equal(t, "<p>Go to <a href=\"page_foo.html\">Foo Title</a> now.</p>\n", got)
	})

	t.Run("unresolved reference with caption", func(t *testing.T) {
		u := parse(UnitMultiLine, `Go to @ref nope "bar" now.`)
		got := psdHTML(t, u, NewWriteContext(fooRefs()))
		assert.Equal(t, "<p>Go to bar now.</p>\n", got)
	})

	t.Run("section", func(t *testing.T) {
		u := parse(UnitMultiLine, "@section intro Introduction\nSome text here.")
		want := "<div id=\"intro\" class=\"section\">\n" +
			"  <h2>Introduction</h2>\n" +
			"  <p>Some text here.</p>\n" +
			"</div>\n"
		assert.Equal(t, want, psdHTML(t, u, NewWriteContext(nil)))
	})

	t.Run("details share one wrapper", func(t *testing.T) {
		u := parse(UnitMultiLine, "Intro.\n@details First.\n@details Second.\n@section s Title\nBody.")
		want := "<p>Intro.</p>\n" +
			"<div class=\"details\">\n" +
			"  <h2>Details</h2>\n" +
			"  <p>First.</p>\n" +
			"  <p>Second.</p>\n" +
			"</div>\n" +
			"<div id=\"s\" class=\"section\">\n" +
			"  <h2>Title</h2>\n" +
			"  <p>Body.</p>\n" +
			"</div>\n"
		assert.Equal(t, want, psdHTML(t, u, NewWriteContext(nil)))
	})

	t.Run("labels", func(t *testing.T) {
		u := parse(UnitMultiLine, "@details Text.")
		ctx := NewWriteContext(nil)
		ctx.Labels = map[string]string{"Details": "Einzelheiten"}
		assert.Contains(t, psdHTML(t, u, ctx), "<h2>Einzelheiten</h2>")
	})

	t.Run("example", func(t *testing.T) {
		u := parse(UnitMultiLine, "@example\nx := 1\n")
		want := "<div class=\"example\">\n" +
			"  <h4>Example</h4>\n" +
			"  <pre class=\"example\">x&nbsp;:=&nbsp;1</pre>\n" +
			"</div>\n"
		assert.Equal(t, want, psdHTML(t, u, NewWriteContext(nil)))
	})

	t.Run("internal only on request", func(t *testing.T) {
		u := parse(UnitMultiLine, "Visible.\n@internal Secret.")
		assert.Equal(t, "<p>Visible.</p>\n", psdHTML(t, u, NewWriteContext(nil)))

		ctx := NewWriteContext(nil)
		ctx.ShowInternal = true
		got := psdHTML(t, u, ctx)
		assert.Contains(t, got, `<div class="internal">`)
		assert.Contains(t, got, "Secret.")
	})

	t.Run("image", func(t *testing.T) {
		u := parse(UnitMultiLine, "@image pic.png A nice picture")
		got := psdHTML(t, u, NewWriteContext(nil))
		assert.Contains(t, got, `<img src="pic.png" alt="A nice picture">`)
		assert.Contains(t, got, "<figcaption>A nice picture</figcaption>")
	})

	t.Run("non flowing blocks are skipped", func(t *testing.T) {
		u := parse(UnitMultiLine, "@brief Short.\n@param x X.\nText.")
		assert.Empty(t, psdHTML(t, u, NewWriteContext(nil)))
	})
}

func TestRenderParagraphSectionDetailsLaTeX(t *testing.T) {
	u := parse(UnitMultiLine, "@section intro Introduction\nSome text here.")
	want := "\\subsection{Introduction}%\n\\label{intro}%\n\nSome text here.\n\n\n\n"
	assert.Equal(t, want, psdLaTeX(t, u, NewWriteContext(nil)))

	ex := parse(UnitMultiLine, "@example\na_b := 1")
	got := psdLaTeX(t, ex, NewWriteContext(nil))
	assert.Contains(t, got, "\\begin{lstlisting}\na_b := 1\n\\end{lstlisting}")
}

func TestRenderTable(t *testing.T) {
	u := parse(UnitMultiLine, "@table\na | b @lb c | d | e @endtable")

	var html strings.Builder
	ctx := NewWriteContext(nil)
	require.NoError(t, u.RenderHTML(&html, ctx))
	want := "<table>\n" +
		"  <tr>\n" +
		"    <td>\n" +
		"      a\n" +
		"    </td>\n" +
		"    <td>\n" +
		"      b\n" +
		"    </td>\n" +
		"  </tr>\n" +
		"  <tr>\n" +
		"    <td>\n" +
		"      c\n" +
		"    </td>\n" +
		"    <td>\n" +
		"      d\n" +
		"    </td>\n" +
		"    <td>\n" +
		"      e\n" +
		"    </td>\n" +
		"  </tr>\n" +
		"</table>\n"
	assert.Equal(t, want, html.String())
	assert.Zero(t, ctx.Depth())
	assert.Zero(t, ctx.underflow)

	var latex strings.Builder
	ctx = NewWriteContext(nil)
	require.NoError(t, u.RenderLaTeX(&latex, ctx))
	assert.Contains(t, latex.String(), "\\tymin=0.25\\textwidth%\n")
	assert.Contains(t, latex.String(), "\\begin{tabulary}{\\textwidth}{LLL}\n")
	assert.Contains(t, latex.String(), "a & b \\\\\nc & d & e\n")
	assert.Zero(t, ctx.Depth())
}

func TestRenderTable_ListInCell(t *testing.T) {
	u := parse(UnitMultiLine, "@table\n- a | b @endtable")

	var html strings.Builder
	ctx := NewWriteContext(nil)
	require.NoError(t, u.RenderHTML(&html, ctx))
	got := html.String()
	assert.Contains(t, got, "    <td>\n      <ul>\n        <li>")
	assert.NotContains(t, got, "<td>\n            <ul>")
	assert.Contains(t, got, "    <td>\n      b\n")
	assert.Zero(t, ctx.Depth())
	assert.Zero(t, ctx.underflow)
	requireBalancedHTML(t, got)
}

func TestRenderTagBlockList(t *testing.T) {
	t.Run("params", func(t *testing.T) {
		u := parse(UnitMultiLine, "@param x The x value.\n@param y The y.")
		var sb strings.Builder
		require.NoError(t, u.RenderTagBlockListHTML(&sb, NewWriteContext(nil), TagParam))
		want := "<dl class=\"params\">\n" +
			"  <dt class=\"param\">x</dt>\n" +
			"  <dd>\n" +
			"    <p>The x value.</p>\n" +
			"  </dd>\n" +
			"  <dt class=\"param\">y</dt>\n" +
			"  <dd>\n" +
			"    <p>The y.</p>\n" +
			"  </dd>\n" +
			"</dl>\n"
		assert.Equal(t, want, sb.String())
	})

	t.Run("see", func(t *testing.T) {
		u := parse(UnitMultiLine, "@see foo\n@see bar")
		var sb strings.Builder
		require.NoError(t, u.RenderTagBlockListHTML(&sb, NewWriteContext(fooRefs()), TagSee))
		want := "<ul class=\"see\">\n" +
			"  <li><a href=\"page_foo.html\">Foo Title</a></li>\n" +
			"  <li>bar</li>\n" +
			"</ul>\n"
		assert.Equal(t, want, sb.String())
	})

	t.Run("signatures", func(t *testing.T) {
		u := parse(UnitMultiLine, "@signature int add(int a, int b)")
		var sb strings.Builder
		require.NoError(t, u.RenderTagBlockListHTML(&sb, NewWriteContext(nil), TagSignature))
		assert.Contains(t, sb.String(), "<li class=\"signature\">int add(int a, int b)</li>\n")
		requireBalancedHTML(t, sb.String())
	})

	t.Run("missing type writes nothing", func(t *testing.T) {
		u := parse(UnitMultiLine, "Text.")
		var sb strings.Builder
		require.NoError(t, u.RenderTagBlockListLaTeX(&sb, NewWriteContext(nil), TagParam))
		assert.Empty(t, sb.String())
	})

	t.Run("by ident", func(t *testing.T) {
		u := parse(UnitMultiLine, "@param x The x value.\n@param y The y.")
		var sb strings.Builder
		require.NoError(t, u.RenderTagBlockByIdent(&sb, NewWriteContext(nil), FormatLaTeX, TagParam, "y"))
		assert.Equal(t, "The y.\n\n", sb.String())
	})
}

func TestGroupFeatures(t *testing.T) {
	src := "@feature \"Output formats\" HTML export\nWrites pages.\n" +
		"@feature Parsing Tags\nReads tags.\n" +
		"@feature \"Output formats\" LaTeX export\nWrites documents."
	u := parse(UnitMultiLine, src)

	groups := GroupFeatures(u.BlocksOf(TagFeature))
	require.Len(t, groups, 2)
	assert.Equal(t, "Output formats", groups[0].Name)
	assert.Len(t, groups[0].Blocks, 2)
	assert.Equal(t, "Parsing", groups[1].Name)

	var sb strings.Builder
	require.NoError(t, u.RenderTagBlockListHTML(&sb, NewWriteContext(nil), TagFeature))
	got := sb.String()
	requireBalancedHTML(t, got)
	assert.Less(t, strings.Index(got, "<h3>Output formats</h3>"), strings.Index(got, "<h3>Parsing</h3>"))
	assert.Contains(t, got, "<h4>LaTeX export</h4>")
}

func TestLessAlnum(t *testing.T) {
	assert.True(t, LessAlnum("alpha", "Beta"))
	assert.True(t, LessAlnum("ab", "abc"))
	assert.False(t, LessAlnum("beta", "Alpha"))
}

func TestHTMLAttrEscape(t *testing.T) {
	assert.Equal(t, "a &quot;b&quot; &amp; &lt;c&gt;", HTMLAttrEscape(`a "b" & <c>`))
}
