package generator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"escrido/internal/content"
	"escrido/internal/doc"
	"escrido/internal/extractor"
	"escrido/internal/scanner"
)

func testDoc(t *testing.T) *doc.Documentation {
	t.Helper()
	d := doc.New()
	s := scanner.New(d)
	s.ScanAll([]*extractor.Comment{
		{Filepath: "a.go", StartLine: 1, Kind: extractor.CommentBlock, Text: " @_mainpage_ My Project\n @author Jane\n"},
		{Filepath: "a.go", StartLine: 5, Kind: extractor.CommentBlock, Text: " @_page_ intro Introduction\n Read @ref add first.\n @brief Getting started.\n"},
		{Filepath: "a.go", StartLine: 9, Kind: extractor.CommentBlock, Text: " @_refpage_ function add Add\n @brief Adds two numbers.\n @param a first\n @ingroup Math\n @feature Speed Fast.\n"},
	})
	require.Empty(t, s.Diagnostics())
	require.Equal(t, 3, d.Len())
	return d
}

func writeTemplate(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSplitMargin(t *testing.T) {
	tests := []struct {
		head, rest, margin string
	}{
		{"<div>\n    ", "<div>\n", "    "},
		{"    ", "", "    "},
		{"<p>x ", "<p>x ", ""},
		{"<p>\n", "<p>\n", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		rest, margin := splitMargin(tt.head)
		assert.Equal(t, tt.rest, rest, "head %q", tt.head)
		assert.Equal(t, tt.margin, margin, "head %q", tt.head)
	}
}

func TestReplacer(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		r := &replacer{text: "*escrido-groupname*/*escrido-groupname0*/*escrido-groupname1*/*escrido-groupname2*", escape: html.EscapeString}
		r.list("groupname#", []string{"A", "B&C"})
		assert.Equal(t, "A/A/B&amp;C/", r.text)
	})

	t.Run("render keeps the column", func(t *testing.T) {
		r := &replacer{
			text:   "<main>\n  *escrido-x*\n</main>\n<p>*escrido-x*</p>\n",
			ctx:    content.NewWriteContext(nil),
			escape: html.EscapeString,
		}
		r.render("x", func(w io.Writer, ctx *content.WriteContext) error {
			_, err := io.WriteString(w, ctx.Margin+"<b>one</b>\n"+ctx.Margin+"<b>two</b>\n")
			return err
		})
		require.NoError(t, r.err)
		assert.Equal(t, "<main>\n  <b>one</b>\n  <b>two</b>\n\n</main>\n<p><b>one</b>\n<b>two</b>\n</p>\n", r.text)
		assert.Empty(t, r.ctx.Margin)
	})

	t.Run("render prepends a missing margin", func(t *testing.T) {
		r := &replacer{text: "\n    *escrido-x*", ctx: content.NewWriteContext(nil), escape: html.EscapeString}
		r.render("x", func(w io.Writer, _ *content.WriteContext) error {
			_, err := io.WriteString(w, "inline")
			return err
		})
		assert.Equal(t, "\n    inline", r.text)
	})

	t.Run("render error is kept", func(t *testing.T) {
		r := &replacer{text: "*escrido-x* *escrido-y*", ctx: content.NewWriteContext(nil), escape: html.EscapeString}
		r.render("x", func(io.Writer, *content.WriteContext) error { return io.ErrShortWrite })
		r.str("y", "ignored")
		assert.ErrorIs(t, r.err, io.ErrShortWrite)
		assert.Equal(t, "*escrido-x* *escrido-y*", r.text)
	})
}

func TestTemplates_Read(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "function.html", "fn")

	tmpl := NewTemplates(dir)
	text, src, err := tmpl.Read("function.html", "default.html")
	require.NoError(t, err)
	assert.Equal(t, "fn", text)
	assert.Equal(t, filepath.Join(dir, "function.html"), src)

	text, src, err = tmpl.Read("class.html", "default.html")
	require.NoError(t, err)
	assert.Equal(t, "builtin:default.html", src)
	assert.Contains(t, text, "*escrido-page-text*")

	_, _, err = tmpl.Read("nope.html")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplates_CopyAssets(t *testing.T) {
	t.Run("template dir", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "default.html", "x")
		writeTemplate(t, dir, "site.css", "body{}")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "js"), 0755))
		writeTemplate(t, dir, filepath.Join("js", "nav.js"), "nav()")

		out := t.TempDir()
		files, err := NewTemplates(dir).CopyAssets(out)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{filepath.Join(out, "site.css"), filepath.Join(out, "js", "nav.js")}, files)
		assert.Equal(t, "nav()", readFile(t, filepath.Join(out, "js", "nav.js")))
		assert.NoFileExists(t, filepath.Join(out, "default.html"))
	})

	t.Run("builtin", func(t *testing.T) {
		out := t.TempDir()
		files, err := NewTemplates(filepath.Join(out, "missing")).CopyAssets(out)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(out, "style.css")}, files)
	})
}

func TestGenerator_WriteHTMLDoc(t *testing.T) {
	t.Run("custom templates", func(t *testing.T) {
		tmplDir := t.TempDir()
		writeTemplate(t, tmplDir, "default.html",
			"<title>*escrido-title* | *escrido-maintitle*</title>\n"+
				"<p>*escrido-type* *escrido-groupname* [*escrido-groupname1*]</p>\n"+
				"<nav>\n  *escrido-toc*\n</nav>\n"+
				"*escrido-brief*"+
				"<a href=\"*escrido-pagination-url-prev*\">p</a><a href=\"*escrido-pagination-url-next*\">n</a>\n"+
				"<s>*escrido-feature-Speed*</s>\n")
		writeTemplate(t, tmplDir, "index.html", "<h1>*escrido-maintitle*</h1> by *escrido-mainauthor*\n*escrido-metadata*")

		out := t.TempDir()
		g := New(testDoc(t), nil, Options{TemplateDir: tmplDir, HTMLDir: out, Workers: 2})
		files, err := g.WriteHTMLDoc(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(out, "index.html"),
			filepath.Join(out, "page_intro.html"),
			filepath.Join(out, "function_add.html"),
		}, files)

		add := readFile(t, filepath.Join(out, "function_add.html"))
		assert.Contains(t, add, "<title>Add | My Project</title>")
		assert.Contains(t, add, "<p>Function Math []</p>")
		assert.Contains(t, add, `<li title="Adds two numbers." class="activepage"><a href="function_add.html">Add</a></li>`)
		assert.Contains(t, add, "\n    <div>\n")
		assert.Contains(t, add, "Adds two numbers.")
		assert.Contains(t, add, `<a href="page_intro.html">p</a><a href="index.html">n</a>`)
		assert.Contains(t, add, "Fast.")
		assert.NotContains(t, add, "Speed")

		intro := readFile(t, filepath.Join(out, "page_intro.html"))
		assert.Contains(t, intro, "<s></s>")
		assert.Contains(t, intro, "<p>Page  []</p>")

		index := readFile(t, filepath.Join(out, "index.html"))
		assert.True(t, strings.HasPrefix(index, "<h1>My Project</h1> by Jane\n<dl>\n"), index)
		assert.Contains(t, index, `<dt class="author">Author</dt>`)
	})

	t.Run("builtin templates", func(t *testing.T) {
		out := t.TempDir()
		g := New(testDoc(t), nil, Options{HTMLDir: out})
		files, err := g.WriteHTMLDoc(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 3)
		for _, f := range files {
			text := readFile(t, f)
			assert.NotContains(t, text, "*escrido-", f)
			_, err := html.Parse(strings.NewReader(text))
			assert.NoError(t, err, f)
		}
		intro := readFile(t, filepath.Join(out, "page_intro.html"))
		assert.Contains(t, intro, `<a href="function_add.html">Add</a>`)
		assert.Contains(t, intro, "<title>Introduction - My Project</title>")
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		g := New(testDoc(t), nil, Options{HTMLDir: t.TempDir(), Workers: 1})
		_, err := g.WriteHTMLDoc(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerator_WriteLaTeXDoc(t *testing.T) {
	out := t.TempDir()
	g := New(testDoc(t), nil, Options{LaTeXDir: out})
	path, err := g.WriteLaTeXDoc(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "latex.tex"), path)

	text := readFile(t, path)
	assert.NotContains(t, text, "*escrido")
	assert.Contains(t, text, "\\usepackage{hyperref}")
	assert.Contains(t, text, "\\newcommand{\\pagegroupheadline}")
	assert.Contains(t, text, "\\title{My Project}")
	assert.Contains(t, text, "\\author{Jane}")

	intro := strings.Index(text, "\\pagegroupheadline{Introduction}%\n\n")
	math := strings.Index(text, "\\pagegroupheadline{Math}%\n\n")
	add := strings.Index(text, "\\pageheadline{Add}\n\\label{add}\n")
	require.GreaterOrEqual(t, intro, 0)
	require.Greater(t, math, intro)
	require.Greater(t, add, math)
	assert.Less(t, strings.Index(text, "\\pageheadline{Introduction}"), math)
}

func TestGenerator_LaTeXFlatTree(t *testing.T) {
	d := doc.New()
	s := scanner.New(d)
	s.Scan(&extractor.Comment{Filepath: "a.go", StartLine: 1, Kind: extractor.CommentBlock, Text: " @_page_ a A\n Text.\n"})

	text, err := New(d, nil, Options{}).LaTeXDoc(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, text, "\\pagegroupheadline{")
	assert.Contains(t, text, "\\title{"+DefaultMainTitle+"}")
	assert.Contains(t, text, "\\pageheadline{A}")
}

func TestGenerator_NoMainPage(t *testing.T) {
	d := doc.New()
	s := scanner.New(d)
	s.Scan(&extractor.Comment{Filepath: "a.go", StartLine: 1, Kind: extractor.CommentBlock, Text: " @_page_ a A\n Text.\n"})

	text, err := New(d, nil, Options{}).HTMLPage(d.Pages()[0], nil, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "<title>A - "+DefaultMainTitle+"</title>")
	assert.NotContains(t, text, "*escrido-")
}
