// Package generator writes a documentation as HTML pages and as a LaTeX
// document by filling placeholders in template files.
package generator

import (
	"io"
	"log/slog"
	"runtime"

	"escrido/internal/content"
	"escrido/internal/doc"
	"escrido/internal/reftable"
)

// DefaultMainTitle is used when the documentation has no mainpage.
const DefaultMainTitle = "Document Title"

// LaTeXPackages is the preamble every LaTeX document needs.
const LaTeXPackages = `% Package for graphics inclusion:
\usepackage{graphicx}
% Program code listings:
\usepackage{listings}
% Auto-aligned tables:
\usepackage{tabulary}
% Hyperlinks and hyper references:
\usepackage{hyperref}`

type Options struct {
	TemplateDir  string
	HTMLDir      string
	LaTeXDir     string
	Postfix      string
	ShowInternal bool
	Labels       map[string]string
	// Workers bounds the pages rendered at the same time. Zero means one
	// per CPU.
	Workers int
	Logger  *slog.Logger
}

// Generator renders one documentation. The documentation and the reference
// table must not change while it runs.
type Generator struct {
	doc  *doc.Documentation
	refs *reftable.Table
	tmpl *Templates
	opts Options
	log  *slog.Logger
}

func New(d *doc.Documentation, refs *reftable.Table, opts Options) *Generator {
	if opts.Postfix == "" {
		opts.Postfix = ".html"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if refs == nil {
		refs = d.BuildRefTable(opts.Postfix)
	}
	return &Generator{
		doc:  d,
		refs: refs,
		tmpl: NewTemplates(opts.TemplateDir),
		opts: opts,
		log:  opts.Logger,
	}
}

// Templates returns the template loader in use.
func (g *Generator) Templates() *Templates { return g.tmpl }

// newContext returns a fresh write context. Every page gets its own.
func (g *Generator) newContext() *content.WriteContext {
	ctx := content.NewWriteContext(g.refs)
	ctx.ShowInternal = g.opts.ShowInternal
	ctx.Labels = g.opts.Labels
	return ctx
}

func (g *Generator) workers() int {
	if g.opts.Workers > 0 {
		return g.opts.Workers
	}
	return runtime.NumCPU()
}

// format bundles the per-format render entry points of a unit.
type format struct {
	kind     content.Format
	escape   func(string) string
	headline func(p *doc.Page) renderFunc
	text     func(u *content.Unit) renderFunc
}

func tagBlock(u *content.Unit, f content.Format, t content.TagType) renderFunc {
	return func(w io.Writer, ctx *content.WriteContext) error {
		if f == content.FormatLaTeX {
			return u.RenderTagBlockLaTeX(w, ctx, t)
		}
		return u.RenderTagBlockHTML(w, ctx, t)
	}
}

func tagBlockList(u *content.Unit, f content.Format, t content.TagType) renderFunc {
	return func(w io.Writer, ctx *content.WriteContext) error {
		if f == content.FormatLaTeX {
			return u.RenderTagBlockListLaTeX(w, ctx, t)
		}
		return u.RenderTagBlockListHTML(w, ctx, t)
	}
}

// mainPage fills the placeholders taken from the mainpage. Without a
// mainpage the title gets a default and the rest is emptied.
func mainPage(r *replacer, main *doc.Page) {
	if main == nil {
		r.str("maintitle", DefaultMainTitle)
	} else {
		r.str("maintitle", main.Title())
	}
	for _, m := range []struct {
		name string
		typ  content.TagType
	}{
		{"mainauthor", content.TagAuthor},
		{"maindate", content.TagDate},
		{"mainversion", content.TagVersion},
		{"maincopyright", content.TagCopyright},
		{"mainbrief", content.TagBrief},
	} {
		value := ""
		if main != nil {
			if b := main.Unit().FirstBlock(m.typ); b != nil {
				value = b.PlainText()
			}
		}
		r.str(m.name, value)
	}
}

// pageBody fills the page placeholders both formats share.
func pageBody(r *replacer, f format, p *doc.Page) {
	u := p.Unit()
	r.render("headline", f.headline(p))
	r.render("page-text", f.text(u))
	r.str("type", doc.CapForm(p.TypeLabel()))
	r.list("groupname#", p.GroupNames())
	r.str("title", p.Title())
}

// pageBlocks fills the tag block placeholders of a page.
func pageBlocks(r *replacer, f format, p *doc.Page, features []string) {
	u := p.Unit()
	r.render("brief", tagBlock(u, f.kind, content.TagBrief))
	r.render("return", tagBlock(u, f.kind, content.TagReturn))

	r.render("attributes", tagBlockList(u, f.kind, content.TagAttribute))
	r.render("params", tagBlockList(u, f.kind, content.TagParam))
	r.render("see", tagBlockList(u, f.kind, content.TagSee))
	r.render("signatures", tagBlockList(u, f.kind, content.TagSignature))
	r.render("features", tagBlockList(u, f.kind, content.TagFeature))

	for _, name := range features {
		r.render("feature-"+doc.CamelCase(name), func(w io.Writer, ctx *content.WriteContext) error {
			return u.RenderTagBlockByIdent(w, ctx, f.kind, content.TagFeature, name)
		})
	}
}
