package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"escrido/internal/content"
	"escrido/internal/doc"
)

var latexFormat = format{
	kind:     content.FormatLaTeX,
	escape:   content.LaTeXEscape,
	headline: func(p *doc.Page) renderFunc { return p.WriteLaTeXHeadline },
	text:     func(u *content.Unit) renderFunc { return u.RenderParagraphSectionDetailsLaTeX },
}

const pagesPlaceholder = "*escrido-pages*"

// LaTeXTemplateNames returns the page templates tried for p.
func LaTeXTemplateNames(p *doc.Page) []string {
	if p.Kind() == doc.KindMainPage {
		return []string{"page.tex", "default.tex"}
	}
	return []string{p.TypeID() + ".tex", "default.tex"}
}

// WriteLaTeXDoc writes all pages in group order into latex.tex in the LaTeX
// directory and returns its path.
func (g *Generator) WriteLaTeXDoc(ctx context.Context) (string, error) {
	text, err := g.LaTeXDoc(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.opts.LaTeXDir, 0755); err != nil {
		return "", fmt.Errorf("create latex dir: %w", err)
	}
	path := filepath.Join(g.opts.LaTeXDir, "latex.tex")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LaTeXDoc returns the filled LaTeX document.
func (g *Generator) LaTeXDoc(ctx context.Context) (string, error) {
	tmpl, _, err := g.tmpl.Read("latex.tex")
	if err != nil {
		return "", err
	}
	wctx := g.newContext()
	r := &replacer{text: tmpl, ctx: wctx, escape: latexFormat.escape}
	r.raw("*escrido_latex_packages*", LaTeXPackages)
	if cmds, _, err := g.tmpl.Read("latex_commands.tex"); err == nil {
		r.raw("*escrido_latex_commands*", cmds)
	}
	main := g.doc.MainPage()
	mainPage(r, main)

	features := g.doc.FeatureNames()
	root := g.doc.Groups()
	nested := root.MaxLevel() > 0

	var pages strings.Builder
	var walkErr error
	root.Walk(func(grp *doc.Group) {
		if walkErr != nil || len(grp.Pages) == 0 {
			return
		}
		if walkErr = ctx.Err(); walkErr != nil {
			return
		}
		if nested {
			pages.WriteString("\\pagegroupheadline{" + content.LaTeXEscape(groupTitle(grp)) + "}%\n\n")
		}
		for _, id := range grp.TypeIDs() {
			for _, p := range grp.PagesOf(id) {
				text, err := g.latexPage(p, main, features)
				if errors.Is(err, ErrTemplateNotFound) {
					g.log.Warn("skipping page", "page", p.Ident(), "error", err)
					continue
				}
				if err != nil {
					walkErr = fmt.Errorf("page %s: %w", p.Ident(), err)
					return
				}
				pages.WriteString(text)
				pages.WriteString("\n")
			}
		}
	})
	if walkErr != nil {
		return "", walkErr
	}
	if r.err != nil {
		return "", r.err
	}
	return strings.ReplaceAll(r.text, pagesPlaceholder, pages.String()), nil
}

// groupTitle names a group in the LaTeX document. The root holds the pages
// outside any group.
func groupTitle(grp *doc.Group) string {
	if grp.Level == 0 {
		return "Introduction"
	}
	return strings.Join(grp.Path(), " - ")
}

func (g *Generator) latexPage(p, main *doc.Page, features []string) (string, error) {
	tmpl, _, err := g.tmpl.Read(LaTeXTemplateNames(p)...)
	if err != nil {
		return "", err
	}
	r := &replacer{text: tmpl, ctx: g.newContext(), escape: latexFormat.escape}
	mainPage(r, main)
	pageBody(r, latexFormat, p)
	pageBlocks(r, latexFormat, p, features)
	return r.text, r.err
}
