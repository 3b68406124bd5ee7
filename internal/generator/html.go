package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"escrido/internal/content"
	"escrido/internal/doc"
)

var htmlFormat = format{
	kind:     content.FormatHTML,
	escape:   html.EscapeString,
	headline: func(p *doc.Page) renderFunc { return p.WriteHTMLHeadline },
	text:     func(u *content.Unit) renderFunc { return u.RenderParagraphSectionDetailsHTML },
}

// HTMLTemplateNames returns the templates tried for p, most specific first.
func HTMLTemplateNames(p *doc.Page) []string {
	if p.Kind() == doc.KindMainPage {
		return []string{"index.html", "default.html"}
	}
	return []string{p.TypeID() + ".html", "default.html"}
}

// WriteHTMLDoc writes one HTML file per page into the HTML directory and
// returns the written paths in page order. Pages without a template are
// skipped with a warning.
func (g *Generator) WriteHTMLDoc(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(g.opts.HTMLDir, 0755); err != nil {
		return nil, fmt.Errorf("create html dir: %w", err)
	}

	// group tree and reading order are built lazily; build them before the
	// workers share them
	g.doc.NavOrder()
	main := g.doc.MainPage()
	features := g.doc.FeatureNames()
	pages := g.doc.Pages()

	files := make([]string, len(pages))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, p := range pages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := g.HTMLPage(p, main, features)
			if errors.Is(err, ErrTemplateNotFound) {
				g.log.Warn("skipping page", "page", p.Ident(), "error", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("page %s: %w", p.Ident(), err)
			}
			path := filepath.Join(g.opts.HTMLDir, p.URL(g.opts.Postfix))
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return err
			}
			g.log.Debug("wrote page", "page", p.Ident(), "file", path)
			files[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	written := files[:0]
	for _, f := range files {
		if f != "" {
			written = append(written, f)
		}
	}
	return written, nil
}

// HTMLPage returns the filled template of one page.
func (g *Generator) HTMLPage(p, main *doc.Page, features []string) (string, error) {
	tmpl, src, err := g.tmpl.Read(HTMLTemplateNames(p)...)
	if err != nil {
		return "", err
	}
	g.log.Debug("template", "page", p.Ident(), "source", src)

	r := &replacer{text: tmpl, ctx: g.newContext(), escape: htmlFormat.escape}
	mainPage(r, main)
	if main != nil {
		r.render("metadata", main.WriteHTMLMetaDataList)
	} else {
		r.raw(placeholder("metadata"), "")
	}
	pageBody(r, htmlFormat, p)
	r.render("toc", func(w io.Writer, ctx *content.WriteContext) error {
		return g.doc.WriteHTMLTableOfContents(w, ctx, p)
	})
	r.str("pagination-url-prev", g.doc.PaginationURL(r.ctx, p, -1))
	r.str("pagination-url-next", g.doc.PaginationURL(r.ctx, p, 1))
	pageBlocks(r, htmlFormat, p, features)
	return r.text, r.err
}
