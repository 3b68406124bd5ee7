// Package pipeline runs a complete documentation build: it reads the
// include paths, fills the documentation, and writes every enabled output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"escrido/internal/config"
	"escrido/internal/content"
	"escrido/internal/crawler"
	"escrido/internal/doc"
	"escrido/internal/extractor"
	"escrido/internal/generator"
	"escrido/internal/graph"
	"escrido/internal/reftable"
	"escrido/internal/scanner"
	"escrido/internal/search"
	"escrido/internal/storage"
)

// Builder runs builds for one configuration.
type Builder struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	report *BuildReport
}

// Result holds what a build produced.
type Result struct {
	Doc         *doc.Documentation
	Refs        *reftable.Table
	Entries     []search.Entry
	Records     []storage.PageRecord
	Graph       *graph.Graph
	HTMLFiles   []string
	Assets      []string
	LaTeXFile   string
	SearchIndex string
	Diagnostics []error
}

// NewBuilder creates a builder. Progress lines go to stdout.
func NewBuilder(cfg *config.Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, log: logger, out: os.Stdout}
}

// WithOutput sets the writer for progress lines.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.out = w
	return b
}

// WithReport records stage metrics into r.
func (b *Builder) WithReport(r *BuildReport) *Builder {
	b.report = r
	return b
}

// Report returns the report in use, or nil.
func (b *Builder) Report() *BuildReport { return b.report }

// Build runs all stages. Markup diagnostics never fail a build, output
// errors do.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res, err := b.Scan(ctx)
	if err != nil {
		return nil, err
	}

	res.Refs = b.refTableStage(res.Doc)
	b.linkStage(res)

	if b.cfg.HTML.Enabled {
		if err := b.htmlStage(ctx, res); err != nil {
			return nil, err
		}
		if b.cfg.SearchIndex.Enabled {
			if err := b.searchIndexStage(ctx, res); err != nil {
				return nil, err
			}
		}
	}
	if b.cfg.LaTeX.Enabled {
		if err := b.latexStage(ctx, res); err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(b.out, "✅ Build finished: %d pages, %d diagnostics.\n", res.Doc.Len(), len(res.Diagnostics))
	return res, nil
}

// Scan reads the include paths into a filtered documentation without
// writing anything.
func (b *Builder) Scan(ctx context.Context) (*Result, error) {
	comments, err := b.collectStage(ctx)
	if err != nil {
		return nil, err
	}
	d, diags := b.scanStage(comments)
	b.filterStage(d)
	return &Result{Doc: d, Diagnostics: diags}, nil
}

func (b *Builder) collectStage(ctx context.Context) ([]*extractor.Comment, error) {
	h := b.report.BeginStage("collect")
	ext, err := extractor.NewExtractor()
	if err != nil {
		b.report.EndStage(h, "error", nil, nil, err)
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	cr := crawler.NewCrawler(ext, b.cfg.Extensions...).WithLogger(b.log)

	var comments []*extractor.Comment
	files, skipped := 0, 0
	for _, root := range b.cfg.Include {
		fmt.Fprintf(b.out, "📂 Scanning file(s) '%s'\n", root)
		paths, err := cr.Files(root)
		if err != nil {
			b.report.EndStage(h, "error", nil, nil, err)
			return nil, fmt.Errorf("read include path %s: %w", root, err)
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				b.report.EndStage(h, "canceled", nil, nil, err)
				return nil, err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				b.log.Warn("skipping file", "path", path, "error", err)
				skipped++
				continue
			}
			found, err := ext.Extract(ctx, path, src)
			if err != nil {
				b.log.Warn("skipping file", "path", path, "error", err)
				skipped++
				continue
			}
			b.log.Debug("read file", "path", path, "language", ext.Language(path), "comments", len(found))
			comments = append(comments, found...)
			files++
		}
	}

	b.report.EndStage(h, "ok", map[string]float64{
		"files":    float64(files),
		"skipped":  float64(skipped),
		"comments": float64(len(comments)),
	}, nil, nil)
	return comments, nil
}

func (b *Builder) scanStage(comments []*extractor.Comment) (*doc.Documentation, []error) {
	h := b.report.BeginStage("scan")
	d := doc.New()
	s := scanner.New(d)
	s.ScanAll(comments)

	diags := s.Diagnostics()
	for _, err := range diags {
		b.log.Warn("markup", "error", err)
		b.report.AddSignal(diagnosticCode(err), "scan", SeverityWarning, err.Error(), 0)
	}
	b.report.EndStage(h, "ok", map[string]float64{
		"pages":       float64(d.Len()),
		"diagnostics": float64(len(diags)),
	}, nil, nil)
	return d, diags
}

func diagnosticCode(err error) string {
	switch {
	case errors.Is(err, content.ErrUnrecognizedTag):
		return "unrecognized_tag"
	case errors.Is(err, content.ErrBlockTagNotAtLineStart):
		return "block_tag_position"
	case errors.Is(err, doc.ErrUnknownPageKind):
		return "unknown_page_kind"
	case errors.Is(err, doc.ErrNoPage):
		return "content_outside_page"
	default:
		return "markup"
	}
}

func (b *Builder) filterStage(d *doc.Documentation) {
	h := b.report.BeginStage("filter")
	before := d.Len()
	if len(b.cfg.Namespaces) > 0 {
		d.RemoveNamespaces(b.cfg.Namespaces)
	}
	if len(b.cfg.ExcludeGrps) > 0 {
		d.RemoveGroups(b.cfg.ExcludeGrps)
	}
	if removed := before - d.Len(); removed > 0 {
		b.log.Info("pages filtered", "removed", removed, "kept", d.Len())
	}
	b.report.SetPageCount(d.Len())
	b.report.EndStage(h, "ok", map[string]float64{
		"removed": float64(before - d.Len()),
		"kept":    float64(d.Len()),
	}, nil, nil)
}

func (b *Builder) refTableStage(d *doc.Documentation) *reftable.Table {
	h := b.report.BeginStage("reftable")
	refs := d.BuildRefTable(b.cfg.HTML.Postfix)
	b.report.EndStage(h, "ok", map[string]float64{"refs": float64(refs.Len())}, nil, nil)
	return refs
}

// linkStage builds the page records and links them by their references.
func (b *Builder) linkStage(res *Result) {
	h := b.report.BeginStage("links")
	res.Entries = Entries(b.cfg, res.Doc, res.Refs)
	res.Records = Records(res.Doc, res.Entries)
	res.Graph = graph.FromRecords(res.Records, res.Refs)
	for i := range res.Records {
		for _, dep := range res.Graph.GetDependencies(res.Records[i].Ident) {
			res.Records[i].Links = append(res.Records[i].Links, dep.Page.Ident)
		}
	}
	for _, u := range res.Graph.Unresolved {
		b.log.Info("unresolved reference", "page", u.From, "target", u.Target, "reason", u.Reason)
		b.report.AddSignal("unresolved_reference", "links", SeverityInfo,
			fmt.Sprintf("page %s refers to unknown %s (%s)", u.From, u.Target, u.Reason), 0)
	}

	counters := map[string]float64{
		"edges":      float64(len(res.Graph.Edges)),
		"unresolved": float64(len(res.Graph.Unresolved)),
	}
	for reason, n := range res.Graph.UnresolvedReasonCounts() {
		counters["unresolved_"+string(reason)] = float64(n)
	}
	b.report.EndStage(h, "ok", counters, nil, nil)
}

func (b *Builder) generator(d *doc.Documentation, refs *reftable.Table) *generator.Generator {
	return generator.New(d, refs, generator.Options{
		TemplateDir:  b.cfg.TemplateDir,
		HTMLDir:      b.cfg.HTML.OutDir,
		LaTeXDir:     b.cfg.LaTeX.OutDir,
		Postfix:      b.cfg.HTML.Postfix,
		ShowInternal: b.cfg.Internal,
		Labels:       b.cfg.Relabel,
		Logger:       b.log,
	})
}

func (b *Builder) htmlStage(ctx context.Context, res *Result) error {
	h := b.report.BeginStage("html")
	fmt.Fprintf(b.out, "📝 Writing HTML document(s) into '%s'\n", b.cfg.HTML.OutDir)

	gen := b.generator(res.Doc, res.Refs)
	files, err := gen.WriteHTMLDoc(ctx)
	if err != nil {
		b.report.EndStage(h, "error", nil, nil, err)
		return fmt.Errorf("write html: %w", err)
	}
	if skipped := res.Doc.Len() - len(files); skipped > 0 {
		b.report.AddSignal("missing_template", "html", SeverityWarning,
			fmt.Sprintf("%d page(s) had no template", skipped), float64(skipped))
	}
	assets, err := gen.Templates().CopyAssets(b.cfg.HTML.OutDir)
	if err != nil {
		b.report.EndStage(h, "error", nil, nil, err)
		return fmt.Errorf("copy assets: %w", err)
	}
	res.HTMLFiles, res.Assets = files, assets
	b.report.AddOutputs(files...)
	b.report.AddOutputs(assets...)
	b.report.EndStage(h, "ok", map[string]float64{
		"pages":  float64(len(files)),
		"assets": float64(len(assets)),
	}, nil, nil)
	return nil
}

func (b *Builder) searchIndexStage(ctx context.Context, res *Result) error {
	h := b.report.BeginStage("search_index")
	enc, err := search.ParseEncoding(b.cfg.SearchIndex.Encoding)
	if err != nil {
		b.report.EndStage(h, "error", nil, nil, err)
		return err
	}

	entries := res.Entries

	if enc == search.EncodingSQLite {
		fmt.Fprintf(b.out, "🗄️  Writing search index into '%s'\n", b.cfg.DB)
		if err := b.saveStore(ctx, res.Records); err != nil {
			b.report.EndStage(h, "error", nil, nil, err)
			return err
		}
		res.SearchIndex = b.cfg.DB
	} else {
		path := filepath.Join(b.cfg.HTML.OutDir, b.cfg.SearchIndex.File)
		fmt.Fprintf(b.out, "🔍 Writing search index file into '%s'\n", b.cfg.HTML.OutDir)
		if err := search.WriteFile(path, entries, enc); err != nil {
			b.report.EndStage(h, "error", nil, nil, err)
			return err
		}
		res.SearchIndex = path
	}
	b.report.AddOutputs(res.SearchIndex)
	b.report.EndStage(h, "ok", map[string]float64{"entries": float64(len(entries))},
		[]string{"encoding " + string(enc)}, nil)
	return nil
}

// Entries builds the search entries of d with the render settings of cfg.
func Entries(cfg *config.Config, d *doc.Documentation, refs *reftable.Table) []search.Entry {
	wctx := content.NewWriteContext(refs)
	wctx.ShowInternal = cfg.Internal
	wctx.Labels = cfg.Relabel
	return search.Build(d, wctx, cfg.HTML.Postfix)
}

// Records pairs the pages of d with their search entries.
func Records(d *doc.Documentation, entries []search.Entry) []storage.PageRecord {
	pages := d.Pages()
	recs := make([]storage.PageRecord, 0, len(pages))
	for i, p := range pages {
		recs = append(recs, storage.NewPageRecord(p, entries[i]))
	}
	return recs
}

func (b *Builder) saveStore(ctx context.Context, recs []storage.PageRecord) error {
	store, err := storage.NewSQLiteStore(b.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()
	if err := store.SavePages(ctx, recs); err != nil {
		return fmt.Errorf("failed to save pages: %w", err)
	}
	return nil
}

func (b *Builder) latexStage(ctx context.Context, res *Result) error {
	h := b.report.BeginStage("latex")
	fmt.Fprintf(b.out, "📄 Writing LaTeX document into '%s'\n", b.cfg.LaTeX.OutDir)
	path, err := b.generator(res.Doc, res.Refs).WriteLaTeXDoc(ctx)
	if err != nil {
		b.report.EndStage(h, "error", nil, nil, err)
		return fmt.Errorf("write latex: %w", err)
	}
	res.LaTeXFile = path
	b.report.AddOutputs(path)
	b.report.EndStage(h, "ok", nil, nil, nil)
	return nil
}
