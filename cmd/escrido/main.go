package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"escrido/internal/analysis"
	"escrido/internal/config"
	"escrido/internal/git"
	"escrido/internal/graph"
	"escrido/internal/pipeline"
	"escrido/internal/storage"

	"github.com/spf13/cobra"
)

// version is set at link time.
var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "escrido",
		Short: "Documentation generator for tagged source comments",
		Long: `escrido reads documentation comments (/*# ... */ and //#) from source
files and writes HTML pages, a LaTeX document and a search index.`,
		Args: cobra.NoArgs,
		Run:  runBuild,
	}
	flags settings
)

// settings are the command line values that override the configuration.
type settings struct {
	configPath   string
	include      []string
	extensions   []string
	html         bool
	latex        bool
	htmlDir      string
	latexDir     string
	templateDir  string
	postfix      string
	namespaces   []string
	excludeGrps  []string
	internal     bool
	searchIndex  bool
	searchFile   string
	searchEncode string
	dbPath       string
	report       string
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default escrido.yaml if present)")
	pf.StringSliceVarP(&flags.include, "include", "I", nil, "Files or directories to scan")
	pf.StringSliceVar(&flags.extensions, "extension", nil, "Only scan files with these extensions")
	pf.BoolVar(&flags.html, "html", true, "Write HTML pages")
	pf.BoolVar(&flags.latex, "latex", false, "Write a LaTeX document")
	pf.StringVar(&flags.htmlDir, "html-dir", "", "Output directory of the HTML pages")
	pf.StringVar(&flags.latexDir, "latex-dir", "", "Output directory of the LaTeX document")
	pf.StringVar(&flags.templateDir, "template-dir", "", "Directory with page templates and assets")
	pf.StringVar(&flags.postfix, "file-ending", "", "File ending of the HTML pages")
	pf.StringSliceVar(&flags.namespaces, "namespace", nil, "Keep only pages of these namespaces")
	pf.StringSliceVar(&flags.excludeGrps, "exclude-group", nil, "Drop pages of these groups")
	pf.BoolVar(&flags.internal, "internal", false, "Include @internal blocks")
	pf.BoolVar(&flags.searchIndex, "search-index", false, "Write a search index next to the HTML pages")
	pf.StringVar(&flags.searchFile, "search-file", "", "File name of the search index")
	pf.StringVar(&flags.searchEncode, "search-encoding", "", "Search index encoding: json, js or sqlite")
	pf.StringVarP(&flags.dbPath, "db", "d", "", "SQLite database of the sqlite search index")
	pf.StringVar(&flags.report, "report", "", "Write a JSON build report to this file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("include") {
		cfg.Include = flags.include
	}
	if set("extension") {
		cfg.Extensions = flags.extensions
	}
	if set("html") {
		cfg.HTML.Enabled = flags.html
	}
	if set("latex") {
		cfg.LaTeX.Enabled = flags.latex
	}
	if set("html-dir") {
		cfg.HTML.OutDir = flags.htmlDir
	}
	if set("latex-dir") {
		cfg.LaTeX.OutDir = flags.latexDir
	}
	if set("template-dir") {
		cfg.TemplateDir = flags.templateDir
	}
	if set("file-ending") {
		cfg.HTML.Postfix = flags.postfix
	}
	if set("namespace") {
		cfg.Namespaces = flags.namespaces
	}
	if set("exclude-group") {
		cfg.ExcludeGrps = flags.excludeGrps
	}
	if set("internal") {
		cfg.Internal = flags.internal
	}
	if set("search-index") {
		cfg.SearchIndex.Enabled = flags.searchIndex
	}
	if set("search-file") {
		cfg.SearchIndex.File = flags.searchFile
	}
	if set("search-encoding") {
		cfg.SearchIndex.Encoding = flags.searchEncode
	}
	if set("db") {
		cfg.DB = flags.dbPath
	}
	if set("report") {
		cfg.Report = flags.report
	}
}

// newLogger builds the slog handler chosen by the configuration. Diagnostics
// go to stderr so progress output stays readable.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// setup loads the configuration and installs its logger as the default.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger
}

// build runs one build and saves the report when one is configured.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Result, error) {
	b := pipeline.NewBuilder(cfg, logger)
	if cfg.Report != "" {
		b.WithReport(pipeline.NewBuildReport(cfg.Include))
	}
	res, err := b.Build(ctx)
	if cfg.Report != "" {
		if saveErr := b.Report().Save(cfg.Report); saveErr != nil {
			logger.Error("failed to save build report", "path", cfg.Report, "error", saveErr)
		} else {
			fmt.Printf("📊 Build report: %s\n", cfg.Report)
		}
	}
	return res, err
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan the include paths and write the documentation",
	Args:  cobra.NoArgs,
	Run:   runBuild,
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg, logger := setup(cmd)
	if _, err := build(cmd.Context(), cfg, logger); err != nil {
		log.Fatalf("Build failed: %v", err)
	}
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the pages stored by a build with the sqlite search index",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := setup(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		if _, err := os.Stat(cfg.DB); err != nil {
			log.Fatalf("No search database at %s: run a build with --search-index --search-encoding sqlite first", cfg.DB)
		}

		store, err := storage.NewSQLiteStore(cfg.DB)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		query := strings.Join(args, " ")
		hits, err := store.SearchPages(cmd.Context(), query, limit)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		if len(hits) == 0 {
			fmt.Printf("🔍 No pages match %q.\n", query)
			return
		}
		fmt.Printf("🔍 %d page(s) match %q:\n", len(hits), query)
		for _, h := range hits {
			fmt.Printf("  %-30s %s\n", h.Title, h.URL)
			if h.Brief != "" {
				fmt.Printf("      %s\n", h.Brief)
			}
		}
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact [ref]",
	Short: "List the pages touched by changes since a git revision (default HEAD)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := setup(cmd)
		ctx := cmd.Context()
		ref := "HEAD"
		if len(args) > 0 {
			ref = args[0]
		}

		changes, err := git.GetChangedFiles(ctx, ".", ref)
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}
		if len(changes) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}
		fmt.Printf("📝 Detected %d changed files.\n", len(changes))

		rescan, _ := cmd.Flags().GetBool("rescan")
		g, err := impactGraph(ctx, cfg, logger, rescan)
		if err != nil {
			log.Fatalf("Failed to load pages: %v", err)
		}

		root, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to get current directory: %v", err)
		}

		fmt.Println("🔍 Analyzing impact...")
		report := analysis.NewAnalyzer(root, g).AnalyzeImpact(changes)
		fmt.Printf("  -> %d pages directly affected\n", len(report.DirectlyAffected))
		for _, p := range report.DirectlyAffected {
			fmt.Printf("     %s (%s), referenced by %d\n", p.Title, p.URL, g.InDegree(p.Ident))
		}
		fmt.Printf("  -> %d pages indirectly affected (referring pages)\n", len(report.IndirectlyAffected))
		for _, p := range report.IndirectlyAffected {
			fmt.Printf("     %s (%s)\n", p.Title, p.URL)
		}
	},
}

// impactGraph returns the reference graph the impact command analyzes. The
// pages an earlier build stored in the database are used when there are
// any; otherwise the include paths are scanned.
func impactGraph(ctx context.Context, cfg *config.Config, logger *slog.Logger, rescan bool) (*graph.Graph, error) {
	if _, err := os.Stat(cfg.DB); err == nil && !rescan {
		store, err := storage.NewSQLiteStore(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		recs, err := store.LoadPages(ctx)
		if err != nil {
			return nil, err
		}
		if len(recs) > 0 {
			fmt.Printf("📦 Using %d page(s) stored in %s\n", len(recs), cfg.DB)
			return graph.FromStoredRecords(recs), nil
		}
		logger.Debug("database holds no pages", "path", cfg.DB)
	}

	res, err := pipeline.NewBuilder(cfg, logger).WithOutput(os.Stderr).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	refs := res.Doc.BuildRefTable(cfg.HTML.Postfix)
	recs := pipeline.Records(res.Doc, pipeline.Entries(cfg, res.Doc, refs))
	return graph.FromRecords(recs, refs), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("escrido %s\n", version)
	},
}

func init() {
	searchCmd.Flags().Int("limit", 20, "Maximum number of results")
	impactCmd.Flags().Bool("rescan", false, "Scan the include paths even when the database holds pages")
}
