package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrido/internal/config"
	"escrido/internal/storage"
)

const projectSource = `Notes for the build.
/*#
 @_mainpage_ Calculator
 @author Jane
*/

/*#
 @_refpage_ function add Add
 @brief Adds two numbers.
 @ingroup Math
 @see sub
*/

/*#
 @_refpage_ function sub Subtract
 @brief Subtracts.
 @ingroup Legacy
 @bogus
*/
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "calc.txt"), []byte(projectSource), 0644))

	cfg := config.Default()
	cfg.Include = []string{src}
	cfg.TemplateDir = filepath.Join(root, "no-templates")
	cfg.HTML.OutDir = filepath.Join(root, "html")
	cfg.LaTeX.OutDir = filepath.Join(root, "latex")
	cfg.DB = filepath.Join(root, "escrido.db")
	return cfg
}

func newBuilder(cfg *config.Config) *Builder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBuilder(cfg, logger).WithOutput(io.Discard).WithReport(NewBuildReport(cfg.Include))
}

func TestBuilder_Build(t *testing.T) {
	cfg := testConfig(t)
	cfg.LaTeX.Enabled = true
	cfg.SearchIndex.Enabled = true
	b := newBuilder(cfg)

	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Doc.Len())
	require.Len(t, res.Diagnostics, 1, "unknown tag @bogus")
	assert.Contains(t, res.Diagnostics[0].Error(), "calc.txt:")

	assert.Len(t, res.HTMLFiles, 3)
	for _, f := range res.HTMLFiles {
		assert.FileExists(t, f)
	}
	assert.FileExists(t, filepath.Join(cfg.HTML.OutDir, "function_add.html"))
	assert.Contains(t, res.Assets, filepath.Join(cfg.HTML.OutDir, "style.css"))
	assert.FileExists(t, res.LaTeXFile)

	assert.Equal(t, filepath.Join(cfg.HTML.OutDir, "srchidx.json"), res.SearchIndex)
	data, err := os.ReadFile(res.SearchIndex)
	require.NoError(t, err)
	var entries []map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "Add", entries[1]["title"])
	assert.Equal(t, "Adds two numbers.", entries[1]["brief"])

	r := b.Report()
	r.Finalize()
	names := []string{}
	for _, st := range r.Stages {
		names = append(names, st.Name)
		assert.Equal(t, "ok", st.Status, st.Name)
	}
	assert.Equal(t, []string{"collect", "scan", "filter", "reftable", "links", "html", "search_index", "latex"}, names)
	assert.Equal(t, 3, r.Summary.PageCount)
	assert.Equal(t, 1, r.Summary.SignalsBySeverity[SeverityWarning])
	assert.Equal(t, "unrecognized_tag", r.Signals[0].Code)

	require.NotNil(t, res.Graph)
	assert.Empty(t, res.Graph.Unresolved)
	deps := res.Graph.GetDependents("sub")
	require.Len(t, deps, 1)
	assert.Equal(t, "add", deps[0].Page.Ident)
}

func TestBuilder_Build_Filters(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExcludeGrps = []string{"Legacy"}
	res, err := newBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Doc.Len())
	assert.Nil(t, res.Doc.PageByIdent("sub"))
	assert.NoFileExists(t, filepath.Join(cfg.HTML.OutDir, "function_sub.html"))
	assert.Empty(t, res.LaTeXFile)
	assert.Empty(t, res.SearchIndex)

	require.Len(t, res.Graph.Unresolved, 1, "add refers to the filtered page")
	assert.Equal(t, "sub", res.Graph.Unresolved[0].Target)
	for _, rec := range res.Records {
		assert.Empty(t, rec.Links, rec.Ident)
	}
}

func TestBuilder_Build_LinkCounters(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExcludeGrps = []string{"Legacy"}
	b := newBuilder(cfg)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	var links *StageMetric
	for i := range b.Report().Stages {
		if b.Report().Stages[i].Name == "links" {
			links = &b.Report().Stages[i]
		}
	}
	require.NotNil(t, links)
	assert.Equal(t, 1.0, links.Counters["unresolved"])
	assert.Equal(t, 1.0, links.Counters["unresolved_no_candidate"])
	assert.Equal(t, 0.0, links.Counters["edges"])
}

func TestBuilder_Build_SQLiteIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.SearchIndex.Enabled = true
	cfg.SearchIndex.Encoding = "sqlite"
	res, err := newBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.DB, res.SearchIndex)

	store, err := storage.NewSQLiteStore(cfg.DB)
	require.NoError(t, err)
	defer store.Close()

	recs, err := store.LoadPages(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)

	var add storage.PageRecord
	for _, rec := range recs {
		if rec.Ident == "add" {
			add = rec
		}
	}
	require.Equal(t, "add", add.Ident)
	assert.Equal(t, []string{"sub"}, add.Links)
	assert.Equal(t, []string{"Math"}, add.Groups)
	assert.Equal(t, []string{"sub"}, add.References)
	require.Len(t, add.Sources, 1)
	assert.True(t, strings.HasSuffix(add.Sources[0].File, "calc.txt"))

	hits, err := store.SearchPages(context.Background(), "subtracts", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sub", hits[0].Ident)
}

func TestBuilder_Build_HTMLDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTML.Enabled = false
	cfg.SearchIndex.Enabled = true
	res, err := newBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.HTMLFiles)
	assert.Empty(t, res.SearchIndex, "the index is written next to the HTML pages only")
	assert.NoDirExists(t, cfg.HTML.OutDir)
}

func TestBuilder_Build_MissingInclude(t *testing.T) {
	cfg := testConfig(t)
	cfg.Include = []string{filepath.Join(t.TempDir(), "missing")}
	_, err := newBuilder(cfg).Build(context.Background())
	assert.Error(t, err)
}

func TestBuilder_Build_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBuilder(testConfig(t)).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilReportIsIgnored(t *testing.T) {
	var r *BuildReport
	h := r.BeginStage("x")
	r.EndStage(h, "ok", nil, nil, nil)
	r.AddSignal("c", "s", SeverityInfo, "m", 0)
	r.AddOutputs("a")
	assert.NoError(t, r.Save(filepath.Join(t.TempDir(), "r.json")))
}

func TestBuildReport_Save(t *testing.T) {
	r := NewBuildReport([]string{"src"})
	h := r.BeginStage("scan")
	r.EndStage(h, "", map[string]float64{"pages": 2, " ": 1}, []string{" note ", ""}, nil)
	h = r.BeginStage("html")
	r.EndStage(h, "ok", nil, nil, assert.AnError)
	r.AddSignal("markup", "scan", "INFO", "minor", 0)
	r.AddSignal("missing_template", "html", SeverityWarning, "no template", 1)
	r.AddSignal("", "scan", SeverityInfo, "dropped", 0)

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded BuildReport
	require.NoError(t, json.Unmarshal(data, &loaded))

	require.Len(t, loaded.Stages, 2)
	assert.Equal(t, map[string]float64{"pages": 2}, loaded.Stages[0].Counters)
	assert.Equal(t, []string{"note"}, loaded.Stages[0].Notes)
	assert.Equal(t, "error", loaded.Stages[1].Status)
	assert.Equal(t, 1, loaded.Summary.FailedStages)

	require.Len(t, loaded.Signals, 2)
	assert.Equal(t, "missing_template", loaded.Signals[0].Code, "warnings sort first")
	assert.Equal(t, "info", loaded.Signals[1].Severity)
	assert.Equal(t, 1, loaded.Summary.SignalsBySeverity[SeverityInfo])
}
