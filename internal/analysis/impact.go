// Package analysis finds the documentation pages touched by source changes.
package analysis

import (
	"path/filepath"
	"sort"

	"escrido/internal/git"
	"escrido/internal/graph"
	"escrido/internal/storage"
)

// ImpactReport summarizes the pages affected by changes.
type ImpactReport struct {
	// DirectlyAffected pages have content from a changed line.
	DirectlyAffected []storage.PageRecord
	// IndirectlyAffected pages refer to a directly affected page.
	IndirectlyAffected []storage.PageRecord
}

// Analyzer performs impact analysis on the reference graph of a build.
type Analyzer struct {
	root  string
	graph *graph.Graph
}

// NewAnalyzer creates an analyzer. Source paths of the pages are matched
// against changed paths relative to root.
func NewAnalyzer(root string, g *graph.Graph) *Analyzer {
	return &Analyzer{root: root, graph: g}
}

// AnalyzeImpact identifies which pages are affected by the given changes.
func (a *Analyzer) AnalyzeImpact(changes []git.ChangedFile) *ImpactReport {
	report := &ImpactReport{
		DirectlyAffected:   []storage.PageRecord{},
		IndirectlyAffected: []storage.PageRecord{},
	}

	byPath := make(map[string][]git.ChangedFile)
	for _, c := range changes {
		p := filepath.ToSlash(filepath.Clean(c.Path))
		byPath[p] = append(byPath[p], c)
	}

	// 1. Direct: a source span holds a changed line
	direct := make(map[string]bool)
	for id, node := range a.graph.Nodes {
		if a.touched(node.Page, byPath) {
			direct[id] = true
			report.DirectlyAffected = append(report.DirectlyAffected, node.Page)
		}
	}

	// 2. Indirect: the page refers to a direct one
	indirect := make(map[string]bool)
	for id := range direct {
		for _, dep := range a.graph.GetDependents(id) {
			if direct[dep.Page.Ident] || indirect[dep.Page.Ident] {
				continue
			}
			indirect[dep.Page.Ident] = true
			report.IndirectlyAffected = append(report.IndirectlyAffected, dep.Page)
		}
	}

	sortByIdent(report.DirectlyAffected)
	sortByIdent(report.IndirectlyAffected)
	return report
}

func (a *Analyzer) touched(p storage.PageRecord, byPath map[string][]git.ChangedFile) bool {
	for _, src := range p.Sources {
		for _, c := range byPath[a.relative(src.File)] {
			if c.Touches(src.Start, src.End) {
				return true
			}
		}
	}
	return false
}

// relative maps a scanned file path to the form git reports.
func (a *Analyzer) relative(path string) string {
	if a.root != "" && filepath.IsAbs(path) == filepath.IsAbs(a.root) {
		if rel, err := filepath.Rel(a.root, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func sortByIdent(recs []storage.PageRecord) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Ident < recs[j].Ident })
}
