// Package graph links documentation pages by their references.
package graph

import (
	"sort"
	"strings"

	"escrido/internal/reftable"
	"escrido/internal/storage"
)

// Node represents a page in the reference graph.
type Node struct {
	Page storage.PageRecord
}

// Edge represents a directed relationship between two pages.
type Edge struct {
	From string // referring page ident
	To   string // referred page ident
	Kind RelationKind
}

// Resolver maps reference identifiers to links.
type Resolver interface {
	Lookup(ident string) (reftable.Ref, bool)
}

// Graph manages pages and their relationships.
type Graph struct {
	Nodes      map[string]*Node
	Edges      []Edge
	Unresolved []Unresolved

	// page URL -> ident, for references to sections
	byURL map[string]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: []Edge{},
		byURL: make(map[string]string),
	}
}

// AddPage adds a page as a node and indexes it.
func (g *Graph) AddPage(rec storage.PageRecord) {
	if rec.Ident == "" {
		return
	}
	g.Nodes[rec.Ident] = &Node{Page: rec}
	if rec.URL != "" {
		g.byURL[rec.URL] = rec.Ident
	}
}

// LinkReferences resolves the references of every page to pages. A
// reference to a section links to the page holding the section.
// Identifiers known to refs whose page is not in the graph are reported as
// filtered. refs may be nil.
func (g *Graph) LinkReferences(refs Resolver) {
	g.Edges = []Edge{} // Reset edges
	g.Unresolved = nil

	for _, sourceID := range g.sortedIDs() {
		node := g.Nodes[sourceID]
		seen := make(map[string]bool)
		for _, target := range node.Page.References {
			targetID, reason := g.resolveTarget(target, refs)
			if targetID == "" {
				g.Unresolved = append(g.Unresolved, Unresolved{From: sourceID, Target: target, Reason: reason})
				continue
			}
			g.link(sourceID, targetID, seen)
		}
	}
}

// LinkStored links every page to the pages named by its stored Links.
// Links to pages outside the graph are dropped.
func (g *Graph) LinkStored() {
	g.Edges = []Edge{}
	g.Unresolved = nil

	for _, sourceID := range g.sortedIDs() {
		seen := make(map[string]bool)
		for _, targetID := range g.Nodes[sourceID].Page.Links {
			if _, ok := g.Nodes[targetID]; ok {
				g.link(sourceID, targetID, seen)
			}
		}
	}
}

func (g *Graph) link(from, to string, seen map[string]bool) {
	if from == to || seen[to] {
		return
	}
	seen[to] = true
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: RelationRefersTo})
}

// resolveTarget finds the page a reference identifier stands for.
func (g *Graph) resolveTarget(target string, refs Resolver) (string, UnresolvedReason) {
	// 1. Page identifier
	if _, ok := g.Nodes[target]; ok {
		return target, ""
	}
	if refs == nil {
		return "", ReasonNoCandidate
	}

	// 2. Section anchor: the page part of its link
	ref, ok := refs.Lookup(target)
	if !ok {
		return "", ReasonNoCandidate
	}
	url, _, _ := strings.Cut(ref.Link, "#")
	if id, ok := g.byURL[url]; ok {
		return id, ""
	}
	return "", ReasonFiltered
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetDependencies returns the pages the given page refers to, in reference
// order.
func (g *Graph) GetDependencies(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.From == id && edge.Kind == RelationRefersTo {
			if node, ok := g.Nodes[edge.To]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}

// GetDependents returns the pages referring to the given page.
func (g *Graph) GetDependents(id string) []*Node {
	var deps []*Node
	for _, edge := range g.Edges {
		if edge.To == id && edge.Kind == RelationRefersTo {
			if node, ok := g.Nodes[edge.From]; ok {
				deps = append(deps, node)
			}
		}
	}
	return deps
}
