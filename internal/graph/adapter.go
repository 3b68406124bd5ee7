package graph

import "escrido/internal/storage"

// FromRecords builds a linked graph of the stored pages.
func FromRecords(recs []storage.PageRecord, refs Resolver) *Graph {
	g := NewGraph()
	for _, rec := range recs {
		g.AddPage(rec)
	}
	g.LinkReferences(refs)
	return g
}

// FromStoredRecords rebuilds the graph of an earlier build from the links
// it stored.
func FromStoredRecords(recs []storage.PageRecord) *Graph {
	g := NewGraph()
	for _, rec := range recs {
		g.AddPage(rec)
	}
	g.LinkStored()
	return g
}
