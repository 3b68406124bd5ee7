package storage

import (
	"context"

	"escrido/internal/doc"
	"escrido/internal/search"
)

// PageRecord is the persisted form of one documentation page.
type PageRecord struct {
	Ident      string
	Kind       string
	TypeID     string
	Title      string
	Brief      string
	URL        string
	Content    string
	Groups     []string
	References []string
	Links      []string // idents of the pages the references resolved to
	Sources    []doc.Span
}

// NewPageRecord combines a page with its search index entry.
func NewPageRecord(p *doc.Page, e search.Entry) PageRecord {
	return PageRecord{
		Ident:      p.Ident(),
		Kind:       p.Kind().String(),
		TypeID:     p.TypeID(),
		Title:      e.Title,
		Brief:      e.Brief,
		URL:        e.URL,
		Content:    e.Content,
		Groups:     p.GroupNames(),
		References: p.References(),
		Sources:    p.Sources(),
	}
}

// Store persists the pages of the last build.
type Store interface {
	PageStore
	Close() error
}

// PageStore defines operations on the page catalog.
type PageStore interface {
	// SavePages replaces the stored pages with the given snapshot.
	SavePages(ctx context.Context, recs []PageRecord) error

	// LoadPages returns all stored pages ordered by identifier.
	LoadPages(ctx context.Context) ([]PageRecord, error)

	// SearchPages returns pages whose title, brief or content contains
	// the query. Title matches rank first.
	SearchPages(ctx context.Context, query string, limit int) ([]PageRecord, error)
}
