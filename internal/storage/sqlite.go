package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"escrido/internal/doc"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			ident TEXT PRIMARY KEY,
			kind TEXT,
			type_id TEXT,
			title TEXT,
			brief TEXT,
			url TEXT,
			content TEXT,
			group_names JSON,
			refs JSON,
			links JSON
		);`,
		`CREATE TABLE IF NOT EXISTS sources (
			ident TEXT,
			filepath TEXT,
			start_line INTEGER,
			end_line INTEGER,
			PRIMARY KEY (ident, filepath, start_line)
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}

	// Databases written before links were stored lack the column.
	if _, err := s.db.Exec(`ALTER TABLE pages ADD COLUMN links JSON`); err != nil && !strings.Contains(err.Error(), "duplicate column") {
		return err
	}
	return nil
}

const upsertPage = `
	INSERT INTO pages (ident, kind, type_id, title, brief, url, content, group_names, refs, links)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(ident) DO UPDATE SET
		kind=excluded.kind,
		type_id=excluded.type_id,
		title=excluded.title,
		brief=excluded.brief,
		url=excluded.url,
		content=excluded.content,
		group_names=excluded.group_names,
		refs=excluded.refs,
		links=excluded.links
`

const insertSource = `
	INSERT INTO sources (ident, filepath, start_line, end_line) VALUES (?, ?, ?, ?)
	ON CONFLICT(ident, filepath, start_line) DO UPDATE SET end_line=excluded.end_line
`

const selectPage = "SELECT ident, kind, type_id, title, brief, url, content, group_names, refs, links FROM pages"

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func savePage(ctx context.Context, ex execer, rec PageRecord) error {
	groups, _ := json.Marshal(rec.Groups)
	refs, _ := json.Marshal(rec.References)
	links, _ := json.Marshal(rec.Links)
	if _, err := ex.ExecContext(ctx, upsertPage, rec.Ident, rec.Kind, rec.TypeID, rec.Title, rec.Brief, rec.URL, rec.Content, groups, refs, links); err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, "DELETE FROM sources WHERE ident = ?", rec.Ident); err != nil {
		return err
	}
	for _, src := range rec.Sources {
		if _, err := ex.ExecContext(ctx, insertSource, rec.Ident, src.File, src.Start, src.End); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SavePages(ctx context.Context, recs []PageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The snapshot replaces what an earlier build stored.
	for _, q := range []string{"DELETE FROM sources", "DELETE FROM pages"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	for _, rec := range recs {
		if err := savePage(ctx, tx, rec); err != nil {
			return fmt.Errorf("save page %s: %w", rec.Ident, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadPages(ctx context.Context) ([]PageRecord, error) {
	return s.queryPages(ctx, selectPage+" ORDER BY ident")
}

func (s *SQLiteStore) SearchPages(ctx context.Context, query string, limit int) ([]PageRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.queryPages(ctx, selectPage+`
		WHERE title LIKE ?1 ESCAPE '\' OR brief LIKE ?1 ESCAPE '\' OR content LIKE ?1 ESCAPE '\'
		ORDER BY (title LIKE ?1 ESCAPE '\') DESC, (brief LIKE ?1 ESCAPE '\') DESC, title
		LIMIT ?2`, pattern, limit)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func (s *SQLiteStore) queryPages(ctx context.Context, query string, args ...any) ([]PageRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var recs []PageRecord
	for rows.Next() {
		var rec PageRecord
		var groups, refs, links []byte
		if err := rows.Scan(&rec.Ident, &rec.Kind, &rec.TypeID, &rec.Title, &rec.Brief, &rec.URL, &rec.Content, &groups, &refs, &links); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if len(groups) > 0 {
			_ = json.Unmarshal(groups, &rec.Groups)
		}
		if len(refs) > 0 {
			_ = json.Unmarshal(refs, &rec.References)
		}
		if len(links) > 0 {
			_ = json.Unmarshal(links, &rec.Links)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range recs {
		src, err := s.loadSources(ctx, recs[i].Ident)
		if err != nil {
			return nil, err
		}
		recs[i].Sources = src
	}
	return recs, nil
}

func (s *SQLiteStore) loadSources(ctx context.Context, ident string) ([]doc.Span, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT filepath, start_line, end_line FROM sources WHERE ident = ? ORDER BY filepath, start_line", ident)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var spans []doc.Span
	for rows.Next() {
		var sp doc.Span
		if err := rows.Scan(&sp.File, &sp.Start, &sp.End); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		spans = append(spans, sp)
	}
	return spans, rows.Err()
}
