// Package search builds the client-side search index of a documentation.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"escrido/internal/content"
	"escrido/internal/doc"
)

// Encoding selects the file format of the index.
type Encoding string

const (
	EncodingJSON   Encoding = "json"
	EncodingJS     Encoding = "js"
	EncodingSQLite Encoding = "sqlite"
)

// ParseEncoding maps a configuration value to an encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(s); e {
	case EncodingJSON, EncodingJS, EncodingSQLite:
		return e, nil
	}
	return "", fmt.Errorf("unknown search index encoding %q", s)
}

// Entry is the index record of one page.
type Entry struct {
	Ident   string `json:"-"`
	Title   string `json:"title"`
	Brief   string `json:"brief"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Build returns one entry per page in page order. ctx must not be shared
// with a concurrent render.
func Build(d *doc.Documentation, ctx *content.WriteContext, postfix string) []Entry {
	pages := d.Pages()
	entries := make([]Entry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, Entry{
			Ident:   p.Ident(),
			Title:   p.Title(),
			Brief:   p.ClearTextBrief(ctx),
			URL:     p.URL(postfix),
			Content: p.ClearTextContent(ctx),
		})
	}
	return entries
}

// jsPrefix turns the JSON array into a script defining a global.
const jsPrefix = "const searchIndex = "

// Encode writes the entries as a JSON array, or as a script assigning the
// array for EncodingJS.
func Encode(w io.Writer, entries []Entry, enc Encoding) error {
	var buf bytes.Buffer
	if enc == EncodingJS {
		buf.WriteString(jsPrefix)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	buf.Write(data)
	if enc == EncodingJS {
		buf.WriteString(";")
	}
	buf.WriteString("\n")
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteFile encodes the entries into path.
func WriteFile(path string, entries []Entry, enc Encoding) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, entries, enc); err != nil {
		f.Close()
		return fmt.Errorf("write search index %s: %w", path, err)
	}
	return f.Close()
}
