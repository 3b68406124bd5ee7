package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	blockOpen  = "/*#"
	blockClose = "*/"
	lineOpen   = "//#"
)

// Extractor finds documentation comments. Files of a known language are
// parsed with tree-sitter, everything else is scanned byte by byte.
type Extractor struct {
	languages map[string]LanguageExtractor // by file extension
}

// NewExtractor creates an extractor for the given languages, or for all
// supported ones when none is named.
func NewExtractor(langs ...string) (*Extractor, error) {
	if len(langs) == 0 {
		for name := range byLanguage {
			langs = append(langs, name)
		}
	}
	e := &Extractor{languages: make(map[string]LanguageExtractor)}
	for _, lang := range langs {
		le, ok := byLanguage[lang]
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s", lang)
		}
		for ext, name := range byExtension {
			if name == lang {
				e.languages[ext] = le
			}
		}
	}
	return e, nil
}

// Language returns the grammar used for path, or "text".
func (e *Extractor) Language(path string) string {
	if le, ok := e.languages[strings.ToLower(filepath.Ext(path))]; ok {
		return le.Name()
	}
	return "text"
}

// ExtractFromFile reads a file and returns its documentation comments in
// source order.
func (e *Extractor) ExtractFromFile(path string) ([]*Comment, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(context.Background(), path, src)
}

// Extract returns the documentation comments of src.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte) ([]*Comment, error) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	le, ok := e.languages[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return scanText(path, src), nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(le.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(le.GetQuery()), le.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var comments []*Comment
	var last *sitter.Node
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			node := c.Node
			start := int(node.StartPoint().Row) + 1
			end := int(node.EndPoint().Row) + 1
			text := node.Content(src)

			switch {
			case strings.HasPrefix(text, blockOpen):
				comments = append(comments, &Comment{
					Filepath:  path,
					Language:  le.Name(),
					StartLine: start,
					EndLine:   end,
					Kind:      CommentBlock,
					Text:      blockText(text),
				})
			case strings.HasPrefix(text, lineOpen):
				line := strings.TrimPrefix(text, lineOpen)
				if n := len(comments); n > 0 && adjacent(comments[n-1], last, node) {
					prev := comments[n-1]
					prev.Text += "\n" + line
					prev.EndLine = end
				} else {
					comments = append(comments, &Comment{
						Filepath:  path,
						Language:  le.Name(),
						StartLine: start,
						EndLine:   end,
						Kind:      CommentLine,
						Text:      line,
					})
				}
			}
			last = node
		}
	}
	return comments, nil
}

// adjacent reports whether node continues the line comment prev ended with
// the previous capture.
func adjacent(prev *Comment, last, node *sitter.Node) bool {
	return prev.Kind == CommentLine && last != nil &&
		last.EndPoint().Row+1 == node.StartPoint().Row &&
		prev.EndLine == int(last.EndPoint().Row)+1
}

// blockText strips "/*#" and "#*/" from a block comment.
func blockText(s string) string {
	s = strings.TrimPrefix(s, blockOpen)
	s = strings.TrimSuffix(s, blockClose)
	return strings.TrimSuffix(s, "#")
}
