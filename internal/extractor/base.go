package extractor

import sitter "github.com/smacker/go-tree-sitter"

// CommentKind tells how the lines of a comment were delimited.
type CommentKind int

const (
	// CommentBlock is a "/*# ... #*/" comment.
	CommentBlock CommentKind = iota
	// CommentLine is a run of "//#" comments on consecutive lines.
	CommentLine
)

func (k CommentKind) String() string {
	if k == CommentLine {
		return "line"
	}
	return "block"
}

// Comment is one documentation comment with its delimiters removed. Line i
// of Text is line StartLine+i of the source file.
type Comment struct {
	Filepath  string      `json:"filepath"`
	Language  string      `json:"language"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	Kind      CommentKind `json:"kind"`
	Text      string      `json:"text"`
}

// LanguageExtractor defines what a tree-sitter grammar must provide to have
// its comments extracted.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	Name() string
}
