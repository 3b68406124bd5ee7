package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
)

// All supported grammars name their comment node "comment".
const commentQuery = `(comment) @comment`

type GoExtractor struct{}

func (GoExtractor) GetLanguage() *sitter.Language { return golang.GetLanguage() }
func (GoExtractor) GetQuery() string              { return commentQuery }
func (GoExtractor) Name() string                  { return "go" }

type JavaScriptExtractor struct{}

func (JavaScriptExtractor) GetLanguage() *sitter.Language { return javascript.GetLanguage() }
func (JavaScriptExtractor) GetQuery() string              { return commentQuery }
func (JavaScriptExtractor) Name() string                  { return "javascript" }

type CExtractor struct{}

func (CExtractor) GetLanguage() *sitter.Language { return c.GetLanguage() }
func (CExtractor) GetQuery() string              { return commentQuery }
func (CExtractor) Name() string                  { return "c" }

type CppExtractor struct{}

func (CppExtractor) GetLanguage() *sitter.Language { return cpp.GetLanguage() }
func (CppExtractor) GetQuery() string              { return commentQuery }
func (CppExtractor) Name() string                  { return "cpp" }

var byLanguage = map[string]LanguageExtractor{
	"go":         GoExtractor{},
	"javascript": JavaScriptExtractor{},
	"c":          CExtractor{},
	"cpp":        CppExtractor{},
}

var byExtension = map[string]string{
	".go":  "go",
	".js":  "javascript",
	".mjs": "javascript",
	".c":   "c",
	".h":   "c",
	".cc":  "cpp",
	".cpp": "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
}
