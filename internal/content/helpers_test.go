package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"escrido/internal/reftable"
)

// feed pushes src through u, turning "@name" into tag events.
func feed(u *Unit, src string) *Unit {
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '@' && i+1 < len(src) && isLetter(src[i+1]) {
			j := i + 1
			for j < len(src) && isLetter(src[j]) {
				j++
			}
			u.AppendTag(src[i+1 : j])
			i = j - 1
			continue
		}
		u.AppendString(string(c))
	}
	return u
}

func parse(kind UnitKind, src string) *Unit {
	u := feed(NewUnit(kind), src)
	u.CloseWrite()
	return u
}

func chunkTypes(b *Block) []ChunkType {
	out := make([]ChunkType, 0, len(b.chunks))
	for _, c := range b.chunks {
		out = append(out, c.typ)
	}
	return out
}

func chunkTexts(b *Block) []string {
	out := make([]string, 0, len(b.chunks))
	for _, c := range b.chunks {
		out = append(out, string(c.text))
	}
	return out
}

func countChunks(b *Block, t ChunkType) int {
	n := 0
	for _, c := range b.chunks {
		if c.typ == t {
			n++
		}
	}
	return n
}

var scopePairs = map[ChunkType]ChunkType{
	ChunkEndParagraph: ChunkStartParagraph,
	ChunkEndTable:     ChunkStartTable,
	ChunkEndUL:        ChunkStartUL,
	ChunkEndCode:      ChunkStartCode,
	ChunkEndVerbatim:  ChunkStartVerbatim,
}

// balanced reports whether every opening chunk is closed in nesting order.
func balanced(b *Block) bool {
	var stack []ChunkType
	for _, c := range b.chunks {
		switch c.typ {
		case ChunkStartParagraph, ChunkStartTable, ChunkStartUL, ChunkStartCode, ChunkStartVerbatim:
			stack = append(stack, c.typ)
		case ChunkEndParagraph, ChunkEndTable, ChunkEndUL, ChunkEndCode, ChunkEndVerbatim:
			if len(stack) == 0 || stack[len(stack)-1] != scopePairs[c.typ] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

var voidElements = map[string]bool{"br": true, "img": true, "hr": true}

// requireBalancedHTML checks that every element opened in s is closed again.
func requireBalancedHTML(t *testing.T, s string) {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(s))
	var stack []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			require.Empty(t, stack, "unclosed elements in:\n%s", s)
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			require.NotEmpty(t, stack, "stray </%s> in:\n%s", name, s)
			require.Equal(t, stack[len(stack)-1], string(name), "mismatched close in:\n%s", s)
			stack = stack[:len(stack)-1]
		}
	}
}

func fooRefs() *reftable.Table {
	refs := reftable.New()
	refs.AddWithText("foo", "page_foo.html", "Foo Title")
	return refs
}
