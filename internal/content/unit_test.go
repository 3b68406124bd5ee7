package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_LineBreaks(t *testing.T) {
	t.Run("single break joins lines", func(t *testing.T) {
		b := feed(NewUnit(UnitMultiLine), "line one\nline two").Block(0)
		assert.Equal(t, []ChunkType{ChunkStartParagraph, ChunkHTMLText}, chunkTypes(b))
		assert.Equal(t, "line one line two", b.chunks[1].Text())
		assert.Equal(t, []WriteMode{ModeParagraph}, b.Modes())
	})

	t.Run("empty line closes paragraph", func(t *testing.T) {
		u := NewUnit(UnitMultiLine)
		u.AppendString("para one")
		u.AppendLineBreak()
		require.Zero(t, countChunks(u.Block(0), ChunkEndParagraph))
		u.AppendLineBreak()
		u.AppendChar('x')

		b := u.Block(0)
		assert.Equal(t, []ChunkType{
			ChunkStartParagraph, ChunkHTMLText, ChunkEndParagraph, ChunkStartParagraph, ChunkHTMLText,
		}, chunkTypes(b))
		assert.Equal(t, "para one", b.chunks[1].Text())
	})

	t.Run("comment stars are dropped", func(t *testing.T) {
		b := parse(UnitMultiLine, "First line\n * second line\n *\n * Next para").Block(0)
		assert.Equal(t, []ChunkType{
			ChunkStartParagraph, ChunkHTMLText, ChunkEndParagraph,
			ChunkStartParagraph, ChunkHTMLText, ChunkEndParagraph,
		}, chunkTypes(b))
		assert.Equal(t, "First line second line", b.chunks[1].Text())
		assert.Equal(t, "Next para", b.chunks[4].Text())
	})

	t.Run("single-line comments", func(t *testing.T) {
		b := parse(UnitSingleLine, " First line\n second\n\n Next").Block(0)
		assert.Equal(t, []ChunkType{
			ChunkStartParagraph, ChunkHTMLText, ChunkEndParagraph,
			ChunkStartParagraph, ChunkHTMLText, ChunkEndParagraph,
		}, chunkTypes(b))
		assert.Equal(t, "First line second", b.chunks[1].Text())
		assert.Equal(t, "Next", b.chunks[4].Text())
	})
}

func TestUnit_BlockTags(t *testing.T) {
	u := parse(UnitMultiLine, "@brief Short.\n@param x The x.\n@param y The y.")
	require.Equal(t, 3, u.Len())
	assert.Empty(t, u.Diagnostics())

	assert.Equal(t, TagBrief, u.Block(0).Type())
	assert.Equal(t, "Short.", u.Block(0).PlainText())
	assert.Equal(t, 2, u.CountBlocks(TagParam))
	assert.True(t, u.HasBlock(TagBrief))
	assert.False(t, u.HasBlock(TagSee))

	y := u.BlockByIdent(TagParam, "y")
	require.NotNil(t, y)
	assert.Equal(t, "The y.", y.PlainAllButFirstWord())
	assert.Nil(t, u.BlockByIdent(TagParam, "z"))
}

func TestUnit_Diagnostics(t *testing.T) {
	t.Run("block tag inside a line", func(t *testing.T) {
		u := parse(UnitMultiLine, "text @param x")
		require.Len(t, u.Diagnostics(), 1)
		err := u.Diagnostics()[0]
		assert.True(t, errors.Is(err, ErrBlockTagNotAtLineStart))

		var te *TagError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "param", te.Tag)
		assert.Equal(t, "block tag not starting in new line '@param'", err.Error())

		assert.Equal(t, 1, u.Len())
		assert.Equal(t, "text x", u.Block(0).PlainText())
	})

	t.Run("unknown tag", func(t *testing.T) {
		u := parse(UnitMultiLine, "@bogus hello")
		require.Len(t, u.Diagnostics(), 1)
		assert.ErrorIs(t, u.Diagnostics()[0], ErrUnrecognizedTag)
		assert.Equal(t, "hello", u.Block(0).PlainText())
	})
}

func TestUnit_VerbatimBlock(t *testing.T) {
	u := parse(UnitMultiLine, "@example\nfoo @bar(x)\n  indented\n@param y desc")
	require.Equal(t, 2, u.Len())

	ex := u.Block(0)
	assert.Equal(t, TagExample, ex.Type())
	assert.Equal(t, []ChunkType{ChunkPlainText, ChunkNewLine, ChunkPlainText}, chunkTypes(ex))
	assert.Equal(t, "foo @bar(x)\n  indented", ex.PlainText())
	assert.Empty(t, u.Diagnostics())

	assert.Equal(t, TagParam, u.Block(1).Type())
}

func TestUnit_AppendUnit(t *testing.T) {
	src := parse(UnitMultiLine, "@param x X.")

	t.Run("into empty unit", func(t *testing.T) {
		u := NewUnit(UnitMultiLine)
		u.AppendUnit(src)
		require.Equal(t, 1, u.Len())
		assert.Equal(t, TagParam, u.Block(0).Type())
	})

	t.Run("after content", func(t *testing.T) {
		u := parse(UnitMultiLine, "@brief A.")
		u.AppendUnit(src)
		require.Equal(t, 2, u.Len())
		assert.Equal(t, TagBrief, u.Block(0).Type())
		assert.Equal(t, TagParam, u.Block(1).Type())
	})

	t.Run("blocks are copied", func(t *testing.T) {
		other := feed(NewUnit(UnitMultiLine), "@param z Z")
		u := NewUnit(UnitMultiLine)
		u.AppendUnit(other)
		feed(other, "Z")
		other.CloseWrite()
		assert.NotEqual(t, other.Block(0).PlainText(), u.Block(0).PlainText())
	})

	t.Run("diagnostics are merged", func(t *testing.T) {
		u := parse(UnitMultiLine, "@bogus")
		u.AppendUnit(parse(UnitMultiLine, "@nope"))
		assert.Len(t, u.Diagnostics(), 2)
	})
}

func TestUnit_ResetContent(t *testing.T) {
	u := parse(UnitMultiLine, "@brief A.\n@bogus")
	u.ResetContent()
	assert.True(t, u.Empty())
	assert.Empty(t, u.Diagnostics())
}
