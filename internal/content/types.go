// Package content implements the markup content model: chunks, tag blocks
// and content units, together with their HTML and LaTeX renderers.
//
// Parsing is incremental. A tokenizer feeds characters, blanks, line breaks
// and tag names into a Unit, which routes them into the current Block. Each
// Block keeps a stack of write modes that decides which Chunk a character
// lands in. Rendering walks the tree the other way round and needs a
// WriteContext for indentation and reference resolution.
package content

import "fmt"

// ChunkType is the closed set of chunk kinds.
type ChunkType int

const (
	ChunkUndefined ChunkType = iota
	ChunkHTMLText
	ChunkPlainText
	ChunkTitleDelim
	ChunkNewLine
	ChunkStartParagraph
	ChunkEndParagraph
	ChunkStartTable
	ChunkEndTable
	ChunkNewTableCell
	ChunkNewTableRow
	ChunkStartUL
	ChunkEndUL
	ChunkULItem
	ChunkRef
	ChunkLink
	ChunkStartCode
	ChunkEndCode
	ChunkStartVerbatim
	ChunkEndVerbatim

	chunkTypeCount
)

var chunkTypeNames = [...]string{
	ChunkUndefined:      "UNDEFINED",
	ChunkHTMLText:       "HTML_TEXT",
	ChunkPlainText:      "PLAIN_TEXT",
	ChunkTitleDelim:     "DELIM_TITLE_LINE",
	ChunkNewLine:        "NEW_LINE",
	ChunkStartParagraph: "START_PARAGRAPH",
	ChunkEndParagraph:   "END_PARAGRAPH",
	ChunkStartTable:     "START_TABLE",
	ChunkEndTable:       "END_TABLE",
	ChunkNewTableCell:   "NEW_TABLE_CELL",
	ChunkNewTableRow:    "NEW_TABLE_ROW",
	ChunkStartUL:        "START_UL",
	ChunkEndUL:          "END_UL",
	ChunkULItem:         "UL_ITEM",
	ChunkRef:            "REF",
	ChunkLink:           "LINK",
	ChunkStartCode:      "START_CODE",
	ChunkEndCode:        "END_CODE",
	ChunkStartVerbatim:  "START_VERBATIM",
	ChunkEndVerbatim:    "END_VERBATIM",
}

func (t ChunkType) String() string {
	if t >= 0 && t < chunkTypeCount {
		return chunkTypeNames[t]
	}
	return fmt.Sprintf("ChunkType(%d)", int(t))
}

// IsText reports whether characters may be appended to chunks of this type.
func (t ChunkType) IsText() bool {
	return t == ChunkHTMLText || t == ChunkPlainText
}

// WriteMode is one entry of a block's structural scope stack.
type WriteMode int

const (
	ModeTitleLine WriteMode = iota
	ModePlainText
	ModeParagraph
	ModeTable
	ModeUL
	ModeVerbatim
)

func (m WriteMode) String() string {
	switch m {
	case ModeTitleLine:
		return "TITLE_LINE"
	case ModePlainText:
		return "PLAIN_TEXT"
	case ModeParagraph:
		return "PARAGRAPH"
	case ModeTable:
		return "TABLE"
	case ModeUL:
		return "UL"
	case ModeVerbatim:
		return "VERBATIM"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// TagType is the semantic kind of a tag block.
type TagType int

const (
	TagParagraph TagType = iota
	TagAttribute
	TagAuthor
	TagBrief
	TagCopyright
	TagDate
	TagDetails
	TagExample
	TagFeature
	TagImage
	TagIngroup
	TagInternal
	TagNamespace
	TagNote
	TagOrder
	TagOutput
	TagParam
	TagRemark
	TagReturn
	TagSee
	TagSection
	TagSignature
	TagSubsection
	TagSubsubsection
	TagVersion

	tagTypeCount
)

func (t TagType) String() string {
	if t == TagParagraph {
		return "par"
	}
	for name, tt := range blockTags {
		if tt == t {
			return name
		}
	}
	return fmt.Sprintf("TagType(%d)", int(t))
}

// Verbatim reports whether blocks of this type keep their text literally.
func (t TagType) Verbatim() bool {
	return t == TagExample || t == TagOutput
}

// HasTitleLine reports whether the first line of such a block is a title.
func (t TagType) HasTitleLine() bool {
	switch t {
	case TagSection, TagSubsection, TagSubsubsection, TagImage, TagFeature, TagIngroup:
		return true
	}
	return false
}

// InlineTag is a tag acting inside the content stream of a block.
type InlineTag int

const (
	InlineCode InlineTag = iota
	InlineEndCode
	InlineLink
	InlineLineBreak
	InlineRef
	InlineTable
	InlineEndTable
	InlineVerbatim
	InlineEndVerbatim
)

func (t InlineTag) String() string {
	for name, it := range inlineTags {
		if it == t {
			return name
		}
	}
	return fmt.Sprintf("InlineTag(%d)", int(t))
}

// UnitKind selects how a unit interprets line breaks.
type UnitKind int

const (
	UnitUnset UnitKind = iota
	UnitSingleLine
	UnitMultiLine
)

func (k UnitKind) String() string {
	switch k {
	case UnitSingleLine:
		return "single-line"
	case UnitMultiLine:
		return "multi-line"
	default:
		return "unset"
	}
}
