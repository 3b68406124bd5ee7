package content

var blockTags = map[string]TagType{
	"attribute":     TagAttribute,
	"author":        TagAuthor,
	"brief":         TagBrief,
	"copyright":     TagCopyright,
	"date":          TagDate,
	"details":       TagDetails,
	"example":       TagExample,
	"feature":       TagFeature,
	"image":         TagImage,
	"ingroup":       TagIngroup,
	"internal":      TagInternal,
	"namespace":     TagNamespace,
	"note":          TagNote,
	"order":         TagOrder,
	"output":        TagOutput,
	"par":           TagParagraph,
	"param":         TagParam,
	"remark":        TagRemark,
	"return":        TagReturn,
	"see":           TagSee,
	"section":       TagSection,
	"signature":     TagSignature,
	"subsection":    TagSubsection,
	"subsubsection": TagSubsubsection,
	"version":       TagVersion,
}

var inlineTags = map[string]InlineTag{
	"code":        InlineCode,
	"endcode":     InlineEndCode,
	"link":        InlineLink,
	"lb":          InlineLineBreak,
	"ref":         InlineRef,
	"table":       InlineTable,
	"endtable":    InlineEndTable,
	"verbatim":    InlineVerbatim,
	"endverbatim": InlineEndVerbatim,
}

// LookupBlockTag resolves a block tag name. Matching is exact and case-sensitive.
func LookupBlockTag(name string) (TagType, bool) {
	t, ok := blockTags[name]
	return t, ok
}

// LookupInlineTag resolves an inline tag name.
func LookupInlineTag(name string) (InlineTag, bool) {
	t, ok := inlineTags[name]
	return t, ok
}
