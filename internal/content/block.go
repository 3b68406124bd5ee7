package content

import "strings"

// identState drives the argument parsing of @ref and @link.
type identState int

const (
	identOff identState = iota
	identInitIdent
	identInitURI
	identIdent
	identURI
	identAfter
	identText
)

// Block is one semantic markup unit, for example a paragraph, a parameter
// description or a section. While parsing, a stack of write modes decides
// which chunk each character ends up in.
type Block struct {
	typ    TagType
	chunks []Chunk
	modes  []WriteMode

	ident identState

	// verbatimInit swallows the line break right after @example, @output
	// and @verbatim.
	verbatimInit bool

	newLine  bool
	codeOpen bool
}

// NewBlock creates an empty block of type t.
func NewBlock(t TagType) *Block {
	b := &Block{newLine: true}
	b.init(t)
	return b
}

func (b *Block) init(t TagType) {
	b.typ = t
	if t.HasTitleLine() {
		b.modes = append(b.modes, ModeTitleLine)
	}
	b.verbatimInit = t.Verbatim()
}

// Type returns the tag type of the block.
func (b *Block) Type() TagType { return b.typ }

// Chunks returns the chunk sequence. Callers must not modify it.
func (b *Block) Chunks() []Chunk { return b.chunks }

// Modes returns a copy of the write-mode stack, innermost last.
func (b *Block) Modes() []WriteMode {
	return append([]WriteMode(nil), b.modes...)
}

// Empty reports whether the block has no content yet.
func (b *Block) Empty() bool {
	switch len(b.chunks) {
	case 0:
		return true
	case 1:
		return b.chunks[0].typ.IsText() && len(b.chunks[0].text) == 0
	}
	return false
}

// Retype gives an empty block a new tag type.
func (b *Block) Retype(t TagType) {
	b.chunks = b.chunks[:0]
	b.modes = b.modes[:0]
	b.ident = identOff
	b.codeOpen = false
	b.init(t)
}

func (b *Block) clone() *Block {
	c := *b
	c.chunks = make([]Chunk, len(b.chunks))
	for i := range b.chunks {
		c.chunks[i] = b.chunks[i].clone()
	}
	c.modes = append([]WriteMode(nil), b.modes...)
	return &c
}

// --- write-mode stack ---

func (b *Block) top() (WriteMode, bool) {
	if len(b.modes) == 0 {
		return 0, false
	}
	return b.modes[len(b.modes)-1], true
}

func (b *Block) topIs(m WriteMode) bool {
	t, ok := b.top()
	return ok && t == m
}

// ulInTable reports a list nested directly in a table.
func (b *Block) ulInTable() bool {
	n := len(b.modes)
	return n >= 2 && b.modes[n-1] == ModeUL && b.modes[n-2] == ModeTable
}

func (b *Block) push(m WriteMode) { b.modes = append(b.modes, m) }

// pop leaves the innermost scope and emits its closing chunk.
func (b *Block) pop() {
	n := len(b.modes)
	if n == 0 {
		return
	}
	m := b.modes[n-1]
	b.modes = b.modes[:n-1]
	switch m {
	case ModeParagraph:
		b.mark(ChunkEndParagraph)
	case ModeTable:
		b.mark(ChunkEndTable)
	case ModeUL:
		b.mark(ChunkEndUL)
	case ModeVerbatim:
		b.closeCode()
		b.trimVerbatimTail()
		b.add(ChunkEndVerbatim)
	default:
		b.closeCode()
	}
}

// EscapeFromWriteModes closes all scopes from the top down to and including
// the outermost one whose mode is in set.
func (b *Block) EscapeFromWriteModes(set ...WriteMode) {
	for i, m := range b.modes {
		for _, s := range set {
			if m == s {
				for len(b.modes) > i {
					b.pop()
				}
				return
			}
		}
	}
}

// closeDownTo closes scopes down to and including the innermost m.
func (b *Block) closeDownTo(m WriteMode) {
	for i := len(b.modes) - 1; i >= 0; i-- {
		if b.modes[i] == m {
			for len(b.modes) > i {
				b.pop()
			}
			return
		}
	}
}

// CloseWrite finalizes the block, closing every open scope.
func (b *Block) CloseWrite() {
	b.ident = identOff
	b.verbatimInit = false
	for len(b.modes) > 0 {
		b.pop()
	}
	b.closeCode()
	if b.typ.Verbatim() {
		b.trimVerbatimTail()
	}
}

// --- chunk helpers ---

func (b *Block) add(t ChunkType) *Chunk {
	b.chunks = append(b.chunks, NewChunk(t))
	return &b.chunks[len(b.chunks)-1]
}

func (b *Block) last() *Chunk {
	if len(b.chunks) == 0 {
		return nil
	}
	return &b.chunks[len(b.chunks)-1]
}

// mark appends a structural chunk. Open code spans are closed and trailing
// blanks of markup text are dropped first.
func (b *Block) mark(t ChunkType) {
	b.closeCode()
	if l := b.last(); l != nil && l.typ == ChunkHTMLText {
		l.trimTrailingBlanks()
	}
	b.add(t)
}

func (b *Block) closeCode() {
	if !b.codeOpen {
		return
	}
	if l := b.last(); l != nil && l.typ == ChunkPlainText {
		l.trimTrailingBlank()
	}
	b.add(ChunkEndCode)
	b.codeOpen = false
}

// trimVerbatimTail drops trailing blank text and line breaks.
func (b *Block) trimVerbatimTail() {
	for len(b.chunks) > 0 {
		l := b.last()
		switch {
		case l.typ == ChunkNewLine:
		case l.typ == ChunkPlainText && strings.Trim(string(l.text), " \t") == "":
		default:
			return
		}
		b.chunks = b.chunks[:len(b.chunks)-1]
	}
}

func (b *Block) isVerbatim() bool {
	return b.typ.Verbatim() || b.topIs(ModeVerbatim)
}

// opensContent reports chunk types after which leading blanks are dropped.
func opensContent(t ChunkType) bool {
	switch t {
	case ChunkStartParagraph, ChunkStartUL, ChunkULItem, ChunkStartTable,
		ChunkNewTableCell, ChunkNewTableRow, ChunkTitleDelim:
		return true
	}
	return false
}

// --- parsing ---

// AppendChar feeds one character into the block.
func (b *Block) AppendChar(c byte) {
	wasNewLine := b.newLine
	b.newLine = b.newLine && c == ' '

	if b.verbatimInit {
		if IsBlank(c) {
			return
		}
		b.verbatimInit = false
	}

	if b.ident != identOff && b.appendIdent(c) {
		return
	}

	if !b.isVerbatim() && !b.codeOpen {
		switch c {
		case '-':
			if wasNewLine && b.listItem() {
				return
			}
		case '|':
			if b.tableCell() {
				return
			}
		}
	}
	b.appendDefault(c)
}

func (b *Block) listItem() bool {
	top, ok := b.top()
	switch {
	case !ok:
	case top == ModePlainText:
		b.pop()
	case top == ModeParagraph:
		b.pop()
	case top == ModeTable:
	case top == ModeUL:
		b.mark(ChunkULItem)
		return true
	default:
		return false
	}
	b.push(ModeUL)
	b.mark(ChunkStartUL)
	return true
}

func (b *Block) tableCell() bool {
	switch {
	case b.topIs(ModeTable):
	case b.ulInTable():
		b.pop()
	default:
		return false
	}
	b.mark(ChunkNewTableCell)
	return true
}

// appendIdent runs the @ref/@link argument machine and reports whether c
// was consumed.
func (b *Block) appendIdent(c byte) bool {
	arg := b.last()
	if arg == nil || (arg.typ != ChunkRef && arg.typ != ChunkLink) {
		b.ident = identOff
		return false
	}
	switch b.ident {
	case identInitIdent, identInitURI:
		if IsBlank(c) {
			return true
		}
		if b.ident == identInitIdent {
			b.ident = identIdent
		} else {
			b.ident = identURI
		}
		return b.appendIdent(c)
	case identIdent:
		if IsIdentChar(c) {
			arg.AppendChar(c)
			return true
		}
		if IsBlank(c) {
			b.ident = identAfter
			return true
		}
		b.ident = identOff
		return false
	case identURI:
		if IsBlank(c) {
			b.ident = identAfter
			return true
		}
		arg.AppendChar(c)
		return true
	case identAfter:
		if IsBlank(c) {
			return true
		}
		if c == '"' {
			arg.AppendChar(' ')
			b.ident = identText
			return true
		}
		// put back the blank swallowed after the argument
		b.ident = identOff
		b.appendDefault(' ')
		return false
	case identText:
		if c == '"' {
			b.ident = identOff
			return true
		}
		arg.AppendChar(c)
		return true
	}
	return false
}

// identLineBreak adjusts the argument machine for a line break.
func (b *Block) identLineBreak() {
	switch b.ident {
	case identIdent, identURI:
		b.ident = identAfter
	case identText:
		if l := b.last(); l != nil {
			l.AppendChar(' ')
		}
	}
}

// ensureScope opens the default scope if none is active.
func (b *Block) ensureScope() {
	if len(b.modes) > 0 {
		return
	}
	if b.isVerbatim() {
		b.push(ModePlainText)
		return
	}
	b.push(ModeParagraph)
	b.mark(ChunkStartParagraph)
}

func (b *Block) appendDefault(c byte) {
	textType := ChunkHTMLText
	if b.isVerbatim() {
		textType = ChunkPlainText
	}
	if len(b.modes) == 0 {
		// leading blanks never open a paragraph
		if IsBlank(c) && !b.typ.Verbatim() {
			return
		}
		b.ensureScope()
	}
	l := b.last()
	if l == nil || !l.typ.IsText() {
		skip := textType == ChunkHTMLText && (l == nil || opensContent(l.typ))
		l = b.add(textType)
		l.skipWhite = skip
	}
	l.AppendChar(c)
}

// AppendInlineTag applies an inline tag.
func (b *Block) AppendInlineTag(t InlineTag) {
	b.ident = identOff
	b.verbatimInit = false

	switch t {
	case InlineLineBreak:
		top, ok := b.top()
		switch {
		case !ok, top == ModeTitleLine:
		case top == ModeTable:
			b.mark(ChunkNewTableRow)
		case b.ulInTable():
			b.pop()
			b.mark(ChunkNewTableRow)
		default:
			b.add(ChunkNewLine)
		}

	case InlineTable:
		b.EscapeFromWriteModes(ModePlainText, ModeParagraph, ModeVerbatim)
		b.push(ModeTable)
		b.mark(ChunkStartTable)
	case InlineEndTable:
		b.closeDownTo(ModeTable)

	case InlineRef:
		b.ensureScope()
		b.add(ChunkRef)
		b.ident = identInitIdent
	case InlineLink:
		b.ensureScope()
		b.add(ChunkLink)
		b.ident = identInitURI

	case InlineCode:
		if b.codeOpen {
			break
		}
		b.ensureScope()
		b.add(ChunkStartCode)
		b.add(ChunkPlainText).skipWhite = true
		b.codeOpen = true
	case InlineEndCode:
		b.closeCode()

	case InlineVerbatim:
		b.EscapeFromWriteModes(ModePlainText, ModeParagraph, ModeVerbatim)
		b.push(ModeVerbatim)
		b.mark(ChunkStartVerbatim)
		b.verbatimInit = true
	case InlineEndVerbatim:
		b.closeDownTo(ModeVerbatim)
	}
	b.newLine = false
}

// AppendNewLine handles a single line break.
func (b *Block) AppendNewLine() {
	b.newLine = true
	b.identLineBreak()
	if b.verbatimInit {
		b.verbatimInit = false
		return
	}
	switch {
	case b.isVerbatim():
		b.add(ChunkNewLine)
	case b.topIs(ModeTitleLine):
		b.mark(ChunkTitleDelim)
		b.pop()
	}
}

// AppendDoubleNewLine handles an empty line.
func (b *Block) AppendDoubleNewLine() {
	b.newLine = true
	b.identLineBreak()
	if b.verbatimInit {
		b.verbatimInit = false
		b.add(ChunkNewLine)
		return
	}
	if b.isVerbatim() {
		b.add(ChunkNewLine)
		return
	}
	top, ok := b.top()
	if !ok {
		return
	}
	switch top {
	case ModeTitleLine:
		b.mark(ChunkTitleDelim)
		b.pop()
	case ModePlainText:
		b.add(ChunkNewLine)
		b.add(ChunkNewLine)
	case ModeParagraph, ModeUL:
		b.pop()
	}
}

// --- plain views ---

// PlainText concatenates the plain text of all chunks.
func (b *Block) PlainText() string {
	return b.plainRange(0, len(b.chunks))
}

func (b *Block) plainRange(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		sb.WriteString(b.chunks[i].PlainText())
	}
	return sb.String()
}

// titleEnd returns the index of the title delimiter, or len(chunks).
func (b *Block) titleEnd() int {
	for i := range b.chunks {
		if b.chunks[i].typ == ChunkTitleDelim {
			return i
		}
	}
	return len(b.chunks)
}

// PlainFirstWord returns the first word of the first text chunk holding one.
func (b *Block) PlainFirstWord() string {
	return b.firstOf(FirstWord)
}

// PlainFirstWordOrQuote is PlainFirstWord with quoted strings as one word.
func (b *Block) PlainFirstWordOrQuote() string {
	return b.firstOf(FirstWordOrQuote)
}

func (b *Block) firstOf(split func(string) (string, bool)) string {
	for i := range b.chunks {
		if !b.chunks[i].typ.IsText() {
			continue
		}
		if w, ok := split(string(b.chunks[i].text)); ok {
			return w
		}
	}
	return ""
}

// PlainAllButFirstWord returns the plain text following the first word.
func (b *Block) PlainAllButFirstWord() string {
	s, _ := AllButFirstWord(strings.TrimLeft(b.PlainText(), " \n"))
	return s
}

// PlainTitleLine returns the title line without its delimiter.
func (b *Block) PlainTitleLine() string {
	return b.plainRange(0, b.titleEnd())
}

func (b *Block) PlainTitleLineButFirstWord() string {
	s, _ := AllButFirstWord(b.PlainTitleLine())
	return s
}

func (b *Block) PlainTitleLineButFirstWordOrQuote() string {
	s, _ := AllButFirstWordOrQuote(b.PlainTitleLine())
	return s
}

// PlainAllButTitleLine returns everything after the title delimiter.
func (b *Block) PlainAllButTitleLine() string {
	end := b.titleEnd()
	if end == len(b.chunks) {
		return ""
	}
	return b.plainRange(end+1, len(b.chunks))
}
