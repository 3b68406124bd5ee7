package content

type parseState int

const (
	stateDefault parseState = iota
	stateLineBreak
	stateNewLine
)

// Unit is the parsed markup of one documentation element: an ordered list of
// tag blocks, the last of which receives input.
type Unit struct {
	kind   UnitKind
	state  [3]parseState
	blocks []*Block
	diags  []error
}

// NewUnit creates a unit holding one empty paragraph block. An unset kind is
// parsed like a multi-line comment.
func NewUnit(kind UnitKind) *Unit {
	u := &Unit{kind: kind}
	u.ResetContent()
	return u
}

// ResetParseState starts a new comment of the given kind without touching
// the content.
func (u *Unit) ResetParseState(kind UnitKind) {
	u.kind = kind
	u.state = [3]parseState{stateLineBreak, stateDefault, stateDefault}
}

// ResetContent drops all blocks and diagnostics.
func (u *Unit) ResetContent() {
	u.blocks = []*Block{NewBlock(TagParagraph)}
	u.diags = nil
	u.state = [3]parseState{stateLineBreak, stateDefault, stateDefault}
}

// Kind returns the unit kind.
func (u *Unit) Kind() UnitKind { return u.kind }

// Diagnostics returns the markup problems found so far.
func (u *Unit) Diagnostics() []error { return u.diags }

func (u *Unit) current() *Block { return u.blocks[len(u.blocks)-1] }

func (u *Unit) push(s parseState) {
	u.state[2], u.state[1], u.state[0] = u.state[1], u.state[0], s
}

func (u *Unit) multiLine() bool { return u.kind != UnitSingleLine }

func (u *Unit) doubleBreak() bool {
	return u.state == [3]parseState{stateNewLine, stateLineBreak, stateNewLine}
}

// resolveBreak turns a pending line break of a multi-line unit into a single
// or double new line once the next content arrives.
func (u *Unit) resolveBreak(b *Block) {
	if !u.multiLine() || u.state[0] != stateLineBreak {
		return
	}
	u.push(stateNewLine)
	if u.doubleBreak() {
		b.AppendDoubleNewLine()
	} else {
		b.AppendNewLine()
	}
}

// AppendLineBreak feeds the end of a physical line.
func (u *Unit) AppendLineBreak() {
	b := u.current()
	if b.isVerbatim() {
		b.AppendNewLine()
		u.push(stateNewLine)
		return
	}
	if !u.multiLine() {
		u.push(stateNewLine)
		if u.state[1] == stateNewLine {
			b.AppendDoubleNewLine()
		} else {
			b.AppendNewLine()
		}
		return
	}
	if u.state[0] == stateLineBreak {
		u.push(stateNewLine)
		if u.doubleBreak() {
			b.AppendDoubleNewLine()
		} else {
			b.AppendNewLine()
		}
	} else {
		b.AppendChar(' ')
	}
	u.push(stateLineBreak)
}

// AppendBlank feeds a space. Indentation at the start of a line is dropped.
func (u *Unit) AppendBlank() {
	b := u.current()
	if b.isVerbatim() || u.state[0] != stateLineBreak {
		b.AppendChar(' ')
	}
}

// AppendTab feeds a tab, which counts as two spaces.
func (u *Unit) AppendTab() {
	b := u.current()
	if b.isVerbatim() || u.state[0] != stateLineBreak {
		b.AppendChar(' ')
		b.AppendChar(' ')
	}
}

// AppendChar feeds any other character. A '*' opening a continuation line of
// a block comment is dropped.
func (u *Unit) AppendChar(c byte) {
	b := u.current()
	if b.isVerbatim() {
		b.AppendChar(c)
		u.push(stateDefault)
		return
	}
	if u.multiLine() && u.state[0] == stateLineBreak {
		u.resolveBreak(b)
		if c == '*' {
			return
		}
	}
	b.AppendChar(c)
	u.push(stateDefault)
}

// AppendString feeds s character by character. Blanks and line breaks are
// routed like the dedicated calls.
func (u *Unit) AppendString(s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			u.AppendBlank()
		case '\t':
			u.AppendTab()
		case '\n':
			u.AppendLineBreak()
		case '\r':
		default:
			u.AppendChar(s[i])
		}
	}
}

// AppendTag feeds a tag name without its leading '@'.
func (u *Unit) AppendTag(name string) {
	b := u.current()
	if b.isVerbatim() {
		u.appendVerbatimTag(b, name)
		return
	}

	u.resolveBreak(b)

	if t, ok := LookupBlockTag(name); ok {
		if u.state[0] != stateNewLine && u.state[0] != stateLineBreak {
			u.report(name, ErrBlockTagNotAtLineStart)
			return
		}
		if b.typ == TagParagraph && b.Empty() {
			b.Retype(t)
			return
		}
		u.startBlock(t)
		return
	}
	if it, ok := LookupInlineTag(name); ok {
		b.AppendInlineTag(it)
		u.push(stateDefault)
		return
	}
	u.report(name, ErrUnrecognizedTag)
}

func (u *Unit) appendVerbatimTag(b *Block, name string) {
	if t, ok := LookupBlockTag(name); ok {
		u.startBlock(t)
		return
	}
	if it, ok := LookupInlineTag(name); ok && it == InlineEndVerbatim && b.topIs(ModeVerbatim) {
		b.AppendInlineTag(it)
		u.push(stateDefault)
		return
	}
	b.AppendChar('@')
	for i := 0; i < len(name); i++ {
		b.AppendChar(name[i])
	}
	u.push(stateDefault)
}

func (u *Unit) startBlock(t TagType) {
	u.current().CloseWrite()
	u.blocks = append(u.blocks, NewBlock(t))
	u.push(stateDefault)
}

func (u *Unit) report(tag string, err error) {
	u.diags = append(u.diags, &TagError{Tag: tag, Err: err})
}

// CloseWrite finalizes the current block.
func (u *Unit) CloseWrite() {
	u.current().CloseWrite()
}

// Empty reports whether the unit holds nothing but its initial block.
func (u *Unit) Empty() bool {
	return len(u.blocks) == 1 && u.blocks[0].Empty()
}

// AppendUnit merges other into u and adopts its parse state. The blocks of
// other are copied.
func (u *Unit) AppendUnit(other *Unit) {
	u.kind = other.kind
	u.state = other.state
	copied := make([]*Block, len(other.blocks))
	for i, b := range other.blocks {
		copied[i] = b.clone()
	}
	if u.Empty() {
		u.blocks = copied
	} else {
		u.CloseWrite()
		u.blocks = append(u.blocks, copied...)
	}
	u.diags = append(u.diags, other.diags...)
}

// --- accessors ---

// Len returns the number of blocks.
func (u *Unit) Len() int { return len(u.blocks) }

// Block returns the i-th block.
func (u *Unit) Block(i int) *Block { return u.blocks[i] }

// Blocks returns all blocks in order.
func (u *Unit) Blocks() []*Block {
	return append([]*Block(nil), u.blocks...)
}

// HasBlock reports whether a block of type t exists.
func (u *Unit) HasBlock(t TagType) bool { return u.FirstBlock(t) != nil }

// CountBlocks returns the number of blocks of type t.
func (u *Unit) CountBlocks(t TagType) int {
	n := 0
	for _, b := range u.blocks {
		if b.typ == t {
			n++
		}
	}
	return n
}

// FirstBlock returns the first block of type t or nil.
func (u *Unit) FirstBlock(t TagType) *Block {
	for _, b := range u.blocks {
		if b.typ == t {
			return b
		}
	}
	return nil
}

// BlocksOf returns all blocks of type t in order.
func (u *Unit) BlocksOf(t TagType) []*Block {
	var out []*Block
	for _, b := range u.blocks {
		if b.typ == t {
			out = append(out, b)
		}
	}
	return out
}

// BlockByIdent returns the first block of type t whose first word is ident.
func (u *Unit) BlockByIdent(t TagType, ident string) *Block {
	for _, b := range u.blocks {
		if b.typ == t && b.PlainFirstWord() == ident {
			return b
		}
	}
	return nil
}
