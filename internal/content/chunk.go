package content

// Chunk is the smallest renderable piece of content: a run of text or a
// structural marker. Ref and Link chunks keep their tag argument as text.
type Chunk struct {
	typ       ChunkType
	text      []byte
	skipWhite bool
}

// NewChunk creates an empty chunk of type t.
func NewChunk(t ChunkType) Chunk {
	return Chunk{typ: t}
}

func newTextChunk(t ChunkType, text string) Chunk {
	return Chunk{typ: t, text: []byte(text)}
}

// Type returns the chunk type.
func (c *Chunk) Type() ChunkType { return c.typ }

// Text returns the raw text buffer.
func (c *Chunk) Text() string { return string(c.text) }

// SetSkipLeadingWhite makes the chunk drop blanks until the first
// non-blank character arrives.
func (c *Chunk) SetSkipLeadingWhite(on bool) { c.skipWhite = on }

// AppendChar appends one byte. HTML text never holds two spaces in a row.
func (c *Chunk) AppendChar(ch byte) {
	if c.skipWhite {
		if IsBlank(ch) {
			return
		}
		c.skipWhite = false
	}
	if c.typ == ChunkHTMLText && ch == ' ' && len(c.text) > 0 && c.text[len(c.text)-1] == ' ' {
		return
	}
	c.text = append(c.text, ch)
}

// trimTrailingBlank removes one trailing blank.
func (c *Chunk) trimTrailingBlank() {
	if n := len(c.text); n > 0 && IsBlank(c.text[n-1]) {
		c.text = c.text[:n-1]
	}
}

func (c *Chunk) trimTrailingBlanks() {
	for n := len(c.text); n > 0 && IsBlank(c.text[n-1]); n-- {
		c.text = c.text[:n-1]
	}
}

// PlainText returns the chunk as plain text. A new line is "\n";
// structural markers are empty.
func (c *Chunk) PlainText() string {
	if c.typ == ChunkNewLine {
		return "\n"
	}
	return string(c.text)
}

func (c *Chunk) PlainFirstWord() string {
	w, _ := FirstWord(c.PlainText())
	return w
}

func (c *Chunk) PlainFirstWordOrQuote() string {
	w, _ := FirstWordOrQuote(c.PlainText())
	return w
}

func (c *Chunk) PlainAllButFirstWord() string {
	w, _ := AllButFirstWord(c.PlainText())
	return w
}

func (c *Chunk) PlainFirstLine() string {
	return FirstLine(c.PlainText())
}

func (c Chunk) clone() Chunk {
	if c.text != nil {
		c.text = append([]byte(nil), c.text...)
	}
	return c
}
