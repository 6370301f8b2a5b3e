package laxtoken

// Cursor consumes a token queue front to back by index.
type Cursor struct {
	toks []Token
	pos  int
}

// NewCursor returns a cursor positioned at the first token.
func NewCursor(toks []Token) *Cursor {
	return &Cursor{toks: toks}
}

// Next returns the front token and advances past it.
func (c *Cursor) Next() (Token, bool) {
	if c.pos >= len(c.toks) {
		return Token{}, false
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok, true
}

// Peek returns the front token without consuming it.
func (c *Cursor) Peek() (Token, bool) {
	if c.pos >= len(c.toks) {
		return Token{}, false
	}
	return c.toks[c.pos], true
}

// SkipIf consumes the front token when it has kind k and reports whether it
// did.
func (c *Cursor) SkipIf(k Kind) bool {
	if tok, ok := c.Peek(); ok && tok.Kind == k {
		c.pos++
		return true
	}
	return false
}

// Remaining returns the number of unconsumed tokens.
func (c *Cursor) Remaining() int {
	return len(c.toks) - c.pos
}
