package scanner

import "unicode/utf8"

// Cursor is the lexing surface the grammar driver hands to the scanner for
// a single scan call. The scanner peeks one codepoint at a time and decides
// how far the token extends.
//
// Advance consumes the lookahead into the token. Skip consumes it without
// including it (leading whitespace). MarkEnd freezes the token end at the
// current position: once called, further Advance calls grow the consumed
// region but not the token, until MarkEnd is called again. A token emitted
// without any MarkEnd after consuming ends at the last consumed position;
// a token emitted right after MarkEnd at the start is zero-width, which is
// how implicit end tags occupy no source text.
type Cursor interface {
	Lookahead() rune
	Advance()
	Skip()
	MarkEnd()
	EOF() bool
}

// TextCursor is the production Cursor over a byte slice.
type TextCursor struct {
	input  []byte
	start  int
	pos    int
	end    int
	marked bool
}

func NewTextCursor(input []byte, offset int) *TextCursor {
	return &TextCursor{input: input, start: offset, pos: offset, end: offset}
}

func (c *TextCursor) Lookahead() rune {
	if c.pos >= len(c.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(c.input[c.pos:])
	return r
}

func (c *TextCursor) EOF() bool {
	return c.pos >= len(c.input)
}

func (c *TextCursor) Advance() {
	c.step()
	if !c.marked {
		c.end = c.pos
	}
}

func (c *TextCursor) Skip() {
	c.step()
	if !c.marked {
		c.start = c.pos
		c.end = c.pos
	}
}

func (c *TextCursor) MarkEnd() {
	c.end = c.pos
	c.marked = true
}

func (c *TextCursor) step() {
	if c.pos >= len(c.input) {
		return
	}
	_, size := utf8.DecodeRune(c.input[c.pos:])
	c.pos += size
}

// Start returns the byte offset where the token begins (after any skipped
// whitespace).
func (c *TextCursor) Start() int { return c.start }

// End returns the byte offset where the token ends, respecting MarkEnd
// backtracking.
func (c *TextCursor) End() int { return c.end }

// Pos returns how far the cursor has consumed, which can be past End when
// the scanner read ahead and backtracked.
func (c *TextCursor) Pos() int { return c.pos }

// Text returns the token bytes between Start and End.
func (c *TextCursor) Text() []byte {
	return c.input[c.start:c.end]
}
