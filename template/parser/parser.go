// Package parser builds a unified concrete syntax tree out of documents
// that interleave HTML markup with mustache template directives. It owns
// the context-free side of the grammar (delimiters, attributes, text) and
// delegates every context-sensitive decision (tag names, implicit end
// tags, raw text, section boundaries) to the scanner package.
package parser

import (
	"bytes"
	"io"

	"github.com/dhamidi/stache/template/scanner"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithScanner resumes parsing with a pre-existing scanner, typically one
// restored from a serialized checkpoint by an incremental engine.
func WithScanner(sc *scanner.Scanner) Option {
	return func(p *Parser) {
		p.sc = sc
	}
}

type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	ix     *lineIndex
	pos    int
	sc     *scanner.Scanner
	// open is the path from the document root to the node currently
	// accepting children: elements and sections push, closes pop.
	open []*Node
}

func ParseDocument(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	if p.sc == nil {
		p.sc = scanner.New()
	}
	return p
}

// Parse is the one-shot convenience entry point.
func Parse(input []byte, opts ...Option) *Node {
	return ParseDocument(bytes.NewReader(input), opts...).Finish()
}

// Scanner exposes the scanner state, for checkpointing after a parse.
func (p *Parser) Scanner() *scanner.Scanner {
	return p.sc
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	p.ix = newLineIndex(p.input, p.file)

	doc := &Node{Kind: KindDocument}
	p.open = []*Node{doc}

	for p.pos < len(p.input) {
		p.parseContent()
	}

	p.flushImplicitEnds()
	p.closeRemaining()

	doc.Span = p.ix.span(0, len(p.input))
	return doc
}

func (p *Parser) parseContent() {
	startDelim, _ := p.sc.Delimiters()
	switch {
	case p.hasPrefix(startDelim):
		p.parseTemplateTag()
	case p.input[p.pos] == '<':
		p.parseAngle()
	default:
		p.parseText()
	}
}

// scan runs one scanner call at the current position. On emission the
// parser adopts the cursor's marked token end; on decline its own position
// is untouched and any speculative consumption is discarded.
func (p *Parser) scan(valid scanner.Valid) (scanner.TokenType, *scanner.TextCursor, bool) {
	cur := scanner.NewTextCursor(p.input, p.pos)
	tok, ok := p.sc.Scan(cur, valid)
	if ok {
		p.pos = cur.End()
	}
	return tok, cur, ok
}

func (p *Parser) current() *Node {
	return p.open[len(p.open)-1]
}

func (p *Parser) node(kind NodeKind, start, end int) *Node {
	return &Node{Kind: kind, Span: p.ix.span(start, end)}
}

func (p *Parser) leaf(kind NodeKind, start, end int) *Node {
	n := p.node(kind, start, end)
	n.Literal = string(p.input[start:end])
	return n
}

func (p *Parser) hasPrefix(s string) bool {
	return s != "" && bytes.HasPrefix(p.input[p.pos:], []byte(s))
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// HTML side.

func (p *Parser) parseAngle() {
	rest := p.input[p.pos:]
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		p.parseComment()
	case bytes.HasPrefix(rest, []byte("<!")):
		p.parseDoctype()
	case bytes.HasPrefix(rest, []byte("</")):
		p.parseEndTag()
	default:
		p.parseStartTag()
	}
}

func (p *Parser) parseComment() {
	start := p.pos
	_, cur, ok := p.scan(scanner.Only(scanner.Comment))
	if !ok {
		// Unterminated comment swallows the rest of the input.
		p.pos = len(p.input)
		p.current().AddChild(p.node(KindError, start, p.pos))
		return
	}
	p.current().AddChild(p.node(KindComment, cur.Start(), cur.End()))
}

func (p *Parser) parseDoctype() {
	start := p.pos
	idx := bytes.IndexByte(p.input[p.pos:], '>')
	if idx < 0 {
		p.pos = len(p.input)
		p.current().AddChild(p.node(KindError, start, p.pos))
		return
	}
	p.pos += idx + 1
	p.current().AddChild(p.leaf(KindDoctype, start, p.pos))
}

// flushImplicitEnds repeatedly offers the scanner an implicit end tag at
// the current position, closing one element per emission, until it
// declines. Called before end tags, start tags, section ends, and at end
// of input.
func (p *Parser) flushImplicitEnds() {
	for {
		cur := scanner.NewTextCursor(p.input, p.pos)
		_, ok := p.sc.Scan(cur, scanner.Only(scanner.ImplicitEndTag))
		if !ok {
			return
		}
		n := p.node(KindImplicitEndTag, cur.Start(), cur.End())
		n.Hidden = true
		p.closeElement(n, cur.End())
	}
}

func isElementKind(kind NodeKind) bool {
	return kind == KindElement || kind == KindScriptElement || kind == KindStyleElement
}

// closeElement attaches the closing node to the innermost open element and
// pops it. If the tree and the scanner disagree (malformed nesting), the
// closing node is kept as a plain child so no input is lost.
func (p *Parser) closeElement(closing *Node, end int) {
	top := p.current()
	if !isElementKind(top.Kind) {
		top.AddChild(closing)
		return
	}
	top.AddChild(closing)
	top.Span.End = p.ix.position(end)
	p.open = p.open[:len(p.open)-1]
}

func (p *Parser) closeRemaining() {
	for len(p.open) > 1 {
		top := p.current()
		top.Span.End = p.ix.position(len(p.input))
		p.open = p.open[:len(p.open)-1]
	}
}

func (p *Parser) parseEndTag() {
	p.flushImplicitEnds()

	start := p.pos
	p.pos += 2 // "</"
	tok, cur, ok := p.scan(scanner.Only(scanner.EndTagName, scanner.ErroneousEndTagName))
	if !ok {
		p.recoverThrough(start, ">")
		return
	}
	name := p.leaf(KindTagName, cur.Start(), cur.End())

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '>' {
		p.pos++
	}

	if tok == scanner.EndTagName {
		endTag := p.node(KindEndTag, start, p.pos)
		endTag.AddChild(name)
		p.closeElement(endTag, p.pos)
		return
	}

	erroneous := p.node(KindErroneousEndTag, start, p.pos)
	erroneous.AddChild(name)
	p.current().AddChild(erroneous)
}

func (p *Parser) parseStartTag() {
	p.flushImplicitEnds()

	start := p.pos
	p.pos++ // '<'
	tok, cur, ok := p.scan(scanner.Only(scanner.StartTagName))
	if !ok {
		// A lone '<' is just text.
		p.current().AddChild(p.leaf(KindText, start, p.pos))
		return
	}

	startTag := p.node(KindStartTag, start, start)
	startTag.AddChild(p.leaf(KindTagName, cur.Start(), cur.End()))

	selfClosing := false
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			break
		}
		switch p.input[p.pos] {
		case '>':
			p.pos++
		case '/':
			if _, _, ok := p.scan(scanner.Only(scanner.SelfClosingTagDelimiter)); ok {
				selfClosing = true
				break
			}
			p.pos++
			continue
		default:
			if attr := p.parseAttribute(); attr != nil {
				startTag.AddChild(attr)
				continue
			}
			p.pos++
			continue
		}
		break
	}

	startTag.Span = p.ix.span(start, p.pos)

	if selfClosing {
		startTag.Kind = KindSelfClosingTag
		p.current().AddChild(startTag)
		return
	}

	kind := KindElement
	switch tok {
	case scanner.ScriptStartTagName:
		kind = KindScriptElement
	case scanner.StyleStartTagName:
		kind = KindStyleElement
	}

	element := p.node(kind, start, p.pos)
	element.AddChild(startTag)
	p.current().AddChild(element)
	p.open = append(p.open, element)

	if kind != KindElement {
		p.parseRawText()
	}
}

func (p *Parser) parseAttribute() *Node {
	start := p.pos
	nameEnd := p.pos
	for nameEnd < len(p.input) {
		b := p.input[nameEnd]
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '=' || b == '>' || b == '/' || b == '"' || b == '\'' {
			break
		}
		nameEnd++
	}
	if nameEnd == start {
		return nil
	}

	attr := p.node(KindAttribute, start, nameEnd)
	attr.AddChild(p.leaf(KindAttributeName, start, nameEnd))
	p.pos = nameEnd

	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '=' {
		attr.Span = p.ix.span(start, nameEnd)
		return attr
	}
	p.pos++
	p.skipSpace()

	if p.pos < len(p.input) && (p.input[p.pos] == '"' || p.input[p.pos] == '\'') {
		quote := p.input[p.pos]
		valueStart := p.pos
		p.pos++
		innerStart := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != quote {
			p.pos++
		}
		innerEnd := p.pos
		if p.pos < len(p.input) {
			p.pos++
		}
		quoted := p.node(KindQuotedAttributeValue, valueStart, p.pos)
		if innerEnd > innerStart {
			quoted.AddChild(p.leaf(KindAttributeValue, innerStart, innerEnd))
		}
		attr.AddChild(quoted)
	} else {
		valueStart := p.pos
		for p.pos < len(p.input) {
			b := p.input[p.pos]
			if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '>' || b == '/' {
				break
			}
			p.pos++
		}
		if p.pos > valueStart {
			attr.AddChild(p.leaf(KindAttributeValue, valueStart, p.pos))
		}
	}

	attr.Span = p.ix.span(start, p.pos)
	return attr
}

func (p *Parser) parseRawText() {
	_, cur, ok := p.scan(scanner.Only(scanner.RawText))
	if !ok {
		return
	}
	if cur.End() > cur.Start() {
		p.current().AddChild(p.leaf(KindRawText, cur.Start(), cur.End()))
	}
}

func (p *Parser) parseText() {
	start := p.pos
	startDelim, _ := p.sc.Delimiters()

	flush := func(end int) {
		if end > start {
			p.current().AddChild(p.leaf(KindText, start, end))
		}
	}

	for p.pos < len(p.input) {
		b := p.input[p.pos]
		if b == '<' || p.hasPrefix(startDelim) {
			break
		}
		if b == '&' {
			if end := p.entityEnd(); end > 0 {
				flush(p.pos)
				p.current().AddChild(p.leaf(KindEntity, p.pos, end))
				p.pos = end
				start = end
				continue
			}
		}
		p.pos++
	}
	flush(p.pos)
}

// entityEnd returns the exclusive end offset of an HTML character
// reference starting at the current '&', or 0 when the input does not form
// one.
func (p *Parser) entityEnd() int {
	i := p.pos + 1
	if i < len(p.input) && p.input[i] == '#' {
		i++
	}
	digits := 0
	for i < len(p.input) && isAlnum(p.input[i]) {
		i++
		digits++
	}
	if digits == 0 || i >= len(p.input) || p.input[i] != ';' {
		return 0
	}
	return i + 1
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// Mustache side.

func (p *Parser) parseTemplateTag() {
	startDelim, endDelim := p.sc.Delimiters()
	start := p.pos

	var sigil byte
	if after := p.pos + len(startDelim); after < len(p.input) {
		sigil = p.input[after]
	}

	switch sigil {
	case '#':
		p.parseSectionBegin(start, startDelim, endDelim, false)
	case '^':
		p.parseSectionBegin(start, startDelim, endDelim, true)
	case '/':
		p.parseSectionEnd(start, startDelim, endDelim)
	case '!':
		p.parseTemplateComment(start, startDelim, endDelim)
	case '>':
		p.parsePartial(start, startDelim, endDelim)
	case '=':
		p.parseSetDelimiters(start, startDelim, endDelim)
	case '{':
		p.parseUnescaped(start, startDelim, endDelim, true)
	case '&':
		p.parseUnescaped(start, startDelim, endDelim, false)
	default:
		p.parseInterpolation(start, startDelim, endDelim)
	}
}

// recoverThrough swallows input up to and including the next occurrence of
// term and records an error node over the swallowed span.
func (p *Parser) recoverThrough(start int, term string) {
	idx := bytes.Index(p.input[p.pos:], []byte(term))
	if idx < 0 {
		p.pos = len(p.input)
	} else {
		p.pos += idx + len(term)
	}
	p.current().AddChild(p.node(KindError, start, p.pos))
}

// expectEnd consumes the active end delimiter if it is next (after
// whitespace). A missing delimiter is tolerated; the tag node simply ends
// where parsing stopped.
func (p *Parser) expectEnd(endDelim string) {
	p.skipSpace()
	if p.hasPrefix(endDelim) {
		p.pos += len(endDelim)
	}
}

func (p *Parser) parsePath(endDelim string) *Node {
	var idents []*Node

	_, cur, ok := p.scan(scanner.Only(scanner.IdentifierContent))
	if !ok {
		// {{.}}, the implicit iterator.
		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == '.' {
			ident := p.leaf(KindIdentifier, p.pos, p.pos+1)
			p.pos++
			return ident
		}
		return nil
	}
	idents = append(idents, p.leaf(KindIdentifier, cur.Start(), cur.End()))

	for p.pos < len(p.input) && p.input[p.pos] == '.' {
		p.pos++
		_, cur, ok = p.scan(scanner.Only(scanner.IdentifierContent))
		if !ok {
			break
		}
		idents = append(idents, p.leaf(KindIdentifier, cur.Start(), cur.End()))
	}

	if len(idents) == 1 {
		return idents[0]
	}
	path := p.node(KindPathExpression,
		idents[0].Span.Start.Offset, idents[len(idents)-1].Span.End.Offset)
	for _, ident := range idents {
		path.AddChild(ident)
	}
	return path
}

func (p *Parser) parseInterpolation(start int, startDelim, endDelim string) {
	p.pos = start + len(startDelim)

	path := p.parsePath(endDelim)
	if path == nil {
		p.recoverThrough(start, endDelim)
		return
	}

	p.expectEnd(endDelim)
	n := p.node(KindInterpolation, start, p.pos)
	n.AddChild(path)
	p.current().AddChild(n)
}

func (p *Parser) parseUnescaped(start int, startDelim, endDelim string, triple bool) {
	p.pos = start + len(startDelim) + 1

	path := p.parsePath(endDelim)
	if path == nil {
		p.recoverThrough(start, endDelim)
		return
	}

	if triple {
		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == '}' {
			p.pos++
		}
	}
	p.expectEnd(endDelim)

	n := p.node(KindUnescapedInterpolation, start, p.pos)
	n.AddChild(path)
	p.current().AddChild(n)
}

func (p *Parser) parseTemplateComment(start int, startDelim, endDelim string) {
	p.pos = start + len(startDelim) + 1
	idx := bytes.Index(p.input[p.pos:], []byte(endDelim))
	if idx < 0 {
		p.pos = len(p.input)
		p.current().AddChild(p.node(KindError, start, p.pos))
		return
	}
	p.pos += idx + len(endDelim)
	p.current().AddChild(p.node(KindTemplateComment, start, p.pos))
}

func (p *Parser) parsePartial(start int, startDelim, endDelim string) {
	p.pos = start + len(startDelim) + 1

	path := p.parsePath(endDelim)
	if path == nil {
		p.recoverThrough(start, endDelim)
		return
	}

	p.expectEnd(endDelim)
	n := p.node(KindPartial, start, p.pos)
	n.AddChild(path)
	p.current().AddChild(n)
}

func (p *Parser) parseSetDelimiters(start int, startDelim, endDelim string) {
	p.pos = start + len(startDelim) + 1

	readDelim := func() string {
		from := p.pos
		for p.pos < len(p.input) {
			b := p.input[p.pos]
			if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '=' {
				break
			}
			p.pos++
		}
		return string(p.input[from:p.pos])
	}

	p.skipSpace()
	newStart := readDelim()
	p.skipSpace()
	newEnd := readDelim()
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '=' {
		p.pos++
	}

	if newStart == "" || newEnd == "" {
		p.recoverThrough(start, endDelim)
		return
	}

	// The directive itself still closes with the old end delimiter; only
	// content after it sees the new ones.
	p.expectEnd(endDelim)
	p.sc.SetDelimiters(newStart, newEnd)
	p.current().AddChild(p.node(KindSetDelimiters, start, p.pos))
}

func (p *Parser) parseSectionBegin(start int, startDelim, endDelim string, inverted bool) {
	p.pos = start + len(startDelim) + 1

	_, cur, ok := p.scan(scanner.Only(scanner.SectionStartName))
	if !ok {
		p.recoverThrough(start, endDelim)
		return
	}
	name := p.leaf(KindIdentifier, cur.Start(), cur.End())

	p.expectEnd(endDelim)
	begin := p.node(KindSectionBegin, start, p.pos)
	begin.AddChild(name)

	kind := KindSection
	if inverted {
		kind = KindInvertedSection
	}
	section := p.node(kind, start, p.pos)
	section.AddChild(begin)
	p.current().AddChild(section)
	p.open = append(p.open, section)
}

func (p *Parser) parseSectionEnd(start int, startDelim, endDelim string) {
	// Cross-grammar closure: elements opened inside the section close
	// before the section itself does.
	p.flushImplicitEnds()

	start = p.pos
	p.pos = start + len(startDelim) + 1

	tok, cur, ok := p.scan(scanner.Only(scanner.SectionEndName, scanner.ErroneousSectionEndName))
	if !ok {
		p.recoverThrough(start, endDelim)
		return
	}
	name := p.leaf(KindIdentifier, cur.Start(), cur.End())

	p.expectEnd(endDelim)

	if tok == scanner.SectionEndName {
		end := p.node(KindSectionEnd, start, p.pos)
		end.AddChild(name)
		p.closeSection(end, p.pos)
		return
	}

	erroneous := p.node(KindErroneousSectionEnd, start, p.pos)
	erroneous.AddChild(name)
	p.current().AddChild(erroneous)
}

func (p *Parser) closeSection(closing *Node, end int) {
	top := p.current()
	if top.Kind != KindSection && top.Kind != KindInvertedSection {
		top.AddChild(closing)
		return
	}
	top.AddChild(closing)
	top.Span.End = p.ix.position(end)
	p.open = p.open[:len(p.open)-1]
}
