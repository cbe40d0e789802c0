// Package scanner resolves the context-sensitive tokens of documents that
// interleave HTML with mustache template directives: tag names, implicit
// end tags, raw text spans, section boundaries. It keeps two stacks, the
// open HTML elements and the open mustache sections, and serializes them
// so an incremental parsing engine can checkpoint and restore scanner state
// at arbitrary edit boundaries.
package scanner

import (
	"strings"
	"unicode"
)

const (
	defaultStartDelimiter = "{{"
	defaultEndDelimiter   = "}}"
)

// Scanner owns the open-element and open-section stacks plus the active
// mustache delimiters. One Scanner serves exactly one parse session; it is
// not safe for concurrent use.
type Scanner struct {
	tags     []Tag
	sections []SectionTag

	startDelim string
	endDelim   string
	// prevEndDelim is the end delimiter that was active before the last
	// SetDelimiters call. A set-delimiters tag is still closed by the old
	// end delimiter, so the driver needs both.
	prevEndDelim string
}

func New() *Scanner {
	return &Scanner{
		startDelim:   defaultStartDelimiter,
		endDelim:     defaultEndDelimiter,
		prevEndDelim: defaultEndDelimiter,
	}
}

// OpenElementDepth returns the number of HTML tags currently open.
func (s *Scanner) OpenElementDepth() int { return len(s.tags) }

// OpenSectionDepth returns the number of mustache sections currently open.
func (s *Scanner) OpenSectionDepth() int { return len(s.sections) }

// TopElement returns the innermost open HTML tag.
func (s *Scanner) TopElement() (Tag, bool) {
	if len(s.tags) == 0 {
		return Tag{}, false
	}
	return s.tags[len(s.tags)-1], true
}

// TopSection returns the innermost open mustache section.
func (s *Scanner) TopSection() (SectionTag, bool) {
	if len(s.sections) == 0 {
		return SectionTag{}, false
	}
	return s.sections[len(s.sections)-1], true
}

// Delimiters returns the active start and end delimiters.
func (s *Scanner) Delimiters() (start, end string) {
	return s.startDelim, s.endDelim
}

// PreviousEndDelimiter returns the end delimiter that was active before the
// most recent SetDelimiters call.
func (s *Scanner) PreviousEndDelimiter() string { return s.prevEndDelim }

// SetDelimiters switches the active mustache delimiters. The change applies
// to content after the set-delimiters tag; the tag itself still closes with
// the previous end delimiter, retained via PreviousEndDelimiter.
func (s *Scanner) SetDelimiters(start, end string) {
	if start == "" || end == "" {
		return
	}
	s.prevEndDelim = s.endDelim
	s.startDelim = start
	s.endDelim = end
}

// Reset empties both stacks and restores the default delimiters.
func (s *Scanner) Reset() {
	s.tags = s.tags[:0]
	s.sections = s.sections[:0]
	s.startDelim = defaultStartDelimiter
	s.endDelim = defaultEndDelimiter
	s.prevEndDelim = defaultEndDelimiter
}

// Scan is the single entry point the grammar driver invokes per candidate
// token position. It emits at most one token, mutating the stacks as a
// side effect, or declines so the driver falls back to its context-free
// rules. The dispatch order is significant; reordering changes parse
// results.
func (s *Scanner) Scan(cur Cursor, valid Valid) (TokenType, bool) {
	if valid.Has(RawText) && !valid.Has(StartTagName) && !valid.Has(EndTagName) {
		return s.scanRawText(cur)
	}

	for unicode.IsSpace(cur.Lookahead()) {
		cur.Skip()
	}

	if valid.Has(IdentifierContent) {
		return s.scanIdentifierContent(cur)
	}

	if valid.Has(SectionStartName) {
		return s.scanSectionStartName(cur)
	}

	if valid.Has(SectionEndName) || valid.Has(ErroneousSectionEndName) {
		return s.scanSectionEndName(cur)
	}

	switch {
	case cur.Lookahead() == '<':
		cur.MarkEnd()
		cur.Advance()

		if cur.Lookahead() == '!' {
			cur.Advance()
			return s.scanComment(cur)
		}

		if valid.Has(ImplicitEndTag) {
			return s.scanImplicitEndTag(cur)
		}

	case cur.EOF():
		if valid.Has(ImplicitEndTag) {
			cur.MarkEnd()
			return s.scanImplicitEndTag(cur)
		}

	case cur.Lookahead() == '/':
		if valid.Has(SelfClosingTagDelimiter) {
			return s.scanSelfClosingTagDelimiter(cur)
		}

	default:
		// Cross-grammar closure: a section close must first implicitly
		// close every element opened inside the section's body. The driver
		// asks for ImplicitEndTag alone at the section boundary, where the
		// lookahead is the start delimiter rather than '<'.
		if valid.Has(ImplicitEndTag) && !valid.Has(StartTagName) && !valid.Has(EndTagName) &&
			cur.Lookahead() == firstRune(s.startDelim) {
			if top, ok := s.TopSection(); ok && len(s.tags) > top.HTMLDepth {
				cur.MarkEnd()
				s.popTag()
				return ImplicitEndTag, true
			}
		}

		if (valid.Has(StartTagName) || valid.Has(EndTagName)) && !valid.Has(RawText) {
			if valid.Has(StartTagName) {
				return s.scanStartTagName(cur)
			}
			return s.scanEndTagName(cur)
		}
	}

	return 0, false
}

func (s *Scanner) popTag() {
	s.tags = s.tags[:len(s.tags)-1]
}

func firstRune(str string) rune {
	for _, r := range str {
		return r
	}
	return 0
}

func scanHTMLTagName(cur Cursor) string {
	var name strings.Builder
	for {
		r := cur.Lookahead()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != ':' {
			break
		}
		name.WriteRune(unicode.ToUpper(r))
		cur.Advance()
	}
	return name.String()
}

// scanImplicitEndTag decides, at a '<' (already consumed) or at end of
// input, whether the innermost open element must be closed before the
// upcoming token. Emitting always pops exactly one tag and yields a
// zero-width token; the driver re-offers the same position until the
// scanner declines.
func (s *Scanner) scanImplicitEndTag(cur Cursor) (TokenType, bool) {
	parent, hasParent := s.TopElement()

	isClosingTag := false
	if cur.Lookahead() == '/' {
		isClosingTag = true
		cur.Advance()
	} else if hasParent && parent.IsVoid() {
		s.popTag()
		return ImplicitEndTag, true
	}

	name := scanHTMLTagName(cur)
	if name == "" && !cur.EOF() {
		return 0, false
	}

	next := TagForName(name)

	if isClosingTag {
		// The tag correctly closes the innermost element: decline and let
		// the ordinary end-tag rule handle it.
		if hasParent && parent.Eq(next) {
			return 0, false
		}

		// Otherwise search for a matching ancestor and unwind one level at
		// a time, to recover from malformed nesting.
		for i := len(s.tags); i > 0; i-- {
			if s.tags[i-1].Type == next.Type {
				s.popTag()
				return ImplicitEndTag, true
			}
		}
	} else if hasParent &&
		(!parent.CanContain(next) ||
			((parent.Type == HTMLRoot || parent.Type == Head || parent.Type == Body) && cur.EOF())) {
		s.popTag()
		return ImplicitEndTag, true
	}

	return 0, false
}

func (s *Scanner) scanStartTagName(cur Cursor) (TokenType, bool) {
	name := scanHTMLTagName(cur)
	if name == "" {
		return 0, false
	}

	tag := TagForName(name)
	s.tags = append(s.tags, tag)
	switch tag.Type {
	case Script:
		return ScriptStartTagName, true
	case Style:
		return StyleStartTagName, true
	default:
		return StartTagName, true
	}
}

func (s *Scanner) scanEndTagName(cur Cursor) (TokenType, bool) {
	name := scanHTMLTagName(cur)
	if name == "" {
		return 0, false
	}

	tag := TagForName(name)
	if top, ok := s.TopElement(); ok && top.Eq(tag) {
		s.popTag()
		return EndTagName, true
	}
	return ErroneousEndTagName, true
}

func (s *Scanner) scanSelfClosingTagDelimiter(cur Cursor) (TokenType, bool) {
	cur.Advance()
	if cur.Lookahead() != '>' {
		return 0, false
	}
	cur.Advance()
	if len(s.tags) == 0 {
		return 0, false
	}
	s.popTag()
	return SelfClosingTagDelimiter, true
}

// scanRawText consumes a script or style body up to, but not including,
// the closing tag. It repeatedly marks a tentative end so the closing tag
// itself is backtracked out of the token.
func (s *Scanner) scanRawText(cur Cursor) (TokenType, bool) {
	top, ok := s.TopElement()
	if !ok {
		return 0, false
	}

	cur.MarkEnd()

	endDelimiter := "</STYLE"
	if top.Type == Script {
		endDelimiter = "</SCRIPT"
	}

	delimiterIndex := 0
	for !cur.EOF() {
		if unicode.ToUpper(cur.Lookahead()) == rune(endDelimiter[delimiterIndex]) {
			delimiterIndex++
			if delimiterIndex == len(endDelimiter) {
				break
			}
			cur.Advance()
		} else {
			delimiterIndex = 0
			cur.Advance()
			cur.MarkEnd()
		}
	}

	return RawText, true
}

// scanComment expects the cursor just past "<!" and requires a literal
// "--". Consecutive hyphens are counted so a premature '>' without two
// preceding hyphens does not end the comment.
func (s *Scanner) scanComment(cur Cursor) (TokenType, bool) {
	if cur.Lookahead() != '-' {
		return 0, false
	}
	cur.Advance()
	if cur.Lookahead() != '-' {
		return 0, false
	}
	cur.Advance()

	dashes := 0
	for !cur.EOF() {
		switch cur.Lookahead() {
		case '-':
			dashes++
		case '>':
			if dashes >= 2 {
				cur.Advance()
				cur.MarkEnd()
				return Comment, true
			}
			dashes = 0
		default:
			dashes = 0
		}
		cur.Advance()
	}
	return 0, false
}

// scanSectionName reads a mustache section name up to whitespace or the
// first character of the active end delimiter.
func (s *Scanner) scanSectionName(cur Cursor) string {
	terminator := firstRune(s.endDelim)
	var name strings.Builder
	for cur.Lookahead() != terminator && !cur.EOF() {
		if unicode.IsSpace(cur.Lookahead()) {
			break
		}
		name.WriteRune(cur.Lookahead())
		cur.Advance()
	}
	return name.String()
}

func (s *Scanner) scanSectionStartName(cur Cursor) (TokenType, bool) {
	name := s.scanSectionName(cur)
	if name == "" {
		return 0, false
	}
	s.sections = append(s.sections, SectionTag{Name: name, HTMLDepth: len(s.tags)})
	return SectionStartName, true
}

func (s *Scanner) scanSectionEndName(cur Cursor) (TokenType, bool) {
	name := s.scanSectionName(cur)
	if name == "" {
		return 0, false
	}

	tag := SectionTag{Name: name}
	if top, ok := s.TopSection(); ok && top.Eq(tag) {
		s.sections = s.sections[:len(s.sections)-1]
		return SectionEndName, true
	}
	// Mismatch leaves the stack untouched so subsequent input is still
	// evaluated against the correct open sections.
	return ErroneousSectionEndName, true
}

// scanIdentifierContent reads one path segment of a mustache identifier,
// terminated by the end delimiter, a '.' separator or whitespace. Reaching
// end of input declines even if characters were consumed.
func (s *Scanner) scanIdentifierContent(cur Cursor) (TokenType, bool) {
	terminator := firstRune(s.endDelim)
	hasContent := false
	for cur.Lookahead() != terminator && cur.Lookahead() != '.' && !unicode.IsSpace(cur.Lookahead()) {
		if cur.EOF() {
			return 0, false
		}
		hasContent = true
		cur.Advance()
	}
	if !hasContent {
		return 0, false
	}
	return IdentifierContent, true
}
