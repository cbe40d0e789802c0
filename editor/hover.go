package editor

import (
	"strings"

	"github.com/dhamidi/stache/template/parser"
	"github.com/dhamidi/stache/template/scanner"
)

// HoverAt returns hover text for the node under the given 1-based
// line/column position, plus the span the hover applies to.
func HoverAt(doc *Document, line, col int) (string, parser.Span, bool) {
	if doc == nil || doc.Tree == nil {
		return "", parser.Span{}, false
	}

	var target *parser.Node
	doc.Tree.Walk(func(n *parser.Node) bool {
		if !spanContains(n.Span, line, col) {
			return false
		}
		switch n.Kind {
		case parser.KindTagName, parser.KindIdentifier:
			target = n
		}
		return true
	})
	if target == nil {
		return "", parser.Span{}, false
	}

	switch target.Kind {
	case parser.KindTagName:
		return tagHover(target.Literal), target.Span, true
	case parser.KindIdentifier:
		return "`" + target.Literal + "`: template identifier", target.Span, true
	}
	return "", parser.Span{}, false
}

func tagHover(name string) string {
	tag := scanner.TagForName(strings.ToUpper(name))

	var b strings.Builder
	b.WriteString("`<" + strings.ToLower(name) + ">`")
	switch {
	case tag.Type == scanner.Custom:
		b.WriteString(": custom element")
	case tag.IsVoid():
		b.WriteString(": void element, no closing tag")
	case tag.Type == scanner.Script, tag.Type == scanner.Style:
		b.WriteString(": raw text element")
	default:
		b.WriteString(": HTML element")
	}
	return b.String()
}

func spanContains(span parser.Span, line, col int) bool {
	if line < span.Start.Line || line > span.End.Line {
		return false
	}
	if line == span.Start.Line && col < span.Start.Column {
		return false
	}
	if line == span.End.Line && col >= span.End.Column {
		return false
	}
	return true
}
