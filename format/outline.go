package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/stache/template/parser"
)

// OutlineEncoder writes the element/section skeleton of a document, one
// node per line, indented by depth. Text, attributes and other leaves are
// omitted.
type OutlineEncoder struct {
	w io.Writer
}

func NewOutlineEncoder(w io.Writer) *OutlineEncoder {
	return &OutlineEncoder{w: w}
}

func (e *OutlineEncoder) Encode(node *parser.Node) error {
	return e.encode(node, 0)
}

func (e *OutlineEncoder) encode(n *parser.Node, depth int) error {
	label, descend := outlineLabel(n)
	if label != "" {
		indent := strings.Repeat("  ", depth)
		line := fmt.Sprintf("%s%s [%s-%s]\n", indent, label, n.Span.Start, n.Span.End)
		if _, err := io.WriteString(e.w, line); err != nil {
			return err
		}
		depth++
	}
	if !descend {
		return nil
	}
	for _, child := range n.VisibleChildren() {
		if err := e.encode(child, depth); err != nil {
			return err
		}
	}
	return nil
}

// outlineLabel returns the display label for an outline-worthy node and
// whether its children should be visited.
func outlineLabel(n *parser.Node) (string, bool) {
	switch n.Kind {
	case parser.KindDocument:
		return "", true
	case parser.KindElement, parser.KindScriptElement, parser.KindStyleElement:
		return ElementName(n), true
	case parser.KindSelfClosingTag:
		return ElementName(n), false
	case parser.KindSection:
		return "#" + SectionName(n), true
	case parser.KindInvertedSection:
		return "^" + SectionName(n), true
	default:
		return "", false
	}
}

// ElementName extracts the tag name of an element, self-closing tag, or
// start tag node.
func ElementName(n *parser.Node) string {
	target := n
	if tag := n.FirstChildOfKind(parser.KindStartTag); tag != nil {
		target = tag
	}
	if name := target.FirstChildOfKind(parser.KindTagName); name != nil {
		return name.Literal
	}
	return ""
}

// SectionName extracts the name of a section or inverted section node.
func SectionName(n *parser.Node) string {
	begin := n.FirstChildOfKind(parser.KindSectionBegin)
	if begin == nil {
		begin = n
	}
	if name := begin.FirstChildOfKind(parser.KindIdentifier); name != nil {
		return name.Literal
	}
	return ""
}
