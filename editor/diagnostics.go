package editor

import (
	"github.com/dhamidi/stache/template/parser"
)

type Diagnostic struct {
	Span    parser.Span
	Message string
}

// Diagnostics derives error markers from the tree, purely from node kinds.
func Diagnostics(tree *parser.Node) []Diagnostic {
	var diags []Diagnostic
	if tree == nil {
		return nil
	}
	tree.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindErroneousEndTag:
			diags = append(diags, Diagnostic{
				Span:    n.Span,
				Message: "mismatched closing tag" + nameSuffix(n, parser.KindTagName),
			})
		case parser.KindErroneousSectionEnd:
			diags = append(diags, Diagnostic{
				Span:    n.Span,
				Message: "mismatched section close" + nameSuffix(n, parser.KindIdentifier),
			})
		case parser.KindError:
			diags = append(diags, Diagnostic{
				Span:    n.Span,
				Message: "syntax error",
			})
		}
		return true
	})
	return diags
}

func nameSuffix(n *parser.Node, kind parser.NodeKind) string {
	if name := n.FirstChildOfKind(kind); name != nil && name.Literal != "" {
		return " " + name.Literal
	}
	return ""
}
