package editor

import "github.com/dhamidi/stache/template/parser"

type FoldKind int

const (
	FoldKindRegion FoldKind = iota
	FoldKindComment
)

// FoldRange is a foldable span, expressed in 1-based lines.
type FoldRange struct {
	StartLine int
	EndLine   int
	Kind      FoldKind
}

// FoldingRanges collects every element, section and comment that spans
// more than one line.
func FoldingRanges(tree *parser.Node) []FoldRange {
	var ranges []FoldRange
	if tree == nil {
		return nil
	}
	tree.Walk(func(n *parser.Node) bool {
		var kind FoldKind
		switch n.Kind {
		case parser.KindElement, parser.KindScriptElement, parser.KindStyleElement,
			parser.KindSection, parser.KindInvertedSection:
			kind = FoldKindRegion
		case parser.KindComment, parser.KindTemplateComment:
			kind = FoldKindComment
		default:
			return true
		}
		if n.Span.End.Line > n.Span.Start.Line {
			ranges = append(ranges, FoldRange{
				StartLine: n.Span.Start.Line,
				EndLine:   n.Span.End.Line,
				Kind:      kind,
			})
		}
		return true
	})
	return ranges
}
