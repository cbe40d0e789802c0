package editor

import (
	"github.com/dhamidi/stache/format"
	"github.com/dhamidi/stache/template/parser"
)

type SymbolKind int

const (
	SymbolKindElement SymbolKind = iota
	SymbolKindSection
	SymbolKindInvertedSection
	SymbolKindPartial
)

// Symbol is one entry of the document outline.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     parser.Span
	Children []Symbol
}

// Outline extracts the element/section symbol hierarchy of a parse tree.
func Outline(tree *parser.Node) []Symbol {
	if tree == nil {
		return nil
	}
	return outlineChildren(tree)
}

func outlineChildren(n *parser.Node) []Symbol {
	var symbols []Symbol
	for _, child := range n.VisibleChildren() {
		switch child.Kind {
		case parser.KindElement, parser.KindScriptElement, parser.KindStyleElement:
			symbols = append(symbols, Symbol{
				Name:     format.ElementName(child),
				Kind:     SymbolKindElement,
				Span:     child.Span,
				Children: outlineChildren(child),
			})
		case parser.KindSelfClosingTag:
			symbols = append(symbols, Symbol{
				Name: format.ElementName(child),
				Kind: SymbolKindElement,
				Span: child.Span,
			})
		case parser.KindSection:
			symbols = append(symbols, Symbol{
				Name:     format.SectionName(child),
				Kind:     SymbolKindSection,
				Span:     child.Span,
				Children: outlineChildren(child),
			})
		case parser.KindInvertedSection:
			symbols = append(symbols, Symbol{
				Name:     format.SectionName(child),
				Kind:     SymbolKindInvertedSection,
				Span:     child.Span,
				Children: outlineChildren(child),
			})
		case parser.KindPartial:
			symbols = append(symbols, Symbol{
				Name: partialName(child),
				Kind: SymbolKindPartial,
				Span: child.Span,
			})
		default:
			symbols = append(symbols, outlineChildren(child)...)
		}
	}
	return symbols
}

func partialName(n *parser.Node) string {
	if ident := n.FirstChildOfKind(parser.KindIdentifier); ident != nil {
		return ident.Literal
	}
	if path := n.FirstChildOfKind(parser.KindPathExpression); path != nil {
		name := ""
		for _, ident := range path.ChildrenOfKind(parser.KindIdentifier) {
			if name != "" {
				name += "."
			}
			name += ident.Literal
		}
		return name
	}
	return ""
}
