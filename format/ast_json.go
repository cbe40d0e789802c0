// Package format renders parse trees for humans and tools: JSON for
// programmatic consumers, a plain-text outline for quick inspection.
package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/stache/template/parser"
)

type ASTJSONEncoder struct {
	w             io.Writer
	includeHidden bool
	withPositions bool
}

type ASTJSONOption func(*ASTJSONEncoder)

func WithHidden() ASTJSONOption {
	return func(e *ASTJSONEncoder) {
		e.includeHidden = true
	}
}

func WithPositions() ASTJSONOption {
	return func(e *ASTJSONEncoder) {
		e.withPositions = true
	}
}

func NewASTJSONEncoder(w io.Writer, opts ...ASTJSONOption) *ASTJSONEncoder {
	e := &ASTJSONEncoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(e.nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Literal  string         `json:"literal,omitempty"`
	Hidden   bool           `json:"hidden,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *ASTJSONEncoder) nodeToJSON(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:   n.Kind.String(),
		Hidden: n.Hidden,
	}

	if e.withPositions {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   astJSONPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if len(n.Children) == 0 {
		jn.Literal = n.Literal
	}

	children := n.Children
	if !e.includeHidden {
		children = n.VisibleChildren()
	}
	for _, child := range children {
		jn.Children = append(jn.Children, e.nodeToJSON(child))
	}

	return jn
}
