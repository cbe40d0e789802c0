package parser

type NodeKind int

const (
	KindError NodeKind = iota

	KindDocument
	KindDoctype
	KindText
	KindEntity

	// HTML
	KindElement
	KindScriptElement
	KindStyleElement
	KindStartTag
	KindSelfClosingTag
	KindEndTag
	KindErroneousEndTag
	KindImplicitEndTag
	KindTagName
	KindAttribute
	KindAttributeName
	KindAttributeValue
	KindQuotedAttributeValue
	KindRawText
	KindComment

	// Mustache
	KindInterpolation
	KindUnescapedInterpolation
	KindSection
	KindInvertedSection
	KindSectionBegin
	KindSectionEnd
	KindErroneousSectionEnd
	KindTemplateComment
	KindPartial
	KindSetDelimiters
	KindIdentifier
	KindPathExpression
)

var nodeKindNames = map[NodeKind]string{
	KindError:                  "error",
	KindDocument:               "document",
	KindDoctype:                "doctype",
	KindText:                   "text",
	KindEntity:                 "entity",
	KindElement:                "element",
	KindScriptElement:          "script_element",
	KindStyleElement:           "style_element",
	KindStartTag:               "start_tag",
	KindSelfClosingTag:         "self_closing_tag",
	KindEndTag:                 "end_tag",
	KindErroneousEndTag:        "erroneous_end_tag",
	KindImplicitEndTag:         "implicit_end_tag",
	KindTagName:                "tag_name",
	KindAttribute:              "attribute",
	KindAttributeName:          "attribute_name",
	KindAttributeValue:         "attribute_value",
	KindQuotedAttributeValue:   "quoted_attribute_value",
	KindRawText:                "raw_text",
	KindComment:                "comment",
	KindInterpolation:          "interpolation",
	KindUnescapedInterpolation: "unescaped_interpolation",
	KindSection:                "section",
	KindInvertedSection:        "inverted_section",
	KindSectionBegin:           "section_begin",
	KindSectionEnd:             "section_end",
	KindErroneousSectionEnd:    "erroneous_section_end",
	KindTemplateComment:        "template_comment",
	KindPartial:                "partial",
	KindSetDelimiters:          "set_delimiters",
	KindIdentifier:             "identifier",
	KindPathExpression:         "path_expression",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is one node of the concrete syntax tree. Hidden nodes are synthetic
// or structural (implicit end tags); tooling that renders the tree filters
// on the flag via VisibleChildren.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Literal  string
	Hidden   bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) VisibleChildren() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if !child.Hidden {
			result = append(result, child)
		}
	}
	return result
}

// Walk calls fn for n and every descendant in document order, pruning a
// subtree when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	result := prefix
	if n.Hidden {
		result += "_"
	}
	result += n.Kind.String()
	if showPositions {
		result += " [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]"
	}
	if n.Literal != "" {
		result += " " + n.Literal
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}
