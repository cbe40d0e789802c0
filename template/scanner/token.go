package scanner

// TokenType identifies a context-sensitive token the scanner can emit.
type TokenType int

const (
	StartTagName TokenType = iota
	ScriptStartTagName
	StyleStartTagName
	EndTagName
	ErroneousEndTagName
	SelfClosingTagDelimiter
	ImplicitEndTag
	RawText
	Comment

	SectionStartName
	SectionEndName
	ErroneousSectionEndName
	IdentifierContent
)

var tokenTypeNames = map[TokenType]string{
	StartTagName:            "StartTagName",
	ScriptStartTagName:      "ScriptStartTagName",
	StyleStartTagName:       "StyleStartTagName",
	EndTagName:              "EndTagName",
	ErroneousEndTagName:     "ErroneousEndTagName",
	SelfClosingTagDelimiter: "SelfClosingTagDelimiter",
	ImplicitEndTag:          "ImplicitEndTag",
	RawText:                 "RawText",
	Comment:                 "Comment",
	SectionStartName:        "SectionStartName",
	SectionEndName:          "SectionEndName",
	ErroneousSectionEndName: "ErroneousSectionEndName",
	IdentifierContent:       "IdentifierContent",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Valid is the driver-supplied vector of token types that would be
// syntactically valid at the current position.
type Valid uint16

// Only builds a validity vector out of the given token types.
func Only(types ...TokenType) Valid {
	var v Valid
	for _, t := range types {
		v |= 1 << t
	}
	return v
}

func (v Valid) Has(t TokenType) bool {
	return v&(1<<t) != 0
}
