package scanner

// TagType identifies an HTML element kind. The numeric values are part of
// the serialization format and must not be reordered.
type TagType uint8

const (
	// Void elements, in the range [0, endOfVoidTags).
	Area TagType = iota
	Base
	Basefont
	Bgsound
	Br
	Col
	Command
	Embed
	Frame
	Hr
	Image
	Img
	Input
	Isindex
	Keygen
	Link
	Menuitem
	Meta
	Nextid
	Param
	Source
	Spacer
	Track
	Wbr
	endOfVoidTags

	A
	Abbr
	Address
	Article
	Aside
	Audio
	B
	Bdi
	Bdo
	Blockquote
	Body
	Button
	Canvas
	Caption
	Cite
	Code
	Colgroup
	Data
	Datalist
	Dd
	Del
	Details
	Dfn
	Dialog
	Div
	Dl
	Dt
	Em
	Fieldset
	Figcaption
	Figure
	Footer
	Form
	H1
	H2
	H3
	H4
	H5
	H6
	Head
	Header
	Hgroup
	HTMLRoot
	I
	Iframe
	Ins
	Kbd
	Label
	Legend
	Li
	Main
	Map
	Mark
	Math
	Menu
	Meter
	Nav
	Noscript
	Object
	Ol
	Optgroup
	Option
	Output
	P
	Picture
	Pre
	Progress
	Q
	Rb
	Rp
	Rt
	Rtc
	Ruby
	S
	Samp
	Script
	Section
	Select
	Slot
	Small
	Span
	Strong
	Style
	Sub
	Summary
	Sup
	Svg
	Table
	Tbody
	Td
	Template
	Textarea
	Tfoot
	Th
	Thead
	Time
	Title
	Tr
	U
	Ul
	Var
	Video

	Custom
)

var tagTypeNames = map[TagType]string{
	Area: "AREA", Base: "BASE", Basefont: "BASEFONT", Bgsound: "BGSOUND",
	Br: "BR", Col: "COL", Command: "COMMAND", Embed: "EMBED", Frame: "FRAME",
	Hr: "HR", Image: "IMAGE", Img: "IMG", Input: "INPUT", Isindex: "ISINDEX",
	Keygen: "KEYGEN", Link: "LINK", Menuitem: "MENUITEM", Meta: "META",
	Nextid: "NEXTID", Param: "PARAM", Source: "SOURCE", Spacer: "SPACER",
	Track: "TRACK", Wbr: "WBR",

	A: "A", Abbr: "ABBR", Address: "ADDRESS", Article: "ARTICLE",
	Aside: "ASIDE", Audio: "AUDIO", B: "B", Bdi: "BDI", Bdo: "BDO",
	Blockquote: "BLOCKQUOTE", Body: "BODY", Button: "BUTTON",
	Canvas: "CANVAS", Caption: "CAPTION", Cite: "CITE", Code: "CODE",
	Colgroup: "COLGROUP", Data: "DATA", Datalist: "DATALIST", Dd: "DD",
	Del: "DEL", Details: "DETAILS", Dfn: "DFN", Dialog: "DIALOG",
	Div: "DIV", Dl: "DL", Dt: "DT", Em: "EM", Fieldset: "FIELDSET",
	Figcaption: "FIGCAPTION", Figure: "FIGURE", Footer: "FOOTER",
	Form: "FORM", H1: "H1", H2: "H2", H3: "H3", H4: "H4", H5: "H5",
	H6: "H6", Head: "HEAD", Header: "HEADER", Hgroup: "HGROUP",
	HTMLRoot: "HTML", I: "I", Iframe: "IFRAME", Ins: "INS", Kbd: "KBD",
	Label: "LABEL", Legend: "LEGEND", Li: "LI", Main: "MAIN", Map: "MAP",
	Mark: "MARK", Math: "MATH", Menu: "MENU", Meter: "METER", Nav: "NAV",
	Noscript: "NOSCRIPT", Object: "OBJECT", Ol: "OL", Optgroup: "OPTGROUP",
	Option: "OPTION", Output: "OUTPUT", P: "P", Picture: "PICTURE",
	Pre: "PRE", Progress: "PROGRESS", Q: "Q", Rb: "RB", Rp: "RP", Rt: "RT",
	Rtc: "RTC", Ruby: "RUBY", S: "S", Samp: "SAMP", Script: "SCRIPT",
	Section: "SECTION", Select: "SELECT", Slot: "SLOT", Small: "SMALL",
	Span: "SPAN", Strong: "STRONG", Style: "STYLE", Sub: "SUB",
	Summary: "SUMMARY", Sup: "SUP", Svg: "SVG", Table: "TABLE",
	Tbody: "TBODY", Td: "TD", Template: "TEMPLATE", Textarea: "TEXTAREA",
	Tfoot: "TFOOT", Th: "TH", Thead: "THEAD", Time: "TIME", Title: "TITLE",
	Tr: "TR", U: "U", Ul: "UL", Var: "VAR", Video: "VIDEO",
}

var tagTypesByName = func() map[string]TagType {
	m := make(map[string]TagType, len(tagTypeNames))
	for t, name := range tagTypeNames {
		m[name] = t
	}
	return m
}()

func (t TagType) String() string {
	if name, ok := tagTypeNames[t]; ok {
		return name
	}
	return "CUSTOM"
}

// Tag is one entry on the open-element stack. Name is set only for Custom
// tags and holds the upper-cased tag name.
type Tag struct {
	Type TagType
	Name string
}

// TagForName classifies an upper-cased tag name. Unrecognized names resolve
// to a Custom tag that retains the name; classification never fails.
func TagForName(name string) Tag {
	if t, ok := tagTypesByName[name]; ok {
		return Tag{Type: t}
	}
	return Tag{Type: Custom, Name: name}
}

// Eq reports whether two tags name the same element. Builtin kinds compare
// by type alone; Custom tags also compare names byte-for-byte.
func (t Tag) Eq(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	if t.Type == Custom {
		return t.Name == other.Name
	}
	return true
}

// IsVoid reports whether the element never has children or a closing tag.
func (t Tag) IsVoid() bool {
	return t.Type < endOfVoidTags
}

// paragraphClosers are the element kinds whose start tag implicitly closes
// an open <p>.
var paragraphClosers = map[TagType]bool{
	Address: true, Article: true, Aside: true, Blockquote: true,
	Details: true, Div: true, Dl: true, Fieldset: true, Figcaption: true,
	Figure: true, Footer: true, Form: true, H1: true, H2: true, H3: true,
	H4: true, H5: true, H6: true, Header: true, Hr: true, Main: true,
	Nav: true, Ol: true, P: true, Pre: true, Section: true, Table: true,
	Ul: true,
}

// CanContain reports whether t may legally keep child as a direct child.
// A false result is what triggers an implicit end tag for t.
func (t Tag) CanContain(child Tag) bool {
	switch t.Type {
	case Li:
		return child.Type != Li
	case Dt, Dd:
		return child.Type != Dt && child.Type != Dd
	case P:
		return !paragraphClosers[child.Type]
	case Colgroup:
		return child.Type == Col
	case Rb, Rt:
		return child.Type != Rb && child.Type != Rt
	case Optgroup:
		return child.Type != Optgroup
	case Tr:
		return child.Type == Td || child.Type == Th || child.Type == Script || child.Type == Template
	case Td, Th:
		return child.Type != Td && child.Type != Th && child.Type != Tr
	default:
		return true
	}
}
