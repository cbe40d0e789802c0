package parser

import (
	"bytes"
	"testing"

	"github.com/dhamidi/stache/template/scanner"
)

func collectKind(root *Node, kind NodeKind) []*Node {
	var found []*Node
	root.Walk(func(n *Node) bool {
		if n.Kind == kind {
			found = append(found, n)
		}
		return true
	})
	return found
}

func firstKind(t *testing.T, root *Node, kind NodeKind) *Node {
	t.Helper()
	nodes := collectKind(root, kind)
	if len(nodes) == 0 {
		t.Fatalf("no %v node in tree:\n%s", kind, root)
	}
	return nodes[0]
}

func TestParseInterpolation(t *testing.T) {
	doc := Parse([]byte("{{name}}"))

	interp := firstKind(t, doc, KindInterpolation)
	ident := interp.FirstChildOfKind(KindIdentifier)
	if ident == nil {
		t.Fatal("interpolation has no identifier child")
	}
	if ident.Literal != "name" {
		t.Errorf("Literal = %q, want %q", ident.Literal, "name")
	}
}

func TestParseInterpolationWithSpaces(t *testing.T) {
	doc := Parse([]byte("{{ name }}"))

	ident := firstKind(t, doc, KindIdentifier)
	if ident.Literal != "name" {
		t.Errorf("Literal = %q, want %q", ident.Literal, "name")
	}
}

func TestParsePathExpression(t *testing.T) {
	doc := Parse([]byte("{{user.address.city}}"))

	path := firstKind(t, doc, KindPathExpression)
	idents := path.ChildrenOfKind(KindIdentifier)
	if len(idents) != 3 {
		t.Fatalf("identifiers = %d, want 3", len(idents))
	}
	want := []string{"user", "address", "city"}
	for i, ident := range idents {
		if ident.Literal != want[i] {
			t.Errorf("identifier[%d] = %q, want %q", i, ident.Literal, want[i])
		}
	}
}

func TestParseImplicitIterator(t *testing.T) {
	doc := Parse([]byte("{{.}}"))

	ident := firstKind(t, doc, KindIdentifier)
	if ident.Literal != "." {
		t.Errorf("Literal = %q, want %q", ident.Literal, ".")
	}
}

func TestParseUnescapedTriple(t *testing.T) {
	doc := Parse([]byte("{{{html}}}"))

	unescaped := firstKind(t, doc, KindUnescapedInterpolation)
	ident := unescaped.FirstChildOfKind(KindIdentifier)
	if ident == nil || ident.Literal != "html" {
		t.Fatalf("identifier = %v, want literal %q", ident, "html")
	}
}

func TestParseUnescapedAmpersand(t *testing.T) {
	doc := Parse([]byte("{{& html }}"))

	unescaped := firstKind(t, doc, KindUnescapedInterpolation)
	ident := unescaped.FirstChildOfKind(KindIdentifier)
	if ident == nil || ident.Literal != "html" {
		t.Fatalf("identifier = %v, want literal %q", ident, "html")
	}
}

func TestParseTemplateComment(t *testing.T) {
	doc := Parse([]byte("before{{! ignore me }}after"))

	firstKind(t, doc, KindTemplateComment)
	texts := collectKind(doc, KindText)
	if len(texts) != 2 {
		t.Fatalf("text nodes = %d, want 2", len(texts))
	}
	if texts[0].Literal != "before" || texts[1].Literal != "after" {
		t.Errorf("texts = %q, %q, want %q, %q", texts[0].Literal, texts[1].Literal, "before", "after")
	}
}

func TestParsePartial(t *testing.T) {
	doc := Parse([]byte("{{> header}}"))

	partial := firstKind(t, doc, KindPartial)
	ident := partial.FirstChildOfKind(KindIdentifier)
	if ident == nil || ident.Literal != "header" {
		t.Fatalf("identifier = %v, want literal %q", ident, "header")
	}
}

func TestParseSection(t *testing.T) {
	doc := Parse([]byte("{{#items}}item{{/items}}"))

	section := firstKind(t, doc, KindSection)
	if section.FirstChildOfKind(KindSectionBegin) == nil {
		t.Error("section has no section_begin child")
	}
	if section.FirstChildOfKind(KindSectionEnd) == nil {
		t.Error("section has no section_end child")
	}
	text := section.FirstChildOfKind(KindText)
	if text == nil || text.Literal != "item" {
		t.Errorf("section body = %v, want text %q", text, "item")
	}
}

func TestParseInvertedSection(t *testing.T) {
	doc := Parse([]byte("{{^empty}}none{{/empty}}"))

	section := firstKind(t, doc, KindInvertedSection)
	if section.FirstChildOfKind(KindSectionEnd) == nil {
		t.Error("inverted section has no section_end child")
	}
}

func TestParseNestedSections(t *testing.T) {
	doc := Parse([]byte("{{#a}}{{#b}}x{{/b}}{{/a}}"))

	sections := collectKind(doc, KindSection)
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	inner := sections[0].FirstChildOfKind(KindSection)
	if inner == nil {
		t.Fatal("inner section is not a child of the outer section")
	}
}

func TestParseMismatchedSectionEnd(t *testing.T) {
	input := []byte("{{#a}}{{#b}}{{/a}}{{/b}}{{/a}}")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	// {{/a}} while b is open is erroneous and closes nothing.
	erroneous := collectKind(doc, KindErroneousSectionEnd)
	if len(erroneous) != 1 {
		t.Fatalf("erroneous section ends = %d, want 1", len(erroneous))
	}

	// The later {{/b}} and {{/a}} close both sections in order.
	if got := p.Scanner().OpenSectionDepth(); got != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", got)
	}
}

func TestParseElement(t *testing.T) {
	doc := Parse([]byte("<div><span>hi</span></div>"))

	elements := collectKind(doc, KindElement)
	if len(elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(elements))
	}

	div := elements[0]
	if name := div.FirstChildOfKind(KindStartTag).FirstChildOfKind(KindTagName); name == nil || name.Literal != "div" {
		t.Fatalf("outer tag name = %v, want %q", name, "div")
	}
	span := div.FirstChildOfKind(KindElement)
	if span == nil {
		t.Fatal("span is not a child of div")
	}
	if span.FirstChildOfKind(KindEndTag) == nil {
		t.Error("span has no end tag")
	}
}

func TestParseListImplicitEnds(t *testing.T) {
	input := []byte("<ul><li>one<li>two</ul>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	items := collectKind(doc, KindElement)
	if len(items) != 3 {
		t.Fatalf("elements = %d, want 3 (ul + 2 li)", len(items))
	}

	// Each li closes implicitly; only the ul has an explicit end tag.
	if got := len(collectKind(doc, KindImplicitEndTag)); got != 2 {
		t.Errorf("implicit end tags = %d, want 2", got)
	}
	if got := len(collectKind(doc, KindEndTag)); got != 1 {
		t.Errorf("end tags = %d, want 1", got)
	}

	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
}

func TestParseVoidElement(t *testing.T) {
	doc := Parse([]byte(`<p><img src="cat.png"></p>`))

	elements := collectKind(doc, KindElement)
	if len(elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(elements))
	}

	img := elements[0].FirstChildOfKind(KindElement)
	if img == nil {
		t.Fatal("img is not a child of p")
	}
	if img.FirstChildOfKind(KindImplicitEndTag) == nil {
		t.Error("img has no implicit end tag")
	}
	if img.FirstChildOfKind(KindEndTag) != nil {
		t.Error("img has an explicit end tag")
	}
}

func TestParseSelfClosingTag(t *testing.T) {
	input := []byte("<div><br/></div>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	if firstKind(t, doc, KindSelfClosingTag) == nil {
		t.Fatal("no self-closing tag")
	}
	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
}

func TestParseErroneousEndTag(t *testing.T) {
	input := []byte("<div></span></div>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	erroneous := firstKind(t, doc, KindErroneousEndTag)
	name := erroneous.FirstChildOfKind(KindTagName)
	if name == nil || name.Literal != "span" {
		t.Fatalf("erroneous tag name = %v, want %q", name, "span")
	}

	// The stray </span> does not disturb the div.
	div := firstKind(t, doc, KindElement)
	if div.FirstChildOfKind(KindEndTag) == nil {
		t.Error("div lost its end tag")
	}
	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
}

func TestParseAttributes(t *testing.T) {
	doc := Parse([]byte(`<a href="https://example.com" target=_blank disabled>x</a>`))

	attrs := collectKind(doc, KindAttribute)
	if len(attrs) != 3 {
		t.Fatalf("attributes = %d, want 3", len(attrs))
	}

	href := attrs[0]
	if name := href.FirstChildOfKind(KindAttributeName); name == nil || name.Literal != "href" {
		t.Errorf("attribute name = %v, want %q", name, "href")
	}
	quoted := href.FirstChildOfKind(KindQuotedAttributeValue)
	if quoted == nil {
		t.Fatal("href has no quoted value")
	}
	if value := quoted.FirstChildOfKind(KindAttributeValue); value == nil || value.Literal != "https://example.com" {
		t.Errorf("value = %v, want %q", value, "https://example.com")
	}

	target := attrs[1]
	if value := target.FirstChildOfKind(KindAttributeValue); value == nil || value.Literal != "_blank" {
		t.Errorf("unquoted value = %v, want %q", value, "_blank")
	}

	disabled := attrs[2]
	if disabled.FirstChildOfKind(KindAttributeValue) != nil {
		t.Error("bare attribute has a value")
	}
}

func TestParseScriptRawText(t *testing.T) {
	doc := Parse([]byte(`<script>if (a < b) { go(); }</script>`))

	script := firstKind(t, doc, KindScriptElement)
	raw := script.FirstChildOfKind(KindRawText)
	if raw == nil {
		t.Fatal("script has no raw text")
	}
	if raw.Literal != "if (a < b) { go(); }" {
		t.Errorf("raw text = %q, want %q", raw.Literal, "if (a < b) { go(); }")
	}
	if script.FirstChildOfKind(KindEndTag) == nil {
		t.Error("script has no end tag")
	}
}

func TestParseStyleRawText(t *testing.T) {
	doc := Parse([]byte(`<style>a > b { color: red }</style>`))

	style := firstKind(t, doc, KindStyleElement)
	raw := style.FirstChildOfKind(KindRawText)
	if raw == nil || raw.Literal != "a > b { color: red }" {
		t.Fatalf("raw text = %v, want %q", raw, "a > b { color: red }")
	}
}

func TestParseComment(t *testing.T) {
	doc := Parse([]byte("<!-- a > b --><p>x</p>"))

	comment := firstKind(t, doc, KindComment)
	if comment.Span.Start.Offset != 0 || comment.Span.End.Offset != 14 {
		t.Errorf("comment span = %d..%d, want 0..14", comment.Span.Start.Offset, comment.Span.End.Offset)
	}
}

func TestParseDoctype(t *testing.T) {
	doc := Parse([]byte("<!DOCTYPE html><html></html>"))

	doctype := firstKind(t, doc, KindDoctype)
	if doctype.Literal != "<!DOCTYPE html>" {
		t.Errorf("doctype = %q, want %q", doctype.Literal, "<!DOCTYPE html>")
	}
}

func TestParseEntity(t *testing.T) {
	doc := Parse([]byte("a &amp; b &#38; c"))

	entities := collectKind(doc, KindEntity)
	if len(entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(entities))
	}
	if entities[0].Literal != "&amp;" {
		t.Errorf("entity = %q, want %q", entities[0].Literal, "&amp;")
	}
	if entities[1].Literal != "&#38;" {
		t.Errorf("entity = %q, want %q", entities[1].Literal, "&#38;")
	}

	texts := collectKind(doc, KindText)
	if len(texts) != 3 {
		t.Fatalf("text nodes = %d, want 3", len(texts))
	}
}

func TestParseBareAmpersand(t *testing.T) {
	doc := Parse([]byte("fish & chips"))

	if got := len(collectKind(doc, KindEntity)); got != 0 {
		t.Errorf("entities = %d, want 0", got)
	}
	text := firstKind(t, doc, KindText)
	if text.Literal != "fish & chips" {
		t.Errorf("text = %q, want %q", text.Literal, "fish & chips")
	}
}

func TestParseSetDelimiters(t *testing.T) {
	input := []byte("{{=<% %>=}}<p><% name %></p>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	firstKind(t, doc, KindSetDelimiters)

	// Content after the directive parses with the new delimiters.
	interp := firstKind(t, doc, KindInterpolation)
	ident := interp.FirstChildOfKind(KindIdentifier)
	if ident == nil || ident.Literal != "name" {
		t.Fatalf("identifier = %v, want literal %q", ident, "name")
	}

	start, end := p.Scanner().Delimiters()
	if start != "<%" || end != "%>" {
		t.Errorf("Delimiters = %q, %q, want %q, %q", start, end, "<%", "%>")
	}
}

func TestParseSectionClosesElements(t *testing.T) {
	input := []byte("{{#items}}<li>{{name}}{{/items}}")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	section := firstKind(t, doc, KindSection)
	li := section.FirstChildOfKind(KindElement)
	if li == nil {
		t.Fatal("li is not a child of the section")
	}
	if li.FirstChildOfKind(KindImplicitEndTag) == nil {
		t.Error("li has no implicit end tag at the section close")
	}
	if section.FirstChildOfKind(KindSectionEnd) == nil {
		t.Error("section has no section_end")
	}

	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
	if got := p.Scanner().OpenSectionDepth(); got != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", got)
	}
}

func TestParseWellNestedDocument(t *testing.T) {
	input := []byte(`<!DOCTYPE html>
<html>
<head><title>{{title}}</title></head>
<body>
<ul>
{{#items}}<li>{{name}}</li>{{/items}}
</ul>
</body>
</html>`)
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	if got := len(collectKind(doc, KindError)); got != 0 {
		t.Errorf("error nodes = %d, want 0", got)
	}
	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
	if got := p.Scanner().OpenSectionDepth(); got != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", got)
	}
}

func TestParseResumeFromCheckpoint(t *testing.T) {
	prefix := []byte("<ul><li>a")
	p := ParseDocument(bytes.NewReader(prefix))
	p.Finish()

	buf := make([]byte, scanner.SerializationBufferSize)
	n := p.Scanner().Serialize(buf)

	restored := scanner.New()
	restored.Deserialize(buf[:n])

	if restored.OpenElementDepth() != p.Scanner().OpenElementDepth() {
		t.Fatalf("OpenElementDepth = %d, want %d",
			restored.OpenElementDepth(), p.Scanner().OpenElementDepth())
	}
}

func TestParsePositions(t *testing.T) {
	doc := Parse([]byte("ab\n{{name}}"), WithFile("test.mustache"))

	interp := firstKind(t, doc, KindInterpolation)
	if interp.Span.Start.Line != 2 || interp.Span.Start.Column != 1 {
		t.Errorf("start = %d:%d, want 2:1", interp.Span.Start.Line, interp.Span.Start.Column)
	}
	if interp.Span.Start.File != "test.mustache" {
		t.Errorf("File = %q, want %q", interp.Span.Start.File, "test.mustache")
	}
}

func TestParseUnclosedElement(t *testing.T) {
	input := []byte("<div><p>text")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	if doc == nil {
		t.Fatal("Finish returned nil")
	}
	// End of input closes html/head/body style roots only; div and p
	// survive as open elements in the scanner for a resumed parse.
	elements := collectKind(doc, KindElement)
	if len(elements) != 2 {
		t.Errorf("elements = %d, want 2", len(elements))
	}
}

func TestParseSectionClosesListItem(t *testing.T) {
	input := []byte("<ul>{{#items}}<li>{{name}}{{/items}}</ul>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	// Exactly one implicit end closes the li at the section boundary; the
	// ul keeps its explicit end tag.
	if got := len(collectKind(doc, KindImplicitEndTag)); got != 1 {
		t.Errorf("implicit end tags = %d, want 1", got)
	}
	endTags := collectKind(doc, KindEndTag)
	if len(endTags) != 1 {
		t.Fatalf("end tags = %d, want 1", len(endTags))
	}
	if name := endTags[0].FirstChildOfKind(KindTagName); name == nil || name.Literal != "ul" {
		t.Errorf("end tag = %v, want ul", name)
	}

	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
	if got := p.Scanner().OpenSectionDepth(); got != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", got)
	}
}

func TestParseStrayEndTagEmptyStack(t *testing.T) {
	input := []byte("</br>")
	p := ParseDocument(bytes.NewReader(input))
	doc := p.Finish()

	if got := len(collectKind(doc, KindErroneousEndTag)); got != 1 {
		t.Errorf("erroneous end tags = %d, want 1", got)
	}
	if got := p.Scanner().OpenElementDepth(); got != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", got)
	}
}
