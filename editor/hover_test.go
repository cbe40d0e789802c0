package editor

import (
	"strings"
	"testing"
)

func hoverDoc(t *testing.T, content string) *Document {
	t.Helper()
	w := NewWorkspace(".")
	if err := w.UpdateFile("t.mustache", []byte(content)); err != nil {
		t.Fatal(err)
	}
	return w.GetFile("t.mustache")
}

func TestHoverAtTagName(t *testing.T) {
	doc := hoverDoc(t, "<div>x</div>")

	// Column 2 is the 'd' of the opening tag name.
	text, span, ok := HoverAt(doc, 1, 2)
	if !ok {
		t.Fatal("HoverAt declined")
	}
	if !strings.Contains(text, "<div>") || !strings.Contains(text, "HTML element") {
		t.Errorf("text = %q, want div HTML element", text)
	}
	if span.Start.Column != 2 || span.End.Column != 5 {
		t.Errorf("span columns = %d..%d, want 2..5", span.Start.Column, span.End.Column)
	}
}

func TestHoverAtVoidTag(t *testing.T) {
	doc := hoverDoc(t, `<img src="x">`)

	text, _, ok := HoverAt(doc, 1, 3)
	if !ok {
		t.Fatal("HoverAt declined")
	}
	if !strings.Contains(text, "void element") {
		t.Errorf("text = %q, want void element", text)
	}
}

func TestHoverAtCustomTag(t *testing.T) {
	doc := hoverDoc(t, "<my-widget></my-widget>")

	text, _, ok := HoverAt(doc, 1, 4)
	if !ok {
		t.Fatal("HoverAt declined")
	}
	if !strings.Contains(text, "custom element") {
		t.Errorf("text = %q, want custom element", text)
	}
}

func TestHoverAtScriptTag(t *testing.T) {
	doc := hoverDoc(t, "<script>x()</script>")

	text, _, ok := HoverAt(doc, 1, 3)
	if !ok {
		t.Fatal("HoverAt declined")
	}
	if !strings.Contains(text, "raw text element") {
		t.Errorf("text = %q, want raw text element", text)
	}
}

func TestHoverAtIdentifier(t *testing.T) {
	doc := hoverDoc(t, "{{greeting}}")

	text, _, ok := HoverAt(doc, 1, 5)
	if !ok {
		t.Fatal("HoverAt declined")
	}
	if !strings.Contains(text, "greeting") {
		t.Errorf("text = %q, want greeting", text)
	}
}

func TestHoverAtPlainText(t *testing.T) {
	doc := hoverDoc(t, "<p>hello there</p>")

	if _, _, ok := HoverAt(doc, 1, 8); ok {
		t.Error("HoverAt returned hover for plain text")
	}
}

func TestHoverAtNilDocument(t *testing.T) {
	if _, _, ok := HoverAt(nil, 1, 1); ok {
		t.Error("HoverAt returned hover for nil document")
	}
}
