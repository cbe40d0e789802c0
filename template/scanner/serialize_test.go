package scanner

import "testing"

func TestSerializeRoundTrip(t *testing.T) {
	s := New()
	scanAt(s, "html>", 0, Only(StartTagName))
	scanAt(s, "body>", 0, Only(StartTagName))
	scanAt(s, "items}}", 0, Only(SectionStartName))
	scanAt(s, "ul>", 0, Only(StartTagName))
	scanAt(s, "my-widget>", 0, Only(StartTagName))

	buf := make([]byte, SerializationBufferSize)
	n := s.Serialize(buf)
	if n == 0 {
		t.Fatal("Serialize wrote 0 bytes")
	}

	restored := New()
	restored.Deserialize(buf[:n])

	if restored.OpenElementDepth() != s.OpenElementDepth() {
		t.Errorf("OpenElementDepth = %d, want %d", restored.OpenElementDepth(), s.OpenElementDepth())
	}
	if restored.OpenSectionDepth() != s.OpenSectionDepth() {
		t.Errorf("OpenSectionDepth = %d, want %d", restored.OpenSectionDepth(), s.OpenSectionDepth())
	}

	top, ok := restored.TopElement()
	if !ok {
		t.Fatal("restored scanner has no top element")
	}
	if top.Type != Custom || top.Name != "MY-WIDGET" {
		t.Errorf("top = %v %q, want Custom %q", top.Type, top.Name, "MY-WIDGET")
	}

	section, ok := restored.TopSection()
	if !ok {
		t.Fatal("restored scanner has no top section")
	}
	if section.Name != "items" {
		t.Errorf("section.Name = %q, want %q", section.Name, "items")
	}
	if section.HTMLDepth != 2 {
		t.Errorf("section.HTMLDepth = %d, want 2", section.HTMLDepth)
	}
}

func TestSerializeRoundTripBehavior(t *testing.T) {
	s := New()
	scanAt(s, "ul>", 0, Only(StartTagName))
	scanAt(s, "li>", 0, Only(StartTagName))

	buf := make([]byte, SerializationBufferSize)
	n := s.Serialize(buf)

	restored := New()
	restored.Deserialize(buf[:n])

	// The restored scanner makes the same decision at the same input.
	tok, _, ok := scanAt(restored, "<li>", 0, Only(ImplicitEndTag))
	if !ok {
		t.Fatal("restored scanner declined")
	}
	if tok != ImplicitEndTag {
		t.Errorf("token = %v, want %v", tok, ImplicitEndTag)
	}
	if restored.OpenElementDepth() != 1 {
		t.Errorf("OpenElementDepth = %d, want 1", restored.OpenElementDepth())
	}
}

func TestSerializeEmpty(t *testing.T) {
	s := New()
	buf := make([]byte, SerializationBufferSize)
	n := s.Serialize(buf)
	if n != 8 {
		t.Errorf("Serialize wrote %d bytes for empty stacks, want 8", n)
	}

	restored := New()
	scanAt(restored, "div>", 0, Only(StartTagName))
	restored.Deserialize(buf[:n])
	if restored.OpenElementDepth() != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", restored.OpenElementDepth())
	}
	if restored.OpenSectionDepth() != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", restored.OpenSectionDepth())
	}
}

func TestDeserializeZeroLength(t *testing.T) {
	s := New()
	scanAt(s, "div>", 0, Only(StartTagName))
	scanAt(s, "items}}", 0, Only(SectionStartName))
	s.SetDelimiters("<%", "%>")

	s.Deserialize(nil)

	if s.OpenElementDepth() != 0 {
		t.Errorf("OpenElementDepth = %d, want 0", s.OpenElementDepth())
	}
	if s.OpenSectionDepth() != 0 {
		t.Errorf("OpenSectionDepth = %d, want 0", s.OpenSectionDepth())
	}
	start, end := s.Delimiters()
	if start != "{{" || end != "}}" {
		t.Errorf("Delimiters = %q, %q, want defaults", start, end)
	}
	if got := s.PreviousEndDelimiter(); got != "}}" {
		t.Errorf("PreviousEndDelimiter = %q, want %q", got, "}}")
	}
}

func TestSerializeTruncation(t *testing.T) {
	s := New()
	for i := 0; i < 20; i++ {
		scanAt(s, "div>", 0, Only(StartTagName))
	}

	// Room for the header and only part of the tag stack.
	buf := make([]byte, 10)
	n := s.Serialize(buf)
	if n > len(buf) {
		t.Fatalf("Serialize wrote %d bytes into a %d byte buffer", n, len(buf))
	}

	restored := New()
	restored.Deserialize(buf[:n])

	// Written entries are real, the rest come back as empty placeholders
	// so the logical depth survives.
	if restored.OpenElementDepth() != 20 {
		t.Errorf("OpenElementDepth = %d, want 20", restored.OpenElementDepth())
	}
}

func TestSerializeTruncationKeepsSectionCount(t *testing.T) {
	s := New()
	scanAt(s, "items}}", 0, Only(SectionStartName))
	for i := 0; i < 20; i++ {
		scanAt(s, "div>", 0, Only(StartTagName))
	}

	// The tag entries alone would exhaust this buffer; the section header
	// must still be written so the logical section depth survives.
	buf := make([]byte, 10)
	n := s.Serialize(buf)
	if n > len(buf) {
		t.Fatalf("Serialize wrote %d bytes into a %d byte buffer", n, len(buf))
	}

	restored := New()
	restored.Deserialize(buf[:n])

	if restored.OpenElementDepth() != 20 {
		t.Errorf("OpenElementDepth = %d, want 20", restored.OpenElementDepth())
	}
	if restored.OpenSectionDepth() != 1 {
		t.Errorf("OpenSectionDepth = %d, want 1", restored.OpenSectionDepth())
	}
}

func TestSerializeSmallBuffer(t *testing.T) {
	s := New()
	scanAt(s, "div>", 0, Only(StartTagName))

	for _, size := range []int{3, 7} {
		if n := s.Serialize(make([]byte, size)); n != 0 {
			t.Errorf("Serialize = %d into a %d byte buffer, want 0", n, size)
		}
	}
}
