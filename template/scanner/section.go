package scanner

// SectionTag is one entry on the open-section stack: a mustache block
// section such as {{#items}}. HTMLDepth snapshots the open-element stack
// depth at the moment the section opened, so that closing the section can
// tell exactly which elements were opened inside its body and still need
// an implicit end tag.
type SectionTag struct {
	Name      string
	HTMLDepth int
}

// Eq compares sections by name only.
func (s SectionTag) Eq(other SectionTag) bool {
	return s.Name == other.Name
}
