package scanner

import "encoding/binary"

// SerializationBufferSize is the checkpoint buffer size the hosting engine
// is expected to provide. Serialize accepts any buffer length and truncates
// gracefully; this constant only documents the conventional capacity.
const SerializationBufferSize = 1024

const (
	maxSerializedEntries = 0xFFFF
	maxSerializedName    = 0xFF
)

// Serialize encodes both stacks into buf and returns the number of bytes
// written. Each stack is front-loaded with two uint16 counts: the number of
// entries actually written, then the logical stack depth. When buf runs out
// of room the remaining entries are silently dropped; the two counts then
// disagree, and Deserialize pads the difference with empty entries. Losing
// checkpoint precision is preferable to overflowing the caller's buffer.
//
// Wire layout, little-endian:
//
//	uint16 written HTML tag count
//	uint16 logical HTML tag count
//	per tag: kind byte, then for Custom: uint8 name length + name bytes
//	uint16 written section count
//	uint16 logical section count
//	per section: uint8 name length, uint16 element-depth snapshot, name bytes
func (s *Scanner) Serialize(buf []byte) int {
	if len(buf) < 8 {
		return 0
	}

	tagCount := len(s.tags)
	if tagCount > maxSerializedEntries {
		tagCount = maxSerializedEntries
	}

	// Tag entries never claim the last 4 bytes: the section-stack header
	// must always fit, so a truncated record still carries both logical
	// counts.
	limit := len(buf) - 4

	written := 0
	size := 4
	for ; written < tagCount; written++ {
		tag := s.tags[written]
		if tag.Type == Custom {
			nameLen := len(tag.Name)
			if nameLen > maxSerializedName {
				nameLen = maxSerializedName
			}
			if size+2+nameLen >= limit {
				break
			}
			buf[size] = byte(tag.Type)
			buf[size+1] = byte(nameLen)
			copy(buf[size+2:], tag.Name[:nameLen])
			size += 2 + nameLen
		} else {
			if size+1 >= limit {
				break
			}
			buf[size] = byte(tag.Type)
			size++
		}
	}
	binary.LittleEndian.PutUint16(buf[0:], uint16(written))
	binary.LittleEndian.PutUint16(buf[2:], uint16(tagCount))

	sectionCount := len(s.sections)
	if sectionCount > maxSerializedEntries {
		sectionCount = maxSerializedEntries
	}

	sectionHeader := size
	size += 4
	sectionsWritten := 0
	for ; sectionsWritten < sectionCount; sectionsWritten++ {
		section := s.sections[sectionsWritten]
		nameLen := len(section.Name)
		if nameLen > maxSerializedName {
			nameLen = maxSerializedName
		}
		if size+3+nameLen >= len(buf) {
			break
		}
		buf[size] = byte(nameLen)
		binary.LittleEndian.PutUint16(buf[size+1:], uint16(section.HTMLDepth))
		copy(buf[size+3:], section.Name[:nameLen])
		size += 3 + nameLen
	}
	binary.LittleEndian.PutUint16(buf[sectionHeader:], uint16(sectionsWritten))
	binary.LittleEndian.PutUint16(buf[sectionHeader+2:], uint16(sectionCount))

	return size
}

// Deserialize is the inverse of Serialize. A zero-length buffer resets the
// scanner to two empty stacks and the default delimiters. A truncated
// record never fails: entries the buffer could not hold come back as empty
// placeholders so the logical stack depth is preserved.
func (s *Scanner) Deserialize(buf []byte) {
	s.tags = s.tags[:0]
	s.sections = s.sections[:0]

	if len(buf) == 0 {
		s.startDelim = defaultStartDelimiter
		s.endDelim = defaultEndDelimiter
		s.prevEndDelim = defaultEndDelimiter
		return
	}

	r := byteReader{buf: buf}

	written := int(r.readUint16())
	tagCount := int(r.readUint16())
	for i := 0; i < written; i++ {
		tag := Tag{Type: TagType(r.readByte())}
		if tag.Type == Custom {
			nameLen := int(r.readByte())
			tag.Name = string(r.readBytes(nameLen))
		}
		s.tags = append(s.tags, tag)
	}
	for i := written; i < tagCount; i++ {
		s.tags = append(s.tags, Tag{})
	}

	sectionsWritten := int(r.readUint16())
	sectionCount := int(r.readUint16())
	for i := 0; i < sectionsWritten; i++ {
		nameLen := int(r.readByte())
		depth := int(r.readUint16())
		name := string(r.readBytes(nameLen))
		s.sections = append(s.sections, SectionTag{Name: name, HTMLDepth: depth})
	}
	for i := sectionsWritten; i < sectionCount; i++ {
		s.sections = append(s.sections, SectionTag{})
	}
}

// byteReader walks a serialization buffer, yielding zero values once the
// buffer is exhausted instead of failing.
type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) readByte() byte {
	if r.pos >= len(r.buf) {
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *byteReader) readUint16() uint16 {
	if r.pos+2 > len(r.buf) {
		r.pos = len(r.buf)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *byteReader) readBytes(n int) []byte {
	if r.pos+n > len(r.buf) {
		n = len(r.buf) - r.pos
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}
