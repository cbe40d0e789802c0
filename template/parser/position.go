package parser

import (
	"sort"
	"strconv"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// lineIndex maps byte offsets to line/column pairs without rescanning the
// input for every node.
type lineIndex struct {
	file  string
	input []byte
	// starts holds the byte offset of the first character of each line.
	starts []int
}

func newLineIndex(input []byte, file string) *lineIndex {
	starts := []int{0}
	for i, b := range input {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{file: file, input: input, starts: starts}
}

func (ix *lineIndex) position(offset int) Position {
	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	return Position{
		File:   ix.file,
		Offset: offset,
		Line:   line,
		Column: offset - ix.starts[line-1] + 1,
	}
}

func (ix *lineIndex) span(start, end int) Span {
	return Span{Start: ix.position(start), End: ix.position(end)}
}
