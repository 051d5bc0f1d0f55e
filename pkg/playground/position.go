package playground

import (
	"strings"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// ResolvePosition converts a byte-offset span inside text into a line/column
// range. The span is resolved by offset, never by substring search, so a
// text that appears twice resolves to its actual occurrence.
//
// Lines count complete newline characters strictly before the offset.
// Columns are measured from the start of the owning line; ColumnEnd is the
// column of the position just past the span's last byte, plus one. A
// zero-length span therefore resolves to ColumnEnd == ColumnStart + 1 on a
// single line.
func ResolvePosition(text string, span ast.Span) SourcePosition {
	lineStart, colStart := locate(text, span.Start)
	lineEnd, colEnd := locate(text, span.End)
	return SourcePosition{
		LineStart:   lineStart,
		ColumnStart: colStart,
		LineEnd:     lineEnd,
		ColumnEnd:   colEnd + 1,
	}
}

// locate returns the zero-based line of the byte offset and its column
// relative to the start of that line. An offset with no preceding newline is
// on line 0 and its line begins at offset 0.
func locate(text string, offset int) (line, column int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := text[:offset]
	line = strings.Count(prefix, "\n")
	lineBegin := strings.LastIndexByte(prefix, '\n') + 1
	return line, offset - lineBegin
}
