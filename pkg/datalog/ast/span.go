package ast

// Span identifies a byte-offset range inside the source text of a single
// block. Offsets are relative to the beginning of the block's text, Start is
// inclusive and End is exclusive. A span never crosses block boundaries.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Slice returns the substring of text covered by the span.
func (s Span) Slice(text string) string {
	return text[s.Start:s.End]
}
