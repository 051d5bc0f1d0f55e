package playground

import "biscuit-hq/bakery/pkg/datalog/ast"

// SourcePosition is a line/column range inside one block's text. Lines and
// columns are zero-based; ColumnEnd is the column just past the span's last
// character, plus one, matching what the editor frontend expects for
// underline ranges.
type SourcePosition struct {
	LineStart   int `json:"line_start"`
	ColumnStart int `json:"column_start"`
	LineEnd     int `json:"line_end"`
	ColumnEnd   int `json:"column_end"`
}

// ParseError is one positioned parser failure.
type ParseError struct {
	Message  string         `json:"message"`
	Position SourcePosition `json:"position"`
}

// Marker is the pass/fail annotation for one evaluated check, or for the
// chosen policy.
type Marker struct {
	Ok       bool           `json:"ok"`
	Position SourcePosition `json:"position"`
}

// Editor is the complete annotation state for one source block, or for the
// verifier block. It is owned by the request that produced it.
type Editor struct {
	Errors  []ParseError `json:"errors"`
	Markers []Marker     `json:"markers"`
}

func newEditor() *Editor {
	return &Editor{Errors: []ParseError{}, Markers: []Marker{}}
}

// Fact is the rendering of one logical statement from the resolved world or
// a query result. Terms are stringified regardless of their typed
// representation.
type Fact struct {
	Name  string   `json:"name"`
	Terms []string `json:"terms"`
}

func renderFacts(facts []ast.Fact) []Fact {
	out := make([]Fact, 0, len(facts))
	for _, f := range facts {
		terms := make([]string, len(f.Terms))
		for i, t := range f.Terms {
			terms[i] = t.String()
		}
		out = append(out, Fact{Name: f.Name, Terms: terms})
	}
	return out
}

// Request is one playground execution: the ordered token blocks (first is
// the authority), an optional verifier block, and an optional ad-hoc query.
type Request struct {
	TokenBlocks  []string `json:"token_blocks"`
	VerifierCode *string  `json:"verifier_code,omitempty"`
	Query        *string  `json:"query,omitempty"`
}

// Result is the UI-ready response: one editor per token block, the rendered
// token, the verifier's editor and outcome, the resolved world, and the
// query result.
type Result struct {
	TokenBlocks    []*Editor `json:"token_blocks"`
	TokenContent   string    `json:"token_content"`
	VerifierEditor *Editor   `json:"verifier_editor,omitempty"`
	VerifierResult *string   `json:"verifier_result,omitempty"`
	VerifierWorld  []Fact    `json:"verifier_world"`
	QueryResult    []Fact    `json:"query_result"`
}

// checkState is one registered check: its resolved position and its current
// pass flag. Checks start out optimistic and are flipped only when the
// verification outcome references them.
type checkState struct {
	position SourcePosition
	ok       bool
}

// blockChecks is the per-block check table, indexed by the check's ordinal
// position of first appearance during parsing. That ordinal is exactly the
// CheckID the verifier reports.
type blockChecks struct {
	checks []checkState
}
