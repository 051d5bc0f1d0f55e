package playground

import "biscuit-hq/bakery/pkg/datalog/parser"

// collectParseErrors converts the parser's failure list into positioned
// error records, in the order supplied. Order is significant: the frontend
// stacks annotations in reported order. A failure without a handwritten
// message falls back to a rendering of its failure code.
func collectParseErrors(text string, failures []parser.Failure) []ParseError {
	out := make([]ParseError, 0, len(failures))
	for _, f := range failures {
		message := f.Message
		if message == "" {
			message = "error: " + string(f.Code)
		}
		out = append(out, ParseError{
			Message:  message,
			Position: ResolvePosition(text, f.Span),
		})
	}
	return out
}
