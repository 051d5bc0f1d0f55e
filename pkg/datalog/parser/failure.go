package parser

import "biscuit-hq/bakery/pkg/datalog/ast"

// FailureCode categorizes a parse failure. Codes are stable identifiers used
// when a failure carries no handwritten message.
type FailureCode string

const (
	// CodeUnexpectedToken means the parser found a token that no grammar
	// rule accepts at that point.
	CodeUnexpectedToken FailureCode = "unexpected token"

	// CodeUnterminatedString means a string literal was never closed.
	CodeUnterminatedString FailureCode = "unterminated string"

	// CodeInvalidLiteral means a numeric, date or byte literal could not be
	// decoded.
	CodeInvalidLiteral FailureCode = "invalid literal"

	// CodeMissingSemicolon means a statement was not terminated.
	CodeMissingSemicolon FailureCode = "missing semicolon"
)

// Failure is one recoverable parse failure. A single parse of a block may
// yield many failures, in source order. Message may be empty, in which case
// consumers should fall back to a rendering of Code.
type Failure struct {
	Span    ast.Span
	Code    FailureCode
	Message string
}

// Error implements the error interface.
func (f Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return "error: " + string(f.Code)
}
