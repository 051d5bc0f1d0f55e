// Package parser implements the lexer and parser for the Biscuit Datalog
// dialect.
//
// The parser is failure-tolerant: it parses one statement at a time and, on
// error, records a positioned Failure and resynchronizes at the next
// semicolon, so a single malformed block reports every broken statement
// rather than only the first. Every successfully parsed statement is paired
// with the byte-offset span of its source text.
//
// # Grammar
//
//	source    := statement*
//	statement := fact ";" | rule ";" | check ";" | policy ";"
//	fact      := predicate
//	rule      := predicate "<-" body
//	check     := "check" "if" body ("or" body)*
//	policy    := ("allow" | "deny") "if" body ("or" body)*
//	body      := element ("," element)*
//	element   := predicate | expression
//
// Line comments start with "//". Terms are variables ($name), integers,
// quoted strings, booleans, RFC 3339 dates, hex:-prefixed byte arrays, and
// sets of constants.
package parser
