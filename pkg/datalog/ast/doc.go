// Package ast provides Abstract Syntax Tree (AST) definitions for the Biscuit
// Datalog dialect.
//
// The AST represents the parsed structure of a policy block, enabling token
// assembly, verification, and evaluation. Every parsed statement preserves the
// byte-offset span of its source text so diagnostics can point back at the
// exact characters the user typed.
//
// # Core Types
//
// Term: a concrete value or variable appearing in a predicate (Variable,
// Integer, String, Bool, Date, Bytes, Set)
//
// Predicate: a named tuple of terms, e.g. right("file1", "read")
//
// Fact: a ground predicate asserted into the world
//
// Rule: head <- body, with optional constraint expressions
//
// Check: a statement that must hold for verification to succeed
//
// Policy: an allow/deny statement yielding the verification verdict
//
// Span: a byte-offset range identifying a statement inside its block's text
package ast
