// Package engine implements the Datalog evaluator behind token verification.
//
// Evaluation is naive bottom-up: rules are applied against the current fact
// set until a fixpoint is reached. Saturation runs under explicit resource
// limits (wall-clock budget, fact ceiling, iteration ceiling) so a
// pathological policy terminates with an error instead of hanging the
// request.
//
// The engine knows nothing about blocks, tokens or source positions; it
// consumes plain AST facts and rules and answers queries. Callers that need
// provenance keep it on their side of the boundary.
package engine
