// Package verifier checks a Biscuit token against verifier-side facts,
// rules, checks and policies.
//
// The verifier owns the evaluation world for one request: it loads the
// token's blocks (after validating the signature chain), adds the verifier's
// own statements, saturates the world under resource limits, evaluates every
// check of every block, and finally walks the policies in declaration order.
//
// The result is a tagged Outcome: Allowed, Denied, ChecksFailed or
// EvaluationError. Checks and policies are referenced back to callers purely
// by block and ordinal indices; mapping those onto source positions is the
// playground's job.
package verifier
