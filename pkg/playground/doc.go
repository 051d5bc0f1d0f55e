// Package playground is the interactive diagnostics layer of the Biscuit
// playground: it parses each policy block independently, assembles the
// resulting statements into a signed layered token, runs verification under
// resource limits, and maps every parse error and every check or policy
// outcome back onto precise line/column spans inside the original text.
//
// The whole pipeline is one synchronous in-process call per request:
//
//	raw text -> parsed statements with spans -> assembled token with
//	per-statement positions -> verification outcome (indices only) ->
//	reconciled, UI-ready annotation state
//
// Verification reports checks and policies purely by block and ordinal
// indices, so the assembly step records every check's position in exactly
// the order it registers the check into the builder; the reconciler relies
// on those two orderings being identical.
package playground
