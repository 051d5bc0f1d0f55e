// Package token assembles and signs layered Biscuit tokens.
//
// A token is an authority block plus zero or more extension blocks. The
// authority block is signed by the root keypair; every extension block is
// signed by a fresh ephemeral keypair and chained to the signature of the
// block before it, so removing or reordering blocks breaks verification.
//
// Builders validate statements on registration: facts must be ground and
// rule heads must be bound by their bodies. A statement the parser accepted
// but the builder rejects is a contract violation surfaced to the caller as
// an error, not papered over.
package token
