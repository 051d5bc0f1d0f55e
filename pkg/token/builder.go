package token

import (
	"crypto/ed25519"
	"fmt"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// Builder accumulates the authority block of a new token.
type Builder struct {
	root      *KeyPair
	authority Block
}

// NewBuilder starts a token rooted at the given keypair.
func NewBuilder(root *KeyPair) *Builder {
	return &Builder{root: root}
}

// AddAuthorityFact registers a fact into the authority block.
func (b *Builder) AddAuthorityFact(f ast.Fact) error {
	return b.authority.addFact(f)
}

// AddAuthorityRule registers a rule into the authority block.
func (b *Builder) AddAuthorityRule(r ast.Rule) error {
	return b.authority.addRule(r)
}

// AddAuthorityCheck registers a check into the authority block.
func (b *Builder) AddAuthorityCheck(c ast.Check) error {
	return b.authority.addCheck(c)
}

// Build signs the authority block with the root key and returns the token.
func (b *Builder) Build() (*Biscuit, error) {
	if b.root == nil {
		return nil, fmt.Errorf("builder has no root keypair")
	}
	payload := []byte(b.authority.render())
	sig := ed25519.Sign(b.root.Private, payload)
	return &Biscuit{
		authority: signedBlock{Block: b.authority, sig: sig},
	}, nil
}

// BlockBuilder accumulates one extension block to be appended to an existing
// token.
type BlockBuilder struct {
	block Block
}

// AddFact registers a fact into the extension block.
func (bb *BlockBuilder) AddFact(f ast.Fact) error {
	return bb.block.addFact(f)
}

// AddRule registers a rule into the extension block.
func (bb *BlockBuilder) AddRule(r ast.Rule) error {
	return bb.block.addRule(r)
}

// AddCheck registers a check into the extension block.
func (bb *BlockBuilder) AddCheck(c ast.Check) error {
	return bb.block.addCheck(c)
}
