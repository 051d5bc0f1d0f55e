package playground

import (
	"fmt"

	"biscuit-hq/bakery/pkg/token"
)

// document is one assembled token together with the bookkeeping the
// reconciler needs: the per-block editors and the per-block check tables,
// both indexed by block position (0 is the authority).
type document struct {
	token   *token.Biscuit
	editors []*Editor
	blocks  []*blockChecks
}

// buildDocument assembles the authority block and then each extension block
// in order, signing every extension with a fresh ephemeral keypair. A parse
// failure in any block degrades that block to an error-only editor; the
// document is still built from whatever registered cleanly.
func (p *Playground) buildDocument(blockTexts []string, root *token.KeyPair) (*document, error) {
	if len(blockTexts) == 0 {
		return nil, fmt.Errorf("document needs at least an authority block")
	}

	builder := token.NewBuilder(root)
	editor, checks, err := assembleBlock(blockTexts[0], authorityTarget{builder: builder})
	if err != nil {
		return nil, err
	}

	doc := &document{
		editors: []*Editor{editor},
		blocks:  []*blockChecks{checks},
	}

	tok, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building token: %w", err)
	}

	for i, text := range blockTexts[1:] {
		kp, err := token.NewKeyPair(p.rng)
		if err != nil {
			return nil, err
		}
		bb := tok.CreateBlock()
		editor, checks, err := assembleBlock(text, blockTarget{builder: bb})
		if err != nil {
			return nil, err
		}
		tok, err = tok.Append(kp, bb)
		if err != nil {
			return nil, fmt.Errorf("appending block %d: %w", i+1, err)
		}
		doc.editors = append(doc.editors, editor)
		doc.blocks = append(doc.blocks, checks)
	}

	doc.token = tok
	return doc, nil
}
