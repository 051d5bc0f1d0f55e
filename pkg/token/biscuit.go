package token

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// signedBlock pairs a block with its signature. The authority block is
// signed by the root key and carries no public key of its own; extension
// blocks carry the ephemeral public key that signed them.
type signedBlock struct {
	Block
	pub ed25519.PublicKey
	sig []byte
}

// Biscuit is an assembled layered token: the signed authority block plus an
// ordered chain of signed extension blocks.
type Biscuit struct {
	authority signedBlock
	blocks    []signedBlock
}

// Authority returns the authority block's logical content.
func (t *Biscuit) Authority() Block {
	return t.authority.Block
}

// Blocks returns the extension blocks' logical content, in chain order.
func (t *Biscuit) Blocks() []Block {
	out := make([]Block, len(t.blocks))
	for i, b := range t.blocks {
		out[i] = b.Block
	}
	return out
}

// CreateBlock returns a builder for the next extension block.
func (t *Biscuit) CreateBlock() *BlockBuilder {
	return &BlockBuilder{}
}

// Append signs the built block with the given ephemeral keypair, chaining it
// to the signature of the last block, and returns the extended token. The
// receiver is not modified.
func (t *Biscuit) Append(kp *KeyPair, bb *BlockBuilder) (*Biscuit, error) {
	if kp == nil {
		return nil, fmt.Errorf("append needs a keypair")
	}
	payload := []byte(bb.block.render())
	payload = append(payload, t.lastSignature()...)
	sig := ed25519.Sign(kp.Private, payload)

	out := &Biscuit{
		authority: t.authority,
		blocks:    make([]signedBlock, len(t.blocks), len(t.blocks)+1),
	}
	copy(out.blocks, t.blocks)
	out.blocks = append(out.blocks, signedBlock{Block: bb.block, pub: kp.Public, sig: sig})
	return out, nil
}

// Verify walks the signature chain: the authority block must verify against
// the root public key and every extension block against its own embedded key
// over its payload plus the preceding signature.
func (t *Biscuit) Verify(rootPublic ed25519.PublicKey) error {
	if !ed25519.Verify(rootPublic, []byte(t.authority.render()), t.authority.sig) {
		return fmt.Errorf("authority block signature is invalid")
	}
	prev := t.authority.sig
	for i, b := range t.blocks {
		payload := []byte(b.render())
		payload = append(payload, prev...)
		if !ed25519.Verify(b.pub, payload, b.sig) {
			return fmt.Errorf("block %d signature is invalid", i+1)
		}
		prev = b.sig
	}
	return nil
}

func (t *Biscuit) lastSignature() []byte {
	if len(t.blocks) == 0 {
		return t.authority.sig
	}
	return t.blocks[len(t.blocks)-1].sig
}

// Print renders the whole token as human-readable Datalog, one section per
// block. This text is what the playground shows as the assembled document.
func (t *Biscuit) Print() string {
	var sb strings.Builder
	sb.WriteString("Biscuit {\n")
	sb.WriteString("\tauthority {\n")
	writeIndented(&sb, t.authority.render())
	sb.WriteString("\t}\n")
	for i, b := range t.blocks {
		fmt.Fprintf(&sb, "\tblock %d {\n", i+1)
		writeIndented(&sb, b.render())
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func writeIndented(sb *strings.Builder, body string) {
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if line == "" {
			continue
		}
		sb.WriteString("\t\t")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// serializedBlock is the wire form of one signed block.
type serializedBlock struct {
	Payload   string `json:"payload"`
	PublicKey []byte `json:"public_key,omitempty"`
	Signature []byte `json:"signature"`
}

// Serialize encodes the token as a URL-safe base64 envelope. The envelope
// carries rendered payloads and the signature chain, enough for Verify on
// the receiving side.
func (t *Biscuit) Serialize() (string, error) {
	blocks := make([]serializedBlock, 0, len(t.blocks)+1)
	blocks = append(blocks, serializedBlock{
		Payload:   t.authority.render(),
		Signature: t.authority.sig,
	})
	for _, b := range t.blocks {
		blocks = append(blocks, serializedBlock{
			Payload:   b.render(),
			PublicKey: b.pub,
			Signature: b.sig,
		})
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("serializing token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
