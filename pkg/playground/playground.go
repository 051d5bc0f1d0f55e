package playground

import (
	"context"
	"io"
	"log/slog"

	"biscuit-hq/bakery/pkg/datalog/engine"
	"biscuit-hq/bakery/pkg/token"
)

// Playground runs playground requests. It holds only per-instance
// configuration; every request builds its state from scratch, so one
// Playground can serve concurrent requests.
type Playground struct {
	limits engine.Limits
	rng    io.Reader
	logger *slog.Logger
}

// Option configures a Playground.
type Option func(*Playground)

// WithLimits overrides the evaluation limits applied to verification.
func WithLimits(limits engine.Limits) Option {
	return func(p *Playground) { p.limits = limits }
}

// WithRandom overrides the randomness source used for key generation.
// Tests pass a deterministic reader.
func WithRandom(rng io.Reader) Option {
	return func(p *Playground) { p.rng = rng }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Playground) { p.logger = logger }
}

// New returns a Playground with default limits, crypto/rand keys, and the
// process default logger.
func New(opts ...Option) *Playground {
	p := &Playground{
		limits: engine.DefaultLimits(),
		logger: slog.Default().With("component", "playground"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute runs one request through the whole pipeline: document assembly,
// verification, reconciliation, and the optional query.
//
// Parse failures, failed checks and evaluation errors all degrade into
// positioned diagnostics on the result. The returned error is reserved for
// request-level faults: a statement the parser accepted but a builder
// rejected, or an internal failure of key generation or signing.
func (p *Playground) Execute(ctx context.Context, req *Request) (*Result, error) {
	res := &Result{
		TokenBlocks:   []*Editor{},
		VerifierWorld: []Fact{},
		QueryResult:   []Fact{},
	}

	root, err := token.NewKeyPair(p.rng)
	if err != nil {
		return nil, err
	}

	var doc *document
	if len(req.TokenBlocks) > 0 {
		doc, err = p.buildDocument(req.TokenBlocks, root)
		if err != nil {
			return nil, err
		}
		res.TokenBlocks = doc.editors
		res.TokenContent = doc.token.Print()
	}

	if req.VerifierCode == nil {
		return res, nil
	}

	ver, err := p.runVerification(ctx, doc, *req.VerifierCode, root.Public)
	if err != nil {
		return nil, err
	}
	res.VerifierEditor = ver.editor

	if ver.outcome == nil {
		// The verifier block did not parse; there is nothing to reconcile
		// and no world to show.
		res.VerifierResult = &ver.parseFailures
		return res, nil
	}

	res.VerifierWorld = ver.world

	var blocks []*blockChecks
	var blockEditors []*Editor
	if doc != nil {
		blocks = doc.blocks
		blockEditors = doc.editors
	}
	reconcile(ver.outcome, blocks, ver.checks, ver.policyPositions, blockEditors, ver.editor)

	text := renderOutcome(ver.outcome)
	res.VerifierResult = &text

	if req.Query != nil && *req.Query != "" {
		res.QueryResult = p.runQuery(ver.verifier, *req.Query)
	}
	return res, nil
}
