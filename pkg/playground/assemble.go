package playground

import (
	"fmt"

	"biscuit-hq/bakery/pkg/datalog/ast"
	"biscuit-hq/bakery/pkg/datalog/parser"
	"biscuit-hq/bakery/pkg/token"
	"biscuit-hq/bakery/pkg/verifier"
)

// registrationTarget is the builder handle a block's statements are
// registered into: the authority builder for the first block, an extension
// block builder for later ones, or the verifier itself.
type registrationTarget interface {
	AddFact(ast.Fact) error
	AddRule(ast.Rule) error
	AddCheck(ast.Check) error
}

type authorityTarget struct {
	builder *token.Builder
}

func (t authorityTarget) AddFact(f ast.Fact) error   { return t.builder.AddAuthorityFact(f) }
func (t authorityTarget) AddRule(r ast.Rule) error   { return t.builder.AddAuthorityRule(r) }
func (t authorityTarget) AddCheck(c ast.Check) error { return t.builder.AddAuthorityCheck(c) }

type blockTarget struct {
	builder *token.BlockBuilder
}

func (t blockTarget) AddFact(f ast.Fact) error   { return t.builder.AddFact(f) }
func (t blockTarget) AddRule(r ast.Rule) error   { return t.builder.AddRule(r) }
func (t blockTarget) AddCheck(c ast.Check) error { return t.builder.AddCheck(c) }

// assembleBlock parses one block and registers its statements into the
// target.
//
// On parse failure the editor carries the positioned errors and the returned
// check table is empty; the caller keeps going so the rest of the document
// still produces diagnostics. A statement the parser accepted but the target
// rejects is different: it signals contract drift between parser and
// builder, and aborts the whole request.
//
// Registering a check into the target and recording its position are one
// step, so the check's ordinal in the builder always equals its index in the
// returned table.
func assembleBlock(text string, target registrationTarget) (*Editor, *blockChecks, error) {
	editor := newEditor()
	checks := &blockChecks{}

	parsed, failures := parser.Parse(text)
	if len(failures) > 0 {
		editor.Errors = collectParseErrors(text, failures)
		return editor, checks, nil
	}

	for _, f := range parsed.Facts {
		if err := target.AddFact(f.Fact); err != nil {
			return nil, nil, fmt.Errorf("registering fact: %w", err)
		}
	}
	for _, r := range parsed.Rules {
		if err := target.AddRule(r.Rule); err != nil {
			return nil, nil, fmt.Errorf("registering rule: %w", err)
		}
	}
	for _, c := range parsed.Checks {
		if err := target.AddCheck(c.Check); err != nil {
			return nil, nil, fmt.Errorf("registering check: %w", err)
		}
		checks.checks = append(checks.checks, checkState{
			position: ResolvePosition(text, c.Span),
			ok:       true,
		})
	}
	return editor, checks, nil
}

// assembleVerifier is assembleBlock at verifier scope: policies are
// registered too, with their own position list, ordered by registration.
func assembleVerifier(text string, v *verifier.Verifier) (editor *Editor, checks *blockChecks, policyPositions []SourcePosition, err error) {
	editor = newEditor()
	checks = &blockChecks{}

	parsed, failures := parser.Parse(text)
	if len(failures) > 0 {
		editor.Errors = collectParseErrors(text, failures)
		return editor, checks, nil, nil
	}

	for _, f := range parsed.Facts {
		if err := v.AddFact(f.Fact); err != nil {
			return nil, nil, nil, fmt.Errorf("registering verifier fact: %w", err)
		}
	}
	for _, r := range parsed.Rules {
		if err := v.AddRule(r.Rule); err != nil {
			return nil, nil, nil, fmt.Errorf("registering verifier rule: %w", err)
		}
	}
	for _, c := range parsed.Checks {
		if err := v.AddCheck(c.Check); err != nil {
			return nil, nil, nil, fmt.Errorf("registering verifier check: %w", err)
		}
		checks.checks = append(checks.checks, checkState{
			position: ResolvePosition(text, c.Span),
			ok:       true,
		})
	}
	for _, p := range parsed.Policies {
		if err := v.AddPolicy(p.Policy); err != nil {
			return nil, nil, nil, fmt.Errorf("registering policy: %w", err)
		}
		policyPositions = append(policyPositions, ResolvePosition(text, p.Span))
	}
	return editor, checks, policyPositions, nil
}
