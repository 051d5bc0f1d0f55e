package verifier

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"biscuit-hq/bakery/pkg/datalog/ast"
	"biscuit-hq/bakery/pkg/datalog/engine"
	"biscuit-hq/bakery/pkg/datalog/parser"
	"biscuit-hq/bakery/pkg/token"
)

// ErrNoMatchingPolicy is reported when every check held but no policy
// produced a verdict.
var ErrNoMatchingPolicy = errors.New("no policy matched")

// Verifier evaluates one token against verifier-side statements. It is
// built fresh per request and is not safe for concurrent use.
type Verifier struct {
	world       *engine.World
	blockChecks [][]ast.Check
	checks      []ast.Check
	policies    []ast.Policy
}

// New returns a bare verifier with no token bound. Used when the request
// carries a verifier block but no token blocks.
func New() *Verifier {
	return &Verifier{world: engine.NewWorld()}
}

// ForToken validates the token's signature chain against the root public key
// and loads every block's facts, rules and checks into a fresh verifier.
func ForToken(t *token.Biscuit, rootPublic ed25519.PublicKey) (*Verifier, error) {
	if err := t.Verify(rootPublic); err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	v := New()
	v.loadBlock(t.Authority())
	for _, b := range t.Blocks() {
		v.loadBlock(b)
	}
	return v, nil
}

func (v *Verifier) loadBlock(b token.Block) {
	for _, f := range b.Facts {
		v.world.AddFact(f)
	}
	for _, r := range b.Rules {
		v.world.AddRule(r)
	}
	v.blockChecks = append(v.blockChecks, b.Checks)
}

// AddFact registers a verifier-side fact.
func (v *Verifier) AddFact(f ast.Fact) error {
	if !f.IsGround() {
		return fmt.Errorf("fact %s contains variables", f.Predicate)
	}
	v.world.AddFact(f)
	return nil
}

// AddRule registers a verifier-side rule.
func (v *Verifier) AddRule(r ast.Rule) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.Head, err)
	}
	v.world.AddRule(r)
	return nil
}

// AddCheck registers a verifier-side check. Its ordinal position in
// registration order is the CheckID later reported by ChecksFailed.
func (v *Verifier) AddCheck(c ast.Check) error {
	if len(c.Queries) == 0 {
		return fmt.Errorf("check has no queries")
	}
	v.checks = append(v.checks, c)
	return nil
}

// AddPolicy registers a policy. Policies are tried in registration order.
func (v *Verifier) AddPolicy(p ast.Policy) error {
	if len(p.Queries) == 0 {
		return fmt.Errorf("policy has no queries")
	}
	v.policies = append(v.policies, p)
	return nil
}

// Verify saturates the world under the given limits, evaluates every check,
// and walks the policies. The context bounds the run together with the
// limits' time budget.
func (v *Verifier) Verify(ctx context.Context, limits engine.Limits) Outcome {
	if err := v.world.Run(ctx, limits); err != nil {
		return EvaluationError{Err: err}
	}

	var failed []FailedCheck
	for blockID, checks := range v.blockChecks {
		for checkID, c := range checks {
			holds, err := v.checkHolds(c)
			if err != nil {
				return EvaluationError{Err: err}
			}
			if !holds {
				failed = append(failed, FailedCheck{BlockID: blockID, CheckID: checkID})
			}
		}
	}
	for checkID, c := range v.checks {
		holds, err := v.checkHolds(c)
		if err != nil {
			return EvaluationError{Err: err}
		}
		if !holds {
			failed = append(failed, FailedCheck{VerifierLocal: true, CheckID: checkID})
		}
	}
	if len(failed) > 0 {
		return ChecksFailed{Failed: failed}
	}

	for i, p := range v.policies {
		for _, q := range p.Queries {
			matches, err := v.world.QueryMatches(q)
			if err != nil {
				return EvaluationError{Err: err}
			}
			if !matches {
				continue
			}
			if p.Kind == ast.PolicyDeny {
				return Denied{Policy: i}
			}
			return Allowed{Policy: i}
		}
	}
	return EvaluationError{Err: ErrNoMatchingPolicy}
}

func (v *Verifier) checkHolds(c ast.Check) (bool, error) {
	for _, q := range c.Queries {
		matches, err := v.world.QueryMatches(q)
		if err != nil {
			return false, err
		}
		if matches {
			return true, nil
		}
	}
	return false, nil
}

// Dump materializes the resolved world: every fact visible to the verifier
// after saturation, independent of the verification outcome.
func (v *Verifier) Dump() []ast.Fact {
	return v.world.Facts()
}

// Query parses one ad-hoc rule and applies it against the resolved world.
// It is meant to run after Verify, when the world is saturated. A trailing
// semicolon is optional.
func (v *Verifier) Query(text string) ([]ast.Fact, error) {
	src := strings.TrimSpace(text)
	if !strings.HasSuffix(src, ";") {
		src += ";"
	}
	parsed, failures := parser.Parse(src)
	if len(failures) > 0 {
		return nil, fmt.Errorf("invalid query: %s", failures[0].Error())
	}
	if len(parsed.Rules) != 1 || len(parsed.Facts)+len(parsed.Checks)+len(parsed.Policies) != 0 {
		return nil, fmt.Errorf("query must be a single rule")
	}
	return v.world.Query(parsed.Rules[0].Rule)
}
