package playground

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"biscuit-hq/bakery/pkg/verifier"
)

// verification is the outcome of the verifier stage, before reconciliation.
type verification struct {
	verifier        *verifier.Verifier
	editor          *Editor
	checks          *blockChecks
	policyPositions []SourcePosition

	// outcome is nil when the verifier block did not parse; parseFailures
	// then holds the rendered failure summary for the result text.
	outcome       verifier.Outcome
	parseFailures string

	world []Fact
}

// runVerification builds a verifier bound to the document's token (or a bare
// one when there is no document), assembles the verifier block at verifier
// scope, and evaluates under the configured limits. The resolved world is
// materialized regardless of the outcome; diagnostics need it either way.
func (p *Playground) runVerification(ctx context.Context, doc *document, code string, rootPublic ed25519.PublicKey) (*verification, error) {
	var v *verifier.Verifier
	if doc != nil {
		bound, err := verifier.ForToken(doc.token, rootPublic)
		if err != nil {
			// The token was built and signed within this same request, so a
			// chain failure is an internal fault, not user error.
			return nil, err
		}
		v = bound
	} else {
		v = verifier.New()
	}

	editor, checks, policyPositions, err := assembleVerifier(code, v)
	if err != nil {
		return nil, err
	}
	if len(editor.Errors) > 0 {
		return &verification{
			verifier:      v,
			editor:        editor,
			checks:        checks,
			parseFailures: summarizeErrors(editor.Errors),
		}, nil
	}

	out := &verification{
		verifier:        v,
		editor:          editor,
		checks:          checks,
		policyPositions: policyPositions,
	}
	out.outcome = v.Verify(ctx, p.limits)
	out.world = renderFacts(v.Dump())
	return out, nil
}

func summarizeErrors(errs []ParseError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return "errors: " + strings.Join(msgs, "; ")
}

// renderOutcome produces the human-readable verification result shown next
// to the verifier editor.
func renderOutcome(outcome verifier.Outcome) string {
	switch o := outcome.(type) {
	case verifier.Allowed:
		return "Success"
	case verifier.Denied:
		return fmt.Sprintf("Error: request denied by policy %d", o.Policy)
	case verifier.ChecksFailed:
		refs := make([]string, len(o.Failed))
		for i, f := range o.Failed {
			refs[i] = f.String()
		}
		return "Error: failed checks: " + strings.Join(refs, ", ")
	case verifier.EvaluationError:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error: unknown outcome %T", outcome)
	}
}
