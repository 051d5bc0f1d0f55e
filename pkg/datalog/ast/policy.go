package ast

import "strings"

// PolicyKind is the verdict a matching policy yields.
type PolicyKind int

const (
	// PolicyAllow authorizes the request when the policy matches.
	PolicyAllow PolicyKind = iota
	// PolicyDeny rejects the request when the policy matches.
	PolicyDeny
)

// String renders the kind as its source keyword.
func (k PolicyKind) String() string {
	if k == PolicyDeny {
		return "deny"
	}
	return "allow"
}

// Policy is an allow/deny statement evaluated by the verifier. Policies are
// tried in declaration order; the first one with a matching query decides the
// verdict.
type Policy struct {
	Kind    PolicyKind
	Queries []Rule
}

// String renders the policy in canonical form: allow if q1 or q2.
func (p Policy) String() string {
	alts := make([]string, len(p.Queries))
	for i, q := range p.Queries {
		alts[i] = q.bodyString()
	}
	return p.Kind.String() + " if " + strings.Join(alts, " or ")
}
