package ast

import "strings"

// Check is a statement that must hold for verification to succeed. It carries
// one or more alternative queries; the check passes when at least one query
// produces a match.
type Check struct {
	Queries []Rule
}

// String renders the check in canonical form: check if q1 or q2.
func (c Check) String() string {
	alts := make([]string, len(c.Queries))
	for i, q := range c.Queries {
		alts[i] = q.bodyString()
	}
	return "check if " + strings.Join(alts, " or ")
}
