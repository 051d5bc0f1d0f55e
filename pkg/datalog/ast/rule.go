package ast

import (
	"fmt"
	"strings"
)

// Rule derives its head predicate for every assignment of variables that
// matches all body predicates and satisfies all constraint expressions.
type Rule struct {
	Head        Predicate
	Body        []Predicate
	Expressions []Expression
}

// String renders the rule in canonical Datalog form.
func (r Rule) String() string {
	return r.Head.String() + " <- " + r.bodyString()
}

func (r Rule) bodyString() string {
	parts := make([]string, 0, len(r.Body)+len(r.Expressions))
	for _, p := range r.Body {
		parts = append(parts, p.String())
	}
	for _, e := range r.Expressions {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// Validate reports an error when a head variable is not bound by any body
// predicate. Such a rule could never produce a ground fact.
func (r Rule) Validate() error {
	bound := map[string]bool{}
	for _, p := range r.Body {
		for _, name := range p.Variables() {
			bound[name] = true
		}
	}
	for _, name := range r.Head.Variables() {
		if !bound[name] {
			return fmt.Errorf("rule head variable $%s is not bound by the body", name)
		}
	}
	return nil
}
