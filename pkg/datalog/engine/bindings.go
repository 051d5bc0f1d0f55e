package engine

import (
	"fmt"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// bindings maps variable names to the terms they are bound to within one
// candidate match of a rule body.
type bindings map[string]ast.Term

func (b bindings) clone() bindings {
	out := make(bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// matchPredicate unifies a body predicate with a ground fact under the given
// bindings. It returns extended bindings on success.
func matchPredicate(pred ast.Predicate, fact ast.Fact, b bindings) (bindings, bool) {
	if pred.Name != fact.Name || len(pred.Terms) != len(fact.Terms) {
		return nil, false
	}
	out := b.clone()
	for i, term := range pred.Terms {
		v, isVar := term.(ast.Variable)
		if !isVar {
			if !term.Equal(fact.Terms[i]) {
				return nil, false
			}
			continue
		}
		if bound, ok := out[string(v)]; ok {
			if !bound.Equal(fact.Terms[i]) {
				return nil, false
			}
			continue
		}
		out[string(v)] = fact.Terms[i]
	}
	return out, true
}

// matchBody returns every binding under which all body predicates match some
// fact and all constraint expressions evaluate to true. A body with no
// predicates yields one empty binding, so a rule like "allow if true" can
// match on expressions alone.
func matchBody(rule ast.Rule, facts []ast.Fact) ([]bindings, error) {
	candidates := []bindings{{}}
	for _, pred := range rule.Body {
		var next []bindings
		for _, b := range candidates {
			for _, fact := range facts {
				if extended, ok := matchPredicate(pred, fact, b); ok {
					next = append(next, extended)
				}
			}
		}
		if len(next) == 0 {
			return nil, nil
		}
		candidates = next
	}

	var out []bindings
	for _, b := range candidates {
		ok, err := satisfies(rule.Expressions, b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// satisfies reports whether every expression evaluates to the boolean true
// under the bindings.
func satisfies(exprs []ast.Expression, b bindings) (bool, error) {
	for _, expr := range exprs {
		result, err := evaluate(expr, b)
		if err != nil {
			return false, err
		}
		truth, ok := result.(ast.Bool)
		if !ok {
			return false, fmt.Errorf("constraint %s did not evaluate to a boolean", expr)
		}
		if !bool(truth) {
			return false, nil
		}
	}
	return true, nil
}

// substitute replaces every variable of the predicate with its bound term.
func substitute(pred ast.Predicate, b bindings) (ast.Predicate, error) {
	terms := make([]ast.Term, len(pred.Terms))
	for i, term := range pred.Terms {
		if v, ok := term.(ast.Variable); ok {
			bound, ok := b[string(v)]
			if !ok {
				return ast.Predicate{}, fmt.Errorf("variable $%s is unbound in rule head %s", v, pred.Name)
			}
			terms[i] = bound
			continue
		}
		terms[i] = term
	}
	return ast.Predicate{Name: pred.Name, Terms: terms}, nil
}

// applyRule derives the rule's head for every satisfying binding of its body.
func applyRule(rule ast.Rule, facts []ast.Fact) ([]ast.Fact, error) {
	matches, err := matchBody(rule, facts)
	if err != nil {
		return nil, err
	}
	var out []ast.Fact
	for _, b := range matches {
		head, err := substitute(rule.Head, b)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Fact{Predicate: head})
	}
	return out, nil
}
