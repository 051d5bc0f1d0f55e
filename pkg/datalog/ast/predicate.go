package ast

import "strings"

// Predicate is a named tuple of terms, e.g. right("file1", "read").
type Predicate struct {
	Name  string
	Terms []Term
}

// String renders the predicate in canonical Datalog form.
func (p Predicate) String() string {
	terms := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		terms[i] = t.String()
	}
	return p.Name + "(" + strings.Join(terms, ", ") + ")"
}

// IsGround reports whether no term of the predicate is a variable.
func (p Predicate) IsGround() bool {
	for _, t := range p.Terms {
		if !IsGround(t) {
			return false
		}
	}
	return true
}

// Equal reports whether two predicates have the same name and pairwise-equal
// terms.
func (p Predicate) Equal(other Predicate) bool {
	if p.Name != other.Name || len(p.Terms) != len(other.Terms) {
		return false
	}
	for i, t := range p.Terms {
		if !t.Equal(other.Terms[i]) {
			return false
		}
	}
	return true
}

// Fact is a ground predicate asserted into the world.
type Fact struct {
	Predicate
}

// Variables returns the names of all variables appearing in the predicate, in
// first-appearance order without duplicates.
func (p Predicate) Variables() []string {
	var names []string
	seen := map[string]bool{}
	for _, t := range p.Terms {
		v, ok := t.(Variable)
		if !ok || seen[string(v)] {
			continue
		}
		seen[string(v)] = true
		names = append(names, string(v))
	}
	return names
}
