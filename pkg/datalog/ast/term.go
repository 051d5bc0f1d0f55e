package ast

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Term is a value appearing in a predicate or expression. Concrete
// implementations are Variable, Integer, String, Bool, Date, Bytes and Set.
type Term interface {
	fmt.Stringer

	// Equal reports whether two terms are the same kind and value.
	Equal(other Term) bool

	isTerm()
}

// Variable is a named placeholder bound during evaluation, written $name.
type Variable string

func (v Variable) isTerm() {}

func (v Variable) String() string { return "$" + string(v) }

// Equal implements Term.
func (v Variable) Equal(other Term) bool {
	o, ok := other.(Variable)
	return ok && o == v
}

// Integer is a 64-bit signed integer literal.
type Integer int64

func (i Integer) isTerm() {}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// Equal implements Term.
func (i Integer) Equal(other Term) bool {
	o, ok := other.(Integer)
	return ok && o == i
}

// String is a quoted string literal.
type String string

func (s String) isTerm() {}

func (s String) String() string { return strconv.Quote(string(s)) }

// Equal implements Term.
func (s String) Equal(other Term) bool {
	o, ok := other.(String)
	return ok && o == s
}

// Bool is a boolean literal.
type Bool bool

func (b Bool) isTerm() {}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Equal implements Term.
func (b Bool) Equal(other Term) bool {
	o, ok := other.(Bool)
	return ok && o == b
}

// Date is a point in time, written as an RFC 3339 timestamp.
type Date struct {
	Time time.Time
}

func (d Date) isTerm() {}

func (d Date) String() string { return d.Time.UTC().Format(time.RFC3339) }

// Equal implements Term.
func (d Date) Equal(other Term) bool {
	o, ok := other.(Date)
	return ok && o.Time.Equal(d.Time)
}

// Bytes is a byte-array literal, written hex:<hexdigits>.
type Bytes []byte

func (b Bytes) isTerm() {}

func (b Bytes) String() string { return "hex:" + hex.EncodeToString(b) }

// Equal implements Term.
func (b Bytes) Equal(other Term) bool {
	o, ok := other.(Bytes)
	if !ok || len(o) != len(b) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Set is an unordered collection of constant terms, written [a, b, c].
// Sets cannot contain variables or nested sets.
type Set []Term

func (s Set) isTerm() {}

func (s Set) String() string {
	elems := make([]string, len(s))
	for i, t := range s {
		elems[i] = t.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// Equal implements Term. Two sets are equal when they contain the same
// elements regardless of order.
func (s Set) Equal(other Term) bool {
	o, ok := other.(Set)
	if !ok || len(o) != len(s) {
		return false
	}
	for _, t := range s {
		if !o.Contains(t) {
			return false
		}
	}
	return true
}

// Contains reports whether the set holds a term equal to t.
func (s Set) Contains(t Term) bool {
	for _, e := range s {
		if e.Equal(t) {
			return true
		}
	}
	return false
}

// IsGround reports whether the term contains no variables.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return false
	case Set:
		for _, e := range v {
			if !IsGround(e) {
				return false
			}
		}
	}
	return true
}
