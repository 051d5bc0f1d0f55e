package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// Sentinel errors returned by Run when a resource limit is exceeded.
var (
	ErrTimeout           = errors.New("evaluation exceeded its time budget")
	ErrTooManyFacts      = errors.New("evaluation produced too many facts")
	ErrTooManyIterations = errors.New("evaluation did not converge within the iteration limit")
)

// Limits bounds one saturation run.
type Limits struct {
	// MaxFacts caps the total number of facts in the world.
	MaxFacts int

	// MaxIterations caps the number of fixpoint passes over the rule set.
	MaxIterations int

	// MaxDuration is the wall-clock budget for the run.
	MaxDuration time.Duration
}

// DefaultLimits returns the limits applied when the caller does not override
// them.
func DefaultLimits() Limits {
	return Limits{
		MaxFacts:      1000,
		MaxIterations: 100,
		MaxDuration:   2 * time.Second,
	}
}

// World holds the fact set and rule set for one evaluation. A World is built
// fresh per request and is not safe for concurrent use.
type World struct {
	facts []ast.Fact
	rules []ast.Rule
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// AddFact inserts a fact. Duplicate facts are ignored, the world has set
// semantics.
func (w *World) AddFact(f ast.Fact) {
	if !w.Contains(f) {
		w.facts = append(w.facts, f)
	}
}

// AddRule registers a rule for saturation.
func (w *World) AddRule(r ast.Rule) {
	w.rules = append(w.rules, r)
}

// Contains reports whether an equal fact is already present.
func (w *World) Contains(f ast.Fact) bool {
	for _, existing := range w.facts {
		if existing.Equal(f.Predicate) {
			return true
		}
	}
	return false
}

// Facts returns a copy of the current fact set, in insertion order.
func (w *World) Facts() []ast.Fact {
	out := make([]ast.Fact, len(w.facts))
	copy(out, w.facts)
	return out
}

// Run saturates the world: every rule is applied until no new fact is
// derived. The run is bounded by the given limits and by the context's
// deadline; exceeding either aborts with a sentinel error, leaving the world
// with whatever facts were derived up to that point.
func (w *World) Run(ctx context.Context, limits Limits) error {
	ctx, cancel := context.WithTimeout(ctx, limits.MaxDuration)
	defer cancel()

	for i := 0; ; i++ {
		if i >= limits.MaxIterations {
			return ErrTooManyIterations
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		derived := 0
		for _, rule := range w.rules {
			facts, err := applyRule(rule, w.facts)
			if err != nil {
				return err
			}
			for _, f := range facts {
				if w.Contains(f) {
					continue
				}
				if len(w.facts) >= limits.MaxFacts {
					return ErrTooManyFacts
				}
				w.facts = append(w.facts, f)
				derived++
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrTimeout, err)
			}
		}
		if derived == 0 {
			return nil
		}
	}
}

// Query applies a single rule against the current fact set and returns the
// derived head facts, deduplicated, without mutating the world. The world
// should already be saturated for the result to be complete.
func (w *World) Query(rule ast.Rule) ([]ast.Fact, error) {
	facts, err := applyRule(rule, w.facts)
	if err != nil {
		return nil, err
	}
	var out []ast.Fact
	for _, f := range facts {
		dup := false
		for _, existing := range out {
			if existing.Equal(f.Predicate) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out, nil
}

// QueryMatches reports whether the rule's body is satisfiable against the
// current fact set. This is the semantics of checks and policies: the body
// has to produce at least one binding, the head is irrelevant.
func (w *World) QueryMatches(rule ast.Rule) (bool, error) {
	matches, err := matchBody(rule, w.facts)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
