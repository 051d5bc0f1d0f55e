package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

func fact(name string, terms ...ast.Term) ast.Fact {
	return ast.Fact{Predicate: ast.Predicate{Name: name, Terms: terms}}
}

func TestWorld_RunDerivesFacts(t *testing.T) {
	w := NewWorld()
	w.AddFact(fact("parent", ast.String("a"), ast.String("b")))
	w.AddFact(fact("parent", ast.String("b"), ast.String("c")))
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "grandparent", Terms: []ast.Term{ast.Variable("x"), ast.Variable("z")}},
		Body: []ast.Predicate{
			{Name: "parent", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
			{Name: "parent", Terms: []ast.Term{ast.Variable("y"), ast.Variable("z")}},
		},
	})

	if err := w.Run(context.Background(), DefaultLimits()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	want := fact("grandparent", ast.String("a"), ast.String("c"))
	if !w.Contains(want) {
		t.Errorf("world is missing %s", want.Predicate)
	}
	if got := len(w.Facts()); got != 3 {
		t.Errorf("len(Facts) = %d, want 3", got)
	}
}

func TestWorld_RunIsIdempotentOnDuplicates(t *testing.T) {
	w := NewWorld()
	w.AddFact(fact("user", ast.String("alice")))
	w.AddFact(fact("user", ast.String("alice")))
	if got := len(w.Facts()); got != 1 {
		t.Errorf("len(Facts) = %d, want 1 after duplicate insert", got)
	}
}

func TestWorld_RunTransitiveClosure(t *testing.T) {
	w := NewWorld()
	for _, edge := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}} {
		w.AddFact(fact("edge", ast.String(edge[0]), ast.String(edge[1])))
	}
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
		Body: []ast.Predicate{{Name: "edge", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}}},
	})
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("z")}},
		Body: []ast.Predicate{
			{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
			{Name: "edge", Terms: []ast.Term{ast.Variable("y"), ast.Variable("z")}},
		},
	})

	if err := w.Run(context.Background(), DefaultLimits()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !w.Contains(fact("reach", ast.String("a"), ast.String("d"))) {
		t.Error("world is missing reach(a, d)")
	}
}

func TestWorld_RunFactLimit(t *testing.T) {
	w := NewWorld()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		w.AddFact(fact("item", ast.String(name)))
	}
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "pair", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
		Body: []ast.Predicate{
			{Name: "item", Terms: []ast.Term{ast.Variable("x")}},
			{Name: "item", Terms: []ast.Term{ast.Variable("y")}},
		},
	})

	limits := DefaultLimits()
	limits.MaxFacts = 10
	err := w.Run(context.Background(), limits)
	if !errors.Is(err, ErrTooManyFacts) {
		t.Errorf("Run() error = %v, want ErrTooManyFacts", err)
	}
}

func TestWorld_RunIterationLimit(t *testing.T) {
	w := NewWorld()
	w.AddFact(fact("edge", ast.String("a"), ast.String("b")))
	w.AddFact(fact("edge", ast.String("b"), ast.String("c")))
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
		Body: []ast.Predicate{{Name: "edge", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}}},
	})
	w.AddRule(ast.Rule{
		Head: ast.Predicate{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("z")}},
		Body: []ast.Predicate{
			{Name: "reach", Terms: []ast.Term{ast.Variable("x"), ast.Variable("y")}},
			{Name: "edge", Terms: []ast.Term{ast.Variable("y"), ast.Variable("z")}},
		},
	})

	limits := DefaultLimits()
	limits.MaxIterations = 1
	err := w.Run(context.Background(), limits)
	if !errors.Is(err, ErrTooManyIterations) {
		t.Errorf("Run() error = %v, want ErrTooManyIterations", err)
	}
}

func TestWorld_RunTimeBudget(t *testing.T) {
	w := NewWorld()
	w.AddFact(fact("user", ast.String("alice")))

	limits := DefaultLimits()
	limits.MaxDuration = -time.Nanosecond
	err := w.Run(context.Background(), limits)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Run() error = %v, want ErrTimeout", err)
	}
	// The world keeps whatever was there before the budget ran out.
	if got := len(w.Facts()); got != 1 {
		t.Errorf("len(Facts) = %d, want 1", got)
	}
}

func TestWorld_Query(t *testing.T) {
	w := NewWorld()
	w.AddFact(fact("right", ast.String("file1"), ast.String("read")))
	w.AddFact(fact("right", ast.String("file2"), ast.String("write")))

	got, err := w.Query(ast.Rule{
		Head: ast.Predicate{Name: "readable", Terms: []ast.Term{ast.Variable("f")}},
		Body: []ast.Predicate{{Name: "right", Terms: []ast.Term{ast.Variable("f"), ast.String("read")}}},
	})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Query()) = %d, want 1", len(got))
	}
	if !got[0].Equal(ast.Predicate{Name: "readable", Terms: []ast.Term{ast.String("file1")}}) {
		t.Errorf("query result = %s, want readable(\"file1\")", got[0].Predicate)
	}
}

func TestWorld_QueryMatchesEmptyBody(t *testing.T) {
	w := NewWorld()
	// "allow if true" has no body predicates, only an expression.
	matches, err := w.QueryMatches(ast.Rule{
		Head:        ast.Predicate{Name: "policy"},
		Expressions: []ast.Expression{ast.Value{Term: ast.Bool(true)}},
	})
	if err != nil {
		t.Fatalf("QueryMatches() failed: %v", err)
	}
	if !matches {
		t.Error("QueryMatches() = false, want true for 'true' constraint")
	}

	matches, err = w.QueryMatches(ast.Rule{
		Head:        ast.Predicate{Name: "policy"},
		Expressions: []ast.Expression{ast.Value{Term: ast.Bool(false)}},
	})
	if err != nil {
		t.Fatalf("QueryMatches() failed: %v", err)
	}
	if matches {
		t.Error("QueryMatches() = true, want false for 'false' constraint")
	}
}
