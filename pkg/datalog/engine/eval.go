package engine

import (
	"fmt"
	"regexp"
	"strings"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// evaluate reduces a constraint expression to a constant term under the given
// bindings.
func evaluate(expr ast.Expression, b bindings) (ast.Term, error) {
	switch e := expr.(type) {
	case ast.Value:
		if v, ok := e.Term.(ast.Variable); ok {
			bound, ok := b[string(v)]
			if !ok {
				return nil, fmt.Errorf("variable $%s is unbound in constraint", v)
			}
			return bound, nil
		}
		return e.Term, nil

	case ast.Unary:
		inner, err := evaluate(e.Expr, b)
		if err != nil {
			return nil, err
		}
		truth, ok := inner.(ast.Bool)
		if !ok {
			return nil, fmt.Errorf("cannot negate non-boolean %s", inner)
		}
		return ast.Bool(!truth), nil

	case ast.Binary:
		return evaluateBinary(e, b)

	default:
		return nil, fmt.Errorf("unknown expression %T", expr)
	}
}

func evaluateBinary(e ast.Binary, b bindings) (ast.Term, error) {
	left, err := evaluate(e.Left, b)
	if err != nil {
		return nil, err
	}

	// Short-circuit the boolean connectives before touching the right side.
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		lb, ok := left.(ast.Bool)
		if !ok {
			return nil, fmt.Errorf("operator %s needs boolean operands, got %s", e.Op, left)
		}
		if e.Op == ast.OpAnd && !bool(lb) {
			return ast.Bool(false), nil
		}
		if e.Op == ast.OpOr && bool(lb) {
			return ast.Bool(true), nil
		}
		right, err := evaluate(e.Right, b)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(ast.Bool)
		if !ok {
			return nil, fmt.Errorf("operator %s needs boolean operands, got %s", e.Op, right)
		}
		return rb, nil
	}

	right, err := evaluate(e.Right, b)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpEqual:
		return ast.Bool(left.Equal(right)), nil
	case ast.OpNotEqual:
		return ast.Bool(!left.Equal(right)), nil

	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessOrEqual, ast.OpGreaterOrEqual:
		return compare(e.Op, left, right)

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return arithmetic(e.Op, left, right)

	case ast.OpContains:
		switch l := left.(type) {
		case ast.Set:
			return ast.Bool(l.Contains(right)), nil
		case ast.String:
			r, ok := right.(ast.String)
			if !ok {
				return nil, fmt.Errorf("string contains needs a string argument, got %s", right)
			}
			return ast.Bool(strings.Contains(string(l), string(r))), nil
		default:
			return nil, fmt.Errorf("contains needs a set or string receiver, got %s", left)
		}

	case ast.OpPrefix, ast.OpSuffix:
		l, lok := left.(ast.String)
		r, rok := right.(ast.String)
		if !lok || !rok {
			return nil, fmt.Errorf("%s needs string operands", e.Op)
		}
		if e.Op == ast.OpPrefix {
			return ast.Bool(strings.HasPrefix(string(l), string(r))), nil
		}
		return ast.Bool(strings.HasSuffix(string(l), string(r))), nil

	case ast.OpRegex:
		l, lok := left.(ast.String)
		r, rok := right.(ast.String)
		if !lok || !rok {
			return nil, fmt.Errorf("matches needs string operands")
		}
		re, err := regexp.Compile(string(r))
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression %q: %w", string(r), err)
		}
		return ast.Bool(re.MatchString(string(l))), nil

	default:
		return nil, fmt.Errorf("unknown operator %s", e.Op)
	}
}

func compare(op ast.BinaryOp, left, right ast.Term) (ast.Term, error) {
	var cmp int
	switch l := left.(type) {
	case ast.Integer:
		r, ok := right.(ast.Integer)
		if !ok {
			return nil, fmt.Errorf("cannot compare %s with %s", left, right)
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	case ast.Date:
		r, ok := right.(ast.Date)
		if !ok {
			return nil, fmt.Errorf("cannot compare %s with %s", left, right)
		}
		switch {
		case l.Time.Before(r.Time):
			cmp = -1
		case l.Time.After(r.Time):
			cmp = 1
		}
	default:
		return nil, fmt.Errorf("operator %s needs integer or date operands, got %s", op, left)
	}

	switch op {
	case ast.OpLessThan:
		return ast.Bool(cmp < 0), nil
	case ast.OpGreaterThan:
		return ast.Bool(cmp > 0), nil
	case ast.OpLessOrEqual:
		return ast.Bool(cmp <= 0), nil
	default:
		return ast.Bool(cmp >= 0), nil
	}
}

func arithmetic(op ast.BinaryOp, left, right ast.Term) (ast.Term, error) {
	l, lok := left.(ast.Integer)
	r, rok := right.(ast.Integer)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %s needs integer operands", op)
	}
	switch op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	default:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return l / r, nil
	}
}
