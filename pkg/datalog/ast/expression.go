package ast

import "fmt"

// BinaryOp identifies a binary operator in a constraint expression.
type BinaryOp int

// Binary operators, in no particular precedence order. Precedence is a
// parser concern; the AST is already structured.
const (
	OpLessThan BinaryOp = iota
	OpGreaterThan
	OpLessOrEqual
	OpGreaterOrEqual
	OpEqual
	OpNotEqual
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpContains
	OpPrefix
	OpSuffix
	OpRegex
)

// String renders the operator as it appears in source.
func (op BinaryOp) String() string {
	switch op {
	case OpLessThan:
		return "<"
	case OpGreaterThan:
		return ">"
	case OpLessOrEqual:
		return "<="
	case OpGreaterOrEqual:
		return ">="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpContains:
		return "contains"
	case OpPrefix:
		return "starts_with"
	case OpSuffix:
		return "ends_with"
	case OpRegex:
		return "matches"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// methodStyle reports whether the operator renders as a method call,
// e.g. $path.starts_with("/files"), rather than infix.
func (op BinaryOp) methodStyle() bool {
	switch op {
	case OpContains, OpPrefix, OpSuffix, OpRegex:
		return true
	default:
		return false
	}
}

// Expression is a constraint evaluated against bound variables in a rule
// body. Implementations are Value, Unary and Binary.
type Expression interface {
	fmt.Stringer

	isExpression()
}

// Value is a term used as an expression, e.g. the literal true or a bound
// variable.
type Value struct {
	Term Term
}

func (v Value) isExpression() {}

func (v Value) String() string { return v.Term.String() }

// Unary is a prefix operator applied to one expression. Negation is the only
// unary operator.
type Unary struct {
	Expr Expression
}

func (u Unary) isExpression() {}

func (u Unary) String() string { return "!" + u.Expr.String() }

// Binary is an operator applied to two expressions.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (b Binary) isExpression() {}

func (b Binary) String() string {
	if b.Op.methodStyle() {
		return fmt.Sprintf("%s.%s(%s)", b.Left, b.Op, b.Right)
	}
	return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right)
}
