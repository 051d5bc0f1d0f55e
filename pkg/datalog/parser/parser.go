package parser

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// SpannedFact pairs a parsed fact with the span of its statement.
type SpannedFact struct {
	Span ast.Span
	Fact ast.Fact
}

// SpannedRule pairs a parsed rule with the span of its statement.
type SpannedRule struct {
	Span ast.Span
	Rule ast.Rule
}

// SpannedCheck pairs a parsed check with the span of its statement.
type SpannedCheck struct {
	Span  ast.Span
	Check ast.Check
}

// SpannedPolicy pairs a parsed policy with the span of its statement.
type SpannedPolicy struct {
	Span   ast.Span
	Policy ast.Policy
}

// ParsedSource holds every statement of one block, each paired with its
// originating span, in source order per statement kind.
type ParsedSource struct {
	Facts    []SpannedFact
	Rules    []SpannedRule
	Checks   []SpannedCheck
	Policies []SpannedPolicy
}

// Parse parses one block of Datalog source. When failures is non-empty the
// returned source holds only the statements that parsed cleanly; callers that
// need all-or-nothing behavior should treat any failure as fatal for the
// block.
func Parse(src string) (*ParsedSource, []Failure) {
	p := &parser{src: src, toks: newLexer(src).tokens()}
	return p.parseSource()
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) parseSource() (*ParsedSource, []Failure) {
	out := &ParsedSource{}
	var failures []Failure

	for p.peek().kind != tokEOF {
		start := p.peek().start
		if err := p.parseStatement(out); err != nil {
			failures = append(failures, p.failureAt(start, err))
			p.resync()
		}
	}
	return out, failures
}

// resync skips forward past the next semicolon so the following statement can
// be parsed on its own.
func (p *parser) resync() {
	for {
		t := p.advance()
		if t.kind == tokSemi || t.kind == tokEOF {
			return
		}
	}
}

// failureAt builds a Failure spanning from the statement start to the point
// of the error.
func (p *parser) failureAt(start int, err error) Failure {
	end := p.peek().end
	if end <= start {
		end = start
		if end < len(p.src) {
			end++
		}
	}
	f := Failure{
		Span:    ast.Span{Start: start, End: end},
		Code:    CodeUnexpectedToken,
		Message: err.Error(),
	}
	if pf, ok := err.(*parseErr); ok && pf.code != "" {
		f.Code = pf.code
	}
	return f
}

// parseErr is an internal error carrying a failure code alongside the
// message.
type parseErr struct {
	code FailureCode
	msg  string
}

func (e *parseErr) Error() string { return e.msg }

func errUnexpected(t token, want string) error {
	code := CodeUnexpectedToken
	if t.kind == tokIllegal && t.msg != "" {
		code = t.msg
	}
	got := t.lit
	if t.kind == tokEOF {
		got = "end of input"
	}
	return &parseErr{code: code, msg: fmt.Sprintf("expected %s, got %q", want, got)}
}

func (p *parser) parseStatement(out *ParsedSource) error {
	start := p.peek().start

	switch p.peek().kind {
	case tokCheck:
		p.advance()
		if err := p.expect(tokIf, "if"); err != nil {
			return err
		}
		queries, err := p.parseQueries("query")
		if err != nil {
			return err
		}
		end, err := p.expectSemi()
		if err != nil {
			return err
		}
		out.Checks = append(out.Checks, SpannedCheck{
			Span:  ast.Span{Start: start, End: end},
			Check: ast.Check{Queries: queries},
		})
		return nil

	case tokAllow, tokDeny:
		kind := ast.PolicyAllow
		if p.peek().kind == tokDeny {
			kind = ast.PolicyDeny
		}
		p.advance()
		if err := p.expect(tokIf, "if"); err != nil {
			return err
		}
		queries, err := p.parseQueries("policy")
		if err != nil {
			return err
		}
		end, err := p.expectSemi()
		if err != nil {
			return err
		}
		out.Policies = append(out.Policies, SpannedPolicy{
			Span:   ast.Span{Start: start, End: end},
			Policy: ast.Policy{Kind: kind, Queries: queries},
		})
		return nil
	}

	// Fact or rule: both start with a predicate.
	head, err := p.parsePredicate()
	if err != nil {
		return err
	}

	if p.peek().kind == tokArrow {
		p.advance()
		body, exprs, err := p.parseBody()
		if err != nil {
			return err
		}
		end, err := p.expectSemi()
		if err != nil {
			return err
		}
		out.Rules = append(out.Rules, SpannedRule{
			Span: ast.Span{Start: start, End: end},
			Rule: ast.Rule{Head: head, Body: body, Expressions: exprs},
		})
		return nil
	}

	end, err := p.expectSemi()
	if err != nil {
		return err
	}
	out.Facts = append(out.Facts, SpannedFact{
		Span: ast.Span{Start: start, End: end},
		Fact: ast.Fact{Predicate: head},
	})
	return nil
}

// parseQueries parses one or more rule bodies separated by "or", giving each
// a synthetic head named after the statement kind.
func (p *parser) parseQueries(headName string) ([]ast.Rule, error) {
	var queries []ast.Rule
	for {
		body, exprs, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		queries = append(queries, ast.Rule{
			Head:        ast.Predicate{Name: headName},
			Body:        body,
			Expressions: exprs,
		})
		if p.peek().kind != tokOr {
			return queries, nil
		}
		p.advance()
	}
}

// parseBody parses a comma-separated sequence of predicates and constraint
// expressions.
func (p *parser) parseBody() ([]ast.Predicate, []ast.Expression, error) {
	var preds []ast.Predicate
	var exprs []ast.Expression
	for {
		if p.peek().kind == tokIdent && p.peekAt(1).kind == tokLParen {
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, nil, err
			}
			preds = append(preds, pred)
		} else {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, nil, err
			}
			exprs = append(exprs, expr)
		}
		if p.peek().kind != tokComma {
			return preds, exprs, nil
		}
		p.advance()
	}
}

func (p *parser) parsePredicate() (ast.Predicate, error) {
	name := p.peek()
	if name.kind != tokIdent {
		return ast.Predicate{}, errUnexpected(name, "predicate name")
	}
	p.advance()
	if err := p.expect(tokLParen, "("); err != nil {
		return ast.Predicate{}, err
	}

	var terms []ast.Term
	if p.peek().kind != tokRParen {
		for {
			term, err := p.parseTerm()
			if err != nil {
				return ast.Predicate{}, err
			}
			terms = append(terms, term)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return ast.Predicate{}, err
	}
	return ast.Predicate{Name: name.lit, Terms: terms}, nil
}

func (p *parser) parseTerm() (ast.Term, error) {
	t := p.peek()
	switch t.kind {
	case tokVariable:
		p.advance()
		return ast.Variable(t.lit), nil
	case tokString:
		p.advance()
		return ast.String(t.lit), nil
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.lit, 10, 64)
		if err != nil {
			return nil, &parseErr{code: CodeInvalidLiteral, msg: fmt.Sprintf("integer %q out of range", t.lit)}
		}
		return ast.Integer(n), nil
	case tokBool:
		p.advance()
		return ast.Bool(t.lit == "true"), nil
	case tokDate:
		p.advance()
		ts, err := time.Parse(time.RFC3339, t.lit)
		if err != nil {
			return nil, &parseErr{code: CodeInvalidLiteral, msg: fmt.Sprintf("invalid date %q", t.lit)}
		}
		return ast.Date{Time: ts}, nil
	case tokBytes:
		p.advance()
		raw, err := hex.DecodeString(t.lit)
		if err != nil {
			return nil, &parseErr{code: CodeInvalidLiteral, msg: fmt.Sprintf("invalid byte literal %q", t.lit)}
		}
		return ast.Bytes(raw), nil
	case tokLBracket:
		return p.parseSet()
	default:
		return nil, errUnexpected(t, "term")
	}
}

func (p *parser) parseSet() (ast.Term, error) {
	p.advance() // [
	var elems []ast.Term
	if p.peek().kind != tokRBracket {
		for {
			elem, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			switch elem.(type) {
			case ast.Variable, ast.Set:
				return nil, &parseErr{code: CodeInvalidLiteral, msg: "sets can only contain constant terms"}
			}
			elems = append(elems, elem)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(tokRBracket, "]"); err != nil {
		return nil, err
	}
	return ast.Set(elems), nil
}

// Expression parsing, lowest precedence first: || then && then comparison,
// then additive, multiplicative, unary, and postfix method calls.

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseDisjunction()
}

func (p *parser) parseDisjunction() (ast.Expression, error) {
	left, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPipePipe {
		p.advance()
		right, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseConjunction() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAmpAmp {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[tokenKind]ast.BinaryOp{
	tokLt:  ast.OpLessThan,
	tokGt:  ast.OpGreaterThan,
	tokLeq: ast.OpLessOrEqual,
	tokGeq: ast.OpGreaterOrEqual,
	tokEq:  ast.OpEqual,
	tokNeq: ast.OpNotEqual,
}

func (p *parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.peek().kind]; ok {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().kind {
		case tokPlus:
			op = ast.OpAdd
		case tokMinus:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().kind {
		case tokStar:
			op = ast.OpMul
		case tokSlash:
			op = ast.OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if p.peek().kind == tokBang {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Expr: inner}, nil
	}
	return p.parsePostfix()
}

var methodOps = map[string]ast.BinaryOp{
	"contains":    ast.OpContains,
	"starts_with": ast.OpPrefix,
	"ends_with":   ast.OpSuffix,
	"matches":     ast.OpRegex,
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokDot {
		p.advance()
		name := p.peek()
		op, ok := methodOps[name.lit]
		if name.kind != tokIdent || !ok {
			return nil, errUnexpected(name, "contains, starts_with, ends_with or matches")
		}
		p.advance()
		if err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op, Left: left, Right: arg}
	}
	return left, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	if p.peek().kind == tokLParen {
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return ast.Value{Term: term}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, want string) error {
	if p.peek().kind != kind {
		return errUnexpected(p.peek(), want)
	}
	p.advance()
	return nil
}

// expectSemi consumes the statement terminator and returns the byte offset
// just past it, which closes the statement's span.
func (p *parser) expectSemi() (int, error) {
	t := p.peek()
	if t.kind != tokSemi {
		return 0, &parseErr{code: CodeMissingSemicolon, msg: fmt.Sprintf("expected %q to end the statement, got %q", ";", t.lit)}
	}
	p.advance()
	return t.end, nil
}
