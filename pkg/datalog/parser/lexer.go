package parser

import (
	"strings"
	"time"
)

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIllegal

	// Literals and identifiers.
	tokIdent    // predicate or method name
	tokVariable // $name
	tokString   // "..."
	tokInt      // 123, -4
	tokBool     // true, false
	tokDate     // 2024-01-01T00:00:00Z
	tokBytes    // hex:deadbeef

	// Keywords.
	tokCheck // check
	tokIf    // if
	tokAllow // allow
	tokDeny  // deny
	tokOr    // or

	// Punctuation and operators.
	tokLParen    // (
	tokRParen    // )
	tokLBracket  // [
	tokRBracket  // ]
	tokComma     // ,
	tokSemi      // ;
	tokDot       // .
	tokArrow     // <-
	tokLt        // <
	tokGt        // >
	tokLeq       // <=
	tokGeq       // >=
	tokEq        // ==
	tokNeq       // !=
	tokPlus      // +
	tokMinus     // -
	tokStar      // *
	tokSlash     // /
	tokAmpAmp    // &&
	tokPipePipe  // ||
	tokBang      // !
)

var keywords = map[string]tokenKind{
	"check": tokCheck,
	"if":    tokIf,
	"allow": tokAllow,
	"deny":  tokDeny,
	"or":    tokOr,
	"true":  tokBool,
	"false": tokBool,
}

// token is one lexical token with its byte offsets into the source text.
type token struct {
	kind  tokenKind
	lit   string
	start int
	end   int

	// msg carries the failure description for tokIllegal tokens.
	msg FailureCode
}

// lexer produces tokens from a block's source text. It never fails outright:
// unrecognizable input becomes a tokIllegal token the parser turns into a
// positioned Failure.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// tokens lexes the whole input, ending with a tokEOF token.
func (l *lexer) tokens() []token {
	var out []token
	for {
		t := l.next()
		out = append(out, t)
		if t.kind == tokEOF {
			return out
		}
	}
}

func (l *lexer) next() token {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start}
	}

	c := l.src[l.pos]
	switch {
	case c == '$':
		l.pos++
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == start+1 {
			return token{kind: tokIllegal, start: start, end: l.pos, msg: CodeUnexpectedToken}
		}
		return token{kind: tokVariable, lit: l.src[start+1 : l.pos], start: start, end: l.pos}

	case c == '"':
		return l.lexString(start)

	case c >= '0' && c <= '9':
		return l.lexNumberOrDate(start)

	case c == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9':
		l.pos++
		return l.lexNumberOrDate(start)

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		lit := l.src[start:l.pos]
		if lit == "hex" && l.pos < len(l.src) && l.src[l.pos] == ':' {
			return l.lexBytes(start)
		}
		if kind, ok := keywords[lit]; ok {
			return token{kind: kind, lit: lit, start: start, end: l.pos}
		}
		return token{kind: tokIdent, lit: lit, start: start, end: l.pos}
	}

	// Operators and punctuation.
	two := ""
	if l.pos+2 <= len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "<-":
		l.pos += 2
		return token{kind: tokArrow, lit: two, start: start, end: l.pos}
	case "<=":
		l.pos += 2
		return token{kind: tokLeq, lit: two, start: start, end: l.pos}
	case ">=":
		l.pos += 2
		return token{kind: tokGeq, lit: two, start: start, end: l.pos}
	case "==":
		l.pos += 2
		return token{kind: tokEq, lit: two, start: start, end: l.pos}
	case "!=":
		l.pos += 2
		return token{kind: tokNeq, lit: two, start: start, end: l.pos}
	case "&&":
		l.pos += 2
		return token{kind: tokAmpAmp, lit: two, start: start, end: l.pos}
	case "||":
		l.pos += 2
		return token{kind: tokPipePipe, lit: two, start: start, end: l.pos}
	}

	single := map[byte]tokenKind{
		'(': tokLParen, ')': tokRParen, '[': tokLBracket, ']': tokRBracket,
		',': tokComma, ';': tokSemi, '.': tokDot, '<': tokLt, '>': tokGt,
		'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash, '!': tokBang,
	}
	if kind, ok := single[c]; ok {
		l.pos++
		return token{kind: kind, lit: string(c), start: start, end: l.pos}
	}

	l.pos++
	return token{kind: tokIllegal, lit: string(c), start: start, end: l.pos, msg: CodeUnexpectedToken}
}

func (l *lexer) lexString(start int) token {
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokString, lit: sb.String(), start: start, end: l.pos}
		case '\\':
			if l.pos+1 >= len(l.src) {
				l.pos++
				return token{kind: tokIllegal, start: start, end: l.pos, msg: CodeUnterminatedString}
			}
			switch l.src[l.pos+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(l.src[l.pos+1])
			}
			l.pos += 2
		case '\n':
			// Strings do not span lines.
			return token{kind: tokIllegal, start: start, end: l.pos, msg: CodeUnterminatedString}
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return token{kind: tokIllegal, start: start, end: l.pos, msg: CodeUnterminatedString}
}

// lexNumberOrDate scans the maximal run of characters that could belong to an
// integer or an RFC 3339 timestamp and decides afterwards.
func (l *lexer) lexNumberOrDate(start int) token {
	for l.pos < len(l.src) && isDateChar(l.src[l.pos]) {
		l.pos++
	}
	lit := l.src[start:l.pos]

	if isAllDigits(lit) {
		return token{kind: tokInt, lit: lit, start: start, end: l.pos}
	}
	if _, err := time.Parse(time.RFC3339, lit); err == nil {
		return token{kind: tokDate, lit: lit, start: start, end: l.pos}
	}
	return token{kind: tokIllegal, lit: lit, start: start, end: l.pos, msg: CodeInvalidLiteral}
}

func (l *lexer) lexBytes(start int) token {
	l.pos++ // colon
	hexStart := l.pos
	for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
		l.pos++
	}
	lit := l.src[hexStart:l.pos]
	if lit == "" || len(lit)%2 != 0 {
		return token{kind: tokIllegal, lit: lit, start: start, end: l.pos, msg: CodeInvalidLiteral}
	}
	return token{kind: tokBytes, lit: lit, start: start, end: l.pos}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isDateChar(c byte) bool {
	return c >= '0' && c <= '9' || c == '-' || c == ':' || c == '+' || c == '.' ||
		c == 'T' || c == 'Z' || c == 't' || c == 'z'
}

func isAllDigits(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
