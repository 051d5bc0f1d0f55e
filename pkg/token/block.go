package token

import (
	"fmt"
	"strings"

	"biscuit-hq/bakery/pkg/datalog/ast"
)

// Block is the logical content of one token layer.
type Block struct {
	Facts  []ast.Fact
	Rules  []ast.Rule
	Checks []ast.Check
}

// render produces the canonical Datalog text of the block, one statement per
// line. This rendering is also the byte payload covered by the block's
// signature.
func (b Block) render() string {
	var sb strings.Builder
	for _, f := range b.Facts {
		sb.WriteString(f.String())
		sb.WriteString(";\n")
	}
	for _, r := range b.Rules {
		sb.WriteString(r.String())
		sb.WriteString(";\n")
	}
	for _, c := range b.Checks {
		sb.WriteString(c.String())
		sb.WriteString(";\n")
	}
	return sb.String()
}

// addFact validates and appends a fact. Facts must be ground: a variable in
// a fact position means the parser and the builder disagree about the
// statement, which the caller treats as fatal.
func (b *Block) addFact(f ast.Fact) error {
	if !f.IsGround() {
		return fmt.Errorf("fact %s contains variables", f.Predicate)
	}
	b.Facts = append(b.Facts, f)
	return nil
}

// addRule validates and appends a rule.
func (b *Block) addRule(r ast.Rule) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.Head, err)
	}
	b.Rules = append(b.Rules, r)
	return nil
}

// addCheck appends a check.
func (b *Block) addCheck(c ast.Check) error {
	if len(c.Queries) == 0 {
		return fmt.Errorf("check has no queries")
	}
	b.Checks = append(b.Checks, c)
	return nil
}
