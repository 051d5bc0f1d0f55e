package playground

import "biscuit-hq/bakery/pkg/verifier"

// runQuery executes one ad-hoc query against the post-verification world. A
// query failure is logged and yields an empty result set; it never alters
// the verification outcome or any editor.
func (p *Playground) runQuery(v *verifier.Verifier, query string) []Fact {
	facts, err := v.Query(query)
	if err != nil {
		p.logger.Warn("query failed", "query", query, "error", err)
		return []Fact{}
	}
	return renderFacts(facts)
}
