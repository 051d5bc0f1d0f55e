package verifier

import "fmt"

// FailedCheck references one check that did not hold, by position rather
// than by source text. BlockID 0 is the authority block; VerifierLocal checks
// belong to the verifier itself and their BlockID is meaningless.
type FailedCheck struct {
	VerifierLocal bool
	BlockID       int
	CheckID       int
}

func (f FailedCheck) String() string {
	if f.VerifierLocal {
		return fmt.Sprintf("verifier check %d", f.CheckID)
	}
	return fmt.Sprintf("block %d check %d", f.BlockID, f.CheckID)
}

// Outcome is the result of one verification run. Exactly one of the four
// concrete kinds is produced: Allowed, Denied, ChecksFailed or
// EvaluationError. Consumers are expected to switch over all four.
type Outcome interface {
	isOutcome()
}

// Allowed means every check held and the policy at Policy matched with an
// allow verdict.
type Allowed struct {
	Policy int
}

func (Allowed) isOutcome() {}

// Denied means every check held but the policy at Policy matched with a deny
// verdict.
type Denied struct {
	Policy int
}

func (Denied) isOutcome() {}

// ChecksFailed means at least one check did not hold. Policies are not
// consulted in this case.
type ChecksFailed struct {
	Failed []FailedCheck
}

func (ChecksFailed) isOutcome() {}

// EvaluationError means the run did not complete: the time or fact budget
// was exceeded, a constraint misbehaved, or no policy matched.
type EvaluationError struct {
	Err error
}

func (EvaluationError) isOutcome() {}
