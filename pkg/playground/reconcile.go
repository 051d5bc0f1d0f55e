package playground

import "biscuit-hq/bakery/pkg/verifier"

// reconcile maps a verification outcome, which references checks and
// policies purely by numeric index, back onto the annotation state built
// during assembly.
//
// ChecksFailed flips the referenced pass flags; flipping the same check
// twice is a no-op. Allowed and Denied append exactly one policy marker to
// the verifier editor, never to a block editor. Afterwards every registered
// check is appended as a marker to its owning editor in ordinal order, so
// the editors reflect the true pass/fail of all checks regardless of the
// outcome kind.
func reconcile(outcome verifier.Outcome, blocks []*blockChecks, verifierChecks *blockChecks, policyPositions []SourcePosition, blockEditors []*Editor, verifierEditor *Editor) {
	switch o := outcome.(type) {
	case verifier.ChecksFailed:
		for _, f := range o.Failed {
			table := verifierChecks
			if !f.VerifierLocal {
				if f.BlockID < 0 || f.BlockID >= len(blocks) {
					continue
				}
				table = blocks[f.BlockID]
			}
			if f.CheckID < 0 || f.CheckID >= len(table.checks) {
				continue
			}
			table.checks[f.CheckID].ok = false
		}

	case verifier.Allowed:
		if o.Policy >= 0 && o.Policy < len(policyPositions) {
			verifierEditor.Markers = append(verifierEditor.Markers, Marker{
				Ok:       true,
				Position: policyPositions[o.Policy],
			})
		}

	case verifier.Denied:
		if o.Policy >= 0 && o.Policy < len(policyPositions) {
			verifierEditor.Markers = append(verifierEditor.Markers, Marker{
				Ok:       false,
				Position: policyPositions[o.Policy],
			})
		}

	case verifier.EvaluationError:
		// No policy marker: the run did not terminate with a verdict.
	}

	for i, bc := range blocks {
		if i >= len(blockEditors) {
			break
		}
		for _, c := range bc.checks {
			blockEditors[i].Markers = append(blockEditors[i].Markers, Marker{
				Ok:       c.ok,
				Position: c.position,
			})
		}
	}
	for _, c := range verifierChecks.checks {
		verifierEditor.Markers = append(verifierEditor.Markers, Marker{
			Ok:       c.ok,
			Position: c.position,
		})
	}
}
