// Package samples serves the gallery of ready-made playground
// sessions shown in the editor UI.
//
// A sample is a YAML file in the gallery directory describing a full
// playground session: token blocks, verifier code and an optional
// query. The gallery can be hand-maintained or synced from a git
// repository, and reloads automatically when files change.
package samples

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sample is one gallery entry.
type Sample struct {
	// Name is the identifier shown in the gallery, derived from the
	// file name when the file does not set it.
	Name string `yaml:"name" json:"name"`

	// Description is a short explanation of what the sample shows.
	Description string `yaml:"description" json:"description,omitempty"`

	// TokenBlocks holds the Datalog source of each token block,
	// authority first.
	TokenBlocks []string `yaml:"token_blocks" json:"token_blocks,omitempty"`

	// VerifierCode is the verifier editor content.
	VerifierCode string `yaml:"verifier_code" json:"verifier_code,omitempty"`

	// Query is the optional post-verification query.
	Query string `yaml:"query" json:"query,omitempty"`
}

// loadSampleFile parses one sample file.
func loadSampleFile(path string) (*Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sample: %w", err)
	}
	var s Sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing sample: %w", err)
	}
	return &s, nil
}
