// Package snippet provides the shared-snippet store.
//
// A snippet captures the full editor state of a playground session
// (token blocks, verifier code and query) so it can be shared by ID.
package snippet

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a snippet ID does not exist or has
// expired.
var ErrNotFound = errors.New("snippet not found")

// Snippet is a shareable playground session.
type Snippet struct {
	// ID is the unique identifier used in share links.
	ID string `json:"id"`

	// TokenBlocks holds the Datalog source of each token block editor,
	// authority first.
	TokenBlocks []string `json:"token_blocks"`

	// VerifierCode is the verifier editor content.
	VerifierCode string `json:"verifier_code"`

	// Query is the optional post-verification query.
	Query string `json:"query,omitempty"`

	// CreatedAt is when the snippet was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Store persists snippets.
type Store interface {
	// Create stores a snippet and returns it with ID and CreatedAt set.
	Create(ctx context.Context, s *Snippet) (*Snippet, error)

	// Get retrieves a snippet by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Snippet, error)

	// Prune deletes snippets created before the cutoff and returns the
	// number deleted.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases store resources.
	Close() error
}
