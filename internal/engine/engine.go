// Package engine is the narrow seam between the document core and its
// external CRDT collaborator. The merge algorithm, the binary change
// format, and the content-addressed change graph all belong to the
// engine; this package never leaks them past its own boundary — the
// rest of the core (internal/navigate, internal/doc) only ever sees
// the generic tree returned by View and the opaque []byte changes
// accepted by Apply.
package engine

import "context"

// Doc is one CRDT document handle.
type Doc interface {
	// Apply applies a single JSON Patch (RFC 6902) operation array to
	// the document. Each call to Apply that originates from a local
	// mutation is, by construction, exactly one CRDT change; the same
	// method ingests changes received from peers.
	Apply(ctx context.Context, patch []byte) error

	// View decodes the current document state into a generic tree of
	// map[string]any, []any, and the tagged scalar representation
	// produced by this package's scalar helpers (see Tag/Untag).
	View(ctx context.Context) (any, error)

	// Operations returns the document's full, canonical change log.
	// It doubles as this package's snapshot format: replaying it
	// against a freshly initialized Doc reproduces the same state.
	Operations(ctx context.Context) ([]byte, error)
}

// Engine constructs and restores Doc instances for one actor (session).
type Engine interface {
	// New creates an empty document owned by actor.
	New(actor string) Doc

	// Load reconstructs a document by replaying a previously saved
	// operation log (as returned by Doc.Operations) against a fresh
	// instance owned by actor.
	Load(ctx context.Context, actor string, log []byte) (Doc, error)
}
