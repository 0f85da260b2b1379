// Package doc implements the mutation engine, change-stream bridge,
// and persistence bridge of the document core: the typed field API,
// the text diff applier, local change capture, foreign-change
// ingestion, and snapshot save/load. It is the only package that
// drives internal/engine and internal/navigate together.
package doc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/michelp/redis-automerge/internal/engine"
)

// Client pairs one document handle with the change-buffer the host
// drains for append-log persistence. It is the concrete realization
// of the "Client" entity in the data model: exactly one per server
// key, owned exclusively by whoever holds it.
type Client struct {
	mu  sync.Mutex
	eng engine.Engine
	d   engine.Doc

	buf [][]byte
}

// New creates a client with an empty document, establishing the
// root-is-a-map invariant via one initializing patch.
func New(ctx context.Context, eng engine.Engine) (*Client, error) {
	actor := uuid.NewString()
	d := eng.New(actor)
	c := &Client{eng: eng, d: d}
	if err := c.initRoot(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reconstructs a client from previously saved bytes (as returned
// by Save), with an empty change-buffer.
func Load(ctx context.Context, eng engine.Engine, snapshot []byte) (*Client, error) {
	actor := uuid.NewString()
	d, err := eng.Load(ctx, actor, snapshot)
	if err != nil {
		return nil, err
	}
	c := &Client{eng: eng, d: d}
	if len(snapshot) == 0 {
		if err := c.initRoot(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) initRoot(ctx context.Context) error {
	patch, err := engine.EncodePatch([]engine.Op{engine.Add(engine.RootPointer, map[string]any{})})
	if err != nil {
		return err
	}
	return c.d.Apply(ctx, patch)
}

// view snapshots the current document as a generic tree, for the
// navigator to walk. Callers must hold c.mu.
func (c *Client) view(ctx context.Context) (any, error) {
	tree, err := c.d.View(ctx)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// commit applies a locally-built patch as a single CRDT change and
// buffers the engine's own record of it, not the input patch bytes.
// The input patch is ID-less: if it were exchanged with a peer
// directly, the peer's Apply would re-originate it under the remote
// replica's own actor instead of preserving the change this replica
// actually produced, and two replicas that each applied the other's
// "same" concurrent write would converge on different values. rdoc's
// Operations log is append-only and identity-carrying, so diffing it
// before and after Apply yields exactly the change a peer must replay
// to converge — the same thing the teacher's GetOperations /
// ApplyOperations round trip exchanges (pkg/crdt/tictactoe.go),
// applied per-commit instead of to the whole log.
//
// A nil-returning commit means the patch had no operations, or the
// engine coalesced it into no new log entries, and nothing was buffered.
func (c *Client) commit(ctx context.Context, ops []engine.Op) ([]byte, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	patch, err := engine.EncodePatch(ops)
	if err != nil {
		return nil, err
	}

	before, err := c.d.Operations(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.d.Apply(ctx, patch); err != nil {
		return nil, err
	}
	after, err := c.d.Operations(ctx)
	if err != nil {
		return nil, err
	}

	deltaOps, err := operationsDelta(before, after)
	if err != nil {
		return nil, err
	}
	if len(deltaOps) == 0 {
		return nil, nil
	}
	delta, err := json.Marshal(deltaOps)
	if err != nil {
		return nil, err
	}
	c.buf = append(c.buf, delta)
	return delta, nil
}

// operationsDelta decodes before and after as the engine's append-only
// operation log and returns the trailing entries after carries beyond
// before's length, in the order they were appended.
func operationsDelta(before, after []byte) ([]json.RawMessage, error) {
	var beforeOps, afterOps []json.RawMessage
	if len(before) > 0 {
		if err := json.Unmarshal(before, &beforeOps); err != nil {
			return nil, fmt.Errorf("doc: decode operations log: %w", err)
		}
	}
	if len(after) > 0 {
		if err := json.Unmarshal(after, &afterOps); err != nil {
			return nil, fmt.Errorf("doc: decode operations log: %w", err)
		}
	}
	if len(afterOps) < len(beforeOps) {
		return nil, fmt.Errorf("doc: operations log shrank from %d to %d entries", len(beforeOps), len(afterOps))
	}
	return afterOps[len(beforeOps):], nil
}
