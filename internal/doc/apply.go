package doc

import (
	"context"
	"fmt"

	"github.com/michelp/redis-automerge/internal/engine"
)

// Apply ingests a batch of foreign changes (each an engine operations
// delta previously produced by another replica's commit/DrainChanges,
// carrying that replica's own actor/seq identity) and applies them to
// the local document in order.
//
// Every blob is parsed before any of them is applied, so a malformed
// blob anywhere in the batch leaves the document and the change
// buffer untouched. If a later blob is well-formed but the engine
// rejects it (e.g. it no longer resolves against the current document
// state), every change already applied from this batch is left in
// place — the engine has already committed them — but the buffer
// rollback below keeps DrainChanges from re-announcing changes whose
// batch did not fully succeed.
func (c *Client) Apply(ctx context.Context, changes [][]byte) error {
	for i, blob := range changes {
		if _, err := engine.DecodePatch(blob); err != nil {
			return fmt.Errorf("%w: change %d: %s", ErrInvalidChange, i, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bufStart := len(c.buf)
	for i, blob := range changes {
		if err := c.d.Apply(ctx, blob); err != nil {
			c.buf = c.buf[:bufStart]
			return fmt.Errorf("%w: change %d: %s", ErrInvalidChange, i, err)
		}
		c.buf = append(c.buf, blob)
	}
	return nil
}
