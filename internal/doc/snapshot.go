package doc

import "context"

// Save returns the document's canonical operation log, sufficient to
// reconstruct it from scratch with Load. This mirrors the teacher's
// own GetOperations/ApplyOperations round trip (pkg/crdt/tictactoe.go)
// rather than any notion of a binary snapshot format, since rdoc
// exposes no API to serialize internal CRDT state directly.
func (c *Client) Save(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d.Operations(ctx)
}
