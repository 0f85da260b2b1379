package doc

// DrainChanges returns every patch captured since the last drain (by
// a local Put/Append/CreateList/PutDiff, or by a successful Apply of
// a foreign change) and empties the buffer. The host uses this to
// feed its replication log and pub/sub notifier without re-deriving
// what changed from the document itself.
func (c *Client) DrainChanges() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		return nil
	}
	drained := c.buf
	c.buf = nil
	return drained
}
