// Package replog appends and replays the ordered change log a key's
// document produces, independent of notify's fan-out: replog is what
// a newly attached replica (or a restarted host) uses to catch up,
// while notify is what already-attached watchers use to hear about a
// change as it happens. Grounded on
// luvjson/crdtsync.RedisStreamsPatchStore, narrowed to this module's
// raw JSON Patch byte payloads instead of a typed *crdtpatch.Patch.
package replog

import "context"

// Entry is one appended change together with its position in the log.
type Entry struct {
	Seq     uint64
	Payload []byte
}

// Log is an append-only, per-key sequence of changes.
type Log interface {
	// Append adds payload to key's log and returns its sequence number.
	Append(ctx context.Context, key string, payload []byte) (uint64, error)
	// After returns every entry appended after seq (seq itself excluded).
	After(ctx context.Context, key string, seq uint64) ([]Entry, error)
	// Close releases any resources held by the log.
	Close() error
}
