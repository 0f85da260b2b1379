package replog

import (
	"context"
	"sync"
)

// MemoryLog keeps every key's log as a plain slice, guarded by one
// mutex. It is what docmoduled falls back to without a configured
// Redis address, and what this package's own tests run against.
type MemoryLog struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

// NewMemoryLog returns a ready-to-use in-process log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: make(map[string][]Entry)}
}

func (l *MemoryLog) Append(ctx context.Context, key string, payload []byte) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := uint64(len(l.entries[key])) + 1
	l.entries[key] = append(l.entries[key], Entry{Seq: seq, Payload: payload})
	return seq, nil
}

func (l *MemoryLog) After(ctx context.Context, key string, seq uint64) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := l.entries[key]
	var out []Entry
	for _, e := range all {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *MemoryLog) Close() error { return nil }
