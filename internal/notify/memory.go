package notify

import (
	"context"
	"fmt"
	"sync"
)

// MemoryNotifier delivers notifications in-process, synchronously, to
// every subscriber of a topic. Grounded on
// luvjson/crdtpubsub.MemoryPubSub, narrowed to this module's raw byte
// payloads. It is what docmoduled falls back to when no Redis address
// is configured, and what every test in this repository uses.
type MemoryNotifier struct {
	mu    sync.RWMutex
	subs  map[string][]*memorySub
	closed bool
}

type memorySub struct {
	subscriberID string
	handler      Handler
}

// NewMemoryNotifier returns a ready-to-use in-process notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string][]*memorySub)}
}

func (n *MemoryNotifier) Publish(ctx context.Context, topic string, payload []byte) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return fmt.Errorf("notify: publisher is closed")
	}
	for _, s := range n.subs[topic] {
		if err := s.handler(ctx, topic, payload); err != nil {
			return fmt.Errorf("notify: handler for %q: %w", s.subscriberID, err)
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context, topic string, subscriberID string, handler Handler) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return fmt.Errorf("notify: notifier is closed")
	}
	n.subs[topic] = append(n.subs[topic], &memorySub{subscriberID: subscriberID, handler: handler})
	return nil
}

func (n *MemoryNotifier) Unsubscribe(ctx context.Context, topic string, subscriberID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	subs := n.subs[topic]
	for i, s := range subs {
		if s.subscriberID == subscriberID {
			n.subs[topic] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notify: no subscription %q on topic %q", subscriberID, topic)
}

func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = nil
	return nil
}
