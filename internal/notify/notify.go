// Package notify publishes and subscribes to per-document change
// notifications: one topic per key, one message per committed patch.
// The interface and its in-memory/Redis implementations follow
// luvjson/crdtpubsub, trimmed to the raw []byte payloads this module
// already produces (JSON Patch blobs) instead of a typed CRDT patch.
package notify

import "context"

// Handler receives one published change. Payload is a JSON Patch blob
// as returned by a document Client's commit or DrainChanges.
type Handler func(ctx context.Context, topic string, payload []byte) error

// Publisher announces that a key's document changed.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Subscriber receives announcements for a key's document.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, subscriberID string, handler Handler) error
	Unsubscribe(ctx context.Context, topic string, subscriberID string) error
	Close() error
}

// Notifier combines both halves, mirroring crdtpubsub.PubSub.
type Notifier interface {
	Publisher
	Subscriber
}
