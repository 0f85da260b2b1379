package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// RedisNotifier publishes and subscribes through Redis channels,
// grounded on luvjson/crdtpubsub.RedisPubSub. Unlike that
// implementation, each Subscribe call opens its own *redis.PubSub (one
// channel subscription, not a shared multiplexed connection per
// topic) so that more than one subscriber can independently attach to
// the same topic — this module's keyspace notifications are fanned
// out to an arbitrary number of watchers per key.
type RedisNotifier struct {
	client *redis.Client

	mu   sync.Mutex
	subs map[string]map[string]*redisSub
}

type redisSub struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisNotifier wraps an already-connected Redis client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client, subs: make(map[string]map[string]*redisSub)}
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string, payload []byte) error {
	return n.client.Publish(ctx, topic, payload).Err()
}

func (n *RedisNotifier) Subscribe(ctx context.Context, topic string, subscriberID string, handler Handler) error {
	n.mu.Lock()
	if _, ok := n.subs[topic][subscriberID]; ok {
		n.mu.Unlock()
		return fmt.Errorf("notify: already subscribed to %q as %q", topic, subscriberID)
	}
	n.mu.Unlock()

	pubsub := n.client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("notify: subscribe to %q: %w", topic, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &redisSub{cancel: cancel, done: make(chan struct{})}

	n.mu.Lock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[string]*redisSub)
	}
	n.subs[topic][subscriberID] = sub
	n.mu.Unlock()

	go n.listen(subCtx, pubsub, topic, handler, sub.done)
	return nil
}

func (n *RedisNotifier) listen(ctx context.Context, pubsub *redis.PubSub, topic string, handler Handler, done chan struct{}) {
	defer close(done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := handler(ctx, topic, []byte(msg.Payload)); err != nil {
				continue
			}
		}
	}
}

func (n *RedisNotifier) Unsubscribe(ctx context.Context, topic string, subscriberID string) error {
	n.mu.Lock()
	sub, ok := n.subs[topic][subscriberID]
	if ok {
		delete(n.subs[topic], subscriberID)
	}
	n.mu.Unlock()
	if !ok {
		return fmt.Errorf("notify: no subscription %q on topic %q", subscriberID, topic)
	}
	sub.cancel()
	<-sub.done
	return nil
}

func (n *RedisNotifier) Close() error {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()
	for _, byID := range subs {
		for _, s := range byID {
			s.cancel()
		}
	}
	return n.client.Close()
}
