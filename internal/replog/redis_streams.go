package replog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisStreamsLog durably appends each key's changes to its own Redis
// stream, one stream per document key (streamKey(key)), following
// luvjson/crdtsync.RedisStreamsPatchStore's XAdd/XRange usage.
type RedisStreamsLog struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewRedisStreamsLog wraps an already-connected Redis client. prefix
// namespaces this log's streams from any other key the same Redis
// instance might be asked to hold (e.g. "docmoduled:replog:").
func NewRedisStreamsLog(client *redis.Client, prefix string) *RedisStreamsLog {
	return &RedisStreamsLog{client: client, prefix: prefix, maxLen: 10000}
}

// SetMaxLen bounds each stream's retained length; Redis trims older
// entries once it is exceeded.
func (l *RedisStreamsLog) SetMaxLen(maxLen int64) { l.maxLen = maxLen }

func (l *RedisStreamsLog) streamKey(key string) string { return l.prefix + key }

func (l *RedisStreamsLog) Append(ctx context.Context, key string, payload []byte) (uint64, error) {
	seq, err := l.client.Incr(ctx, l.streamKey(key)+":seq").Result()
	if err != nil {
		return 0, fmt.Errorf("replog: allocate sequence: %w", err)
	}
	_, err = l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: l.streamKey(key),
		MaxLen: l.maxLen,
		ID:     "*",
		Values: map[string]interface{}{
			"seq":     strconv.FormatInt(seq, 10),
			"payload": payload,
		},
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("replog: append to stream: %w", err)
	}
	return uint64(seq), nil
}

func (l *RedisStreamsLog) After(ctx context.Context, key string, seq uint64) ([]Entry, error) {
	messages, err := l.client.XRange(ctx, l.streamKey(key), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("replog: read stream: %w", err)
	}

	var out []Entry
	for _, msg := range messages {
		seqStr, ok := msg.Values["seq"].(string)
		if !ok {
			continue
		}
		entrySeq, err := strconv.ParseUint(seqStr, 10, 64)
		if err != nil || entrySeq <= seq {
			continue
		}
		payload, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}
		out = append(out, Entry{Seq: entrySeq, Payload: []byte(payload)})
	}
	return out, nil
}

func (l *RedisStreamsLog) Close() error { return nil }
