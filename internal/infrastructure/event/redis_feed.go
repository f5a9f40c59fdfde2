package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisChannel is the Pub/Sub channel change events travel on.
const DefaultRedisChannel = "bizops:changefeed"

// wireEvent is the Redis wire form of a ChangeEvent; row images are kept as
// raw JSON so subscribers decode into their own row types.
type wireEvent struct {
	Table     string          `json:"table"`
	Type      ChangeType      `json:"type"`
	New       json.RawMessage `json:"new,omitempty"`
	Old       json.RawMessage `json:"old,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// RedisChangeFeed fans change events out across service instances using
// Redis Pub/Sub. Local subscriptions attach to an in-memory hub; every
// published event makes one round trip through Redis so all instances,
// including the publisher, observe the same stream.
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
	local   *InMemoryChangeFeed
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// RedisChangeFeedOption is a functional option for RedisChangeFeed.
type RedisChangeFeedOption func(*RedisChangeFeed)

// WithRedisChannel overrides the Pub/Sub channel name.
func WithRedisChannel(channel string) RedisChangeFeedOption {
	return func(f *RedisChangeFeed) {
		f.channel = channel
	}
}

// WithRedisLogger sets the feed's logger.
func WithRedisLogger(logger *zap.Logger) RedisChangeFeedOption {
	return func(f *RedisChangeFeed) {
		f.logger = logger
		f.local.logger = logger
	}
}

// NewRedisChangeFeed creates a Redis-backed change feed with an existing
// client. The caller retains ownership of the client.
func NewRedisChangeFeed(client *redis.Client, opts ...RedisChangeFeedOption) *RedisChangeFeed {
	feed := &RedisChangeFeed{
		client:  client,
		channel: DefaultRedisChannel,
		local:   NewInMemoryChangeFeed(zap.NewNop()),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(feed)
	}
	return feed
}

// Start begins relaying events from Redis into the local hub.
func (f *RedisChangeFeed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return fmt.Errorf("redis change feed already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})
	f.running = true

	pubsub := f.client.Subscribe(runCtx, f.channel)
	go f.relay(runCtx, pubsub)

	f.logger.Info("redis change feed started", zap.String("channel", f.channel))
	return nil
}

// Stop halts the relay loop and waits for it to exit.
func (f *RedisChangeFeed) Stop(timeout time.Duration) {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	cancel, done := f.cancel, f.done
	f.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(timeout):
		f.logger.Warn("timed out waiting for redis change feed to stop")
	}
}

// Publish sends the event through Redis; delivery to local subscribers
// happens when the relay loop receives it back.
func (f *RedisChangeFeed) Publish(ctx context.Context, event ChangeEvent) error {
	wire := wireEvent{
		Table:     event.Table,
		Type:      event.Type,
		Timestamp: event.Timestamp,
	}
	var err error
	if event.New != nil {
		if wire.New, err = json.Marshal(event.New); err != nil {
			return fmt.Errorf("marshal new row image: %w", err)
		}
	}
	if event.Old != nil {
		if wire.Old, err = json.Marshal(event.Old); err != nil {
			return fmt.Errorf("marshal old row image: %w", err)
		}
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscribe opens a local subscription; events arrive after their Redis
// round trip.
func (f *RedisChangeFeed) Subscribe(table string) (*Subscription, error) {
	return f.local.Subscribe(table)
}

func (f *RedisChangeFeed) relay(ctx context.Context, pubsub *redis.PubSub) {
	defer close(f.done)
	defer func() {
		if err := pubsub.Close(); err != nil {
			f.logger.Warn("error closing redis subscription", zap.Error(err))
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var wire wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
				f.logger.Warn("dropping malformed change event", zap.Error(err))
				continue
			}
			local := ChangeEvent{
				Table:     wire.Table,
				Type:      wire.Type,
				Timestamp: wire.Timestamp,
			}
			if len(wire.New) > 0 {
				local.New = wire.New
			}
			if len(wire.Old) > 0 {
				local.Old = wire.Old
			}
			if err := f.local.Publish(ctx, local); err != nil {
				f.logger.Warn("local change event delivery failed", zap.Error(err))
			}
		}
	}
}

// Ensure RedisChangeFeed implements ChangeFeed
var _ ChangeFeed = (*RedisChangeFeed)(nil)
