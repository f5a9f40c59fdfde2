package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableWildcard subscribes to change events for every table.
const TableWildcard = "*"

// subscriptionBuffer is the per-subscription channel depth. A subscriber that
// falls this far behind starts dropping events; consumers that need guaranteed
// consistency recover via re-fetch, not replay.
const subscriptionBuffer = 64

// SubscriptionState tracks a subscription through its lifecycle.
type SubscriptionState int32

const (
	StateUnsubscribed SubscriptionState = iota
	StateSubscribing
	StateActive
)

// ChangeFeed is the notification hub contract: mutation paths publish one
// event per committed change, views subscribe per table.
type ChangeFeed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(table string) (*Subscription, error)
}

// Subscription is a live handle onto a table's change stream. Callers must
// retain the handle returned by Subscribe and release exactly that handle via
// Close when the owning view goes away.
type Subscription struct {
	id        uuid.UUID
	table     string
	ch        chan ChangeEvent
	state     atomic.Int32
	closeOnce sync.Once
	feed      *InMemoryChangeFeed
}

// Events returns the channel change notifications arrive on. The channel is
// closed when the subscription is closed.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.ch
}

// Table returns the table this subscription watches.
func (s *Subscription) Table() string {
	return s.table
}

// State returns the subscription's lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Close tears the subscription down. Safe to call multiple times; after the
// first call no further events are delivered and the events channel closes.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.feed.unsubscribe(s)
		s.state.Store(int32(StateUnsubscribed))
		close(s.ch)
	})
}

// InMemoryChangeFeed implements ChangeFeed with in-process fan-out. It is the
// default feed for a single-instance deployment and the local delivery leg of
// the Redis-backed feed.
type InMemoryChangeFeed struct {
	mu     sync.RWMutex
	subs   map[string]map[uuid.UUID]*Subscription // table -> id -> sub
	logger *zap.Logger
}

// NewInMemoryChangeFeed creates an empty feed hub.
func NewInMemoryChangeFeed(logger *zap.Logger) *InMemoryChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryChangeFeed{
		subs:   make(map[string]map[uuid.UUID]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a new subscription for the given table (or
// TableWildcard for all tables).
func (f *InMemoryChangeFeed) Subscribe(table string) (*Subscription, error) {
	sub := &Subscription{
		id:    uuid.New(),
		table: table,
		ch:    make(chan ChangeEvent, subscriptionBuffer),
		feed:  f,
	}
	sub.state.Store(int32(StateSubscribing))

	f.mu.Lock()
	if f.subs[table] == nil {
		f.subs[table] = make(map[uuid.UUID]*Subscription)
	}
	f.subs[table][sub.id] = sub
	f.mu.Unlock()

	sub.state.Store(int32(StateActive))
	f.logger.Debug("change feed subscription opened",
		zap.String("table", table),
		zap.String("subscription_id", sub.id.String()),
	)
	return sub, nil
}

// Publish delivers an event to every subscription watching its table, plus
// wildcard subscribers. Slow subscribers drop events rather than block the
// publisher.
func (f *InMemoryChangeFeed) Publish(_ context.Context, event ChangeEvent) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, table := range []string{event.Table, TableWildcard} {
		for _, sub := range f.subs[table] {
			select {
			case sub.ch <- event:
			default:
				f.logger.Warn("subscriber channel full, dropping change event",
					zap.String("table", event.Table),
					zap.String("subscription_id", sub.id.String()),
				)
			}
		}
	}
	return nil
}

// SubscriberCount returns the number of active subscriptions for a table.
func (f *InMemoryChangeFeed) SubscriberCount(table string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[table])
}

func (f *InMemoryChangeFeed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if table, ok := f.subs[sub.table]; ok {
		delete(table, sub.id)
		if len(table) == 0 {
			delete(f.subs, sub.table)
		}
	}
}

// Ensure InMemoryChangeFeed implements ChangeFeed
var _ ChangeFeed = (*InMemoryChangeFeed)(nil)
