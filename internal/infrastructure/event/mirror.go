package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchFunc loads the full current row set for a mirrored table.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// KeyFunc extracts a row's identifier.
type KeyFunc[T any] func(T) uuid.UUID

// Mirror maintains a local copy of a table's rows, kept current by applying
// minimal patches from the change feed: prepend on insert, replace-by-id on
// update, remove-by-id on delete. Removing an id that is not present is a
// no-op. Any failure to apply a patch is swallowed and answered with exactly
// one corrective full re-fetch, trading precision for eventual consistency.
type Mirror[T any] struct {
	feed   ChangeFeed
	table  string
	keyOf  KeyFunc[T]
	fetch  FetchFunc[T]
	logger *zap.Logger

	mu   sync.RWMutex
	rows []T

	startMu sync.Mutex
	sub     *Subscription
	done    chan struct{}
}

// NewMirror creates a mirror for one table. Start must be called before the
// mirror tracks changes.
func NewMirror[T any](feed ChangeFeed, table string, keyOf KeyFunc[T], fetch FetchFunc[T], logger *zap.Logger) *Mirror[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror[T]{
		feed:   feed,
		table:  table,
		keyOf:  keyOf,
		fetch:  fetch,
		logger: logger,
	}
}

// Start performs the initial fetch, opens the table subscription, and begins
// applying patches. At most one subscription is active per mirror; calling
// Start on a started mirror is an error.
func (m *Mirror[T]) Start(ctx context.Context) error {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	if m.sub != nil {
		return fmt.Errorf("mirror for table %q already started", m.table)
	}

	rows, err := m.fetch(ctx)
	if err != nil {
		return fmt.Errorf("initial fetch for table %q: %w", m.table, err)
	}
	m.mu.Lock()
	m.rows = rows
	m.mu.Unlock()

	sub, err := m.feed.Subscribe(m.table)
	if err != nil {
		return fmt.Errorf("subscribe to table %q: %w", m.table, err)
	}
	m.sub = sub
	m.done = make(chan struct{})

	go m.run(ctx, sub)
	return nil
}

// Stop releases the captured subscription handle and waits for the apply
// loop to drain. Safe to call on a stopped mirror.
func (m *Mirror[T]) Stop() {
	m.startMu.Lock()
	sub, done := m.sub, m.done
	m.sub = nil
	m.startMu.Unlock()

	if sub == nil {
		return
	}
	sub.Close()
	<-done
}

// Rows returns a copy of the mirrored row set.
func (m *Mirror[T]) Rows() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *Mirror[T]) run(ctx context.Context, sub *Subscription) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := m.apply(ev); err != nil {
				m.logger.Warn("realtime patch failed, refetching table",
					zap.String("table", m.table),
					zap.Error(err),
				)
				m.refetch(ctx)
			}
		}
	}
}

// apply performs the minimal local patch for one change event.
func (m *Mirror[T]) apply(ev ChangeEvent) error {
	switch ev.Type {
	case ChangeInsert:
		row, err := m.decode(ev.New)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.rows = append([]T{row}, m.rows...)
		m.mu.Unlock()
		return nil

	case ChangeUpdate:
		row, err := m.decode(ev.New)
		if err != nil {
			return err
		}
		id := m.keyOf(row)
		m.mu.Lock()
		for i := range m.rows {
			if m.keyOf(m.rows[i]) == id {
				m.rows[i] = row
				break
			}
		}
		m.mu.Unlock()
		return nil

	case ChangeDelete:
		row, err := m.decode(ev.Old)
		if err != nil {
			return err
		}
		id := m.keyOf(row)
		m.mu.Lock()
		for i := range m.rows {
			if m.keyOf(m.rows[i]) == id {
				m.rows = append(m.rows[:i], m.rows[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		return nil

	default:
		return fmt.Errorf("unknown change type %q", ev.Type)
	}
}

// decode extracts a typed row from an event image: typed values pass
// through, raw JSON (the Redis leg) is unmarshaled.
func (m *Mirror[T]) decode(image any) (T, error) {
	var zero T
	switch v := image.(type) {
	case nil:
		return zero, fmt.Errorf("change event carries no row image")
	case T:
		return v, nil
	case json.RawMessage:
		var row T
		if err := json.Unmarshal(v, &row); err != nil {
			return zero, fmt.Errorf("decode row image: %w", err)
		}
		return row, nil
	default:
		return zero, fmt.Errorf("unexpected row image type %T", image)
	}
}

// refetch replaces the mirrored rows with a fresh full fetch. Fetch failures
// are logged and leave the previous rows in place; the next event or caller
// retry reconciles.
func (m *Mirror[T]) refetch(ctx context.Context) {
	rows, err := m.fetch(ctx)
	if err != nil {
		m.logger.Error("corrective refetch failed",
			zap.String("table", m.table),
			zap.Error(err),
		)
		return
	}
	m.mu.Lock()
	m.rows = rows
	m.mu.Unlock()
}
