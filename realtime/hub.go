package realtime

import (
	"context"
	"log"
	"sync"
)

const defaultBuffer = 32

// Channel delivers the events of one subscription until closed.
type Channel interface {
	Events() <-chan Event
	Close()
}

// Source opens change channels for a table.
type Source interface {
	Open(ctx context.Context, table string) (Channel, error)
}

// Hub fans events out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{}), buffer: defaultBuffer}
}

// Subscription receives the events of the tables it was opened for.
type Subscription struct {
	hub    *Hub
	tables map[string]bool
	ch     chan Event
	once   sync.Once
}

// Subscribe registers a subscription for tables; no tables means all tables.
func (h *Hub) Subscribe(tables ...string) *Subscription {
	sub := &Subscription{hub: h, ch: make(chan Event, h.buffer)}
	if len(tables) > 0 {
		sub.tables = make(map[string]bool, len(tables))
		for _, table := range tables {
			sub.tables[table] = true
		}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Open implements Source. The subscription closes when ctx is done.
func (h *Hub) Open(ctx context.Context, table string) (Channel, error) {
	sub := h.Subscribe(table)
	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// Publish delivers ev to every matching subscriber without blocking. A
// subscriber whose buffer is full misses the event; it still has unread
// events queued, and each of them triggers a full refetch anyway.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.tables != nil && !sub.tables[ev.Table] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			log.Printf("realtime: subscriber buffer full, dropping %s event on %s", ev.Kind, ev.Table)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}
