// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// DefaultBufferSize is the per-subscriber queue length.
const DefaultBufferSize = 8

// Hub fans out tally-changed notifications to subscribers, one topic per
// poll. A topic exists only while it has subscribers.
type Hub struct {
	mu         sync.Mutex
	topics     map[string]*topic
	closed     bool
	bufferSize int
	coalesced  atomic.Uint64
	now        func() time.Time
}

type topic struct {
	seq  uint64
	subs map[*Subscription]struct{}
}

// Subscription receives notifications for one poll until closed.
type Subscription struct {
	hub    *Hub
	pollID string
	ch     chan models.TallyChanged
	// Guarded by hub.mu.
	closed bool
}

func New(bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		topics:     make(map[string]*topic),
		bufferSize: bufferSize,
		now:        time.Now,
	}
}

// Subscribe registers interest in a poll. After Close on the hub the
// returned subscription is already closed.
func (h *Hub) Subscribe(pollID string) *Subscription {
	sub := &Subscription{
		hub:    h,
		pollID: pollID,
		ch:     make(chan models.TallyChanged, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.closed = true
		close(sub.ch)
		return sub
	}

	t, ok := h.topics[pollID]
	if !ok {
		t = &topic{subs: make(map[*Subscription]struct{})}
		h.topics[pollID] = t
	}
	t.subs[sub] = struct{}{}

	slog.Debug("subscriber added", "poll_id", pollID, "subscribers", len(t.subs))
	return sub
}

// Publish notifies every subscriber of a poll and returns how many were
// reached. It never blocks: a subscriber whose queue is full already has
// a pending notification, so the new one is coalesced into it.
func (h *Hub) Publish(pollID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[pollID]
	if !ok || h.closed {
		return 0
	}

	t.seq++
	ev := models.TallyChanged{
		Type:   models.EventTallyChanged,
		PollID: pollID,
		Seq:    t.seq,
		At:     h.now().UTC(),
	}

	delivered := 0
	for sub := range t.subs {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			h.coalesced.Add(1)
			slog.Debug("notification coalesced", "poll_id", pollID, "seq", ev.Seq)
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(pollID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.topics[pollID]; ok {
		return len(t.subs)
	}
	return 0
}

// TopicCount reports how many polls currently have subscribers.
func (h *Hub) TopicCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics)
}

// Coalesced reports how many notifications were folded into a pending one.
func (h *Hub) Coalesced() uint64 {
	return h.coalesced.Load()
}

// Close ends every subscription. Further Publish calls reach no one.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for pollID, t := range h.topics {
		for sub := range t.subs {
			sub.closed = true
			close(sub.ch)
		}
		delete(h.topics, pollID)
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)

	t, ok := h.topics[sub.pollID]
	if !ok {
		return
	}
	delete(t.subs, sub)
	if len(t.subs) == 0 {
		delete(h.topics, sub.pollID)
	}

	slog.Debug("subscriber removed", "poll_id", sub.pollID, "subscribers", len(t.subs))
}

func (s *Subscription) PollID() string {
	return s.pollID
}

// C is closed when the subscription ends.
func (s *Subscription) C() <-chan models.TallyChanged {
	return s.ch
}

// Events yields notifications until the subscription or ctx ends.
func (s *Subscription) Events(ctx context.Context) iter.Seq[models.TallyChanged] {
	return func(yield func(models.TallyChanged) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.ch:
				if !ok || !yield(ev) {
					return
				}
			}
		}
	}
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}
