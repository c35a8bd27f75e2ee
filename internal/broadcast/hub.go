// Package broadcast carries change notifications between open documents and
// the sync engine.
//
// Two kinds of message exist. [KindFlush] asks every open document to persist
// its unsaved fragments now. [KindUpdate] tells open instances of DocID that
// the document changed elsewhere and must be reloaded. Messages are never
// delivered back to the subscriber whose id equals the message origin.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/notesync/internal/logger"
)

// Kind is the type of a [Message].
type Kind string

const (
	KindFlush  Kind = "flush"
	KindUpdate Kind = "update"
)

// Message is one notification.
type Message struct {
	Kind Kind

	// DocID is set for [KindUpdate].
	DocID string

	// Origin is the id of the publishing context.
	Origin string
}

// Handler consumes messages of one subscriber. Handlers of different
// subscribers run concurrently; a single subscriber sees its messages in
// publish order.
type Handler func(msg Message)

// Hub fans messages out to subscribers. Delivery is asynchronous and never
// blocks the publisher.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*subscriber
	closed bool

	pendingFlushes atomic.Int64

	logger *logger.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{subs: make(map[string]*subscriber), logger: logger}
}

// Subscribe registers handler under id and returns a function removing it.
// Subscribing twice with the same id replaces the earlier subscriber.
func (h *Hub) Subscribe(id string, handler Handler) (unsubscribe func()) {
	s := newSubscriber(id, handler, h)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return func() {}
	}
	old := h.subs[id]
	h.subs[id] = s
	h.mu.Unlock()

	if old != nil {
		old.stop()
	}
	go s.run()

	return func() {
		h.mu.Lock()
		if h.subs[id] == s {
			delete(h.subs, id)
		}
		h.mu.Unlock()
		s.stop()
	}
}

// Publish delivers msg to every subscriber except the one named by
// msg.Origin.
func (h *Hub) Publish(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, s := range h.subs {
		if id == msg.Origin {
			continue
		}
		if msg.Kind == KindFlush {
			h.pendingFlushes.Add(1)
		}
		s.push(msg)
		delivered++
	}

	h.logger.Debug().
		Str("func", "Hub.Publish").
		Str("kind", string(msg.Kind)).
		Str("doc_id", msg.DocID).
		Str("origin", msg.Origin).
		Int("subscribers", delivered).
		Msg("message published")
}

// PendingFlushes returns how many delivered flush messages have not been
// handled yet.
func (h *Hub) PendingFlushes() int64 {
	return h.pendingFlushes.Load()
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close stops every subscriber. Publish after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*subscriber)
	h.closed = true
	h.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

type subscriber struct {
	id      string
	handler Handler
	hub     *Hub

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Message
	stopped bool

	// handlingFlush is set while the handler runs a flush message that has
	// not been counted as done yet.
	handlingFlush bool
}

func newSubscriber(id string, handler Handler, hub *Hub) *subscriber {
	s := &subscriber{id: id, handler: handler, hub: hub}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) push(msg Message) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.done(msg)
		return
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *subscriber) stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	dropped := s.queue
	s.queue = nil
	release := s.handlingFlush
	s.handlingFlush = false
	s.mu.Unlock()
	s.cond.Broadcast()

	// a handler stuck in a flush no longer holds up waiters
	if release {
		s.hub.pendingFlushes.Add(-1)
	}
	for _, msg := range dropped {
		s.done(msg)
	}
}

func (s *subscriber) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped {
			s.mu.Unlock()
			return
		}
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.handlingFlush = msg.Kind == KindFlush
		s.mu.Unlock()

		s.handle(msg)
	}
}

func (s *subscriber) handle(msg Message) {
	defer s.finish()
	defer func() {
		if r := recover(); r != nil {
			s.hub.logger.Error().
				Str("func", "subscriber.handle").
				Str("subscriber", s.id).
				Interface("panic", r).
				Msg("handler panicked")
		}
	}()
	s.handler(msg)
}

func (s *subscriber) finish() {
	s.mu.Lock()
	release := s.handlingFlush
	s.handlingFlush = false
	s.mu.Unlock()

	if release {
		s.hub.pendingFlushes.Add(-1)
	}
}

func (s *subscriber) done(msg Message) {
	if msg.Kind == KindFlush {
		s.hub.pendingFlushes.Add(-1)
	}
}
