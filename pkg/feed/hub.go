package feed

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hackos/hackd/pkg/clog"
	"github.com/hashicorp/go-uuid"
)

// Watch selects one record set, optionally narrowed to a single team's rows.
type Watch struct {
	Set    string
	TeamID string
}

func (w Watch) matches(ev Event) bool {
	if w.Set != ev.Set {
		return false
	}
	return w.TeamID == "" || w.TeamID == ev.TeamID
}

// Subscriber owns a single inbound channel of events for one session. All
// watched sets deliver into the same channel, in hub publish order.
type Subscriber struct {
	ID      string
	watches []Watch
	C       chan Event

	closeOnce sync.Once
	closed    chan struct{}
}

// Closed is signalled when the hub drops this subscriber, either because it
// fell too far behind or because the hub shut down. The session must then
// re-fetch full state before resubscribing; missed events are not replayed.
func (s *Subscriber) Closed() <-chan struct{} {
	return s.closed
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

const subscriberBuffer = 256

// Hub fans store mutations out to subscribed sessions. Delivery order matches
// publish order per hub; a subscriber whose channel stays full is dropped
// rather than blocking the rest.
type Hub struct {
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan Event
	done        chan struct{}
	stopOnce    sync.Once
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan Event, 512),
		done:        make(chan struct{}),
		subscribers: make(map[string]*Subscriber),
	}
}

// Run owns the subscriber map. It must be running before Subscribe or
// Publish are called.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub.ID] = sub
			clog.UsingCtx("feed").Debugf("subscriber registered: %s", sub.ID)

		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub.ID]; ok {
				delete(h.subscribers, sub.ID)
				sub.close()
			}

		case ev := <-h.broadcast:
			for id, sub := range h.subscribers {
				if !wantsEvent(sub, ev) {
					continue
				}
				select {
				case sub.C <- ev:
				default:
					// Subscriber lagged past its buffer. Drop it so the
					// session reconnects and resyncs instead of silently
					// missing events.
					clog.UsingCtx("feed").Warnf("dropping lagged subscriber %s", id)
					delete(h.subscribers, id)
					sub.close()
				}
			}

		case <-h.done:
			for id, sub := range h.subscribers {
				delete(h.subscribers, id)
				sub.close()
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

var subscriberSeq atomic.Uint64

// subscriberID prefers a uuid; when the system entropy source fails it falls
// back to a process-unique counter, never an empty (collidable) id.
func subscriberID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		clog.UsingCtx("feed").Errorf("generating subscriber id: %s", err)
		return fmt.Sprintf("sub-%d", subscriberSeq.Add(1))
	}
	return id
}

// Subscribe registers a session watching the given record sets.
func (h *Hub) Subscribe(watches ...Watch) *Subscriber {
	sub := &Subscriber{
		ID:      subscriberID(),
		watches: watches,
		C:       make(chan Event, subscriberBuffer),
		closed:  make(chan struct{}),
	}

	select {
	case h.register <- sub:
	case <-h.done:
		sub.close()
	}

	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish enqueues ev for delivery to all matching subscribers. The store
// layer calls this before acknowledging the write to the caller.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

func wantsEvent(sub *Subscriber, ev Event) bool {
	for _, w := range sub.watches {
		if w.matches(ev) {
			return true
		}
	}
	return false
}
