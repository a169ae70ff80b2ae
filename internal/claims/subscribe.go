package claims

import "sync"

// EventKind names a store change
type EventKind string

const (
	EventRegistered EventKind = "registered"
	EventCleared    EventKind = "cleared"
)

// Event describes one store change
type Event struct {
	Kind     EventKind
	IDs      []string // Registered ids; empty for cleared
	Revision uint64   // Store revision after the change
}

// Subscription receives store events on C until Close is called.
// Delivery never blocks the store: when the buffer is full the event is
// dropped, and the subscriber can resync by comparing Store.Revision.
type Subscription struct {
	C <-chan Event

	ch    chan Event
	store *Store
	once  sync.Once
}

// Subscribe registers a new observer with the given channel buffer (minimum 1)
func (s *Store) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	sub := &Subscription{C: ch, ch: ch, store: s}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

// Close detaches the subscription and closes C. It is safe to call twice.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub)
		close(sub.ch)
		sub.store.mu.Unlock()
	})
}

// notify fans ev out to subscribers. Caller holds s.mu for writing.
func (s *Store) notify(ev Event) {
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
			s.log.WithField("revision", ev.Revision).Warn("subscriber buffer full, event dropped")
		}
	}
}
