package light

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/occlusion"
)

// EventType is the kind of presence transition.
type EventType uint8

const (
	EventEnter EventType = iota
	EventStay
	EventExit
)

func (t EventType) String() string {
	switch t {
	case EventEnter:
		return "enter"
	case EventStay:
		return "stay"
	case EventExit:
		return "exit"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Event reports an obstacle entering, staying in or leaving a light.
type Event struct {
	Type   EventType
	Light  uuid.UUID
	Object uuid.UUID
	Kind   occlusion.Kind
}

// Handler receives published events.
type Handler func(Event)

// Subscription is one registered handler.
type Subscription struct {
	r       *Registry
	id      uint64
	handler Handler
	types   uint8 // bit per EventType
}

// Unsubscribe removes the handler. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.r == nil {
		return
	}
	s.r.remove(s.id)
}

// Registry fans events out to subscribers. It is owned by the lighting
// system and closed with it.
type Registry struct {
	mu     sync.Mutex
	subs   []*Subscription
	nextID uint64
	closed bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe registers handler for the given event types, or for every type
// when none are listed. Subscribing to a closed registry returns an inert
// subscription.
func (r *Registry) Subscribe(handler Handler, types ...EventType) *Subscription {
	var mask uint8
	for _, t := range types {
		mask |= 1 << t
	}
	if mask == 0 {
		mask = 1<<EventEnter | 1<<EventStay | 1<<EventExit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || handler == nil {
		return &Subscription{}
	}
	r.nextID++
	s := &Subscription{r: r, id: r.nextID, handler: handler, types: mask}
	r.subs = append(r.subs, s)
	return s
}

// Publish delivers e to every matching subscriber in subscription order.
// Handlers may subscribe or unsubscribe while being called.
func (r *Registry) Publish(e Event) {
	r.mu.Lock()
	if r.closed || len(r.subs) == 0 {
		r.mu.Unlock()
		return
	}
	snapshot := make([]*Subscription, len(r.subs))
	copy(snapshot, r.subs)
	r.mu.Unlock()

	for _, s := range snapshot {
		if s.types&(1<<e.Type) != 0 {
			s.handler(e)
		}
	}
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close drops every subscriber. Later publishes do nothing.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		s.r = nil
	}
	r.subs = nil
	r.closed = true
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			s.r = nil
			return
		}
	}
}
