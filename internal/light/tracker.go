package light

import (
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/occlusion"
)

// presence remembers which obstacles are inside a light so that every enter
// is eventually matched by exactly one exit.
type presence struct {
	inside map[uuid.UUID]occlusion.Kind
	order  []uuid.UUID

	seen      map[uuid.UUID]occlusion.Kind
	seenOrder []uuid.UUID
}

func newPresence() *presence {
	return &presence{
		inside: make(map[uuid.UUID]occlusion.Kind),
		seen:   make(map[uuid.UUID]occlusion.Kind),
	}
}

// reset forgets the obstacles seen so far this pass.
func (p *presence) reset() {
	clear(p.seen)
	p.seenOrder = p.seenOrder[:0]
}

func (p *presence) see(id uuid.UUID, kind occlusion.Kind) {
	if _, ok := p.seen[id]; ok {
		return
	}
	p.seen[id] = kind
	p.seenOrder = append(p.seenOrder, id)
}

// diff compares the seen set with the inside set, emitting stay or enter for
// each seen obstacle and exit for each one no longer seen.
func (p *presence) diff(emit func(EventType, uuid.UUID, occlusion.Kind)) {
	for _, id := range p.seenOrder {
		kind := p.seen[id]
		if _, ok := p.inside[id]; ok {
			emit(EventStay, id, kind)
			continue
		}
		p.inside[id] = kind
		p.order = append(p.order, id)
		emit(EventEnter, id, kind)
	}

	kept := p.order[:0]
	for _, id := range p.order {
		if _, ok := p.seen[id]; ok {
			kept = append(kept, id)
			continue
		}
		emit(EventExit, id, p.inside[id])
		delete(p.inside, id)
	}
	p.order = kept
}

// flush emits exit for everything inside and clears all state.
func (p *presence) flush(emit func(EventType, uuid.UUID, occlusion.Kind)) {
	for _, id := range p.order {
		emit(EventExit, id, p.inside[id])
	}
	clear(p.inside)
	p.order = p.order[:0]
	p.reset()
}

func (p *presence) len() int {
	return len(p.order)
}
