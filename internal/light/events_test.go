package light

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
)

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func eventLight(space *occlusion.Space, reg *Registry, source EventSource) *Light {
	p := DefaultParameters()
	p.Radius = 5
	p.Detail = 8
	p.Events = true
	p.EventSource = source
	return New(WithParameters(p), WithOccluders(space), WithEvents(reg))
}

func TestEnterStayExit(t *testing.T) {
	space := occlusion.NewSpace(0)
	box := space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.BoxShape(0.5, 0.5)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)
	l := eventLight(space, reg, EventsFromRays)

	l.Update(nil)
	l.Update(nil)
	l.Update(nil)
	space.SetPose(box.ID, geom.At(30, 0))
	l.Update(nil)

	assert.Equal(t, []EventType{EventEnter, EventStay, EventStay, EventExit}, rec.types())
	for _, e := range rec.events {
		assert.Equal(t, box.ID, e.Object)
		assert.Equal(t, l.ID(), e.Light)
		assert.Equal(t, occlusion.KindSolid, e.Kind)
	}
	assert.Zero(t, l.Inside())
}

func TestEventsCoverBothKinds(t *testing.T) {
	space := occlusion.NewSpace(0)
	near := space.Add(occlusion.Obstacle{Kind: occlusion.KindFlat, Pose: geom.At(2, 0), Shape: occlusion.BoxShape(0.2, 0.2)})
	far := space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(4, 0), Shape: occlusion.BoxShape(0.2, 0.2)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle, EventEnter)
	l := eventLight(space, reg, EventsFromRays)
	l.Update(nil)

	// The solid box is hidden behind the flat one but its ray still struck it.
	require.Len(t, rec.events, 2)
	ids := []uuid.UUID{rec.events[0].Object, rec.events[1].Object}
	assert.ElementsMatch(t, []uuid.UUID{near.ID, far.ID}, ids)
	assert.Equal(t, 2, l.Inside())
}

func TestDestroyEmitsExit(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.CircleShape(0.5)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)
	l := eventLight(space, reg, EventsFromRays)
	l.Update(nil)
	l.Destroy()
	l.Destroy()

	assert.Equal(t, []EventType{EventEnter, EventExit}, rec.types())
}

func TestDisableEmitsExit(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.CircleShape(0.5)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)
	l := eventLight(space, reg, EventsFromRays)
	l.Update(nil)
	l.SetEnabled(false)
	l.Update(nil)
	l.SetEnabled(true)
	l.Update(nil)

	assert.Equal(t, []EventType{EventEnter, EventExit, EventEnter}, rec.types())
}

func TestEventsOffEmitsExit(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.CircleShape(0.5)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)
	l := eventLight(space, reg, EventsFromRays)
	l.Update(nil)
	l.SetEvents(false)
	l.Update(nil)

	assert.Equal(t, []EventType{EventEnter, EventExit}, rec.types())
}

func TestRegionEventSource(t *testing.T) {
	space := occlusion.NewSpace(0)
	// Overlaps the light's reach but no sampled ray strikes it.
	obs := space.Add(occlusion.Obstacle{Kind: occlusion.KindFlat, Pose: geom.At(4, 1.8), Shape: occlusion.CircleShape(0.3)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)

	rays := eventLight(space, reg, EventsFromRays)
	rays.Update(nil)
	assert.Empty(t, rec.events)
	rays.Destroy()

	l := eventLight(space, reg, EventsFromRegion)
	l.Update(nil)
	l.Update(nil)
	space.Remove(obs.ID)
	l.Update(nil)

	assert.Equal(t, []EventType{EventEnter, EventStay, EventExit}, rec.types())
}

func TestEventMaskFiltersObjects(t *testing.T) {
	space := occlusion.NewSpace(0)
	wall := space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.BoxShape(0.5, 0.5)})
	sensor := space.Add(occlusion.Obstacle{Kind: occlusion.KindFlat, Layer: 2, Pose: geom.At(0, 3), Shape: occlusion.CircleShape(0.3)})

	reg := NewRegistry()
	rec := &recorder{}
	reg.Subscribe(rec.handle)

	rays := eventLight(space, reg, EventsFromRays)
	rays.SetEventMask(occlusion.LayerMask(1 << 2))
	rays.Update(nil)
	assert.Empty(t, rec.events, "the wall still blocks but is not reported")
	assert.Less(t, rays.Mesh().Bounds.Max.X(), 5.0)
	rays.Destroy()

	region := eventLight(space, reg, EventsFromRegion)
	region.SetMask(occlusion.LayerMask(1 << 0))
	region.SetEventMask(occlusion.LayerMask(1 << 2))
	region.Update(nil)
	require.Len(t, rec.events, 1)
	assert.Equal(t, EventEnter, rec.events[0].Type)
	assert.Equal(t, sensor.ID, rec.events[0].Object)
	assert.NotEqual(t, wall.ID, rec.events[0].Object)
}

func TestRegistryFilterAndUnsubscribe(t *testing.T) {
	reg := NewRegistry()
	all, exits := &recorder{}, &recorder{}
	subAll := reg.Subscribe(all.handle)
	reg.Subscribe(exits.handle, EventExit)
	assert.Equal(t, 2, reg.Len())

	reg.Publish(Event{Type: EventEnter})
	reg.Publish(Event{Type: EventExit})
	assert.Len(t, all.events, 2)
	assert.Equal(t, []EventType{EventExit}, exits.types())

	subAll.Unsubscribe()
	subAll.Unsubscribe()
	reg.Publish(Event{Type: EventStay})
	assert.Len(t, all.events, 2)
	assert.Equal(t, 1, reg.Len())
}

func TestUnsubscribeInsideHandler(t *testing.T) {
	reg := NewRegistry()
	var calls, other int
	var sub *Subscription
	sub = reg.Subscribe(func(Event) {
		calls++
		sub.Unsubscribe()
	})
	reg.Subscribe(func(Event) { other++ })

	reg.Publish(Event{Type: EventEnter})
	reg.Publish(Event{Type: EventEnter})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestRegistryClose(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}
	sub := reg.Subscribe(rec.handle)
	reg.Close()

	reg.Publish(Event{Type: EventEnter})
	assert.Empty(t, rec.events)
	assert.Zero(t, reg.Len())
	sub.Unsubscribe()

	late := reg.Subscribe(rec.handle)
	late.Unsubscribe()
	reg.Publish(Event{Type: EventEnter})
	assert.Empty(t, rec.events)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "enter", EventEnter.String())
	assert.Equal(t, "stay", EventStay.String())
	assert.Equal(t, "exit", EventExit.String())
	assert.Equal(t, "EventType(9)", EventType(9).String())
}
