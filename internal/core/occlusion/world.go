package occlusion

import (
	"math"

	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
)

// DefaultCellSize is the broadphase cell size used when none is given.
const DefaultCellSize = 4.0

// World is one obstacle subsystem. It keeps obstacles in insertion order and
// rebuilds its broadphase grid lazily after any change.
type World struct {
	kind      Kind
	obstacles []*Obstacle
	index     map[uuid.UUID]int
	grid      *spatialGrid
	dirty     bool
}

// NewWorld creates an empty subsystem for obstacles of the given kind.
func NewWorld(kind Kind, cellSize float64) *World {
	return &World{
		kind:  kind,
		index: make(map[uuid.UUID]int),
		grid:  newSpatialGrid(cellSize),
	}
}

// Kind returns the kind of obstacle stored in this world.
func (w *World) Kind() Kind {
	return w.kind
}

// Add stores a copy of o and returns it. A nil ID is replaced with a fresh
// one; a zero scale becomes unit scale.
func (w *World) Add(o Obstacle) *Obstacle {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Pose.Scale[0] == 0 && o.Pose.Scale[1] == 0 {
		o.Pose.Scale = geom.Identity().Scale
	}
	o.Kind = w.kind

	stored := &o
	if i, ok := w.index[o.ID]; ok {
		w.obstacles[i] = stored
	} else {
		w.index[o.ID] = len(w.obstacles)
		w.obstacles = append(w.obstacles, stored)
	}
	w.dirty = true
	return stored
}

// Remove deletes the obstacle with the given ID.
func (w *World) Remove(id uuid.UUID) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	w.obstacles = append(w.obstacles[:i], w.obstacles[i+1:]...)
	delete(w.index, id)
	for j := i; j < len(w.obstacles); j++ {
		w.index[w.obstacles[j].ID] = j
	}
	w.dirty = true
	return true
}

// SetPose moves an obstacle.
func (w *World) SetPose(id uuid.UUID, pose geom.Pose) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	w.obstacles[i].Pose = pose
	w.dirty = true
	return true
}

// Get returns the obstacle with the given ID.
func (w *World) Get(id uuid.UUID) (*Obstacle, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.obstacles[i], true
}

// Len returns the number of stored obstacles.
func (w *World) Len() int {
	return len(w.obstacles)
}

// Obstacles returns the stored obstacles in insertion order.
func (w *World) Obstacles() []*Obstacle {
	return w.obstacles
}

// Query returns every obstacle on a masked layer whose bounds overlap region.
func (w *World) Query(region Region, mask LayerMask) []*Obstacle {
	w.rebuild()

	var out []*Obstacle
	for _, i := range w.grid.query(region.Bounds()) {
		o := w.obstacles[i]
		if mask.Includes(o.Layer) && region.Overlaps(o.Bounds()) {
			out = append(out, o)
		}
	}
	return out
}

// Raycast returns the nearest obstacle hit along ray. Among obstacles at the
// same distance the earliest inserted wins.
func (w *World) Raycast(ray Ray, mask LayerMask) (Hit, bool) {
	w.rebuild()

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, i := range w.grid.query(ray.Bounds()) {
		o := w.obstacles[i]
		if !mask.Includes(o.Layer) {
			continue
		}
		t, ok := o.intersect(ray)
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    ray.Origin.Add(ray.Dir.Mul(t)),
			Distance: t,
			ID:       o.ID,
			Kind:     w.kind,
			Layer:    o.Layer,
		}
		found = true
	}
	return best, found
}

func (w *World) rebuild() {
	if !w.dirty {
		return
	}
	w.grid.clear()
	for i, o := range w.obstacles {
		w.grid.insert(i, o.Bounds())
	}
	w.dirty = false
}
