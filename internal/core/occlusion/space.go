package occlusion

import (
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Space holds both obstacle subsystems and answers queries against either.
type Space struct {
	worlds [len(Kinds)]*World
}

// NewSpace creates an empty space. cellSize tunes the broadphase grid.
func NewSpace(cellSize float64) *Space {
	s := &Space{}
	for _, k := range Kinds {
		s.worlds[k] = NewWorld(k, cellSize)
	}
	return s
}

// World returns the subsystem for kind.
func (s *Space) World(kind Kind) *World {
	return s.worlds[kind]
}

// Add stores an obstacle in the subsystem matching its Kind.
func (s *Space) Add(o Obstacle) *Obstacle {
	return s.worlds[o.Kind].Add(o)
}

// Remove deletes an obstacle from whichever subsystem holds it.
func (s *Space) Remove(id uuid.UUID) bool {
	for _, w := range s.worlds {
		if w.Remove(id) {
			return true
		}
	}
	return false
}

// SetPose moves an obstacle in whichever subsystem holds it.
func (s *Space) SetPose(id uuid.UUID, pose geom.Pose) bool {
	for _, w := range s.worlds {
		if w.SetPose(id, pose) {
			return true
		}
	}
	return false
}

// Get finds an obstacle by ID in either subsystem.
func (s *Space) Get(id uuid.UUID) (*Obstacle, bool) {
	for _, w := range s.worlds {
		if o, ok := w.Get(id); ok {
			return o, true
		}
	}
	return nil, false
}

// Len returns the total number of obstacles.
func (s *Space) Len() int {
	n := 0
	for _, w := range s.worlds {
		n += w.Len()
	}
	return n
}

// Query returns candidates of one kind overlapping region.
func (s *Space) Query(kind Kind, region Region, mask LayerMask) []Candidate {
	found := s.worlds[kind].Query(region, mask)
	if len(found) == 0 {
		return nil
	}
	out := make([]Candidate, len(found))
	for i, o := range found {
		out[i] = Candidate{ID: o.ID, Kind: o.Kind, Layer: o.Layer, Pose: o.Pose}
	}
	return out
}

// Raycast casts a ray against the subsystem of one kind.
func (s *Space) Raycast(kind Kind, ray Ray, mask LayerMask) (Hit, bool) {
	return s.worlds[kind].Raycast(ray, mask)
}
