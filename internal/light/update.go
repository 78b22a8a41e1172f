package light

import (
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
)

// Update runs the per-frame pipeline:
//
//  1. query occluders and compare their pose signatures
//  2. compare the light's own pose with the previous frame
//  3. skip the rest when the light is outside frame.View
//  4. rebuild the circle reference, the shape, then UVs, normals and colors,
//     each only when its flag is set
//  5. hand a changed material and mesh to the sink
//  6. emit enter/stay/exit events
//
// Static lights stop steps 1 and 2 after StaticUpdates calls. frame may be nil.
func (l *Light) Update(frame *Frame) {
	if l.destroyed || !l.params.Enabled {
		return
	}

	if !l.params.Static || l.updates < StaticUpdates {
		l.queryOccluders()
		l.detectMotion()
	}
	l.updates++

	if !frame.visible(l.Bounds()) {
		return
	}
	if frame != nil {
		frame.rendered++
	}

	changed := false
	if l.flags.Has(FlagCircle) || len(l.circleRef) == 0 {
		l.circleRef = geom.BuildCircleReference(l.params.Detail)
		l.flags &^= FlagCircle
	}

	if l.flags.Has(FlagShape) {
		if l.trackingRays() {
			l.presence.reset()
		}
		l.regenerateShape()
		l.flags &^= FlagShape | FlagUV
		changed = true
		if frame != nil {
			frame.updated++
		}
		Logger().Debug("light mesh regenerated",
			"id", l.id, "shape", l.params.Shape,
			"vertices", len(l.mesh.Vertices), "triangles", l.mesh.TriangleCount())
	}
	if l.flags.Has(FlagUV) {
		l.regenerateUVs()
		l.flags &^= FlagUV
		changed = true
	}
	if l.flags.Has(FlagNormals) {
		l.regenerateNormals()
		l.flags &^= FlagNormals
		changed = true
	}
	if l.flags.Has(FlagColor) {
		l.regenerateColors()
		l.flags &^= FlagColor
		changed = true
	}

	if l.flags.Has(FlagMaterial) {
		l.sink.SetMaterial(l.material)
		l.flags &^= FlagMaterial
	}

	if changed {
		l.ensureParity()
		l.sink.Publish(&l.mesh)
	}

	if l.params.Events {
		if l.params.EventSource == EventsFromRegion {
			l.presence.reset()
			l.seeRegion()
		}
		l.presence.diff(l.emit)
	}
}

func (l *Light) emit(t EventType, id uuid.UUID, kind occlusion.Kind) {
	if l.events == nil {
		return
	}
	l.events.Publish(Event{Type: t, Light: l.id, Object: id, Kind: kind})
}

func (l *Light) flushPresence() {
	l.presence.flush(l.emit)
}

// seeRegion marks every obstacle overlapping the light's region on the event
// layers. The shadow candidates are reused when both masks agree.
func (l *Light) seeRegion() {
	if l.params.EventMask == l.params.Mask {
		for _, list := range l.candidates {
			for _, c := range list {
				l.presence.see(c.ID, c.Kind)
			}
		}
		return
	}
	if l.occluders == nil {
		return
	}
	region := l.Region()
	for _, k := range occlusion.Kinds {
		for _, c := range l.occluders.Query(k, region, l.params.EventMask) {
			l.presence.see(c.ID, c.Kind)
		}
	}
}
