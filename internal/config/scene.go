package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
)

// Scene describes everything the viewer shows: the window, the camera, the
// obstacles and the lights.
type Scene struct {
	Window  WindowConfig `json:"window" yaml:"window" toml:"window"`
	Camera  CameraConfig `json:"camera" yaml:"camera" toml:"camera"`
	Ambient float64      `json:"ambient" yaml:"ambient" toml:"ambient"` // Light map level where no light reaches

	Materials []MaterialConfig `json:"materials,omitempty" yaml:"materials,omitempty" toml:"materials,omitempty"`
	Grid      *GridConfig      `json:"grid,omitempty" yaml:"grid,omitempty" toml:"grid,omitempty"`
	Obstacles []ObstacleConfig `json:"obstacles,omitempty" yaml:"obstacles,omitempty" toml:"obstacles,omitempty"`
	Lights    []LightConfig    `json:"lights,omitempty" yaml:"lights,omitempty" toml:"lights,omitempty"`
}

// MaterialConfig names a light texture file. Relative paths are resolved
// against the scene file's directory.
type MaterialConfig struct {
	Name    string        `json:"name" yaml:"name" toml:"name"`
	Texture string        `json:"texture" yaml:"texture" toml:"texture"`
	Blend   *render.Blend `json:"blend,omitempty" yaml:"blend,omitempty" toml:"blend,omitempty"` // additive when unset
}

// BlendMode returns the configured blend, additive by default.
func (m MaterialConfig) BlendMode() render.Blend {
	if m.Blend == nil {
		return render.BlendAdditive
	}
	return *m.Blend
}

// TexturePath resolves the texture against the directory of scenePath.
func (m MaterialConfig) TexturePath(scenePath string) string {
	if filepath.IsAbs(m.Texture) || scenePath == "" {
		return m.Texture
	}
	return filepath.Join(filepath.Dir(scenePath), m.Texture)
}

// WindowConfig is the viewer window.
type WindowConfig struct {
	Title  string `json:"title" yaml:"title" toml:"title"`
	Width  int    `json:"width" yaml:"width" toml:"width"`
	Height int    `json:"height" yaml:"height" toml:"height"`
}

// CameraConfig places the world on screen.
type CameraConfig struct {
	Origin mgl64.Vec2 `json:"origin" yaml:"origin" toml:"origin"` // World point at the top-left pixel
	Zoom   float64    `json:"zoom" yaml:"zoom" toml:"zoom"`       // Pixels per world unit
}

// GridConfig builds flat wall obstacles from a tile map where '#' blocks.
type GridConfig struct {
	Rows     []string `json:"rows" yaml:"rows" toml:"rows"`
	TileSize float64  `json:"tile_size" yaml:"tile_size" toml:"tile_size"`
	Layer    int      `json:"layer" yaml:"layer" toml:"layer"`
}

// ObstacleConfig is one obstacle. Exactly one of Radius, HalfExtents or
// Points gives its shape.
type ObstacleConfig struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Kind        string       `json:"kind" yaml:"kind" toml:"kind"` // "flat" or "solid"
	Layer       int          `json:"layer,omitempty" yaml:"layer,omitempty" toml:"layer,omitempty"`
	Position    mgl64.Vec2   `json:"position" yaml:"position" toml:"position"`
	Rotation    float64      `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Scale       *mgl64.Vec2  `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
	Radius      float64      `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	HalfExtents *mgl64.Vec2  `json:"half_extents,omitempty" yaml:"half_extents,omitempty" toml:"half_extents,omitempty"`
	Points      []mgl64.Vec2 `json:"points,omitempty" yaml:"points,omitempty" toml:"points,omitempty"`
}

// LightConfig is one light. Parameters left out keep their defaults.
type LightConfig struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Position mgl64.Vec2  `json:"position" yaml:"position" toml:"position"`
	Rotation float64     `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Scale    *mgl64.Vec2 `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
	LookAt   *mgl64.Vec2 `json:"look_at,omitempty" yaml:"look_at,omitempty" toml:"look_at,omitempty"`

	Shape       *light.Shape         `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty"`
	Radius      *float64             `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	ConeStart   *float64             `json:"cone_start,omitempty" yaml:"cone_start,omitempty" toml:"cone_start,omitempty"`
	ConeAngle   *float64             `json:"cone_angle,omitempty" yaml:"cone_angle,omitempty" toml:"cone_angle,omitempty"`
	BeamSize    *float64             `json:"beam_size,omitempty" yaml:"beam_size,omitempty" toml:"beam_size,omitempty"`
	BeamRange   *float64             `json:"beam_range,omitempty" yaml:"beam_range,omitempty" toml:"beam_range,omitempty"`
	Detail      *int                 `json:"detail,omitempty" yaml:"detail,omitempty" toml:"detail,omitempty"`
	Color       *light.Color         `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	UVTiling    *mgl64.Vec2          `json:"uv_tiling,omitempty" yaml:"uv_tiling,omitempty" toml:"uv_tiling,omitempty"`
	UVOffset    *mgl64.Vec2          `json:"uv_offset,omitempty" yaml:"uv_offset,omitempty" toml:"uv_offset,omitempty"`
	Pivot       *light.Pivot         `json:"pivot,omitempty" yaml:"pivot,omitempty" toml:"pivot,omitempty"`
	PivotPoint  *mgl64.Vec2          `json:"pivot_point,omitempty" yaml:"pivot_point,omitempty" toml:"pivot_point,omitempty"`
	Mask        *occlusion.LayerMask `json:"mask,omitempty" yaml:"mask,omitempty" toml:"mask,omitempty"`
	Events      *bool                `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`
	EventMask   *occlusion.LayerMask `json:"event_mask,omitempty" yaml:"event_mask,omitempty" toml:"event_mask,omitempty"`
	EventSource *light.EventSource   `json:"event_source,omitempty" yaml:"event_source,omitempty" toml:"event_source,omitempty"`
	Enabled     *bool                `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Static      *bool                `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Material    *string              `json:"material,omitempty" yaml:"material,omitempty" toml:"material,omitempty"`
}

// baseScene holds the settings a scene file may leave out. It has no content.
func baseScene() *Scene {
	return &Scene{
		Window:  WindowConfig{Title: "lightview", Width: 1280, Height: 720},
		Camera:  CameraConfig{Zoom: 32},
		Ambient: 0.15,
	}
}

// DefaultScene returns a small walled room lit by one radial light.
func DefaultScene() *Scene {
	radius := 9.0
	scene := baseScene()
	scene.Grid = &GridConfig{
		TileSize: 1,
		Rows: []string{
			"########################################",
			"#......................................#",
			"#......................................#",
			"#.........###..........................#",
			"#.........###..............#...........#",
			"#..........................#...........#",
			"#..........................#...........#",
			"#......................................#",
			"#......................................#",
			"#................######................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"#......................................#",
			"########################################",
		},
	}
	scene.Lights = []LightConfig{
		{Name: "lamp", Position: mgl64.Vec2{14, 7}, Radius: &radius},
	}
	return scene
}

// LoadScene reads a scene file. Window, camera and ambient settings the file
// leaves out keep their defaults. A missing file yields DefaultScene.
func LoadScene(path string) (*Scene, error) {
	scene := baseScene()
	found, err := decodeFile(path, scene)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	if !found {
		return DefaultScene(), nil
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return scene, nil
}

// SaveScene writes a scene file.
func SaveScene(path string, scene *Scene) error {
	if err := encodeFile(path, scene); err != nil {
		return fmt.Errorf("failed to save scene: %w", err)
	}
	return nil
}

// Validate checks every obstacle can be built.
func (s *Scene) Validate() error {
	for i, m := range s.Materials {
		if m.Name == "" || m.Texture == "" {
			return fmt.Errorf("material %d: name and texture are required", i)
		}
	}
	for i, o := range s.Obstacles {
		if _, err := o.Obstacle(); err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
	}
	if s.Grid != nil && s.Grid.TileSize <= 0 {
		return fmt.Errorf("grid tile size must be positive, got %v", s.Grid.TileSize)
	}
	return nil
}

// BuildObstacles returns the grid walls followed by the listed obstacles.
func (s *Scene) BuildObstacles() ([]occlusion.Obstacle, error) {
	var out []occlusion.Obstacle
	if s.Grid != nil && len(s.Grid.Rows) > 0 {
		out = append(out, occlusion.ObstaclesFromGrid(occlusion.StringGrid(s.Grid.Rows), s.Grid.TileSize, s.Grid.Layer)...)
	}
	for i, o := range s.Obstacles {
		obs, err := o.Obstacle()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		out = append(out, obs)
	}
	return out, nil
}

// Obstacle converts the config entry.
func (o ObstacleConfig) Obstacle() (occlusion.Obstacle, error) {
	kind, err := occlusion.ParseKind(o.Kind)
	if err != nil {
		return occlusion.Obstacle{}, err
	}

	var shape occlusion.Shape
	switch {
	case len(o.Points) >= 2:
		shape = occlusion.PolygonShape(o.Points...)
	case o.HalfExtents != nil:
		shape = occlusion.BoxShape(o.HalfExtents[0], o.HalfExtents[1])
	case o.Radius > 0:
		shape = occlusion.CircleShape(o.Radius)
	default:
		return occlusion.Obstacle{}, fmt.Errorf("obstacle %q has no shape", o.Name)
	}

	return occlusion.Obstacle{
		Name:  o.Name,
		Kind:  kind,
		Layer: o.Layer,
		Pose:  pose(o.Position, o.Rotation, o.Scale),
		Shape: shape,
	}, nil
}

// Pose returns the light's world pose.
func (c LightConfig) Pose() geom.Pose {
	return pose(c.Position, c.Rotation, c.Scale)
}

// Parameters overlays the configured fields on the defaults.
func (c LightConfig) Parameters() light.Parameters {
	p := light.DefaultParameters()
	set(&p.Shape, c.Shape)
	set(&p.Radius, c.Radius)
	set(&p.ConeStart, c.ConeStart)
	set(&p.ConeAngle, c.ConeAngle)
	set(&p.BeamSize, c.BeamSize)
	set(&p.BeamRange, c.BeamRange)
	set(&p.Detail, c.Detail)
	set(&p.Color, c.Color)
	set(&p.UVTiling, c.UVTiling)
	set(&p.UVOffset, c.UVOffset)
	set(&p.Pivot, c.Pivot)
	set(&p.PivotPoint, c.PivotPoint)
	set(&p.Mask, c.Mask)
	set(&p.Events, c.Events)
	set(&p.EventMask, c.EventMask)
	set(&p.EventSource, c.EventSource)
	set(&p.Enabled, c.Enabled)
	set(&p.Static, c.Static)
	set(&p.Material, c.Material)
	return p.Normalized()
}

// FromLight captures a light's state for saving.
func FromLight(name string, l *light.Light) LightConfig {
	p := l.Parameters()
	lp := l.Pose()
	scale := lp.Scale
	return LightConfig{
		Name:        name,
		Position:    lp.Position,
		Rotation:    lp.Rotation,
		Scale:       &scale,
		Shape:       &p.Shape,
		Radius:      &p.Radius,
		ConeStart:   &p.ConeStart,
		ConeAngle:   &p.ConeAngle,
		BeamSize:    &p.BeamSize,
		BeamRange:   &p.BeamRange,
		Detail:      &p.Detail,
		Color:       &p.Color,
		UVTiling:    &p.UVTiling,
		UVOffset:    &p.UVOffset,
		Pivot:       &p.Pivot,
		PivotPoint:  &p.PivotPoint,
		Mask:        &p.Mask,
		Events:      &p.Events,
		EventMask:   &p.EventMask,
		EventSource: &p.EventSource,
		Enabled:     &p.Enabled,
		Static:      &p.Static,
		Material:    &p.Material,
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func pose(pos mgl64.Vec2, rot float64, scale *mgl64.Vec2) geom.Pose {
	p := geom.At(pos[0], pos[1])
	p.Rotation = rot
	if scale != nil {
		p.Scale = *scale
	}
	return p
}
