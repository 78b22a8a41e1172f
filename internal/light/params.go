package light

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"chosenoffset.com/light2d/internal/core/occlusion"
)

// MinExtent is the smallest radius, beam size or beam range a light keeps.
const MinExtent = 0.001

// DefaultDetail is the ray count of a new light.
const DefaultDetail = 288

// StaticUpdates is how many updates a static light runs before it stops
// polling occluders.
const StaticUpdates = 5

// SupportedDetails lists the ray counts a light can use, ascending.
var SupportedDetails = []int{8, 16, 24, 48, 96, 192, 288, 384, 480, 576, 672, 816, 912, 1008, 2016, 3024, 4032, 5040}

// QuantizeDetail snaps n to the nearest supported ray count. Ties go to the
// larger count.
func QuantizeDetail(n int) int {
	best := SupportedDetails[0]
	bestDiff := abs(n - best)
	for _, d := range SupportedDetails[1:] {
		if diff := abs(n - d); diff <= bestDiff {
			best, bestDiff = d, diff
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Shape selects the mesh generator.
type Shape uint8

const (
	ShapeRadial Shape = iota
	ShapeDirectional
	ShapeShadow
)

var shapeNames = [...]string{"radial", "directional", "shadow"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := parseEnum(string(b), shapeNames[:])
	if err != nil {
		return fmt.Errorf("light shape: %w", err)
	}
	*s = Shape(v)
	return nil
}

// Pivot anchors a directional beam relative to the light position.
type Pivot uint8

const (
	PivotCenter Pivot = iota // beam centered on the light
	PivotEnd                 // light sits at the top edge of the beam
	PivotCustom              // offset given by PivotPoint
)

var pivotNames = [...]string{"center", "end", "custom"}

func (p Pivot) String() string {
	if int(p) < len(pivotNames) {
		return pivotNames[p]
	}
	return fmt.Sprintf("Pivot(%d)", uint8(p))
}

func (p Pivot) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pivot) UnmarshalText(b []byte) error {
	v, err := parseEnum(string(b), pivotNames[:])
	if err != nil {
		return fmt.Errorf("light pivot: %w", err)
	}
	*p = Pivot(v)
	return nil
}

// EventSource selects which obstacles count as inside a light.
type EventSource uint8

const (
	// EventsFromRays tracks obstacles struck by the light's rays.
	EventsFromRays EventSource = iota
	// EventsFromRegion tracks every obstacle overlapping the light's region.
	EventsFromRegion
)

var eventSourceNames = [...]string{"rays", "region"}

func (e EventSource) String() string {
	if int(e) < len(eventSourceNames) {
		return eventSourceNames[e]
	}
	return fmt.Sprintf("EventSource(%d)", uint8(e))
}

func (e EventSource) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventSource) UnmarshalText(b []byte) error {
	v, err := parseEnum(string(b), eventSourceNames[:])
	if err != nil {
		return fmt.Errorf("event source: %w", err)
	}
	*e = EventSource(v)
	return nil
}

func parseEnum(s string, names []string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q (want one of %s)", s, strings.Join(names, ", "))
}

// Color is a light color. Its text form is #RRGGBB, #RRGGBBAA or an SVG color name.
type Color color.NRGBA

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor reads a hex color or an SVG color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		var r, g, b, a uint8 = 0, 0, 0, 0xff
		var err error
		switch len(s) {
		case 7:
			_, err = fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
		case 9:
			_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
		default:
			err = fmt.Errorf("want #RRGGBB or #RRGGBBAA")
		}
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{R: r, G: g, B: b, A: a}, nil
	}

	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, fmt.Errorf("unknown color name %q", s)
	}
	return Color(color.NRGBAModel.Convert(named).(color.NRGBA)), nil
}

// Parameters is the persisted state of a light. Everything else a light holds
// is derived from these and the scene.
type Parameters struct {
	Shape       Shape               `json:"shape" yaml:"shape" toml:"shape"`
	Radius      float64             `json:"radius" yaml:"radius" toml:"radius"`
	ConeStart   float64             `json:"cone_start" yaml:"cone_start" toml:"cone_start"`
	ConeAngle   float64             `json:"cone_angle" yaml:"cone_angle" toml:"cone_angle"`
	BeamSize    float64             `json:"beam_size" yaml:"beam_size" toml:"beam_size"`
	BeamRange   float64             `json:"beam_range" yaml:"beam_range" toml:"beam_range"`
	Detail      int                 `json:"detail" yaml:"detail" toml:"detail"`
	Color       Color               `json:"color" yaml:"color" toml:"color"`
	UVTiling    mgl64.Vec2          `json:"uv_tiling" yaml:"uv_tiling" toml:"uv_tiling"`
	UVOffset    mgl64.Vec2          `json:"uv_offset" yaml:"uv_offset" toml:"uv_offset"`
	Pivot       Pivot               `json:"pivot" yaml:"pivot" toml:"pivot"`
	PivotPoint  mgl64.Vec2          `json:"pivot_point" yaml:"pivot_point" toml:"pivot_point"`
	Mask        occlusion.LayerMask `json:"mask" yaml:"mask" toml:"mask"`
	Events      bool                `json:"events" yaml:"events" toml:"events"`
	EventMask   occlusion.LayerMask `json:"event_mask" yaml:"event_mask" toml:"event_mask"`
	EventSource EventSource         `json:"event_source" yaml:"event_source" toml:"event_source"`
	Enabled     bool                `json:"enabled" yaml:"enabled" toml:"enabled"`
	Static      bool                `json:"static" yaml:"static" toml:"static"`
	Material    string              `json:"material,omitempty" yaml:"material,omitempty" toml:"material,omitempty"`
}

// DefaultParameters returns the parameters of a freshly created light.
func DefaultParameters() Parameters {
	return Parameters{
		Shape:     ShapeRadial,
		Radius:    1,
		ConeAngle: 360,
		BeamSize:  25,
		BeamRange: 10,
		Detail:    DefaultDetail,
		Color:     Color{R: 204, G: 255, B: 255, A: 255},
		UVTiling:  mgl64.Vec2{1, 1},
		Pivot:     PivotCenter,
		Mask:      occlusion.AllLayers,
		EventMask: occlusion.AllLayers,
		Enabled:   true,
	}
}

// Normalized returns p with every clamp applied.
func (p Parameters) Normalized() Parameters {
	p.Radius = clampExtent(p.Radius)
	p.BeamSize = clampExtent(p.BeamSize)
	p.BeamRange = clampExtent(p.BeamRange)
	p.ConeAngle = clampCone(p.ConeAngle)
	p.Detail = QuantizeDetail(p.Detail)
	return p
}

// PivotOffset returns the beam anchor in the light's local space.
func (p Parameters) PivotOffset() mgl64.Vec2 {
	switch p.Pivot {
	case PivotEnd:
		return mgl64.Vec2{0, -p.BeamRange / 2}
	case PivotCustom:
		return p.PivotPoint
	default:
		return mgl64.Vec2{}
	}
}

// ConeRange returns the sampled angular interval in degrees.
func (p Parameters) ConeRange() (lo, hi float64) {
	if p.ConeAngle >= 360 {
		return 0, 360
	}
	return (360 - p.ConeAngle) / 2, 180 + p.ConeAngle/2
}

func clampExtent(v float64) float64 {
	if v != v || v < MinExtent { // NaN or too small
		return MinExtent
	}
	return v
}

func clampCone(a float64) float64 {
	switch {
	case a != a || a < 0:
		return 0
	case a > 360:
		return 360
	}
	return a
}
