package light

import "strings"

// Flags marks which derived buffers are stale.
type Flags uint8

const (
	FlagShape    Flags = 1 << iota // vertices and triangles
	FlagUV                         // texture coordinates
	FlagNormals                    // per-vertex normals
	FlagColor                      // per-vertex colors
	FlagMaterial                   // renderer material
	FlagCircle                     // circle reference directions

	AllFlags = FlagShape | FlagUV | FlagNormals | FlagColor | FlagMaterial | FlagCircle
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	names := []string{"shape", "uv", "normals", "color", "material", "circle"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}
