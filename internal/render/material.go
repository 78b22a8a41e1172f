package render

import "math"

// DefaultMaterialName is the material used when a light names none.
const DefaultMaterialName = "RadialLight"

// Material is what a mesh is drawn with.
type Material struct {
	Name    string
	Texture Image
	Blend   Blend
}

// RadialFalloff returns premultiplied RGBA pixels for a size×size white
// texture whose intensity falls off quadratically from the center to the edge.
func RadialFalloff(size int) []byte {
	if size <= 0 {
		return nil
	}
	pix := make([]byte, size*size*4)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			d := math.Min(math.Sqrt(dx*dx+dy*dy), 1)
			v := byte(math.Round((1 - d) * (1 - d) * 255))
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	return pix
}

// NewFalloffMaterial builds the default additive light material.
func NewFalloffMaterial(r Renderer, size int) *Material {
	img := r.NewImage(size, size)
	img.WritePixels(RadialFalloff(size))
	return &Material{Name: DefaultMaterialName, Texture: img, Blend: BlendAdditive}
}
