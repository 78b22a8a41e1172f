package occlusion

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Grid is a tile map whose blocking cells become walls.
type Grid interface {
	Size() (width, height int)
	Blocks(x, y int) bool
}

// StringGrid is a Grid written as rows of text. '#' blocks, anything else is open.
type StringGrid []string

// ParseStringGrid splits text into rows, dropping blank leading and trailing lines.
func ParseStringGrid(text string) StringGrid {
	rows := strings.Split(strings.Trim(text, "\n"), "\n")
	for i, r := range rows {
		rows[i] = strings.TrimRight(r, "\r")
	}
	return StringGrid(rows)
}

func (g StringGrid) Size() (int, int) {
	w := 0
	for _, row := range g {
		w = max(w, len(row))
	}
	return w, len(g)
}

func (g StringGrid) Blocks(x, y int) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return false
	}
	return g[y][x] == '#'
}

type coord struct {
	x, y int
}

type edgeSide uint8

const (
	sideTop edgeSide = iota
	sideRight
	sideBottom
	sideLeft
)

type wallEdge struct {
	seg  Segment
	side edgeSide
}

// SegmentsFromGrid extracts the perimeter of every contiguous blocking region
// and merges colinear neighbouring edges into longer walls.
func SegmentsFromGrid(g Grid, tileSize float64) []Segment {
	var out []Segment
	for _, region := range findRegions(g) {
		out = append(out, regionSegments(region, tileSize)...)
	}
	return out
}

// ObstaclesFromGrid builds one flat obstacle per contiguous blocking region.
// Edges are stored in world space under an identity pose.
func ObstaclesFromGrid(g Grid, tileSize float64, layer int) []Obstacle {
	regions := findRegions(g)
	out := make([]Obstacle, 0, len(regions))
	for i, region := range regions {
		out = append(out, Obstacle{
			Name:  fmt.Sprintf("wall_%d", i),
			Kind:  KindFlat,
			Layer: layer,
			Pose:  geom.Identity(),
			Shape: Shape{Edges: regionSegments(region, tileSize)},
		})
	}
	return out
}

func regionSegments(region []coord, tileSize float64) []Segment {
	edges := mergeColinearEdges(perimeterEdges(region, tileSize))
	segs := make([]Segment, len(edges))
	for i, e := range edges {
		segs[i] = e.seg
	}
	return segs
}

// findRegions returns the 4-connected blocking regions in scan order.
func findRegions(g Grid) [][]coord {
	width, height := g.Size()
	visited := make(map[coord]bool)
	var regions [][]coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := coord{x, y}
			if visited[c] || !g.Blocks(x, y) {
				continue
			}
			regions = append(regions, floodFill(g, c, width, height, visited))
		}
	}
	return regions
}

func floodFill(g Grid, start coord, width, height int, visited map[coord]bool) []coord {
	var region []coord
	queue := []coord{start}
	visited[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)

		for _, n := range [4]coord{
			{cur.x, cur.y - 1},
			{cur.x + 1, cur.y},
			{cur.x, cur.y + 1},
			{cur.x - 1, cur.y},
		} {
			if n.x < 0 || n.x >= width || n.y < 0 || n.y >= height {
				continue
			}
			if visited[n] || !g.Blocks(n.x, n.y) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return region
}

// perimeterEdges emits one edge per tile side that faces open space.
func perimeterEdges(region []coord, tileSize float64) []wallEdge {
	in := make(map[coord]bool, len(region))
	for _, c := range region {
		in[c] = true
	}

	var edges []wallEdge
	for _, c := range region {
		left := float64(c.x) * tileSize
		top := float64(c.y) * tileSize
		right := left + tileSize
		bottom := top + tileSize

		if !in[coord{c.x, c.y - 1}] {
			edges = append(edges, wallEdge{Segment{mgl64.Vec2{left, top}, mgl64.Vec2{right, top}}, sideTop})
		}
		if !in[coord{c.x + 1, c.y}] {
			edges = append(edges, wallEdge{Segment{mgl64.Vec2{right, top}, mgl64.Vec2{right, bottom}}, sideRight})
		}
		if !in[coord{c.x, c.y + 1}] {
			edges = append(edges, wallEdge{Segment{mgl64.Vec2{right, bottom}, mgl64.Vec2{left, bottom}}, sideBottom})
		}
		if !in[coord{c.x - 1, c.y}] {
			edges = append(edges, wallEdge{Segment{mgl64.Vec2{left, bottom}, mgl64.Vec2{left, top}}, sideLeft})
		}
	}
	return edges
}

func mergeColinearEdges(edges []wallEdge) []wallEdge {
	merged := make([]bool, len(edges))
	var result []wallEdge

	for i := range edges {
		if merged[i] {
			continue
		}
		cur := edges[i]
		merged[i] = true

		for extended := true; extended; {
			extended = false
			for j := range edges {
				if merged[j] || !canMerge(cur, edges[j]) {
					continue
				}
				cur = mergeEdges(cur, edges[j])
				merged[j] = true
				extended = true
			}
		}
		result = append(result, cur)
	}
	return result
}

const mergeEpsilon = 0.001

func horizontal(s edgeSide) bool {
	return s == sideTop || s == sideBottom
}

func canMerge(a, b wallEdge) bool {
	if a.side != b.side {
		return false
	}
	// axis is the coordinate that must match, along the one that must touch.
	axis, along := 0, 1
	if horizontal(a.side) {
		axis, along = 1, 0
	}
	if math.Abs(a.seg.A[axis]-b.seg.A[axis]) > mergeEpsilon {
		return false
	}
	return math.Abs(a.seg.B[along]-b.seg.A[along]) < mergeEpsilon ||
		math.Abs(a.seg.A[along]-b.seg.B[along]) < mergeEpsilon
}

// mergeEdges joins two touching edges, keeping the winding of a.
func mergeEdges(a, b wallEdge) wallEdge {
	along := 1
	if horizontal(a.side) {
		along = 0
	}
	lo := min(a.seg.A[along], a.seg.B[along], b.seg.A[along], b.seg.B[along])
	hi := max(a.seg.A[along], a.seg.B[along], b.seg.A[along], b.seg.B[along])

	out := a
	if a.seg.A[along] <= a.seg.B[along] {
		out.seg.A[along], out.seg.B[along] = lo, hi
	} else {
		out.seg.A[along], out.seg.B[along] = hi, lo
	}
	return out
}
