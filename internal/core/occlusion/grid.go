package occlusion

import (
	"math"
	"slices"

	"chosenoffset.com/light2d/internal/core/geom"
)

type cellKey struct {
	x, y int
}

// spatialGrid is a uniform hash grid over obstacle bounds. It only stores
// indices into the owning World's obstacle list; exact tests happen later.
type spatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	large    []int // obstacles spanning more than maxCellsPerObstacle cells
}

const maxCellsPerObstacle = 1024

func newSpatialGrid(cellSize float64) *spatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

func (g *spatialGrid) clear() {
	clear(g.cells)
	g.large = g.large[:0]
}

func (g *spatialGrid) insert(idx int, b geom.Rect) {
	if b.Empty() {
		return
	}
	minX, maxX := g.cellIndex(b.Min[0]), g.cellIndex(b.Max[0])
	minY, maxY := g.cellIndex(b.Min[1]), g.cellIndex(b.Max[1])

	if (maxX-minX+1)*(maxY-minY+1) > maxCellsPerObstacle {
		g.large = append(g.large, idx)
		return
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := cellKey{x, y}
			g.cells[key] = append(g.cells[key], idx)
		}
	}
}

// query returns every index stored in a cell touched by b, each once, in
// ascending order.
func (g *spatialGrid) query(b geom.Rect) []int {
	if b.Empty() {
		return nil
	}
	minX, maxX := g.cellIndex(b.Min[0]), g.cellIndex(b.Max[0])
	minY, maxY := g.cellIndex(b.Min[1]), g.cellIndex(b.Max[1])

	unique := make(map[int]struct{})
	var results []int
	collect := func(ids []int) {
		for _, idx := range ids {
			if _, ok := unique[idx]; !ok {
				unique[idx] = struct{}{}
				results = append(results, idx)
			}
		}
	}

	collect(g.large)

	// Wide queries walk the occupied cells instead of every covered cell.
	if span := (maxX - minX + 1) * (maxY - minY + 1); span > len(g.cells) {
		for key, ids := range g.cells {
			if key.x >= minX && key.x <= maxX && key.y >= minY && key.y <= maxY {
				collect(ids)
			}
		}
	} else {
		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				collect(g.cells[cellKey{x, y}])
			}
		}
	}

	slices.Sort(results)
	return results
}

func (g *spatialGrid) cellIndex(pos float64) int {
	return int(math.Floor(pos / g.cellSize))
}
