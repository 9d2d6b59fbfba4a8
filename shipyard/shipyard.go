// Package shipyard builds a ship's mesh (points, springs, triangles)
// from an already-decoded grid of material assignments (spec §4.15
// expansion). Decoding an image or ship-file format into that grid
// remains an external collaborator's job (spec §6); this package is the
// core geometry half of the original's ShipFactory — octant-correct
// 8-connectivity springs and two triangles per unit square, split along
// its bottom-left/top-right diagonal.
package shipyard

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
)

// Cell is one grid cell's material assignment; a nil Structural means
// the cell is empty (no point is created there).
type Cell struct {
	Structural *material.Structural
	Electrical *material.Electrical
}

// Grid is a row-major, Width x Height array of Cells, one world unit
// apart, matching the original's "decoded grid of material assignments"
// (spec §4.15).
type Grid struct {
	Width, Height int
	Cells         []Cell
}

func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
}

func (g *Grid) At(x, y int) Cell { return g.Cells[y*g.Width+x] }
func (g *Grid) Set(x, y int, c Cell) { g.Cells[y*g.Width+x] = c }

func (g *Grid) inBounds(x, y int) bool { return x >= 0 && x < g.Width && y >= 0 && y < g.Height }
func (g *Grid) occupied(x, y int) bool {
	return g.inBounds(x, y) && g.At(x, y).Structural != nil
}

// octant8 maps one of the 8 compass neighbours (dx,dy in {-1,0,1}, not
// both 0) to the factory-time octant code spec §3 stores per spring
// endpoint ("discrete direction of other endpoint at construction"),
// used by the ship-interactions repair tool to reconstruct broken
// geometry.
func octant8(dx, dy int) mesh.Octant {
	switch {
	case dx == 1 && dy == 0:
		return 0
	case dx == 1 && dy == 1:
		return 1
	case dx == 0 && dy == 1:
		return 2
	case dx == -1 && dy == 1:
		return 3
	case dx == -1 && dy == 0:
		return 4
	case dx == -1 && dy == -1:
		return 5
	case dx == 0 && dy == -1:
		return 6
	default: // dx == 1 && dy == -1
		return 7
	}
}

func opposite(o mesh.Octant) mesh.Octant { return (o + 4) % 8 }

// BuildResult is everything BuildFromGrid produces, sized exactly to
// the mesh it describes so the caller can size its PointStore/
// SpringStore/TriangleStore/FrontierStore capacities up front (spec
// §4.1 precondition: "raw-ship capacity is fixed at construction").
type BuildResult struct {
	PointCount    int
	SpringCount   int
	TriangleCount int

	// Populate, called after the caller constructs its stores sized to
	// the counts above, issues every Add call in a deterministic order
	// (points first, by grid scan order; then springs; then triangles),
	// then seeds one external FrontierStore loop per connected blob of
	// occupied cells.
	Populate func(points *mesh.PointStore, springs *mesh.SpringStore, triangles *mesh.TriangleStore, frontiers *mesh.FrontierStore)
}

// BuildFromGrid synthesizes points at every occupied grid cell, springs
// along the 8-connectivity neighbourhood (with correct octant codes, no
// duplicate edges), and two triangles per unit square whose four corners
// are all occupied, split along its bottom-left/top-right diagonal
// (spec §4.15).
// worldScale converts one grid unit to world-position units.
func BuildFromGrid(grid *Grid, worldScale float64, ambientTemperature float64) *BuildResult {
	pointIndexAt := make([]mesh.PointIndex, grid.Width*grid.Height)
	for i := range pointIndexAt {
		pointIndexAt[i] = mesh.NoneIndex
	}

	type pointSpec struct {
		x, y int
		cell Cell
	}
	var pointSpecs []pointSpec
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			if c.Structural == nil {
				continue
			}
			pointIndexAt[y*grid.Width+x] = mesh.PointIndex(len(pointSpecs))
			pointSpecs = append(pointSpecs, pointSpec{x, y, c})
		}
	}

	type springSpec struct {
		a, b           mesh.PointIndex
		octantA, octantB mesh.Octant
		isDiagonal     bool
	}
	var springSpecs []springSpec
	springIndexOf := make(map[[2]int]int) // ordered (min,max) point-index pair -> index into springSpecs

	addSpring := func(ax, ay, bx, by int) (mesh.SpringIndex, bool) {
		ai := pointIndexAt[ay*grid.Width+ax]
		bi := pointIndexAt[by*grid.Width+bx]
		if ai == mesh.NoneIndex || bi == mesh.NoneIndex {
			return mesh.NoneIndex, false
		}
		key := [2]int{int(ai), int(bi)}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if idx, ok := springIndexOf[key]; ok {
			return mesh.SpringIndex(idx), true
		}
		dx, dy := bx-ax, by-ay
		oct := octant8(dx, dy)
		idx := len(springSpecs)
		springSpecs = append(springSpecs, springSpec{a: ai, b: bi, octantA: oct, octantB: opposite(oct), isDiagonal: dx != 0 && dy != 0})
		springIndexOf[key] = idx
		return mesh.SpringIndex(idx), true
	}

	// Structural (non-diagonal) 4-connectivity plus diagonal bracing,
	// scanned once per cell so each of the 8 neighbour directions is
	// only ever added from its lower/left owner (addSpring dedups via
	// springIndexOf regardless).
	dirs8 := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if !grid.occupied(x, y) {
				continue
			}
			for _, d := range dirs8 {
				nx, ny := x+d[0], y+d[1]
				if grid.occupied(nx, ny) {
					addSpring(x, y, nx, ny)
				}
			}
		}
	}

	type triSpec struct {
		a, b, c          mesh.PointIndex
		ab, bc, ca       mesh.SpringIndex
	}
	var triSpecs []triSpec
	edgeOwnerCount := make([]int, 0) // indexed by SpringIndex once springSpecs is final; grown lazily below
	edgeOwnerDir := make(map[mesh.SpringIndex][2]mesh.PointIndex)
	recordEdge := func(sp mesh.SpringIndex, from, to mesh.PointIndex) {
		for len(edgeOwnerCount) <= int(sp) {
			edgeOwnerCount = append(edgeOwnerCount, 0)
		}
		edgeOwnerCount[int(sp)]++
		edgeOwnerDir[sp] = [2]mesh.PointIndex{from, to}
	}
	for y := 0; y < grid.Height-1; y++ {
		for x := 0; x < grid.Width-1; x++ {
			if !(grid.occupied(x, y) && grid.occupied(x+1, y) && grid.occupied(x, y+1) && grid.occupied(x+1, y+1)) {
				continue
			}
			bl := pointIndexAt[y*grid.Width+x]
			br := pointIndexAt[y*grid.Width+x+1]
			tl := pointIndexAt[(y+1)*grid.Width+x]
			tr := pointIndexAt[(y+1)*grid.Width+x+1]

			// Split along the shorter diagonal. Both diagonals have
			// equal world length on a regular grid, so this resolves to
			// a fixed, deterministic choice (bottom-left/top-right) —
			// matching the original's fixed unit-square triangulation.
			blSpring, _ := addSpring(x, y, x, y+1)   // bl-tl
			trSpring, _ := addSpring(x+1, y, x+1, y+1) // br-tr
			bottomSpring, _ := addSpring(x, y, x+1, y) // bl-br
			topSpring, _ := addSpring(x, y+1, x+1, y+1) // tl-tr
			diagSpring, _ := addSpring(x, y, x+1, y+1) // bl-tr

			triSpecs = append(triSpecs,
				triSpec{a: bl, b: br, c: tr, ab: bottomSpring, bc: trSpring, ca: diagSpring},
				triSpec{a: bl, b: tr, c: tl, ab: diagSpring, bc: topSpring, ca: blSpring},
			)
			recordEdge(bottomSpring, bl, br)
			recordEdge(trSpring, br, tr)
			recordEdge(diagSpring, tr, bl)
			recordEdge(diagSpring, bl, tr)
			recordEdge(topSpring, tr, tl)
			recordEdge(blSpring, tl, bl)
		}
	}

	// Boundary edges are those bounding exactly one triangle; a fresh
	// build has no holes, so every boundary edge belongs to the single
	// outer loop around each connected blob of occupied cells. Direction
	// is reversed from the owning triangle's own winding, the same
	// convention HandleTriangleDestroy uses when a triangle's removal
	// first exposes a hole (frontier.go's count==0 case).
	type boundaryLoop struct {
		edges    []mesh.SpringIndex
		from, to []mesh.PointIndex
	}
	var boundaryLoops []boundaryLoop
	{
		nextFrom := make(map[mesh.PointIndex]mesh.SpringIndex)
		fromOf := make(map[mesh.SpringIndex]mesh.PointIndex)
		toOf := make(map[mesh.SpringIndex]mesh.PointIndex)
		visited := make(map[mesh.SpringIndex]bool)
		var boundary []mesh.SpringIndex
		for sp, dir := range edgeOwnerDir {
			if edgeOwnerCount[int(sp)] != 1 {
				continue
			}
			from, to := dir[1], dir[0] // reversed
			fromOf[sp], toOf[sp] = from, to
			nextFrom[from] = sp
			boundary = append(boundary, sp)
		}
		for _, start := range boundary {
			if visited[start] {
				continue
			}
			var loop boundaryLoop
			cur := start
			for {
				if visited[cur] {
					break
				}
				visited[cur] = true
				loop.edges = append(loop.edges, cur)
				loop.from = append(loop.from, fromOf[cur])
				loop.to = append(loop.to, toOf[cur])
				next, ok := nextFrom[toOf[cur]]
				if !ok || next == start {
					break
				}
				cur = next
			}
			if len(loop.edges) >= 3 {
				boundaryLoops = append(boundaryLoops, loop)
			}
		}
	}

	populate := func(points *mesh.PointStore, springs *mesh.SpringStore, triangles *mesh.TriangleStore, frontiers *mesh.FrontierStore) {
		for i, ps := range pointSpecs {
			pos := mgl32.Vec2{float32(float64(ps.x) * worldScale), float32(float64(ps.y) * worldScale)}
			points.Add(mesh.PointIndex(i), ps.cell.Structural, ps.cell.Electrical, pos, ambientTemperature)
		}
		for i, ss := range springSpecs {
			restLength := worldScale
			if ss.isDiagonal {
				restLength *= 1.4142135623730951
			}
			stiffness := (points.StructuralMaterial(ss.a).Stiffness + points.StructuralMaterial(ss.b).Stiffness) / 2
			springs.Add(mesh.SpringIndex(i), ss.a, ss.b, ss.octantA, ss.octantB, restLength, stiffness, 0.3,
				mesh.NoneIndex, mesh.NoneIndex, mesh.SpringCharacteristics{}, points)
		}
		for i, ts := range triSpecs {
			triangles.Add(mesh.TriangleIndex(i), ts.a, ts.b, ts.c, ts.ab, ts.bc, ts.ca)
			springs.AddSuperTriangle(ts.ab, mesh.TriangleIndex(i))
			springs.AddSuperTriangle(ts.bc, mesh.TriangleIndex(i))
			springs.AddSuperTriangle(ts.ca, mesh.TriangleIndex(i))
		}
		for _, loop := range boundaryLoops {
			frontiers.AddFrontier(mesh.FrontierExternal, loop.edges, loop.from, loop.to)
		}
	}

	return &BuildResult{
		PointCount:    len(pointSpecs),
		SpringCount:   len(springSpecs),
		TriangleCount: len(triSpecs),
		Populate:      populate,
	}
}
