package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/shipyard"
	"github.com/drydockgames/hullbreaker/simclock"
)

func buildRectangleShip(t *testing.T, w, h int) (*mesh.PointStore, *mesh.SpringStore, *mesh.TriangleStore, *mesh.FrontierStore) {
	grid := shipyard.NewGrid(w, h)
	iron := material.Iron()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			grid.Set(x, y, shipyard.Cell{Structural: iron})
		}
	}
	built := shipyard.BuildFromGrid(grid, 1.0, 293.15)

	points := mesh.NewPointStore(simclock.RealClock{}, built.PointCount, 0)
	springs := mesh.NewSpringStore(built.SpringCount)
	triangles := mesh.NewTriangleStore(built.TriangleCount)
	frontiers := mesh.NewFrontierStore(built.SpringCount, built.PointCount)
	built.Populate(points, springs, triangles, frontiers)
	return points, springs, triangles, frontiers
}

// A freshly built, hole-free rectangular hull has exactly one external
// frontier loop, and every edge on it is a true boundary edge (belongs
// to exactly one live triangle).
func TestFreshHullHasOneExternalFrontier(t *testing.T) {
	_, springs, triangles, frontiers := buildRectangleShip(t, 4, 3)

	seen := map[mesh.FrontierIndex]bool{}
	for i := 0; i < springs.Capacity(); i++ {
		si := mesh.SpringIndex(i)
		fr := frontiers.FrontierOf(si)
		if fr == mesh.NoneIndex {
			continue
		}
		seen[fr] = true
		require.Equal(t, mesh.FrontierExternal, frontiers.TypeOf(fr))

		t0, t1 := springs.SuperTriangles(si)
		liveCount := 0
		if t0 != mesh.NoneIndex && !triangles.IsDeleted(t0) {
			liveCount++
		}
		if t1 != mesh.NoneIndex && !triangles.IsDeleted(t1) {
			liveCount++
		}
		require.Equal(t, 1, liveCount, "frontier edge %d must bound exactly one live triangle", si)
	}
	require.Len(t, seen, 1)
}

// Destroying an interior triangle exposes new boundary edges without
// ever producing a frontier edge that bounds zero live triangles.
func TestDestroyingATriangleKeepsFrontierConsistent(t *testing.T) {
	_, springs, triangles, frontiers := buildRectangleShip(t, 4, 3)

	var target mesh.TriangleIndex = -1
	for i := 0; i < triangles.Capacity(); i++ {
		if !triangles.IsDeleted(mesh.TriangleIndex(i)) {
			target = mesh.TriangleIndex(i)
			break
		}
	}
	require.NotEqual(t, mesh.TriangleIndex(-1), target)

	triangles.Destroy(target, springs, frontiers)
	require.True(t, triangles.IsDeleted(target))

	for i := 0; i < springs.Capacity(); i++ {
		si := mesh.SpringIndex(i)
		if springs.IsDeleted(si) {
			continue
		}
		fr := frontiers.FrontierOf(si)
		if fr == mesh.NoneIndex {
			continue
		}
		t0, t1 := springs.SuperTriangles(si)
		liveCount := 0
		if t0 != mesh.NoneIndex && !triangles.IsDeleted(t0) {
			liveCount++
		}
		if t1 != mesh.NoneIndex && !triangles.IsDeleted(t1) {
			liveCount++
		}
		require.GreaterOrEqual(t, liveCount, 1, "frontier edge %d must still bound a live triangle", si)
	}
}

func countFrontiers(springs *mesh.SpringStore, frontiers *mesh.FrontierStore) map[mesh.FrontierIndex]bool {
	seen := map[mesh.FrontierIndex]bool{}
	for i := 0; i < springs.Capacity(); i++ {
		si := mesh.SpringIndex(i)
		if springs.IsDeleted(si) {
			continue
		}
		if fr := frontiers.FrontierOf(si); fr != mesh.NoneIndex {
			seen[fr] = true
		}
	}
	return seen
}

func findInteriorTriangle(springs *mesh.SpringStore, triangles *mesh.TriangleStore) mesh.TriangleIndex {
	for i := 0; i < triangles.Capacity(); i++ {
		ti := mesh.TriangleIndex(i)
		if triangles.IsDeleted(ti) {
			continue
		}
		interior := true
		for _, e := range triangles.Edges(ti) {
			t0, t1 := springs.SuperTriangles(e)
			liveCount := 0
			if t0 != mesh.NoneIndex && !triangles.IsDeleted(t0) {
				liveCount++
			}
			if t1 != mesh.NoneIndex && !triangles.IsDeleted(t1) {
				liveCount++
			}
			if liveCount != 2 {
				interior = false
				break
			}
		}
		if interior {
			return ti
		}
	}
	return -1
}

// Destroying a fully interior triangle (every edge still bounded by
// another live triangle on its other side) opens a hole bounded by a
// new 3-edge internal frontier loop, and restoring the triangle closes
// the hole back down to the mesh's single external frontier.
func TestDestroyRestoreInteriorTriangleOpensAndClosesInternalFrontier(t *testing.T) {
	_, springs, triangles, frontiers := buildRectangleShip(t, 5, 5)

	target := findInteriorTriangle(springs, triangles)
	require.NotEqual(t, mesh.TriangleIndex(-1), target, "a 5x5 hull should have at least one fully interior triangle")

	before := countFrontiers(springs, frontiers)
	require.Len(t, before, 1)

	triangles.Destroy(target, springs, frontiers)

	after := countFrontiers(springs, frontiers)
	require.Len(t, after, 2)

	var internal mesh.FrontierIndex = mesh.NoneIndex
	for fr := range after {
		if frontiers.TypeOf(fr) == mesh.FrontierInternal {
			internal = fr
		}
	}
	require.NotEqual(t, mesh.FrontierIndex(mesh.NoneIndex), internal)
	require.Equal(t, 3, frontiers.SizeOf(internal))

	triangles.Restore(target, springs, frontiers)

	restored := countFrontiers(springs, frontiers)
	require.Len(t, restored, 1)
	for fr := range restored {
		require.Equal(t, mesh.FrontierExternal, frontiers.TypeOf(fr))
	}
}
