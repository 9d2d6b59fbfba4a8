package simcore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/shipyard"
	"github.com/drydockgames/hullbreaker/simclock"
)

func buildTestShip(t *testing.T, w *World, width, height int) *Ship {
	grid := shipyard.NewGrid(width, height)
	iron := material.Iron()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(x, y, shipyard.Cell{Structural: iron})
		}
	}
	built := shipyard.BuildFromGrid(grid, 1.0, 293.15)

	ship := w.AddShip(ShipConfig{
		RawShipCapacity:   built.PointCount,
		EphemeralCapacity: built.PointCount,
		SpringCapacity:    built.SpringCount,
		TriangleCapacity:  built.TriangleCount,
		Plane:             mesh.PlaneID(0),
		Seed:              7,
	})
	built.Populate(ship.Points, ship.Springs, ship.Triangles, ship.Frontiers)
	return ship
}

func countLivePoints(s *Ship) int {
	n := 0
	for i := 0; i < s.Points.Capacity(); i++ {
		if !s.Points.IsDeleted(mesh.PointIndex(i)) {
			n++
		}
	}
	return n
}

// Ticking a small, undamaged hull for a few seconds should never panic
// and should never spontaneously lose points or springs: nothing here
// applies any damage.
func TestWorldTicksUndamagedHullWithoutLoss(t *testing.T) {
	params := gameparams.Default()
	recorder := events.NewRecorder()
	w := NewWorld(params, simclock.RealClock{}, recorder, nil, WorldConfig{Seed: 1, Workers: 1})
	defer w.Threads.Close()

	ship := buildTestShip(t, w, 4, 3)
	startPoints := countLivePoints(ship)

	for i := 0; i < 120; i++ {
		w.Tick(1.0 / 60.0)
	}

	require.Equal(t, startPoints, countLivePoints(ship))
	require.Equal(t, 0, recorder.CountOf("Break"))
}

// A multi-ship world ticks each ship independently; point counts for one
// ship are unaffected by another ship existing alongside it.
func TestWorldTicksMultipleShipsIndependently(t *testing.T) {
	params := gameparams.Default()
	recorder := events.NewRecorder()
	w := NewWorld(params, simclock.RealClock{}, recorder, nil, WorldConfig{Seed: 2, Workers: 2})
	defer w.Threads.Close()

	shipA := buildTestShip(t, w, 3, 2)
	shipB := buildTestShip(t, w, 5, 2)
	require.NotEqual(t, shipA.ID, shipB.ID)

	for i := 0; i < 30; i++ {
		w.Tick(1.0 / 60.0)
	}

	require.Greater(t, countLivePoints(shipA), 0)
	require.Greater(t, countLivePoints(shipB), 0)
}

// Wind speed events are emitted every tick regardless of whether any
// ship exists.
func TestWorldEmitsWindSpeedUpdatedEveryTick(t *testing.T) {
	params := gameparams.Default()
	recorder := events.NewRecorder()
	w := NewWorld(params, simclock.RealClock{}, recorder, nil, WorldConfig{Seed: 3})
	defer w.Threads.Close()

	for i := 0; i < 5; i++ {
		w.Tick(1.0 / 60.0)
	}

	require.Equal(t, 5, recorder.CountOf("WindSpeedUpdated"))
}
