package gadgets

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/simclock"
)

func pointStoreWithOnePoint() *mesh.PointStore {
	points := mesh.NewPointStore(simclock.RealClock{}, 1, 0)
	points.Add(0, material.Iron(), nil, mgl32.Vec2{0, 0}, 293.15)
	return points
}

func noopQuery() PointQuery { return PointQuery{} }

// Detonate on an RC bomb sends it through its fast-ping and lead-in
// dwell before the explosion fires, matching the 100ms ping + 1500ms
// lead-in timing from spec §4.9's table.
func TestRCBombDetonateSequence(t *testing.T) {
	gp := gameparams.Default()
	points := pointStoreWithOnePoint()
	recorder := events.NewRecorder()
	clock := simclock.NewFixedClock(time.Unix(0, 0))
	c := NewContainer(clock)

	g := c.Add(KindRCBomb, 0, mesh.PlaneID(0), 0, recorder)
	require.Equal(t, 1, recorder.CountOf("BombPlaced"))

	c.Detonate(g, 0, recorder)
	require.Equal(t, 1, recorder.CountOf("RCBombPing"))

	clock.Advance(150 * time.Millisecond)
	requests := c.Update(points, gp, noopQuery(), 0, recorder)
	require.Empty(t, requests, "still inside the lead-in dwell")

	clock.Advance(1500 * time.Millisecond)
	requests = c.Update(points, gp, noopQuery(), 0, recorder)
	require.Len(t, requests, 1)
	require.Equal(t, events.GadgetRCBomb, requests[0].Kind)
	require.Equal(t, 1, recorder.CountOf("BombExplosion"))
}

// Removing an RC bomb while it's still idle must never let a later
// Update produce an explosion for it (spec §8 property 7).
func TestRCBombRemovedBeforeDetonationNeverExplodes(t *testing.T) {
	gp := gameparams.Default()
	points := pointStoreWithOnePoint()
	recorder := events.NewRecorder()
	clock := simclock.NewFixedClock(time.Unix(0, 0))
	c := NewContainer(clock)

	g := c.Add(KindRCBomb, 0, mesh.PlaneID(0), 0, recorder)
	c.Remove(g, 0, recorder)
	require.Equal(t, 1, recorder.CountOf("BombRemoved"))

	for i := 0; i < 20; i++ {
		clock.Advance(time.Second)
		requests := c.Update(points, gp, noopQuery(), 0, recorder)
		require.Empty(t, requests)
	}
	require.Equal(t, 0, recorder.CountOf("BombExplosion"))
	require.Empty(t, c.All())
}

// An AntiMatter bomb may only be removed while Contained; once it has
// moved past that state, Remove is a no-op.
func TestAntiMatterBombCannotBeRemovedOnceImploding(t *testing.T) {
	recorder := events.NewRecorder()
	clock := simclock.NewFixedClock(time.Unix(0, 0))
	c := NewContainer(clock)

	g := c.Add(KindAntiMatterBomb, 0, mesh.PlaneID(0), 0, recorder)
	g.BeginImplosion(clock.Now(), 0, recorder)

	c.Remove(g, 0, recorder)
	require.Equal(t, 0, recorder.CountOf("BombRemoved"))
	require.False(t, g.removed)
}

// A gadget attached to a point that gets deleted out from under it is
// dropped from the container on the next Update, with a BombRemoved
// rather than a BombExplosion.
func TestContainerDropsGadgetWhenPointDeleted(t *testing.T) {
	gp := gameparams.Default()
	points := pointStoreWithOnePoint()
	recorder := events.NewRecorder()
	clock := simclock.NewFixedClock(time.Unix(0, 0))
	c := NewContainer(clock)

	c.Add(KindTimerBomb, 0, mesh.PlaneID(0), 0, recorder)
	points.Detach(0, mgl32.Vec2{}, mesh.DetachOptions{})

	requests := c.Update(points, gp, noopQuery(), 0, recorder)
	require.Empty(t, requests)
	require.Empty(t, c.All())
	require.Equal(t, 1, recorder.CountOf("BombRemoved"))
}
