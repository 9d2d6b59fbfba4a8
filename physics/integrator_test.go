package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/simclock"
)

// singlePoint builds a one-point, zero-spring mesh so Relax's Hooke step
// is a no-op and only gravity/integration/floor collision are exercised.
func singlePoint(t *testing.T, pos mgl32.Vec2) (*mesh.PointStore, *mesh.SpringStore) {
	points := mesh.NewPointStore(simclock.RealClock{}, 1, 0)
	points.Add(0, material.Iron(), nil, pos, 293.15)
	springs := mesh.NewSpringStore(0)
	return points, springs
}

// Relax's inner loop reads each point's integration factor rather than
// recomputing it, so every caller must prime it with UpdateMasses first
// using the same per-substep dt Relax will use internally.
func primeMasses(points *mesh.PointStore, gp *gameparams.GameParameters, dt float64) {
	n := int(gp.NumMechanicalDynamicsIterations)
	if n < 1 {
		n = 1
	}
	points.UpdateMasses(gp, dt/float64(n), nil)
}

func TestRelaxFreeFallUnderGravity(t *testing.T) {
	gp := gameparams.Default()
	points, springs := singlePoint(t, mgl32.Vec2{0, 100})
	primeMasses(points, gp, 1.0/60.0)

	startY := points.Position(0)[1]
	for i := 0; i < 10; i++ {
		Relax(points, springs, nil, gp, 1.0/60.0)
		primeMasses(points, gp, 1.0/60.0)
	}

	require.Less(t, points.Position(0)[1], startY, "a free point should fall under gravity")
	require.Less(t, points.Velocity(0)[1], float32(0), "downward velocity should accumulate")
}

// A free point starting at y=100 and falling under standard gravity for
// exactly one second (60 ticks at dt=1/60) should land within 1% of the
// continuous kinematic answer: y≈95.09m, vy≈-9.81m/s.
func TestRelaxFreeFallMatchesKinematics(t *testing.T) {
	gp := gameparams.Default()
	points, springs := singlePoint(t, mgl32.Vec2{0, 100})

	for i := 0; i < 60; i++ {
		primeMasses(points, gp, 1.0/60.0)
		Relax(points, springs, nil, gp, 1.0/60.0)
	}

	require.InEpsilon(t, 95.09, points.Position(0)[1], 0.01)
	require.InEpsilon(t, 9.81, -points.Velocity(0)[1], 0.01)
}

func TestRelaxPinnedPointDoesNotMove(t *testing.T) {
	gp := gameparams.Default()
	points, springs := singlePoint(t, mgl32.Vec2{0, 100})
	points.SetPinned(0, true)
	primeMasses(points, gp, 1.0/60.0)

	Relax(points, springs, nil, gp, 1.0/60.0)

	require.Equal(t, mgl32.Vec2{0, 100}, points.Position(0))
	require.Equal(t, mgl32.Vec2{0, 0}, points.Velocity(0))
}

func twoPointSpring(restLength float64) (*mesh.PointStore, *mesh.SpringStore) {
	points := mesh.NewPointStore(simclock.RealClock{}, 2, 0)
	iron := material.Iron()
	points.Add(0, iron, nil, mgl32.Vec2{0, 0}, 293.15)
	points.Add(1, iron, nil, mgl32.Vec2{float32(restLength), 0}, 293.15)
	points.SetPinned(0, true)

	springs := mesh.NewSpringStore(1)
	springs.Add(0, 0, 1, 0, 4, restLength, 1.0, 0.1, mesh.NoneIndex, mesh.NoneIndex, mesh.SpringCharacteristics{}, points)
	return points, springs
}

// A spring stretched well beyond its effective strength before the tick
// begins should be reported broken by the single UpdateStrains pass at
// the end of Relax, regardless of how the inner iterations move points.
func TestRelaxReportsOverstretchedSpringAsBroken(t *testing.T) {
	gp := gameparams.Default()
	points, springs := twoPointSpring(1.0)
	points.SetPosition(1, mgl32.Vec2{6.0, 0})
	primeMasses(points, gp, 1.0/60.0)

	broken := Relax(points, springs, nil, gp, 1.0/60.0)

	require.Equal(t, []mesh.SpringIndex{0}, broken)
}

func TestRelaxLeavesRestLengthSpringUnbroken(t *testing.T) {
	gp := gameparams.Default()
	points, springs := twoPointSpring(1.0)
	points.SetPinned(1, true)
	primeMasses(points, gp, 1.0/60.0)

	broken := Relax(points, springs, nil, gp, 1.0/60.0)

	require.Empty(t, broken)
}
