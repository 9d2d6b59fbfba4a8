package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/simclock"
)

func twoPointSpring(t *testing.T, restLength float64) (*PointStore, *SpringStore) {
	points := NewPointStore(simclock.RealClock{}, 2, 0)
	iron := material.Iron()
	points.Add(0, iron, nil, mgl32.Vec2{0, 0}, 293.15)
	points.Add(1, iron, nil, mgl32.Vec2{float32(restLength), 0}, 293.15)

	springs := NewSpringStore(1)
	springs.Add(0, 0, 1, 0, 4, restLength, 1.0, 0.1, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	return points, springs
}

// Strain depends only on the absolute length change: stretching and
// compressing by the same distance produce the same strain. The lengths
// 1.25 and 0.75 are exact in float32, so both strains are exactly 0.25.
func TestUpdateStrainsIsSymmetric(t *testing.T) {
	gp := gameparams.Default()

	pointsStretched, springsStretched := twoPointSpring(t, 1.0)
	pointsStretched.SetPosition(1, mgl32.Vec2{1.25, 0})
	springsStretched.UpdateStrains(pointsStretched, gp, 1.0)

	pointsCompressed, springsCompressed := twoPointSpring(t, 1.0)
	pointsCompressed.SetPosition(1, mgl32.Vec2{0.75, 0})
	springsCompressed.UpdateStrains(pointsCompressed, gp, 1.0)

	require.InDelta(t, springsStretched.Strain(0), springsCompressed.Strain(0), 1e-9)
}

// A spring stretched far past its effective strength is reported broken;
// one held near rest length is not.
func TestUpdateStrainsBreaksOnOverstretch(t *testing.T) {
	gp := gameparams.Default()

	points, springs := twoPointSpring(t, 1.0)
	points.SetPosition(1, mgl32.Vec2{5.0, 0})
	broken := springs.UpdateStrains(points, gp, 1.0)
	require.Equal(t, []SpringIndex{0}, broken)

	points2, springs2 := twoPointSpring(t, 1.0)
	points2.SetPosition(1, mgl32.Vec2{1.01, 0})
	broken2 := springs2.UpdateStrains(points2, gp, 1.0)
	require.Empty(t, broken2)
}

func TestSpringStoreDestroyMarksDeletedWithoutCascading(t *testing.T) {
	points, springs := twoPointSpring(t, 1.0)
	require.False(t, springs.IsDeleted(0))
	require.Len(t, points.ConnectedSprings(0), 1)

	springs.Destroy(0, points)

	require.True(t, springs.IsDeleted(0))
	require.Empty(t, points.ConnectedSprings(0))
	require.Empty(t, points.ConnectedSprings(1))
}
