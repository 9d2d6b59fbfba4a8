package environment

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/gameparams"
)

// With wind modulation disabled, the FSM still cycles states but every
// raw magnitude sample is pinned to WindSpeedBase, so the running average
// converges to exactly WindSpeedBase along the configured direction.
func TestWindVectorConvergesToBaseWhenUnmodulated(t *testing.T) {
	gp := gameparams.Default()
	gp.DoModulateWind = false

	w := NewWind(rand.New(rand.NewSource(1)), mgl32.Vec2{1, 0})
	for i := 0; i < 20; i++ {
		w.Update(0.5, gp, 0)
	}

	v := w.Vector()
	require.InDelta(t, gp.WindSpeedBase, float64(v.Len()), 1e-6)
	require.InDelta(t, 1.0, float64(v[0]/v.Len()), 1e-6)
}

// Vector's direction always matches the configured (normalized) heading,
// regardless of magnitude swings from gusting.
func TestWindVectorDirectionMatchesConfiguredHeading(t *testing.T) {
	gp := gameparams.Default()
	dir := mgl32.Vec2{3, 4}.Normalize()
	w := NewWind(rand.New(rand.NewSource(2)), dir)

	for i := 0; i < 200; i++ {
		w.Update(0.3, gp, 0)
		v := w.Vector()
		if v.Len() > 1e-6 {
			got := v.Normalize()
			require.InDelta(t, float64(dir[0]), float64(got[0]), 1e-4)
			require.InDelta(t, float64(dir[1]), float64(got[1]), 1e-4)
		}
	}
}

func TestStormUpdateReturnsZeroedParametersWhenInactive(t *testing.T) {
	gp := gameparams.Default()
	s := &Storm{}
	got := s.Update(1.0, gp)
	require.Equal(t, StormParameters{}, got)
	require.False(t, s.Active())
}

func TestStormBecomesActiveAndExpires(t *testing.T) {
	gp := gameparams.Default()
	gp.StormDuration = 10
	s := &Storm{}
	s.Begin(gp)
	require.True(t, s.Active())

	s.Update(5, gp)
	require.True(t, s.Active())

	s.Update(10, gp)
	require.False(t, s.Active())
}
