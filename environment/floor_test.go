package environment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/gameparams"
)

func TestOceanFloorHeightAtIsNearSeaDepthWhenFlat(t *testing.T) {
	gp := gameparams.Default()
	gp.OceanFloorBumpiness = 0
	gp.OceanFloorDetailAmplification = 0
	f := NewOceanFloor(gp.SeaDepth)
	f.Recompute(gp)

	require.InDelta(t, -gp.SeaDepth, f.HeightAt(0), 1e-9)
	require.InDelta(t, -gp.SeaDepth, f.HeightAt(1234), 1e-9)
}

func TestOceanFloorHeightAtInterpolatesBetweenSamples(t *testing.T) {
	f := NewOceanFloor(100)
	h0 := f.HeightAt(10)
	h1 := f.HeightAt(11)
	mid := f.HeightAt(10.5)
	require.True(t, mid >= math.Min(h0, h1)-1e-6 && mid <= math.Max(h0, h1)+1e-6)
}

func TestOceanFloorAdjustToSetsEndpoints(t *testing.T) {
	f := NewOceanFloor(100)
	f.AdjustTo(20, -5, 40, -5)

	require.InDelta(t, -5, f.HeightAt(20), 1e-6)
	require.InDelta(t, -5, f.HeightAt(40), 1e-6)
	require.InDelta(t, -5, f.HeightAt(30), 1e-6)
}

func TestOceanFloorNormalAtIsUnitLength(t *testing.T) {
	f := NewOceanFloor(100)
	n := f.NormalAt(17)
	require.InDelta(t, 1.0, float64(n.Len()), 1e-5)
}
