// Package environment implements the ocean surface (C10), ocean floor
// (C11) and wind/storm/cloud (C12) subsystems of spec §4.10-§4.12.
package environment

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/drydockgames/hullbreaker/gameparams"
)

// FloorSampleCount is the fixed resample width in world units (spec §4.11).
const FloorSampleCount = 5000

// OceanFloor holds the resampled bump-map profile and its precomputed
// adjacent-sample deltas, grounded on the bump-map resampling idea in
// spec §4.11. Resampling an arbitrary-width source image down to a fixed
// sample count is exactly what golang.org/x/image/draw's scalers are
// for, so this is where that dependency earns its keep (SPEC_FULL.md
// domain-stack wiring).
type OceanFloor struct {
	bumpSamples []float64 // raw bump-map contribution, one per world-unit sample, in [-1,1]
	floor       []float64 // final floor height, world units (negative = below sea level)
	deltas      []float64 // floor[i+1]-floor[i], precomputed for O(1) lookup

	seaDepth float64
}

// NewOceanFloor builds a flat floor at -seaDepth, with zero bump
// contribution, ready for LoadBumpMap or direct parameter recompute.
func NewOceanFloor(seaDepth float64) *OceanFloor {
	f := &OceanFloor{
		bumpSamples: make([]float64, FloorSampleCount),
		floor:       make([]float64, FloorSampleCount),
		deltas:      make([]float64, FloorSampleCount),
		seaDepth:    seaDepth,
	}
	for i := range f.floor {
		f.floor[i] = -seaDepth
	}
	f.recomputeDeltas()
	return f
}

// LoadBumpMap resamples src to FloorSampleCount columns and stores, for
// each column, the topmost non-zero pixel's offset from the image
// centre line as a value in [-1,1] (spec §4.11).
func (f *OceanFloor) LoadBumpMap(src image.Image) {
	bounds := src.Bounds()
	resampled := image.NewGray(image.Rect(0, 0, FloorSampleCount, bounds.Dy()))
	draw.CatmullRom.Scale(resampled, resampled.Bounds(), src, bounds, draw.Over, nil)

	centerY := resampled.Bounds().Dy() / 2
	for x := 0; x < FloorSampleCount; x++ {
		offset := 0
		for y := 0; y < resampled.Bounds().Dy(); y++ {
			if resampled.GrayAt(x, y).Y != 0 {
				offset = y - centerY
				break
			}
		}
		f.bumpSamples[x] = float64(offset) / float64(centerY+1)
	}
}

// Recompute applies spec §4.11's formula to every sample:
// floor[i] = -seaDepth + (c1+c2-c3)·bumpiness + bumpSample·detailAmp,
// where c1..c3 are three sines at fixed spatial frequencies.
func (f *OceanFloor) Recompute(gp *gameparams.GameParameters) {
	f.seaDepth = gp.SeaDepth
	for i := 0; i < FloorSampleCount; i++ {
		x := float64(i)
		c1 := math.Sin(x * 0.0011)
		c2 := math.Sin(x*0.0004 + 1.7)
		c3 := math.Sin(x*0.0027 + 0.4)
		f.floor[i] = -gp.SeaDepth + (c1+c2-c3)*gp.OceanFloorBumpiness + f.bumpSamples[i]*gp.OceanFloorDetailAmplification
	}
	f.recomputeDeltas()
}

func (f *OceanFloor) recomputeDeltas() {
	for i := 0; i < FloorSampleCount-1; i++ {
		f.deltas[i] = f.floor[i+1] - f.floor[i]
	}
	f.deltas[FloorSampleCount-1] = f.floor[0] - f.floor[FloorSampleCount-1]
}

// AdjustTo linearly interpolates a line of floor samples between two
// world-coordinate endpoints and refreshes the deltas in that range
// (spec §4.11's "adjustTo" local-terraform tool).
func (f *OceanFloor) AdjustTo(x1, y1, x2, y2 float64) {
	i1 := f.sampleIndex(x1)
	i2 := f.sampleIndex(x2)
	if i2 < i1 {
		i1, i2 = i2, i1
		y1, y2 = y2, y1
	}
	span := i2 - i1
	if span == 0 {
		f.floor[i1] = y1
		f.recomputeDeltas()
		return
	}
	for i := i1; i <= i2; i++ {
		t := float64(i-i1) / float64(span)
		f.floor[i%FloorSampleCount] = y1 + (y2-y1)*t
	}
	f.recomputeDeltas()
}

func (f *OceanFloor) sampleIndex(x float64) int {
	i := int(math.Floor(math.Mod(x, FloorSampleCount)))
	if i < 0 {
		i += FloorSampleCount
	}
	return i
}

// HeightAt returns the floor height at world x using the precomputed
// delta for O(1) linear interpolation, wrapping negative x (spec §4.11).
func (f *OceanFloor) HeightAt(x float64) float64 {
	i := f.sampleIndex(x)
	frac := x - math.Floor(x)
	return f.floor[i] + f.deltas[i]*frac
}

// NormalAt returns the (unit) surface normal at world x, derived from
// the local slope via the precomputed delta.
func (f *OceanFloor) NormalAt(x float64) mgl32.Vec2 {
	i := f.sampleIndex(x)
	slope := f.deltas[i]
	n := mgl32.Vec2{float32(-slope), 1}
	return n.Normalize()
}
