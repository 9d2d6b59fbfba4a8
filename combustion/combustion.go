// Package combustion implements point combustion and the water/sodium
// reaction described in spec §4.7. Ephemeral particle aging lives in
// package mesh (UpdateEphemerals).
package combustion

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
)

// State is the combustion FSM from spec §4.7.
type State int

const (
	NotBurning State = iota
	Developing1
	Developing2
	Burning
	ExtinguishingConsumed
	ExtinguishingSmotheredRain
	ExtinguishingSmotheredWater
	Exploded
)

// ReactionState is the water/sodium reaction FSM.
type ReactionState int

const (
	Unreacted ReactionState = iota
	ReactionTriggered
	Consumed
)

const (
	smotheringWaterLow  = 0.05
	smotheringDecayHigh = 0.98
	ignitionHighWatermark = 2.0
)

// Tracker runs the per-point combustion and water-reaction FSMs over a
// fixed point-index space, grounded on the state tables in spec §4.7.
type Tracker struct {
	rng *rand.Rand

	state            []State
	reaction         []ReactionState
	flameDevelopment []float64
	maxDevelopment   []float64
	overdueSince     []float64

	burningCount int

	decayA, decayB, decayC float64
	decayFitFor            float64 // CombustionSpeedAdjustment the fit was computed for
}

// NewTracker allocates bookkeeping sized to the point store's capacity.
func NewTracker(rng *rand.Rand, pointCapacity int) *Tracker {
	t := &Tracker{
		rng:              rng,
		state:            make([]State, pointCapacity),
		reaction:         make([]ReactionState, pointCapacity),
		flameDevelopment: make([]float64, pointCapacity),
		maxDevelopment:   make([]float64, pointCapacity),
		overdueSince:     make([]float64, pointCapacity),
	}
	t.refitDecay(1.0)
	return t
}

// refitDecay solves the quadratic alpha(m) = a·m² + b·m + c for the
// three calibration points given in spec §4.7 (0.6kg halves in 12s,
// 800kg in 26.5s, material.LargestStructuralMass=2400kg in 2653s) via
// Lagrange interpolation on halfLife→decayRate = ln(2)/halfLife, scaled
// by speedAdjustment. Recomputed whenever combustionSpeedAdjustment
// changes (spec §4.7).
func (t *Tracker) refitDecay(speedAdjustment float64) {
	xs := [3]float64{0.6, 800.0, material.LargestStructuralMass}
	ys := [3]float64{
		math.Ln2 / 12.0 * speedAdjustment,
		math.Ln2 / 26.5 * speedAdjustment,
		math.Ln2 / 2653.0 * speedAdjustment,
	}

	// Lagrange quadratic fit -> standard-form coefficients.
	var a, b, c float64
	for i := 0; i < 3; i++ {
		li0, li1, li2 := 1.0, 0.0, 0.0
		// Build L_i(x) = prod_{j!=i} (x - x_j)/(x_i - x_j) as a quadratic
		// in standard form by expanding the two linear factors.
		js := make([]int, 0, 2)
		for j := 0; j < 3; j++ {
			if j != i {
				js = append(js, j)
			}
		}
		x0, x1 := xs[js[0]], xs[js[1]]
		denom := (xs[i] - x0) * (xs[i] - x1)
		// (x - x0)(x - x1) = x^2 - (x0+x1)x + x0*x1
		li2 = 1.0 / denom
		li1 = -(x0 + x1) / denom
		li0 = (x0 * x1) / denom

		a += ys[i] * li2
		b += ys[i] * li1
		c += ys[i] * li0
	}
	t.decayA, t.decayB, t.decayC = a, b, c
	t.decayFitFor = speedAdjustment
}

func (t *Tracker) decayRate(mass float64) float64 {
	return t.decayA*mass*mass + t.decayB*mass + t.decayC
}

// smoothstep eases the initial flameDevelopment value (spec §4.7:
// "0.1 + 0.5·smoothstep of temperature excess").
func smoothstep(edge0, edge1, x float64) float64 {
	tt := (x - edge0) / (edge1 - edge0)
	if tt < 0 {
		tt = 0
	}
	if tt > 1 {
		tt = 1
	}
	return tt * tt * (3 - 2*tt)
}

type candidate struct {
	idx   mesh.PointIndex
	score float64
}

// UpdateLowFrequency runs the ignition-candidate scan, top-K selection
// and developing/burning/extinguishing transitions that only need to
// happen a few times a second (spec §4.7). ignitions is every point that
// just crossed NotBurning→Developing1 this call, for the caller to emit
// IgnitionPayload.
func (t *Tracker) UpdateLowFrequency(points *mesh.PointStore, gp *gameparams.GameParameters, neighborCount func(mesh.PointIndex) int) (explosions []mesh.PointIndex, ignitions []mesh.PointIndex) {
	if gp.CombustionSpeedAdjustment != t.decayFitFor {
		t.refitDecay(gp.CombustionSpeedAdjustment)
	}

	var ignitionCandidates, explosionCandidates []candidate

	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		mat := points.StructuralMaterial(idx)
		if mat == nil || mat.CombustionType == material.CombustionNone {
			continue
		}

		switch t.state[i] {
		case NotBurning:
			effIgnitionT := mat.IgnitionTemperature
			temp := points.Temperature(idx)
			water := points.Water(idx)
			if temp >= effIgnitionT+ignitionHighWatermark &&
				water < smotheringWaterLow &&
				points.Position(idx)[1] >= 0 {
				score := (temp - effIgnitionT) / effIgnitionT
				if mat.CombustionType == material.CombustionExplodes {
					explosionCandidates = append(explosionCandidates, candidate{idx, score})
				} else {
					ignitionCandidates = append(ignitionCandidates, candidate{idx, score})
				}
			}

		case Developing1:
			t.flameDevelopment[i] += 0.04 * t.flameDevelopment[i]
			if t.flameDevelopment[i] > t.maxDevelopment[i]+0.1 {
				t.state[i] = Developing2
			}

		case Developing2:
			excess := t.flameDevelopment[i] - t.maxDevelopment[i]
			t.flameDevelopment[i] -= 0.35 * excess
			if math.Abs(t.flameDevelopment[i]-t.maxDevelopment[i]) < 0.02 {
				t.state[i] = Burning
			}

		case Burning:
			effIgnitionT := mat.IgnitionTemperature
			points.SetTemperature(idx, math.Min(points.Temperature(idx), 1.1*effIgnitionT))
			t.decayNeighbors(idx, points, gp)
		}
	}

	ignitions = t.selectAndIgnite(ignitionCandidates, points, gp, neighborCount)
	explosions = t.selectAndExplode(explosionCandidates, points, gp)
	return explosions, ignitions
}

func topK(cands []candidate, k int) []candidate {
	sort.Slice(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if k > len(cands) {
		k = len(cands)
	}
	return cands[:k]
}

func (t *Tracker) selectAndIgnite(cands []candidate, points *mesh.PointStore, gp *gameparams.GameParameters, neighborCount func(mesh.PointIndex) int) []mesh.PointIndex {
	if len(cands) == 0 {
		return nil
	}
	quota := gp.MaxBurningParticlesPerShip - t.burningCount
	if quota <= 0 {
		return nil
	}
	k := 4 + t.rng.Intn(6) // {4..9}
	if quota < k {
		k = quota
	}
	chosen := topK(cands, k)
	ignited := make([]mesh.PointIndex, 0, len(chosen))
	for _, cd := range chosen {
		i := int(cd.idx)
		temp := points.Temperature(cd.idx)
		mat := points.StructuralMaterial(cd.idx)
		excess := (temp - mat.IgnitionTemperature) / mat.IgnitionTemperature
		t.state[i] = Developing1
		t.flameDevelopment[i] = 0.1 + 0.5*smoothstep(0, 1, excess)
		t.maxDevelopment[i] = 1.0 + 0.05*float64(neighborCount(cd.idx))
		t.burningCount++
		ignited = append(ignited, cd.idx)
	}
	return ignited
}

func (t *Tracker) selectAndExplode(cands []candidate, points *mesh.PointStore, gp *gameparams.GameParameters) []mesh.PointIndex {
	if len(cands) == 0 {
		return nil
	}
	chosen := topK(cands, 15)
	out := make([]mesh.PointIndex, 0, len(chosen))
	for _, cd := range chosen {
		t.state[int(cd.idx)] = Exploded
		out = append(out, cd.idx)
	}
	return out
}

// decayNeighbors injects heat into a burning point's spring-neighbours
// with the "upwards-preferring" directional coefficient, and decays both
// the point and its neighbours by the fitted mass-dependent rate (spec
// §4.7), at the low-frequency tick interval dtLowFreq. Walks the point's
// own connected-spring adjacency list (spec §3, Design Note 9) rather
// than scanning every spring in the store.
func (t *Tracker) decayNeighbors(idx mesh.PointIndex, points *mesh.PointStore, gp *gameparams.GameParameters) {
	const dtLowFreq = 0.25
	gravityDir := mgl32.Vec2{0, -1}
	pos := points.Position(idx)

	for _, link := range points.ConnectedSprings(idx) {
		other := link.Other
		otherPos := points.Position(other)
		dir := otherPos.Sub(pos)
		if dir.Len() > 1e-6 {
			dir = dir.Normalize()
		}
		coeff := 0.9 + 1*(1-float64(dir.Dot(gravityDir)))
		points.SetTemperature(other, points.Temperature(other)+coeff*gp.CombustionHeatAdjustment*2.0)
		points.DecayMass(other, t.decayRate(points.Mass(other)), dtLowFreq)
	}
	points.DecayMass(idx, t.decayRate(points.Mass(idx)), dtLowFreq)
}
