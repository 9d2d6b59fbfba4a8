package environment

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/gameparams"
)

// WindState is the gust FSM from spec §4.12.
type WindState int

const (
	WindInitial WindState = iota
	WindEnterBase1
	WindBase1
	WindEnterPreGusting
	WindPreGusting
	WindEnterGusting
	WindGusting
	WindEnterPostGusting
	WindPostGusting
	WindEnterBase2
	WindBase2
	WindEnterZero
	WindZero
)

// Wind drives the gust state machine and the resulting running-averaged
// magnitude vector, grounded on spec §4.12's Poisson-gust description.
type Wind struct {
	rng   *rand.Rand
	state WindState

	dwellRemaining float64
	nextGustSample float64

	rawMagnitude float64
	history      [4]float64
	historyPos   int

	direction mgl32.Vec2
}

// NewWind creates a wind system blowing along dir (normalized).
func NewWind(rng *rand.Rand, dir mgl32.Vec2) *Wind {
	return &Wind{rng: rng, state: WindInitial, direction: dir.Normalize()}
}

func (w *Wind) uniform(lo, hi float64) float64 { return lo + w.rng.Float64()*(hi-lo) }

// Update advances the FSM by dt seconds and recomputes the running
// average (spec §4.12: "raw magnitude pushed through a length-4 running
// average").
func (w *Wind) Update(dt float64, gp *gameparams.GameParameters, stormSpeedBonus float64) {
	w.dwellRemaining -= dt

	switch w.state {
	case WindInitial:
		w.state, w.dwellRemaining = WindEnterBase1, 0

	case WindEnterBase1:
		w.rawMagnitude = gp.WindSpeedBase
		w.state, w.dwellRemaining = WindBase1, w.uniform(2, 5)

	case WindBase1:
		if w.dwellRemaining <= 0 {
			w.state = WindEnterPreGusting
		}

	case WindEnterPreGusting:
		w.state, w.dwellRemaining = WindPreGusting, w.uniform(1, 3)

	case WindPreGusting:
		if w.dwellRemaining <= 0 {
			w.state = WindEnterGusting
		}

	case WindEnterGusting:
		w.state, w.dwellRemaining = WindGusting, w.uniform(3, 8)
		w.nextGustSample = 0

	case WindGusting:
		w.nextGustSample -= dt
		if w.nextGustSample <= 0 {
			w.nextGustSample = 0.25
			// Poisson-sampled gust sub-burst, rate lambda=1/s, sampled
			// every 0.25s.
			if w.rng.Float64() < 1.0*0.25 {
				w.rawMagnitude = gp.WindSpeedBase * w.uniform(1.5, 2.5)
			} else {
				w.rawMagnitude = gp.WindSpeedBase
			}
		}
		if w.dwellRemaining <= 0 {
			w.state = WindEnterPostGusting
		}

	case WindEnterPostGusting:
		w.state, w.dwellRemaining = WindPostGusting, w.uniform(1, 3)

	case WindPostGusting:
		if w.dwellRemaining <= 0 {
			w.state = WindEnterBase2
		}

	case WindEnterBase2:
		w.rawMagnitude = gp.WindSpeedBase
		w.state, w.dwellRemaining = WindBase2, w.uniform(2, 5)

	case WindBase2:
		if w.dwellRemaining <= 0 {
			w.state = WindEnterZero
		}

	case WindEnterZero:
		w.rawMagnitude = 0
		w.state, w.dwellRemaining = WindZero, w.uniform(1, 2)

	case WindZero:
		if w.dwellRemaining <= 0 {
			w.state = WindEnterBase1
		}
	}

	if !gp.DoModulateWind {
		w.rawMagnitude = gp.WindSpeedBase
	}

	w.history[w.historyPos] = w.rawMagnitude + stormSpeedBonus
	w.historyPos = (w.historyPos + 1) % len(w.history)
}

// Vector returns the current smoothed wind vector (direction scaled by
// the 4-sample running average of magnitude).
func (w *Wind) Vector() mgl32.Vec2 {
	sum := 0.0
	for _, v := range w.history {
		sum += v
	}
	avg := sum / float64(len(w.history))
	return w.direction.Mul(float32(avg))
}

// Storm tracks a single storm's 0..1 progress and the parameters it
// forces onto Wind and Clouds (spec §4.12).
type Storm struct {
	active   bool
	elapsed  float64
	duration float64
}

// StormParameters is what Storm emits for Wind/Clouds to consume each tick.
type StormParameters struct {
	CloudCount      int
	CloudSize       float64
	CloudDarkening  float64
	AmbientDarkening float64
	RainDensity     float64
	WindGradient    float64
}

// Begin starts a storm of the configured duration.
func (s *Storm) Begin(gp *gameparams.GameParameters) {
	s.active = true
	s.elapsed = 0
	s.duration = gp.StormDuration
}

func (s *Storm) Active() bool { return s.active }

// Update advances progress and returns the current parameter set.
func (s *Storm) Update(dt float64, gp *gameparams.GameParameters) StormParameters {
	if !s.active {
		return StormParameters{}
	}
	s.elapsed += dt
	progress := s.elapsed / s.duration
	if progress >= 1 {
		s.active = false
		return StormParameters{}
	}

	rampUp := func(lo, hi, p float64) float64 {
		if p < lo {
			return 0
		}
		span := hi - lo
		if span <= 0 {
			return 1
		}
		frac := (math.Min(p, hi) - lo) / span
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		return frac
	}

	windAmbientCloud := rampUp(0, 0.125, progress)
	ambient := rampUp(0.1, 0.175, progress)
	// Symmetric wind-down on the way back out, mirroring each ramp
	// around progress 0.5 (from 0.875 and 0.825 onward respectively).
	if progress > 0.875 {
		windAmbientCloud = rampUp(0, 0.125, 1-progress)
	}
	if progress > 0.825 {
		ambient = rampUp(0.1, 0.175, 1-progress)
	}

	strength := gp.StormStrengthAdjustment
	return StormParameters{
		CloudCount:       int(float64(gp.NumberOfClouds) * (1 + windAmbientCloud)),
		CloudSize:        1 + 0.5*windAmbientCloud,
		CloudDarkening:   windAmbientCloud * strength,
		AmbientDarkening: ambient * strength,
		RainDensity:      windAmbientCloud,
		WindGradient:     windAmbientCloud * strength,
	}
}

// Cloud is a single advected cloud in virtual space [-1.5,1.5]x[-0.5,0.5]
// (spec §4.12).
type Cloud struct {
	Pos       mgl32.Vec2
	Size      float64
	IsStorm   bool
}

// CloudField advects a fixed-size pool of clouds and resizes it to
// gp.NumberOfClouds (possibly boosted by an active storm).
type CloudField struct {
	rng    *rand.Rand
	clouds []Cloud
}

func NewCloudField(rng *rand.Rand) *CloudField { return &CloudField{rng: rng} }

// Update advects every cloud by windSpeed·dt·0.02 along +X, wrapping at the
// virtual-space boundary, and resizes the pool to match target.
func (c *CloudField) Update(dt, windSpeed float64, target int, storm StormParameters) {
	for i := range c.clouds {
		c.clouds[i].Pos[0] += float32(windSpeed * dt * 0.02)
		if c.clouds[i].Pos[0] > 1.5 {
			c.clouds[i].Pos[0] = -1.5
		}
	}

	if storm.CloudCount > target {
		target = storm.CloudCount
	}

	for len(c.clouds) < target {
		c.clouds = append(c.clouds, Cloud{
			Pos:     mgl32.Vec2{float32(c.rng.Float64()*3 - 1.5), float32(c.rng.Float64()*1 - 0.5)},
			Size:    (0.1 + c.rng.Float64()*0.3) * (1 + storm.CloudSize),
			IsStorm: storm.CloudCount > 0,
		})
	}
	if len(c.clouds) > target {
		c.clouds = c.clouds[:target]
	}
}

func (c *CloudField) Clouds() []Cloud { return c.clouds }
