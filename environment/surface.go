package environment

import "math"

// OceanSurface is the 1-D shallow-water height+velocity field pair from
// spec §4.10, grounded on the semi-Lagrangian advect-then-solve pattern
// described there and cross-checked against original_source's
// OceanSurface.cpp for the swap-buffer/padding shape.
type OceanSurface struct {
	samples int
	dx      float64

	height     []float64
	velocity   []float64
	heightNext []float64
	velNext    []float64

	wave *adjustWave
}

const floorPadding = 2

// NewOceanSurface allocates a field with samples cells plus boundary
// padding on both ends, spaced dx world units apart.
func NewOceanSurface(samples int, dx float64) *OceanSurface {
	total := samples + 2*floorPadding
	return &OceanSurface{
		samples:    samples,
		dx:         dx,
		height:     make([]float64, total),
		velocity:   make([]float64, total),
		heightNext: make([]float64, total),
		velNext:    make([]float64, total),
	}
}

// Step advances the field by dt: optional wave injection, semi-Lagrangian
// advection, height/velocity update, reflective boundary conditions,
// buffer swap (spec §4.10 steps 1-6).
func (s *OceanSurface) Step(dt, gravity float64) {
	if s.wave != nil {
		done := s.wave.apply(s, dt)
		if done {
			s.wave = nil
		}
	}

	n := len(s.height)
	cellsPerDt := dt / s.dx

	for i := 0; i < n; i++ {
		back := float64(i) - s.velocity[i]*cellsPerDt
		s.heightNext[i] = s.sampleHeight(back)
		s.velNext[i] = s.sampleVelocity(back)
	}
	s.height, s.heightNext = s.heightNext, s.height
	s.velocity, s.velNext = s.velNext, s.velocity

	for i := 0; i < n-1; i++ {
		s.heightNext[i] = s.height[i] * (1 - (s.velocity[i+1]-s.velocity[i])*dt/s.dx)
	}
	s.heightNext[n-1] = s.height[n-1]

	for i := 1; i < n; i++ {
		s.velNext[i] = s.velocity[i] + gravity*(s.heightNext[i-1]-s.heightNext[i])*dt/s.dx
	}
	s.velNext[0] = 0

	s.height, s.heightNext = s.heightNext, s.height
	s.velocity, s.velNext = s.velNext, s.velocity

	for p := 0; p < floorPadding; p++ {
		s.height[p] = s.height[floorPadding]
		s.height[n-1-p] = s.height[n-1-floorPadding]
		s.velocity[p] = 0
		s.velocity[n-1-p] = 0
	}
}

func (s *OceanSurface) sampleHeight(pos float64) float64 { return interp(s.height, pos) }
func (s *OceanSurface) sampleVelocity(pos float64) float64 { return interp(s.velocity, pos) }

func interp(field []float64, pos float64) float64 {
	if pos < 0 {
		pos = 0
	}
	if pos > float64(len(field)-1) {
		pos = float64(len(field) - 1)
	}
	i0 := int(pos)
	i1 := i0 + 1
	if i1 >= len(field) {
		i1 = len(field) - 1
	}
	frac := pos - float64(i0)
	return field[i0]*(1-frac) + field[i1]*frac
}

// basalWaveAmplitude, basalWaveWavelength and basalWavePeriod implement the wind-speed-derived
// amplitude/wavelength/period fits referenced by spec §4.10 step 7, using
// the same quadratic/exponential shapes the original derives from wave
// tank measurements (original_source/Game/OceanSurface.cpp).
func basalWaveAmplitude(windSpeedKmh float64) float64 {
	return 0.003*windSpeedKmh*windSpeedKmh*0.01 + 0.01*windSpeedKmh
}

func basalWaveWavelength(amplitude float64) float64 {
	return 100.0 * math.Exp(1.5*amplitude)
}

func basalWavePeriod(wavelength float64) float64 {
	return math.Sqrt(wavelength)
}

// SampleAt returns the rendered-visible height at world x: the shallow
// water solution plus two basal swell components plus a small wind
// ripple, per spec §4.10 step 7.
func (s *OceanSurface) SampleAt(x, windSpeedKmh, simTime float64) float64 {
	cell := x/s.dx + floorPadding
	swe := interp(s.height, cell)

	amp := basalWaveAmplitude(windSpeedKmh)
	wavelength1 := basalWaveWavelength(amp)
	period1 := basalWavePeriod(wavelength1)
	wave1 := amp * math.Sin(2*math.Pi*(x/wavelength1-simTime/period1))

	wavelength2 := wavelength1 * 0.63
	period2 := basalWavePeriod(wavelength2)
	wave2 := amp * 0.5 * math.Sin(2*math.Pi*(x/wavelength2-simTime/period2)+1.1)

	ripple := 0.02 * windSpeedKmh / 20 * math.Sin(2*math.Pi*(x/3.0-simTime*2))

	return swe + wave1 + wave2 + ripple
}

// adjustWave drives one sample up to a target height using a half-sine
// ramp, then (on Release) descends back to baseline (spec §4.10
// "adjustTo").
type adjustWave struct {
	cell        int
	baseline    float64
	target      float64
	elapsed     float64
	duration    float64
	releasing   bool
}

// delayTicks fits a ramp duration to the requested height delta.
func delayTicks(deltaH float64) float64 {
	return 0.3 + 0.7*math.Min(1, math.Abs(deltaH))
}

// AdjustTo starts or retargets an interactive wave at world x (spec
// §4.10's "adjustTo(worldCoords, t)").
func (s *OceanSurface) AdjustTo(x, targetHeight float64) {
	cell := int(x/s.dx) + floorPadding
	if cell < 0 || cell >= len(s.height) {
		return
	}
	baseline := s.height[cell]
	s.wave = &adjustWave{
		cell:     cell,
		baseline: baseline,
		target:   targetHeight,
		duration: delayTicks(targetHeight - baseline),
	}
}

// Release flips the active interactive wave to a descending half-sine
// back toward the low baseline.
func (s *OceanSurface) Release() {
	if s.wave != nil {
		s.wave.releasing = true
		s.wave.elapsed = 0
	}
}

func (w *adjustWave) apply(s *OceanSurface, dt float64) (done bool) {
	w.elapsed += dt
	t := w.elapsed / w.duration
	if t > 1 {
		t = 1
	}
	ramp := math.Sin(t * math.Pi / 2)
	if w.releasing {
		ramp = 1 - ramp
	}
	s.height[w.cell] = w.baseline + (w.target-w.baseline)*ramp
	return w.releasing && t >= 1
}
