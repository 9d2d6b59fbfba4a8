package mesh

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/simclock"
)

// ErrOutOfEphemeralSlots is returned by AddEphemeral when forceSteal is
// false and every ephemeral slot is currently alive (spec §4.1).
var ErrOutOfEphemeralSlots = errors.New("mesh: out of ephemeral point slots")

// EphemeralKind classifies a point allocated from the ephemeral pool
// (spec Glossary: bubbles/debris/smoke/sparkles/wake particles share one
// pool, distinguished by this tag and not by separate containers).
type EphemeralKind int

const (
	EphemeralNone EphemeralKind = iota
	EphemeralBubble
	EphemeralDebris
	EphemeralSmoke
	EphemeralSparkle
	EphemeralWakeBubble
)

// DetachOptions controls how Detach severs a point from the rest of the
// mesh (spec §4.1, used by interaction tools in package interactions).
type DetachOptions struct {
	GenerateDebris    bool
	GenerateSparkles  bool
}

// PointStore is the SoA container for every point (raw-ship plus
// ephemeral) in a ship, grounded on Points.cpp's ElementContainer layout
// and on the teacher's component-array pattern in mod_spatialgrid.go.
type PointStore struct {
	clock simclock.Clock

	// Fixed capacities, set at construction (spec §4.1 precondition).
	rawShipCount   int
	ephemeralStart int
	capacity       int

	// The arrays below are parallel, each len == capacity.
	positions  []mgl32.Vec2
	velocities []mgl32.Vec2
	forces     []mgl32.Vec2 // dynamic force accumulator, cleared every inner iteration
	staticForces []mgl32.Vec2

	mass               []float64 // current, converging mass
	integrationFactor  []mgl32.Vec2 // dt^2/m, cached per mass update

	water       []float64
	temperature []float64 // Kelvin

	structMat []*material.Structural
	elecMat   []*material.Electrical

	isDeleted   []bool
	ephemeral   []EphemeralKind
	bornAt      []float64 // simulation time the ephemeral slot was (re)allocated, for forced-steal ordering

	ephemeralAge      []float64
	ephemeralLifetime []float64 // 0 for kinds that expire on an external event (bubbles) rather than a clock
	ephemeralFast     []bool    // smoke's fast-growth branch (spec §4.7)

	connectedComponent []ConnectedComponentID

	pinned []bool
	decay  []float64

	// springLinks is the per-point adjacency list (spec §3's "connected-
	// spring list"), maintained by SpringStore.Add/Destroy/Restore so
	// neighbour walks (combustion decay, electrical BFS) iterate by
	// degree instead of scanning every spring in the store.
	springLinks [][]ConnectedSpring

	nextEphemeralSearch int
}

// ConnectedSpring is one entry of a point's spring adjacency list: the
// spring itself and the point at its other end.
type ConnectedSpring struct {
	Spring SpringIndex
	Other  PointIndex
}

// NewPointStore allocates a store with rawShipCount raw-ship slots
// followed by ephemeralCount ephemeral slots.
func NewPointStore(clock simclock.Clock, rawShipCount, ephemeralCount int) *PointStore {
	capacity := rawShipCount + ephemeralCount
	return &PointStore{
		clock:              clock,
		rawShipCount:       rawShipCount,
		ephemeralStart:     rawShipCount,
		capacity:           capacity,
		positions:          make([]mgl32.Vec2, capacity),
		velocities:         make([]mgl32.Vec2, capacity),
		forces:             make([]mgl32.Vec2, capacity),
		staticForces:       make([]mgl32.Vec2, capacity),
		mass:               make([]float64, capacity),
		integrationFactor:  make([]mgl32.Vec2, capacity),
		water:              make([]float64, capacity),
		temperature:        make([]float64, capacity),
		structMat:          make([]*material.Structural, capacity),
		elecMat:            make([]*material.Electrical, capacity),
		isDeleted:          make([]bool, capacity),
		ephemeral:          make([]EphemeralKind, capacity),
		bornAt:             make([]float64, capacity),
		connectedComponent: make([]ConnectedComponentID, capacity),
		pinned:             make([]bool, capacity),
		decay:              make([]float64, capacity),
		ephemeralAge:       make([]float64, capacity),
		ephemeralLifetime:  make([]float64, capacity),
		ephemeralFast:      make([]bool, capacity),
		springLinks:        make([][]ConnectedSpring, capacity),
	}
}

func (s *PointStore) Capacity() int     { return s.capacity }
func (s *PointStore) RawShipCount() int { return s.rawShipCount }

// Add places a new raw-ship point at index idx (pre-assigned by the ship
// factory, which knows the final mesh topology up front — spec §4.15).
func (s *PointStore) Add(idx PointIndex, structMat *material.Structural, elecMat *material.Electrical, pos mgl32.Vec2, temperature float64) {
	i := int(idx)
	s.positions[i] = pos
	s.velocities[i] = mgl32.Vec2{}
	s.structMat[i] = structMat
	s.elecMat[i] = elecMat
	s.temperature[i] = temperature
	s.mass[i] = structMat.Mass
	s.isDeleted[i] = false
	s.ephemeral[i] = EphemeralNone
	s.decay[i] = 1.0
	s.springLinks[i] = nil
}

// linkSpring records that spring connects idx to other, called by
// SpringStore.Add/Restore.
func (s *PointStore) linkSpring(idx PointIndex, spring SpringIndex, other PointIndex) {
	i := int(idx)
	s.springLinks[i] = append(s.springLinks[i], ConnectedSpring{Spring: spring, Other: other})
}

// unlinkSpring removes spring from idx's adjacency list, called by
// SpringStore.Destroy.
func (s *PointStore) unlinkSpring(idx PointIndex, spring SpringIndex) {
	i := int(idx)
	links := s.springLinks[i]
	for j, l := range links {
		if l.Spring == spring {
			s.springLinks[i] = append(links[:j], links[j+1:]...)
			return
		}
	}
}

// ConnectedSprings returns idx's adjacency list of (spring, other
// endpoint) pairs for springs currently attached, per spec §3's
// "connected-spring list" and Design Note 9's O(degree) neighbour-walk
// rationale. Callers that also need to skip deleted springs (e.g. after
// a saw/detach leaves a stale entry mid-tick) should check
// SpringStore.IsDeleted themselves; entries here are only as fresh as
// the last Add/Destroy/Restore call.
func (s *PointStore) ConnectedSprings(idx PointIndex) []ConnectedSpring {
	return s.springLinks[int(idx)]
}

// AddEphemeral allocates a slot from the ephemeral pool using a rotating
// search starting at nextEphemeralSearch, steals the oldest slot by
// simulation time when forceSteal is true and none is free, and returns
// ErrOutOfEphemeralSlots otherwise (spec §4.1).
func (s *PointStore) AddEphemeral(kind EphemeralKind, pos, vel mgl32.Vec2, structMat *material.Structural, forceSteal bool) (PointIndex, error) {
	return s.AddEphemeralWithLifetime(kind, pos, vel, structMat, forceSteal, defaultEphemeralLifetime(kind))
}

// AddEphemeralWithLifetime is AddEphemeral with an explicit max lifetime
// in seconds (0 for a kind that expires on an external event rather than
// a clock, e.g. a bubble reaching the surface); UpdateEphemerals uses it
// to compute each ephemeral's lifetime progress (spec §4.7).
func (s *PointStore) AddEphemeralWithLifetime(kind EphemeralKind, pos, vel mgl32.Vec2, structMat *material.Structural, forceSteal bool, lifetime float64) (PointIndex, error) {
	n := s.capacity - s.ephemeralStart
	if n <= 0 {
		return NoneIndex, ErrOutOfEphemeralSlots
	}
	start := s.nextEphemeralSearch
	for k := 0; k < n; k++ {
		i := s.ephemeralStart + (start+k)%n
		if s.ephemeral[i] == EphemeralNone {
			s.nextEphemeralSearch = (start + k + 1) % n
			s.allocateEphemeralSlot(i, kind, pos, vel, structMat, lifetime)
			return PointIndex(i), nil
		}
	}
	if !forceSteal {
		return NoneIndex, ErrOutOfEphemeralSlots
	}
	oldest := s.ephemeralStart
	for i := s.ephemeralStart; i < s.capacity; i++ {
		if s.bornAt[i] < s.bornAt[oldest] {
			oldest = i
		}
	}
	s.allocateEphemeralSlot(oldest, kind, pos, vel, structMat, lifetime)
	return PointIndex(oldest), nil
}

// defaultEphemeralLifetime gives each ephemeral kind the lifetime spec
// §4.7's ephemeral-update prose implies (debris/smoke/sparkle/wake track
// progress against a fixed lifetime; a bubble's "lifetime" is instead
// however long it takes to reach the surface).
func defaultEphemeralLifetime(kind EphemeralKind) float64 {
	switch kind {
	case EphemeralBubble:
		return 0
	case EphemeralDebris:
		return 6.0
	case EphemeralSmoke:
		return 5.0
	case EphemeralSparkle:
		return 1.2
	case EphemeralWakeBubble:
		return 2.0
	default:
		return 0
	}
}

func (s *PointStore) allocateEphemeralSlot(i int, kind EphemeralKind, pos, vel mgl32.Vec2, structMat *material.Structural, lifetime float64) {
	s.positions[i] = pos
	s.velocities[i] = vel
	s.forces[i] = mgl32.Vec2{}
	s.staticForces[i] = mgl32.Vec2{}
	s.structMat[i] = structMat
	mass := 0.01
	if structMat != nil {
		mass = structMat.Mass
	}
	s.mass[i] = mass
	s.water[i] = 0
	s.isDeleted[i] = false
	s.ephemeral[i] = kind
	s.decay[i] = 1.0
	s.bornAt[i] = float64(s.clock.Now().UnixNano()) / 1e9
	s.ephemeralAge[i] = 0
	s.ephemeralLifetime[i] = lifetime
	s.ephemeralFast[i] = false
}

// DestroyEphemeral frees an ephemeral slot immediately; per the
// invariant in spec §4.1 a freed ephemeral always reports
// EphemeralNone until reallocated.
func (s *PointStore) DestroyEphemeral(idx PointIndex) {
	i := int(idx)
	s.ephemeral[i] = EphemeralNone
}

// Detach marks a raw-ship point as severed from the mesh, giving it the
// supplied velocity. Damage transitions are one-way within a simulation
// run: only an explicit Restore reverses one (spec §4.1 invariant).
func (s *PointStore) Detach(idx PointIndex, velocity mgl32.Vec2, _ DetachOptions) {
	i := int(idx)
	s.isDeleted[i] = true
	s.velocities[i] = velocity
}

// Restore reverses a prior Detach.
func (s *PointStore) Restore(idx PointIndex) {
	s.isDeleted[int(idx)] = false
}

func (s *PointStore) IsDeleted(idx PointIndex) bool { return s.isDeleted[int(idx)] }

func (s *PointStore) Position(idx PointIndex) mgl32.Vec2   { return s.positions[int(idx)] }
func (s *PointStore) SetPosition(idx PointIndex, p mgl32.Vec2) { s.positions[int(idx)] = p }
func (s *PointStore) Velocity(idx PointIndex) mgl32.Vec2   { return s.velocities[int(idx)] }
func (s *PointStore) SetVelocity(idx PointIndex, v mgl32.Vec2) { s.velocities[int(idx)] = v }

func (s *PointStore) AddDynamicForce(idx PointIndex, f mgl32.Vec2) {
	i := int(idx)
	s.forces[i] = s.forces[i].Add(f)
}
func (s *PointStore) ZeroDynamicForces() {
	for i := range s.forces {
		s.forces[i] = mgl32.Vec2{}
	}
}
func (s *PointStore) DynamicForce(idx PointIndex) mgl32.Vec2 { return s.forces[int(idx)] }
func (s *PointStore) StaticForce(idx PointIndex) mgl32.Vec2  { return s.staticForces[int(idx)] }
func (s *PointStore) SetStaticForce(idx PointIndex, f mgl32.Vec2) { s.staticForces[int(idx)] = f }

func (s *PointStore) Mass(idx PointIndex) float64 { return s.mass[int(idx)] }

// DecayMass reduces a point's current mass exponentially at rate
// (1/s), used by package combustion to consume burning material (spec
// §4.7). Mass never decays below a small floor so integration stays
// numerically stable for a point that is about to be detached.
func (s *PointStore) DecayMass(idx PointIndex, rate, dt float64) {
	i := int(idx)
	s.mass[i] *= math.Exp(-rate * dt)
	if s.mass[i] < 0.01 {
		s.mass[i] = 0.01
	}
}

func (s *PointStore) IntegrationFactor(idx PointIndex) mgl32.Vec2 {
	return s.integrationFactor[int(idx)]
}

// Decay is a point's structural corrosion/grime level, 1.0 when
// factory-fresh; the scrub tool nudges it back toward 1.0 (spec §4.13).
func (s *PointStore) Decay(idx PointIndex) float64      { return s.decay[int(idx)] }
func (s *PointStore) SetDecay(idx PointIndex, v float64) { s.decay[int(idx)] = v }

func (s *PointStore) Water(idx PointIndex) float64      { return s.water[int(idx)] }
func (s *PointStore) SetWater(idx PointIndex, w float64) { s.water[int(idx)] = w }
func (s *PointStore) Temperature(idx PointIndex) float64 { return s.temperature[int(idx)] }
func (s *PointStore) SetTemperature(idx PointIndex, t float64) { s.temperature[int(idx)] = t }

func (s *PointStore) StructuralMaterial(idx PointIndex) *material.Structural { return s.structMat[int(idx)] }
func (s *PointStore) ElectricalMaterial(idx PointIndex) *material.Electrical { return s.elecMat[int(idx)] }

// IsPinned reports whether idx is anchored in place, ignoring gravity and
// integration (the ship-interactions "pin" tool, spec §4.13).
func (s *PointStore) IsPinned(idx PointIndex) bool { return s.pinned[int(idx)] }

// SetPinned sets idx's pinned flag directly.
func (s *PointStore) SetPinned(idx PointIndex, pinned bool) { s.pinned[int(idx)] = pinned }

// TogglePinned flips idx's pinned flag and returns the new value.
func (s *PointStore) TogglePinned(idx PointIndex) bool {
	i := int(idx)
	s.pinned[i] = !s.pinned[i]
	return s.pinned[i]
}

func (s *PointStore) EphemeralKind(idx PointIndex) EphemeralKind { return s.ephemeral[int(idx)] }
func (s *PointStore) IsEphemeral(idx PointIndex) bool            { return s.ephemeral[int(idx)] != EphemeralNone }

// EphemeralProgress returns idx's fraction of its lifetime elapsed (0 if
// its kind has no fixed lifetime, e.g. a bubble), for the upload layer's
// EphemeralParticleRecord.Progress.
func (s *PointStore) EphemeralProgress(idx PointIndex) float64 {
	i := int(idx)
	if s.ephemeralLifetime[i] <= 0 {
		return 0
	}
	p := s.ephemeralAge[i] / s.ephemeralLifetime[i]
	if p > 1 {
		p = 1
	}
	return p
}

// SetEphemeralFastGrowth selects smoke's fast-growth formula (spec
// §4.7's `1.07·(1−e^{−3·progress})` branch) instead of the default
// 5-second linear ramp.
func (s *PointStore) SetEphemeralFastGrowth(idx PointIndex, fast bool) {
	s.ephemeralFast[int(idx)] = fast
}

// UpdateMasses recomputes each non-deleted point's mass target from its
// augmented structural mass, any transient additions (e.g. a carried
// gadget) and absorbed water, then converges current mass toward it at
// the fixed rate the original uses, and refreshes the cached integration
// factor (spec §4.1: "m ← m + 0.12·(target−m)").
func (s *PointStore) UpdateMasses(gp *gameparams.GameParameters, dtPerIteration float64, transientMass []float64) {
	const convergenceRate = 0.12
	for i := 0; i < s.capacity; i++ {
		if s.isDeleted[i] || s.structMat[i] == nil {
			continue
		}
		sm := s.structMat[i]
		waterContribution := 0.0
		if s.water[i] > 0 {
			fill := s.water[i]
			if fill > sm.BuoyancyVolumeFill {
				fill = sm.BuoyancyVolumeFill
			}
			waterContribution = fill * gp.WaterDensity
		}
		transient := 0.0
		if transientMass != nil {
			transient = transientMass[i]
		}
		target := sm.Mass + transient + waterContribution
		s.mass[i] += convergenceRate * (target - s.mass[i])
		if s.mass[i] <= 0 {
			s.mass[i] = sm.Mass
		}
		f := float32(dtPerIteration * dtPerIteration / s.mass[i])
		s.integrationFactor[i] = mgl32.Vec2{f, f}
	}
}
