// Package electrical runs the connectivity graph and lamp state machine
// described in spec §4.5: a point with an Electrical material is either
// a generator (self-powered source), a cable (passthrough), or a lamp
// (visible indicator of connectivity and wetness).
package electrical

import (
	"math/rand"
	"time"

	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/simclock"
)

// LampState is the five-state machine from spec §4.5.
type LampState int

const (
	LampInitial LampState = iota
	LampOn
	LampFlickerA
	LampFlickerB
	LampOff
)

// WetWaterThreshold is the point water level above which a lamp is
// treated as wet for failure-sampling purposes.
const WetWaterThreshold = 0.05

// Network tracks, per electrical point, its last-seen connectivity visit
// sequence number and lamp FSM state, grounded on Gekko3D-gekko's
// per-entity-array bookkeeping style (mod_spatialgrid.go) adapted to a
// fixed point-index space instead of dynamic entities.
type Network struct {
	clock simclock.Clock
	rng   *rand.Rand

	lastConnectedSeq []uint64
	currentSeq       uint64

	lampState      []LampState
	lampPulseIndex []int
	lampLastWetCheck []time.Time
	lampFailed     []bool
}

// NewNetwork allocates per-point electrical bookkeeping sized to the
// point store's capacity.
func NewNetwork(clock simclock.Clock, pointCapacity int, seed int64) *Network {
	return &Network{
		clock:            clock,
		rng:              rand.New(rand.NewSource(seed)),
		lastConnectedSeq: make([]uint64, pointCapacity),
		lampState:        make([]LampState, pointCapacity),
		lampPulseIndex:   make([]int, pointCapacity),
		lampLastWetCheck: make([]time.Time, pointCapacity),
		lampFailed:       make([]bool, pointCapacity),
	}
}

// Propagate performs one connectivity pass: every generator point seeds
// a BFS over its connected-spring adjacency list (spec §3, Design Note
// 9), and every electrical point reached within it has lastConnectedSeq
// set to the new current sequence number. Grounded on spec §4.5's
// "connectivity visit sequence number" mechanism, reusing the same
// monotonic-sequence idea as the frontier tracker's BFS
// (mesh.FrontierStore's HasRegionFrontierOfType) so neither needs a
// per-tick visited-array reset.
func (n *Network) Propagate(points *mesh.PointStore) {
	n.currentSeq++
	seq := n.currentSeq

	var queue []mesh.PointIndex

	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		em := points.ElectricalMaterial(idx)
		if em == nil || em.ElectricalType != material.ElectricalGenerator {
			continue
		}
		if n.lastConnectedSeq[i] != seq {
			n.lastConnectedSeq[i] = seq
			queue = append(queue, idx)
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, link := range points.ConnectedSprings(p) {
			other := link.Other
			if points.IsDeleted(other) || n.lastConnectedSeq[int(other)] == seq {
				continue
			}
			n.lastConnectedSeq[int(other)] = seq
			queue = append(queue, other)
		}
	}
}

// IsConnected reports whether idx was reached by the most recent Propagate.
func (n *Network) IsConnected(idx mesh.PointIndex) bool {
	return n.lastConnectedSeq[int(idx)] == n.currentSeq
}

// UpdateLamp advances idx's lamp FSM by one tick (spec §4.5): it needs a
// matching connectivity sequence number and dry enough water to be lit,
// samples wet-failure once per wall-clock second, and walks the
// FlickerA/FlickerB pulse sequences into LampOff, from which a
// connected, non-failed lamp relights to LampOn.
func (n *Network) UpdateLamp(idx mesh.PointIndex, points *mesh.PointStore) {
	i := int(idx)
	em := points.ElectricalMaterial(idx)
	if em == nil || em.ElectricalType != material.ElectricalLamp {
		return
	}

	connected := n.IsConnected(idx)
	wet := points.Water(idx) > WetWaterThreshold

	now := n.clock.Now()
	if now.Sub(n.lampLastWetCheck[i]) >= time.Second {
		n.lampLastWetCheck[i] = now
		if wet {
			n.lampFailed[i] = n.rng.Float64() < em.WetFailureRate*1.0
		} else {
			n.lampFailed[i] = false
		}
	}

	switch n.lampState[i] {
	case LampInitial:
		if connected && !n.lampFailed[i] {
			n.lampState[i] = LampOn
		} else {
			n.lampState[i] = LampOff
		}

	case LampOn:
		if !connected || n.lampFailed[i] {
			if n.rng.Float64() < 0.5 {
				n.lampState[i] = LampFlickerA
			} else {
				n.lampState[i] = LampFlickerB
			}
			n.lampPulseIndex[i] = 0
		}

	case LampFlickerA:
		n.lampPulseIndex[i]++
		if n.lampPulseIndex[i] >= 4*2 { // 4 on/off pulses
			n.lampState[i] = LampOff
		}

	case LampFlickerB:
		n.lampPulseIndex[i]++
		if n.lampPulseIndex[i] >= 6*2+1 { // 6 pulses, one long pulse mid-way
			n.lampState[i] = LampOff
		}

	case LampOff:
		if connected && !n.lampFailed[i] {
			n.lampState[i] = LampOn
		}
	}
}

// LampStateOf returns idx's current lamp FSM state; callers use
// IsLampLit to decide whether a pulse within FlickerA/FlickerB is on.
func (n *Network) LampStateOf(idx mesh.PointIndex) LampState { return n.lampState[int(idx)] }

// IsLampLit reports whether idx's lamp should currently render as on,
// accounting for the FlickerA/FlickerB pulse pattern.
func (n *Network) IsLampLit(idx mesh.PointIndex) bool {
	i := int(idx)
	switch n.lampState[i] {
	case LampOn:
		return true
	case LampFlickerA, LampFlickerB:
		return n.lampPulseIndex[i]%2 == 0
	default:
		return false
	}
}
