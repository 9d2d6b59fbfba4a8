// Package simcore wires every leaf component (packages mesh, physics,
// combustion, electrical, gadgets, environment, interactions) into the
// World/Ship ownership structure and fixed per-tick pipeline spec §2 and
// §5 describe: "the simulation World uniquely owns Ships, Ocean
// surface/floor, Wind, Storm, Clouds. Each Ship uniquely owns its
// Points/Springs/Triangles/Frontiers/ElectricalElements/Gadgets
// containers." This package is the one place that is allowed to know
// about every other package; every leaf package stays ignorant of
// simcore to avoid import cycles (Design Note 9's "reify... as an
// explicit... interface" pattern extended to the whole tick).
package simcore

import (
	"math/rand"
	"time"

	"github.com/drydockgames/hullbreaker/combustion"
	"github.com/drydockgames/hullbreaker/electrical"
	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gadgets"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/interactions"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/simclock"
)

// lowFrequencyInterval is how often combustion candidate selection runs
// (spec §4.7: "each low-frequency tick (~few Hz)").
const lowFrequencyInterval = 0.25 // seconds, ~4Hz

// ShipConfig sizes the containers NewShip allocates.
type ShipConfig struct {
	RawShipCapacity   int
	EphemeralCapacity int
	SpringCapacity    int
	TriangleCapacity  int
	Plane             mesh.PlaneID
	Seed              int64
}

// Ship is one destructible vessel: the mesh containers from spec §3
// plus the per-ship trackers (combustion, electrical, gadgets) that
// walk them every tick.
type Ship struct {
	ID    events.ShipID
	Plane mesh.PlaneID

	Points     *mesh.PointStore
	Springs    *mesh.SpringStore
	Triangles  *mesh.TriangleStore
	Frontiers  *mesh.FrontierStore
	Electrical *electrical.Network
	Combustion *combustion.Tracker
	Gadgets    *gadgets.Container

	rng                *rand.Rand
	lowFreqAccumulator float64
}

// NewShip allocates every container a ship owns, sized per cfg.
func NewShip(id events.ShipID, clock simclock.Clock, cfg ShipConfig) *Ship {
	capacity := cfg.RawShipCapacity + cfg.EphemeralCapacity
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Ship{
		ID:         id,
		Plane:      cfg.Plane,
		Points:     mesh.NewPointStore(clock, cfg.RawShipCapacity, cfg.EphemeralCapacity),
		Springs:    mesh.NewSpringStore(cfg.SpringCapacity),
		Triangles:  mesh.NewTriangleStore(cfg.TriangleCapacity),
		Frontiers:  mesh.NewFrontierStore(cfg.SpringCapacity, capacity),
		Electrical: electrical.NewNetwork(clock, capacity, cfg.Seed+1),
		Combustion: combustion.NewTracker(rand.New(rand.NewSource(cfg.Seed+2)), capacity),
		Gadgets:    gadgets.NewContainer(clock),
		rng:        rng,
	}
}

// neighborCount counts idx's live incident springs, the "connected
// spring count" spec §4.7 uses to widen a burning point's
// maxDevelopment.
func (s *Ship) neighborCount(idx mesh.PointIndex) int {
	return len(s.Points.ConnectedSprings(idx))
}

// Dispatcher builds an interactions.Dispatcher bound to this ship's
// containers, for an external input layer to call tool methods on
// during PreUpdate/PostUpdate when the player is actively using a tool
// this tick (spec §4.13, §5: "may mutate C1/C2/C3/C4").
func (s *Ship) Dispatcher(gp *gameparams.GameParameters, sink events.Sink) *interactions.Dispatcher {
	return &interactions.Dispatcher{
		Points:     s.Points,
		Springs:    s.Springs,
		Triangles:  s.Triangles,
		Frontiers:  s.Frontiers,
		Combustion: s.Combustion,
		Gadgets:    s.Gadgets,
		GameParams: gp,
		Ship:       s.ID,
		Sink:       sink,
		Rng:        s.rng,
	}
}

// pointQuery builds the gadgets.PointQuery closures this ship answers
// with, using w's ocean surface for submersion and a gameplay-only
// pressure proxy (spec §1 Non-goals: "'pressure' is a gameplay
// quantity, not a PDE" — water content is the only pressure-like signal
// package mesh's Point currently tracks, so BeginImplosion/PhysicsProbe
// readings derive it from that rather than a real pressure field).
func (s *Ship) pointQuery(surfaceHeightAt func(x float64) float64) gadgets.PointQuery {
	return gadgets.PointQuery{
		Temperature: s.Points.Temperature,
		Position:    s.Points.Position,
		Velocity:    s.Points.Velocity,
		IsBurning: func(idx mesh.PointIndex) bool {
			return s.Combustion.State(idx) == combustion.Burning
		},
		IsSubmerged: func(idx mesh.PointIndex) bool {
			if surfaceHeightAt == nil {
				return s.Points.Position(idx)[1] < 0
			}
			p := s.Points.Position(idx)
			return float64(p[1]) < surfaceHeightAt(float64(p[0]))
		},
		Pressure: func(idx mesh.PointIndex) float64 {
			return 1.0 + 0.5*s.Points.Water(idx)
		},
	}
}

// updateElectrical runs one connectivity propagation plus every
// electrical point's lamp FSM tick, emitting OnLightFlicker on the
// transitions into FlickerA/FlickerB (spec §4.5).
func (s *Ship) updateElectrical(sink events.Sink) {
	s.Electrical.Propagate(s.Points)
	for i := 0; i < s.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if s.Points.IsDeleted(idx) || s.Points.ElectricalMaterial(idx) == nil {
			continue
		}
		before := s.Electrical.LampStateOf(idx)
		s.Electrical.UpdateLamp(idx, s.Points)
		after := s.Electrical.LampStateOf(idx)
		if (after == electrical.LampFlickerA || after == electrical.LampFlickerB) && before != after {
			sink.OnLightFlicker(events.LightFlickerPayload{Ship: s.ID, Point: events.PointID(idx)})
		}
	}
}

// ArmGadgetAt finds the gadget attached to idx and fires its external
// "fire now" trigger: BeginImplosion for a Contained anti-matter bomb,
// Detonate for an idle RC bomb — the tool-dispatch equivalent of an
// external input layer's "detonate" command, which only has a point
// index to go on (spec §4.9's RC/AntiMatter externally-triggered
// transitions).
func (s *Ship) ArmGadgetAt(idx mesh.PointIndex, now time.Time, sink events.Sink) {
	for _, g := range s.Gadgets.All() {
		if g.Point != idx {
			continue
		}
		switch g.Kind {
		case gadgets.KindAntiMatterBomb:
			g.BeginImplosion(now, s.ID, sink)
		case gadgets.KindRCBomb:
			s.Gadgets.Detonate(g, s.ID, sink)
		}
	}
}
