// Package gadgets implements the per-gadget state machines and their
// container (spec §4.9): RC/Impact/Timer/AntiMatter/FireExtinguishing
// bombs and the PhysicsProbe. Every gadget is a plain (state, timestamp)
// pair driven by an injected simclock.Clock rather than a coroutine
// (Design Note 9), and the container keeps an explicit secondary index
// by Kind instead of the original's dynamic_cast-based subset selection
// (Design Note 9's "Dynamic_cast selection of subset").
package gadgets

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/simclock"
)

// Kind tags which concrete FSM a Gadget runs (spec §4.9 table).
type Kind int

const (
	KindRCBomb Kind = iota
	KindImpactBomb
	KindTimerBomb
	KindAntiMatterBomb
	KindFireExtinguishingBomb
	KindPhysicsProbe
)

// NeighborhoodRadius is the distance within which a detached point or
// destroyed spring counts as "nearby" for OnNeighborhoodDisturbed (spec
// §4.9).
const NeighborhoodRadius = 1.5

// Gadget holds the common attributes from spec §3/§4.9 plus whichever
// kind-specific sub-state fields below apply to its Kind; unused fields
// for a given Kind are simply left at their zero value.
type Gadget struct {
	ID    uuid.UUID
	Kind  Kind
	Point mesh.PointIndex
	Plane mesh.PlaneID

	State            int
	StateEnteredAt   time.Time
	NextTransitionAt time.Time

	pulseCount    int // RC ping count, timer fuse step count
	// fadeFrame counts the fireext/exploding fade frames.
	fadeFrame     int
	preImplosionP float64 // AntiMatter's p in "radius = 7 + 100·p"

	removed bool
}

// explosion kind constants for ExplosionRequest.ExplosionKind.
const (
	ExplosionDeflagration = iota
	ExplosionImplosion
)

// ExplosionRequest is what Container.Update returns for the caller
// (package simcore) to apply to the mesh via package physics's force
// fields and point heat injection — gadgets never mutates PointStore
// forces/temperature directly, keeping the mesh-effect application in
// one place (spec §4.9 "External effects on entry into 'fire' state").
type ExplosionRequest struct {
	Point         mesh.PointIndex
	Kind          events.GadgetKind
	ExplosionKind int
	BlastRadius   float64
	BlastForce    float64
	BlastHeat     float64
	BlastHeatRadius float64
}

// Container runs every placed gadget's FSM each tick (spec §4.9: "The
// gadget container runs update on all gadgets each tick, removes
// expired ones, and notifies gadgets when their attached spring is
// destroyed or a nearby point detaches").
type Container struct {
	clock   simclock.Clock
	gadgets []*Gadget
	byKind  map[Kind][]*Gadget
}

// NewContainer allocates an empty gadget container driven by clock.
func NewContainer(clock simclock.Clock) *Container {
	return &Container{clock: clock, byKind: make(map[Kind][]*Gadget)}
}

// Add places a new gadget of kind at point, in its initial FSM state,
// and emits BombPlaced.
func (c *Container) Add(kind Kind, point mesh.PointIndex, plane mesh.PlaneID, shipID events.ShipID, sink events.Sink) *Gadget {
	g := &Gadget{
		ID:             uuid.New(),
		Kind:           kind,
		Point:          point,
		Plane:          plane,
		StateEnteredAt: c.clock.Now(),
	}
	switch kind {
	case KindRCBomb:
		g.State = int(rcIdlePingOff)
		g.NextTransitionAt = g.StateEnteredAt.Add(rcSlowOff)
	case KindTimerBomb:
		g.State = int(timerSlowFuseBurning)
		g.NextTransitionAt = g.StateEnteredAt.Add(timerSlowFuseDuration)
	case KindAntiMatterBomb:
		g.State = int(amContained)
	case KindPhysicsProbe:
		g.State = int(probePingOff)
		g.NextTransitionAt = g.StateEnteredAt.Add(probePulse)
	default:
		g.State = int(idleWaiting)
	}
	c.gadgets = append(c.gadgets, g)
	c.byKind[kind] = append(c.byKind[kind], g)
	sink.OnBombPlaced(events.BombPlacedPayload{Ship: shipID, Point: events.PointID(point), Kind: toEventKind(kind)})
	return g
}

// ByKind returns every live gadget of the given kind, replacing the
// original's dynamic_cast-based subset enumeration (Design Note 9).
func (c *Container) ByKind(kind Kind) []*Gadget { return c.byKind[kind] }

// All returns every live gadget.
func (c *Container) All() []*Gadget { return c.gadgets }

// Remove detaches gadget g before it fires. Per spec §4.9, an
// AntiMatter bomb may only be removed while Contained; other kinds may
// always be removed before Expired. Emits BombRemoved and nothing else
// (spec §8 property 7: no BombExplosion follows a removal).
func (c *Container) Remove(g *Gadget, shipID events.ShipID, sink events.Sink) {
	if g.removed {
		return
	}
	if g.Kind == KindAntiMatterBomb && antiMatterState(g.State) != amContained {
		return
	}
	g.removed = true
	sink.OnBombRemoved(events.BombRemovedPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: toEventKind(g.Kind)})
}

// Detonate externally triggers an RC bomb's fast-ping/lead-in sequence
// (the gameplay "detonator" button); a no-op for any other kind or any
// RC bomb already past IdlePingOn.
func (c *Container) Detonate(g *Gadget, shipID events.ShipID, sink events.Sink) {
	if g.Kind != KindRCBomb || g.removed {
		return
	}
	s := rcState(g.State)
	if s != rcIdlePingOff && s != rcIdlePingOn {
		return
	}
	now := c.clock.Now()
	g.State = int(rcDetonating)
	g.StateEnteredAt = now
	g.pulseCount = 1
	g.NextTransitionAt = now.Add(rcFastPing)
	sink.OnRCBombPing(events.RCBombPingPayload{Ship: shipID, Point: events.PointID(g.Point)})
}

// Trigger externally fires an Impact Bomb's explosion sequence (the
// gameplay "collision" signal) or a Timer Bomb's fuse (immediate
// fast-fuse skip), matching the "Idle -> TriggeringExplosion" and
// "-> FastFuseBurning" edges in spec §4.9's state table that the spec
// leaves unnamed as explicit entry points.
func (c *Container) Trigger(g *Gadget) {
	if g.removed {
		return
	}
	now := c.clock.Now()
	switch g.Kind {
	case KindImpactBomb:
		if impactState(g.State) == impactIdle {
			g.State = int(impactTriggering)
			g.StateEnteredAt = now
			g.NextTransitionAt = now
		}
	case KindTimerBomb:
		if s := timerState(g.State); s == timerSlowFuseBurning || s == timerFastFuseBurning {
			g.State = int(timerFastFuseBurning)
			g.StateEnteredAt = now
			g.NextTransitionAt = now
		}
	}
}

// NotifyPointDetached runs OnNeighborhoodDisturbed for every gadget
// whose attached point lies within NeighborhoodRadius of a just-detached
// point, using a radius-squared distance test (spec §4.9).
func (c *Container) NotifyPointDetached(detached mesh.PointIndex, points *mesh.PointStore) {
	p := points.Position(detached)
	for _, g := range c.gadgets {
		if g.removed || g.Point == detached {
			continue
		}
		d := points.Position(g.Point).Sub(p)
		if d.Dot(d) <= NeighborhoodRadius*NeighborhoodRadius {
			c.Trigger(g)
		}
	}
}

// NotifySpringDestroyed runs OnNeighborhoodDisturbed for every gadget
// near the midpoint of a just-destroyed spring (spec §4.9).
func (c *Container) NotifySpringDestroyed(a, b mesh.PointIndex, points *mesh.PointStore) {
	mid := points.Position(a).Add(points.Position(b)).Mul(0.5)
	for _, g := range c.gadgets {
		if g.removed {
			continue
		}
		d := points.Position(g.Point).Sub(mid)
		if d.Dot(d) <= NeighborhoodRadius*NeighborhoodRadius {
			c.Trigger(g)
		}
	}
}

// PointQuery answers the mesh questions a gadget FSM needs about its
// attached point, without gadgets importing package combustion or
// electrical and creating an import cycle with simcore.
type PointQuery struct {
	Temperature func(mesh.PointIndex) float64
	IsSubmerged func(mesh.PointIndex) bool
	IsBurning   func(mesh.PointIndex) bool
	Position    func(mesh.PointIndex) mgl32.Vec2
	Velocity    func(mesh.PointIndex) mgl32.Vec2
	Pressure    func(mesh.PointIndex) float64
}

// Update advances every live gadget's FSM by one tick, removing any
// whose attached point was detached (self-detach, Design Note 9) or
// that reached Expired, and returns the set of explosions that fired
// this tick for the caller to apply to the mesh.
func (c *Container) Update(points *mesh.PointStore, gp *gameparams.GameParameters, q PointQuery, shipID events.ShipID, sink events.Sink) []ExplosionRequest {
	var explosions []ExplosionRequest
	live := c.gadgets[:0]

	for _, g := range c.gadgets {
		if g.removed {
			continue
		}
		if points.IsDeleted(g.Point) {
			sink.OnBombRemoved(events.BombRemovedPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: toEventKind(g.Kind)})
			g.removed = true
			continue
		}

		if exp, expired := c.updateOne(g, gp, q, shipID, sink); exp != nil {
			explosions = append(explosions, *exp)
			if expired {
				g.removed = true
				continue
			}
		} else if expired {
			g.removed = true
			continue
		}
		live = append(live, g)
	}
	c.gadgets = live
	c.rebuildIndex()
	return explosions
}

func (c *Container) rebuildIndex() {
	for k := range c.byKind {
		c.byKind[k] = c.byKind[k][:0]
	}
	for _, g := range c.gadgets {
		c.byKind[g.Kind] = append(c.byKind[g.Kind], g)
	}
}

func (c *Container) updateOne(g *Gadget, gp *gameparams.GameParameters, q PointQuery, shipID events.ShipID, sink events.Sink) (*ExplosionRequest, bool) {
	now := c.clock.Now()
	if q.Temperature != nil && q.Temperature(g.Point) >= gp.BombsTemperatureTrigger {
		c.thermalTrigger(g, now)
	}
	switch g.Kind {
	case KindRCBomb:
		return updateRCBomb(g, now, shipID, sink), rcState(g.State) == rcExpired
	case KindImpactBomb:
		return updateImpactBomb(g, now, gp, shipID, sink), impactState(g.State) == impactExpired
	case KindTimerBomb:
		return updateTimerBomb(g, now, q, gp, shipID, sink), timerState(g.State) == timerExpired || timerState(g.State) == timerDefused
	case KindAntiMatterBomb:
		return updateAntiMatterBomb(g, now, gp, shipID, sink), antiMatterState(g.State) == amExpired
	case KindFireExtinguishingBomb:
		return updateFireExt(g, now, q, gp, shipID, sink), fireExtState(g.State) == fireExtExpired
	case KindPhysicsProbe:
		updatePhysicsProbe(g, now, q, shipID, sink)
		return nil, false
	}
	return nil, false
}

// thermalTrigger fast-forwards a bomb straight to its detonation
// sequence once its attached point crosses BombsTemperatureTrigger
// (spec §4.9 common transition).
func (c *Container) thermalTrigger(g *Gadget, now time.Time) {
	switch g.Kind {
	case KindRCBomb:
		if s := rcState(g.State); s == rcIdlePingOff || s == rcIdlePingOn {
			g.State = int(rcDetonationLeadIn)
			g.StateEnteredAt = now
			g.NextTransitionAt = now.Add(rcLeadIn)
		}
	case KindImpactBomb:
		if impactState(g.State) == impactIdle {
			g.State = int(impactTriggering)
			g.StateEnteredAt = now
			g.NextTransitionAt = now
		}
	case KindTimerBomb:
		if s := timerState(g.State); s == timerSlowFuseBurning {
			g.State = int(timerFastFuseBurning)
			g.StateEnteredAt = now
			g.NextTransitionAt = now
		}
	}
}

func toEventKind(k Kind) events.GadgetKind {
	switch k {
	case KindRCBomb:
		return events.GadgetRCBomb
	case KindImpactBomb:
		return events.GadgetImpactBomb
	case KindTimerBomb:
		return events.GadgetTimerBomb
	case KindAntiMatterBomb:
		return events.GadgetAntiMatterBomb
	case KindFireExtinguishingBomb:
		return events.GadgetFireExtinguishingBomb
	default:
		return events.GadgetPhysicsProbe
	}
}

const idleWaiting = 0
