// Package interactions implements the ship tool dispatcher (spec §4.13):
// a flat set of world-coordinate operations an external input layer
// invokes against one ship's mesh each tick a tool is active. Every
// entry point iterates the ship's points/springs with a radius test and
// performs its mutation directly on the mesh/combustion/electrical/
// gadgets packages it's handed, the same "plain function over shared
// stores" shape package physics uses.
package interactions

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/combustion"
	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gadgets"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/physics"
)

// Dispatcher bundles the stores and trackers a ship's tool operations
// act on, so every entry point in spec §4.13's table becomes a method
// with the same receiver instead of a long parameter list repeated on
// every call.
type Dispatcher struct {
	Points     *mesh.PointStore
	Springs    *mesh.SpringStore
	Triangles  *mesh.TriangleStore
	Frontiers  *mesh.FrontierStore
	Combustion *combustion.Tracker
	Gadgets    *gadgets.Container
	GameParams *gameparams.GameParameters
	Ship       events.ShipID
	Sink       events.Sink
	Rng        *rand.Rand
}

func squareDist(p, center mgl32.Vec2) float64 {
	d := p.Sub(center)
	return float64(d.Dot(d))
}

// DestroyAt detaches live, connected points within radiusFraction ·
// gp.DestroyRadius, probabilistically (certain at the center, falling
// off to zero at the radius edge), and destroys any air-bubble
// ephemeral caught in the same radius outright (spec §4.13, grounded on
// Ship::DestroyAt).
func (d *Dispatcher) DestroyAt(center mgl32.Vec2, radiusFraction float64) {
	radius := d.GameParams.DestroyRadius * radiusFraction
	if d.GameParams.IsUltraViolentMode {
		radius *= 10
	}
	sqRadius := radius * radius

	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) {
			continue
		}
		sqDist := squareDist(d.Points.Position(idx), center)
		if sqDist >= sqRadius {
			continue
		}

		if d.Points.IsEphemeral(idx) {
			if d.Points.EphemeralKind(idx) == mesh.EphemeralBubble {
				d.Points.DestroyEphemeral(idx)
			}
			continue
		}
		if !d.hasLiveSpring(idx) {
			continue
		}

		prob := 1.0
		if sqRadius >= 1.0 {
			frac := sqDist / sqRadius
			prob = (1 - frac) * (1 - frac)
		}
		if d.Rng.Float64() > prob {
			continue
		}

		speed := 1.0 + d.Rng.Float64()*4.0
		angle := d.Rng.Float64() * 2 * math.Pi
		vel := mgl32.Vec2{float32(math.Cos(angle) * speed), float32(math.Sin(angle) * speed)}
		pos := d.Points.Position(idx)
		mat := d.Points.StructuralMaterial(idx)
		d.Points.Detach(idx, vel, mesh.DetachOptions{GenerateDebris: true})
		d.Sink.OnDestroy(events.DestroyPayload{Ship: d.Ship, Point: events.PointID(idx)})
		d.spawnDebris(pos, vel, mat)
		d.destroySpringsOf(idx)
		if d.Gadgets != nil {
			d.Gadgets.NotifyPointDetached(idx, d.Points)
		}
	}
}

// DetachPoint detaches idx with the given velocity, cascades into its
// incident springs/triangles/frontiers, emits OnDestroy and notifies any
// gadget container, and spawns a debris ephemeral if requested. Shared
// by combustion explosions, water-reaction explosions and gadget
// explosions, which all need DestroyAt's per-point removal sequence
// without DestroyAt's own radius/probability selection.
func (d *Dispatcher) DetachPoint(idx mesh.PointIndex, vel mgl32.Vec2, generateDebris bool) {
	if d.Points.IsDeleted(idx) {
		return
	}
	pos := d.Points.Position(idx)
	mat := d.Points.StructuralMaterial(idx)
	d.Points.Detach(idx, vel, mesh.DetachOptions{GenerateDebris: generateDebris})
	d.Sink.OnDestroy(events.DestroyPayload{Ship: d.Ship, Point: events.PointID(idx)})
	if generateDebris {
		d.spawnDebris(pos, vel, mat)
	}
	d.destroySpringsOf(idx)
	if d.Gadgets != nil {
		d.Gadgets.NotifyPointDetached(idx, d.Points)
	}
}

// spawnDebris fires one debris ephemeral off a just-detached point, with
// a small velocity spread around the detach velocity (spec §4.13's
// DetachOptions.GenerateDebris).
func (d *Dispatcher) spawnDebris(pos, vel mgl32.Vec2, mat *material.Structural) {
	spread := mgl32.Vec2{float32(d.Rng.Float64()*2 - 1), float32(d.Rng.Float64()*2 - 1)}
	debrisVel := vel.Add(spread)
	d.Points.AddEphemeral(mesh.EphemeralDebris, pos, debrisVel, mat, false)
}

func (d *Dispatcher) hasLiveSpring(idx mesh.PointIndex) bool {
	return len(d.Points.ConnectedSprings(idx)) > 0
}

// destroySpringsOf destroys every live spring incident to idx, cascading
// into their owning triangles via mesh.SpringStore/TriangleStore's own
// Destroy bookkeeping. Walks a snapshot of idx's connected-spring
// adjacency list, since destroySpring mutates that same list as it goes.
func (d *Dispatcher) destroySpringsOf(idx mesh.PointIndex) {
	links := d.Points.ConnectedSprings(idx)
	springs := make([]mesh.SpringIndex, len(links))
	for i, l := range links {
		springs[i] = l.Spring
	}
	for _, s := range springs {
		d.destroySpring(s)
	}
}

func (d *Dispatcher) destroySpring(s mesh.SpringIndex) {
	t0, t1 := d.Springs.SuperTriangles(s)
	if t0 != mesh.NoneIndex {
		d.Triangles.Destroy(t0, d.Springs, d.Frontiers)
	}
	if t1 != mesh.NoneIndex {
		d.Triangles.Destroy(t1, d.Springs, d.Frontiers)
	}
	a, b := d.Springs.PointA(s), d.Springs.PointB(s)
	d.Springs.Destroy(s, d.Points)
	d.Sink.OnBreak(events.BreakPayload{Ship: d.Ship, Spring: events.SpringID(s), PointA: events.PointID(a), PointB: events.PointID(b), Strain: d.Springs.Strain(s)})
	if d.Gadgets != nil {
		d.Gadgets.NotifySpringDestroyed(a, b, d.Points)
	}
}

// SawThrough destroys every live spring whose segment properly
// intersects the (start,end) saw stroke, cascading into owning
// triangles (spec §4.13, grounded on Ship::SawThrough).
func (d *Dispatcher) SawThrough(start, end mgl32.Vec2) int {
	cut := 0
	for si := 0; si < d.Springs.Capacity(); si++ {
		s := mesh.SpringIndex(si)
		if d.Springs.IsDeleted(s) {
			continue
		}
		a, b := d.Springs.PointA(s), d.Springs.PointB(s)
		if segmentsIntersect(start, end, d.Points.Position(a), d.Points.Position(b)) {
			d.destroySpring(s)
			d.Sink.OnSawed(events.SawedPayload{Ship: d.Ship, Spring: events.SpringID(s)})
			cut++
		}
	}
	return cut
}

func segmentsIntersect(p1, p2, p3, p4 mgl32.Vec2) bool {
	d1 := cross(p4.Sub(p3), p1.Sub(p3))
	d2 := cross(p4.Sub(p3), p2.Sub(p3))
	d3 := cross(p2.Sub(p1), p3.Sub(p1))
	d4 := cross(p2.Sub(p1), p4.Sub(p1))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(a, b mgl32.Vec2) float32 { return a[0]*b[1] - a[1]*b[0] }

// HeatBlasterAt injects (or, with a negative flowFraction, removes) heat
// at every non-ephemeral point within radius, smoothstep-attenuated to
// zero at the radius edge (spec §4.13, grounded on Ship::ApplyHeatBlasterAt).
func (d *Dispatcher) HeatBlasterAt(center mgl32.Vec2, radius, flowFraction, dt float64) bool {
	heat := d.GameParams.HeatBlasterHeatFlow * 1000.0 * flowFraction * dt
	if d.GameParams.IsUltraViolentMode {
		heat *= 10
	}
	sqRadius := radius * radius

	found := false
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		sqDist := squareDist(d.Points.Position(idx), center)
		if sqDist >= sqRadius {
			continue
		}
		smoothing := 1 - smoothstep(0, radius, math.Sqrt(sqDist))
		mat := d.Points.StructuralMaterial(idx)
		heatCapacity := 500.0
		if mat != nil && mat.SpecificHeat > 0 {
			heatCapacity = mat.SpecificHeat
		}
		deltaT := heat * smoothing / heatCapacity
		newTemp := d.Points.Temperature(idx) + deltaT
		if newTemp < 0.1 {
			newTemp = 0.1
		}
		d.Points.SetTemperature(idx, newTemp)
		found = true
	}
	return found
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// ExtinguishFireAt smothers combustion (ExtinguishConsumed) and cools
// every burning point within radius (spec §4.13, grounded on
// Ship::ExtinguishFireAt).
func (d *Dispatcher) ExtinguishFireAt(center mgl32.Vec2, radius float64) bool {
	sqRadius := radius * radius
	if d.GameParams.IsUltraViolentMode {
		sqRadius *= 10
	}
	found := false
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		if squareDist(d.Points.Position(idx), center) >= sqRadius {
			continue
		}
		found = true
		if d.Combustion.State(idx) == combustion.Burning {
			d.Combustion.TriggerExtinguish(idx, combustion.ExtinguishWater)
			newTemp := d.Points.Temperature(idx) - 60
			if newTemp < 0 {
				newTemp = 0
			}
			d.Points.SetTemperature(idx, newTemp)
		}
	}
	return found
}

// DrawTo applies one tick's worth of the Draw force field centered on
// target, scaled by strengthFraction (spec §4.8/§4.13). The caller
// re-invokes this every tick the tool stays active; the field itself is
// stateless between calls.
func (d *Dispatcher) DrawTo(target mgl32.Vec2, strengthFraction float64) {
	const baseForce = 50000.0
	strength := baseForce * strengthFraction
	if d.GameParams.IsUltraViolentMode {
		strength *= 20
	}
	physics.ApplyDraw(d.Points, target, strength)
}

// SwirlAt applies one tick's worth of the Swirl force field (spec
// §4.8/§4.13).
func (d *Dispatcher) SwirlAt(target mgl32.Vec2, strengthFraction float64) {
	const baseForce = 50000.0
	strength := baseForce * strengthFraction
	if d.GameParams.IsUltraViolentMode {
		strength *= 20
	}
	physics.ApplySwirl(d.Points, target, strength)
}

// TogglePinAt flips the pinned flag of the single closest live point
// within gp.RepairRadius of target, if any (spec §4.13).
func (d *Dispatcher) TogglePinAt(target mgl32.Vec2) (mesh.PointIndex, bool) {
	closest, found := d.nearestLivePoint(target, d.GameParams.RepairRadius)
	if !found {
		return mesh.NoneIndex, false
	}
	d.Points.TogglePinned(closest)
	return closest, true
}

func (d *Dispatcher) nearestLivePoint(target mgl32.Vec2, radius float64) (mesh.PointIndex, bool) {
	sqRadius := radius * radius
	best := mesh.PointIndex(mesh.NoneIndex)
	bestSq := math.MaxFloat64
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		sq := squareDist(d.Points.Position(idx), target)
		if sq < sqRadius && sq < bestSq {
			bestSq = sq
			best = idx
		}
	}
	return best, best != mesh.PointIndex(mesh.NoneIndex)
}

// InjectBubblesAt spawns one air-bubble ephemeral at target if target is
// below the current ocean surface (spec §4.13, grounded on
// Ship::InjectBubblesAt); oceanSurfaceY is the surface height at
// target's x, read by the caller from package environment.
func (d *Dispatcher) InjectBubblesAt(target mgl32.Vec2, oceanSurfaceY float64) bool {
	if float64(target[1]) >= oceanSurfaceY {
		return false
	}
	_, err := d.Points.AddEphemeral(mesh.EphemeralBubble, target, mgl32.Vec2{0, 1}, nil, true)
	return err == nil
}

// FloodAt adds (or, with a negative quantityFraction, removes) water at
// every non-hull point within gp.InjectedBubblesRadius of target (spec
// §4.13, grounded on Ship::FloodAt).
func (d *Dispatcher) FloodAt(target mgl32.Vec2, quantityFraction float64) bool {
	const baseFloodQuantity = 5.0
	quantity := baseFloodQuantity * quantityFraction
	if d.GameParams.IsUltraViolentMode {
		quantity *= 10
	}
	sqRadius := d.GameParams.InjectedBubblesRadius * d.GameParams.InjectedBubblesRadius

	found := false
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		mat := d.Points.StructuralMaterial(idx)
		if mat != nil && mat.IsHull {
			continue
		}
		if squareDist(d.Points.Position(idx), target) >= sqRadius {
			continue
		}
		w := d.Points.Water(idx)
		if quantity >= 0 {
			w += quantity
		} else {
			drop := -quantity
			if drop > w {
				drop = w
			}
			w -= drop
		}
		d.Points.SetWater(idx, w)
		found = true
	}
	return found
}

// ScrubThrough nudges every point's decay toward 1 (clean) within
// scrubRadius of the (start,end) stroke, with magnitude proportional to
// how close the point is to the stroke's centerline (spec §4.13,
// grounded on Ship::ScrubThrough).
func (d *Dispatcher) ScrubThrough(start, end mgl32.Vec2, scrubRadius float64) bool {
	segment := end.Sub(start)
	if segment.Len() < 1e-6 {
		return false
	}
	segment = segment.Normalize()
	normal := mgl32.Vec2{-segment[1], segment[0]}

	scrubbed := false
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		offset := d.Points.Position(idx).Sub(start)
		distance := math.Abs(float64(offset.Dot(normal)))
		if distance > scrubRadius {
			continue
		}
		decay := d.Points.Decay(idx)
		decay += 0.5 * (1 - decay) * (scrubRadius - distance) / scrubRadius
		d.Points.SetDecay(idx, decay)
		scrubbed = true
	}
	return scrubbed
}

// ToggleBombAt places a gadget of kind at the nearest live point within
// gp.RepairRadius of target, or removes one already there (spec
// §4.13's toggle*BombAt family, grounded on Ship::Toggle*BombAt).
func (d *Dispatcher) ToggleBombAt(target mgl32.Vec2, kind gadgets.Kind, plane mesh.PlaneID) (*gadgets.Gadget, bool) {
	closest, found := d.nearestLivePoint(target, d.GameParams.RepairRadius)
	if !found {
		return nil, false
	}
	for _, g := range d.Gadgets.All() {
		if g.Point == closest {
			d.Gadgets.Remove(g, d.Ship, d.Sink)
			return g, false
		}
	}
	return d.Gadgets.Add(kind, closest, plane, d.Ship, d.Sink), true
}
