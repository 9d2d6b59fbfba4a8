package simcore

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gadgets"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/interactions"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/physics"
)

// applyGadgetExplosion turns an ExplosionRequest from gadgets.Container.
// Update into mesh-level force/heat, the one place in the repo package
// gadgets' "mesh effect application in one place" comment (gadgets.go)
// refers to: gadgets never touches package physics directly, so
// Deflagration/Implosion requests flow back through here.
func applyGadgetExplosion(d *interactions.Dispatcher, req gadgets.ExplosionRequest, gp *gameparams.GameParameters, rng *rand.Rand) {
	center := d.Points.Position(req.Point)

	switch req.ExplosionKind {
	case gadgets.ExplosionImplosion:
		physics.ApplyImplosion(d.Points, center, req.BlastForce*gp.BlastForceAdjustment)
	default:
		radius := req.BlastRadius * gp.BlastRadiusAdjustment
		physics.ApplyBlast(d.Points, center, radius, req.BlastForce*gp.BlastForceAdjustment, physics.BlastOptions{
			DetachClosest:  true,
			MinDebrisSpeed: 4,
			MaxDebrisSpeed: 20,
			Rng:            rng,
		})
		if req.BlastHeat > 0 && req.BlastHeatRadius > 0 {
			physics.ApplyExplosionHeat(d.Points, center, req.BlastHeatRadius, req.BlastHeat*gp.BlastHeatAdjustment)
		}
	}
}

// applyCombustionExplosion handles a MaterialCombustion::Explosion
// candidate that just transitioned to combustion.Exploded (spec §4.7):
// blast force/radius/heat come from the point's own material, scaled by
// the global adjustments, doubled in ultra-violent mode (spec §4.8's
// "Blast").
func applyCombustionExplosion(d *interactions.Dispatcher, idx mesh.PointIndex, gp *gameparams.GameParameters, rng *rand.Rand) {
	mat := d.Points.StructuralMaterial(idx)
	if mat == nil {
		return
	}
	pos := d.Points.Position(idx)
	radius := mat.ExplosiveCombustionForceRadius * gp.BlastRadiusAdjustment
	force := mat.ExplosiveCombustionForce * gp.BlastForceAdjustment
	heatRadius := mat.ExplosiveCombustionHeatRadius * gp.BlastRadiusAdjustment
	heat := mat.ExplosiveCombustionHeat * gp.BlastHeatAdjustment
	if gp.IsUltraViolentMode {
		radius *= 2
		force *= 2
	}

	d.Sink.OnCombustionExplosion(events.CombustionExplosionPayload{
		Ship: d.Ship, Point: events.PointID(idx), BlastRadius: radius, BlastForce: force, BlastHeat: heat,
	})
	physics.ApplyBlast(d.Points, pos, radius, force, physics.BlastOptions{
		DetachClosest: true, MinDebrisSpeed: 6, MaxDebrisSpeed: 30, Rng: rng,
	})
	if heat > 0 && heatRadius > 0 {
		physics.ApplyExplosionHeat(d.Points, pos, heatRadius, heat)
	}
	d.DetachPoint(idx, mgl32.Vec2{}, true)
}

// applyWaterReactionExplosion handles a sodium/water reaction's
// Consumed transition (spec §4.7): blastRadius=5 (×4 in ultra-violent),
// blastForce=3e6, Sodium type.
func applyWaterReactionExplosion(d *interactions.Dispatcher, idx mesh.PointIndex, radius, force float64, gp *gameparams.GameParameters, rng *rand.Rand) {
	pos := d.Points.Position(idx)
	if gp.IsUltraViolentMode {
		radius *= 4
	}
	d.Sink.OnWaterReactionExplosion(events.WaterReactionExplosionPayload{
		Ship: d.Ship, Point: events.PointID(idx), BlastRadius: radius, BlastForce: force,
	})
	physics.ApplyBlast(d.Points, pos, radius, force, physics.BlastOptions{
		DetachClosest: true, MinDebrisSpeed: 10, MaxDebrisSpeed: 40, Rng: rng,
	})
	d.DetachPoint(idx, mgl32.Vec2{}, true)
}
