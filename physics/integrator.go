// Package physics runs the spring relaxation integrator (spec §4.6) and
// the stateless force fields applied by gadget explosions and ship
// interaction tools (spec §4.8).
package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/environment"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/mesh"
)

// FloorCollisionEvery is K in spec §4.6: ocean-floor collision is only
// applied on every K-th inner iteration.
const FloorCollisionEvery = 2

// Relax runs N = gp.NumMechanicalDynamicsIterations inner steps of Hooke
// force application, Verlet-style integration and (every K-th step)
// ocean-floor collision, then a single UpdateStrains pass that may
// report broken springs — grounded on Gekko3D-gekko's physics.go
// integration-loop shape, generalized from rigid bodies to the mesh's
// per-point SoA arrays (spec §4.6).
func Relax(points *mesh.PointStore, springs *mesh.SpringStore, floor *environment.OceanFloor, gp *gameparams.GameParameters, dt float64) []mesh.SpringIndex {
	n := int(gp.NumMechanicalDynamicsIterations)
	if n < 1 {
		n = 1
	}
	dtPerIter := dt / float64(n)

	for iter := 0; iter < n; iter++ {
		springs.ApplyHookeForces(points)
		integrate(points, dtPerIter, gp)
		if iter%FloorCollisionEvery == FloorCollisionEvery-1 {
			applyFloorCollisions(points, floor)
		}
		points.ZeroDynamicForces()
	}

	baseStrength := 1.0
	return springs.UpdateStrains(points, gp, baseStrength)
}

// integrate advances every non-deleted point one sub-step: p ← p +
// v·dt + (Fdyn+Fstatic)·dt²/m, then derives v from the position delta
// (spec §4.6 step 2).
func integrate(points *mesh.PointStore, dt float64, gp *gameparams.GameParameters) {
	gravity := mgl32.Vec2{float32(gp.Gravity.X), float32(gp.Gravity.Y)}
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		mat := points.StructuralMaterial(idx)
		if mat == nil {
			continue
		}
		if points.IsPinned(idx) {
			points.SetVelocity(idx, mgl32.Vec2{})
			continue
		}

		mass := points.Mass(idx)
		gravityForce := gravity.Mul(float32(mass))

		total := points.DynamicForce(idx).Add(points.StaticForce(idx)).Add(gravityForce)
		intFactor := points.IntegrationFactor(idx)
		displacement := total.Mul(intFactor[0])

		oldPos := points.Position(idx)
		vel := points.Velocity(idx)
		newPos := oldPos.Add(vel.Mul(float32(dt))).Add(displacement)

		points.SetPosition(idx, newPos)
		if dt > 0 {
			points.SetVelocity(idx, newPos.Sub(oldPos).Mul(float32(1.0/dt)))
		}
	}
}

// applyFloorCollisions reflects velocity and applies Coulomb-style
// friction for any point that has sunk below the ocean floor at its x
// coordinate (spec §4.6).
func applyFloorCollisions(points *mesh.PointStore, floor *environment.OceanFloor) {
	if floor == nil {
		return
	}
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		pos := points.Position(idx)
		floorY := floor.HeightAt(float64(pos[0]))
		if float64(pos[1]) >= floorY {
			continue
		}

		mat := points.StructuralMaterial(idx)
		elasticity := 0.6
		staticFriction := 0.4
		kineticFriction := 0.3
		if mat != nil {
			// Structural materials don't currently carry explicit
			// friction/elasticity coefficients (spec §4.6 leaves the
			// exact per-material values to the ship factory's table);
			// harder/denser materials bounce less and grip more.
			elasticity = 0.8 - 0.2*mat.Stiffness
			staticFriction = 0.3 + 0.2*mat.RustReceptivity
			kineticFriction = staticFriction * 0.8
		}

		normal := floor.NormalAt(float64(pos[0]))
		vel := points.Velocity(idx)

		vn := vel.Dot(normal)
		if vn < 0 {
			reflected := vel.Sub(normal.Mul(2 * vn))
			vel = reflected.Mul(float32(elasticity))
		}

		tangent := mgl32.Vec2{-normal[1], normal[0]}
		vt := vel.Dot(tangent)
		frictionCoeff := kineticFriction
		if vt*vt < 1e-4 {
			frictionCoeff = staticFriction
		}
		vel = vel.Sub(tangent.Mul(vt * float32(frictionCoeff)))

		pos[1] = float32(floorY)
		points.SetPosition(idx, pos)
		points.SetVelocity(idx, vel)
	}
}
