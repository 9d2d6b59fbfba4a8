package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/mesh"
)

// ForceField is a stateless value object applied once over every point
// in a ship (spec §4.8). Draw/Swirl/RadialSpaceWarp/Implosion/
// RadialExplosion add dynamic force, which the next Relax sub-step
// integrates and then zeroes; Blast additionally mutates the mesh.
type ForceField struct {
	Center   mgl32.Vec2
	Strength float64
}

// ApplyDraw pulls every point toward Center (spec §4.8 "Draw").
func ApplyDraw(points *mesh.PointStore, center mgl32.Vec2, strength float64) {
	applyRadial(points, center, strength, func(dir mgl32.Vec2) mgl32.Vec2 { return dir })
}

// ApplySwirl pushes every point tangentially around Center (spec §4.8
// "Swirl").
func ApplySwirl(points *mesh.PointStore, center mgl32.Vec2, strength float64) {
	applyRadial(points, center, strength, func(dir mgl32.Vec2) mgl32.Vec2 {
		return mgl32.Vec2{-dir[1], dir[0]}
	})
}

// ApplyRadialExplosion pushes every point away from center (spec §4.8
// "RadialExplosion").
func ApplyRadialExplosion(points *mesh.PointStore, center mgl32.Vec2, strength float64) {
	applyRadial(points, center, strength, func(dir mgl32.Vec2) mgl32.Vec2 { return dir.Mul(-1) })
}

// applyRadial is the shared "F += shape(dir) · strength/sqrt(0.1+dist)"
// shape shared by Draw, Swirl and RadialExplosion (spec §4.8).
func applyRadial(points *mesh.PointStore, center mgl32.Vec2, strength float64, shape func(dirTowardCenter mgl32.Vec2) mgl32.Vec2) {
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		p := points.Position(idx)
		delta := center.Sub(p)
		dist := float64(delta.Len())
		if dist < 1e-6 {
			continue
		}
		dir := delta.Mul(float32(1.0 / dist))
		magnitude := strength / math.Sqrt(0.1+dist)
		f := shape(dir).Mul(float32(magnitude))
		points.AddDynamicForce(idx, f)
	}
}

// ApplyRadialSpaceWarp pushes points inward or outward within a thin
// shell around radius, proportional to distance from the shell
// centreline (spec §4.8 "RadialSpaceWarp").
func ApplyRadialSpaceWarp(points *mesh.PointStore, center mgl32.Vec2, radius, radiusThickness, strength float64) {
	halfThickness := radiusThickness / 2
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		p := points.Position(idx)
		delta := p.Sub(center)
		dist := float64(delta.Len())
		offsetFromShell := dist - radius
		if math.Abs(offsetFromShell) > halfThickness || dist < 1e-6 {
			continue
		}
		dir := delta.Mul(float32(1.0 / dist))
		magnitude := strength * math.Abs(offsetFromShell) / halfThickness
		if offsetFromShell > 0 {
			magnitude = -magnitude // outside centreline: pull inward
		}
		points.AddDynamicForce(idx, dir.Mul(float32(magnitude)))
	}
}

// ApplyImplosion combines an angular component with a radial pull that
// strengthens as points get closer, both scaled by mass/50 (spec §4.8
// "Implosion").
func ApplyImplosion(points *mesh.PointStore, center mgl32.Vec2, strength float64) {
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		p := points.Position(idx)
		delta := center.Sub(p)
		dist := float64(delta.Len())
		if dist < 1e-6 {
			continue
		}
		dir := delta.Mul(float32(1.0 / dist))
		tangent := mgl32.Vec2{-dir[1], dir[0]}

		massScale := points.Mass(idx) / 50.0
		radialMag := strength * massScale / (0.5 + dist)
		angularMag := strength * massScale * 0.3

		f := dir.Mul(float32(radialMag)).Add(tangent.Mul(float32(angularMag)))
		points.AddDynamicForce(idx, f)
	}
}

// BlastOptions controls the Blast field's optional detachment of the
// closest point (spec §4.8 "Blast").
type BlastOptions struct {
	DetachClosest  bool
	MinDebrisSpeed float64
	MaxDebrisSpeed float64
	Rng            *rand.Rand
}

// ApplyBlast identifies the closest non-ephemeral point inside
// blastRadius and, for every point inside the radius, adds a force that
// "flips" it across the blastRadius ring; optionally detaches the
// closest point with a random radial velocity.
func ApplyBlast(points *mesh.PointStore, center mgl32.Vec2, blastRadius, strength float64, opts BlastOptions) {
	closest := mesh.PointIndex(mesh.NoneIndex)
	closestDist := math.MaxFloat64

	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) || points.IsEphemeral(idx) {
			continue
		}
		p := points.Position(idx)
		dist := float64(p.Sub(center).Len())
		if dist >= blastRadius {
			continue
		}
		if dist < closestDist {
			closestDist = dist
			closest = idx
		}

		delta := p.Sub(center)
		if dist < 1e-6 {
			delta = mgl32.Vec2{1, 0}
			dist = 1e-6
		}
		dir := delta.Mul(float32(1.0 / dist))
		// Flip across the ring: points near the center get pushed
		// hardest outward, points near the ring edge barely move.
		flipMagnitude := strength * (blastRadius - dist) / blastRadius
		points.AddDynamicForce(idx, dir.Mul(float32(flipMagnitude)))
	}

	if opts.DetachClosest && closest != mesh.PointIndex(mesh.NoneIndex) {
		rng := opts.Rng
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		p := points.Position(closest)
		dir := p.Sub(center)
		if dir.Len() < 1e-6 {
			dir = mgl32.Vec2{1, 0}
		} else {
			dir = dir.Normalize()
		}
		speed := opts.MinDebrisSpeed + rng.Float64()*(opts.MaxDebrisSpeed-opts.MinDebrisSpeed)
		points.Detach(closest, dir.Mul(float32(speed)), mesh.DetachOptions{GenerateDebris: true})
	}
}

// ApplyExplosionHeat raises the temperature of every point inside
// heatRadius of center, falling off linearly to zero at the radius edge
// (same ring-falloff shape ApplyBlast uses for force), so a gadget or
// combustion explosion's BlastHeat/BlastHeatRadius pair has somewhere to
// land (spec §4.9's "External effects on entry into 'fire' state").
func ApplyExplosionHeat(points *mesh.PointStore, center mgl32.Vec2, heatRadius, heat float64) {
	if heatRadius <= 0 || heat == 0 {
		return
	}
	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		dist := float64(points.Position(idx).Sub(center).Len())
		if dist >= heatRadius {
			continue
		}
		gain := heat * (heatRadius - dist) / heatRadius
		points.SetTemperature(idx, points.Temperature(idx)+gain)
	}
}
