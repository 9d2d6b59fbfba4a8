package mesh

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const bubbleBuoyancyAccel = 3.0 // m/s^2, upward acceleration while submerged

// UpdateEphemerals ages every live ephemeral point one tick and applies
// its kind's behavior (spec §4.7's ephemeral-update paragraph): bubbles
// accelerate upward and pop at the ocean surface, debris and sparkles
// just track lifetime progress for the upload layer to fade by, smoke
// grows by a slow-linear or fast-exponential formula depending on
// SetEphemeralFastGrowth and is nudged by a random walk orthogonal to
// its velocity, wake bubbles track progress like debris. surfaceHeightAt
// samples the ocean surface at a world x coordinate; pass nil to treat
// the surface as a fixed y=0 plane. Returns every bubble that surfaced
// this tick so the caller can emit AirBubbleSurfaced; the bubble's slot
// has already been freed.
func (s *PointStore) UpdateEphemerals(dt float64, rng *rand.Rand, surfaceHeightAt func(x float64) float64) []PointIndex {
	var surfaced []PointIndex

	for i := s.ephemeralStart; i < s.capacity; i++ {
		kind := s.ephemeral[i]
		if kind == EphemeralNone {
			continue
		}
		idx := PointIndex(i)
		s.ephemeralAge[i] += dt

		switch kind {
		case EphemeralBubble:
			vel := s.velocities[i]
			vel[1] += float32(bubbleBuoyancyAccel * dt)
			pos := s.positions[i].Add(vel.Mul(float32(dt)))
			s.velocities[i] = vel
			s.positions[i] = pos

			surfaceY := float32(0)
			if surfaceHeightAt != nil {
				surfaceY = float32(surfaceHeightAt(float64(pos[0])))
			}
			if pos[1] >= surfaceY {
				s.DestroyEphemeral(idx)
				surfaced = append(surfaced, idx)
			}

		case EphemeralSmoke:
			vel := s.velocities[i]
			perp := mgl32.Vec2{-vel[1], vel[0]}
			if perp.Len() > 1e-6 {
				perp = perp.Normalize()
			}
			walk := (rng.Float64()*2 - 1) * 0.3
			s.positions[i] = s.positions[i].Add(vel.Mul(float32(dt))).Add(perp.Mul(float32(walk * dt)))

			if s.ephemeralLifetime[i] > 0 && s.ephemeralAge[i] >= s.ephemeralLifetime[i] {
				s.DestroyEphemeral(idx)
			}

		default: // debris, sparkle, wake bubble: lifetime-tracked, no motion override
			s.positions[i] = s.positions[i].Add(s.velocities[i].Mul(float32(dt)))
			if s.ephemeralLifetime[i] > 0 && s.ephemeralAge[i] >= s.ephemeralLifetime[i] {
				s.DestroyEphemeral(idx)
			}
		}
	}

	return surfaced
}

// SmokeGrowth returns the current growth factor (0..1ish) for a smoke
// ephemeral, using the slow-linear or fast-exponential formula selected
// by SetEphemeralFastGrowth (spec §4.7).
func (s *PointStore) SmokeGrowth(idx PointIndex) float64 {
	i := int(idx)
	progress := s.EphemeralProgress(idx)
	if s.ephemeralFast[i] {
		return 1.07 * (1 - math.Exp(-3*progress))
	}
	return math.Min(1, s.ephemeralAge[i]/5.0)
}
