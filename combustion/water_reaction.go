package combustion

import (
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/material"
	"github.com/drydockgames/hullbreaker/mesh"
)

// WaterReactionResult describes a point that just finished its
// Unreacted→ReactionTriggered→Consumed arc and should explode (spec
// §4.7's sodium-in-water reaction).
type WaterReactionResult struct {
	Point       mesh.PointIndex
	BlastRadius float64
	BlastForce  float64
}

// UpdateWaterReaction arms ReactionTriggered once a sodium-bearing
// point's water exceeds half its material's RustReceptivity,
// then selects up to 25 of the most-overdue triggered points per tick to
// consume into an explosion (spec §4.7). newlyTriggered is every point
// that just crossed Unreacted→ReactionTriggered this call, for the
// caller to emit WaterReactionPayload.
func (t *Tracker) UpdateWaterReaction(points *mesh.PointStore, gp *gameparams.GameParameters, simTime float64) (results []WaterReactionResult, newlyTriggered []mesh.PointIndex) {
	var triggered []candidate

	for i := 0; i < points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if points.IsDeleted(idx) {
			continue
		}
		mat := points.StructuralMaterial(idx)
		if mat == nil || mat.CombustionType != material.CombustionExplodes {
			continue
		}
		switch t.reaction[i] {
		case Unreacted:
			if points.Water(idx) > 0.5*mat.RustReceptivity {
				t.reaction[i] = ReactionTriggered
				t.overdueSince[i] = simTime
				newlyTriggered = append(newlyTriggered, idx)
			}
		case ReactionTriggered:
			triggered = append(triggered, candidate{idx, simTime - t.overdueSince[i]})
		}
	}

	chosen := topK(triggered, 25)
	results = make([]WaterReactionResult, 0, len(chosen))
	radius := 5.0
	if gp.IsUltraViolentMode {
		radius *= 4
	}
	for _, cd := range chosen {
		t.reaction[int(cd.idx)] = Consumed
		results = append(results, WaterReactionResult{
			Point:       cd.idx,
			BlastRadius: radius,
			BlastForce:  3e6,
		})
	}
	return results, newlyTriggered
}

// ReactionStateOf returns idx's current water-reaction state.
func (t *Tracker) ReactionStateOf(idx mesh.PointIndex) ReactionState { return t.reaction[int(idx)] }
