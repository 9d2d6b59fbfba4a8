package combustion

import (
	"github.com/drydockgames/hullbreaker/mesh"
)

// ExtinguishReason selects which of the three decay-rate constants
// UpdateHighFrequency uses for a point currently extinguishing (spec
// §4.7).
type ExtinguishReason int

const (
	ExtinguishConsumed ExtinguishReason = iota
	ExtinguishRain
	ExtinguishWater
)

// TriggerExtinguish moves a burning point into the matching
// extinguishing sub-state. It checks only that the point is Burning;
// any water or decay thresholds for smothering are left to the caller.
func (t *Tracker) TriggerExtinguish(idx mesh.PointIndex, reason ExtinguishReason) {
	i := int(idx)
	if t.state[i] != Burning {
		return
	}
	switch reason {
	case ExtinguishRain:
		t.state[i] = ExtinguishingSmotheredRain
	case ExtinguishWater:
		t.state[i] = ExtinguishingSmotheredWater
	default:
		t.state[i] = ExtinguishingConsumed
	}
}

// UpdateHighFrequency runs every simulation tick (unlike
// UpdateLowFrequency): it decays flameDevelopment for any point
// currently extinguishing, returning it to NotBurning once development
// drops to or below 0.02 (spec §4.7).
func (t *Tracker) UpdateHighFrequency() {
	for i := range t.state {
		dev := t.flameDevelopment[i]
		switch t.state[i] {
		case ExtinguishingConsumed:
			maxDev := t.maxDevelopment[i]
			t.flameDevelopment[i] -= 0.0625 * (maxDev - dev + 0.01)
		case ExtinguishingSmotheredRain:
			t.flameDevelopment[i] -= 0.075 * dev
		case ExtinguishingSmotheredWater:
			t.flameDevelopment[i] -= 0.3 * dev
		default:
			continue
		}
		if t.flameDevelopment[i] <= 0.02 {
			t.flameDevelopment[i] = 0
			t.state[i] = NotBurning
			if t.burningCount > 0 {
				t.burningCount--
			}
		}
	}
}

// State returns idx's current combustion state.
func (t *Tracker) State(idx mesh.PointIndex) State { return t.state[int(idx)] }

// FlameDevelopment returns idx's current flame-development value, used
// by the upload layer to size the rendered flame sprite.
func (t *Tracker) FlameDevelopment(idx mesh.PointIndex) float64 {
	return t.flameDevelopment[int(idx)]
}
