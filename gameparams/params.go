// Package gameparams holds the single mutable GameParameters value that
// is passed by pointer into every per-tick entry point in the
// simulation (spec §6). Components cache adjustable values and
// recompute derived coefficients when the generation counter changes.
package gameparams

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GameParameters is the flat bag of tunables every component reads.
// Field groupings follow the component that primarily owns them, but any
// component may read any field — this is intentionally a single
// structure, not one per subsystem, matching spec §6.
type GameParameters struct {
	// Global
	NumMechanicalDynamicsIterations float64 `yaml:"num_mechanical_dynamics_iterations"`
	NumMechanicalDynamicsIterationsAdjustment float64 `yaml:"num_mechanical_dynamics_iterations_adjustment"`
	SpringStiffnessAdjustment       float64 `yaml:"spring_stiffness_adjustment"`
	SpringDampingAdjustment         float64 `yaml:"spring_damping_adjustment"`
	SpringStrengthAdjustment        float64 `yaml:"spring_strength_adjustment"`
	GlobalDampingAdjustment         float64 `yaml:"global_damping_adjustment"`

	Gravity          Vec2   `yaml:"gravity"`
	AirFrictionDragCoefficient float64 `yaml:"air_friction_drag_coefficient"`
	WaterFrictionDragCoefficient float64 `yaml:"water_friction_drag_coefficient"`

	// Water
	WaterDensity     float64 `yaml:"water_density"`
	WaterTemperature float64 `yaml:"water_temperature"`
	WaterIntrusionAdjustment float64 `yaml:"water_intrusion_adjustment"`
	WaterDiffusionSpeedAdjustment float64 `yaml:"water_diffusion_speed_adjustment"`
	WaterCrazinessFactor float64 `yaml:"water_craziness_factor"`

	// Combustion
	CombustionSpeedAdjustment float64 `yaml:"combustion_speed_adjustment"`
	CombustionHeatAdjustment  float64 `yaml:"combustion_heat_adjustment"`
	MaxBurningParticlesPerShip int    `yaml:"max_burning_particles_per_ship"`

	// Heat
	ThermalConductivityAdjustment float64 `yaml:"thermal_conductivity_adjustment"`
	HeatDissipationAdjustment     float64 `yaml:"heat_dissipation_adjustment"`

	// Explosions
	BlastForceAdjustment float64 `yaml:"blast_force_adjustment"`
	BlastRadiusAdjustment float64 `yaml:"blast_radius_adjustment"`
	BlastHeatAdjustment   float64 `yaml:"blast_heat_adjustment"`
	IsUltraViolentMode    bool    `yaml:"is_ultra_violent_mode"`

	// Bombs / gadgets
	BombsTemperatureTrigger float64 `yaml:"bombs_temperature_trigger"`
	BaseBombBlastForce      float64 `yaml:"base_bomb_blast_force"`
	BaseBombBlastHeat       float64 `yaml:"base_bomb_blast_heat"`

	// Ocean / wind / storm
	SeaDepth             float64 `yaml:"sea_depth"`
	OceanFloorBumpiness  float64 `yaml:"ocean_floor_bumpiness"`
	OceanFloorDetailAmplification float64 `yaml:"ocean_floor_detail_amplification"`
	WindSpeedBase        float64 `yaml:"wind_speed_base"`
	DoModulateWind       bool    `yaml:"do_modulate_wind"`
	NumberOfClouds       int     `yaml:"number_of_clouds"`
	StormDuration        float64 `yaml:"storm_duration"`
	StormStrengthAdjustment float64 `yaml:"storm_strength_adjustment"`

	// Tools
	DestroyRadius      float64 `yaml:"destroy_radius"`
	RepairRadius       float64 `yaml:"repair_radius"`
	HeatBlasterRadius  float64 `yaml:"heat_blaster_radius"`
	HeatBlasterHeatFlow float64 `yaml:"heat_blaster_heat_flow"`
	InjectedBubblesRadius float64 `yaml:"injected_bubbles_radius"`

	// Generation counter, bumped by the owner whenever any field above
	// changes, so caches of derived coefficients know to recompute
	// (spec §6: "components cache adjustable values and recompute
	// derived coefficients on change").
	generation uint64
}

// Vec2 is a minimal serializable 2-vector used only at the config-file
// boundary; the simulation itself uses mgl32.Vec2 (see package mesh).
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Default returns the stock tuning values, chosen to match the
// end-to-end scenarios in spec §8 (e.g. Gravity.Y = -9.81).
func Default() *GameParameters {
	return &GameParameters{
		NumMechanicalDynamicsIterations:           8,
		NumMechanicalDynamicsIterationsAdjustment: 1.0,
		SpringStiffnessAdjustment:                 1.0,
		SpringDampingAdjustment:                   1.0,
		SpringStrengthAdjustment:                  1.0,
		GlobalDampingAdjustment:                   1.0,
		Gravity:                       Vec2{X: 0, Y: -9.81},
		AirFrictionDragCoefficient:    0.3,
		WaterFrictionDragCoefficient:  0.6,
		WaterDensity:                  1000.0,
		WaterTemperature:              288.15,
		WaterIntrusionAdjustment:      1.0,
		WaterDiffusionSpeedAdjustment: 1.0,
		WaterCrazinessFactor:          1.0,
		CombustionSpeedAdjustment:     1.0,
		CombustionHeatAdjustment:      1.0,
		MaxBurningParticlesPerShip:    100,
		ThermalConductivityAdjustment: 1.0,
		HeatDissipationAdjustment:     1.0,
		BlastForceAdjustment:          1.0,
		BlastRadiusAdjustment:         1.0,
		BlastHeatAdjustment:           1.0,
		IsUltraViolentMode:            false,
		BombsTemperatureTrigger:       373.15,
		BaseBombBlastForce:            50000.0,
		BaseBombBlastHeat:             1000.0,
		SeaDepth:                      100.0,
		OceanFloorBumpiness:           1.0,
		OceanFloorDetailAmplification: 1.0,
		WindSpeedBase:                 5.0,
		DoModulateWind:                true,
		NumberOfClouds:                10,
		StormDuration:                 250.0,
		StormStrengthAdjustment:       1.0,
		DestroyRadius:                 0.75,
		RepairRadius:                  2.0,
		HeatBlasterRadius:             6.0,
		HeatBlasterHeatFlow:           2000.0,
		InjectedBubblesRadius:         2.0,
	}
}

// Generation returns a counter that changes whenever Bump is called,
// letting caches detect staleness without comparing every field.
func (p *GameParameters) Generation() uint64 { return p.generation }

// Bump must be called by any code path that mutates GameParameters
// (manual edits, Load, a file-watch reload) so dependent derived-value
// caches recompute.
func (p *GameParameters) Bump() { p.generation++ }

// Load reads a YAML file into a fresh GameParameters seeded from
// Default(), so a partial file only overrides the fields it sets.
func Load(path string) (*GameParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	p.Bump()
	return p, nil
}
