// Package material defines the structural and electrical material
// records a point in the mesh references. Loading these from a real
// ship/material-database file is an external collaborator's job (spec
// §6); this package only defines the shape the core depends on and a
// small built-in set so the core is usable without a file loader.
package material

// CombustionKind distinguishes the two candidate lists a point's
// material can enqueue it into (spec §4.7).
type CombustionKind int

const (
	CombustionNone CombustionKind = iota
	CombustionBurns
	CombustionExplodes
)

// ElectricalKind is the role an ElectricalMaterial plays in the
// connectivity graph (spec §4.5).
type ElectricalKind int

const (
	ElectricalNone ElectricalKind = iota
	ElectricalLamp
	ElectricalCable
	ElectricalGenerator
)

// RGBA is a minimal render-color record; it never influences physics.
type RGBA struct{ R, G, B, A uint8 }

// Structural is the structural material every point references (spec
// §4.14, grounded on the field usage throughout Points.cpp/Springs.cpp).
type Structural struct {
	Name string

	Strength   float64 // used as effectiveStrength input, §4.2
	Mass       float64 // kg, feeds AugmentedMaterialMass
	Stiffness  float64 // spring stiffness multiplier, §4.2
	VolumetricMassFraction float64

	IsHull bool
	IsRope bool

	BuoyancyVolumeFill  float64 // m^3 of water the point can "hold" before it stops adding mass, §4.1
	WaterDiffusionSpeed float64 // §4.7 water reaction / intrusion
	WaterRetention      float64

	RustReceptivity float64

	CombustionType                  CombustionKind
	IgnitionTemperature              float64 // Kelvin
	ExplosiveCombustionForce         float64
	ExplosiveCombustionForceRadius   float64
	ExplosiveCombustionHeat          float64
	ExplosiveCombustionHeatRadius    float64

	SpecificHeat                 float64
	ThermalConductivity           float64
	ThermalExpansionCoefficient   float64

	RenderColor RGBA
}

// Electrical is the optional electrical material a point may also
// reference alongside its Structural material (spec §4.5).
type Electrical struct {
	Name string

	ElectricalType ElectricalKind
	IsSelfPowered  bool

	HeatGenerated               float64
	MinimumOperatingTemperature float64
	MaximumOperatingTemperature float64

	Luminiscence   float64
	LightSpread    float64
	WetFailureRate float64 // failures per second, §4.5
}

// LargestStructuralMass is the heaviest calibration mass of the
// combustion decay fit in package combustion (spec §4.7's "2400Kg"
// point). It is a fixed constant: nothing checks it against the built-in
// materials below, whose heaviest (Iron) has Mass 78.5.
const LargestStructuralMass = 2400.0

func Iron() *Structural {
	return &Structural{
		Name: "Iron", Strength: 2.0, Mass: 7850.0 * 0.01, Stiffness: 1.0,
		VolumetricMassFraction: 1.0, IsHull: true,
		BuoyancyVolumeFill: 0.005, WaterDiffusionSpeed: 0.2, WaterRetention: 0.1,
		RustReceptivity: 1.0,
		CombustionType:  CombustionNone, IgnitionTemperature: 3000,
		SpecificHeat: 449, ThermalConductivity: 80, ThermalExpansionCoefficient: 0.0000118,
		RenderColor: RGBA{120, 120, 130, 255},
	}
}

func Wood() *Structural {
	return &Structural{
		Name: "Wood", Strength: 0.5, Mass: 0.6, Stiffness: 0.3,
		VolumetricMassFraction: 1.0,
		BuoyancyVolumeFill: 0.01, WaterDiffusionSpeed: 0.6, WaterRetention: 0.4,
		RustReceptivity: 0.0,
		CombustionType:  CombustionBurns, IgnitionTemperature: 533,
		SpecificHeat: 1700, ThermalConductivity: 0.15, ThermalExpansionCoefficient: 0.000005,
		RenderColor: RGBA{133, 94, 66, 255},
	}
}

func Rope() *Structural {
	r := Wood()
	r.Name = "Rope"
	r.IsRope = true
	r.Mass = 0.2
	r.Strength = 0.3
	return r
}

func Glass() *Structural {
	return &Structural{
		Name: "Glass", Strength: 0.05, Mass: 2.5, Stiffness: 1.0,
		VolumetricMassFraction: 1.0,
		BuoyancyVolumeFill: 0.002, WaterDiffusionSpeed: 0.05, WaterRetention: 0.0,
		CombustionType: CombustionNone, IgnitionTemperature: 2000,
		SpecificHeat: 840, ThermalConductivity: 1.0, ThermalExpansionCoefficient: 0.0000085,
		RenderColor: RGBA{180, 220, 230, 120},
	}
}

func Sodium() *Structural {
	return &Structural{
		Name: "Sodium", Strength: 0.1, Mass: 0.97, Stiffness: 0.1,
		VolumetricMassFraction: 1.0,
		BuoyancyVolumeFill: 0.01, WaterDiffusionSpeed: 1.0, WaterRetention: 0.0,
		CombustionType: CombustionExplodes, IgnitionTemperature: 370.9,
		SpecificHeat: 1230, ThermalConductivity: 140, ThermalExpansionCoefficient: 0.00007,
		RenderColor: RGBA{220, 220, 255, 255},
	}
}

func LampFilament() *Electrical {
	return &Electrical{
		Name: "LampFilament", ElectricalType: ElectricalLamp, IsSelfPowered: false,
		HeatGenerated: 100, MinimumOperatingTemperature: 0, MaximumOperatingTemperature: 1800,
		Luminiscence: 1.0, LightSpread: 5.0, WetFailureRate: 2.0,
	}
}

func Cable() *Electrical {
	return &Electrical{Name: "Cable", ElectricalType: ElectricalCable, IsSelfPowered: false}
}

func Generator() *Electrical {
	return &Electrical{Name: "Generator", ElectricalType: ElectricalGenerator, IsSelfPowered: true}
}
