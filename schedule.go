package engine

// Stage is one named phase of the per-tick pipeline. The order stages are
// registered in is the order they run in, mirroring spec §2's fixed
// pipeline: environment, then low-frequency combustion, then mechanical
// relaxation (preceded by the mass update), then high-frequency
// combustion/ephemeral/electrical/gadgets, then event flush.
type Stage struct {
	Name string
}

var (
	Prelude       = &Stage{Name: "Prelude"}       // C12 wind/storm/clouds
	EnvironmentUp = &Stage{Name: "EnvironmentUp"} // C10/C11 ocean surface & floor
	PreUpdate     = &Stage{Name: "PreUpdate"}     // C7 low-frequency combustion candidate selection
	Update        = &Stage{Name: "Update"}        // mass update, C6 mechanical relaxation (N inner iterations)
	PostUpdate    = &Stage{Name: "PostUpdate"}    // C7 high-frequency combustion/ephemeral, C5, C9
	Finale        = &Stage{Name: "Finale"}        // event sink flush
)

var defaultStages = []*Stage{Prelude, EnvironmentUp, PreUpdate, Update, PostUpdate, Finale}

type systemBuilder struct {
	system System
	stage  *Stage
}

// SystemIn builds a schedulable system bound to a stage, e.g.
// app.UseSystem(engine.SystemIn(engine.Update, mySystemFn)).
func SystemIn(stage *Stage, system System) systemBuilder {
	return systemBuilder{system: system, stage: stage}
}
