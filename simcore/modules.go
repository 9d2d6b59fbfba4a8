package simcore

import (
	engine "github.com/drydockgames/hullbreaker"
	"github.com/drydockgames/hullbreaker/events"
)

// worldModule registers the already-built *World as the engine's single
// World resource. It exists only so NewWorld can hand the App a fully
// constructed World before any system runs; EnvironmentModule and
// ShipSimulationModule's systems all take *World as their resource
// parameter rather than per-ship resources, since a World's []*Ship
// doesn't fit the engine's one-instance-per-type resource table.
type worldModule struct{ world *World }

func (m worldModule) Install(app *engine.App, cmd *engine.Commands) {
	cmd.AddResources(m.world)
}

// EnvironmentModule runs the shared ocean/wind/storm/cloud environment
// that every ship floats on: Prelude (C12) and EnvironmentUp (C10/C11)
// from spec §2's pipeline.
type EnvironmentModule struct{}

func (EnvironmentModule) Install(app *engine.App, cmd *engine.Commands) {
	app.UseSystem(engine.SystemIn(engine.Prelude, environmentPrelude))
	app.UseSystem(engine.SystemIn(engine.EnvironmentUp, environmentSurfaceStep))
}

// environmentPrelude is spec §2's Prelude stage (C12): advance sim time,
// pick up any hot-reloaded GameParameters, then step storm/wind/clouds.
func environmentPrelude(w *World, t *engine.Time) {
	dt := t.Dt
	w.SimTime += dt

	if gen := w.Params.Generation(); gen != w.gpGeneration {
		w.gpGeneration = gen
		w.Floor.Recompute(w.Params)
	}

	stormParams := w.Storm.Update(dt, w.Params)
	w.Wind.Update(dt, w.Params, stormParams.WindGradient*w.Params.WindSpeedBase)
	w.Clouds.Update(dt, float64(w.Wind.Vector().Len()), w.Params.NumberOfClouds, stormParams)
	w.buffer.OnWindSpeedUpdated(events.WindSpeedUpdatedPayload{Speed: float64(w.Wind.Vector().Len())})
}

// environmentSurfaceStep is spec §2's EnvironmentUp stage (C10/C11).
func environmentSurfaceStep(w *World, t *engine.Time) {
	w.Surface.Step(t.Dt, -w.Params.Gravity.Y)
}

// ShipSimulationModule runs every ship's own PreUpdate/Update/PostUpdate
// stages, parallel across ships when there's more than one (spec §5's
// recommended region (b)); the tick boundary after Update is the
// barrier, so PreUpdate/Update/PostUpdate each join fully before the
// next begins. Finale flushes the tick's buffered events.
type ShipSimulationModule struct{}

func (ShipSimulationModule) Install(app *engine.App, cmd *engine.Commands) {
	app.UseSystem(engine.SystemIn(engine.PreUpdate, shipPreUpdate))
	app.UseSystem(engine.SystemIn(engine.Update, shipUpdate))
	app.UseSystem(engine.SystemIn(engine.PostUpdate, shipPostUpdate))
	app.UseSystem(engine.SystemIn(engine.Finale, shipFinaleFlush))
}

func shipPreUpdate(w *World, t *engine.Time) {
	dt := t.Dt
	w.Threads.Parallelize(len(w.Ships), func(i int) { w.preUpdateShip(w.Ships[i], dt) })
}

func shipUpdate(w *World, t *engine.Time) {
	dt := t.Dt
	w.Threads.Parallelize(len(w.Ships), func(i int) { w.updateShip(w.Ships[i], dt) })
}

func shipPostUpdate(w *World, t *engine.Time) {
	dt := t.Dt
	w.Threads.Parallelize(len(w.Ships), func(i int) { w.postUpdateShip(w.Ships[i], dt) })
}

func shipFinaleFlush(w *World) {
	w.buffer.Flush(w.EventSink)
}
