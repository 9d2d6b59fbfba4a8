package simcore

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	engine "github.com/drydockgames/hullbreaker"
	"github.com/drydockgames/hullbreaker/environment"
	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gameparams"
	"github.com/drydockgames/hullbreaker/mesh"
	"github.com/drydockgames/hullbreaker/physics"
	"github.com/drydockgames/hullbreaker/simclock"
	"github.com/drydockgames/hullbreaker/upload"
)

// OceanSamples/OceanDx pick a 512-sample shallow-water grid, one sample
// per world unit, matching spec §3's N=512.
const (
	OceanSamples = 512
	OceanDx      = 1.0
)

// World owns everything a ship doesn't own itself (spec §3's "Ownership
// summary"): the ships, the shared ocean/wind/storm/cloud environment,
// the game parameters every component reads, and the thread pool
// parallel regions borrow.
type World struct {
	Params  *gameparams.GameParameters
	Clock   simclock.Clock
	Threads *ThreadManager

	Ships []*Ship

	Surface *environment.OceanSurface
	Floor   *environment.OceanFloor
	Wind    *environment.Wind
	Storm   *environment.Storm
	Clouds  *environment.CloudField

	EventSink  events.Sink
	UploadSink upload.Sink

	SimTime float64

	rng          *rand.Rand
	gpGeneration uint64
	nextShipID   int32
	buffer       *events.BufferedSink

	app *engine.App
}

// WorldConfig groups NewWorld's tuning knobs, beyond GameParameters.
type WorldConfig struct {
	Seed          int64
	WindDirection mgl32.Vec2
	Workers       int // ThreadManager pool size; 0 lets NewThreadManager pick runtime.NumCPU()
	LogPrefix     string
	Debug         bool
}

// NewWorld allocates the shared environment and thread pool, then wires
// the per-tick pipeline together as an engine.App (spec §2): Prelude/
// EnvironmentUp via EnvironmentModule, PreUpdate/Update/PostUpdate/
// Finale via ShipSimulationModule, both operating on *World as the
// single registered resource rather than per-ship resources, since the
// engine's resource table holds at most one instance per concrete type
// and a World's []*Ship doesn't fit that shape. Call AddShip for each
// ship before the first Tick.
func NewWorld(params *gameparams.GameParameters, clock simclock.Clock, sink events.Sink, uploadSink upload.Sink, cfg WorldConfig) *World {
	if uploadSink == nil {
		uploadSink = upload.NopSink{}
	}
	dir := cfg.WindDirection
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec2{1, 0}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	w := &World{
		Params:     params,
		Clock:      clock,
		Threads:    NewThreadManager(cfg.Workers),
		Surface:    environment.NewOceanSurface(OceanSamples, OceanDx),
		Floor:      environment.NewOceanFloor(params.SeaDepth),
		Wind:       environment.NewWind(rand.New(rand.NewSource(cfg.Seed+1)), dir),
		Storm:      &environment.Storm{},
		Clouds:     environment.NewCloudField(rand.New(rand.NewSource(cfg.Seed + 2))),
		EventSink:  sink,
		UploadSink: uploadSink,
		rng:        rng,
		buffer:     events.NewBufferedSink(),
	}
	w.gpGeneration = params.Generation()

	prefix := cfg.LogPrefix
	if prefix == "" {
		prefix = "hullbreaker"
	}
	w.app = engine.NewApp()
	w.app.UseModules(
		engine.LoggingModule{Prefix: prefix, Debug: cfg.Debug},
		engine.TimeModule{},
		worldModule{world: w},
		EnvironmentModule{},
		ShipSimulationModule{},
	)
	return w
}

// Logger returns the engine.Logger the world's App was wired with,
// for callers (cmd/shipsim) that want the same diagnostic sink the
// simulation systems themselves log through rather than building a
// second, disconnected one.
func (w *World) Logger() engine.Logger {
	return w.app.Logger()
}

// AddShip allocates a new ship with the given container capacities and
// appends it to the world.
func (w *World) AddShip(cfg ShipConfig) *Ship {
	id := events.ShipID(w.nextShipID)
	w.nextShipID++
	cfg.Seed += int64(id) * 104729 // distinct RNG stream per ship, deterministic given the world seed
	s := NewShip(id, w.Clock, cfg)
	w.Ships = append(w.Ships, s)
	return s
}

// ShipByID finds a previously added ship, or nil.
func (w *World) ShipByID(id events.ShipID) *Ship {
	for _, s := range w.Ships {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (w *World) surfaceHeightAt(x float64) float64 {
	windKmh := float64(w.Wind.Vector().Len()) * 3.6
	return w.Surface.SampleAt(x, windKmh, w.SimTime)
}

// Tick advances the whole simulation by dt seconds, delegating to the
// App's fixed stage pipeline (spec §2: Prelude (C12 wind/storm/clouds)
// -> EnvironmentUp (C10/C11) -> PreUpdate (C7 low-frequency combustion)
// -> Update (mass update, C6 mechanical relaxation) -> PostUpdate (C7
// high-frequency/ephemeral, C5, C9) -> Finale (event flush)), wired by
// EnvironmentModule and ShipSimulationModule in NewWorld. Every gadget/
// combustion/water-reaction event this tick emits goes through an
// internal BufferedSink first and is only handed to w.EventSink once
// every stage has finished mutating the mesh (spec §5).
func (w *World) Tick(dt float64) {
	w.app.Tick(dt)
}

// preUpdateShip advances s's low-frequency accumulator and runs the ~4Hz
// combustion candidate selection once it crosses lowFrequencyInterval
// (spec §4.7).
func (w *World) preUpdateShip(s *Ship, dt float64) {
	s.lowFreqAccumulator += dt
	if s.lowFreqAccumulator >= lowFrequencyInterval {
		s.lowFreqAccumulator -= lowFrequencyInterval
		w.runLowFrequencyCombustion(s)
	}
}

func (w *World) updateShip(s *Ship, dt float64) {
	n := w.Params.NumMechanicalDynamicsIterations
	if n < 1 {
		n = 1
	}
	dtPerIter := dt / n
	// Mass/stiffness caches must be fresh before physics.Relax's inner
	// loop runs, since both feed its per-substep integration factor and
	// Hooke coefficients directly (mesh/point.go's UpdateMasses comment).
	s.Points.UpdateMasses(w.Params, dtPerIter, nil)
	s.Springs.UpdateForMass(s.Points, w.Params, dtPerIter, 1.0)

	broken := physics.Relax(s.Points, s.Springs, w.Floor, w.Params, dt)
	w.handleBrokenSprings(s, broken)
}

func (w *World) runLowFrequencyCombustion(s *Ship) {
	explosions, ignitions := s.Combustion.UpdateLowFrequency(s.Points, w.Params, s.neighborCount)
	for _, idx := range ignitions {
		w.buffer.OnIgnition(events.IgnitionPayload{Ship: s.ID, Point: events.PointID(idx)})
	}
	d := s.Dispatcher(w.Params, w.buffer)
	for _, idx := range explosions {
		applyCombustionExplosion(d, idx, w.Params, s.rng)
	}

	results, triggered := s.Combustion.UpdateWaterReaction(s.Points, w.Params, w.SimTime)
	for _, idx := range triggered {
		w.buffer.OnWaterReaction(events.WaterReactionPayload{Ship: s.ID, Point: events.PointID(idx)})
	}
	for _, r := range results {
		applyWaterReactionExplosion(d, r.Point, r.BlastRadius, r.BlastForce, w.Params, s.rng)
	}
}

// handleBrokenSprings destroys every spring UpdateStrains flagged this
// tick, cascading into their super-triangles (spec §4.2: "destroy (with
// break event and 'destroy all triangles' option)" — this core always
// takes that option, since a broken spring's triangles can no longer
// hold their shape), and emits OnBreak.
func (w *World) handleBrokenSprings(s *Ship, broken []mesh.SpringIndex) {
	for _, si := range broken {
		a, b := s.Springs.PointA(si), s.Springs.PointB(si)
		strain := s.Springs.Strain(si)
		t0, t1 := s.Springs.SuperTriangles(si)
		if t0 != mesh.TriangleIndex(mesh.NoneIndex) && !s.Triangles.IsDeleted(t0) {
			s.Triangles.Destroy(t0, s.Springs, s.Frontiers)
		}
		if t1 != mesh.TriangleIndex(mesh.NoneIndex) && !s.Triangles.IsDeleted(t1) {
			s.Triangles.Destroy(t1, s.Springs, s.Frontiers)
		}
		s.Springs.Destroy(si, s.Points)
		w.buffer.OnBreak(events.BreakPayload{
			Ship: s.ID, Spring: events.SpringID(si),
			PointA: events.PointID(a), PointB: events.PointID(b), Strain: strain,
		})
		if s.Gadgets != nil {
			s.Gadgets.NotifySpringDestroyed(a, b, s.Points)
		}
	}
}

func (w *World) postUpdateShip(s *Ship, dt float64) {
	s.Combustion.UpdateHighFrequency()

	surfaced := s.Points.UpdateEphemerals(dt, s.rng, w.surfaceHeightAt)
	for _, idx := range surfaced {
		w.buffer.OnAirBubbleSurfaced(events.AirBubbleSurfacedPayload{Ship: s.ID, Point: events.PointID(idx)})
	}

	s.updateElectrical(w.buffer)

	q := s.pointQuery(w.surfaceHeightAt)
	requests := s.Gadgets.Update(s.Points, w.Params, q, s.ID, w.buffer)
	if len(requests) > 0 {
		d := s.Dispatcher(w.Params, w.buffer)
		for _, req := range requests {
			applyGadgetExplosion(d, req, w.Params, s.rng)
		}
	}
}
