// Package engine is the ambient orchestration harness shared by every
// simulation module: a small resource-injecting system scheduler in the
// style of the teacher engine this repository was bootstrapped from,
// trimmed down from a general-purpose game ECS to the fixed module/stage
// pipeline a physics simulation core actually needs.
package engine

import (
	"fmt"
	"reflect"
	"runtime"
	"time"
)

// System is any function whose parameters are resolved by the App at call
// time: each parameter must be a pointer to a previously-registered
// resource (see App.AddResources).
type System any

// Module installs one or more systems and resources into an App. Modules
// are the unit of composition: TimeModule, LoggingModule and the
// simulation-specific modules in package simcore are all Modules.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App owns the resource table and the per-stage system lists, and drives
// the tick loop.
type App struct {
	resources map[reflect.Type]any
	stageList []*Stage
	systems   map[string][]System
	modules   []Module
	verbose   bool
}

// NewApp creates an empty App with the standard stage pipeline installed.
func NewApp() *App {
	app := &App{
		resources: make(map[reflect.Type]any),
		systems:   make(map[string][]System),
	}
	for _, s := range defaultStages {
		app.registerStage(s)
	}
	return app
}

// SetVerbose turns on per-system timing output, matching the teacher's
// diagnostic print in its own callSystem.
func (app *App) SetVerbose(v bool) *App {
	app.verbose = v
	return app
}

// UseModules installs modules immediately: each Module.Install call may
// register resources and systems.
func (app *App) UseModules(modules ...Module) *App {
	cmd := &Commands{app: app}
	for _, m := range modules {
		app.modules = append(app.modules, m)
		m.Install(app, cmd)
	}
	return app
}

func (app *App) registerStage(s *Stage) {
	app.stageList = append(app.stageList, s)
	app.systems[s.Name] = nil
}

// UseSystem schedules a system built with SystemIn(stage, fn).
func (app *App) UseSystem(b systemBuilder) *App {
	if _, ok := app.systems[b.stage.Name]; !ok {
		panic(fmt.Sprintf("engine: stage %q is not registered", b.stage.Name))
	}
	app.systems[b.stage.Name] = append(app.systems[b.stage.Name], b.system)
	return app
}

func (app *App) addResources(resources ...any) {
	for _, r := range resources {
		t := reflect.TypeOf(r)
		if t.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("engine: resource %v must be a pointer", t))
		}
		elem := t.Elem()
		if _, exists := app.resources[elem]; exists {
			panic(fmt.Sprintf("engine: resource %v already registered", elem))
		}
		app.resources[elem] = r
	}
}

// ResourceImplementing returns the first registered resource that
// implements the given interface type, e.g.
// app.ResourceImplementing(reflect.TypeOf((*Logger)(nil)).Elem()). Used
// for the handful of resources (Logger) that systems fetch by interface
// rather than by concrete type.
func (app *App) ResourceImplementing(iface reflect.Type) (any, bool) {
	for _, r := range app.resources {
		if reflect.TypeOf(r).Implements(iface) {
			return r, true
		}
	}
	return nil, false
}

// Resource fetches a registered resource by its concrete type, panicking
// if it was never installed. Callers that only need to read/write a
// resource directly (rather than via a system's reflected parameters),
// such as App.Tick updating Time, use this instead of going through
// invoke.
func Resource[T any](app *App) *T {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	r, ok := app.resources[t]
	if !ok {
		panic(fmt.Sprintf("engine: unresolved resource %v", t))
	}
	return r.(*T)
}

// Tick advances Time by dt and runs every registered stage once, in
// registration order.
func (app *App) Tick(dt float64) {
	t := Resource[Time](app)
	t.LastTick = time.Now()
	t.Dt = dt
	t.FrameCount++

	for _, stage := range app.stageList {
		for _, sys := range app.systems[stage.Name] {
			app.callSystem(sys)
		}
	}
}

// Run ticks forever at wall-clock pace, clamping dt to 10fps minimum so a
// debugger pause or GC hitch can't blow up the mechanical integrator.
// Callers that want a bounded or externally-driven run should call Tick
// in their own loop instead (the demo harness in cmd/shipsim does this).
func (app *App) Run() {
	last := time.Now()
	for {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		if dt > 0.1 {
			dt = 0.1
		}
		if dt < 0 {
			dt = 0
		}
		last = now
		app.Tick(dt)
	}
}

var typeOfCommandsPtr = reflect.TypeOf(&Commands{})

func (app *App) callSystem(system System) {
	start := time.Now()
	app.invoke(system)
	if app.verbose {
		name := runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name()
		fmt.Printf("engine: system %s took %v\n", name, time.Since(start))
	}
}

func (app *App) invoke(system System) {
	fnType := reflect.TypeOf(system)
	fnValue := reflect.ValueOf(system)

	args := make([]reflect.Value, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		argType := fnType.In(i)
		if argType == typeOfCommandsPtr {
			args[i] = reflect.ValueOf(&Commands{app: app})
			continue
		}
		if argType.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("engine: system parameter %v must be a pointer to a resource", argType))
		}
		resource, ok := app.resources[argType.Elem()]
		if !ok {
			panic(fmt.Sprintf("engine: unresolved system dependency %v in %s", argType,
				runtime.FuncForPC(fnValue.Pointer()).Name()))
		}
		args[i] = reflect.ValueOf(resource)
	}
	fnValue.Call(args)
}

// Commands is the narrow mutation surface a Module.Install callback and a
// system body receive; unlike the teacher's entity-composition Commands,
// this one only knows about resources, since the simulation's own
// containers (mesh, gadgets, environment, ...) are mutated directly by
// their own methods, not through a generic command buffer.
type Commands struct {
	app *App
}

// AddResources registers one or more resources, each as a pointer.
func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}
