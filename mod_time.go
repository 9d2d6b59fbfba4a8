package engine

import "time"

// Time is the per-tick frame-timing resource consumed by systems that
// need the integration dt, as distinct from the explicit simclock.Clock
// used by gadget/wave/lamp state machines (see package simclock and
// Design Note 9 — the wall clock is reified rather than read from a
// process-global singleton).
type Time struct {
	LastTick   time.Time
	Dt         float64
	FrameCount uint64
}

// TimeModule installs the Time resource; App.Tick advances it directly
// from the dt its caller supplies, rather than reading the wall clock
// itself, so a headless driver (cmd/shipsim, tests) can step at a fixed
// rate instead of real time.
type TimeModule struct{}

func (TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{LastTick: time.Now()})
}
