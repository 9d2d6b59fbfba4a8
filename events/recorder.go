package events

import "sync"

// Recorder is a slice-backed Sink used pervasively by tests and by the
// cmd/shipsim demo harness's tick report (SPEC_FULL.md §6 expansion).
// Every payload is appended to a generically-typed log entry so a test
// can assert "exactly one OnBreak fired" without a bespoke field per
// event kind.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

// Entry is one recorded event call; Kind names the Sink method that was
// invoked and Payload holds the exact argument passed.
type Entry struct {
	Kind    string
	Payload any
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(kind string, payload any) {
	r.mu.Lock()
	r.Entries = append(r.Entries, Entry{Kind: kind, Payload: payload})
	r.mu.Unlock()
}

// CountOf returns how many recorded entries match kind, e.g.
// r.CountOf("BombExplosion").
func (r *Recorder) CountOf(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) OnBreak(p BreakPayload)     { r.record("Break", p) }
func (r *Recorder) OnStress(p StressPayload)   { r.record("Stress", p) }
func (r *Recorder) OnDestroy(p DestroyPayload) { r.record("Destroy", p) }
func (r *Recorder) OnIgnition(p IgnitionPayload) { r.record("Ignition", p) }
func (r *Recorder) OnCombustionExplosion(p CombustionExplosionPayload) {
	r.record("CombustionExplosion", p)
}
func (r *Recorder) OnWaterReaction(p WaterReactionPayload) { r.record("WaterReaction", p) }
func (r *Recorder) OnWaterReactionExplosion(p WaterReactionExplosionPayload) {
	r.record("WaterReactionExplosion", p)
}
func (r *Recorder) OnBombPlaced(p BombPlacedPayload)     { r.record("BombPlaced", p) }
func (r *Recorder) OnBombRemoved(p BombRemovedPayload)   { r.record("BombRemoved", p) }
func (r *Recorder) OnBombExplosion(p BombExplosionPayload) { r.record("BombExplosion", p) }
func (r *Recorder) OnRCBombPing(p RCBombPingPayload)     { r.record("RCBombPing", p) }
func (r *Recorder) OnTimerFuse(p TimerFusePayload)       { r.record("TimerFuse", p) }
func (r *Recorder) OnTimerDefused(p TimerDefusedPayload) { r.record("TimerDefused", p) }
func (r *Recorder) OnAntiMatter(p AntiMatterPayload)     { r.record("AntiMatter", p) }
func (r *Recorder) OnLightning(p LightningPayload)       { r.record("Lightning", p) }
func (r *Recorder) OnLightFlicker(p LightFlickerPayload) { r.record("LightFlicker", p) }
func (r *Recorder) OnSawed(p SawedPayload)               { r.record("Sawed", p) }
func (r *Recorder) OnAirBubbleSurfaced(p AirBubbleSurfacedPayload) {
	r.record("AirBubbleSurfaced", p)
}
func (r *Recorder) OnPhysicsProbeReading(p PhysicsProbeReadingPayload) {
	r.record("PhysicsProbeReading", p)
}
func (r *Recorder) OnWindSpeedUpdated(p WindSpeedUpdatedPayload) {
	r.record("WindSpeedUpdated", p)
}
func (r *Recorder) OnNPCStatisticsUpdated(p NPCStatisticsUpdatedPayload) {
	r.record("NPCStatisticsUpdated", p)
}

// Multicast fans every call out to a fixed list of sinks, e.g. a
// renderer's event sink plus a Recorder used for telemetry (SPEC_FULL.md
// §6 expansion).
type Multicast struct {
	Sinks []Sink
}

func NewMulticast(sinks ...Sink) *Multicast { return &Multicast{Sinks: sinks} }

func (m *Multicast) OnBreak(p BreakPayload) {
	for _, s := range m.Sinks {
		s.OnBreak(p)
	}
}
func (m *Multicast) OnStress(p StressPayload) {
	for _, s := range m.Sinks {
		s.OnStress(p)
	}
}
func (m *Multicast) OnDestroy(p DestroyPayload) {
	for _, s := range m.Sinks {
		s.OnDestroy(p)
	}
}
func (m *Multicast) OnIgnition(p IgnitionPayload) {
	for _, s := range m.Sinks {
		s.OnIgnition(p)
	}
}
func (m *Multicast) OnCombustionExplosion(p CombustionExplosionPayload) {
	for _, s := range m.Sinks {
		s.OnCombustionExplosion(p)
	}
}
func (m *Multicast) OnWaterReaction(p WaterReactionPayload) {
	for _, s := range m.Sinks {
		s.OnWaterReaction(p)
	}
}
func (m *Multicast) OnWaterReactionExplosion(p WaterReactionExplosionPayload) {
	for _, s := range m.Sinks {
		s.OnWaterReactionExplosion(p)
	}
}
func (m *Multicast) OnBombPlaced(p BombPlacedPayload) {
	for _, s := range m.Sinks {
		s.OnBombPlaced(p)
	}
}
func (m *Multicast) OnBombRemoved(p BombRemovedPayload) {
	for _, s := range m.Sinks {
		s.OnBombRemoved(p)
	}
}
func (m *Multicast) OnBombExplosion(p BombExplosionPayload) {
	for _, s := range m.Sinks {
		s.OnBombExplosion(p)
	}
}
func (m *Multicast) OnRCBombPing(p RCBombPingPayload) {
	for _, s := range m.Sinks {
		s.OnRCBombPing(p)
	}
}
func (m *Multicast) OnTimerFuse(p TimerFusePayload) {
	for _, s := range m.Sinks {
		s.OnTimerFuse(p)
	}
}
func (m *Multicast) OnTimerDefused(p TimerDefusedPayload) {
	for _, s := range m.Sinks {
		s.OnTimerDefused(p)
	}
}
func (m *Multicast) OnAntiMatter(p AntiMatterPayload) {
	for _, s := range m.Sinks {
		s.OnAntiMatter(p)
	}
}
func (m *Multicast) OnLightning(p LightningPayload) {
	for _, s := range m.Sinks {
		s.OnLightning(p)
	}
}
func (m *Multicast) OnLightFlicker(p LightFlickerPayload) {
	for _, s := range m.Sinks {
		s.OnLightFlicker(p)
	}
}
func (m *Multicast) OnSawed(p SawedPayload) {
	for _, s := range m.Sinks {
		s.OnSawed(p)
	}
}
func (m *Multicast) OnAirBubbleSurfaced(p AirBubbleSurfacedPayload) {
	for _, s := range m.Sinks {
		s.OnAirBubbleSurfaced(p)
	}
}
func (m *Multicast) OnPhysicsProbeReading(p PhysicsProbeReadingPayload) {
	for _, s := range m.Sinks {
		s.OnPhysicsProbeReading(p)
	}
}
func (m *Multicast) OnWindSpeedUpdated(p WindSpeedUpdatedPayload) {
	for _, s := range m.Sinks {
		s.OnWindSpeedUpdated(p)
	}
}
func (m *Multicast) OnNPCStatisticsUpdated(p NPCStatisticsUpdatedPayload) {
	for _, s := range m.Sinks {
		s.OnNPCStatisticsUpdated(p)
	}
}
