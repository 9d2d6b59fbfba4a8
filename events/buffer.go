package events

import "sync"

// BufferedSink records every call in order without forwarding it,
// so a caller mid-tick can keep mutating the mesh without worrying
// about a Sink implementation re-entering that mutation (spec §5:
// "Gadget events are buffered and dispatched to the external event
// handler at the end of the tick to avoid re-entrant mutation"). Package
// simcore threads one BufferedSink through every stage of World.Tick
// and Flushes it to the real Sink in the Finale stage.
type BufferedSink struct {
	mu      sync.Mutex
	pending []func(Sink)
}

func NewBufferedSink() *BufferedSink { return &BufferedSink{} }

func (b *BufferedSink) push(f func(Sink)) {
	b.mu.Lock()
	b.pending = append(b.pending, f)
	b.mu.Unlock()
}

// Flush replays every buffered call against target, in the order they
// were recorded, then clears the buffer.
func (b *BufferedSink) Flush(target Sink) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, f := range pending {
		f(target)
	}
}

func (b *BufferedSink) OnBreak(p BreakPayload)     { b.push(func(s Sink) { s.OnBreak(p) }) }
func (b *BufferedSink) OnStress(p StressPayload)   { b.push(func(s Sink) { s.OnStress(p) }) }
func (b *BufferedSink) OnDestroy(p DestroyPayload) { b.push(func(s Sink) { s.OnDestroy(p) }) }
func (b *BufferedSink) OnIgnition(p IgnitionPayload) {
	b.push(func(s Sink) { s.OnIgnition(p) })
}
func (b *BufferedSink) OnCombustionExplosion(p CombustionExplosionPayload) {
	b.push(func(s Sink) { s.OnCombustionExplosion(p) })
}
func (b *BufferedSink) OnWaterReaction(p WaterReactionPayload) {
	b.push(func(s Sink) { s.OnWaterReaction(p) })
}
func (b *BufferedSink) OnWaterReactionExplosion(p WaterReactionExplosionPayload) {
	b.push(func(s Sink) { s.OnWaterReactionExplosion(p) })
}
func (b *BufferedSink) OnBombPlaced(p BombPlacedPayload) {
	b.push(func(s Sink) { s.OnBombPlaced(p) })
}
func (b *BufferedSink) OnBombRemoved(p BombRemovedPayload) {
	b.push(func(s Sink) { s.OnBombRemoved(p) })
}
func (b *BufferedSink) OnBombExplosion(p BombExplosionPayload) {
	b.push(func(s Sink) { s.OnBombExplosion(p) })
}
func (b *BufferedSink) OnRCBombPing(p RCBombPingPayload) {
	b.push(func(s Sink) { s.OnRCBombPing(p) })
}
func (b *BufferedSink) OnTimerFuse(p TimerFusePayload) {
	b.push(func(s Sink) { s.OnTimerFuse(p) })
}
func (b *BufferedSink) OnTimerDefused(p TimerDefusedPayload) {
	b.push(func(s Sink) { s.OnTimerDefused(p) })
}
func (b *BufferedSink) OnAntiMatter(p AntiMatterPayload) {
	b.push(func(s Sink) { s.OnAntiMatter(p) })
}
func (b *BufferedSink) OnLightning(p LightningPayload) {
	b.push(func(s Sink) { s.OnLightning(p) })
}
func (b *BufferedSink) OnLightFlicker(p LightFlickerPayload) {
	b.push(func(s Sink) { s.OnLightFlicker(p) })
}
func (b *BufferedSink) OnSawed(p SawedPayload) { b.push(func(s Sink) { s.OnSawed(p) }) }
func (b *BufferedSink) OnAirBubbleSurfaced(p AirBubbleSurfacedPayload) {
	b.push(func(s Sink) { s.OnAirBubbleSurfaced(p) })
}
func (b *BufferedSink) OnPhysicsProbeReading(p PhysicsProbeReadingPayload) {
	b.push(func(s Sink) { s.OnPhysicsProbeReading(p) })
}
func (b *BufferedSink) OnWindSpeedUpdated(p WindSpeedUpdatedPayload) {
	b.push(func(s Sink) { s.OnWindSpeedUpdated(p) })
}
func (b *BufferedSink) OnNPCStatisticsUpdated(p NPCStatisticsUpdatedPayload) {
	b.push(func(s Sink) { s.OnNPCStatisticsUpdated(p) })
}
