// Package events defines the simulation-event sink (spec §6): the one
// surface user-visible "failure" and gameplay notification travels
// through. Nothing is thrown across the tick boundary (spec §7); a
// break, an explosion, a ping are all just payloads delivered here.
package events

import "github.com/go-gl/mathgl/mgl32"

// ShipID/PointID/SpringID mirror mesh's index types without importing
// package mesh, so events stays leaf-level and reusable from any
// container.
type ShipID int32
type PointID int32
type SpringID int32

// BreakPayload accompanies a spring break (spec §4.2).
type BreakPayload struct {
	Ship             ShipID
	Spring           SpringID
	PointA, PointB   PointID
	Strain           float64
}

// StressPayload accompanies a spring entering or leaving the stressed
// hysteresis band (spec §4.2).
type StressPayload struct {
	Ship   ShipID
	Spring SpringID
	IsStressed bool
}

// DestroyPayload accompanies a point being detached from the mesh.
type DestroyPayload struct {
	Ship  ShipID
	Point PointID
}

// IgnitionPayload accompanies a point transitioning NotBurning→Developing1.
type IgnitionPayload struct {
	Ship  ShipID
	Point PointID
}

// CombustionExplosionPayload accompanies a combustion-triggered explosion
// (spec §4.7, MaterialCombustion::Explosion).
type CombustionExplosionPayload struct {
	Ship        ShipID
	Point       PointID
	BlastRadius float64
	BlastForce  float64
	BlastHeat   float64
}

// WaterReactionPayload accompanies Unreacted→ReactionTriggered.
type WaterReactionPayload struct {
	Ship  ShipID
	Point PointID
}

// WaterReactionExplosionPayload accompanies ReactionTriggered→Consumed.
type WaterReactionExplosionPayload struct {
	Ship        ShipID
	Point       PointID
	BlastRadius float64
	BlastForce  float64
}

// GadgetKind tags which concrete gadget FSM an event payload refers to.
type GadgetKind int

const (
	GadgetRCBomb GadgetKind = iota
	GadgetImpactBomb
	GadgetTimerBomb
	GadgetAntiMatterBomb
	GadgetFireExtinguishingBomb
	GadgetPhysicsProbe
)

// BombPlacedPayload accompanies any gadget being placed on the mesh.
type BombPlacedPayload struct {
	Ship  ShipID
	Point PointID
	Kind  GadgetKind
}

// BombRemovedPayload accompanies a gadget being removed before it fires
// (spec §8 property 7).
type BombRemovedPayload struct {
	Ship  ShipID
	Point PointID
	Kind  GadgetKind
}

// BombExplosionPayload accompanies any gadget's deflagration/implosion
// event (spec §4.9's per-gadget "External effects on entry into 'fire'
// state" column).
type BombExplosionPayload struct {
	Ship        ShipID
	Point       PointID
	Kind        GadgetKind
	BlastRadius float64
	BlastForce  float64
	BlastHeat   float64
}

// RCBombPingPayload accompanies each RC-bomb ping pulse.
type RCBombPingPayload struct {
	Ship  ShipID
	Point PointID
}

// TimerFusePayload accompanies a timer bomb's fuse progress.
type TimerFusePayload struct {
	Ship     ShipID
	Point    PointID
	Progress float64 // 0..1 across the slow+fast fuse
}

// TimerDefusedPayload accompanies a timer bomb being submerged before
// detonation.
type TimerDefusedPayload struct {
	Ship  ShipID
	Point PointID
}

// AntiMatterStage distinguishes the three notification points in the
// anti-matter bomb's sequence.
type AntiMatterStage int

const (
	AntiMatterContained AntiMatterStage = iota
	AntiMatterPreImploding
	AntiMatterImploding
)

// AntiMatterPayload accompanies a containment/pre-implosion/implosion
// transition.
type AntiMatterPayload struct {
	Ship  ShipID
	Point PointID
	Stage AntiMatterStage
}

// LightningPayload accompanies a storm lightning strike (an environment
// event with no direct mesh coupling beyond what a future tool issues).
type LightningPayload struct {
	WorldX, WorldY float64
}

// LightFlickerPayload accompanies a lamp entering FlickerA/FlickerB.
type LightFlickerPayload struct {
	Ship  ShipID
	Point PointID
}

// SawedPayload accompanies the saw tool severing a spring.
type SawedPayload struct {
	Ship   ShipID
	Spring SpringID
}

// AirBubbleSurfacedPayload accompanies a bubble ephemeral reaching the
// ocean surface.
type AirBubbleSurfacedPayload struct {
	Ship  ShipID
	Point PointID
}

// PhysicsProbeReadingPayload accompanies a physics probe's PingOn
// reading (spec §4.9).
type PhysicsProbeReadingPayload struct {
	Ship            ShipID
	Point           PointID
	Velocity        mgl32.Vec2
	Temperature     float64
	OceanDepth      float64
	InternalPressure float64
}

// WindSpeedUpdatedPayload accompanies a wind-magnitude change a caller
// may want to surface (e.g. a UI gust indicator).
type WindSpeedUpdatedPayload struct {
	Speed float64
}

// NPCStatisticsUpdatedPayload is a placeholder hook for a host
// application's NPC layer; the core itself never populates Count beyond
// zero since NPCs are out of scope (spec §4.16, SPEC_FULL.md EXPANSION).
type NPCStatisticsUpdatedPayload struct {
	Count int
}

// Sink receives every event the simulation core emits. A host
// application implements this once; package events also ships Recorder
// (for tests) and Multicast (fan-out) so nothing else needs to.
type Sink interface {
	OnBreak(BreakPayload)
	OnStress(StressPayload)
	OnDestroy(DestroyPayload)
	OnIgnition(IgnitionPayload)
	OnCombustionExplosion(CombustionExplosionPayload)
	OnWaterReaction(WaterReactionPayload)
	OnWaterReactionExplosion(WaterReactionExplosionPayload)
	OnBombPlaced(BombPlacedPayload)
	OnBombRemoved(BombRemovedPayload)
	OnBombExplosion(BombExplosionPayload)
	OnRCBombPing(RCBombPingPayload)
	OnTimerFuse(TimerFusePayload)
	OnTimerDefused(TimerDefusedPayload)
	OnAntiMatter(AntiMatterPayload)
	OnLightning(LightningPayload)
	OnLightFlicker(LightFlickerPayload)
	OnSawed(SawedPayload)
	OnAirBubbleSurfaced(AirBubbleSurfacedPayload)
	OnPhysicsProbeReading(PhysicsProbeReadingPayload)
	OnWindSpeedUpdated(WindSpeedUpdatedPayload)
	OnNPCStatisticsUpdated(NPCStatisticsUpdatedPayload)
}
