package gadgets

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/events"
	"github.com/drydockgames/hullbreaker/gameparams"
)

// Fixed intervals from spec §4.9's table.
const (
	rcSlowOff  = 750 * time.Millisecond
	rcSlowOn   = 250 * time.Millisecond
	rcFastPing = 100 * time.Millisecond
	rcLeadIn   = 1500 * time.Millisecond

	timerSlowFuseDuration = 8 * time.Second
	timerFastFuseDuration = 2 * time.Second
	timerFuseStepCount    = 10
	timerLeadIn           = 1500 * time.Millisecond
	timerDefuseDuration   = 500 * time.Millisecond

	amPreImplodingDuration              = 600 * time.Millisecond
	amPreImplodingToImplodingPauseDur   = 2 * time.Second
	amImplodingDuration                 = 16 * time.Second
	amPreExplodingDuration              = 1 * time.Second
	amExplodingDuration                 = 1 * time.Second

	fireExtFadeSteps  = 8
	explodingFadeSteps = 8
	probePulse         = 150 * time.Millisecond
)

// --- RC Bomb: IdlePingOff <-> IdlePingOn -> DetonationLeadIn -> Exploding -> Expired ---

type rcBombState int

const (
	rcIdlePingOff rcBombState = iota
	rcIdlePingOn
	rcDetonating
	rcDetonationLeadIn
	rcExploding
	rcExpired
)

func rcState(s int) rcBombState { return rcBombState(s) }

func updateRCBomb(g *Gadget, now time.Time, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	switch rcState(g.State) {
	case rcIdlePingOff:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.State = int(rcIdlePingOn)
		g.StateEnteredAt = now
		g.NextTransitionAt = now.Add(rcSlowOn)

	case rcIdlePingOn:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.State = int(rcIdlePingOff)
		g.StateEnteredAt = now
		g.NextTransitionAt = now.Add(rcSlowOff)

	case rcDetonating:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.pulseCount++
		sink.OnRCBombPing(events.RCBombPingPayload{Ship: shipID, Point: events.PointID(g.Point)})
		g.State = int(rcDetonationLeadIn)
		g.StateEnteredAt = now
		g.NextTransitionAt = now.Add(rcLeadIn)

	case rcDetonationLeadIn:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.State = int(rcExploding)
		g.StateEnteredAt = now
		g.fadeFrame = 0
		return rcExplosionRequest(g, shipID, sink)

	case rcExploding:
		g.fadeFrame++
		if g.fadeFrame >= explodingFadeSteps {
			g.State = int(rcExpired)
		}
	}
	return nil
}

func rcExplosionRequest(g *Gadget, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	const baseForce = 55.0 * 50000.0
	const baseHeat = 0.8
	sink.OnBombExplosion(events.BombExplosionPayload{
		Ship: shipID, Point: events.PointID(g.Point), Kind: events.GadgetRCBomb,
		BlastRadius: 6, BlastForce: baseForce, BlastHeat: baseHeat,
	})
	return &ExplosionRequest{Point: g.Point, Kind: events.GadgetRCBomb, ExplosionKind: ExplosionDeflagration,
		BlastRadius: 6, BlastForce: baseForce, BlastHeat: baseHeat, BlastHeatRadius: 6}
}

// --- Impact Bomb: Idle -> TriggeringExplosion -> Exploding -> Expired ---

type impactBombState int

const (
	impactIdle impactBombState = iota
	impactTriggering
	impactExploding
	impactExpired
)

func impactState(s int) impactBombState { return impactBombState(s) }

func updateImpactBomb(g *Gadget, now time.Time, gp *gameparams.GameParameters, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	switch impactState(g.State) {
	case impactTriggering:
		g.State = int(impactExploding)
		g.StateEnteredAt = now
		g.fadeFrame = 0
		force := 40.0 * gp.BaseBombBlastForce
		heat := gp.BaseBombBlastHeat * 1.2
		sink.OnBombExplosion(events.BombExplosionPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: events.GadgetImpactBomb,
			BlastRadius: 5, BlastForce: force, BlastHeat: heat})
		return &ExplosionRequest{Point: g.Point, Kind: events.GadgetImpactBomb, ExplosionKind: ExplosionDeflagration,
			BlastRadius: 5, BlastForce: force, BlastHeat: heat, BlastHeatRadius: 5}

	case impactExploding:
		g.fadeFrame++
		if g.fadeFrame >= explodingFadeSteps {
			g.State = int(impactExpired)
		}
	}
	return nil
}

// --- Timer Bomb: SlowFuseBurning -> FastFuseBurning -> DetonationLeadIn -> Exploding -> Expired
// orthogonal: Defusing -> Defused on submersion ---

type timerBombState int

const (
	timerSlowFuseBurning timerBombState = iota
	timerFastFuseBurning
	timerDetonationLeadIn
	timerExploding
	timerExpired
	timerDefusing
	timerDefused
)

func timerState(s int) timerBombState { return timerBombState(s) }

func updateTimerBomb(g *Gadget, now time.Time, q PointQuery, gp *gameparams.GameParameters, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	if q.IsSubmerged != nil && q.IsSubmerged(g.Point) {
		switch timerState(g.State) {
		case timerSlowFuseBurning, timerFastFuseBurning:
			g.State = int(timerDefusing)
			g.StateEnteredAt = now
			g.NextTransitionAt = now.Add(timerDefuseDuration)
		}
	}

	switch timerState(g.State) {
	case timerSlowFuseBurning:
		progress := float64(now.Sub(g.StateEnteredAt)) / float64(timerSlowFuseDuration)
		if progress >= 1 {
			g.State = int(timerFastFuseBurning)
			g.StateEnteredAt = now
			progress = 0
		}
		emitFuseStep(g, progress*0.8, shipID, sink)

	case timerFastFuseBurning:
		progress := float64(now.Sub(g.StateEnteredAt)) / float64(timerFastFuseDuration)
		if progress >= 1 {
			g.State = int(timerDetonationLeadIn)
			g.StateEnteredAt = now
			g.NextTransitionAt = now.Add(timerLeadIn)
			progress = 0
		}
		emitFuseStep(g, 0.8+progress*0.2, shipID, sink)

	case timerDetonationLeadIn:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.State = int(timerExploding)
		g.StateEnteredAt = now
		g.fadeFrame = 0
		force := 80.0 * gp.BaseBombBlastForce
		sink.OnBombExplosion(events.BombExplosionPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: events.GadgetTimerBomb,
			BlastRadius: 7, BlastForce: force, BlastHeat: gp.BaseBombBlastHeat})
		return &ExplosionRequest{Point: g.Point, Kind: events.GadgetTimerBomb, ExplosionKind: ExplosionDeflagration,
			BlastRadius: 7, BlastForce: force, BlastHeat: gp.BaseBombBlastHeat, BlastHeatRadius: 7}

	case timerExploding:
		g.fadeFrame++
		if g.fadeFrame >= explodingFadeSteps {
			g.State = int(timerExpired)
		}

	case timerDefusing:
		if now.Before(g.NextTransitionAt) {
			return nil
		}
		g.State = int(timerDefused)
		sink.OnTimerDefused(events.TimerDefusedPayload{Ship: shipID, Point: events.PointID(g.Point)})
	}
	return nil
}

func emitFuseStep(g *Gadget, progress float64, shipID events.ShipID, sink events.Sink) {
	step := int(progress * float64(timerFuseStepCount))
	if step == g.pulseCount {
		return
	}
	g.pulseCount = step
	sink.OnTimerFuse(events.TimerFusePayload{Ship: shipID, Point: events.PointID(g.Point), Progress: progress})
}

// --- AntiMatter Bomb: Contained -> PreImploding -> PreImplodingToImplodingPause ->
// Imploding -> PreExploding -> Exploding -> Expired ---

type antiMatterState int

const (
	amContained antiMatterState = iota
	amPreImploding
	amPreImplodingToImplodingPause
	amImploding
	amPreExploding
	amExploding
	amExpired
)

func amState(s int) antiMatterState { return antiMatterState(s) }

// PreImplosionRadius implements spec §4.9's "radius = 7 + 100·p" where p
// is the bomb's pre-implosion progress, exposed for the upload layer.
func (g *Gadget) PreImplosionRadius() float64 { return 7 + 100*g.preImplosionP }

func updateAntiMatterBomb(g *Gadget, now time.Time, gp *gameparams.GameParameters, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	switch amState(g.State) {
	case amContained:
		return nil

	case amPreImploding:
		g.preImplosionP = float64(now.Sub(g.StateEnteredAt)) / float64(amPreImplodingDuration)
		if g.preImplosionP >= 1 {
			g.preImplosionP = 1
			g.State = int(amPreImplodingToImplodingPause)
			g.StateEnteredAt = now
			sink.OnAntiMatter(events.AntiMatterPayload{Ship: shipID, Point: events.PointID(g.Point), Stage: events.AntiMatterPreImploding})
		}

	case amPreImplodingToImplodingPause:
		if now.Sub(g.StateEnteredAt) >= amPreImplodingToImplodingPauseDur {
			g.State = int(amImploding)
			g.StateEnteredAt = now
			sink.OnAntiMatter(events.AntiMatterPayload{Ship: shipID, Point: events.PointID(g.Point), Stage: events.AntiMatterImploding})
			return &ExplosionRequest{Point: g.Point, Kind: events.GadgetAntiMatterBomb, ExplosionKind: ExplosionImplosion,
				BlastRadius: 12, BlastForce: gp.BaseBombBlastForce * 10}
		}

	case amImploding:
		if now.Sub(g.StateEnteredAt) >= amImplodingDuration {
			g.State = int(amPreExploding)
			g.StateEnteredAt = now
		}

	case amPreExploding:
		if now.Sub(g.StateEnteredAt) >= amPreExplodingDuration {
			g.State = int(amExploding)
			g.StateEnteredAt = now
			g.fadeFrame = 0
			force := 200.0 * gp.BaseBombBlastForce
			sink.OnBombExplosion(events.BombExplosionPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: events.GadgetAntiMatterBomb,
				BlastRadius: 20, BlastForce: force, BlastHeat: gp.BaseBombBlastHeat * 2})
			return &ExplosionRequest{Point: g.Point, Kind: events.GadgetAntiMatterBomb, ExplosionKind: ExplosionDeflagration,
				BlastRadius: 20, BlastForce: force, BlastHeat: gp.BaseBombBlastHeat * 2, BlastHeatRadius: 20}
		}

	case amExploding:
		g.fadeFrame++
		if g.fadeFrame >= explodingFadeSteps {
			if now.Sub(g.StateEnteredAt) >= amExplodingDuration {
				g.State = int(amExpired)
			}
		}
	}
	return nil
}

// BeginImplosion starts the Contained->PreImploding transition (the
// gameplay "arm" trigger); package simcore calls this from the tool
// dispatcher when the player places/arms an anti-matter bomb.
func (g *Gadget) BeginImplosion(now time.Time, shipID events.ShipID, sink events.Sink) {
	if g.Kind != KindAntiMatterBomb || amState(g.State) != amContained {
		return
	}
	g.State = int(amPreImploding)
	g.StateEnteredAt = now
	sink.OnAntiMatter(events.AntiMatterPayload{Ship: shipID, Point: events.PointID(g.Point), Stage: events.AntiMatterContained})
}

// --- FireExtinguishing: Idle -> Exploding -> Expired ---

type fireExtinguishingState int

const (
	fireExtIdle fireExtinguishingState = iota
	fireExtExploding
	fireExtExpired
)

func fireExtState(s int) fireExtinguishingState { return fireExtinguishingState(s) }

func updateFireExt(g *Gadget, now time.Time, q PointQuery, gp *gameparams.GameParameters, shipID events.ShipID, sink events.Sink) *ExplosionRequest {
	switch fireExtState(g.State) {
	case fireExtIdle:
		if q.IsBurning != nil && q.IsBurning(g.Point) {
			g.State = int(fireExtExploding)
			g.StateEnteredAt = now
			g.fadeFrame = 0
			const extinguishRadius = 4.0
			force := gp.BaseBombBlastForce * 7
			sink.OnBombExplosion(events.BombExplosionPayload{Ship: shipID, Point: events.PointID(g.Point), Kind: events.GadgetFireExtinguishingBomb,
				BlastRadius: extinguishRadius, BlastForce: force, BlastHeat: 0})
			return &ExplosionRequest{Point: g.Point, Kind: events.GadgetFireExtinguishingBomb, ExplosionKind: ExplosionDeflagration,
				BlastRadius: extinguishRadius, BlastForce: force, BlastHeat: 0, BlastHeatRadius: extinguishRadius}
		}

	case fireExtExploding:
		g.fadeFrame++
		if g.fadeFrame >= fireExtFadeSteps {
			g.State = int(fireExtExpired)
		}
	}
	return nil
}

// --- PhysicsProbe: PingOff <-> PingOn, no mesh effect ---

type physicsProbeState int

const (
	probePingOff physicsProbeState = iota
	probePingOn
)

func updatePhysicsProbe(g *Gadget, now time.Time, q PointQuery, shipID events.ShipID, sink events.Sink) {
	if now.Before(g.NextTransitionAt) {
		return
	}
	g.NextTransitionAt = now.Add(probePulse)
	switch physicsProbeState(g.State) {
	case probePingOff:
		g.State = int(probePingOn)
		g.StateEnteredAt = now
		var vel mgl32.Vec2
		var temp, depth, pressure float64
		if q.Position != nil {
			depth = -float64(q.Position(g.Point)[1])
		}
		if q.Temperature != nil {
			temp = q.Temperature(g.Point)
		}
		if q.Velocity != nil {
			vel = q.Velocity(g.Point)
		}
		if q.Pressure != nil {
			pressure = q.Pressure(g.Point)
		}
		sink.OnPhysicsProbeReading(events.PhysicsProbeReadingPayload{
			Ship: shipID, Point: events.PointID(g.Point),
			Velocity:         vel,
			Temperature:      temp,
			OceanDepth:       depth,
			InternalPressure: pressure,
		})
	case probePingOn:
		g.State = int(probePingOff)
		g.StateEnteredAt = now
	}
}
