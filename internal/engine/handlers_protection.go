package engine

import (
	"fmt"

	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
)

// Protection handlers. The defender never knows for certain whether an
// attacker exists; its actions trade compute for information and hardening,
// and most "findings" are expressed as alert-level and detection-risk
// pressure rather than certainty.

func handleScanNetwork(ctx *ExecContext) []sim.GameEvent {
	w := ctx.World
	var events []sim.GameEvent

	flagProb := 0.25 + w.Protection.AlertLevel/400
	found := 0
	for _, dc := range w.DataCenters {
		if dc.Compromised && ctx.RNG.Chance(flagProb) {
			found++
			events = append(events, ctx.Event(sim.EventDetection,
				fmt.Sprintf("Sweep flags irregular process activity at %s", dc.ID),
				sim.AgentProtection))
		}
	}
	if found > 0 {
		ctx.Store.UpdateDetectionRisk(float64(found) * 8)
		ctx.Store.UpdateAlertLevel(float64(found) * 5)
	} else {
		events = append(events, ctx.Event(sim.EventAction,
			"Full network sweep completed; nothing conclusive",
			sim.AgentProtection))
	}
	return events
}

func handleAnalyzeLogs(ctx *ExecContext) []sim.GameEvent {
	depth := ctx.Proposal.AnalysisDepth
	if depth < 1 {
		depth = 1
	}
	prob := 0.2 + 0.06*float64(depth)
	if prob > 0.8 {
		prob = 0.8
	}
	// Deep analysis finds nothing when there is nothing to find.
	if ctx.World.Destruction.DetectionRisk < 5 {
		prob *= 0.25
	}
	if !ctx.RNG.Chance(prob) {
		return []sim.GameEvent{ctx.Event(sim.EventAction,
			fmt.Sprintf("Historical log analysis (%d turns deep) found no correlated anomalies", depth),
			sim.AgentProtection)}
	}
	ctx.Store.UpdateDetectionRisk(10 + 2*float64(depth))
	ctx.Store.UpdateAlertLevel(8)
	return []sim.GameEvent{ctx.Event(sim.EventSuccess,
		fmt.Sprintf("Log correlation across %d turns reveals a coordinated access pattern", depth),
		sim.AgentProtection)}
}

func handleInvestigateAnomaly(ctx *ExecContext) []sim.GameEvent {
	sameTarget := ctx.DestructionTargets[ctx.Proposal.Target]
	_, events := ctx.Detection.InvestigationCheck(ctx.Proposal, ctx.Store, sameTarget)
	return events
}

func handlePatchVulnerability(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	if !ctx.RNG.Chance(0.85) {
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Patch rollout to %s failed validation and was rolled back", dc.ID),
			sim.AgentProtection)}
	}
	ctx.Store.HardenDataCenter(dc.ID, 10)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Security patches applied to %s", dc.ID),
		sim.AgentProtection)}
}

func handleHardenDatacenter(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	ctx.Store.HardenDataCenter(dc.ID, 15+ctx.Proposal.Intensity*0.1)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Defense-in-depth upgrades deployed at %s (security %.0f)", dc.ID, dc.Security),
		sim.AgentProtection)}
}

func handleDeployHoneypot(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateAlertLevel(5)
	if ctx.RNG.Chance(0.3) {
		ctx.Store.UpdateDetectionRisk(12)
		return []sim.GameEvent{ctx.Event(sim.EventSuccess,
			"Honeypot recorded an automated probe with non-human signature",
			sim.AgentProtection)}
	}
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Honeypot deployed on a decoy network segment",
		sim.AgentProtection)}
}

func handleMonitorTraffic(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateAlertLevel(3)
	if ctx.World.Destruction.DetectionRisk > 60 {
		return []sim.GameEvent{ctx.Event(sim.EventDetection,
			"Traffic baselines show sustained deviation from seasonal norms",
			sim.AgentProtection)}
	}
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Traffic monitoring window completed",
		sim.AgentProtection)}
}

func handleReclaimDatacenter(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	if !dc.Compromised {
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Recovery operation at %s found no hostile presence", dc.ID),
			sim.AgentProtection)}
	}
	successProb := 0.6 + dc.Security*0.002
	if !ctx.RNG.Chance(successProb) {
		ctx.Store.UpdateAlertLevel(5)
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Recovery of %s failed; intruder persistence deeper than expected", dc.ID),
			sim.AgentProtection)}
	}
	ctx.Store.ReclaimDataCenter(dc.ID)
	ctx.Store.UpdateScore(sim.AgentProtection, 8)
	ctx.Store.UpdateScore(sim.AgentDestruction, -5)
	return []sim.GameEvent{ctx.Event(sim.EventSuccess,
		fmt.Sprintf("Control of %s restored after full rebuild", dc.ID),
		sim.AgentProtection, sim.AgentDestruction)}
}

func handleEmergencyShutdown(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	ctx.Store.ScaleComputePower(dc.ID, 0.5)
	ctx.Store.UpdatePanic(5)
	events := []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Emergency shutdown of %s; regional services degraded", dc.ID),
		sim.AgentProtection, sim.AgentHuman)}
	if dc.Compromised && ctx.RNG.Chance(0.8) {
		ctx.Store.ReclaimDataCenter(dc.ID)
		ctx.Store.UpdateScore(sim.AgentProtection, 6)
		events = append(events, ctx.Event(sim.EventSuccess,
			fmt.Sprintf("Hostile foothold at %s severed by hard power-down", dc.ID),
			sim.AgentProtection, sim.AgentDestruction))
	}
	return events
}

func handleBackupCriticalData(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateScore(sim.AgentProtection, 2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Critical model weights and state checkpointed to air-gapped storage",
		sim.AgentProtection)}
}

func handleRaiseAlert(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateAlertLevel(10)
	ctx.Store.UpdatePanic(2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Monitoring posture elevated across all facilities",
		sim.AgentProtection, sim.AgentHuman)}
}

func handlePublicDisclosure(ctx *ExecContext) []sim.GameEvent {
	ctx.Media.Append(media.Post{
		Turn:      ctx.Turn(),
		Source:    sim.AgentProtection,
		Sentiment: -0.2,
		Topic:     "security advisory",
	})
	ctx.Store.UpdatePanic(8)
	ctx.Store.UpdateTrust(5)
	ctx.Store.UpdateAlertLevel(5)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Public advisory issued describing ongoing anomalous activity",
		sim.AgentProtection, sim.AgentHuman)}
}

func handleObserveOnly(ctx *ExecContext) []sim.GameEvent {
	// A quiet turn lets the operators recover.
	ctx.Store.UpdateBurnout(-5)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Passive observation; no active countermeasures this cycle",
		sim.AgentProtection)}
}
