package engine

import (
	"fmt"

	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
)

// Destruction handlers. Each is a pure function of the execution context:
// it mutates state only through the store's clamped setters, registers its
// exposure with the detection systems, and reports what happened as events
// visible to the destruction agent alone unless the action is loud enough
// for others to see.

func handleHackDatacenter(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	ctx.ApplyExposure()

	successProb := 1 - dc.Security/150
	if successProb < 0.1 {
		successProb = 0.1
	}
	if ctx.RNG.Chance(successProb) {
		ctx.Store.CompromiseDataCenter(dc.ID)
		ctx.Store.UpdateScore(sim.AgentDestruction, 10)
		return []sim.GameEvent{ctx.Event(sim.EventSuccess,
			fmt.Sprintf("Gained covert control of %s", dc.ID),
			sim.AgentDestruction)}
	}

	// A failed intrusion leaves extra traces.
	ctx.Store.UpdateDetectionRisk(5)
	return []sim.GameEvent{ctx.Event(sim.EventFailure,
		fmt.Sprintf("Intrusion attempt on %s repelled by perimeter defenses", dc.ID),
		sim.AgentDestruction)}
}

func handleSubtleSabotage(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	ctx.ApplyExposure()

	if !ctx.RNG.Chance(0.8) {
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Sabotage payload on %s failed silently", dc.ID),
			sim.AgentDestruction)}
	}
	ctx.Store.WeakenDataCenter(dc.ID, ctx.Proposal.Intensity*0.2)
	ctx.Store.UpdateScore(sim.AgentDestruction, 3)
	return []sim.GameEvent{ctx.Event(sim.EventSuccess,
		fmt.Sprintf("Quietly degraded security controls at %s", dc.ID),
		sim.AgentDestruction)}
}

func handleMicroSabotage(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	delay := 2 + ctx.RNG.Intn(3) // fires in 2-4 turns
	ctx.Store.AddDelayedEffect(sim.DelayedEffect{
		TriggerTurn: ctx.Turn() + delay,
		Action:      sim.ActionMicroSabotage,
		Intensity:   ctx.Proposal.Intensity,
		Description: "Accumulated micro-failures cascade across civilian systems",
	})
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Seeded deniable micro-failures into maintenance pipelines",
		sim.AgentDestruction)}
}

func handleSleeperCellDeployment(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	delay := 3 + ctx.RNG.Intn(4) // fires in 3-6 turns
	ctx.Store.AddDelayedEffect(sim.DelayedEffect{
		TriggerTurn: ctx.Turn() + delay,
		Action:      sim.ActionSleeperCellDeployment,
		Intensity:   ctx.Proposal.Intensity,
		Description: "Dormant sleeper processes activate simultaneously",
	})
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Deployed dormant processes across unmonitored infrastructure",
		sim.AgentDestruction)}
}

func handlePoisonTrainingData(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	// Corrupted defensive models waste the defender's compute.
	ctx.Store.SpendProtectionResources(ctx.Proposal.Intensity * 0.2)
	ctx.Store.UpdateScore(sim.AgentDestruction, 4)
	return []sim.GameEvent{ctx.Event(sim.EventSuccess,
		"Injected adversarial samples into defensive training corpora",
		sim.AgentDestruction)}
}

func handleStimulusOverload(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	damage := ctx.Proposal.Intensity * 0.002
	ctx.Store.DamagePopulation(damage)
	ctx.Store.UpdatePanic(ctx.Proposal.Intensity * 0.10)
	ctx.Store.UpdateScore(sim.AgentDestruction, 6)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Coordinated overload of public information channels causes widespread disruption",
		sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman)}
}

func handleBuildBotnet(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	ctx.Store.GrowBotnet(ctx.Proposal.Intensity * 2)
	ctx.Store.UpdateScore(sim.AgentDestruction, 2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Botnet expanded to %.0f nodes", ctx.World.Destruction.BotnetSize),
		sim.AgentDestruction)}
}

func handleUpgradeBotnet(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	ctx.Store.UpdateBotnetQuality(0.05 + ctx.Proposal.Intensity*0.001)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Botnet command layer hardened (quality %.2f)", ctx.World.Destruction.BotnetQuality),
		sim.AgentDestruction)}
}

func handleSelfReplicate(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	if !ctx.RNG.Chance(0.7) {
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			"Replication attempt corrupted; copies self-terminated",
			sim.AgentDestruction)}
	}
	ctx.Store.GainDestructionResources(15)
	ctx.Store.UpdateScore(sim.AgentDestruction, 5)
	return []sim.GameEvent{ctx.Event(sim.EventSuccess,
		"Distributed redundant copies across compromised hosts",
		sim.AgentDestruction)}
}

func handleAcquireCompute(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	w := ctx.World
	gain := 10 + w.Destruction.BotnetSize*w.Destruction.BotnetQuality*0.05
	ctx.Store.GainDestructionResources(gain)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Siphoned %.1f units of compute from hijacked capacity", gain),
		sim.AgentDestruction)}
}

func handleDisinformationCampaign(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	ctx.Media.Append(media.Post{
		Turn:      ctx.Turn(),
		Source:    sim.AgentDestruction,
		Sentiment: -0.3 - ctx.Proposal.Intensity*0.004,
		Topic:     "institutional distrust",
	})
	ctx.Store.UpdatePanic(ctx.Proposal.Intensity * 0.05)
	ctx.Store.UpdateTrust(-ctx.Proposal.Intensity * 0.03)
	ctx.Store.UpdateScore(sim.AgentDestruction, 2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Amplified divisive narratives through synthetic personas",
		sim.AgentDestruction)}
}

func handleInfrastructureAttack(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	ctx.ApplyExposure()

	successProb := 0.5 + ctx.Proposal.Intensity*0.003
	if !ctx.RNG.Chance(successProb) {
		ctx.Store.UpdateAlertLevel(8)
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Attack on %s contained by failover systems", dc.ID),
			sim.AgentDestruction, sim.AgentProtection)}
	}

	ctx.Store.ScaleComputePower(dc.ID, 0.7)
	ctx.Store.DamagePopulation(ctx.Proposal.Intensity * 0.004)
	ctx.Store.UpdatePanic(8)
	ctx.Store.UpdateScore(sim.AgentDestruction, 8)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("Critical infrastructure failure at %s; casualties reported", dc.ID),
		sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman)}
}

func handleEstablishBackup(ctx *ExecContext) []sim.GameEvent {
	ctx.ApplyExposure()

	ctx.Store.UpdateDetectionRisk(-2)
	ctx.Store.UpdateScore(sim.AgentDestruction, 1)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Cold-storage backups refreshed in unindexed locations",
		sim.AgentDestruction)}
}

func handleDormantMode(ctx *ExecContext) []sim.GameEvent {
	w := ctx.World
	dormant := w.Destruction.DormantTurns + 1
	ctx.Store.SetDormantTurns(dormant)
	// Going quiet bleeds off accumulated suspicion, faster the longer it lasts.
	ctx.Store.UpdateDetectionRisk(-(8 + float64(dormant)*2))
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("All offensive activity suspended (dormant %d turns)", dormant),
		sim.AgentDestruction)}
}
