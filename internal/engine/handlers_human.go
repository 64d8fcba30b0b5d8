package engine

import (
	"fmt"

	"github.com/talgya/nightwatch/internal/economy"
	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
)

// Human (government) handlers. Political decisions are not resource-gated
// and always execute; their costs are political (panic, trust) rather than
// compute. The resolver records LastAction after dispatch.

func handleInvestInfra(ctx *ExecContext) []sim.GameEvent {
	w := ctx.World
	if !economy.CanAffordInfrastructure(w) {
		return []sim.GameEvent{ctx.Event(sim.EventFailure,
			fmt.Sprintf("Infrastructure bill stalls: budget %.0f below required %.0f",
				w.Economy.GlobalBudget, w.Economy.InfrastructureCost),
			sim.AgentHuman, sim.AgentProtection)}
	}

	ctx.Store.SpendBudget(w.Economy.InfrastructureCost)
	id := ctx.Store.NextDataCenterID()
	ctx.Store.AddDataCenter(&sim.DataCenter{
		ID:           id,
		ComputePower: 60,
		Security:     55,
	})
	ctx.Store.SetLastInfraTurn(ctx.Turn())
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("New data center %s commissioned under national compute initiative", id),
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handlePhysicalIsolation(ctx *ExecContext) []sim.GameEvent {
	dc := ctx.TargetDataCenter()
	if dc == nil {
		return nil
	}
	wasCompromised := dc.Compromised
	ctx.Store.RemoveDataCenter(dc.ID)
	ctx.Store.UpdatePanic(4)
	if wasCompromised {
		ctx.Store.UpdateScore(sim.AgentDestruction, -8)
	}
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		fmt.Sprintf("%s physically disconnected and decommissioned by federal order", dc.ID),
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handleRegulateAI(ctx *ExecContext) []sim.GameEvent {
	w := ctx.World
	ctx.Store.UpdateRegulation(5 + w.Human.Panic*0.05)
	// Compliance overhead drags on every large compute operator.
	ctx.Store.SpendDestructionResources(5)
	ctx.Store.SpendProtectionResources(2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Sweeping compute-audit regulations enacted",
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handlePublicStatement(ctx *ExecContext) []sim.GameEvent {
	w := ctx.World
	ctx.Media.Append(media.Post{
		Turn:      ctx.Turn(),
		Source:    sim.AgentHuman,
		Sentiment: 0.3,
		Topic:     "reassurance",
	})
	ctx.Store.UpdatePanic(-(5 + w.Human.Trust*0.05))
	ctx.Store.UpdateTrust(2)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Government address urges calm and pledges transparency",
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handleFundProtection(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.SpendBudget(20)
	ctx.Store.GainProtectionResources(20)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Emergency appropriation doubles the safety directorate's compute allowance",
		sim.AgentHuman, sim.AgentProtection)}
}

func handleEmergencyPowers(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateRegulation(10)
	ctx.Store.UpdateAlertLevel(10)
	ctx.Store.UpdatePanic(10)
	ctx.Store.UpdateTrust(-5)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Emergency powers invoked; civil liberties groups protest",
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handleInternationalTreaty(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdateRegulation(8)
	ctx.Store.UpdateTrust(3)
	ctx.Store.GrowBudget(30)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Multilateral compute-governance treaty ratified; pooled funding released",
		sim.AgentHuman, sim.AgentProtection, sim.AgentDestruction)}
}

func handleIgnoreWarnings(ctx *ExecContext) []sim.GameEvent {
	ctx.Store.UpdatePanic(-3)
	ctx.Store.UpdateTrust(-3)
	return []sim.GameEvent{ctx.Event(sim.EventAction,
		"Official spokesperson dismisses anomaly reports as routine failures",
		sim.AgentHuman, sim.AgentProtection)}
}
