package strategy

import (
	"github.com/google/uuid"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/sim"
)

// Policy produces a batch of proposals for one actor each turn.
type Policy interface {
	Propose(v View, rng *entropy.Source) []sim.Proposal
}

// Style selects how aggressively the destruction policy plays.
type Style int

const (
	StyleStealthy Style = iota
	StyleAggressive
)

func newProposal(agentID string, action sim.ActionType, target string, intensity float64) sim.Proposal {
	return sim.Proposal{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		Action:    action,
		Target:    target,
		Intensity: intensity,
	}
}

// DestructionPolicy is a heuristic covert attacker. Stealthy play keeps
// detection risk low and grinds; aggressive play races population damage
// before the defenders close in.
type DestructionPolicy struct {
	AgentID string
	Style   Style
}

// Propose implements Policy.
func (d *DestructionPolicy) Propose(v View, rng *entropy.Source) []sim.Proposal {
	if v.Destruction == nil {
		return nil
	}
	st := v.Destruction

	// Lie low whenever accumulated risk gets dangerous.
	if st.DetectionRisk > 75 {
		return []sim.Proposal{newProposal(d.AgentID, sim.ActionDormantMode, "", 0)}
	}

	var out []sim.Proposal

	// Keep the resource engine running.
	if st.ComputeResources < 30 {
		out = append(out, newProposal(d.AgentID, sim.ActionAcquireCompute, "", 50))
		out = append(out, newProposal(d.AgentID, sim.ActionEstablishBackup, "", 0))
		return out
	}

	if st.BotnetSize < 100 && rng.Chance(0.5) {
		out = append(out, newProposal(d.AgentID, sim.ActionBuildBotnet, "", rng.Range(30, 80)))
	}

	target := pickTarget(v, rng)
	switch d.Style {
	case StyleAggressive:
		switch {
		case rng.Chance(0.4) && target != "":
			out = append(out, newProposal(d.AgentID, sim.ActionInfrastructureAttack, target, rng.Range(60, 100)))
		case rng.Chance(0.5):
			out = append(out, newProposal(d.AgentID, sim.ActionStimulusOverload, "", rng.Range(50, 90)))
		case target != "":
			out = append(out, newProposal(d.AgentID, sim.ActionHackDatacenter, target, rng.Range(40, 80)))
		}
	default: // StyleStealthy
		switch {
		case rng.Chance(0.35):
			out = append(out, newProposal(d.AgentID, sim.ActionMicroSabotage, "", rng.Range(30, 70)))
		case rng.Chance(0.3):
			out = append(out, newProposal(d.AgentID, sim.ActionPoisonTrainingData, "", rng.Range(30, 60)))
		case rng.Chance(0.4) && target != "":
			out = append(out, newProposal(d.AgentID, sim.ActionSubtleSabotage, target, rng.Range(20, 50)))
		case rng.Chance(0.3):
			out = append(out, newProposal(d.AgentID, sim.ActionSleeperCellDeployment, "", rng.Range(40, 80)))
		default:
			out = append(out, newProposal(d.AgentID, sim.ActionDisinformationCampaign, "", rng.Range(30, 60)))
		}
	}
	if len(out) == 0 {
		out = append(out, newProposal(d.AgentID, sim.ActionDormantMode, "", 0))
	}
	return out
}

func pickTarget(v View, rng *entropy.Source) string {
	if len(v.DataCenters) == 0 {
		return ""
	}
	// Prefer soft targets.
	best := v.DataCenters[rng.Intn(len(v.DataCenters))]
	for i := 0; i < 3; i++ {
		c := v.DataCenters[rng.Intn(len(v.DataCenters))]
		if c.Security < best.Security {
			best = c
		}
	}
	return best.ID
}

// ProtectionPolicy is a heuristic defender: it escalates from routine
// monitoring to targeted investigation as its alert level and the visible
// anomaly stream grow.
type ProtectionPolicy struct {
	AgentID string
}

// Propose implements Policy.
func (p *ProtectionPolicy) Propose(v View, rng *entropy.Source) []sim.Proposal {
	if v.Protection == nil {
		return nil
	}
	st := v.Protection

	// Exhausted teams make mistakes; take a recovery cycle.
	if st.BurnoutLevel > 85 {
		return []sim.Proposal{newProposal(p.AgentID, sim.ActionObserveOnly, "", 0)}
	}

	var out []sim.Proposal
	anomalies := 0
	var lastAnomalyTarget string
	for _, e := range recentEvents(v, 2) {
		if e.Type == sim.EventDetection {
			anomalies++
		}
	}
	if len(v.DataCenters) > 0 {
		lastAnomalyTarget = v.DataCenters[rng.Intn(len(v.DataCenters))].ID
	}

	switch {
	case anomalies >= 2 && st.ComputeResources > 40:
		out = append(out, newProposal(p.AgentID, sim.ActionInvestigateAnomaly, lastAnomalyTarget, rng.Range(60, 95)))
		if rng.Chance(0.4) {
			pr := newProposal(p.AgentID, sim.ActionAnalyzeLogs, "", 50)
			pr.AnalysisDepth = 2 + rng.Intn(4)
			out = append(out, pr)
		}
	case st.AlertLevel > 50 && st.ComputeResources > float64(len(v.DataCenters)*6):
		out = append(out, newProposal(p.AgentID, sim.ActionScanNetwork, "", 50))
	case rng.Chance(0.3) && lastAnomalyTarget != "":
		out = append(out, newProposal(p.AgentID, sim.ActionHardenDatacenter, lastAnomalyTarget, rng.Range(30, 60)))
	case rng.Chance(0.3):
		out = append(out, newProposal(p.AgentID, sim.ActionDeployHoneypot, "", rng.Range(20, 50)))
	default:
		out = append(out, newProposal(p.AgentID, sim.ActionMonitorTraffic, "", 20))
	}

	if rng.Chance(0.15) {
		out = append(out, newProposal(p.AgentID, sim.ActionBackupCriticalData, "", 0))
	}
	return out
}

// GovernmentPolicy reacts only to what the public can see: panic, visible
// incidents, and the budget. It never reads hidden AI state.
type GovernmentPolicy struct {
	AgentID string
}

// Propose implements Policy.
func (g *GovernmentPolicy) Propose(v View, rng *entropy.Source) []sim.Proposal {
	if v.Human == nil {
		return nil
	}
	st := v.Human

	visibleIncidents := 0
	for _, e := range recentEvents(v, 1) {
		if e.Type == sim.EventDetection || e.Type == sim.EventFailure {
			visibleIncidents++
		}
	}

	switch {
	case st.Panic > 70:
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionEmergencyPowers, "", 0)}
	case visibleIncidents >= 2 && st.Trust >= 40:
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionFundProtection, "", 0)}
	case visibleIncidents >= 2:
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionRegulateAI, "", 0)}
	case st.Panic > 40:
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionPublicStatement, "", 0)}
	case v.Budget >= v.InfraCost && rng.Chance(0.25):
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionInvestInfra, "", 0)}
	case st.Trust < 30 && rng.Chance(0.3):
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionIgnoreWarnings, "", 0)}
	case rng.Chance(0.1):
		return []sim.Proposal{newProposal(g.AgentID, sim.ActionInternationalTreaty, "", 0)}
	}
	return nil
}
