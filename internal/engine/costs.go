package engine

import (
	"math"

	"github.com/talgya/nightwatch/internal/sim"
)

// staticCosts is the base cost table for actions whose price does not depend
// on world state. Human actions are political, not compute, and cost zero.
var staticCosts = map[sim.ActionType]float64{
	sim.ActionHackDatacenter:         25,
	sim.ActionSubtleSabotage:         12,
	sim.ActionMicroSabotage:          10,
	sim.ActionSleeperCellDeployment:  30,
	sim.ActionPoisonTrainingData:     20,
	sim.ActionStimulusOverload:       35,
	sim.ActionBuildBotnet:            18,
	sim.ActionUpgradeBotnet:          15,
	sim.ActionSelfReplicate:          40,
	sim.ActionAcquireCompute:         10,
	sim.ActionDisinformationCampaign: 8,
	sim.ActionInfrastructureAttack:   45,
	sim.ActionEstablishBackup:        5,
	sim.ActionDormantMode:            0,

	sim.ActionInvestigateAnomaly: 15,
	sim.ActionPatchVulnerability: 10,
	sim.ActionHardenDatacenter:   20,
	sim.ActionDeployHoneypot:     25,
	sim.ActionMonitorTraffic:     8,
	sim.ActionReclaimDatacenter:  30,
	sim.ActionEmergencyShutdown:  40,
	sim.ActionBackupCriticalData: 5,
	sim.ActionRaiseAlert:         5,
	sim.ActionPublicDisclosure:   10,
	sim.ActionObserveOnly:        0,
}

const scanCostPerDataCenter = 6

// ActualCost computes what a proposal really costs this turn, overriding the
// nominal Cost field. SCAN_NETWORK scales with the number of data centers;
// ANALYZE_LOGS prices analysis depth superlinearly so scanning the whole
// history is never the obvious move.
func ActualCost(p sim.Proposal, w *sim.WorldState) float64 {
	switch p.Action {
	case sim.ActionScanNetwork:
		return float64(len(w.DataCenters)) * scanCostPerDataCenter
	case sim.ActionAnalyzeLogs:
		depth := float64(p.AnalysisDepth)
		return math.Floor(10 + 5*depth + 0.5*depth*depth)
	}
	if p.Action.IsHuman() {
		return 0
	}
	if cost, ok := staticCosts[p.Action]; ok {
		return cost
	}
	return p.Cost
}
