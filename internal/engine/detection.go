package engine

import (
	"fmt"
	"math"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

// DetectionOutcome is the three-valued result of the turn-synchronous
// detection check. IGNORED is a real outcome, not an early return: the
// defender caught the attacker but a distrusted government waved it off.
type DetectionOutcome int

const (
	DetectionNone DetectionOutcome = iota
	DetectionIgnored
	DetectionTerminal
)

// DetectionSystem is the immediate, turn-synchronous risk model. It answers
// "how suspicious does this turn look right now" from the destruction
// agent's accumulated detection risk.
type DetectionSystem struct {
	params tuning.Params
	rng    *entropy.Source
}

// NewDetectionSystem creates the immediate detection strategy.
func NewDetectionSystem(params tuning.Params, rng *entropy.Source) *DetectionSystem {
	return &DetectionSystem{params: params, rng: rng}
}

// CalculateRisk returns the non-negative immediate risk contribution of a
// single proposal. Only destruction actions carry risk; each action family
// has its own base formula, and everything scales with the defender's alert
// level.
func (d *DetectionSystem) CalculateRisk(p sim.Proposal, w *sim.WorldState) float64 {
	var base float64
	switch p.Action {
	case sim.ActionHackDatacenter:
		base = 15 + p.Intensity*0.10
		if dc := w.DataCenter(p.Target); dc != nil {
			base += dc.Security * 0.15
		}
	case sim.ActionSubtleSabotage:
		// Deliberately the quietest offensive action.
		base = 2 + p.Intensity*0.05
	case sim.ActionMicroSabotage:
		base = 4 + p.Intensity*0.06
	case sim.ActionSleeperCellDeployment:
		base = 6 + p.Intensity*0.08
	case sim.ActionPoisonTrainingData:
		base = 5 + p.Intensity*0.05
	case sim.ActionStimulusOverload:
		base = 18 + p.Intensity*0.12
	case sim.ActionBuildBotnet:
		base = 8 + p.Intensity*0.08
	case sim.ActionUpgradeBotnet:
		base = 5
	case sim.ActionSelfReplicate:
		base = 12 + p.Intensity*0.10
	case sim.ActionAcquireCompute:
		base = 7
	case sim.ActionDisinformationCampaign:
		base = 6 + p.Intensity*0.04
	case sim.ActionInfrastructureAttack:
		base = 20 + p.Intensity*0.15
	case sim.ActionEstablishBackup:
		base = 3
	case sim.ActionDormantMode:
		return 0
	default:
		return 0
	}
	return base * (1 + w.Protection.AlertLevel/150)
}

// PerformDetectionCheck runs the three-tier response against the accumulated
// detection risk. Critical risk rolls a sigmoid centered on the critical
// threshold; moderate and minor tiers raise the alert level without ending
// anything. The ignored branch triggers when human trust is below the
// configured floor.
func (d *DetectionSystem) PerformDetectionCheck(store *state.Store) (DetectionOutcome, []sim.GameEvent) {
	w := store.World()
	risk := w.Destruction.DetectionRisk
	var events []sim.GameEvent

	switch {
	case risk >= d.params.CriticalRiskThreshold:
		p := sigmoid(risk, d.params.CriticalRiskThreshold, 20)
		if d.rng.Chance(p) && risk >= d.params.CriticalRiskFloor {
			store.RecordDetection()
			if w.Human.Trust < d.params.IgnoreDetectionTrust {
				// The defender was right, but nobody believes it.
				store.UpdateTrust(-5)
				store.UpdateScore(sim.AgentProtection, 5)
				events = append(events, sim.NewEvent(w.Turn, sim.EventDetection,
					"Conclusive evidence of a hostile AI presented to authorities and dismissed",
					sim.AgentProtection, sim.AgentHuman))
				return DetectionIgnored, events
			}
			events = append(events, sim.NewEvent(w.Turn, sim.EventDetection,
				"Hostile AI conclusively identified and contained",
				sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman))
			return DetectionTerminal, events
		}
	case risk >= d.params.ModerateRiskThreshold:
		store.UpdateAlertLevel(15)
		events = append(events, sim.NewEvent(w.Turn, sim.EventDetection,
			"Moderate anomaly pattern flagged across monitored infrastructure",
			sim.AgentProtection))
	case risk >= d.params.MinorRiskThreshold:
		store.UpdateAlertLevel(5)
		events = append(events, sim.NewEvent(w.Turn, sim.EventDetection,
			"Minor statistical anomaly logged for review",
			sim.AgentProtection))
	}
	return DetectionNone, events
}

// CheckPopulationAnomaly rolls detection against unexplained population
// loss. Below 5% loss nothing registers; from there the probability grows
// linearly, reaching certainty at 25% loss.
func (d *DetectionSystem) CheckPopulationAnomaly(store *state.Store) (bool, []sim.GameEvent) {
	w := store.World()
	loss := w.PopulationLossFraction()
	if loss <= 0.05 {
		return false, nil
	}
	p := (loss - 0.05) / 0.20
	if p > 1 {
		p = 1
	}
	if !d.rng.Chance(p) {
		return false, nil
	}
	store.RecordDetection()
	events := []sim.GameEvent{sim.NewEvent(w.Turn, sim.EventDetection,
		fmt.Sprintf("Epidemiologists attribute %.1f%% population decline to coordinated infrastructure failure", loss*100),
		sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman)}
	return true, events
}

// InvestigationCheck resolves an INVESTIGATE_ANOMALY proposal. When
// destruction activity touched the same data center this turn the
// investigation has a real trail to follow; otherwise there is a flat 30%
// chance of a coincidental correlation to chase. Burnout past 80 halves the
// investigator's effectiveness.
func (d *DetectionSystem) InvestigationCheck(p sim.Proposal, store *state.Store, sameTarget []sim.Proposal) (bool, []sim.GameEvent) {
	w := store.World()
	prob := 0.2 + 0.5*(p.Intensity/100)
	if w.Protection.BurnoutLevel >= 80 {
		prob /= 2
	}

	correlated := len(sameTarget) > 0 || d.rng.Chance(0.30)
	if !correlated || !d.rng.Chance(prob) {
		return false, []sim.GameEvent{sim.NewEvent(w.Turn, sim.EventFailure,
			"Investigation closed without actionable findings",
			sim.AgentProtection)}
	}

	store.UpdateDetectionRisk(20)
	store.UpdateAlertLevel(10)
	store.RecordDetection()
	return true, []sim.GameEvent{sim.NewEvent(w.Turn, sim.EventSuccess,
		"Investigation uncovers traces of deliberate interference",
		sim.AgentProtection)}
}

// sigmoid returns 1/(1+e^(-(x-mid)/scale)); exactly 0.5 at the midpoint.
func sigmoid(x, mid, scale float64) float64 {
	return 1 / (1 + math.Exp(-(x-mid)/scale))
}
