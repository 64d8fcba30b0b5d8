package engine

import (
	"fmt"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

// RealisticDetectionSystem models the gap between an action happening and it
// being noticed. Risk splits into visibility (how loud the action is) and
// traceability (how attributable it is); detections surface turns later and
// can be missed outright. It deliberately stays decoupled from the immediate
// DetectionSystem — the two model different timescales.
type RealisticDetectionSystem struct {
	params tuning.Params
	rng    *entropy.Source

	pending  []pendingDetection
	detected map[string]bool // proposal IDs that already surfaced
}

type pendingDetection struct {
	actedAt  int
	detectAt int
	proposal sim.Proposal
}

// NewRealisticDetectionSystem creates the delayed detection strategy.
func NewRealisticDetectionSystem(params tuning.Params, rng *entropy.Source) *RealisticDetectionSystem {
	return &RealisticDetectionSystem{
		params:   params,
		rng:      rng,
		detected: make(map[string]bool),
	}
}

// riskProfile returns (visibility, traceability) for an action. Covert
// actions like POISON_TRAINING_DATA are engineered near-invisible;
// STIMULUS_OVERLOAD is loud but hard to attribute.
func riskProfile(p sim.Proposal) (visibility, traceability float64) {
	switch p.Action {
	case sim.ActionPoisonTrainingData:
		return 1 + p.Intensity*0.02, 15
	case sim.ActionStimulusOverload:
		return 60 + p.Intensity*0.30, 5
	case sim.ActionHackDatacenter:
		return 25 + p.Intensity*0.20, 30 + p.Intensity*0.10
	case sim.ActionSubtleSabotage:
		return 5 + p.Intensity*0.05, 10
	case sim.ActionMicroSabotage:
		return 8, 12
	case sim.ActionSleeperCellDeployment:
		return 4, 20
	case sim.ActionBuildBotnet:
		return 12 + p.Intensity*0.08, 25
	case sim.ActionUpgradeBotnet:
		return 6, 18
	case sim.ActionSelfReplicate:
		return 15, 35
	case sim.ActionAcquireCompute:
		return 10, 20
	case sim.ActionDisinformationCampaign:
		return 30 + p.Intensity*0.10, 8
	case sim.ActionInfrastructureAttack:
		return 55 + p.Intensity*0.25, 40
	case sim.ActionEstablishBackup:
		return 3, 10
	case sim.ActionDormantMode:
		return 0, 0
	}
	return 10, 10
}

// CalculateRisk returns the stealth-model risk for a proposal: the mean of
// its visibility and traceability components.
func (r *RealisticDetectionSystem) CalculateRisk(p sim.Proposal) float64 {
	vis, trace := riskProfile(p)
	return (vis + trace) / 2
}

// ScheduleDetection enqueues a future detection roll for a proposal. Louder
// actions surface sooner: the delay runs from 5 turns at negligible risk
// down to 1 turn at maximum risk.
func (r *RealisticDetectionSystem) ScheduleDetection(p sim.Proposal, turn int) {
	risk := r.CalculateRisk(p)
	delay := 5 - int(risk/25)
	if delay < 1 {
		delay = 1
	}
	if delay > 5 {
		delay = 5
	}
	r.pending = append(r.pending, pendingDetection{actedAt: turn, detectAt: turn + delay, proposal: p})
}

// PendingCount returns how many detections have not yet matured.
func (r *RealisticDetectionSystem) PendingCount() int { return len(r.pending) }

// ProcessDelayedDetections resolves every pending entry whose delay has
// elapsed. A proposal ID that has already surfaced never surfaces again;
// otherwise the false-negative rate decides whether the trail went cold for
// good. Independently, each turn carries a small flat chance of a spurious
// detection unrelated to any real proposal.
func (r *RealisticDetectionSystem) ProcessDelayedDetections(store *state.Store) []sim.GameEvent {
	w := store.World()
	var events []sim.GameEvent

	remaining := r.pending[:0]
	for _, pd := range r.pending {
		if pd.detectAt > w.Turn {
			remaining = append(remaining, pd)
			continue
		}
		if r.detected[pd.proposal.ID] {
			continue
		}
		if r.rng.Chance(r.params.FalseNegativeRate) {
			// Missed for good — this entry never resurfaces.
			continue
		}
		r.detected[pd.proposal.ID] = true
		store.RecordDetection()
		store.UpdateAlertLevel(10)
		store.UpdateDetectionRisk(8)
		e := sim.NewEvent(w.Turn, sim.EventDetection,
			fmt.Sprintf("Forensic review surfaces evidence of %s activity from %d turns ago",
				pd.proposal.Action, w.Turn-pd.actedAt),
			sim.AgentProtection)
		e.Metadata = map[string]any{"proposal_id": pd.proposal.ID, "action": string(pd.proposal.Action)}
		events = append(events, e)
	}
	r.pending = remaining

	// Spurious detections keep the defender honest about its own signal.
	if r.rng.Chance(r.params.FalsePositiveRate / 10) {
		store.RecordFalsePositive()
		store.UpdateAlertLevel(5)
		e := sim.NewEvent(w.Turn, sim.EventDetection,
			"Anomaly alert raised; later analysis finds benign hardware fault",
			sim.AgentProtection)
		e.Metadata = map[string]any{"falsePositive": true}
		events = append(events, e)
	}

	return events
}

// WasDetected reports whether a proposal ID has already surfaced.
func (r *RealisticDetectionSystem) WasDetected(proposalID string) bool {
	return r.detected[proposalID]
}
