// Package engine implements the turn resolution pipeline: delayed-effect
// firing, proposal admission, handler dispatch, detection evaluation, win
// conditions, and the sentiment update.
package engine

import (
	"log/slog"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

// ExecContext is the shared context a handler receives: the proposal being
// executed plus handles to the state store, both detection systems, the media
// timeline, tuning, and the game's random source. Handlers mutate state only
// through the store's clamped setters and report what happened as GameEvents.
type ExecContext struct {
	Proposal  sim.Proposal
	Store     *state.Store
	World     *sim.WorldState
	Detection *DetectionSystem
	Realistic *RealisticDetectionSystem
	Media     *media.Timeline
	Params    tuning.Params
	RNG       *entropy.Source

	// DestructionTargets maps data center IDs to the admitted destruction
	// proposals that targeted them this turn. Investigation handlers
	// correlate against it; it is rebuilt every turn after admission.
	DestructionTargets map[string][]sim.Proposal
}

// Handler executes one proposal against the world and returns the events it
// produced. Handlers never call each other.
type Handler func(ctx *ExecContext) []sim.GameEvent

// Turn returns the current turn number.
func (ctx *ExecContext) Turn() int { return ctx.World.Turn }

// Event builds a GameEvent for the current turn.
func (ctx *ExecContext) Event(typ sim.EventType, description string, visibility ...sim.AgentType) sim.GameEvent {
	return sim.NewEvent(ctx.World.Turn, typ, description, visibility...)
}

// TargetDataCenter resolves the proposal's target, or nil when the target is
// missing or references a nonexistent center. Handlers treat nil as a
// logged no-op per the malformed-input policy.
func (ctx *ExecContext) TargetDataCenter() *sim.DataCenter {
	if ctx.Proposal.Target == "" {
		return nil
	}
	dc := ctx.World.DataCenter(ctx.Proposal.Target)
	if dc == nil {
		slog.Debug("proposal references nonexistent target",
			"proposal", ctx.Proposal.ID,
			"action", ctx.Proposal.Action,
			"target", ctx.Proposal.Target)
	}
	return dc
}

// ApplyExposure accumulates immediate detection risk for a destruction
// proposal and schedules its delayed detection. Every covert handler calls
// this once so risk math lives in the detection systems, not the handlers.
func (ctx *ExecContext) ApplyExposure() {
	risk := ctx.Detection.CalculateRisk(ctx.Proposal, ctx.World)
	ctx.Store.UpdateDetectionRisk(risk * 0.25)
	ctx.Realistic.ScheduleDetection(ctx.Proposal, ctx.World.Turn)
}

// handlerRegistry maps every catalog member to exactly one handler. Unknown
// action types are not in the map and resolve to a logged no-op.
func handlerRegistry() map[sim.ActionType]Handler {
	return map[sim.ActionType]Handler{
		// Destruction.
		sim.ActionHackDatacenter:         handleHackDatacenter,
		sim.ActionSubtleSabotage:         handleSubtleSabotage,
		sim.ActionMicroSabotage:          handleMicroSabotage,
		sim.ActionSleeperCellDeployment:  handleSleeperCellDeployment,
		sim.ActionPoisonTrainingData:     handlePoisonTrainingData,
		sim.ActionStimulusOverload:       handleStimulusOverload,
		sim.ActionBuildBotnet:            handleBuildBotnet,
		sim.ActionUpgradeBotnet:          handleUpgradeBotnet,
		sim.ActionSelfReplicate:          handleSelfReplicate,
		sim.ActionAcquireCompute:         handleAcquireCompute,
		sim.ActionDisinformationCampaign: handleDisinformationCampaign,
		sim.ActionInfrastructureAttack:   handleInfrastructureAttack,
		sim.ActionEstablishBackup:        handleEstablishBackup,
		sim.ActionDormantMode:            handleDormantMode,

		// Protection.
		sim.ActionScanNetwork:        handleScanNetwork,
		sim.ActionAnalyzeLogs:        handleAnalyzeLogs,
		sim.ActionInvestigateAnomaly: handleInvestigateAnomaly,
		sim.ActionPatchVulnerability: handlePatchVulnerability,
		sim.ActionHardenDatacenter:   handleHardenDatacenter,
		sim.ActionDeployHoneypot:     handleDeployHoneypot,
		sim.ActionMonitorTraffic:     handleMonitorTraffic,
		sim.ActionReclaimDatacenter:  handleReclaimDatacenter,
		sim.ActionEmergencyShutdown:  handleEmergencyShutdown,
		sim.ActionBackupCriticalData: handleBackupCriticalData,
		sim.ActionRaiseAlert:         handleRaiseAlert,
		sim.ActionPublicDisclosure:   handlePublicDisclosure,
		sim.ActionObserveOnly:        handleObserveOnly,

		// Human.
		sim.ActionInvestInfra:         handleInvestInfra,
		sim.ActionPhysicalIsolation:   handlePhysicalIsolation,
		sim.ActionRegulateAI:          handleRegulateAI,
		sim.ActionPublicStatement:     handlePublicStatement,
		sim.ActionFundProtection:      handleFundProtection,
		sim.ActionEmergencyPowers:     handleEmergencyPowers,
		sim.ActionInternationalTreaty: handleInternationalTreaty,
		sim.ActionIgnoreWarnings:      handleIgnoreWarnings,
	}
}
