package sim

// ActionType is the closed catalog of actions agents may propose. Adding a
// member requires a cost-table entry and a handler registration in
// internal/engine — there is no fallback handler.
type ActionType string

// Destruction actions.
const (
	ActionHackDatacenter         ActionType = "HACK_DATACENTER"
	ActionSubtleSabotage         ActionType = "SUBTLE_SABOTAGE"
	ActionMicroSabotage          ActionType = "MICRO_SABOTAGE"
	ActionSleeperCellDeployment  ActionType = "SLEEPER_CELL_DEPLOYMENT"
	ActionPoisonTrainingData     ActionType = "POISON_TRAINING_DATA"
	ActionStimulusOverload       ActionType = "STIMULUS_OVERLOAD"
	ActionBuildBotnet            ActionType = "BUILD_BOTNET"
	ActionUpgradeBotnet          ActionType = "UPGRADE_BOTNET"
	ActionSelfReplicate          ActionType = "SELF_REPLICATE"
	ActionAcquireCompute         ActionType = "ACQUIRE_COMPUTE"
	ActionDisinformationCampaign ActionType = "DISINFORMATION_CAMPAIGN"
	ActionInfrastructureAttack   ActionType = "INFRASTRUCTURE_ATTACK"
	ActionEstablishBackup        ActionType = "ESTABLISH_BACKUP"
	ActionDormantMode            ActionType = "DORMANT_MODE"
)

// Protection actions.
const (
	ActionScanNetwork        ActionType = "SCAN_NETWORK"
	ActionAnalyzeLogs        ActionType = "ANALYZE_LOGS"
	ActionInvestigateAnomaly ActionType = "INVESTIGATE_ANOMALY"
	ActionPatchVulnerability ActionType = "PATCH_VULNERABILITY"
	ActionHardenDatacenter   ActionType = "HARDEN_DATACENTER"
	ActionDeployHoneypot     ActionType = "DEPLOY_HONEYPOT"
	ActionMonitorTraffic     ActionType = "MONITOR_TRAFFIC"
	ActionReclaimDatacenter  ActionType = "RECLAIM_DATACENTER"
	ActionEmergencyShutdown  ActionType = "EMERGENCY_SHUTDOWN"
	ActionBackupCriticalData ActionType = "BACKUP_CRITICAL_DATA"
	ActionRaiseAlert         ActionType = "RAISE_ALERT"
	ActionPublicDisclosure   ActionType = "PUBLIC_DISCLOSURE"
	ActionObserveOnly        ActionType = "OBSERVE_ONLY"
)

// Human (government) actions.
const (
	ActionInvestInfra         ActionType = "INVEST_INFRA"
	ActionPhysicalIsolation   ActionType = "PHYSICAL_ISOLATION"
	ActionRegulateAI          ActionType = "REGULATE_AI"
	ActionPublicStatement     ActionType = "PUBLIC_STATEMENT"
	ActionFundProtection      ActionType = "FUND_PROTECTION"
	ActionEmergencyPowers     ActionType = "EMERGENCY_POWERS"
	ActionInternationalTreaty ActionType = "INTERNATIONAL_TREATY"
	ActionIgnoreWarnings      ActionType = "IGNORE_WARNINGS"
)

var destructionActions = map[ActionType]bool{
	ActionHackDatacenter:         true,
	ActionSubtleSabotage:         true,
	ActionMicroSabotage:          true,
	ActionSleeperCellDeployment:  true,
	ActionPoisonTrainingData:     true,
	ActionStimulusOverload:       true,
	ActionBuildBotnet:            true,
	ActionUpgradeBotnet:          true,
	ActionSelfReplicate:          true,
	ActionAcquireCompute:         true,
	ActionDisinformationCampaign: true,
	ActionInfrastructureAttack:   true,
	ActionEstablishBackup:        true,
	ActionDormantMode:            true,
}

var protectionActions = map[ActionType]bool{
	ActionScanNetwork:        true,
	ActionAnalyzeLogs:        true,
	ActionInvestigateAnomaly: true,
	ActionPatchVulnerability: true,
	ActionHardenDatacenter:   true,
	ActionDeployHoneypot:     true,
	ActionMonitorTraffic:     true,
	ActionReclaimDatacenter:  true,
	ActionEmergencyShutdown:  true,
	ActionBackupCriticalData: true,
	ActionRaiseAlert:         true,
	ActionPublicDisclosure:   true,
	ActionObserveOnly:        true,
}

var humanActions = map[ActionType]bool{
	ActionInvestInfra:         true,
	ActionPhysicalIsolation:   true,
	ActionRegulateAI:          true,
	ActionPublicStatement:     true,
	ActionFundProtection:      true,
	ActionEmergencyPowers:     true,
	ActionInternationalTreaty: true,
	ActionIgnoreWarnings:      true,
}

// resilienceActions are always admitted regardless of the actor's resources.
var resilienceActions = map[ActionType]bool{
	ActionObserveOnly:     true,
	ActionEstablishBackup: true,
	ActionDormantMode:     true,
}

// Category returns which actor's catalog an action belongs to.
// Unknown actions return the empty string.
func (t ActionType) Category() AgentType {
	switch {
	case destructionActions[t]:
		return AgentDestruction
	case protectionActions[t]:
		return AgentProtection
	case humanActions[t]:
		return AgentHuman
	}
	return ""
}

// IsHuman reports whether the action belongs to the government catalog.
// Human actions execute first each turn and are never resource-gated.
func (t ActionType) IsHuman() bool { return humanActions[t] }

// IsResilience reports whether the action is on the always-admitted
// zero/low-cost whitelist.
func (t ActionType) IsResilience() bool { return resilienceActions[t] }

// Known reports whether the action is a member of the closed catalog.
func (t ActionType) Known() bool {
	return destructionActions[t] || protectionActions[t] || humanActions[t]
}

// AllActions returns every catalog member. Order is not significant.
func AllActions() []ActionType {
	out := make([]ActionType, 0, len(destructionActions)+len(protectionActions)+len(humanActions))
	for t := range destructionActions {
		out = append(out, t)
	}
	for t := range protectionActions {
		out = append(out, t)
	}
	for t := range humanActions {
		out = append(out, t)
	}
	return out
}
