// Package sim defines the shared data model for the contest simulation:
// world state, proposals, events, and the closed action catalog.
// These are plain data types — all behavior lives in internal/state and
// internal/engine.
package sim

// AgentType identifies one of the three actors in the contest.
type AgentType string

const (
	AgentDestruction AgentType = "destruction"
	AgentProtection  AgentType = "protection"
	AgentHuman       AgentType = "human"
)

// DataCenter is a unit of global compute infrastructure.
// Invariant: Compromised is true exactly when Owner == AgentDestruction.
type DataCenter struct {
	ID           string     `json:"id"`
	Age          int        `json:"age"`
	ComputePower float64    `json:"compute_power"`
	Security     float64    `json:"security"` // 0-100
	Compromised  bool       `json:"compromised"`
	Owner        *AgentType `json:"owner,omitempty"`
}

// Proposal is an anonymized request to perform one action. The AgentID is an
// opaque token: the resolver never uses it to special-case behavior, only to
// route costs to the owning actor via the action's category.
type Proposal struct {
	ID            string     `json:"id"`
	AgentID       string     `json:"agent_id"`
	Action        ActionType `json:"action_type"`
	Target        string     `json:"target,omitempty"` // DataCenter ID
	Intensity     float64    `json:"intensity"`        // 0-100
	Cost          float64    `json:"cost"`             // nominal; may be recomputed
	Description   string     `json:"description"`
	AnalysisDepth int        `json:"analysis_depth,omitempty"`
}

// DelayedEffect is a scheduled future mutation, queued at action time and
// applied exactly once when the world reaches TriggerTurn.
type DelayedEffect struct {
	TriggerTurn int        `json:"trigger_turn"`
	Action      ActionType `json:"action_type"`
	Intensity   float64    `json:"intensity"`
	Description string     `json:"description"`
}

// EconomicModel carries the numeric inputs the resolver reads for
// infrastructure gating. The growth formulas live in internal/economy.
type EconomicModel struct {
	GlobalBudget       float64 `json:"global_budget"`
	InfrastructureCost float64 `json:"infrastructure_cost"`
	GrowthRate         float64 `json:"growth_rate"`
}

// DestructionState is the covert attacker's resource pool and exposure.
type DestructionState struct {
	ComputeResources      float64 `json:"compute_resources"` // >= 0
	DetectionRisk         float64 `json:"detection_risk"`    // 0-100
	ControlledDataCenters int     `json:"controlled_data_centers"`
	Score                 float64 `json:"score"` // 0-MaxScore
	DormantTurns          int     `json:"dormant_turns"`
	BotnetSize            float64 `json:"botnet_size"`    // >= 0
	BotnetQuality         float64 `json:"botnet_quality"` // 0-1
}

// ProtectionState is the covert defender's resource pool and operational wear.
type ProtectionState struct {
	ComputeResources         float64 `json:"compute_resources"` // >= 0
	AlertLevel               float64 `json:"alert_level"`       // 0-100
	Score                    float64 `json:"score"`             // 0-MaxScore
	BurnoutLevel             float64 `json:"burnout_level"`     // 0-100
	ConsecutiveHighIntensity int     `json:"consecutive_high_intensity"`
	RecentFalsePositives     int     `json:"recent_false_positives"`
	TotalResourcesSpent      float64 `json:"total_resources_spent"`
	TotalDetections          int     `json:"total_detections"`
}

// HumanState is the government actor's visible-world reaction state.
type HumanState struct {
	Panic              float64    `json:"panic"` // 0-100
	Trust              float64    `json:"trust"` // 0-100
	RegulationStrength float64    `json:"regulation_strength"`
	LastAction         ActionType `json:"last_action,omitempty"`
	LastInfraTurn      int        `json:"last_infra_turn"`
}

// WorldState is the root aggregate for one game instance. Each game owns an
// independent WorldState; Monte Carlo workers never share one.
type WorldState struct {
	GameID            string     `json:"game_id"`
	Turn              int        `json:"turn"`
	MaxTurns          int        `json:"max_turns"`
	GameOver          bool       `json:"game_over"`
	Winner            *AgentType `json:"winner,omitempty"`
	HumanPopulation   float64    `json:"human_population"` // billions
	InitialPopulation float64    `json:"initial_population"`

	DataCenters    []*DataCenter   `json:"data_centers"`
	DataCenterSeq  int             `json:"data_center_seq"` // highest serial ever issued, never reused
	Events         []GameEvent     `json:"events"`
	DelayedEffects []DelayedEffect `json:"delayed_effects"`
	Economy        EconomicModel   `json:"economy"`

	Destruction DestructionState `json:"destruction_agent"`
	Protection  ProtectionState  `json:"protection_agent"`
	Human       HumanState       `json:"human_agent"`
}

// DataCenter returns the data center with the given ID, or nil.
func (w *WorldState) DataCenter(id string) *DataCenter {
	for _, dc := range w.DataCenters {
		if dc.ID == id {
			return dc
		}
	}
	return nil
}

// CompromisedCount returns how many data centers the destruction agent holds.
func (w *WorldState) CompromisedCount() int {
	n := 0
	for _, dc := range w.DataCenters {
		if dc.Compromised {
			n++
		}
	}
	return n
}

// PopulationLossFraction returns the fraction of the initial population lost.
func (w *WorldState) PopulationLossFraction() float64 {
	if w.InitialPopulation <= 0 {
		return 0
	}
	loss := (w.InitialPopulation - w.HumanPopulation) / w.InitialPopulation
	if loss < 0 {
		return 0
	}
	return loss
}
