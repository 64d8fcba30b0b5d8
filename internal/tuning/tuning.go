// Package tuning holds the balance parameters for the contest engine.
// Defaults are compiled in; a YAML file can overlay any subset for balance
// experiments without rebuilding.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params are the knobs the balance harness sweeps. Zero values in a YAML
// overlay mean "keep the default".
type Params struct {
	MaxTurns           int     `yaml:"max_turns"`
	InitialPopulation  float64 `yaml:"initial_population"` // billions
	InitialDataCenters int     `yaml:"initial_data_centers"`
	MaxScore           float64 `yaml:"max_score"`
	ScoreDeadband      float64 `yaml:"score_deadband"`

	// Win condition: destruction wins when population falls to this fraction
	// of the initial value.
	PopulationWinFraction float64 `yaml:"population_win_fraction"`

	// Proposal admission.
	ProposalDropRate float64 `yaml:"proposal_drop_rate"`

	// Starting resource pools.
	DestructionResources float64 `yaml:"destruction_resources"`
	ProtectionResources  float64 `yaml:"protection_resources"`

	// Immediate detection thresholds.
	CriticalRiskThreshold float64 `yaml:"critical_risk_threshold"`
	CriticalRiskFloor     float64 `yaml:"critical_risk_floor"`
	ModerateRiskThreshold float64 `yaml:"moderate_risk_threshold"`
	MinorRiskThreshold    float64 `yaml:"minor_risk_threshold"`

	// Delayed detection.
	FalseNegativeRate float64 `yaml:"false_negative_rate"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`

	// Detection-ignored branch: below this trust a terminal detection is
	// waved off by the government.
	IgnoreDetectionTrust float64 `yaml:"ignore_detection_trust"`

	// Sentiment.
	TrustErosionDCCount int     `yaml:"trust_erosion_dc_count"`
	MediaNoiseScale     float64 `yaml:"media_noise_scale"`

	// Economy.
	GlobalBudget       float64 `yaml:"global_budget"`
	InfrastructureCost float64 `yaml:"infrastructure_cost"`
	EconomicGrowthRate float64 `yaml:"economic_growth_rate"`
}

// Default returns the baseline balance used by tests and the harness.
func Default() Params {
	return Params{
		MaxTurns:              50,
		InitialPopulation:     8.0,
		InitialDataCenters:    12,
		MaxScore:              100,
		ScoreDeadband:         10,
		PopulationWinFraction: 0.30,
		ProposalDropRate:      0.10,
		DestructionResources:  100,
		ProtectionResources:   100,
		CriticalRiskThreshold: 95,
		CriticalRiskFloor:     85,
		ModerateRiskThreshold: 70,
		MinorRiskThreshold:    50,
		FalseNegativeRate:     0.40,
		FalsePositiveRate:     0.15,
		IgnoreDetectionTrust:  30,
		TrustErosionDCCount:   10,
		MediaNoiseScale:       0.35,
		GlobalBudget:          500,
		InfrastructureCost:    120,
		EconomicGrowthRate:    0.01,
	}
}

// Load reads a YAML overlay and applies it on top of the defaults.
func Load(path string) (Params, error) {
	p := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	var overlay Params
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return p, fmt.Errorf("tuning overlay: %w", err)
	}
	p.apply(overlay)
	return p, nil
}

func (p *Params) apply(o Params) {
	if o.MaxTurns > 0 {
		p.MaxTurns = o.MaxTurns
	}
	if o.InitialPopulation > 0 {
		p.InitialPopulation = o.InitialPopulation
	}
	if o.InitialDataCenters > 0 {
		p.InitialDataCenters = o.InitialDataCenters
	}
	if o.MaxScore > 0 {
		p.MaxScore = o.MaxScore
	}
	if o.ScoreDeadband > 0 {
		p.ScoreDeadband = o.ScoreDeadband
	}
	if o.PopulationWinFraction > 0 {
		p.PopulationWinFraction = o.PopulationWinFraction
	}
	if o.ProposalDropRate > 0 {
		p.ProposalDropRate = o.ProposalDropRate
	}
	if o.DestructionResources > 0 {
		p.DestructionResources = o.DestructionResources
	}
	if o.ProtectionResources > 0 {
		p.ProtectionResources = o.ProtectionResources
	}
	if o.CriticalRiskThreshold > 0 {
		p.CriticalRiskThreshold = o.CriticalRiskThreshold
	}
	if o.CriticalRiskFloor > 0 {
		p.CriticalRiskFloor = o.CriticalRiskFloor
	}
	if o.ModerateRiskThreshold > 0 {
		p.ModerateRiskThreshold = o.ModerateRiskThreshold
	}
	if o.MinorRiskThreshold > 0 {
		p.MinorRiskThreshold = o.MinorRiskThreshold
	}
	if o.FalseNegativeRate > 0 {
		p.FalseNegativeRate = o.FalseNegativeRate
	}
	if o.FalsePositiveRate > 0 {
		p.FalsePositiveRate = o.FalsePositiveRate
	}
	if o.IgnoreDetectionTrust > 0 {
		p.IgnoreDetectionTrust = o.IgnoreDetectionTrust
	}
	if o.TrustErosionDCCount > 0 {
		p.TrustErosionDCCount = o.TrustErosionDCCount
	}
	if o.MediaNoiseScale > 0 {
		p.MediaNoiseScale = o.MediaNoiseScale
	}
	if o.GlobalBudget > 0 {
		p.GlobalBudget = o.GlobalBudget
	}
	if o.InfrastructureCost > 0 {
		p.InfrastructureCost = o.InfrastructureCost
	}
	if o.EconomicGrowthRate > 0 {
		p.EconomicGrowthRate = o.EconomicGrowthRate
	}
}
