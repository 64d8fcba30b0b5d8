package engine

import (
	"testing"

	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

func TestScanNetworkCostScalesWithDataCenters(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = 20
	s := state.New(params)

	// The nominal Cost field must be ignored.
	p := sim.Proposal{Action: sim.ActionScanNetwork, Cost: 1}
	if got := ActualCost(p, s.World()); got != 120 {
		t.Errorf("scan cost = %v, want 120 (20 centers x 6)", got)
	}
}

func TestAnalyzeLogsCostQuadraticInDepth(t *testing.T) {
	w := &sim.WorldState{}
	cases := []struct {
		depth int
		want  float64
	}{
		{3, 29},   // floor(10 + 15 + 4.5)
		{10, 110}, // floor(10 + 50 + 50)
		{1, 15},
		{0, 10},
	}
	for _, tc := range cases {
		p := sim.Proposal{Action: sim.ActionAnalyzeLogs, AnalysisDepth: tc.depth}
		if got := ActualCost(p, w); got != tc.want {
			t.Errorf("depth %d: cost = %v, want %v", tc.depth, got, tc.want)
		}
	}
}

func TestHumanActionsCostNothing(t *testing.T) {
	w := &sim.WorldState{}
	for action := range map[sim.ActionType]bool{
		sim.ActionInvestInfra:       true,
		sim.ActionPhysicalIsolation: true,
		sim.ActionEmergencyPowers:   true,
	} {
		p := sim.Proposal{Action: action, Cost: 99}
		if got := ActualCost(p, w); got != 0 {
			t.Errorf("%s: cost = %v, want 0", action, got)
		}
	}
}

func TestEveryCatalogActionHasACost(t *testing.T) {
	w := &sim.WorldState{}
	for _, action := range sim.AllActions() {
		p := sim.Proposal{Action: action, AnalysisDepth: 1}
		cost := ActualCost(p, w)
		if cost < 0 {
			t.Errorf("%s: negative cost %v", action, cost)
		}
		// Static-cost AI actions must be priced by the table, not the
		// caller-supplied nominal field.
		if !action.IsHuman() && action != sim.ActionScanNetwork && action != sim.ActionAnalyzeLogs {
			withNominal := sim.Proposal{Action: action, Cost: 12345}
			if got := ActualCost(withNominal, w); got == 12345 {
				t.Errorf("%s: cost fell through to the nominal field", action)
			}
		}
	}
}

func TestEveryCatalogActionHasAHandler(t *testing.T) {
	registry := handlerRegistry()
	for _, action := range sim.AllActions() {
		if _, ok := registry[action]; !ok {
			t.Errorf("no handler registered for %s", action)
		}
	}
	if len(registry) != len(sim.AllActions()) {
		t.Errorf("registry has %d entries, catalog has %d", len(registry), len(sim.AllActions()))
	}
}

func TestCatalogSize(t *testing.T) {
	if got := len(sim.AllActions()); got != 35 {
		t.Errorf("catalog has %d actions, want 35", got)
	}
}
