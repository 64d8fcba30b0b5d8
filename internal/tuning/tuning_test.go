package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreInternallyConsistent(t *testing.T) {
	p := Default()
	if p.MaxTurns <= 0 || p.InitialPopulation <= 0 || p.InitialDataCenters <= 0 {
		t.Fatalf("degenerate defaults: %+v", p)
	}
	if !(p.MinorRiskThreshold < p.ModerateRiskThreshold &&
		p.ModerateRiskThreshold < p.CriticalRiskFloor &&
		p.CriticalRiskFloor < p.CriticalRiskThreshold) {
		t.Errorf("risk thresholds not ordered: minor=%v moderate=%v floor=%v critical=%v",
			p.MinorRiskThreshold, p.ModerateRiskThreshold, p.CriticalRiskFloor, p.CriticalRiskThreshold)
	}
	if p.PopulationWinFraction <= 0 || p.PopulationWinFraction >= 1 {
		t.Errorf("population win fraction out of (0, 1): %v", p.PopulationWinFraction)
	}
	if p.FalseNegativeRate < 0 || p.FalseNegativeRate > 1 {
		t.Errorf("false negative rate out of [0, 1]: %v", p.FalseNegativeRate)
	}
}

func TestLoadOverlaysSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	overlay := "max_turns: 80\nproposal_drop_rate: 0.25\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.MaxTurns != 80 {
		t.Errorf("max turns = %d, want 80", p.MaxTurns)
	}
	if p.ProposalDropRate != 0.25 {
		t.Errorf("drop rate = %v, want 0.25", p.ProposalDropRate)
	}
	// Everything unset in the overlay keeps its default.
	d := Default()
	if p.InitialPopulation != d.InitialPopulation || p.CriticalRiskThreshold != d.CriticalRiskThreshold {
		t.Errorf("unset fields drifted from defaults: %+v", p)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("expected an error for a missing overlay file")
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_turns: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected an error for malformed YAML")
	}
}
