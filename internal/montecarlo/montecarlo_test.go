package montecarlo

import (
	"context"
	"math"
	"testing"

	"github.com/talgya/nightwatch/internal/tuning"
)

func batchParams() tuning.Params {
	p := tuning.Default()
	p.MaxTurns = 10
	return p
}

func TestRunAggregatesConsistently(t *testing.T) {
	agg, results := Run(context.Background(), BatchConfig{
		Games:   30,
		Workers: 4,
		Seed:    1,
		Params:  batchParams(),
	})

	if agg.Completed != len(results) {
		t.Errorf("completed = %d but %d results returned", agg.Completed, len(results))
	}
	if agg.Completed+agg.Failed != agg.Games {
		t.Errorf("completed %d + failed %d != games %d", agg.Completed, agg.Failed, agg.Games)
	}
	if agg.DestructionWins+agg.ProtectionWins+agg.Draws != agg.Completed {
		t.Errorf("outcome counts %d/%d/%d do not sum to completed %d",
			agg.DestructionWins, agg.ProtectionWins, agg.Draws, agg.Completed)
	}
	if agg.Completed > 0 {
		if agg.AvgTurns <= 0 || agg.AvgTurns > 10 {
			t.Errorf("average turns = %v, want within (0, 10]", agg.AvgTurns)
		}
		if agg.AvgFinalPop < 0 || agg.AvgFinalPop > batchParams().InitialPopulation {
			t.Errorf("average final population out of range: %v", agg.AvgFinalPop)
		}
		wantRate := float64(agg.DestructionWins) / float64(agg.Completed)
		if math.Abs(agg.DestructionRate-wantRate) > 1e-12 {
			t.Errorf("destruction rate = %v, want %v", agg.DestructionRate, wantRate)
		}
	}
}

func TestRunIsReproducibleFromMasterSeed(t *testing.T) {
	cfg := BatchConfig{Games: 20, Workers: 3, Seed: 7, Params: batchParams()}

	a, _ := Run(context.Background(), cfg)
	b, _ := Run(context.Background(), cfg)

	// Collection order varies with scheduling, so compare counts and compare
	// the float averages with a tolerance.
	if a.DestructionWins != b.DestructionWins || a.ProtectionWins != b.ProtectionWins || a.Draws != b.Draws {
		t.Errorf("outcome counts diverged: %+v vs %+v", a, b)
	}
	if a.Completed != b.Completed || a.Failed != b.Failed {
		t.Errorf("completion counts diverged: %+v vs %+v", a, b)
	}
	if math.Abs(a.AvgFinalPop-b.AvgFinalPop) > 1e-9 {
		t.Errorf("average population diverged: %v vs %v", a.AvgFinalPop, b.AvgFinalPop)
	}
}

func TestRunWithCanceledContextAbandonsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg, results := Run(ctx, BatchConfig{Games: 50, Workers: 4, Seed: 1, Params: batchParams()})
	if agg.Completed+agg.Failed > agg.Games {
		t.Errorf("counts exceed the batch size: %+v", agg)
	}
	if len(results) != agg.Completed {
		t.Errorf("results/completed mismatch: %d vs %d", len(results), agg.Completed)
	}
	// A canceled batch must return promptly with nothing completed.
	if agg.Completed != 0 {
		t.Errorf("%d games completed despite pre-canceled context", agg.Completed)
	}
}

func TestRunClampsWorkerCount(t *testing.T) {
	agg, _ := Run(context.Background(), BatchConfig{Games: 3, Workers: 0, Seed: 2, Params: batchParams()})
	if agg.Completed != 3 {
		t.Errorf("completed = %d with clamped worker count, want 3", agg.Completed)
	}
}
