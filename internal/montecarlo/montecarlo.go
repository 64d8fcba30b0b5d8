// Package montecarlo runs many independent games in parallel to measure
// win-rate balance. Each worker owns its game's WorldState outright; results
// flow back over a channel and failed runs are excluded, not retried.
package montecarlo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/game"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/strategy"
	"github.com/talgya/nightwatch/internal/tuning"
)

// BatchConfig describes a Monte Carlo batch.
type BatchConfig struct {
	Games            int
	Workers          int
	Seed             int64 // master seed; per-game seeds derive from it
	Params           tuning.Params
	DestructionStyle strategy.Style
}

// Aggregate is the batch summary. Failed games count toward Failed only and
// never contaminate the win statistics.
type Aggregate struct {
	Games           int     `json:"games"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	DestructionWins int     `json:"destruction_wins"`
	ProtectionWins  int     `json:"protection_wins"`
	Draws           int     `json:"draws"`
	AvgTurns        float64 `json:"avg_turns"`
	AvgFinalPop     float64 `json:"avg_final_population"`
	AvgDetections   float64 `json:"avg_detections"`
	DestructionRate float64 `json:"destruction_win_rate"`
	ProtectionRate  float64 `json:"protection_win_rate"`
}

// Run executes the batch across a bounded worker pool. Canceling the context
// abandons queued games; completed results are still aggregated.
func Run(ctx context.Context, cfg BatchConfig) (Aggregate, []game.Result) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	// Derive per-game seeds up front so the batch is reproducible regardless
	// of worker scheduling.
	master := entropy.NewSeeded(cfg.Seed)
	seeds := make([]int64, cfg.Games)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	jobs := make(chan int64)
	out := make(chan game.Result)
	errs := make(chan error)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				res, err := game.Run(ctx, game.Config{
					Params:           cfg.Params,
					Seed:             seed,
					DestructionStyle: cfg.DestructionStyle,
				})
				if err != nil {
					errs <- err
					continue
				}
				out <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, seed := range seeds {
			select {
			case <-ctx.Done():
				return
			case jobs <- seed:
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var results []game.Result
	agg := Aggregate{Games: cfg.Games}
collect:
	for {
		select {
		case res := <-out:
			results = append(results, res)
		case err := <-errs:
			agg.Failed++
			slog.Debug("game run excluded", "error", err)
		case <-done:
			break collect
		}
	}

	for _, res := range results {
		agg.Completed++
		agg.AvgTurns += float64(res.Turns)
		agg.AvgFinalPop += res.FinalPopulation
		agg.AvgDetections += float64(res.Detections)
		switch {
		case res.Winner == nil:
			agg.Draws++
		case *res.Winner == sim.AgentDestruction:
			agg.DestructionWins++
		case *res.Winner == sim.AgentProtection:
			agg.ProtectionWins++
		}
	}
	if agg.Completed > 0 {
		n := float64(agg.Completed)
		agg.AvgTurns /= n
		agg.AvgFinalPop /= n
		agg.AvgDetections /= n
		agg.DestructionRate = float64(agg.DestructionWins) / n
		agg.ProtectionRate = float64(agg.ProtectionWins) / n
	}
	return agg, results
}
