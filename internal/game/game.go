// Package game runs one complete contest from a seed: it wires the store,
// resolver, media timeline, and scripted policies together and loops turns
// until a terminal outcome.
package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/nightwatch/internal/engine"
	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/strategy"
	"github.com/talgya/nightwatch/internal/tuning"
)

// Config controls one game run.
type Config struct {
	Params           tuning.Params
	Seed             int64
	SnapshotPath     string // when set, the world is snapshotted after every turn
	DestructionStyle strategy.Style
	Verbose          bool
}

// Result is the outcome of one finished game.
type Result struct {
	GameID          string         `json:"game_id"`
	Seed            int64          `json:"seed"`
	Winner          *sim.AgentType `json:"winner,omitempty"`
	Turns           int            `json:"turns"`
	FinalPopulation float64        `json:"final_population"`
	Detections      int            `json:"detections"`
	FalsePositives  int            `json:"false_positives"`
	EventCount      int            `json:"event_count"`
	Events          []sim.GameEvent `json:"-"`
}

// Run plays a game to completion. The context cancels between turns; a
// canceled game returns an error and is excluded from aggregates.
func Run(ctx context.Context, cfg Config) (Result, error) {
	rng := entropy.NewSeeded(cfg.Seed)
	store := state.New(cfg.Params)
	timeline := media.NewTimeline(cfg.Seed, cfg.Params.MediaNoiseScale)
	resolver := engine.NewResolver(store, rng, timeline)

	policies := []struct {
		actor  sim.AgentType
		policy strategy.Policy
	}{
		{sim.AgentDestruction, &strategy.DestructionPolicy{AgentID: uuid.NewString(), Style: cfg.DestructionStyle}},
		{sim.AgentProtection, &strategy.ProtectionPolicy{AgentID: uuid.NewString()}},
		{sim.AgentHuman, &strategy.GovernmentPolicy{AgentID: uuid.NewString()}},
	}

	w := store.World()
	for !w.GameOver {
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("game %s canceled at turn %d: %w", w.GameID, w.Turn, ctx.Err())
		default:
		}

		var proposals []sim.Proposal
		for _, p := range policies {
			view := strategy.BuildView(w, p.actor)
			proposals = append(proposals, p.policy.Propose(view, rng)...)
		}

		report := resolver.ResolveTurn(proposals)
		if cfg.Verbose {
			slog.Info("turn resolved",
				"turn", report.Turn,
				"admitted", report.Admitted,
				"rejected", report.Rejected,
				"dropped", report.Dropped,
				"population", fmt.Sprintf("%.2f", w.HumanPopulation),
				"detection_risk", fmt.Sprintf("%.1f", w.Destruction.DetectionRisk),
				"alert", fmt.Sprintf("%.1f", w.Protection.AlertLevel),
			)
		}

		if cfg.SnapshotPath != "" {
			// The snapshot exists for crash inspection; a world we cannot
			// record is not worth simulating further.
			if err := store.Save(cfg.SnapshotPath); err != nil {
				return Result{}, fmt.Errorf("snapshot: %w", err)
			}
		}
	}

	return Result{
		GameID:          w.GameID,
		Seed:            cfg.Seed,
		Winner:          w.Winner,
		Turns:           w.Turn,
		FinalPopulation: w.HumanPopulation,
		Detections:      w.Protection.TotalDetections,
		FalsePositives:  w.Protection.RecentFalsePositives,
		EventCount:      len(w.Events),
		Events:          w.Events,
	}, nil
}
