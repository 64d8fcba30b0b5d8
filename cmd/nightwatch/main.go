// Command nightwatch runs a single contest between the covert AI actors and
// the government, logging every turn and archiving the finished game.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/nightwatch/internal/game"
	"github.com/talgya/nightwatch/internal/persistence"
	"github.com/talgya/nightwatch/internal/strategy"
	"github.com/talgya/nightwatch/internal/tuning"
)

func main() {
	var (
		seed         int64
		tuningPath   string
		snapshotPath string
		dbPath       string
		aggressive   bool
		quiet        bool
	)
	flag.Int64Var(&seed, "seed", 42, "Game seed (deterministic outcomes per seed)")
	flag.StringVar(&tuningPath, "tuning", "", "Optional YAML tuning overlay")
	flag.StringVar(&snapshotPath, "snapshot", "data/world.json", "Per-turn world snapshot path")
	flag.StringVar(&dbPath, "db", "data/nightwatch.db", "Results archive path (empty to disable)")
	flag.BoolVar(&aggressive, "aggressive", false, "Play the destruction agent aggressively")
	flag.BoolVar(&quiet, "quiet", false, "Suppress per-turn logging")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	params := tuning.Default()
	if tuningPath != "" {
		var err error
		params, err = tuning.Load(tuningPath)
		if err != nil {
			slog.Error("failed to load tuning overlay", "path", tuningPath, "error", err)
			os.Exit(1)
		}
		slog.Info("tuning overlay applied", "path", tuningPath)
	}

	style := strategy.StyleStealthy
	if aggressive {
		style = strategy.StyleAggressive
	}

	os.MkdirAll("data", 0755)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, aborting game", "signal", sig)
		cancel()
	}()

	slog.Info("nightwatch contest starting",
		"seed", seed,
		"max_turns", params.MaxTurns,
		"initial_population", params.InitialPopulation,
		"data_centers", params.InitialDataCenters,
	)

	res, err := game.Run(ctx, game.Config{
		Params:           params,
		Seed:             seed,
		SnapshotPath:     snapshotPath,
		DestructionStyle: style,
		Verbose:          !quiet,
	})
	if err != nil {
		slog.Error("game aborted", "error", err)
		os.Exit(1)
	}

	winner := "draw"
	if res.Winner != nil {
		winner = string(*res.Winner)
	}
	slog.Info("game over",
		"game_id", res.GameID,
		"winner", winner,
		"turns", res.Turns,
		"final_population", fmt.Sprintf("%.2f", res.FinalPopulation),
		"detections", res.Detections,
		"events", res.EventCount,
	)

	if dbPath != "" {
		db, err := persistence.Open(dbPath)
		if err != nil {
			slog.Error("failed to open archive", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.SaveGame(res); err != nil {
			slog.Error("failed to archive game", "error", err)
			os.Exit(1)
		}
		slog.Info("game archived", "path", dbPath)
	}
}
