// Command balancer runs Monte Carlo batches of independent games to measure
// win-rate balance across tuning changes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/talgya/nightwatch/internal/montecarlo"
	"github.com/talgya/nightwatch/internal/persistence"
	"github.com/talgya/nightwatch/internal/strategy"
	"github.com/talgya/nightwatch/internal/tuning"
)

func main() {
	var (
		games      int
		workers    int
		seed       int64
		tuningPath string
		dbPath     string
		jsonOut    bool
		aggressive bool
	)
	flag.IntVar(&games, "games", 1000, "Number of independent games to run")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "Parallel game workers")
	flag.Int64Var(&seed, "seed", 1, "Master seed; per-game seeds derive from it")
	flag.StringVar(&tuningPath, "tuning", "", "Optional YAML tuning overlay")
	flag.StringVar(&dbPath, "db", "", "Archive batch aggregate to this SQLite path")
	flag.BoolVar(&jsonOut, "json", false, "Emit the aggregate as JSON")
	flag.BoolVar(&aggressive, "aggressive", false, "Play the destruction agent aggressively")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
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
	}

	style := strategy.StyleStealthy
	if aggressive {
		style = strategy.StyleAggressive
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, canceling remaining games", "signal", sig)
		cancel()
	}()

	slog.Info("monte carlo batch starting", "games", games, "workers", workers, "seed", seed)
	start := time.Now()

	agg, _ := montecarlo.Run(ctx, montecarlo.BatchConfig{
		Games:            games,
		Workers:          workers,
		Seed:             seed,
		Params:           params,
		DestructionStyle: style,
	})

	elapsed := time.Since(start)

	if jsonOut {
		out, err := json.MarshalIndent(agg, "", "  ")
		if err != nil {
			slog.Error("failed to marshal aggregate", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("\n--- Balance Report (%d games, %s) ---\n", agg.Completed, elapsed.Round(time.Millisecond))
		fmt.Printf("Destruction wins: %5d (%.1f%%)\n", agg.DestructionWins, agg.DestructionRate*100)
		fmt.Printf("Protection wins:  %5d (%.1f%%)\n", agg.ProtectionWins, agg.ProtectionRate*100)
		fmt.Printf("Draws:            %5d\n", agg.Draws)
		fmt.Printf("Failed/excluded:  %5d\n", agg.Failed)
		fmt.Printf("Avg turns:        %.1f\n", agg.AvgTurns)
		fmt.Printf("Avg final pop:    %.2f billion\n", agg.AvgFinalPop)
		fmt.Printf("Avg detections:   %.2f\n", agg.AvgDetections)
	}

	if dbPath != "" {
		db, err := persistence.Open(dbPath)
		if err != nil {
			slog.Error("failed to open archive", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.SaveBatch(seed, agg); err != nil {
			slog.Error("failed to archive batch", "error", err)
			os.Exit(1)
		}
	}
}
