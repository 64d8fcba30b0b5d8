package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/nightwatch/internal/game"
	"github.com/talgya/nightwatch/internal/montecarlo"
	"github.com/talgya/nightwatch/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult() game.Result {
	winner := sim.AgentProtection
	return game.Result{
		GameID:          "game-test-1",
		Seed:            42,
		Winner:          &winner,
		Turns:           17,
		FinalPopulation: 7.4,
		Detections:      3,
		FalsePositives:  1,
		EventCount:      3,
		Events: []sim.GameEvent{
			sim.NewEvent(1, sim.EventAction, "covert move", sim.AgentDestruction),
			sim.NewEvent(2, sim.EventDetection, "anomaly flagged", sim.AgentProtection),
			{
				Turn:        3,
				Type:        sim.EventDetection,
				Description: "forensic hit",
				Visibility:  []sim.AgentType{sim.AgentProtection, sim.AgentHuman},
				Metadata:    map[string]any{"proposal_id": "p-9"},
			},
		},
	}
}

func TestSaveGameAndReadBack(t *testing.T) {
	db := openTestDB(t)
	res := sampleResult()
	if err := db.SaveGame(res); err != nil {
		t.Fatalf("save: %v", err)
	}

	events, err := db.GameEvents(res.GameID, "")
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Description != "covert move" || events[2].Description != "forensic hit" {
		t.Errorf("event order not preserved: %v", events)
	}
	if got := events[2].Metadata["proposal_id"]; got != "p-9" {
		t.Errorf("metadata round-trip: proposal_id = %v", got)
	}
	if events[0].Metadata != nil {
		t.Errorf("absent metadata came back non-nil: %v", events[0].Metadata)
	}
}

func TestGameEventsVisibilityFilter(t *testing.T) {
	db := openTestDB(t)
	res := sampleResult()
	if err := db.SaveGame(res); err != nil {
		t.Fatalf("save: %v", err)
	}

	protEvents, err := db.GameEvents(res.GameID, sim.AgentProtection)
	if err != nil {
		t.Fatal(err)
	}
	if len(protEvents) != 2 {
		t.Errorf("defender sees %d archived events, want 2", len(protEvents))
	}
	humanEvents, err := db.GameEvents(res.GameID, sim.AgentHuman)
	if err != nil {
		t.Fatal(err)
	}
	if len(humanEvents) != 1 {
		t.Errorf("government sees %d archived events, want 1", len(humanEvents))
	}
}

func TestSaveGameIsIdempotentPerGameID(t *testing.T) {
	db := openTestDB(t)
	res := sampleResult()
	if err := db.SaveGame(res); err != nil {
		t.Fatal(err)
	}
	// Re-archiving replaces the game row; the event log grows, which is why
	// callers archive once per finished game.
	if err := db.SaveGame(res); err != nil {
		t.Errorf("second archive of the same game failed: %v", err)
	}

	var turns int
	if err := db.conn.Get(&turns, "SELECT turns FROM games WHERE game_id = ?", res.GameID); err != nil {
		t.Fatal(err)
	}
	if turns != 17 {
		t.Errorf("archived turns = %d, want 17", turns)
	}
}

func TestSaveBatch(t *testing.T) {
	db := openTestDB(t)
	agg := montecarlo.Aggregate{
		Games:           100,
		Completed:       98,
		Failed:          2,
		DestructionWins: 40,
		ProtectionWins:  45,
		Draws:           13,
		AvgTurns:        31.5,
		AvgFinalPop:     6.8,
		AvgDetections:   2.25,
		DestructionRate: 0.408,
		ProtectionRate:  0.459,
	}
	if err := db.SaveBatch(7, agg); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	var row struct {
		Completed       int     `db:"completed"`
		AvgDetections   float64 `db:"avg_detections"`
		DestructionRate float64 `db:"destruction_win_rate"`
		ProtectionRate  float64 `db:"protection_win_rate"`
	}
	err := db.conn.Get(&row,
		"SELECT completed, avg_detections, destruction_win_rate, protection_win_rate FROM batches WHERE master_seed = 7")
	if err != nil {
		t.Fatal(err)
	}
	if row.Completed != 98 {
		t.Errorf("archived completed = %d, want 98", row.Completed)
	}
	if row.AvgDetections != 2.25 {
		t.Errorf("archived avg_detections = %v, want 2.25", row.AvgDetections)
	}
	if row.DestructionRate != 0.408 || row.ProtectionRate != 0.459 {
		t.Errorf("archived win rates = %v/%v, want 0.408/0.459", row.DestructionRate, row.ProtectionRate)
	}
}

func TestDrawGameArchivesNullWinner(t *testing.T) {
	db := openTestDB(t)
	res := sampleResult()
	res.GameID = "game-draw"
	res.Winner = nil
	if err := db.SaveGame(res); err != nil {
		t.Fatal(err)
	}

	var winner *string
	if err := db.conn.Get(&winner, "SELECT winner FROM games WHERE game_id = ?", res.GameID); err != nil {
		t.Fatal(err)
	}
	if winner != nil {
		t.Errorf("draw archived with winner %q", *winner)
	}
}
