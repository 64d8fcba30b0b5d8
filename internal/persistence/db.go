// Package persistence provides the SQLite archive for finished games and
// Monte Carlo batches. It is inspection tooling for balance work — resuming
// a game from the archive is explicitly not supported.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/nightwatch/internal/game"
	"github.com/talgya/nightwatch/internal/montecarlo"
	"github.com/talgya/nightwatch/internal/sim"
)

// DB wraps a SQLite connection for the results archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		game_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		winner TEXT,
		turns INTEGER NOT NULL,
		final_population REAL NOT NULL,
		detections INTEGER NOT NULL,
		false_positives INTEGER NOT NULL,
		event_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		visibility_json TEXT NOT NULL,
		metadata_json TEXT
	);

	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		master_seed INTEGER NOT NULL,
		games INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		destruction_wins INTEGER NOT NULL,
		protection_wins INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		avg_turns REAL NOT NULL,
		avg_final_population REAL NOT NULL,
		avg_detections REAL NOT NULL,
		destruction_win_rate REAL NOT NULL,
		protection_win_rate REAL NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_game_events_game ON game_events(game_id, turn);`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame archives one finished game with its full event log.
func (db *DB) SaveGame(res game.Result) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var winner *string
	if res.Winner != nil {
		w := string(*res.Winner)
		winner = &w
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO games
		(game_id, seed, winner, turns, final_population, detections, false_positives, event_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.GameID, res.Seed, winner, res.Turns, res.FinalPopulation,
		res.Detections, res.FalsePositives, res.EventCount,
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", res.GameID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO game_events
		(game_id, turn, type, description, visibility_json, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range res.Events {
		visJSON, _ := json.Marshal(e.Visibility)
		var metaJSON *string
		if e.Metadata != nil {
			raw, _ := json.Marshal(e.Metadata)
			s := string(raw)
			metaJSON = &s
		}
		if _, err := stmt.Exec(res.GameID, e.Turn, string(e.Type), e.Description, string(visJSON), metaJSON); err != nil {
			return fmt.Errorf("insert event turn %d: %w", e.Turn, err)
		}
	}

	return tx.Commit()
}

// SaveBatch archives a Monte Carlo batch aggregate.
func (db *DB) SaveBatch(masterSeed int64, agg montecarlo.Aggregate) error {
	_, err := db.conn.Exec(`INSERT INTO batches
		(master_seed, games, completed, failed, destruction_wins, protection_wins,
		 draws, avg_turns, avg_final_population, avg_detections,
		 destruction_win_rate, protection_win_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		masterSeed, agg.Games, agg.Completed, agg.Failed,
		agg.DestructionWins, agg.ProtectionWins, agg.Draws,
		agg.AvgTurns, agg.AvgFinalPop, agg.AvgDetections,
		agg.DestructionRate, agg.ProtectionRate,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	slog.Info("batch archived", "seed", masterSeed, "completed", agg.Completed)
	return nil
}

// GameEvents returns the archived event log for a game, filtered to one
// actor's visibility when actor is non-empty.
func (db *DB) GameEvents(gameID string, actor sim.AgentType) ([]sim.GameEvent, error) {
	type row struct {
		Turn           int     `db:"turn"`
		Type           string  `db:"type"`
		Description    string  `db:"description"`
		VisibilityJSON string  `db:"visibility_json"`
		MetadataJSON   *string `db:"metadata_json"`
	}
	var rows []row
	err := db.conn.Select(&rows,
		"SELECT turn, type, description, visibility_json, metadata_json FROM game_events WHERE game_id = ? ORDER BY id",
		gameID,
	)
	if err != nil {
		return nil, err
	}

	var events []sim.GameEvent
	for _, r := range rows {
		e := sim.GameEvent{
			Turn:        r.Turn,
			Type:        sim.EventType(r.Type),
			Description: r.Description,
		}
		if err := json.Unmarshal([]byte(r.VisibilityJSON), &e.Visibility); err != nil {
			return nil, fmt.Errorf("decode visibility: %w", err)
		}
		if r.MetadataJSON != nil {
			if err := json.Unmarshal([]byte(*r.MetadataJSON), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		if actor != "" && !e.VisibleTo(actor) {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}
