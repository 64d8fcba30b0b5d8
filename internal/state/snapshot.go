package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/tuning"
)

// Save writes the WorldState to a single JSON document, overwriting any
// previous snapshot. The snapshot is a crash-inspection artifact, not a
// reliable resume point — there is no versioning or migration.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.world, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot back into a Store for inspection.
func Load(path string, params tuning.Params) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var w sim.WorldState
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return Wrap(&w, params), nil
}
