// Package economy owns the growth formulas behind the numeric inputs the
// resolver reads (global budget, infrastructure cost). The resolver never
// computes growth itself; it calls Tick once per turn.
package economy

import (
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
)

// Tick advances the economic model by one turn: the budget grows at the
// configured rate, damped by population loss and public panic.
func Tick(store *state.Store) {
	w := store.World()

	growth := w.Economy.GlobalBudget * w.Economy.GrowthRate

	// Population loss shrinks the tax base roughly linearly.
	growth *= 1 - w.PopulationLossFraction()

	// Panic above 50 suppresses investment.
	if w.Human.Panic > 50 {
		growth *= 1 - (w.Human.Panic-50)/100
	}

	if growth > 0 {
		store.GrowBudget(growth)
	}
}

// CanAffordInfrastructure reports whether the government can fund a new
// data center this turn.
func CanAffordInfrastructure(w *sim.WorldState) bool {
	return w.Economy.GlobalBudget >= w.Economy.InfrastructureCost
}
