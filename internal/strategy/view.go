// Package strategy provides scripted proposal policies for the three actors.
// The engine only consumes typed Proposals, so these policies stand in for
// the external LLM agents during local play and Monte Carlo balance runs.
// Each policy sees only the observation view its actor is entitled to.
package strategy

import (
	"github.com/talgya/nightwatch/internal/sim"
)

// View is the visibility-filtered observation an actor plans from. Fields
// for other actors' hidden state are nil — the observation builder is the
// enforcement point for the event-visibility protocol.
type View struct {
	Turn        int
	MaxTurns    int
	Population  float64
	DataCenters []sim.DataCenter
	Events      []sim.GameEvent

	// Exactly one of these is set, matching the observing actor.
	Destruction *sim.DestructionState
	Protection  *sim.ProtectionState
	Human       *sim.HumanState

	// Economic inputs, visible to the government only.
	Budget    float64
	InfraCost float64
}

// BuildView assembles the observation for one actor: copies of the public
// data center listing, the actor's own state, and only the events whose
// visibility set includes the actor.
func BuildView(w *sim.WorldState, actor sim.AgentType) View {
	v := View{
		Turn:       w.Turn,
		MaxTurns:   w.MaxTurns,
		Population: w.HumanPopulation,
		Events:     sim.FilterEvents(w.Events, actor),
	}
	for _, dc := range w.DataCenters {
		c := *dc
		if actor != sim.AgentDestruction {
			// Only the attacker knows which centers it holds.
			c.Compromised = false
			c.Owner = nil
		}
		v.DataCenters = append(v.DataCenters, c)
	}
	switch actor {
	case sim.AgentDestruction:
		d := w.Destruction
		v.Destruction = &d
	case sim.AgentProtection:
		p := w.Protection
		v.Protection = &p
	case sim.AgentHuman:
		h := w.Human
		v.Human = &h
		v.Budget = w.Economy.GlobalBudget
		v.InfraCost = w.Economy.InfrastructureCost
	}
	return v
}

// recentEvents returns the view's events from the last n turns.
func recentEvents(v View, n int) []sim.GameEvent {
	var out []sim.GameEvent
	for _, e := range v.Events {
		if e.Turn >= v.Turn-n {
			out = append(out, e)
		}
	}
	return out
}
