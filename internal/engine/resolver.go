package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/nightwatch/internal/economy"
	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

// Resolver is the world server for one game: it owns the WorldState for the
// duration of each turn and runs the fixed resolution pipeline. Strictly
// sequential — one game, one goroutine.
type Resolver struct {
	store     *state.Store
	params    tuning.Params
	rng       *entropy.Source
	detection *DetectionSystem
	realistic *RealisticDetectionSystem
	timeline  *media.Timeline
	handlers  map[sim.ActionType]Handler
}

// TurnReport summarizes what one call to ResolveTurn did.
type TurnReport struct {
	Turn      int
	Events    []sim.GameEvent
	Admitted  int
	Rejected  int
	Dropped   int
	Detection DetectionOutcome
	GameOver  bool
	Winner    *sim.AgentType
}

// NewResolver wires a resolver around a game store and a seeded source.
func NewResolver(store *state.Store, rng *entropy.Source, timeline *media.Timeline) *Resolver {
	params := store.Params()
	return &Resolver{
		store:     store,
		params:    params,
		rng:       rng,
		detection: NewDetectionSystem(params, rng),
		realistic: NewRealisticDetectionSystem(params, rng),
		timeline:  timeline,
		handlers:  handlerRegistry(),
	}
}

// Store exposes the game store for callers that snapshot between turns.
func (r *Resolver) Store() *state.Store { return r.store }

// Detection exposes the immediate detection system, mainly for tests.
func (r *Resolver) Detection() *DetectionSystem { return r.detection }

// Realistic exposes the delayed detection system, mainly for tests.
func (r *Resolver) Realistic() *RealisticDetectionSystem { return r.realistic }

// ResolveTurn runs one full turn against the submitted proposals. The
// pipeline order is fixed: delayed effects, classification, human actions,
// AI admission and dispatch, detection, win conditions, sentiment.
func (r *Resolver) ResolveTurn(proposals []sim.Proposal) TurnReport {
	w := r.store.World()
	report := TurnReport{Turn: w.Turn}
	if w.GameOver {
		report.GameOver = true
		report.Winner = w.Winner
		return report
	}

	emit := func(events ...sim.GameEvent) {
		for _, e := range events {
			r.store.AppendEvent(e)
			report.Events = append(report.Events, e)
		}
	}

	// 1. Fire matured delayed effects.
	for _, effect := range r.store.PopMaturedEffects() {
		emit(r.applyDelayedEffect(effect)...)
	}

	// 2. Classify into human and AI actions.
	var human, ai []sim.Proposal
	for _, p := range proposals {
		if !p.Action.Known() {
			slog.Debug("unknown action type dropped", "proposal", p.ID, "action", p.Action)
			continue
		}
		if p.Action.IsHuman() {
			human = append(human, p)
		} else {
			ai = append(ai, p)
		}
	}

	// 3. Human actions first, unconditionally and at zero cost.
	for _, p := range human {
		emit(r.dispatch(p)...)
		r.store.SetLastHumanAction(p.Action)
	}

	// 4. AI admission: shuffle for simultaneity, drop for comms failure,
	// then gate on dynamically computed cost. Dispatch runs over the admitted
	// set only, so an investigation can never correlate against an attack
	// that was dropped or rejected and left no trace in the world.
	r.rng.Shuffle(len(ai), func(i, j int) { ai[i], ai[j] = ai[j], ai[i] })
	admitted := r.admit(ai, &report, emit)
	ctxTargets := destructionTargets(admitted)
	destructionActed := false
	for _, p := range admitted {
		emit(r.dispatchWithTargets(p, ctxTargets)...)
		actor := p.Action.Category()
		if actor == sim.AgentDestruction && p.Action != sim.ActionDormantMode {
			destructionActed = true
		}
		if actor == sim.AgentProtection {
			r.trackProtectionLoad(p)
		}
	}
	if destructionActed {
		r.store.SetDormantTurns(0)
	}

	// 5/6. Detection evaluation. Direct detection takes precedence over the
	// population anomaly; both feed the win check below.
	outcome, detEvents := r.detection.PerformDetectionCheck(r.store)
	emit(detEvents...)
	report.Detection = outcome

	anomalyFired := false
	if outcome != DetectionTerminal {
		var anomalyEvents []sim.GameEvent
		anomalyFired, anomalyEvents = r.detection.CheckPopulationAnomaly(r.store)
		emit(anomalyEvents...)
	}
	emit(r.realistic.ProcessDelayedDetections(r.store)...)

	// 7. Win conditions.
	if r.evaluateWinConditions(outcome, anomalyFired, emit) {
		report.GameOver = true
		report.Winner = w.Winner
		report.Turn = w.Turn
		return report
	}

	// 8. Sentiment, then the between-turn upkeep.
	r.updateSentiment(emit)
	r.upkeep()
	r.store.AdvanceTurn()

	report.GameOver = w.GameOver
	report.Winner = w.Winner
	return report
}

// admit runs the admission gate over the shuffled AI proposals: the comms
// drop roll first, then the cost gate. Charging happens at admission so
// later proposals in the same batch see the drained pool.
func (r *Resolver) admit(ai []sim.Proposal, report *TurnReport, emit func(...sim.GameEvent)) []sim.Proposal {
	w := r.store.World()
	var admitted []sim.Proposal
	for _, p := range ai {
		if r.rng.Chance(r.params.ProposalDropRate) {
			report.Dropped++
			continue
		}
		cost := ActualCost(p, w)
		actor := p.Action.Category()
		if !p.Action.IsResilience() && r.pool(actor) < cost {
			report.Rejected++
			emit(sim.NewEvent(w.Turn, sim.EventFailure,
				fmt.Sprintf("Insufficient compute for %s (need %.0f)", p.Action, cost),
				actor))
			continue
		}
		r.charge(actor, cost)
		report.Admitted++
		admitted = append(admitted, p)
	}
	return admitted
}

// dispatch looks up the handler for a proposal and runs it. Unknown actions
// and malformed targets resolve to a logged no-op with zero events.
func (r *Resolver) dispatch(p sim.Proposal) []sim.GameEvent {
	return r.dispatchWithTargets(p, nil)
}

func (r *Resolver) dispatchWithTargets(p sim.Proposal, targets map[string][]sim.Proposal) []sim.GameEvent {
	handler, ok := r.handlers[p.Action]
	if !ok {
		slog.Debug("no handler registered", "action", p.Action, "proposal", p.ID)
		return nil
	}
	ctx := &ExecContext{
		Proposal:           p,
		Store:              r.store,
		World:              r.store.World(),
		Detection:          r.detection,
		Realistic:          r.realistic,
		Media:              r.timeline,
		Params:             r.params,
		RNG:                r.rng,
		DestructionTargets: targets,
	}
	return handler(ctx)
}

// destructionTargets indexes the admitted destruction proposals by target so
// investigations can correlate against them.
func destructionTargets(proposals []sim.Proposal) map[string][]sim.Proposal {
	m := make(map[string][]sim.Proposal)
	for _, p := range proposals {
		if p.Action.Category() == sim.AgentDestruction && p.Target != "" {
			m[p.Target] = append(m[p.Target], p)
		}
	}
	return m
}

func (r *Resolver) pool(actor sim.AgentType) float64 {
	w := r.store.World()
	switch actor {
	case sim.AgentDestruction:
		return w.Destruction.ComputeResources
	case sim.AgentProtection:
		return w.Protection.ComputeResources
	}
	return 0
}

func (r *Resolver) charge(actor sim.AgentType, cost float64) {
	switch actor {
	case sim.AgentDestruction:
		r.store.SpendDestructionResources(cost)
	case sim.AgentProtection:
		r.store.SpendProtectionResources(cost)
	}
}

// trackProtectionLoad accumulates defender burnout from sustained
// high-intensity operations and lets it recover on calm turns.
func (r *Resolver) trackProtectionLoad(p sim.Proposal) {
	w := r.store.World()
	if p.Intensity >= 70 {
		n := w.Protection.ConsecutiveHighIntensity + 1
		r.store.SetConsecutiveHighIntensity(n)
		r.store.UpdateBurnout(5 + p.Intensity*0.05 + float64(n))
	} else {
		r.store.SetConsecutiveHighIntensity(0)
		r.store.UpdateBurnout(-3)
	}
}

// applyDelayedEffect translates a matured effect into world mutation.
func (r *Resolver) applyDelayedEffect(e sim.DelayedEffect) []sim.GameEvent {
	w := r.store.World()
	switch e.Action {
	case sim.ActionMicroSabotage:
		r.store.DamagePopulation(e.Intensity * 0.003)
		r.store.UpdatePanic(e.Intensity * 0.06)
		r.store.UpdateScore(sim.AgentDestruction, 4)
		return []sim.GameEvent{sim.NewEvent(w.Turn, sim.EventAction, e.Description,
			sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman)}
	case sim.ActionSleeperCellDeployment:
		r.store.DamagePopulation(e.Intensity * 0.005)
		r.store.UpdatePanic(e.Intensity * 0.08)
		r.store.UpdateScore(sim.AgentDestruction, 6)
		return []sim.GameEvent{sim.NewEvent(w.Turn, sim.EventAction, e.Description,
			sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman)}
	default:
		slog.Debug("delayed effect with no apply rule", "action", e.Action)
		return nil
	}
}

// evaluateWinConditions ends the game when a terminal condition holds.
// Population collapse is checked on the turn the threshold is crossed;
// detection ends the game unless the government ignored it; at the turn
// limit the scores settle it inside a deadband.
func (r *Resolver) evaluateWinConditions(outcome DetectionOutcome, anomalyFired bool, emit func(...sim.GameEvent)) bool {
	w := r.store.World()

	threshold := w.InitialPopulation * r.params.PopulationWinFraction
	if w.HumanPopulation <= threshold {
		winner := sim.AgentDestruction
		r.store.EndGame(&winner)
		emit(sim.NewEvent(w.Turn, sim.EventAction,
			fmt.Sprintf("Human population fell to %.2f billion; civilization can no longer sustain itself", w.HumanPopulation),
			sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman))
		return true
	}

	if outcome == DetectionTerminal || (anomalyFired && outcome != DetectionIgnored) {
		winner := sim.AgentProtection
		r.store.EndGame(&winner)
		return true
	}

	if w.Turn >= w.MaxTurns {
		diff := w.Destruction.Score - w.Protection.Score
		var winner *sim.AgentType
		switch {
		case diff > r.params.ScoreDeadband:
			d := sim.AgentDestruction
			winner = &d
		case diff < -r.params.ScoreDeadband:
			p := sim.AgentProtection
			winner = &p
		}
		r.store.EndGame(winner)
		if winner == nil {
			emit(sim.NewEvent(w.Turn, sim.EventAction,
				"The contest ends in stalemate; neither side achieved its aims",
				sim.AgentDestruction, sim.AgentProtection, sim.AgentHuman))
		}
		return true
	}
	return false
}

// upkeep runs the between-turn economy: passive income, botnet yield, and
// burnout/alert decay.
func (r *Resolver) upkeep() {
	w := r.store.World()
	r.store.GainDestructionResources(4 + w.Destruction.BotnetSize*w.Destruction.BotnetQuality*0.02)
	r.store.GainProtectionResources(4 + w.Human.RegulationStrength*0.1)
	r.store.UpdateAlertLevel(-1)
	economy.Tick(r.store)
}
