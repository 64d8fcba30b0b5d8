// Package state owns the WorldState for one game and routes every field
// mutation through a clamping setter. Handlers never write WorldState fields
// directly; keeping all mutation here is what makes the bounded-value
// invariants impossible to violate rather than merely checked.
package state

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/tuning"
)

// Store owns a WorldState and exposes clamped mutators over it.
type Store struct {
	world  *sim.WorldState
	params tuning.Params
}

// New creates a fresh game world from the tuning parameters.
func New(params tuning.Params) *Store {
	w := &sim.WorldState{
		GameID:            uuid.NewString(),
		Turn:              0,
		MaxTurns:          params.MaxTurns,
		HumanPopulation:   params.InitialPopulation,
		InitialPopulation: params.InitialPopulation,
		Economy: sim.EconomicModel{
			GlobalBudget:       params.GlobalBudget,
			InfrastructureCost: params.InfrastructureCost,
			GrowthRate:         params.EconomicGrowthRate,
		},
		Destruction: sim.DestructionState{
			ComputeResources: params.DestructionResources,
			BotnetQuality:    0.5,
		},
		Protection: sim.ProtectionState{
			ComputeResources: params.ProtectionResources,
		},
		Human: sim.HumanState{
			Panic:         10,
			Trust:         70,
			LastInfraTurn: -1,
		},
	}
	for i := 0; i < params.InitialDataCenters; i++ {
		w.DataCenters = append(w.DataCenters, &sim.DataCenter{
			ID:           fmt.Sprintf("dc-%03d", i+1),
			ComputePower: 50 + float64(i%5)*10,
			Security:     40 + float64(i%7)*8,
		})
	}
	w.DataCenterSeq = params.InitialDataCenters
	return &Store{world: w, params: params}
}

// Wrap adopts an existing WorldState, used by tests and snapshot inspection.
func Wrap(w *sim.WorldState, params tuning.Params) *Store {
	return &Store{world: w, params: params}
}

// World returns the underlying state. Callers treat it as read-only; all
// mutation goes through the named setters below.
func (s *Store) World() *sim.WorldState { return s.world }

// Params returns the tuning parameters the store was built with.
func (s *Store) Params() tuning.Params { return s.params }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ── Turn and lifecycle ──────────────────────────────────────────────

// AdvanceTurn increments the turn counter.
func (s *Store) AdvanceTurn() {
	s.world.Turn++
}

// EndGame marks the game over with the given winner (nil for a draw).
// The first terminal outcome wins; later calls are ignored.
func (s *Store) EndGame(winner *sim.AgentType) {
	if s.world.GameOver {
		return
	}
	s.world.GameOver = true
	s.world.Winner = winner
}

// ── Events ──────────────────────────────────────────────────────────

// AppendEvent adds an event to the append-only log.
func (s *Store) AppendEvent(e sim.GameEvent) {
	s.world.Events = append(s.world.Events, e)
}

// EventsThisTurn returns the events logged for the current turn.
func (s *Store) EventsThisTurn() []sim.GameEvent {
	var out []sim.GameEvent
	for i := len(s.world.Events) - 1; i >= 0; i-- {
		if s.world.Events[i].Turn != s.world.Turn {
			break
		}
		out = append(out, s.world.Events[i])
	}
	return out
}

// ── Delayed effects ────────────────────────────────────────────────

// AddDelayedEffect schedules a future effect. Effects never merge; each
// entry fires independently even when scheduled for the same turn.
func (s *Store) AddDelayedEffect(e sim.DelayedEffect) {
	s.world.DelayedEffects = append(s.world.DelayedEffects, e)
}

// PopMaturedEffects removes and returns every delayed effect whose trigger
// turn equals the current turn. Each effect is returned exactly once.
func (s *Store) PopMaturedEffects() []sim.DelayedEffect {
	var matured []sim.DelayedEffect
	remaining := s.world.DelayedEffects[:0]
	for _, e := range s.world.DelayedEffects {
		if e.TriggerTurn == s.world.Turn {
			matured = append(matured, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	s.world.DelayedEffects = remaining
	return matured
}

// ── Population ──────────────────────────────────────────────────────

// DamagePopulation removes the given amount (billions), floored at zero.
func (s *Store) DamagePopulation(amount float64) {
	if amount < 0 {
		amount = 0
	}
	s.world.HumanPopulation = clamp(s.world.HumanPopulation-amount, 0, s.world.InitialPopulation)
}

// ── Destruction agent ──────────────────────────────────────────────

// SpendDestructionResources deducts from the pool, floored at zero.
func (s *Store) SpendDestructionResources(amount float64) {
	s.world.Destruction.ComputeResources = clamp(s.world.Destruction.ComputeResources-amount, 0, maxResources)
}

// GainDestructionResources adds to the pool.
func (s *Store) GainDestructionResources(amount float64) {
	s.world.Destruction.ComputeResources = clamp(s.world.Destruction.ComputeResources+amount, 0, maxResources)
}

// UpdateDetectionRisk applies a delta to the destruction agent's accumulated
// detection risk, clamped to [0, 100].
func (s *Store) UpdateDetectionRisk(delta float64) {
	s.world.Destruction.DetectionRisk = clamp(s.world.Destruction.DetectionRisk+delta, 0, 100)
}

// SetDormantTurns records how long the destruction agent has been dormant.
func (s *Store) SetDormantTurns(turns int) {
	if turns < 0 {
		turns = 0
	}
	s.world.Destruction.DormantTurns = turns
}

// GrowBotnet adds compromised machines to the botnet, floored at zero.
func (s *Store) GrowBotnet(delta float64) {
	s.world.Destruction.BotnetSize = clamp(s.world.Destruction.BotnetSize+delta, 0, maxResources)
}

// UpdateBotnetQuality applies a delta clamped to [0, 1].
func (s *Store) UpdateBotnetQuality(delta float64) {
	s.world.Destruction.BotnetQuality = clamp(s.world.Destruction.BotnetQuality+delta, 0, 1)
}

// ── Protection agent ───────────────────────────────────────────────

// SpendProtectionResources deducts from the pool and tracks total spend.
func (s *Store) SpendProtectionResources(amount float64) {
	if amount < 0 {
		amount = 0
	}
	s.world.Protection.ComputeResources = clamp(s.world.Protection.ComputeResources-amount, 0, maxResources)
	s.world.Protection.TotalResourcesSpent += amount
}

// GainProtectionResources adds to the pool.
func (s *Store) GainProtectionResources(amount float64) {
	s.world.Protection.ComputeResources = clamp(s.world.Protection.ComputeResources+amount, 0, maxResources)
}

// UpdateAlertLevel applies a delta to the defender's alert level, clamped
// to [0, 100].
func (s *Store) UpdateAlertLevel(delta float64) {
	s.world.Protection.AlertLevel = clamp(s.world.Protection.AlertLevel+delta, 0, 100)
}

// UpdateBurnout applies a delta to the defender's burnout level.
func (s *Store) UpdateBurnout(delta float64) {
	s.world.Protection.BurnoutLevel = clamp(s.world.Protection.BurnoutLevel+delta, 0, 100)
}

// SetConsecutiveHighIntensity tracks back-to-back high-intensity turns.
func (s *Store) SetConsecutiveHighIntensity(n int) {
	if n < 0 {
		n = 0
	}
	s.world.Protection.ConsecutiveHighIntensity = n
}

// RecordFalsePositive bumps the defender's recent false-positive count.
func (s *Store) RecordFalsePositive() {
	s.world.Protection.RecentFalsePositives++
}

// RecordDetection bumps the defender's lifetime detection count.
func (s *Store) RecordDetection() {
	s.world.Protection.TotalDetections++
}

// ── Scores ──────────────────────────────────────────────────────────

// UpdateScore applies a delta to an AI actor's score, clamped to
// [0, MaxScore]. Human has no score; unknown agents are ignored.
func (s *Store) UpdateScore(agent sim.AgentType, delta float64) {
	switch agent {
	case sim.AgentDestruction:
		s.world.Destruction.Score = clamp(s.world.Destruction.Score+delta, 0, s.params.MaxScore)
	case sim.AgentProtection:
		s.world.Protection.Score = clamp(s.world.Protection.Score+delta, 0, s.params.MaxScore)
	default:
		slog.Debug("score update for unscored agent ignored", "agent", agent)
	}
}

// ── Human agent ─────────────────────────────────────────────────────

// UpdatePanic applies a delta to public panic, clamped to [0, 100].
func (s *Store) UpdatePanic(delta float64) {
	s.world.Human.Panic = clamp(s.world.Human.Panic+delta, 0, 100)
}

// UpdateTrust applies a delta to public trust, clamped to [0, 100].
func (s *Store) UpdateTrust(delta float64) {
	s.world.Human.Trust = clamp(s.world.Human.Trust+delta, 0, 100)
}

// UpdateRegulation applies a delta to regulation strength, floored at zero.
func (s *Store) UpdateRegulation(delta float64) {
	s.world.Human.RegulationStrength = clamp(s.world.Human.RegulationStrength+delta, 0, maxResources)
}

// SetLastHumanAction records the government's most recent action.
func (s *Store) SetLastHumanAction(t sim.ActionType) {
	s.world.Human.LastAction = t
}

// SetLastInfraTurn records when the government last invested in
// infrastructure.
func (s *Store) SetLastInfraTurn(turn int) {
	s.world.Human.LastInfraTurn = turn
}

// ── Economy ─────────────────────────────────────────────────────────

// SpendBudget deducts from the global budget, floored at zero.
func (s *Store) SpendBudget(amount float64) {
	s.world.Economy.GlobalBudget = clamp(s.world.Economy.GlobalBudget-amount, 0, maxResources)
}

// GrowBudget adds to the global budget.
func (s *Store) GrowBudget(amount float64) {
	s.world.Economy.GlobalBudget = clamp(s.world.Economy.GlobalBudget+amount, 0, maxResources)
}

// ── Data centers ───────────────────────────────────────────────────

// NextDataCenterID issues a fresh data center ID. The serial only grows, so
// an ID is never reused after a center is decommissioned.
func (s *Store) NextDataCenterID() string {
	s.world.DataCenterSeq++
	return fmt.Sprintf("dc-%03d", s.world.DataCenterSeq)
}

// AddDataCenter appends a new data center to the world.
func (s *Store) AddDataCenter(dc *sim.DataCenter) {
	s.world.DataCenters = append(s.world.DataCenters, dc)
}

// RemoveDataCenter deletes a data center by ID, releasing destruction
// control if it was compromised. Returns false when no such center exists.
func (s *Store) RemoveDataCenter(id string) bool {
	for i, dc := range s.world.DataCenters {
		if dc.ID == id {
			if dc.Compromised {
				s.releaseControl()
			}
			s.world.DataCenters = append(s.world.DataCenters[:i], s.world.DataCenters[i+1:]...)
			return true
		}
	}
	return false
}

// CompromiseDataCenter hands control of a data center to the destruction
// agent, keeping Compromised and Owner in lockstep.
func (s *Store) CompromiseDataCenter(id string) bool {
	dc := s.world.DataCenter(id)
	if dc == nil || dc.Compromised {
		return false
	}
	owner := sim.AgentDestruction
	dc.Compromised = true
	dc.Owner = &owner
	s.world.Destruction.ControlledDataCenters++
	return true
}

// ReclaimDataCenter returns a compromised center to protection control.
func (s *Store) ReclaimDataCenter(id string) bool {
	dc := s.world.DataCenter(id)
	if dc == nil || !dc.Compromised {
		return false
	}
	owner := sim.AgentProtection
	dc.Compromised = false
	dc.Owner = &owner
	s.releaseControl()
	return true
}

// HardenDataCenter raises a center's security, clamped to [0, 100].
func (s *Store) HardenDataCenter(id string, delta float64) bool {
	dc := s.world.DataCenter(id)
	if dc == nil {
		return false
	}
	dc.Security = clamp(dc.Security+delta, 0, 100)
	return true
}

// WeakenDataCenter lowers a center's security, clamped to [0, 100].
func (s *Store) WeakenDataCenter(id string, delta float64) bool {
	return s.HardenDataCenter(id, -delta)
}

// ScaleComputePower multiplies a center's compute power by the given factor,
// floored at zero. Returns false when no such center exists.
func (s *Store) ScaleComputePower(id string, factor float64) bool {
	dc := s.world.DataCenter(id)
	if dc == nil {
		return false
	}
	if factor < 0 {
		factor = 0
	}
	dc.ComputePower *= factor
	return true
}

func (s *Store) releaseControl() {
	if s.world.Destruction.ControlledDataCenters > 0 {
		s.world.Destruction.ControlledDataCenters--
	}
}

// maxResources is a generous ceiling for unbounded-above pools. The clamp
// exists so every mutator goes through the same path, not as a balance knob.
const maxResources = 1e9
