package engine

import (
	"testing"

	"github.com/talgya/nightwatch/internal/entropy"
	"github.com/talgya/nightwatch/internal/media"
	"github.com/talgya/nightwatch/internal/sim"
	"github.com/talgya/nightwatch/internal/state"
	"github.com/talgya/nightwatch/internal/tuning"
)

// sentiment tests bypass ResolveTurn and call updateSentiment directly so the
// inputs (events, posts) are under full control. Noise scale is zeroed to
// keep the media mean exact.
func newSentimentResolver(params tuning.Params) *Resolver {
	store := state.New(params)
	return NewResolver(store, entropy.NewSeeded(1), media.NewTimeline(1, 0))
}

func TestVisibleIncidentsRaisePanic(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = 5 // below the erosion threshold
	r := newSentimentResolver(params)
	s := r.Store()

	s.AppendEvent(sim.NewEvent(0, sim.EventDetection, "visible incident", sim.AgentProtection, sim.AgentHuman))
	s.AppendEvent(sim.NewEvent(0, sim.EventFailure, "visible failure", sim.AgentHuman))
	s.AppendEvent(sim.NewEvent(0, sim.EventDetection, "covert-only finding", sim.AgentProtection))

	before := s.World().Human.Panic
	r.updateSentiment(func(...sim.GameEvent) {})
	if got, want := s.World().Human.Panic, before+4; got != want {
		t.Errorf("panic = %v, want %v (two visible incidents at +2 each)", got, want)
	}
}

func TestNegativeMediaMoodFeedsPanic(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = 5
	r := newSentimentResolver(params)
	r.timeline.Append(media.Post{Turn: 0, Source: sim.AgentDestruction, Sentiment: -0.8, Topic: "distrust"})

	before := r.Store().World().Human.Panic
	r.updateSentiment(func(...sim.GameEvent) {})
	// Mean over the post plus the zero drift term: -0.4, feeding panic +4.
	if got, want := r.Store().World().Human.Panic, before+4; got != want {
		t.Errorf("panic = %v, want %v", got, want)
	}
}

func TestCalmMoodRelaxesPanicAndBuildsTrust(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = 5
	r := newSentimentResolver(params)
	s := r.Store()
	r.timeline.Append(media.Post{Turn: 0, Source: sim.AgentHuman, Sentiment: 0.6, Topic: "reassurance"})

	panicBefore := s.World().Human.Panic
	trustBefore := s.World().Human.Trust
	r.updateSentiment(func(...sim.GameEvent) {})
	if got := s.World().Human.Panic; got >= panicBefore {
		t.Errorf("panic = %v, want below %v under positive mood", got, panicBefore)
	}
	if got := s.World().Human.Trust; got <= trustBefore {
		t.Errorf("trust = %v, want above %v under positive mood", got, trustBefore)
	}
}

func TestTrustErodesWithInfrastructureSprawl(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = 25 // 15 past the threshold: erosion 4.5
	r := newSentimentResolver(params)
	s := r.Store()

	trustBefore := s.World().Human.Trust
	var emitted []sim.GameEvent
	r.updateSentiment(func(events ...sim.GameEvent) { emitted = append(emitted, events...) })

	if got := s.World().Human.Trust; got >= trustBefore {
		t.Errorf("trust = %v, want erosion below %v at 25 data centers", got, trustBefore)
	}
	if len(emitted) != 1 || !emitted[0].VisibleTo(sim.AgentHuman) {
		t.Errorf("heavy erosion did not surface a public event: %v", emitted)
	}
}

func TestNoErosionBelowThreshold(t *testing.T) {
	params := tuning.Default()
	params.InitialDataCenters = params.TrustErosionDCCount
	r := newSentimentResolver(params)
	s := r.Store()

	trustBefore := s.World().Human.Trust
	r.updateSentiment(func(...sim.GameEvent) {})
	if got := s.World().Human.Trust; got < trustBefore {
		t.Errorf("trust eroded to %v at exactly the threshold count", got)
	}
}
