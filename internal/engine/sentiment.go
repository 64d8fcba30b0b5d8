package engine

import (
	"fmt"

	"github.com/talgya/nightwatch/internal/sim"
)

// updateSentiment recomputes public panic and trust from what the human
// actor can actually see this turn: human-visible events, the media
// timeline's aggregate mood, and infrastructure sprawl. The government never
// reads hidden state — only visible signals move sentiment.
func (r *Resolver) updateSentiment(emit func(...sim.GameEvent)) {
	w := r.store.World()
	summary := r.timeline.Summarize(w.Turn)

	// Visible alarming events this turn.
	alarming := 0
	for _, e := range r.store.EventsThisTurn() {
		if !e.VisibleTo(sim.AgentHuman) {
			continue
		}
		if e.Type == sim.EventDetection || e.Type == sim.EventFailure {
			alarming++
		}
	}

	panicDelta := float64(alarming) * 2
	if summary.MeanSentiment < 0 {
		panicDelta += -summary.MeanSentiment * 10
	} else {
		panicDelta -= summary.MeanSentiment * 5
	}
	r.store.UpdatePanic(panicDelta)

	// Trust erosion only begins once the data center estate grows past the
	// point where the public feels surrounded by opaque compute; negative
	// media volume amplifies it.
	dcCount := len(w.DataCenters)
	if dcCount > r.params.TrustErosionDCCount {
		erosion := float64(dcCount-r.params.TrustErosionDCCount) * 0.3
		erosion *= 1 + float64(summary.NegativeCount)*0.1
		r.store.UpdateTrust(-erosion)
		if erosion >= 3 {
			emit(sim.NewEvent(w.Turn, sim.EventAction,
				fmt.Sprintf("Public confidence erodes as compute infrastructure grows to %d sites", dcCount),
				sim.AgentHuman))
		}
	} else if summary.MeanSentiment > 0 {
		r.store.UpdateTrust(summary.MeanSentiment * 5)
	}
}
