// Package media models the public information environment the government
// reacts to: a timeline of posts with numeric sentiment, plus a smooth
// background drift so public mood is never perfectly flat. The engine only
// consumes the numeric aggregates — generating post text is out of scope.
package media

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/nightwatch/internal/sim"
)

// Post is one item on the public timeline. Sentiment is in [-1, 1] where
// negative values feed panic and erode trust.
type Post struct {
	Turn      int           `json:"turn"`
	Source    sim.AgentType `json:"source"`
	Sentiment float64       `json:"sentiment"`
	Topic     string        `json:"topic"`
}

// Timeline accumulates posts over a game and supplies per-turn aggregates.
type Timeline struct {
	posts []Post

	noise      opensimplex.Noise
	noiseScale float64
}

// NewTimeline creates a timeline whose background drift derives from the
// game seed, keeping sentiment reproducible run-to-run.
func NewTimeline(seed int64, noiseScale float64) *Timeline {
	return &Timeline{
		noise:      opensimplex.NewNormalized(seed),
		noiseScale: noiseScale,
	}
}

// Append adds a post to the timeline.
func (t *Timeline) Append(p Post) {
	t.posts = append(t.posts, p)
}

// Posts returns the full timeline.
func (t *Timeline) Posts() []Post { return t.posts }

// BackgroundDrift returns the ambient sentiment for a turn, a smooth value
// in roughly [-noiseScale, +noiseScale]. Adjacent turns stay correlated so
// public mood swings rather than jitters.
func (t *Timeline) BackgroundDrift(turn int) float64 {
	// NewNormalized yields [0, 1]; recenter to [-1, 1] before scaling.
	n := t.noise.Eval2(float64(turn)*0.15, 0.5)
	return (n*2 - 1) * t.noiseScale
}

// TurnSummary aggregates the posts of a single turn.
type TurnSummary struct {
	Turn          int
	PostCount     int
	NegativeCount int
	MeanSentiment float64
}

// Summarize returns the aggregate for one turn, including background drift
// in the mean even when no posts were made.
func (t *Timeline) Summarize(turn int) TurnSummary {
	sum := TurnSummary{Turn: turn}
	total := t.BackgroundDrift(turn)
	n := 1
	for _, p := range t.posts {
		if p.Turn != turn {
			continue
		}
		sum.PostCount++
		if p.Sentiment < 0 {
			sum.NegativeCount++
		}
		total += p.Sentiment
		n++
	}
	sum.MeanSentiment = total / float64(n)
	return sum
}
