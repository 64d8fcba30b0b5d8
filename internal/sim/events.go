package sim

// EventType classifies a GameEvent for downstream consumers.
type EventType string

const (
	EventAction    EventType = "action"
	EventDetection EventType = "detection"
	EventSuccess   EventType = "success"
	EventFailure   EventType = "failure"
)

// GameEvent is an append-only record of something that happened in the world.
// Visibility lists the actors whose observation builders may see the event;
// filtering by membership is the core privacy mechanism of the simulation.
type GameEvent struct {
	Turn        int            `json:"turn"`
	Type        EventType      `json:"type"`
	Description string         `json:"description"`
	Visibility  []AgentType    `json:"visibility"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// VisibleTo reports whether the given actor may observe this event.
func (e GameEvent) VisibleTo(agent AgentType) bool {
	for _, v := range e.Visibility {
		if v == agent {
			return true
		}
	}
	return false
}

// NewEvent constructs a GameEvent visible to the listed actors.
func NewEvent(turn int, typ EventType, description string, visibility ...AgentType) GameEvent {
	return GameEvent{
		Turn:        turn,
		Type:        typ,
		Description: description,
		Visibility:  visibility,
	}
}

// FilterEvents returns the events from the log that the given actor may see.
func FilterEvents(events []GameEvent, agent AgentType) []GameEvent {
	var out []GameEvent
	for _, e := range events {
		if e.VisibleTo(agent) {
			out = append(out, e)
		}
	}
	return out
}
