package playback

// EventType represents a playback event type.
type EventType int

const (
	EventStarted  EventType = iota // Sound started from idle
	EventStopped                   // Sound stopped (toggle off or teardown)
	EventSwitched                  // Previous sound stopped, new sound started
	EventFailed                    // Activation failed, controller is idle
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventSwitched:
		return "switched"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes the state change produced by one activation.
type Event struct {
	Type       EventType
	ID         string // Sound the activation targeted
	PreviousID string // Sound playing before the activation, if any
	State      State  // State after the activation
	Err        error  // Failure or release warning, if any
}

// PlayingID returns the ID playing after the event, or "".
func (e Event) PlayingID() string {
	if e.State == StatePlaying {
		return e.ID
	}
	return ""
}
