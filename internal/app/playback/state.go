// Package playback provides the single-active-sound playback controller.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // Nothing playing
	StatePlaying              // One sound looping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
