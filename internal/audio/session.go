package audio

import "github.com/cockroachdb/errors"

// InterruptionMode defines how this app's audio interacts with other sources.
type InterruptionMode int

const (
	InterruptionDoNotMix      InterruptionMode = iota // Interrupt other audio
	InterruptionDuckOthers                            // Lower other audio
	InterruptionMixWithOthers                         // Play alongside other audio
)

// String returns the string representation of the mode.
func (m InterruptionMode) String() string {
	switch m {
	case InterruptionDoNotMix:
		return "do_not_mix"
	case InterruptionDuckOthers:
		return "duck_others"
	case InterruptionMixWithOthers:
		return "mix_with_others"
	default:
		return "unknown"
	}
}

// SessionOptions is the process-wide audio session policy.
type SessionOptions struct {
	AllowsRecording         bool
	StaysActiveInBackground bool
	PlaysInSilentMode       bool             // Ignore the silent/mute switch
	ShouldDuck              bool             // Secondary platform ducking
	PlayThroughEarpiece     bool             // Secondary platform routing
	InterruptionPrimary     InterruptionMode // Primary platform policy
	InterruptionSecondary   InterruptionMode // Secondary platform policy
}

// DefaultSessionOptions returns the fixed session policy: background playback,
// do-not-mix on both platforms and the silent switch overridden.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		AllowsRecording:         false,
		StaysActiveInBackground: true,
		PlaysInSilentMode:       true,
		ShouldDuck:              true,
		PlayThroughEarpiece:     false,
		InterruptionPrimary:     InterruptionDoNotMix,
		InterruptionSecondary:   InterruptionDoNotMix,
	}
}

// Exclusive returns true if starting playback must silence other sources.
func (o SessionOptions) Exclusive() bool {
	return o.InterruptionPrimary == InterruptionDoNotMix || o.InterruptionSecondary == InterruptionDoNotMix
}

// Validate checks that the options match the fixed policy.
func (o SessionOptions) Validate() error {
	want := DefaultSessionOptions()
	if o != want {
		return errors.Newf("audio session policy is fixed: got %+v, want %+v", o, want)
	}
	return nil
}
