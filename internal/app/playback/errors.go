package playback

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrResourceAcquisition = errors.New("resource acquisition failed")
	ErrPlaybackStart       = errors.New("playback start failed")
	ErrResourceRelease     = errors.New("resource release failed")
	ErrNotPlayable         = errors.New("item is not playable")
	ErrClosed              = errors.New("controller closed")
)

// ActivationError carries the sound ID an audio failure relates to.
type ActivationError struct {
	Kind  error // One of ErrResourceAcquisition, ErrPlaybackStart, ErrResourceRelease
	ID    string
	Cause error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("%v: sound=%s: %v", e.Kind, e.ID, e.Cause)
}

func (e *ActivationError) Unwrap() error {
	return e.Cause
}

// newActivationError returns an error marked with kind so errors.Is matches it.
func newActivationError(kind error, id string, cause error) error {
	return errors.Mark(&ActivationError{Kind: kind, ID: id, Cause: cause}, kind)
}

// IsWarning returns true if err only reports a failed release, meaning the
// requested transition itself succeeded.
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrResourceRelease) &&
		!errors.Is(err, ErrResourceAcquisition) &&
		!errors.Is(err, ErrPlaybackStart)
}
