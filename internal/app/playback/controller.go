package playback

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noisebox/internal/audio"
	"github.com/osa030/noisebox/internal/domain/sound"
)

// Config holds controller configuration.
type Config struct {
	EventBuffer int // Capacity of the event channel
}

// Controller owns the single active sound and its audio resource.
//
// Activations are serialized: a call waits until every earlier call has
// finished stopping, opening and starting. State reads never wait behind
// audio operations.
type Controller struct {
	backend audio.Backend

	// admit is a one-slot semaphore held for the whole of an activation.
	admit chan struct{}

	mu       sync.RWMutex
	activeID string
	active   audio.Resource
	closed   bool

	eventCh chan Event
}

// NewController creates a new playback controller.
func NewController(backend audio.Backend, config Config) *Controller {
	if config.EventBuffer <= 0 {
		config.EventBuffer = 16
	}
	return &Controller{
		backend: backend,
		admit:   make(chan struct{}, 1),
		eventCh: make(chan Event, config.EventBuffer),
	}
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// CurrentlyPlayingID returns the ID of the playing sound.
func (c *Controller) CurrentlyPlayingID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID, c.active != nil
}

// GetState returns the current playback state.
func (c *Controller) GetState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return StateIdle
	}
	return StatePlaying
}

// Activate toggles entry: it starts the sound when idle, stops it when it is
// already playing, and switches to it when another sound is playing.
//
// ctx only bounds the wait for earlier activations. Once admitted the
// activation runs to completion.
//
// A failed release of the previous sound is returned as an error marked
// ErrResourceRelease (see IsWarning) and never prevents the new sound from
// starting. On acquisition or start failure the controller is idle.
func (c *Controller) Activate(ctx context.Context, entry sound.Entry) (Event, error) {
	if entry.ID == "" || sound.IsAdID(entry.ID) {
		return Event{}, errors.Wrapf(ErrNotPlayable, "sound %q", entry.ID)
	}

	select {
	case c.admit <- struct{}{}:
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
	defer func() { <-c.admit }()

	ctx = context.WithoutCancel(ctx)

	c.mu.RLock()
	closed := c.closed
	prevID, prev := c.activeID, c.active
	c.mu.RUnlock()

	if closed {
		return Event{}, ErrClosed
	}

	var warn error
	if prev != nil {
		warn = c.releaseLocked(ctx, prevID, prev)
		if prevID == entry.ID {
			ev := Event{Type: EventStopped, ID: entry.ID, PreviousID: prevID, State: StateIdle, Err: warn}
			zlog.Info().Msgf("playback: stopped: sound=%s", entry.ID)
			c.sendEventLocked(ev)
			return ev, warn
		}
	}

	res, err := c.backend.Open(ctx, entry.AudioRef, audio.OpenOptions{Loop: true})
	if err != nil {
		return c.failLocked(entry.ID, prevID, newActivationError(ErrResourceAcquisition, entry.ID, err), warn)
	}

	if err := res.Start(ctx); err != nil {
		startErr := newActivationError(ErrPlaybackStart, entry.ID, err)
		if stopErr := res.Stop(ctx); stopErr != nil {
			zlog.Warn().Msgf("playback: failed to release unstarted resource: sound=%s error=%v", entry.ID, stopErr)
			warn = combine(warn, newActivationError(ErrResourceRelease, entry.ID, stopErr))
		}
		return c.failLocked(entry.ID, prevID, startErr, warn)
	}

	c.mu.Lock()
	c.activeID = entry.ID
	c.active = res
	c.mu.Unlock()

	ev := Event{Type: EventStarted, ID: entry.ID, PreviousID: prevID, State: StatePlaying, Err: warn}
	if prev != nil {
		ev.Type = EventSwitched
		zlog.Info().Msgf("playback: switched: from=%s to=%s", prevID, entry.ID)
	} else {
		zlog.Info().Msgf("playback: started: sound=%s", entry.ID)
	}
	c.sendEventLocked(ev)
	return ev, warn
}

// Close stops and releases the active sound, waiting for any in-flight
// activation first. Later activations return ErrClosed.
func (c *Controller) Close(ctx context.Context) error {
	select {
	case c.admit <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.admit }()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	prevID, prev := c.activeID, c.active
	c.mu.Unlock()

	var err error
	if prev != nil {
		err = c.releaseLocked(context.WithoutCancel(ctx), prevID, prev)
		c.sendEventLocked(Event{Type: EventStopped, ID: prevID, PreviousID: prevID, State: StateIdle, Err: err})
		zlog.Info().Msgf("playback: stopped on close: sound=%s", prevID)
	}

	close(c.eventCh)
	return err
}

// releaseLocked stops res and clears the active slot. The slot is cleared even
// if Stop fails so no handle outlives the attempt.
// Must be called with the admission slot held.
func (c *Controller) releaseLocked(ctx context.Context, id string, res audio.Resource) error {
	err := res.Stop(ctx)

	c.mu.Lock()
	c.activeID = ""
	c.active = nil
	c.mu.Unlock()

	if err != nil {
		zlog.Warn().Msgf("playback: failed to release resource: sound=%s error=%v", id, err)
		return newActivationError(ErrResourceRelease, id, err)
	}
	return nil
}

// failLocked reports a failed activation. The controller is idle.
// Must be called with the admission slot held.
func (c *Controller) failLocked(id, prevID string, err, warn error) (Event, error) {
	zlog.Error().Msgf("playback: activation failed: sound=%s error=%v", id, err)
	if warn != nil {
		err = errors.WithSecondaryError(err, warn)
	}
	ev := Event{Type: EventFailed, ID: id, PreviousID: prevID, State: StateIdle, Err: err}
	c.sendEventLocked(ev)
	return ev, err
}

// sendEventLocked sends an event without blocking.
// Must be called with the admission slot held.
func (c *Controller) sendEventLocked(e Event) {
	select {
	case c.eventCh <- e:
	default:
		zlog.Warn().Msgf("playback: event channel full, dropping %s event: sound=%s", e.Type, e.ID)
	}
}

func combine(a, b error) error {
	return errors.CombineErrors(a, b)
}
