// Package board provides the sound board service used by presentation clients.
package board

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	noiseboxv1 "github.com/osa030/noisebox/internal/api/noiseboxv1"
	"github.com/osa030/noisebox/internal/app/catalog"
	"github.com/osa030/noisebox/internal/app/notification"
	"github.com/osa030/noisebox/internal/app/playback"
	"github.com/osa030/noisebox/internal/app/playlist"
	"github.com/osa030/noisebox/internal/audio"
	"github.com/osa030/noisebox/internal/domain/sound"
)

var (
	ErrNotStarted     = errors.New("board is not started")
	ErrAlreadyStarted = errors.New("board already started")
	ErrUnknownSound   = errors.New("unknown sound")
)

// Options holds service configuration.
type Options struct {
	NotificationQueue int // Per-subscriber buffer, 0 for the default
}

// Status is the playback state shown to clients.
type Status struct {
	State     playback.State
	PlayingID string
}

// Service composes the display list once per session and routes taps to the
// playback controller.
type Service struct {
	catalog      *catalog.Catalog
	backend      audio.Backend
	composer     *playlist.Composer
	playback     *playback.Controller
	notification *notification.Manager

	// lifecycle serializes Start and Close.
	lifecycle sync.Mutex
	started   atomic.Bool
	closed    bool

	mu      sync.RWMutex
	display sound.DisplayList

	closeOnce  sync.Once
	eventsDone chan struct{}
}

// NewService creates a new board service.
func NewService(cat *catalog.Catalog, backend audio.Backend, composer *playlist.Composer, opts Options) *Service {
	return &Service{
		catalog:      cat,
		backend:      backend,
		composer:     composer,
		playback:     playback.NewController(backend, playback.Config{}),
		notification: notification.NewManager(opts.NotificationQueue),
		eventsDone:   make(chan struct{}),
	}
}

// Start configures the audio session and composes the display list.
// It must be called once before Tap. The service counts as started only
// once Start has succeeded.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.closed {
		return playback.ErrClosed
	}
	if s.started.Load() {
		return ErrAlreadyStarted
	}

	if err := s.backend.Configure(ctx, audio.DefaultSessionOptions()); err != nil {
		return errors.Wrap(err, "failed to configure audio session")
	}

	if s.catalog.Len() == 0 {
		zlog.Warn().Msg("board: catalog is empty, only the bottom ad will be shown")
	}
	display := s.composer.Compose(s.catalog.Entries())

	s.mu.Lock()
	s.display = display
	s.mu.Unlock()

	go s.forwardEvents()
	s.started.Store(true)

	zlog.Info().Msgf("board: started: tiles=%d order=%v", display.Len(), display.IDs())
	return nil
}

// DisplayList returns the display list composed at start.
func (s *Service) DisplayList() sound.DisplayList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Status returns the current playback state.
func (s *Service) Status() Status {
	id, ok := s.playback.CurrentlyPlayingID()
	if !ok {
		return Status{State: playback.StateIdle}
	}
	return Status{State: playback.StatePlaying, PlayingID: id}
}

// Tap handles a tap on the tile with the given ID. Ads are not playable.
// The returned status is valid even when err only carries a release warning
// (see playback.IsWarning).
func (s *Service) Tap(ctx context.Context, id string) (Status, error) {
	if !s.started.Load() {
		return Status{}, ErrNotStarted
	}

	item, ok := s.DisplayList().Find(id)
	if !ok {
		return s.Status(), errors.Wrapf(ErrUnknownSound, "id %q", id)
	}
	if item.IsAd() {
		zlog.Debug().Msgf("board: ignoring tap on ad: id=%s", id)
		return s.Status(), errors.Wrapf(playback.ErrNotPlayable, "id %q", id)
	}

	entry, ok := s.catalog.Get(item.ID())
	if !ok {
		return s.Status(), errors.Wrapf(ErrUnknownSound, "id %q not in catalog", id)
	}

	ev, err := s.playback.Activate(ctx, entry)
	if err != nil && !playback.IsWarning(err) {
		return s.Status(), err
	}
	return Status{State: ev.State, PlayingID: ev.PlayingID()}, err
}

// Notifications returns the notification manager.
func (s *Service) Notifications() *notification.Manager {
	return s.notification
}

// Subscribe streams the current state followed by every change. The caller
// must Close the subscription before stream becomes unusable.
func (s *Service) Subscribe(stream notification.Stream) *notification.Subscription {
	return s.notification.Subscribe(stream, func() *noiseboxv1.StateNotification {
		return &noiseboxv1.StateNotification{
			Type:  noiseboxv1.NotificationTypeInitialState,
			State: ToPlaybackState(s.Status()),
		}
	})
}

// Close stops any playing sound and ends every subscription. A Start in
// progress finishes first; Start after Close fails.
func (s *Service) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.lifecycle.Lock()
		s.closed = true
		forwarding := s.started.Load()
		s.lifecycle.Unlock()

		err = s.playback.Close(ctx)
		if forwarding {
			<-s.eventsDone
		}
		s.notification.Close()
		zlog.Info().Msg("board: closed")
	})
	return err
}

// forwardEvents broadcasts playback events until the controller closes.
func (s *Service) forwardEvents() {
	defer close(s.eventsDone)
	for ev := range s.playback.Events() {
		s.notification.Broadcast(ToNotification(ev))
	}
}

// ToNotification converts a playback event to a client notification.
func ToNotification(ev playback.Event) *noiseboxv1.StateNotification {
	n := &noiseboxv1.StateNotification{
		SoundID: ev.ID,
		State:   ToPlaybackState(Status{State: ev.State, PlayingID: ev.PlayingID()}),
	}
	switch ev.Type {
	case playback.EventStarted:
		n.Type = noiseboxv1.NotificationTypeStarted
	case playback.EventStopped:
		n.Type = noiseboxv1.NotificationTypeStopped
	case playback.EventSwitched:
		n.Type = noiseboxv1.NotificationTypeSwitched
	case playback.EventFailed:
		n.Type = noiseboxv1.NotificationTypeFailed
	}
	if ev.Err != nil {
		n.Error = ev.Err.Error()
	}
	return n
}

// ToPlaybackState converts a status to its wire form.
func ToPlaybackState(st Status) *noiseboxv1.PlaybackState {
	if st.State == playback.StatePlaying {
		return &noiseboxv1.PlaybackState{Status: noiseboxv1.PlaybackStatusPlaying, PlayingID: st.PlayingID}
	}
	return &noiseboxv1.PlaybackState{Status: noiseboxv1.PlaybackStatusIdle}
}
