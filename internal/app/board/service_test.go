package board

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noiseboxv1 "github.com/osa030/noisebox/internal/api/noiseboxv1"
	"github.com/osa030/noisebox/internal/app/catalog"
	"github.com/osa030/noisebox/internal/app/playback"
	"github.com/osa030/noisebox/internal/app/playlist"
	"github.com/osa030/noisebox/internal/audio"
	"github.com/osa030/noisebox/internal/domain/sound"
	"github.com/osa030/noisebox/internal/infra/config"
)

type chanStream struct {
	ch chan *noiseboxv1.StateNotification
}

func (s *chanStream) Send(n *noiseboxv1.StateNotification) error {
	s.ch <- n
	return nil
}

// newTestService builds a started service over the null backend. Only the
// files listed in present exist in the assets directory.
func newTestService(t *testing.T, present ...string) (*Service, *audio.NullBackend) {
	t.Helper()

	dir := t.TempDir()
	for _, name := range present {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}

	backend, err := audio.NewNullBackend(map[string]any{"assets_dir": dir})
	require.NoError(t, err)

	cat, err := catalog.FromConfig(&config.Config{Catalog: config.CatalogConfig{Sounds: config.DefaultSounds()}})
	require.NoError(t, err)

	svc := NewService(cat, backend, playlist.NewComposer(rand.New(rand.NewPCG(1, 1))), Options{})
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { _ = svc.Close(context.Background()) })
	return svc, backend
}

func allAssets() []string {
	return []string{"waterfall.mp3", "river.mp3", "forest.mp3", "fan.mp3"}
}

func TestService_DisplayList(t *testing.T) {
	svc, _ := newTestService(t, allAssets()...)

	l := svc.DisplayList()
	require.Equal(t, 6, l.Len())
	assert.Equal(t, sound.AdBottomID, l.At(5).ID())
	assert.Contains(t, []int{2, 3, 4}, l.IndexOf(sound.AdRandomID))
}

func TestService_StartTwice(t *testing.T) {
	svc, _ := newTestService(t, allAssets()...)
	assert.True(t, errors.Is(svc.Start(context.Background()), ErrAlreadyStarted))
}

func TestService_TapBeforeStart(t *testing.T) {
	backend, err := audio.NewNullBackend(map[string]any{"skip_file_check": true})
	require.NoError(t, err)

	svc := newUnstartedService(t, backend)
	_, err = svc.Tap(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrNotStarted))
	assert.NoError(t, svc.Close(context.Background()))
}

func TestService_Scenario(t *testing.T) {
	svc, backend := newTestService(t, allAssets()...)
	ctx := context.Background()

	st, err := svc.Tap(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, Status{State: playback.StatePlaying, PlayingID: "1"}, st)

	st, err = svc.Tap(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, playback.StateIdle, st.State)
	assert.Equal(t, 0, backend.Live())

	_, err = svc.Tap(ctx, "2")
	require.NoError(t, err)
	st, err = svc.Tap(ctx, "4")
	require.NoError(t, err)

	assert.Equal(t, "4", st.PlayingID)
	assert.Equal(t, st, svc.Status())
	assert.Equal(t, 1, backend.Live())
}

func TestService_TapAdIsRejected(t *testing.T) {
	svc, backend := newTestService(t, allAssets()...)

	for _, id := range []string{sound.AdRandomID, sound.AdBottomID} {
		_, err := svc.Tap(context.Background(), id)
		assert.True(t, errors.Is(err, playback.ErrNotPlayable), "tap on %s", id)
	}
	assert.Equal(t, 0, backend.Live())
	assert.Equal(t, playback.StateIdle, svc.Status().State)
}

func TestService_TapUnknown(t *testing.T) {
	svc, _ := newTestService(t, allAssets()...)

	_, err := svc.Tap(context.Background(), "rain")
	assert.True(t, errors.Is(err, ErrUnknownSound))
}

func TestService_MissingAssetEndsIdle(t *testing.T) {
	svc, backend := newTestService(t, "waterfall.mp3")
	ctx := context.Background()

	_, err := svc.Tap(ctx, "1")
	require.NoError(t, err)

	st, err := svc.Tap(ctx, "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, playback.ErrResourceAcquisition))
	assert.Equal(t, playback.StateIdle, st.State)
	assert.Equal(t, 0, backend.Live())
}

func TestService_BroadcastsStateChanges(t *testing.T) {
	svc, _ := newTestService(t, allAssets()...)
	stream := &chanStream{ch: make(chan *noiseboxv1.StateNotification, 8)}
	sub := svc.Subscribe(stream)
	defer sub.Close()

	select {
	case n := <-stream.ch:
		assert.Equal(t, noiseboxv1.NotificationTypeInitialState, n.Type)
		assert.Equal(t, noiseboxv1.PlaybackStatusIdle, n.State.Status)
	case <-time.After(time.Second):
		t.Fatal("no initial state received")
	}

	_, err := svc.Tap(context.Background(), "3")
	require.NoError(t, err)

	select {
	case n := <-stream.ch:
		assert.Equal(t, noiseboxv1.NotificationTypeStarted, n.Type)
		assert.Equal(t, "3", n.SoundID)
		assert.Equal(t, noiseboxv1.PlaybackStatusPlaying, n.State.Status)
		assert.Equal(t, "3", n.State.PlayingID)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}

	require.NoError(t, svc.Close(context.Background()))
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription must end when the board closes")
	}
}

func TestService_CloseReleases(t *testing.T) {
	svc, backend := newTestService(t, allAssets()...)
	ctx := context.Background()

	_, err := svc.Tap(ctx, "2")
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx))
	assert.Equal(t, 0, backend.Live())

	_, err = svc.Tap(ctx, "2")
	assert.True(t, errors.Is(err, playback.ErrClosed))
}

// failingSessionBackend blocks in Configure until release is closed and then
// reports that no output device is available.
type failingSessionBackend struct {
	*audio.NullBackend
	entered chan struct{}
	release chan struct{}
}

func (b *failingSessionBackend) Configure(ctx context.Context, _ audio.SessionOptions) error {
	close(b.entered)
	<-b.release
	return errors.New("no output device")
}

func newUnstartedService(t *testing.T, backend audio.Backend) *Service {
	t.Helper()
	cat, err := catalog.New([]sound.Entry{{ID: "1", Title: "Waterfall", AudioRef: "waterfall.mp3"}})
	require.NoError(t, err)
	return NewService(cat, backend, playlist.NewComposer(nil), Options{})
}

func TestService_CloseDuringFailedStart(t *testing.T) {
	null, err := audio.NewNullBackend(map[string]any{"skip_file_check": true})
	require.NoError(t, err)
	backend := &failingSessionBackend{NullBackend: null, entered: make(chan struct{}), release: make(chan struct{})}
	svc := newUnstartedService(t, backend)
	ctx := context.Background()

	startErr := make(chan error, 1)
	go func() { startErr <- svc.Start(ctx) }()
	<-backend.entered

	closeErr := make(chan error, 1)
	go func() { closeErr <- svc.Close(ctx) }()

	// Close must wait for the Start in progress
	select {
	case <-closeErr:
		t.Fatal("Close returned while Start was still configuring")
	case <-time.After(50 * time.Millisecond):
	}
	close(backend.release)

	select {
	case err := <-startErr:
		assert.ErrorContains(t, err, "no output device")
	case <-time.After(time.Second):
		t.Fatal("Start did not return")
	}
	select {
	case err := <-closeErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close blocked after a failed Start")
	}

	_, err = svc.Tap(ctx, "1")
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestService_StartAfterClose(t *testing.T) {
	backend, err := audio.NewNullBackend(map[string]any{"skip_file_check": true})
	require.NoError(t, err)
	svc := newUnstartedService(t, backend)
	ctx := context.Background()

	require.NoError(t, svc.Close(ctx))
	assert.True(t, errors.Is(svc.Start(ctx), playback.ErrClosed))
	assert.Equal(t, 0, svc.DisplayList().Len())
}

func TestService_ConcurrentTapsNeverOverlap(t *testing.T) {
	svc, backend := newTestService(t, allAssets()...)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := []string{"1", "2", "3", "4"}
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = svc.Tap(ctx, id)
			assert.LessOrEqual(t, backend.Live(), 1)
		}(ids[i%len(ids)])
	}
	wg.Wait()

	st := svc.Status()
	if st.State == playback.StatePlaying {
		assert.Equal(t, 1, backend.Live())
	} else {
		assert.Equal(t, 0, backend.Live())
	}
}

func TestToNotification(t *testing.T) {
	tests := []struct {
		name string
		ev   playback.Event
		want noiseboxv1.NotificationType
	}{
		{"started", playback.Event{Type: playback.EventStarted, ID: "1", State: playback.StatePlaying}, noiseboxv1.NotificationTypeStarted},
		{"stopped", playback.Event{Type: playback.EventStopped, ID: "1", State: playback.StateIdle}, noiseboxv1.NotificationTypeStopped},
		{"switched", playback.Event{Type: playback.EventSwitched, ID: "2", PreviousID: "1", State: playback.StatePlaying}, noiseboxv1.NotificationTypeSwitched},
		{"failed", playback.Event{Type: playback.EventFailed, ID: "2", State: playback.StateIdle, Err: errors.New("boom")}, noiseboxv1.NotificationTypeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ToNotification(tt.ev)
			assert.Equal(t, tt.want, n.Type)
			assert.Equal(t, tt.ev.ID, n.SoundID)
			if tt.ev.State == playback.StatePlaying {
				assert.Equal(t, tt.ev.ID, n.State.PlayingID)
			} else {
				assert.Empty(t, n.State.PlayingID)
			}
			if tt.ev.Err != nil {
				assert.Equal(t, "boom", n.Error)
			}
		})
	}
}
