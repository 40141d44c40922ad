// Package beepaudio plays sounds through the system speaker with gopxl/beep.
// It needs cgo and an audio device library (ALSA on Linux); import it for its
// side effect of registering the "beep" backend type.
package beepaudio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noisebox/internal/audio"
)

func init() {
	audio.Register("beep", func(settings map[string]any) (audio.Backend, error) {
		b, err := New(settings)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

// Config holds settings for the speaker backend.
type Config struct {
	AssetsDir       string `mapstructure:"assets_dir" default:"assets" validate:"required"`
	SampleRate      int    `mapstructure:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
	BufferMs        int    `mapstructure:"buffer_ms" default:"100" validate:"gte=10,lte=2000"`
	ResampleQuality int    `mapstructure:"resample_quality" default:"4" validate:"gte=1,lte=64"`
}

// Backend plays audio through the system speaker.
type Backend struct {
	config     *Config
	sampleRate beep.SampleRate

	configured atomic.Bool
	mu         sync.Mutex
	session    audio.SessionOptions
}

// New creates a speaker backend from settings.
func New(settings map[string]any) (*Backend, error) {
	var config Config
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("beep backend config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &Backend{
		config:     &config,
		sampleRate: beep.SampleRate(config.SampleRate),
	}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "beep"
}

// Configure initializes the speaker once.
func (b *Backend) Configure(ctx context.Context, opts audio.SessionOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !b.configured.CompareAndSwap(false, true) {
		return audio.ErrAlreadyConfigured
	}

	bufferSize := b.sampleRate.N(time.Duration(b.config.BufferMs) * time.Millisecond)
	if err := speaker.Init(b.sampleRate, bufferSize); err != nil {
		b.configured.Store(false)
		return errors.Wrap(err, "failed to initialize speaker")
	}

	b.mu.Lock()
	b.session = opts
	b.mu.Unlock()

	// Background playback and the silent switch have no meaning for a desktop
	// speaker; the process keeps playing regardless of focus.
	zlog.Info().Msgf("audio session configured: backend=beep sample_rate=%d buffer=%d background=%t primary=%s secondary=%s",
		b.config.SampleRate, bufferSize, opts.StaysActiveInBackground, opts.InterruptionPrimary, opts.InterruptionSecondary)
	return nil
}

// Open decodes ref and prepares it for playback.
func (b *Backend) Open(ctx context.Context, ref string, opts audio.OpenOptions) (audio.Resource, error) {
	if !b.configured.Load() {
		return nil, audio.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := audio.ResolveRef(b.config.AssetsDir, ref)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.Wrapf(audio.ErrUnsupportedFormat, "file %s", path)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var s beep.Streamer = stream
	if opts.Loop {
		s = beep.Loop(-1, stream)
	}
	if format.SampleRate != b.sampleRate {
		s = beep.Resample(b.config.ResampleQuality, format.SampleRate, b.sampleRate, s)
	}

	b.mu.Lock()
	exclusive := b.session.Exclusive()
	b.mu.Unlock()

	zlog.Debug().Msgf("beep: opened %s: rate=%d channels=%d loop=%t", path, format.SampleRate, format.NumChannels, opts.Loop)
	return &beepResource{
		path:      path,
		decoder:   stream,
		ctrl:      &beep.Ctrl{Streamer: s},
		exclusive: exclusive,
	}, nil
}

// beepResource is a decoded stream attached to the speaker mixer.
type beepResource struct {
	path      string
	decoder   beep.StreamSeekCloser
	ctrl      *beep.Ctrl
	exclusive bool

	mu       sync.Mutex
	started  bool
	released bool
}

// Start attaches the stream to the speaker.
func (r *beepResource) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return audio.ErrReleased
	}
	if r.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.exclusive {
		speaker.Clear()
	}
	speaker.Play(r.ctrl)
	r.started = true
	return nil
}

// Stop detaches the stream and closes the decoder.
func (r *beepResource) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return audio.ErrReleased
	}
	r.released = true

	// A Ctrl with no streamer reports drained and is dropped by the mixer.
	speaker.Lock()
	r.ctrl.Streamer = nil
	speaker.Unlock()

	if err := r.decoder.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", r.path)
	}
	return nil
}
