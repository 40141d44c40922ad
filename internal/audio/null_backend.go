package audio

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// NullConfig holds settings for the headless backend.
type NullConfig struct {
	AssetsDir     string `mapstructure:"assets_dir" default:"assets" validate:"required"`
	SkipFileCheck bool   `mapstructure:"skip_file_check"`
}

// NullBackend tracks resources without producing sound.
// Used on hosts without an audio device.
type NullBackend struct {
	config     *NullConfig
	configured atomic.Bool
	live       atomic.Int64
}

// NewNullBackend creates a headless backend from settings.
func NewNullBackend(settings map[string]any) (*NullBackend, error) {
	var config NullConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &NullBackend{config: &config}, nil
}

// Name returns the backend name.
func (b *NullBackend) Name() string {
	return "null"
}

// Configure records the session options.
func (b *NullBackend) Configure(ctx context.Context, opts SessionOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !b.configured.CompareAndSwap(false, true) {
		return ErrAlreadyConfigured
	}
	zlog.Info().Msgf("audio session configured: backend=null background=%t primary=%s secondary=%s",
		opts.StaysActiveInBackground, opts.InterruptionPrimary, opts.InterruptionSecondary)
	return nil
}

// Open checks that ref resolves to a regular file.
func (b *NullBackend) Open(ctx context.Context, ref string, opts OpenOptions) (Resource, error) {
	if !b.configured.Load() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := ResolveRef(b.config.AssetsDir, ref)
	if !b.config.SkipFileCheck {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", path)
		}
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", path)
		}
	}

	b.live.Add(1)
	return &nullResource{path: path, loop: opts.Loop, backend: b}, nil
}

// Live returns the number of opened resources not yet released.
func (b *NullBackend) Live() int {
	return int(b.live.Load())
}

type nullResource struct {
	path    string
	loop    bool
	backend *NullBackend

	mu       sync.Mutex
	released bool
}

func (r *nullResource) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	zlog.Debug().Msgf("null audio: start %s loop=%t", r.path, r.loop)
	return nil
}

func (r *nullResource) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	r.released = true
	r.backend.live.Add(-1)
	zlog.Debug().Msgf("null audio: stop %s", r.path)
	return nil
}
