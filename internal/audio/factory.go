package audio

import (
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noisebox/internal/infra/config"
)

// Factory creates a backend from its config settings.
type Factory func(settings map[string]any) (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

func init() {
	Register("null", func(settings map[string]any) (Backend, error) {
		b, err := NewNullBackend(settings)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

// Register makes a backend type available to NewBackendFromConfig.
// Backends that need cgo live in their own package and register from init.
// It panics if name is already registered.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[name]; dup {
		panic("audio: backend registered twice: " + name)
	}
	factories[name] = f
}

// Registered returns the registered backend types, sorted.
func Registered() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// NewBackendFromConfig creates the configured audio backend.
func NewBackendFromConfig(cfg *config.Config) (Backend, error) {
	bcfg := cfg.Audio.Backend
	settings := bcfg.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	factoriesMu.RLock()
	factory, ok := factories[bcfg.Type]
	factoriesMu.RUnlock()
	if !ok {
		return nil, errors.Newf("unsupported audio backend type: %s (available: %v)", bcfg.Type, Registered())
	}

	zlog.Debug().Msgf("creating audio backend: type=%s settings=%+v", bcfg.Type, settings)
	backend, err := factory(settings)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create audio backend (type %s)", bcfg.Type)
	}

	zlog.Info().Msgf("audio backend ready: type=%s", backend.Name())
	return backend, nil
}
