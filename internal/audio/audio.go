// Package audio provides the audio subsystem used by the playback controller.
// Backends open audio references as resources that can be started and stopped.
package audio

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrNotConfigured     = errors.New("audio session not configured")
	ErrAlreadyConfigured = errors.New("audio session already configured")
	ErrReleased          = errors.New("resource already released")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// OpenOptions controls how a resource is opened.
type OpenOptions struct {
	Loop bool // Loop indefinitely
}

// Backend is the audio subsystem.
type Backend interface {
	// Configure applies the process-wide session options. It must be called
	// exactly once, before any Open.
	Configure(ctx context.Context, opts SessionOptions) error
	// Open resolves ref and prepares a resource for playback.
	Open(ctx context.Context, ref string, opts OpenOptions) (Resource, error)
	// Name returns the backend name (used in config).
	Name() string
}

// Resource is an opened audio reference.
type Resource interface {
	// Start begins playback.
	Start(ctx context.Context) error
	// Stop stops playback and releases the resource.
	Stop(ctx context.Context) error
}

// ResolveRef maps an audio reference to a file path under dir.
func ResolveRef(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}
