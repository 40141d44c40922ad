//go:build !nobeep

package main

// Speaker output needs cgo. Build with -tags nobeep for headless hosts; only
// the null backend is available then.
import _ "github.com/osa030/noisebox/internal/audio/beepaudio"
