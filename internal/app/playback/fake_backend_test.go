package playback

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/osa030/noisebox/internal/audio"
)

// fakeBackend records every audio operation in order.
type fakeBackend struct {
	mu      sync.Mutex
	ops     []string
	live    int
	maxLive int

	openErr  map[string]error
	startErr map[string]error
	stopErr  map[string]error

	// openGate blocks Open for a ref until the channel is closed.
	openGate map[string]chan struct{}
	opening  chan string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		openErr:  make(map[string]error),
		startErr: make(map[string]error),
		stopErr:  make(map[string]error),
		openGate: make(map[string]chan struct{}),
		opening:  make(chan string, 16),
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Configure(ctx context.Context, opts audio.SessionOptions) error {
	f.record("configure")
	return nil
}

func (f *fakeBackend) Open(ctx context.Context, ref string, opts audio.OpenOptions) (audio.Resource, error) {
	select {
	case f.opening <- ref:
	default:
	}

	f.mu.Lock()
	gate := f.openGate[ref]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, fmt.Sprintf("open:%s:loop=%t", ref, opts.Loop))
	if err := f.openErr[ref]; err != nil {
		return nil, err
	}
	f.live++
	f.maxLive = max(f.maxLive, f.live)
	return &fakeResource{ref: ref, backend: f}, nil
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
}

func (f *fakeBackend) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, len(f.ops))
	copy(result, f.ops)
	return result
}

func (f *fakeBackend) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

func (f *fakeBackend) MaxLive() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxLive
}

func (f *fakeBackend) count(op string) int {
	n := 0
	for _, o := range f.Ops() {
		if o == op {
			n++
		}
	}
	return n
}

type fakeResource struct {
	ref      string
	backend  *fakeBackend
	released bool
}

func (r *fakeResource) Start(ctx context.Context) error {
	f := r.backend
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "start:"+r.ref)
	return f.startErr[r.ref]
}

func (r *fakeResource) Stop(ctx context.Context) error {
	f := r.backend
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "stop:"+r.ref)
	if r.released {
		return audio.ErrReleased
	}
	r.released = true
	f.live--
	if err := f.stopErr[r.ref]; err != nil {
		return errors.Wrap(err, "fake stop")
	}
	return nil
}
