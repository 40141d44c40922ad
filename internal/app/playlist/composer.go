// Package playlist composes the per-session display list from the catalog.
package playlist

import (
	"math/rand/v2"
	"sync"

	"github.com/osa030/noisebox/internal/domain/sound"
)

// minAdIndex is the lowest index the random ad may be inserted at, so the
// first two sounds are never preceded by an ad.
const minAdIndex = 2

// Composer builds display lists. It is safe for concurrent use.
type Composer struct {
	mu  sync.Mutex
	rng *rand.Rand // nil uses the process-wide source
}

// NewComposer creates a composer drawing from rng.
// A nil rng uses the process-wide random source, so every call differs.
func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose returns a new display list: the catalog in its original order with
// the random ad inserted at an index in [min(2, len), len] and the bottom ad
// appended. The catalog is never mutated.
func (c *Composer) Compose(catalog []sound.Entry) sound.DisplayList {
	n := len(catalog)
	if n == 0 {
		return sound.NewDisplayList([]sound.Item{sound.AdItem(sound.AdBottomID)})
	}

	r := c.adIndex(n)

	items := make([]sound.Item, 0, n+2)
	for i, e := range catalog {
		if i == r {
			items = append(items, sound.AdItem(sound.AdRandomID))
		}
		items = append(items, sound.SoundItem(e))
	}
	if r == n {
		items = append(items, sound.AdItem(sound.AdRandomID))
	}
	items = append(items, sound.AdItem(sound.AdBottomID))

	return sound.NewDisplayList(items)
}

// adIndex draws the insertion index uniformly from [min(2, n), n].
func (c *Composer) adIndex(n int) int {
	lo := min(minAdIndex, n)
	span := n - lo + 1
	return lo + c.intN(span)
}

func (c *Composer) intN(n int) int {
	if c.rng == nil {
		return rand.IntN(n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}
