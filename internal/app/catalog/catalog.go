// Package catalog provides the static, ordered sound catalog.
package catalog

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/noisebox/internal/domain/sound"
	"github.com/osa030/noisebox/internal/infra/config"
)

// Catalog is the fixed ordered set of available sounds.
type Catalog struct {
	entries []sound.Entry
	byID    map[string]int
}

// New creates a catalog from entries. IDs must be unique, non-empty and must
// not collide with ad marker IDs.
func New(entries []sound.Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]sound.Entry, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)

	for i, e := range c.entries {
		if e.ID == "" {
			return nil, errors.Newf("sound at index %d has no id", i)
		}
		if sound.IsAdID(e.ID) {
			return nil, errors.Newf("sound id %q is reserved", e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, errors.Newf("duplicate sound id %q", e.ID)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// FromConfig creates the catalog from configuration.
func FromConfig(cfg *config.Config) (*Catalog, error) {
	entries := make([]sound.Entry, len(cfg.Catalog.Sounds))
	for i, s := range cfg.Catalog.Sounds {
		entries[i] = sound.Entry{ID: s.ID, Title: s.Title, AudioRef: s.File}
	}
	return New(entries)
}

// Entries returns a copy of the catalog in order.
func (c *Catalog) Entries() []sound.Entry {
	result := make([]sound.Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (sound.Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return sound.Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of sounds.
func (c *Catalog) Len() int {
	return len(c.entries)
}
