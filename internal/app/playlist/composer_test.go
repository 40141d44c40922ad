package playlist

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/osa030/noisebox/internal/domain/sound"
)

func defaultCatalog() []sound.Entry {
	return []sound.Entry{
		{ID: "1", Title: "Waterfall", AudioRef: "waterfall.mp3"},
		{ID: "2", Title: "River", AudioRef: "river.mp3"},
		{ID: "3", Title: "Forest", AudioRef: "forest.mp3"},
		{ID: "4", Title: "Fan", AudioRef: "fan.mp3"},
	}
}

func makeCatalog(n int) []sound.Entry {
	catalog := make([]sound.Entry, n)
	for i := range catalog {
		id := strconv.Itoa(i + 1)
		catalog[i] = sound.Entry{ID: id, Title: "Sound " + id, AudioRef: id + ".mp3"}
	}
	return catalog
}

func TestCompose_DefaultCatalog(t *testing.T) {
	c := NewComposer(nil)
	seen := make(map[int]bool)

	for i := 0; i < 200; i++ {
		l := c.Compose(defaultCatalog())

		require.Equal(t, 6, l.Len())
		assert.Equal(t, sound.AdBottomID, l.At(5).ID())

		r := l.IndexOf(sound.AdRandomID)
		assert.Contains(t, []int{2, 3, 4}, r)
		seen[r] = true
	}

	assert.Len(t, seen, 3, "every valid position should eventually be drawn")
}

func TestCompose_SmallCatalogs(t *testing.T) {
	tests := []struct {
		name     string
		catalog  []sound.Entry
		expected []string
	}{
		{
			name:     "empty catalog",
			catalog:  nil,
			expected: []string{"ad-bottom"},
		},
		{
			name:     "single sound",
			catalog:  makeCatalog(1),
			expected: []string{"1", "ad-random", "ad-bottom"},
		},
		{
			name:     "two sounds",
			catalog:  makeCatalog(2),
			expected: []string{"1", "2", "ad-random", "ad-bottom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewComposer(nil).Compose(tt.catalog)
			assert.Equal(t, tt.expected, l.IDs())
		})
	}
}

func TestCompose_DoesNotMutateCatalog(t *testing.T) {
	catalog := defaultCatalog()
	before := make([]sound.Entry, len(catalog))
	copy(before, catalog)

	_ = NewComposer(rand.New(rand.NewPCG(1, 2))).Compose(catalog)

	assert.Equal(t, before, catalog)
}

func TestCompose_SeededIsReproducible(t *testing.T) {
	a := NewComposer(rand.New(rand.NewPCG(7, 7))).Compose(makeCatalog(10))
	b := NewComposer(rand.New(rand.NewPCG(7, 7))).Compose(makeCatalog(10))
	assert.Equal(t, a.IDs(), b.IDs())
}

func TestCompose_OnlyMarkersAreAds(t *testing.T) {
	l := NewComposer(nil).Compose(defaultCatalog())
	for i := range l.Len() {
		it := l.At(i)
		assert.Equal(t, sound.IsAdID(it.ID()), it.IsAd(), it.ID())
		if it.IsAd() {
			assert.Empty(t, it.Title(), "ad %s must have no title", it.ID())
		}
	}
}

func TestCompose_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 50).Draw(t, "n")
		seed := rapid.Uint64().Draw(t, "seed")

		catalog := makeCatalog(n)
		l := NewComposer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))).Compose(catalog)

		if l.Len() != n+2 {
			t.Fatalf("expected length %d, got %d", n+2, l.Len())
		}
		if l.At(l.Len()-1).ID() != sound.AdBottomID {
			t.Fatalf("last item must be %s, got %s", sound.AdBottomID, l.At(l.Len()-1).ID())
		}

		r := l.IndexOf(sound.AdRandomID)
		if r < min(2, n) || r > n {
			t.Fatalf("random ad index %d outside [%d, %d]", r, min(2, n), n)
		}

		ads := 0
		var soundIDs []string
		for i := range l.Len() {
			it := l.At(i)
			if it.IsAd() {
				ads++
				continue
			}
			soundIDs = append(soundIDs, it.ID())
		}
		if ads != 2 {
			t.Fatalf("expected 2 ads, got %d", ads)
		}
		for i, e := range catalog {
			if soundIDs[i] != e.ID {
				t.Fatalf("catalog order broken at %d: want %s got %s", i, e.ID, soundIDs[i])
			}
		}
	})
}
