// Package sound provides the Sound and display-list domain entities.
package sound

// Ad marker IDs.
const (
	AdRandomID = "ad-random" // Ad placed at a random position inside the grid
	AdBottomID = "ad-bottom" // Ad always placed last
)

// Entry represents a playable sound from the catalog.
type Entry struct {
	ID       string // Stable unique ID
	Title    string // Display title
	AudioRef string // Audio reference resolved by the audio backend
}

// AdMarker represents an inert ad placeholder. It never carries audio.
type AdMarker struct {
	ID string
}

type kind int

const (
	kindSound kind = iota
	kindAd
)

// Item is a single entry of a DisplayList: either a sound or an ad marker.
type Item struct {
	kind  kind
	sound Entry
	ad    AdMarker
}

// SoundItem wraps a catalog entry as a display item.
func SoundItem(e Entry) Item {
	return Item{kind: kindSound, sound: e}
}

// AdItem returns an ad display item with the given ID.
func AdItem(id string) Item {
	return Item{kind: kindAd, ad: AdMarker{ID: id}}
}

// IsAd returns true if the item is an ad marker.
func (i Item) IsAd() bool {
	return i.kind == kindAd
}

// ID returns the item ID regardless of kind.
func (i Item) ID() string {
	if i.kind == kindAd {
		return i.ad.ID
	}
	return i.sound.ID
}

// Title returns the sound title, or an empty string for ads.
func (i Item) Title() string {
	if i.kind == kindAd {
		return ""
	}
	return i.sound.Title
}

// IsAdID returns true if id is one of the reserved ad marker IDs.
func IsAdID(id string) bool {
	return id == AdRandomID || id == AdBottomID
}
