package sound

// DisplayList is the ordered, immutable sequence of items shown for a session.
type DisplayList struct {
	items []Item
}

// NewDisplayList creates a DisplayList from a copy of items.
func NewDisplayList(items []Item) DisplayList {
	cp := make([]Item, len(items))
	copy(cp, items)
	return DisplayList{items: cp}
}

// Len returns the number of items.
func (l DisplayList) Len() int {
	return len(l.items)
}

// At returns the item at index i.
func (l DisplayList) At(i int) Item {
	return l.items[i]
}

// IDs returns all item IDs in display order.
func (l DisplayList) IDs() []string {
	ids := make([]string, len(l.items))
	for i, it := range l.items {
		ids[i] = it.ID()
	}
	return ids
}

// IndexOf returns the index of the item with the given ID, or -1.
func (l DisplayList) IndexOf(id string) int {
	for i, it := range l.items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

// Find returns the item with the given ID.
func (l DisplayList) Find(id string) (Item, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l.items[i], true
	}
	return Item{}, false
}
