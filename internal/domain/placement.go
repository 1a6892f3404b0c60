package domain

// CanPlace reports whether one more tile of type t fits in a zone that needs
// required and already holds placed.
func CanPlace(required, placed TileCount, t TileType) bool {
	if !t.Valid() {
		return false
	}
	return placed.Get(t) < required.Get(t)
}

// IsZoneComplete reports whether placed matches required for every type.
// An empty zone is never complete, even when nothing is required.
func IsZoneComplete(required, placed TileCount) bool {
	if placed.IsZero() {
		return false
	}
	for _, t := range TileTypes {
		if placed.Get(t) != required.Get(t) {
			return false
		}
	}
	return true
}
