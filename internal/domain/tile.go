package domain

import (
	"errors"
	"strings"
)

// TileType is one place-value category a tile can represent.
type TileType string

const (
	// TileUnits is worth 1.
	TileUnits TileType = "units"
	// TileTens is worth 10.
	TileTens TileType = "tens"
	// TileHundreds is worth 100.
	TileHundreds TileType = "hundreds"
	// TileThousands is worth 1000. It is the top category and never carries.
	TileThousands TileType = "thousands"
)

// TileTypes lists every tile type in increasing magnitude.
var TileTypes = []TileType{TileUnits, TileTens, TileHundreds, TileThousands}

var ErrUnknownTileType = errors.New("unknown tile type")

// ParseTileType accepts the canonical names and the Spanish labels used by the web client.
func ParseTileType(s string) (TileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "units", "unit", "unidades":
		return TileUnits, nil
	case "tens", "ten", "decenas":
		return TileTens, nil
	case "hundreds", "hundred", "centenas":
		return TileHundreds, nil
	case "thousands", "thousand", "miles":
		return TileThousands, nil
	default:
		return "", ErrUnknownTileType
	}
}

// Valid reports whether t is one of the four categories.
func (t TileType) Valid() bool {
	switch t {
	case TileUnits, TileTens, TileHundreds, TileThousands:
		return true
	}
	return false
}

// Magnitude returns the value of a single tile of this type, or 0 for an invalid type.
func (t TileType) Magnitude() int {
	switch t {
	case TileUnits:
		return 1
	case TileTens:
		return 10
	case TileHundreds:
		return 100
	case TileThousands:
		return 1000
	}
	return 0
}

// Next returns the category ten tiles of t convert into.
// ok is false for thousands, which has no higher category.
func (t TileType) Next() (next TileType, ok bool) {
	switch t {
	case TileUnits:
		return TileTens, true
	case TileTens:
		return TileHundreds, true
	case TileHundreds:
		return TileThousands, true
	}
	return "", false
}

// TileCount maps each tile type to a non-negative count.
type TileCount struct {
	Units     int `json:"units"`
	Tens      int `json:"tens"`
	Hundreds  int `json:"hundreds"`
	Thousands int `json:"thousands"`
}

// Get returns the count for t. Invalid types count as zero.
func (c TileCount) Get(t TileType) int {
	switch t {
	case TileUnits:
		return c.Units
	case TileTens:
		return c.Tens
	case TileHundreds:
		return c.Hundreds
	case TileThousands:
		return c.Thousands
	}
	return 0
}

// Add changes the count for t by delta. It refuses (returns false) when the
// type is invalid or the result would be negative, leaving c unchanged.
func (c *TileCount) Add(t TileType, delta int) bool {
	var p *int
	switch t {
	case TileUnits:
		p = &c.Units
	case TileTens:
		p = &c.Tens
	case TileHundreds:
		p = &c.Hundreds
	case TileThousands:
		p = &c.Thousands
	default:
		return false
	}
	if *p+delta < 0 {
		return false
	}
	*p += delta
	return true
}

// Plus returns the per-type sum of c and o.
func (c TileCount) Plus(o TileCount) TileCount {
	return TileCount{
		Units:     c.Units + o.Units,
		Tens:      c.Tens + o.Tens,
		Hundreds:  c.Hundreds + o.Hundreds,
		Thousands: c.Thousands + o.Thousands,
	}
}

// Total returns the number of tiles regardless of type.
func (c TileCount) Total() int {
	return c.Units + c.Tens + c.Hundreds + c.Thousands
}

// Value returns the number the tiles represent.
func (c TileCount) Value() int {
	return c.Units + 10*c.Tens + 100*c.Hundreds + 1000*c.Thousands
}

// IsZero reports whether no tiles are counted.
func (c TileCount) IsZero() bool {
	return c.Total() == 0
}
