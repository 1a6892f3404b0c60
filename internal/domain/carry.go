package domain

import "errors"

var (
	ErrNoTilesLeft   = errors.New("no tiles of this type left")
	ErrNothingPooled = errors.New("no tiles of this type in the conversion area")
)

// carrySources are the categories that convert into a higher one, lowest first.
var carrySources = []TileType{TileUnits, TileTens, TileHundreds}

// Conversion describes ten-for-one exchanges applied to a single category.
type Conversion struct {
	From      TileType `json:"from"`
	To        TileType `json:"to"`
	Sets      int      `json:"sets"`
	Remainder int      `json:"remainder"`
}

// NeedsConversion reports whether any category below thousands holds ten or more tiles.
func NeedsConversion(pool TileCount) bool {
	for _, t := range carrySources {
		if pool.Get(t) > 9 {
			return true
		}
	}
	return false
}

// SettleStep applies the lowest pending conversion to pool.
// ok is false when pool is already settled.
func SettleStep(pool TileCount) (next TileCount, conv Conversion, ok bool) {
	for _, t := range carrySources {
		count := pool.Get(t)
		if count < 10 {
			continue
		}
		to, _ := t.Next()
		conv = Conversion{From: t, To: to, Sets: count / 10, Remainder: count % 10}
		pool.Add(t, -conv.Sets*10)
		pool.Add(to, conv.Sets)
		return pool, conv, true
	}
	return pool, Conversion{}, false
}

// SettleSteps returns every conversion Settle would apply, in order.
func SettleSteps(pool TileCount) []Conversion {
	var steps []Conversion
	for {
		next, conv, ok := SettleStep(pool)
		if !ok {
			return steps
		}
		steps = append(steps, conv)
		pool = next
	}
}

// Settle carries until no category below thousands holds ten or more tiles.
// The result represents the same value as pool.
func Settle(pool TileCount) TileCount {
	for {
		next, _, ok := SettleStep(pool)
		if !ok {
			return pool
		}
		pool = next
	}
}

// ConversionTable is the interactive carry stage: tiles start Available and the
// player moves them one at a time into the Pooled area, where ten of a kind are
// exchanged for one tile of the next category.
type ConversionTable struct {
	Available TileCount `json:"available"`
	Pooled    TileCount `json:"pooled"`
}

// NewConversionTable starts a conversion with every tile outside the pool.
func NewConversionTable(pool TileCount) *ConversionTable {
	return &ConversionTable{Available: pool}
}

// Pool moves one tile of type t into the conversion area and applies at most one
// conversion. The converted tiles become available again as a higher category.
func (c *ConversionTable) Pool(t TileType) (*Conversion, error) {
	if !t.Valid() {
		return nil, ErrUnknownTileType
	}
	if !c.Available.Add(t, -1) {
		return nil, ErrNoTilesLeft
	}
	c.Pooled.Add(t, 1)

	for _, src := range carrySources {
		count := c.Pooled.Get(src)
		if count < 10 {
			continue
		}
		to, _ := src.Next()
		conv := &Conversion{From: src, To: to, Sets: count / 10, Remainder: count % 10}
		c.Pooled.Add(src, -conv.Sets*10)
		c.Available.Add(to, conv.Sets)
		return conv, nil
	}
	return nil, nil
}

// Withdraw moves one tile of type t back out of the conversion area.
func (c *ConversionTable) Withdraw(t TileType) error {
	if !t.Valid() {
		return ErrUnknownTileType
	}
	if !c.Pooled.Add(t, -1) {
		return ErrNothingPooled
	}
	c.Available.Add(t, 1)
	return nil
}

// Tally returns every tile on the table, pooled or not.
func (c *ConversionTable) Tally() TileCount {
	return c.Available.Plus(c.Pooled)
}

// Settled reports whether no more conversions are needed.
func (c *ConversionTable) Settled() bool {
	return !NeedsConversion(c.Tally())
}
