package domain

import "errors"

// Phase represents the decomposition stage of a round.
type Phase string

const (
	// PhaseAwaitingFirst means the first number is shown and zone 1 accepts tiles.
	PhaseAwaitingFirst Phase = "awaiting_first"
	// PhaseAwaitingSecond means the second number is shown and zone 2 accepts tiles.
	PhaseAwaitingSecond Phase = "awaiting_second"
	// PhaseComplete means both numbers were built correctly.
	PhaseComplete Phase = "complete"
)

// ZoneID identifies one of the two drop zones.
type ZoneID int

const (
	Zone1 ZoneID = 1
	Zone2 ZoneID = 2
)

// Valid reports whether z names an existing zone.
func (z ZoneID) Valid() bool {
	return z == Zone1 || z == Zone2
}

var (
	ErrInvalidZone   = errors.New("invalid zone")
	ErrWrongZone     = errors.New("zone is not active")
	ErrLimitReached  = errors.New("tile limit reached for this zone")
	ErrRoundComplete = errors.New("round already complete")
	ErrZoneNotEmpty  = errors.New("active number needs tiles")
)

// Round tracks the decomposition of two operands into their zones.
type Round struct {
	Number1 int
	Number2 int
	Phase   Phase

	placed [2]TileCount
}

// NewRound starts a round on the first operand. Negative operands become 0.
func NewRound(number1, number2 int) *Round {
	if number1 < 0 {
		number1 = 0
	}
	if number2 < 0 {
		number2 = 0
	}
	return &Round{
		Number1: number1,
		Number2: number2,
		Phase:   PhaseAwaitingFirst,
	}
}

// ActiveZone returns the zone currently accepting tiles. ok is false once the round is complete.
func (r *Round) ActiveZone() (zone ZoneID, ok bool) {
	switch r.Phase {
	case PhaseAwaitingFirst:
		return Zone1, true
	case PhaseAwaitingSecond:
		return Zone2, true
	}
	return 0, false
}

// Operand returns the number a zone must represent.
func (r *Round) Operand(zone ZoneID) int {
	if zone == Zone2 {
		return r.Number2
	}
	return r.Number1
}

// Required returns the decomposition a zone must match.
func (r *Round) Required(zone ZoneID) TileCount {
	if !zone.Valid() {
		return TileCount{}
	}
	return Decompose(r.Operand(zone))
}

// Placed returns the tiles dropped into a zone so far.
func (r *Round) Placed(zone ZoneID) TileCount {
	if !zone.Valid() {
		return TileCount{}
	}
	return r.placed[zone-1]
}

// Drop places one tile of type t into zone. advanced reports a phase change.
// Every rejection leaves the round untouched.
func (r *Round) Drop(zone ZoneID, t TileType) (advanced bool, err error) {
	if !zone.Valid() {
		return false, ErrInvalidZone
	}
	if !t.Valid() {
		return false, ErrUnknownTileType
	}
	active, ok := r.ActiveZone()
	if !ok {
		return false, ErrRoundComplete
	}
	if zone != active {
		return false, ErrWrongZone
	}

	required := r.Required(zone)
	if !CanPlace(required, r.placed[zone-1], t) {
		return false, ErrLimitReached
	}
	r.placed[zone-1].Add(t, 1)

	if IsZoneComplete(required, r.placed[zone-1]) {
		r.advance()
		return true, nil
	}
	return false, nil
}

// ConfirmEmpty closes the active zone when its number needs no tiles at all.
// An empty zone is never complete by itself, so a zero operand requires this
// explicit acknowledgement from the player.
func (r *Round) ConfirmEmpty() error {
	active, ok := r.ActiveZone()
	if !ok {
		return ErrRoundComplete
	}
	if !r.Required(active).IsZero() || !r.placed[active-1].IsZero() {
		return ErrZoneNotEmpty
	}
	r.advance()
	return nil
}

// Pooled returns the tiles of both zones combined.
func (r *Round) Pooled() TileCount {
	return r.placed[0].Plus(r.placed[1])
}

func (r *Round) advance() {
	switch r.Phase {
	case PhaseAwaitingFirst:
		r.Phase = PhaseAwaitingSecond
	case PhaseAwaitingSecond:
		r.Phase = PhaseComplete
	}
}
