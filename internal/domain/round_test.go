package domain

import (
	"errors"
	"testing"
)

// fillZone drops every tile zone needs and returns how many drops advanced the round.
func fillZone(t *testing.T, r *Round, zone ZoneID) int {
	t.Helper()
	advances := 0
	required := r.Required(zone)
	for _, tt := range TileTypes {
		for i := 0; i < required.Get(tt); i++ {
			advanced, err := r.Drop(zone, tt)
			if err != nil {
				t.Fatalf("Drop(%d, %s) error: %v", zone, tt, err)
			}
			if advanced {
				advances++
			}
		}
	}
	return advances
}

func TestRoundTransitionsTwice(t *testing.T) {
	pairs := [][2]int{{23, 19}, {1, 1}, {9999, 9999}, {1000, 7}, {305, 40}}

	for _, p := range pairs {
		r := NewRound(p[0], p[1])
		if r.Phase != PhaseAwaitingFirst {
			t.Fatalf("initial phase = %s", r.Phase)
		}
		if got := fillZone(t, r, Zone1); got != 1 {
			t.Fatalf("%v: zone 1 advanced %d times", p, got)
		}
		if r.Phase != PhaseAwaitingSecond {
			t.Fatalf("%v: phase after zone 1 = %s", p, r.Phase)
		}
		if got := fillZone(t, r, Zone2); got != 1 {
			t.Fatalf("%v: zone 2 advanced %d times", p, got)
		}
		if r.Phase != PhaseComplete {
			t.Fatalf("%v: phase after zone 2 = %s", p, r.Phase)
		}
		if got := r.Pooled().Value(); got != p[0]+p[1] {
			t.Fatalf("%v: pooled value %d", p, got)
		}
	}
}

func TestRoundRejectsWrongZone(t *testing.T) {
	r := NewRound(23, 19)

	advanced, err := r.Drop(Zone2, TileUnits)
	if !errors.Is(err, ErrWrongZone) {
		t.Fatalf("expected ErrWrongZone, got %v", err)
	}
	if advanced || !r.Placed(Zone2).IsZero() || r.Phase != PhaseAwaitingFirst {
		t.Fatalf("rejected drop changed the round: %+v", r)
	}

	fillZone(t, r, Zone1)
	if _, err := r.Drop(Zone1, TileUnits); !errors.Is(err, ErrWrongZone) {
		t.Fatalf("expected zone 1 to be closed, got %v", err)
	}
}

func TestRoundRejectsOverLimit(t *testing.T) {
	r := NewRound(47, 1)
	for i := 0; i < 4; i++ {
		if _, err := r.Drop(Zone1, TileTens); err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
	}
	before := r.Placed(Zone1)

	if _, err := r.Drop(Zone1, TileTens); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if _, err := r.Drop(Zone1, TileHundreds); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached for unneeded type, got %v", err)
	}
	if r.Placed(Zone1) != before {
		t.Fatalf("placed changed: %+v -> %+v", before, r.Placed(Zone1))
	}
}

func TestRoundRejectsAfterComplete(t *testing.T) {
	r := NewRound(2, 3)
	fillZone(t, r, Zone1)
	fillZone(t, r, Zone2)

	if _, err := r.Drop(Zone2, TileUnits); !errors.Is(err, ErrRoundComplete) {
		t.Fatalf("expected ErrRoundComplete, got %v", err)
	}
	if _, ok := r.ActiveZone(); ok {
		t.Fatal("complete round must not have an active zone")
	}
}

func TestRoundInvalidInput(t *testing.T) {
	r := NewRound(5, 5)
	if _, err := r.Drop(ZoneID(3), TileUnits); !errors.Is(err, ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone, got %v", err)
	}
	if _, err := r.Drop(Zone1, TileType("ones")); !errors.Is(err, ErrUnknownTileType) {
		t.Fatalf("expected ErrUnknownTileType, got %v", err)
	}
}

func TestRoundZeroOperandNeedsConfirmation(t *testing.T) {
	r := NewRound(12, 0)
	fillZone(t, r, Zone1)

	if r.Phase != PhaseAwaitingSecond {
		t.Fatalf("phase = %s, want awaiting_second", r.Phase)
	}
	if _, err := r.Drop(Zone2, TileUnits); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached on zero operand, got %v", err)
	}
	if r.Phase == PhaseComplete {
		t.Fatal("zero operand must not complete on its own")
	}

	if err := r.ConfirmEmpty(); err != nil {
		t.Fatalf("ConfirmEmpty error: %v", err)
	}
	if r.Phase != PhaseComplete {
		t.Fatalf("phase = %s, want complete", r.Phase)
	}
}

func TestRoundConfirmEmptyRefusesNonZero(t *testing.T) {
	r := NewRound(3, 0)
	if err := r.ConfirmEmpty(); !errors.Is(err, ErrZoneNotEmpty) {
		t.Fatalf("expected ErrZoneNotEmpty, got %v", err)
	}
	if r.Phase != PhaseAwaitingFirst {
		t.Fatalf("phase changed to %s", r.Phase)
	}
}
