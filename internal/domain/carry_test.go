package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNeedsConversion(t *testing.T) {
	tests := []struct {
		name string
		pool TileCount
		want bool
	}{
		{name: "settled", pool: TileCount{Units: 9, Tens: 9, Hundreds: 9}, want: false},
		{name: "ten units", pool: TileCount{Units: 10}, want: true},
		{name: "ten hundreds", pool: TileCount{Hundreds: 10}, want: true},
		{name: "thousands never carry", pool: TileCount{Thousands: 18}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsConversion(tt.pool); got != tt.want {
				t.Errorf("NeedsConversion(%+v) = %t, want %t", tt.pool, got, tt.want)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name string
		pool TileCount
		want TileCount
	}{
		{name: "23 plus 19", pool: TileCount{Units: 12, Tens: 3}, want: TileCount{Units: 2, Tens: 4}},
		{name: "cascade", pool: TileCount{Units: 18, Tens: 9, Hundreds: 9}, want: TileCount{Units: 8, Thousands: 1}},
		{name: "max operands", pool: TileCount{Units: 18, Tens: 18, Hundreds: 18, Thousands: 18}, want: TileCount{Units: 8, Tens: 9, Hundreds: 9, Thousands: 19}},
		{name: "already settled", pool: TileCount{Units: 3, Thousands: 11}, want: TileCount{Units: 3, Thousands: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(tt.pool)
			if got != tt.want {
				t.Fatalf("Settle(%+v) = %+v, want %+v", tt.pool, got, tt.want)
			}
			if got.Value() != tt.pool.Value() {
				t.Fatalf("value changed: %d -> %d", tt.pool.Value(), got.Value())
			}
			if again := Settle(got); again != got {
				t.Fatalf("Settle is not idempotent: %+v -> %+v", got, again)
			}
		})
	}
}

func TestSettlePreservesValue(t *testing.T) {
	for a := 0; a < 10000; a += 337 {
		for b := 0; b < 10000; b += 419 {
			pool := Decompose(a).Plus(Decompose(b))
			got := Settle(pool)
			if got.Value() != a+b {
				t.Fatalf("%d+%d settled to %d", a, b, got.Value())
			}
			if NeedsConversion(got) {
				t.Fatalf("%d+%d not settled: %+v", a, b, got)
			}
		}
	}
}

func TestSettleSteps(t *testing.T) {
	steps := SettleSteps(TileCount{Units: 15, Tens: 9})
	want := []Conversion{
		{From: TileUnits, To: TileTens, Sets: 1, Remainder: 5},
		{From: TileTens, To: TileHundreds, Sets: 1, Remainder: 0},
	}
	if !reflect.DeepEqual(steps, want) {
		t.Fatalf("SettleSteps() = %+v, want %+v", steps, want)
	}
	if steps := SettleSteps(TileCount{Units: 1}); len(steps) != 0 {
		t.Fatalf("expected no steps, got %+v", steps)
	}
}

func TestConversionTablePoolConverts(t *testing.T) {
	table := NewConversionTable(TileCount{Units: 12, Tens: 3})
	start := table.Tally().Value()

	for i := 0; i < 9; i++ {
		conv, err := table.Pool(TileUnits)
		if err != nil || conv != nil {
			t.Fatalf("pool %d: conv=%v err=%v", i, conv, err)
		}
	}
	if table.Settled() {
		t.Fatal("table settled before ten units were pooled")
	}

	conv, err := table.Pool(TileUnits)
	if err != nil {
		t.Fatalf("Pool error: %v", err)
	}
	want := &Conversion{From: TileUnits, To: TileTens, Sets: 1, Remainder: 0}
	if !reflect.DeepEqual(conv, want) {
		t.Fatalf("conversion = %+v, want %+v", conv, want)
	}
	if table.Available != (TileCount{Units: 2, Tens: 4}) || !table.Pooled.IsZero() {
		t.Fatalf("table = %+v", table)
	}
	if !table.Settled() {
		t.Fatal("expected table to be settled")
	}
	if table.Tally().Value() != start {
		t.Fatalf("value changed: %d -> %d", start, table.Tally().Value())
	}
}

func TestConversionTableNoTilesLeft(t *testing.T) {
	table := NewConversionTable(TileCount{Units: 1})
	if _, err := table.Pool(TileUnits); err != nil {
		t.Fatalf("Pool error: %v", err)
	}
	if _, err := table.Pool(TileUnits); !errors.Is(err, ErrNoTilesLeft) {
		t.Fatalf("expected ErrNoTilesLeft, got %v", err)
	}
	if _, err := table.Pool(TileTens); !errors.Is(err, ErrNoTilesLeft) {
		t.Fatalf("expected ErrNoTilesLeft, got %v", err)
	}
}

func TestConversionTableWithdraw(t *testing.T) {
	table := NewConversionTable(TileCount{Tens: 3})
	if err := table.Withdraw(TileTens); !errors.Is(err, ErrNothingPooled) {
		t.Fatalf("expected ErrNothingPooled, got %v", err)
	}
	if _, err := table.Pool(TileTens); err != nil {
		t.Fatalf("Pool error: %v", err)
	}
	if err := table.Withdraw(TileTens); err != nil {
		t.Fatalf("Withdraw error: %v", err)
	}
	if table.Available.Tens != 3 || table.Pooled.Tens != 0 {
		t.Fatalf("table = %+v", table)
	}
}

func TestConversionTableThousandsStayPooled(t *testing.T) {
	table := NewConversionTable(TileCount{Thousands: 12})
	for i := 0; i < 12; i++ {
		conv, err := table.Pool(TileThousands)
		if err != nil || conv != nil {
			t.Fatalf("pool %d: conv=%v err=%v", i, conv, err)
		}
	}
	if table.Pooled.Thousands != 12 || !table.Settled() {
		t.Fatalf("table = %+v", table)
	}
}
