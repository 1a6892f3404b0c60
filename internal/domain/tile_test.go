package domain

import "testing"

func TestParseTileType(t *testing.T) {
	tests := []struct {
		in      string
		want    TileType
		wantErr bool
	}{
		{in: "units", want: TileUnits},
		{in: " Tens ", want: TileTens},
		{in: "centenas", want: TileHundreds},
		{in: "miles", want: TileThousands},
		{in: "ones", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTileType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTileTypeNext(t *testing.T) {
	for i, tt := range TileTypes[:len(TileTypes)-1] {
		next, ok := tt.Next()
		if !ok || next != TileTypes[i+1] {
			t.Errorf("%s.Next() = %s, %t", tt, next, ok)
		}
		if next.Magnitude() != 10*tt.Magnitude() {
			t.Errorf("%s magnitude %d is not ten times %s", next, next.Magnitude(), tt)
		}
	}
	if _, ok := TileThousands.Next(); ok {
		t.Fatal("thousands must not have a next category")
	}
}

func TestTileCountAddNeverNegative(t *testing.T) {
	var c TileCount
	if c.Add(TileTens, -1) {
		t.Fatal("expected Add below zero to be refused")
	}
	if !c.Add(TileTens, 3) || c.Tens != 3 {
		t.Fatalf("expected 3 tens, got %+v", c)
	}
	if c.Add(TileTens, -4) {
		t.Fatal("expected Add below zero to be refused")
	}
	if c.Tens != 3 {
		t.Fatalf("refused Add changed the count: %+v", c)
	}
	if c.Add(TileType("dozens"), 1) {
		t.Fatal("expected Add on an invalid type to be refused")
	}
}

func TestTileCountValue(t *testing.T) {
	c := TileCount{Units: 12, Tens: 4, Hundreds: 1, Thousands: 2}
	if got := c.Value(); got != 2152 {
		t.Fatalf("Value() = %d, want 2152", got)
	}
	if got := c.Total(); got != 19 {
		t.Fatalf("Total() = %d, want 19", got)
	}
}
