package domain

import "testing"

func TestDecompose(t *testing.T) {
	tests := []struct {
		n    int
		want TileCount
	}{
		{n: 0, want: TileCount{}},
		{n: 47, want: TileCount{Units: 7, Tens: 4}},
		{n: 305, want: TileCount{Units: 5, Hundreds: 3}},
		{n: 9999, want: TileCount{Units: 9, Tens: 9, Hundreds: 9, Thousands: 9}},
		{n: 12345, want: TileCount{Units: 5, Tens: 4, Hundreds: 3, Thousands: 12}},
		{n: -8, want: TileCount{}},
	}

	for _, tt := range tests {
		if got := Decompose(tt.n); got != tt.want {
			t.Errorf("Decompose(%d) = %+v, want %+v", tt.n, got, tt.want)
		}
	}
}

func TestDecomposeRebuildsNumber(t *testing.T) {
	for n := 0; n <= 20000; n += 7 {
		c := Decompose(n)
		if c.Value() != n {
			t.Fatalf("Decompose(%d) rebuilds %d", n, c.Value())
		}
		if c.Units > 9 || c.Tens > 9 || c.Hundreds > 9 {
			t.Fatalf("Decompose(%d) = %+v has a category above nine", n, c)
		}
	}
}
