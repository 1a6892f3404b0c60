package domain

// Decompose splits n into the tiles needed to build it.
// Thousands absorb everything above 999, so n >= 10000 yields ten or more
// thousands tiles. Negative input is treated as 0.
func Decompose(n int) TileCount {
	if n < 0 {
		n = 0
	}
	return TileCount{
		Units:     n % 10,
		Tens:      (n / 10) % 10,
		Hundreds:  (n / 100) % 10,
		Thousands: n / 1000,
	}
}
