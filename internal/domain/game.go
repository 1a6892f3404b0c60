package domain

// Screen is the stage of a game session shown to the player.
type Screen string

const (
	// ScreenSetup waits for a start configuration.
	ScreenSetup Screen = "setup"
	// ScreenDecompose shows the two numbers and their drop zones.
	ScreenDecompose Screen = "decompose"
	// ScreenConvert shows the carry-conversion table.
	ScreenConvert Screen = "convert"
	// ScreenResult shows the final tiles and, on request, the sum.
	ScreenResult Screen = "result"
)

// FinalResult is handed to the result display once the tiles are settled.
// Sum is always Number1 + Number2, whatever the tiles say.
type FinalResult struct {
	Number1 int       `json:"number1"`
	Number2 int       `json:"number2"`
	Tiles   TileCount `json:"tiles"`
	Sum     int       `json:"sum"`
}

// NewFinalResult builds the result for two operands and their settled tiles.
func NewFinalResult(number1, number2 int, tiles TileCount) FinalResult {
	return FinalResult{
		Number1: number1,
		Number2: number2,
		Tiles:   tiles,
		Sum:     number1 + number2,
	}
}

// Game holds all state for one play-through. Nothing in it outlives the session.
type Game struct {
	Screen     Screen
	Round      *Round
	Conversion *ConversionTable
	Result     *FinalResult
	Revealed   bool
}
