package app

import "strings"

// Mode selects how the two operands of a round are chosen.
type Mode string

const (
	// ModeRandom draws both operands from the configured range.
	ModeRandom Mode = "random"
	// ModePredefined uses the operands supplied by the setup form.
	ModePredefined Mode = "predefined"
)

// StartConfig is produced by the setup form.
// Missing predefined operands default to 0.
type StartConfig struct {
	Mode    Mode
	Number1 *int
	Number2 *int
}

// Predefined builds a predefined configuration for two operands.
func Predefined(number1, number2 int) StartConfig {
	return StartConfig{Mode: ModePredefined, Number1: &number1, Number2: &number2}
}

// Random builds a random configuration.
func Random() StartConfig {
	return StartConfig{Mode: ModeRandom}
}

// ParseMode normalises unknown or empty modes to random.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModePredefined {
		return ModePredefined
	}
	return ModeRandom
}

// ParseOperand reads the leading digits of s, the way the web form did.
// Anything non-numeric normalises to 0.
func ParseOperand(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > maxOperand {
			return maxOperand
		}
	}
	return n
}

// maxOperand keeps parsed operands far from integer overflow.
const maxOperand = 1_000_000_000

func operandOrZero(p *int) int {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}
