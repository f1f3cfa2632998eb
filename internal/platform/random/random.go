package random

import "math/rand/v2"

// Source draws integers; usecases take it as a dependency so tests can pin
// the outcome.
type Source interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type Global struct{}

func (Global) IntN(n int) int {
	return rand.IntN(n)
}

// Between returns a uniform value in [lo, hi], both bounds included.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}
