package prober

import (
	"math/big"
	"strconv"
	"strings"
)

// ChanceOfHit is the percentage chance that budget fresh probes hit at least one
// valid URL, assuming one valid URL somewhere in the unexplored space.
// Capped at 100 once the budget covers what is left.
func ChanceOfHit(space *big.Int, previous, budget int) float64 {
	remaining := new(big.Int).Sub(space, big.NewInt(int64(previous)))
	if remaining.Cmp(big.NewInt(int64(budget))) <= 0 {
		return 100
	}

	num := new(big.Float).SetInt64(100 * int64(budget))
	chance, _ := new(big.Float).Quo(num, new(big.Float).SetInt(remaining)).Float64()
	return chance
}

// FormatChance renders a percentage with 11 decimals, trailing zeros trimmed
func FormatChance(chance float64) string {
	s := strconv.FormatFloat(chance, 'f', 11, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}
