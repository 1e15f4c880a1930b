package ident

import (
	"math/rand/v2"
	"strings"
)

// Source is the random source behind a Generator. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG source seeded with seed, or a randomly seeded
// one when seed is 0
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator draws fixed-length identifiers from a fixed alphabet.
// Draws are independent; uniqueness is the caller's concern.
type Generator struct {
	alphabet []rune
	length   int
	src      Source
}

// NewGenerator creates a generator over alphabet producing length runes per identifier
func NewGenerator(alphabet string, length int, src Source) *Generator {
	return &Generator{
		alphabet: []rune(alphabet),
		length:   length,
		src:      src,
	}
}

// Generate returns a uniformly random identifier
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		b.WriteRune(g.alphabet[g.src.IntN(len(g.alphabet))])
	}
	return b.String()
}
