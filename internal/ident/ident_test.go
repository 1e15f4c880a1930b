package ident

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// sequenceSource replays fixed indices
type sequenceSource struct {
	values []int
	pos    int
}

func (s *sequenceSource) IntN(n int) int {
	v := s.values[s.pos%len(s.values)] % n
	s.pos++
	return v
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	alphabet := "abcdefghijklmnopqrstuvwxyz0123456789"
	g := NewGenerator(alphabet, 6, NewSource(0))

	for i := 0; i < 500; i++ {
		id := g.Generate()
		assert.Len(t, id, 6)
		for _, r := range id {
			assert.Contains(t, alphabet, string(r))
		}
	}
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	a := NewGenerator("abc123", 8, NewSource(42))
	b := NewGenerator("abc123", 8, NewSource(42))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestGenerate_UsesInjectedSource(t *testing.T) {
	src := &sequenceSource{values: []int{0, 1, 2, 3}}
	g := NewGenerator("wxyz", 4, src)

	assert.Equal(t, "wxyz", g.Generate())
	assert.Equal(t, "wxyz", g.Generate())
}

func TestGenerate_MultibyteAlphabet(t *testing.T) {
	g := NewGenerator("äöü", 5, NewSource(7))

	id := g.Generate()
	assert.Equal(t, 5, utf8.RuneCountInString(id))
}

func TestGenerate_CoversAlphabet(t *testing.T) {
	g := NewGenerator("ab", 1, NewSource(3))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Generate()] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}
