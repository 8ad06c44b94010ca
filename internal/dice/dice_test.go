package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollStaysOnTheDie(t *testing.T) {
	roller := New(&Config{Seed: 7})

	for sides := 1; sides <= 12; sides++ {
		for i := 0; i < 100; i++ {
			got := roller.Roll(sides)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, sides)
		}
	}
}

func TestRollDefaultsToSixSides(t *testing.T) {
	roller := New(nil)

	for i := 0; i < 100; i++ {
		got := roller.Roll(0)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 6)
	}
}

func TestSeededRollersRepeat(t *testing.T) {
	a := New(&Config{Seed: 99})
	b := New(&Config{Seed: 99})

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Roll(12), b.Roll(12))
	}
}
