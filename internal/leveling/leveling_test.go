// internal/leveling/leveling_test.go
package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 3, LevelForXP(400))
	assert.Equal(t, 4, LevelForXP(1000))
}

func TestLevelForXPNegative(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(-500))
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 20000; xp += 135 {
		lvl := LevelForXP(xp)
		assert.GreaterOrEqual(t, lvl, prev, "level must not decrease as XP grows (xp=%d)", xp)
		prev = lvl
	}
}

func TestXPForMessage(t *testing.T) {
	assert.Equal(t, 15, XPForMessage(15))
	assert.Equal(t, 0, XPForMessage(0))
	assert.Equal(t, 0, XPForMessage(-3))
}

func TestNextLevelXP(t *testing.T) {
	assert.Equal(t, 150, NextLevelXP(1))
	assert.Equal(t, 350, NextLevelXP(5))
	assert.Equal(t, 150, NextLevelXP(0))
}
