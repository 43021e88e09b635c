// internal/leveling/leveling.go
package leveling

import "math"

// DefaultRate is the XP granted per message when no xp_rate is configured.
const DefaultRate = 15

// LevelForXP converts a cumulative XP total into a level. The progression is
// slightly exponential so early levels come quickly. Negative totals are
// treated as zero; the result is always >= 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	lvl := int(math.Pow(float64(xp)/100, 0.6)) + 1
	if lvl < 1 {
		lvl = 1
	}
	return lvl
}

// XPForMessage returns the points a single message is worth under the given
// rate. A rate of zero or less disables XP entirely.
func XPForMessage(rate int) int {
	if rate <= 0 {
		return 0
	}
	return rate
}

// NextLevelXP returns the XP span shown in the rank progress bar for a level.
func NextLevelXP(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 + level*50
}
