package progression

// xpThresholds[i] is the experience needed to reach level i+1
var xpThresholds = []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700, 3500, 4500, 5600, 6800, 8100, 9500, 11000}

// MaxLevel is the highest reachable level
const MaxLevel = 17

// Level returns the level for a cumulative experience total
func Level(xp int) int {
	level := 1
	for i, threshold := range xpThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// NextThreshold returns the experience needed for the next level.
// ok is false once the top level is reached.
func NextThreshold(xp int) (threshold int, ok bool) {
	level := Level(xp)
	if level >= MaxLevel {
		return 0, false
	}
	return xpThresholds[level], true
}
