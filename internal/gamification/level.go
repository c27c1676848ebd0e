package gamification

import "math"

// Level maps total XP to a level: floor(sqrt(xp/100)), never below 1.
func Level(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Floor(math.Sqrt(float64(xp) / 100)))
	if level < 1 {
		return 1
	}
	return level
}

// XPForNextLevel is the total XP at which level+1 is reached.
func XPForNextLevel(level int) int {
	return (level + 1) * (level + 1) * 100
}
