package levels

import (
	"math"
	"strings"
)

const (
	MaxLevel = 200
	barCells = 10
)

// Progress is a level and how far into it a total experience reaches.
type Progress struct {
	Level  int
	Into   int64
	Needed int64
	Total  int64
}

// XPNeeded is the experience between level and level+1: floor(10 * 1.5^(level-1)).
func XPNeeded(level int) int64 {
	if level < 1 {
		level = 1
	}
	v := 10 * math.Pow(1.5, float64(level-1))
	if v >= math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	return int64(v)
}

// FromExperience walks levels from 1, carrying leftover experience forward.
func FromExperience(total int64) Progress {
	if total < 0 {
		total = 0
	}
	level := 1
	rest := total
	for level < MaxLevel {
		need := XPNeeded(level)
		if rest < need {
			break
		}
		rest -= need
		level++
	}
	return Progress{Level: level, Into: rest, Needed: XPNeeded(level), Total: total}
}

// LeveledUp reports the new level when gaining experience crossed a threshold.
func LeveledUp(before, after int64) (int, bool) {
	b := FromExperience(before).Level
	a := FromExperience(after).Level
	return a, a > b
}

// Bar renders progress as filled and empty cells.
func (p Progress) Bar() string {
	filled := 0
	if p.Needed > 0 {
		filled = int(float64(p.Into) / float64(p.Needed) * barCells)
	}
	if filled > barCells {
		filled = barCells
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", barCells-filled)
}
