package generator

import (
	"fmt"
	"strings"
	"time"
)

// Pattern decides which calendar days in the configured range generate data.
type Pattern string

const (
	PatternContinuous   Pattern = "continuous"
	PatternSparse       Pattern = "sparse"
	PatternWeekdaysOnly Pattern = "weekdaysOnly"
	PatternWeekendsOnly Pattern = "weekendsOnly"
	PatternCustom       Pattern = "custom"
)

// Patterns lists every recognized pattern in display order.
func Patterns() []Pattern {
	return []Pattern{
		PatternContinuous,
		PatternSparse,
		PatternWeekdaysOnly,
		PatternWeekendsOnly,
		PatternCustom,
	}
}

// ParsePattern resolves a pattern label, case-insensitively.
func ParsePattern(s string) (Pattern, error) {
	for _, p := range Patterns() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pattern %q", s)
}

// includesDay applies the pattern gate for one calendar day. The sparse draw
// consumes exactly one random value per day, kept or not, so a fixed seed
// always walks the same decision sequence.
func (g *Generator) includesDay(day time.Time) bool {
	switch g.config.pattern() {
	case PatternSparse:
		return g.rng.Float64() < g.config.keep()
	case PatternWeekdaysOnly:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case PatternWeekendsOnly:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case PatternCustom:
		for _, wd := range g.config.CustomDays {
			if day.Weekday() == wd {
				return true
			}
		}
		return false
	default:
		return true
	}
}
