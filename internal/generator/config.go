package generator

import (
	"fmt"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/profile"
)

// DefaultKeepProbability gates sparse-pattern days when the config leaves the
// probability unset.
const DefaultKeepProbability = 0.7

// Config holds one generation request. It is validated once by New and not
// mutated afterward.
type Config struct {
	Profile *profile.Profile

	// Start and End bound the generated days. Both endpoint calendar days are
	// included.
	Start time.Time
	End   time.Time

	// Metrics is a type-name allowlist. Empty selects every supported type.
	Metrics []string

	Pattern Pattern

	// KeepProbability is the sparse-pattern chance a day generates at all.
	// Zero means DefaultKeepProbability.
	KeepProbability float64

	// CustomDays lists the weekdays the custom pattern keeps.
	CustomDays []time.Weekday

	Seed int64
}

// Validate checks the config before any generation work begins.
func (c *Config) Validate() error {
	if c.Profile == nil {
		return &models.ValidationError{Field: "profile", Message: "is required"}
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if c.Start.IsZero() || c.End.IsZero() {
		return &models.ValidationError{Field: "date_range", Message: "start and end are required"}
	}
	if !c.Start.Before(c.End) {
		return &models.ValidationError{Field: "date_range", Message: "start must precede end"}
	}
	switch c.pattern() {
	case PatternContinuous, PatternSparse, PatternWeekdaysOnly, PatternWeekendsOnly:
	case PatternCustom:
		if len(c.CustomDays) == 0 {
			return &models.ValidationError{Field: "custom_days", Message: "needs at least one weekday"}
		}
	default:
		return &models.ValidationError{Field: "pattern", Message: fmt.Sprintf("unknown pattern %q", c.Pattern)}
	}
	if c.KeepProbability < 0 || c.KeepProbability > 1 {
		return &models.ValidationError{Field: "keep_probability", Message: "must be within [0, 1]"}
	}
	for _, name := range c.Metrics {
		if !isSupported(name) {
			return &models.ValidationError{Field: "metrics", Message: fmt.Sprintf("unknown type %q", name)}
		}
	}
	return nil
}

// pattern returns the configured pattern, defaulting to continuous.
func (c *Config) pattern() Pattern {
	if c.Pattern == "" {
		return PatternContinuous
	}
	return c.Pattern
}

// keep returns the effective sparse keep-probability.
func (c *Config) keep() float64 {
	if c.KeepProbability == 0 {
		return DefaultKeepProbability
	}
	return c.KeepProbability
}

// LastDays returns a range covering the n most recent calendar days, today
// included.
func LastDays(n int) (time.Time, time.Time) {
	end := time.Now().UTC()
	start := dayOf(end).AddDate(0, 0, -(n - 1))
	return start, end
}

// dayOf truncates to UTC midnight.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func isSupported(typeName string) bool {
	for _, name := range models.SupportedTypes() {
		if name == typeName {
			return true
		}
	}
	return false
}
