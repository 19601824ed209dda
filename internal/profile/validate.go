package profile

import (
	"fmt"
	"strings"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// Sleep duration bounds enforced across every profile.
const (
	MinSleepHours = 4.0
	MaxSleepHours = 12.0
)

// Validate checks the profile's cross-field physiological sanity. It returns
// the first violation found, before any generation work begins.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return &models.ValidationError{Field: "name", Message: "is required"}
	}
	if err := cleanText("name", p.Name); err != nil {
		return err
	}
	if err := cleanText("description", p.Description); err != nil {
		return err
	}

	ranges := []struct {
		field string
		r     Range
	}{
		{"heart.resting_rate", p.Heart.RestingRate},
		{"heart.max_rate", p.Heart.MaxRate},
		{"heart.variability_ms", p.Heart.VariabilityMS},
		{"heart.oxygen_saturation", p.Heart.OxygenSaturation},
		{"heart.respiratory_rate", p.Heart.RespiratoryRate},
		{"sleep.wake_hour", p.Sleep.WakeHour},
		{"sleep.duration_hours", p.Sleep.DurationHours},
		{"sleep.awakenings", p.Sleep.Awakenings},
		{"activity.daily_steps", p.Activity.DailySteps},
		{"activity.active_energy_kcal", p.Activity.ActiveEnergy},
		{"activity.body_mass_kg", p.Activity.BodyMassKG},
		{"workouts.per_day", p.Workouts.PerDay},
		{"workouts.duration_minutes", p.Workouts.DurationMinutes},
		{"workouts.distance_km", p.Workouts.DistanceKM},
		{"workouts.energy_kcal", p.Workouts.EnergyKcal},
		{"dietary.energy_kcal", p.Dietary.EnergyKcal},
		{"dietary.water_ml", p.Dietary.WaterML},
		{"dietary.protein_g", p.Dietary.ProteinG},
		{"blood_pressure.systolic", p.BloodPressure.Systolic},
		{"blood_pressure.diastolic", p.BloodPressure.Diastolic},
		{"mindfulness.per_day", p.Mindfulness.PerDay},
		{"mindfulness.duration_minutes", p.Mindfulness.DurationMinutes},
	}
	for _, entry := range ranges {
		if entry.r.Min < 0 {
			return &models.ValidationError{Field: entry.field, Message: "must not be negative"}
		}
		if entry.r.Min > entry.r.Max {
			return &models.ValidationError{Field: entry.field, Message: "min must not exceed max"}
		}
	}

	if p.Heart.RestingRate.Max >= p.Heart.MaxRate.Min {
		return &models.ValidationError{Field: "heart.resting_rate", Message: "must stay below heart.max_rate"}
	}
	if p.Sleep.DurationHours.Min < MinSleepHours || p.Sleep.DurationHours.Max > MaxSleepHours {
		return &models.ValidationError{
			Field:   "sleep.duration_hours",
			Message: fmt.Sprintf("must stay within [%.0f, %.0f] hours", MinSleepHours, MaxSleepHours),
		}
	}
	if p.Sleep.WakeHour.Max >= 24 {
		return &models.ValidationError{Field: "sleep.wake_hour", Message: "must stay below 24"}
	}
	if p.BloodPressure.Diastolic.Max >= p.BloodPressure.Systolic.Min {
		return &models.ValidationError{Field: "blood_pressure.diastolic", Message: "must stay below blood_pressure.systolic"}
	}

	if len(p.Workouts.Activities) == 0 {
		return &models.ValidationError{Field: "workouts.activities", Message: "needs at least one activity"}
	}
	for _, name := range p.Workouts.Activities {
		if _, ok := models.ActivityCode(name); !ok {
			return &models.ValidationError{Field: "workouts.activities", Message: fmt.Sprintf("unknown activity %q", name)}
		}
	}
	return nil
}

// cleanText rejects quote and backslash characters. The streaming reader does
// not decode escape sequences, so text that could reach a generated document
// is kept escape-free at this boundary.
func cleanText(field, value string) error {
	if strings.ContainsAny(value, `"\`) {
		return &models.ValidationError{Field: field, Message: "must not contain quotes or backslashes"}
	}
	return nil
}
