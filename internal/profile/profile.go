package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive numeric range, written in YAML as [min, max]. Values
// are sampled independently per occurrence.
type Range struct {
	Min float64
	Max float64
}

// UnmarshalYAML accepts the two-element sequence form.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var bounds []float64
	if err := node.Decode(&bounds); err != nil {
		return fmt.Errorf("range must be a [min, max] sequence: %w", err)
	}
	if len(bounds) != 2 {
		return fmt.Errorf("range must have exactly 2 values, got %d", len(bounds))
	}
	r.Min = bounds[0]
	r.Max = bounds[1]
	return nil
}

// MarshalYAML renders the range back in its [min, max] sequence form.
func (r Range) MarshalYAML() (any, error) {
	node := &yaml.Node{}
	if err := node.Encode([]float64{r.Min, r.Max}); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return node, nil
}

// Profile bundles the behavioral parameter ranges one generated person draws
// from.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Heart         HeartProfile         `yaml:"heart"`
	Sleep         SleepProfile         `yaml:"sleep"`
	Activity      ActivityProfile      `yaml:"activity"`
	Workouts      WorkoutProfile       `yaml:"workouts"`
	Dietary       DietaryProfile       `yaml:"dietary"`
	BloodPressure BloodPressureProfile `yaml:"blood_pressure"`
	Mindfulness   MindfulnessProfile   `yaml:"mindfulness"`
}

// HeartProfile covers cardiovascular metrics.
type HeartProfile struct {
	RestingRate      Range `yaml:"resting_rate"`      // bpm
	MaxRate          Range `yaml:"max_rate"`          // bpm
	VariabilityMS    Range `yaml:"variability_ms"`    // SDNN milliseconds
	OxygenSaturation Range `yaml:"oxygen_saturation"` // percent
	RespiratoryRate  Range `yaml:"respiratory_rate"`  // breaths/min
}

// SleepProfile shapes the nightly sleep block that opens each generated day.
type SleepProfile struct {
	WakeHour      Range `yaml:"wake_hour"`      // fractional hour of day
	DurationHours Range `yaml:"duration_hours"` // bounded to [4, 12]
	Awakenings    Range `yaml:"awakenings"`     // interruptions per night
}

// ActivityProfile covers daily movement totals.
type ActivityProfile struct {
	DailySteps   Range `yaml:"daily_steps"`
	ActiveEnergy Range `yaml:"active_energy_kcal"`
	BodyMassKG   Range `yaml:"body_mass_kg"`
}

// WorkoutProfile controls workout count, intensity and the activity pool.
type WorkoutProfile struct {
	PerDay          Range    `yaml:"per_day"`
	DurationMinutes Range    `yaml:"duration_minutes"`
	DistanceKM      Range    `yaml:"distance_km"`
	EnergyKcal      Range    `yaml:"energy_kcal"`
	Activities      []string `yaml:"activities"`
}

// DietaryProfile covers daily nutrition totals.
type DietaryProfile struct {
	EnergyKcal Range `yaml:"energy_kcal"`
	WaterML    Range `yaml:"water_ml"`
	ProteinG   Range `yaml:"protein_g"`
}

// BloodPressureProfile feeds the daily blood pressure correlation.
type BloodPressureProfile struct {
	Systolic  Range `yaml:"systolic"`
	Diastolic Range `yaml:"diastolic"`
}

// MindfulnessProfile controls mindful session frequency and length.
type MindfulnessProfile struct {
	PerDay          Range `yaml:"per_day"`
	DurationMinutes Range `yaml:"duration_minutes"`
}
