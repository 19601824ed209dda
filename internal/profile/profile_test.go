package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hksynth/hksynth-cli/internal/models"
	"gopkg.in/yaml.v3"
)

func TestRangeUnmarshal(t *testing.T) {
	var r Range
	if err := yaml.Unmarshal([]byte("[58, 72]"), &r); err != nil {
		t.Fatalf("failed to unmarshal range: %v", err)
	}
	if r.Min != 58 || r.Max != 72 {
		t.Errorf("expected [58, 72], got [%v, %v]", r.Min, r.Max)
	}

	if err := yaml.Unmarshal([]byte("[1, 2, 3]"), &r); err == nil {
		t.Error("expected error for three-element range")
	}
	if err := yaml.Unmarshal([]byte("fast"), &r); err == nil {
		t.Error("expected error for scalar range")
	}
}

func TestLoadBuiltins(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadBuiltins(); err != nil {
		t.Fatalf("failed to load builtins: %v", err)
	}

	names := registry.List()
	if len(names) != 3 {
		t.Fatalf("expected 3 builtin profiles, got %d: %v", len(names), names)
	}

	for _, name := range []string{"default", "athlete", "sedentary"} {
		p, err := registry.Get(name)
		if err != nil {
			t.Errorf("expected builtin profile %s: %v", name, err)
			continue
		}
		if err := p.Validate(); err != nil {
			t.Errorf("builtin profile %s does not validate: %v", name, err)
		}
	}

	if _, err := registry.Get("bodybuilder"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadFromDirShadowsBuiltins(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-profiles-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	custom := `name: default
description: Overridden default
heart:
  resting_rate: [50, 60]
  max_rate: [170, 190]
  variability_ms: [20, 80]
  oxygen_saturation: [95, 100]
  respiratory_rate: [12, 16]
sleep:
  wake_hour: [6, 7]
  duration_hours: [7, 9]
  awakenings: [0, 1]
activity:
  daily_steps: [4000, 9000]
  active_energy_kcal: [200, 500]
  body_mass_kg: [60, 80]
workouts:
  per_day: [0, 1]
  duration_minutes: [20, 40]
  distance_km: [2, 5]
  energy_kcal: [100, 300]
  activities: [walking]
dietary:
  energy_kcal: [1800, 2400]
  water_ml: [1000, 2000]
  protein_g: [50, 100]
blood_pressure:
  systolic: [110, 125]
  diastolic: [70, 82]
mindfulness:
  per_day: [0, 1]
  duration_minutes: [10, 20]
`
	if err := os.WriteFile(filepath.Join(tmpDir, "default.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadBuiltins(); err != nil {
		t.Fatalf("failed to load builtins: %v", err)
	}
	if err := registry.LoadFromDir(tmpDir); err != nil {
		t.Fatalf("failed to load custom profiles: %v", err)
	}

	p, err := registry.Get("default")
	if err != nil {
		t.Fatalf("failed to get default: %v", err)
	}
	if p.Description != "Overridden default" {
		t.Errorf("expected custom profile to shadow builtin, got %q", p.Description)
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	base := func() *Profile {
		registry := NewRegistry()
		if err := registry.LoadBuiltins(); err != nil {
			t.Fatalf("failed to load builtins: %v", err)
		}
		p, err := registry.Get("default")
		if err != nil {
			t.Fatalf("failed to get default: %v", err)
		}
		clone := *p
		return &clone
	}

	cases := []struct {
		name   string
		mutate func(*Profile)
		field  string
	}{
		{
			name:   "resting above max",
			mutate: func(p *Profile) { p.Heart.RestingRate = Range{Min: 80, Max: 170} },
			field:  "heart.resting_rate",
		},
		{
			name:   "sleep too short",
			mutate: func(p *Profile) { p.Sleep.DurationHours = Range{Min: 2, Max: 8} },
			field:  "sleep.duration_hours",
		},
		{
			name:   "sleep too long",
			mutate: func(p *Profile) { p.Sleep.DurationHours = Range{Min: 8, Max: 14} },
			field:  "sleep.duration_hours",
		},
		{
			name:   "inverted range",
			mutate: func(p *Profile) { p.Activity.DailySteps = Range{Min: 9000, Max: 100} },
			field:  "activity.daily_steps",
		},
		{
			name:   "diastolic above systolic",
			mutate: func(p *Profile) { p.BloodPressure.Diastolic = Range{Min: 80, Max: 130} },
			field:  "blood_pressure.diastolic",
		},
		{
			name:   "unknown activity",
			mutate: func(p *Profile) { p.Workouts.Activities = []string{"parkour"} },
			field:  "workouts.activities",
		},
		{
			name:   "quote in name",
			mutate: func(p *Profile) { p.Name = `the "default"` },
			field:  "name",
		},
	}

	for _, tc := range cases {
		p := base()
		tc.mutate(p)
		err := p.Validate()
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
	}
}
