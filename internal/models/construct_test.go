package models

import (
	"errors"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		typeName string
		kind     Kind
	}{
		{TypeHeartRate, KindQuantity},
		{TypeSleepAnalysis, KindCategory},
		{TypeBloodPressure, KindCorrelation},
		{WorkoutType, KindWorkout},
		{HeartbeatSeriesType, KindHeartbeatSeries},
		{"HKDocumentTypeIdentifierCDA", KindUnsupported},
		{"steps", KindUnsupported},
	}
	for _, tc := range cases {
		if got := KindOf(tc.typeName); got != tc.kind {
			t.Errorf("KindOf(%s): expected %s, got %s", tc.typeName, tc.kind, got)
		}
	}
}

func TestParseDateForms(t *testing.T) {
	want := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	fromString, err := ParseDate("2025-01-01T08:00:00Z")
	if err != nil {
		t.Fatalf("failed to parse ISO timestamp: %v", err)
	}
	if !fromString.Equal(want) {
		t.Errorf("expected %v, got %v", want, fromString)
	}

	fromMillis, err := ParseDate(want.UnixMilli())
	if err != nil {
		t.Fatalf("failed to parse epoch millis: %v", err)
	}
	if !fromMillis.Equal(want) {
		t.Errorf("expected %v, got %v", want, fromMillis)
	}

	fromFloat, err := ParseDate(float64(want.UnixMilli()))
	if err != nil {
		t.Fatalf("failed to parse float epoch millis: %v", err)
	}
	if !fromFloat.Equal(want) {
		t.Errorf("expected %v, got %v", want, fromFloat)
	}

	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if _, err := ParseDate(true); err == nil {
		t.Error("expected error for non-timestamp type")
	}
}

func TestQuantityConstruction(t *testing.T) {
	rec := Record{
		TypeName: TypeHeartRate,
		Props: Properties{
			"sdate": "2025-01-01T08:00:00Z",
			"value": int64(72),
			"unit":  "count/min",
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	q, ok := sample.(*QuantitySample)
	if !ok {
		t.Fatalf("expected *QuantitySample, got %T", sample)
	}
	if q.Value != 72 {
		t.Errorf("expected value 72, got %v", q.Value)
	}
	if q.Unit != "count/min" {
		t.Errorf("expected unit count/min, got %s", q.Unit)
	}
	if !q.Span.End.Equal(q.Span.Start) {
		t.Error("expected end to default to start when edate is absent")
	}
}

func TestQuantityMissingFields(t *testing.T) {
	base := Properties{"sdate": "2025-01-01T08:00:00Z"}

	_, err := FromRecord(Record{TypeName: TypeHeartRate, Props: Properties{"sdate": base["sdate"], "unit": "count/min"}})
	var cerr *ConstructionError
	if !errors.As(err, &cerr) || cerr.Field != "value" {
		t.Errorf("expected construction error on value, got %v", err)
	}

	_, err = FromRecord(Record{TypeName: TypeHeartRate, Props: Properties{"sdate": base["sdate"], "value": 72.0}})
	if !errors.As(err, &cerr) || cerr.Field != "unit" {
		t.Errorf("expected construction error on unit, got %v", err)
	}

	_, err = FromRecord(Record{TypeName: TypeHeartRate, Props: Properties{"value": 72.0, "unit": "count/min"}})
	if !errors.As(err, &cerr) || cerr.Field != "sdate" {
		t.Errorf("expected construction error on sdate, got %v", err)
	}
}

func TestCategoryConstruction(t *testing.T) {
	rec := Record{
		TypeName: TypeSleepAnalysis,
		Props: Properties{
			"sdate": "2025-01-01T22:00:00Z",
			"edate": "2025-01-02T06:00:00Z",
			"value": int64(SleepValueAsleepREM),
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	c := sample.(*CategorySample)
	if c.Value != SleepValueAsleepREM {
		t.Errorf("expected value %d, got %d", SleepValueAsleepREM, c.Value)
	}
	if c.Span.Duration() != 8*time.Hour {
		t.Errorf("expected 8h span, got %v", c.Span.Duration())
	}

	// Missing value reads as the neutral zero code, not an error.
	sample, err = FromRecord(Record{TypeName: TypeMindfulSession, Props: Properties{"sdate": "2025-01-01T12:00:00Z"}})
	if err != nil {
		t.Fatalf("expected categories to tolerate a missing value, got %v", err)
	}
	if sample.(*CategorySample).Value != 0 {
		t.Errorf("expected default value 0, got %d", sample.(*CategorySample).Value)
	}
}

func TestUnsupportedType(t *testing.T) {
	_, err := FromRecord(Record{TypeName: "HKDocumentTypeIdentifierCDA", Props: Properties{"sdate": "2025-01-01T08:00:00Z"}})
	var uerr *UnsupportedTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if uerr.TypeName != "HKDocumentTypeIdentifierCDA" {
		t.Errorf("expected raw type name in error, got %s", uerr.TypeName)
	}
}

func TestCorrelationKeepsConstructibleMembers(t *testing.T) {
	rec := Record{
		TypeName: TypeBloodPressure,
		Props: Properties{
			"sdate": "2025-01-01T08:00:00Z",
			"objects": []any{
				map[string]any{
					"type":  TypeBloodPressureSystolic,
					"sdate": "2025-01-01T08:00:00Z",
					"value": int64(120),
					"unit":  "mmHg",
				},
				map[string]any{
					"type":  "HKFutureTypeIdentifierUnknown",
					"sdate": "2025-01-01T08:00:00Z",
					"value": int64(1),
				},
			},
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	c := sample.(*CorrelationSample)
	if len(c.Objects) != 1 {
		t.Fatalf("expected exactly 1 member, got %d", len(c.Objects))
	}
	member := c.Objects[0].(*QuantitySample)
	if member.Value != 120 {
		t.Errorf("expected systolic 120, got %v", member.Value)
	}
}

func TestCorrelationWithNoMembersFails(t *testing.T) {
	rec := Record{
		TypeName: TypeBloodPressure,
		Props: Properties{
			"sdate": "2025-01-01T08:00:00Z",
			"objects": []any{
				map[string]any{"type": "HKFutureTypeIdentifierUnknown", "sdate": "2025-01-01T08:00:00Z"},
				map[string]any{"sdate": "2025-01-01T08:00:00Z", "value": int64(80)},
			},
		},
	}
	_, err := FromRecord(rec)
	var cerr *ConstructionError
	if !errors.As(err, &cerr) || cerr.Field != "objects" {
		t.Errorf("expected construction error on objects, got %v", err)
	}

	rec.Props["objects"] = []any{}
	if _, err := FromRecord(rec); err == nil {
		t.Error("expected empty correlation to fail construction")
	}
}

func TestWorkoutEventPathWinsOverDuration(t *testing.T) {
	rec := Record{
		TypeName: WorkoutType,
		Props: Properties{
			"sdate":               "2025-01-01T07:00:00Z",
			"edate":               "2025-01-01T08:00:00Z",
			"workoutActivityType": int64(ActivityRunning),
			"duration":            1800.0,
			"totalDistance":       9.6,
			"totalEnergyBurned":   540.0,
			"events": []any{
				map[string]any{"type": int64(WorkoutEventPause), "sdate": "2025-01-01T07:20:00Z"},
				map[string]any{"type": int64(WorkoutEventResume), "sdate": "2025-01-01T07:25:00Z"},
			},
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	w := sample.(*WorkoutSample)
	if len(w.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(w.Events))
	}
	// The event path derives duration from the interval and ignores the
	// scalar even though one is present.
	if w.Duration != time.Hour {
		t.Errorf("expected 1h duration from event path, got %v", w.Duration)
	}
}

func TestWorkoutDurationPath(t *testing.T) {
	rec := Record{
		TypeName: WorkoutType,
		Props: Properties{
			"sdate":               "2025-01-01T07:00:00Z",
			"edate":               "2025-01-01T08:00:00Z",
			"workoutActivityType": int64(ActivityYoga),
			"duration":            1800.0,
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	w := sample.(*WorkoutSample)
	if w.Duration != 30*time.Minute {
		t.Errorf("expected 30m duration from scalar path, got %v", w.Duration)
	}
	if w.StepCount != nil {
		t.Error("expected no step count when absent")
	}
}

func TestWorkoutMissingFields(t *testing.T) {
	var cerr *ConstructionError

	_, err := FromRecord(Record{TypeName: WorkoutType, Props: Properties{
		"sdate":    "2025-01-01T07:00:00Z",
		"duration": 1800.0,
	}})
	if !errors.As(err, &cerr) || cerr.Field != "workoutActivityType" {
		t.Errorf("expected construction error on workoutActivityType, got %v", err)
	}

	_, err = FromRecord(Record{TypeName: WorkoutType, Props: Properties{
		"sdate":               "2025-01-01T07:00:00Z",
		"workoutActivityType": int64(ActivityRunning),
	}})
	if !errors.As(err, &cerr) || cerr.Field != "duration" {
		t.Errorf("expected construction error on duration, got %v", err)
	}

	// Distance or energy rescues a missing scalar duration; the interval
	// span stands in.
	sample, err := FromRecord(Record{TypeName: WorkoutType, Props: Properties{
		"sdate":               "2025-01-01T07:00:00Z",
		"edate":               "2025-01-01T07:45:00Z",
		"workoutActivityType": int64(ActivityRunning),
		"totalDistance":       5.0,
	}})
	if err != nil {
		t.Fatalf("expected distance to rescue construction, got %v", err)
	}
	if sample.(*WorkoutSample).Duration != 45*time.Minute {
		t.Errorf("expected span fallback of 45m, got %v", sample.(*WorkoutSample).Duration)
	}
}

func TestHeartbeatSeriesConstruction(t *testing.T) {
	rec := Record{
		TypeName: HeartbeatSeriesType,
		Props: Properties{
			"sdate": "2025-01-01T08:00:00Z",
			"heartbeats": []any{
				map[string]any{"timeSinceStart": 0.8, "value": 71.5, "confidence": int64(9)},
				map[string]any{"timeSinceStart": -2.0, "value": 70.0, "confidence": int64(-1)},
				map[string]any{"timeSinceStart": 1.6, "value": 70.9},
				map[string]any{"value": 70.0},
			},
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	h := sample.(*HeartbeatSeriesSample)
	if len(h.Beats) != 3 {
		t.Fatalf("expected 3 beats (one skipped), got %d", len(h.Beats))
	}
	if h.Beats[0].Confidence != 3 {
		t.Errorf("expected confidence clamped to 3, got %d", h.Beats[0].Confidence)
	}
	if h.Beats[1].Confidence != 0 {
		t.Errorf("expected confidence clamped to 0, got %d", h.Beats[1].Confidence)
	}
	if h.Beats[1].TimeSinceStart != 0 {
		t.Errorf("expected negative offset clamped to 0, got %v", h.Beats[1].TimeSinceStart)
	}
	if h.Beats[2].Confidence != 0 {
		t.Errorf("expected missing confidence to default to 0, got %d", h.Beats[2].Confidence)
	}
}

func TestIntervalEndBeforeStartClamped(t *testing.T) {
	rec := Record{
		TypeName: TypeHeartRate,
		Props: Properties{
			"sdate": "2025-01-01T08:00:00Z",
			"edate": "2025-01-01T07:00:00Z",
			"value": 72.0,
			"unit":  "count/min",
		},
	}
	sample, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("failed to construct: %v", err)
	}
	span := sample.Interval()
	if !span.End.Equal(span.Start) {
		t.Errorf("expected end clamped to start, got %v < %v", span.End, span.Start)
	}
}

func TestPropertiesOmitRedundantEdate(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	q := &QuantitySample{Type: TypeHeartRate, Span: Interval{Start: start, End: start}, Value: 72, Unit: "count/min"}
	if _, ok := q.Properties()["edate"]; ok {
		t.Error("expected edate omitted when equal to sdate")
	}

	q.Span.End = start.Add(time.Minute)
	if _, ok := q.Properties()["edate"]; !ok {
		t.Error("expected edate present for a real interval")
	}
}
