package models

import "time"

// FromRecord dispatches a reassembled record to its typed sample. Unknown
// type names return an UnsupportedTypeError; known types missing required
// fields return a ConstructionError.
func FromRecord(rec Record) (Sample, error) {
	switch KindOf(rec.TypeName) {
	case KindQuantity:
		return newQuantity(rec)
	case KindCategory:
		return newCategory(rec)
	case KindCorrelation:
		return newCorrelation(rec)
	case KindWorkout:
		return newWorkout(rec)
	case KindHeartbeatSeries:
		return newHeartbeatSeries(rec)
	default:
		return nil, &UnsupportedTypeError{TypeName: rec.TypeName}
	}
}

func newQuantity(rec Record) (Sample, error) {
	span, err := intervalOf(rec)
	if err != nil {
		return nil, err
	}
	value, ok := floatProp(rec.Props, "value")
	if !ok {
		return nil, &ConstructionError{TypeName: rec.TypeName, Field: "value", Message: "is required"}
	}
	unit, ok := stringProp(rec.Props, "unit")
	if !ok {
		return nil, &ConstructionError{TypeName: rec.TypeName, Field: "unit", Message: "is required"}
	}
	return &QuantitySample{Type: rec.TypeName, Span: span, Value: value, Unit: unit}, nil
}

func newCategory(rec Record) (Sample, error) {
	span, err := intervalOf(rec)
	if err != nil {
		return nil, err
	}
	// A missing value reads as code 0, the neutral state for every
	// category family.
	value, _ := intProp(rec.Props, "value")
	return &CategorySample{Type: rec.TypeName, Span: span, Value: value}, nil
}

func newCorrelation(rec Record) (Sample, error) {
	span, err := intervalOf(rec)
	if err != nil {
		return nil, err
	}
	raw, _ := rec.Props["objects"].([]any)
	objects := make([]Sample, 0, len(raw))
	for _, member := range raw {
		props, ok := member.(map[string]any)
		if !ok {
			continue
		}
		typeName, ok := stringProp(props, "type")
		if !ok {
			continue
		}
		kind := KindOf(typeName)
		if kind != KindQuantity && kind != KindCategory {
			continue
		}
		sub, err := FromRecord(Record{TypeName: typeName, Props: props})
		if err != nil {
			continue
		}
		objects = append(objects, sub)
	}
	if len(objects) == 0 {
		return nil, &ConstructionError{TypeName: rec.TypeName, Field: "objects", Message: "has no constructible members"}
	}
	return &CorrelationSample{Type: rec.TypeName, Span: span, Objects: objects}, nil
}

func newWorkout(rec Record) (Sample, error) {
	span, err := intervalOf(rec)
	if err != nil {
		return nil, err
	}
	activity, ok := intProp(rec.Props, "workoutActivityType")
	if !ok {
		return nil, &ConstructionError{TypeName: rec.TypeName, Field: "workoutActivityType", Message: "is required"}
	}
	w := &WorkoutSample{Span: span, ActivityCode: activity}
	distance, hasDistance := floatProp(rec.Props, "totalDistance")
	energy, hasEnergy := floatProp(rec.Props, "totalEnergyBurned")
	duration, hasDuration := floatProp(rec.Props, "duration")
	w.TotalDistance = distance
	w.TotalEnergyBurned = energy
	if steps, ok := intProp(rec.Props, "stepCount"); ok {
		w.StepCount = &steps
	}
	w.Events = workoutEvents(rec.Props)

	// Two construction paths, never both: a non-empty event list wins and
	// the duration derives from the interval; otherwise the scalar duration
	// applies, with the interval span as a last resort when metrics exist.
	switch {
	case len(w.Events) > 0:
		w.Duration = span.Duration()
	case hasDuration:
		w.Duration = time.Duration(duration * float64(time.Second))
	case hasDistance || hasEnergy:
		w.Duration = span.Duration()
	default:
		return nil, &ConstructionError{TypeName: rec.TypeName, Field: "duration", Message: "is required without distance or energy"}
	}
	return w, nil
}

func workoutEvents(p Properties) []WorkoutEvent {
	raw, _ := p["events"].([]any)
	if len(raw) == 0 {
		return nil
	}
	events := make([]WorkoutEvent, 0, len(raw))
	for _, member := range raw {
		props, ok := member.(map[string]any)
		if !ok {
			continue
		}
		typeCode, ok := intProp(props, "type")
		if !ok {
			continue
		}
		date, err := ParseDate(props["sdate"])
		if err != nil {
			continue
		}
		events = append(events, WorkoutEvent{TypeCode: typeCode, Date: date})
	}
	return events
}

func newHeartbeatSeries(rec Record) (Sample, error) {
	span, err := intervalOf(rec)
	if err != nil {
		return nil, err
	}
	raw, _ := rec.Props["heartbeats"].([]any)
	beats := make([]Heartbeat, 0, len(raw))
	for _, member := range raw {
		props, ok := member.(map[string]any)
		if !ok {
			continue
		}
		offset, ok := floatProp(props, "timeSinceStart")
		if !ok {
			continue
		}
		value, ok := floatProp(props, "value")
		if !ok {
			continue
		}
		if offset < 0 {
			offset = 0
		}
		confidence, _ := intProp(props, "confidence")
		beats = append(beats, Heartbeat{
			TimeSinceStart: offset,
			Value:          value,
			Confidence:     clampInt(confidence, 0, 3),
		})
	}
	return &HeartbeatSeriesSample{Span: span, Beats: beats}, nil
}

func intervalOf(rec Record) (Interval, error) {
	raw, ok := rec.Props["sdate"]
	if !ok {
		return Interval{}, &ConstructionError{TypeName: rec.TypeName, Field: "sdate", Message: "is required"}
	}
	start, err := ParseDate(raw)
	if err != nil {
		return Interval{}, &ConstructionError{TypeName: rec.TypeName, Field: "sdate", Message: err.Error()}
	}
	end := start
	if raw, ok := rec.Props["edate"]; ok {
		end, err = ParseDate(raw)
		if err != nil {
			return Interval{}, &ConstructionError{TypeName: rec.TypeName, Field: "edate", Message: err.Error()}
		}
	}
	if end.Before(start) {
		end = start
	}
	return Interval{Start: start, End: end}, nil
}

func floatProp(p Properties, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func intProp(p Properties, key string) (int, bool) {
	switch v := p[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func stringProp(p Properties, key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
