package models

import (
	"time"
)

// Interval is the time span a sample covers. End equals Start for
// instantaneous samples.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the span length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Sample is one typed health observation.
type Sample interface {
	Kind() Kind
	TypeName() string
	Interval() Interval
	// Properties renders the sample back into its wire property map.
	Properties() Properties
}

// QuantitySample is an interval-stamped numeric value with a unit.
type QuantitySample struct {
	Type  string
	Span  Interval
	Value float64
	Unit  string
}

func (q *QuantitySample) Kind() Kind         { return KindQuantity }
func (q *QuantitySample) TypeName() string   { return q.Type }
func (q *QuantitySample) Interval() Interval { return q.Span }

func (q *QuantitySample) Properties() Properties {
	p := Properties{
		"sdate": FormatDate(q.Span.Start),
		"value": q.Value,
		"unit":  q.Unit,
	}
	if !q.Span.End.Equal(q.Span.Start) {
		p["edate"] = FormatDate(q.Span.End)
	}
	return p
}

// CategorySample is an interval-stamped enumerated phase or state code.
type CategorySample struct {
	Type  string
	Span  Interval
	Value int
}

func (c *CategorySample) Kind() Kind         { return KindCategory }
func (c *CategorySample) TypeName() string   { return c.Type }
func (c *CategorySample) Interval() Interval { return c.Span }

func (c *CategorySample) Properties() Properties {
	p := Properties{
		"sdate": FormatDate(c.Span.Start),
		"value": int64(c.Value),
	}
	if !c.Span.End.Equal(c.Span.Start) {
		p["edate"] = FormatDate(c.Span.End)
	}
	return p
}

// CorrelationSample bundles quantity and category sub-samples under one
// shared timeframe.
type CorrelationSample struct {
	Type    string
	Span    Interval
	Objects []Sample
}

func (c *CorrelationSample) Kind() Kind         { return KindCorrelation }
func (c *CorrelationSample) TypeName() string   { return c.Type }
func (c *CorrelationSample) Interval() Interval { return c.Span }

func (c *CorrelationSample) Properties() Properties {
	objects := make([]any, 0, len(c.Objects))
	for _, obj := range c.Objects {
		props := obj.Properties()
		props["type"] = obj.TypeName()
		objects = append(objects, props)
	}
	p := Properties{
		"sdate":   FormatDate(c.Span.Start),
		"objects": objects,
	}
	if !c.Span.End.Equal(c.Span.Start) {
		p["edate"] = FormatDate(c.Span.End)
	}
	return p
}

// WorkoutEvent is one discrete event inside a workout, such as a pause or a
// lap marker.
type WorkoutEvent struct {
	TypeCode int
	Date     time.Time
}

// WorkoutSample is a workout session with activity metrics and an optional
// list of discrete events.
type WorkoutSample struct {
	Span              Interval
	ActivityCode      int
	Duration          time.Duration
	TotalDistance     float64
	TotalEnergyBurned float64
	StepCount         *int
	Events            []WorkoutEvent
}

func (w *WorkoutSample) Kind() Kind         { return KindWorkout }
func (w *WorkoutSample) TypeName() string   { return WorkoutType }
func (w *WorkoutSample) Interval() Interval { return w.Span }

func (w *WorkoutSample) Properties() Properties {
	p := Properties{
		"sdate":               FormatDate(w.Span.Start),
		"workoutActivityType": int64(w.ActivityCode),
		"duration":            w.Duration.Seconds(),
		"totalDistance":       w.TotalDistance,
		"totalEnergyBurned":   w.TotalEnergyBurned,
	}
	if !w.Span.End.Equal(w.Span.Start) {
		p["edate"] = FormatDate(w.Span.End)
	}
	if w.StepCount != nil {
		p["stepCount"] = int64(*w.StepCount)
	}
	if len(w.Events) > 0 {
		events := make([]any, 0, len(w.Events))
		for _, ev := range w.Events {
			events = append(events, Properties{
				"type":  int64(ev.TypeCode),
				"sdate": FormatDate(ev.Date),
			})
		}
		p["events"] = events
	}
	return p
}

// Heartbeat is one beat in a heartbeat series, offset in seconds from the
// series start.
type Heartbeat struct {
	TimeSinceStart float64
	Value          float64
	Confidence     int
}

// HeartbeatSeriesSample is an ordered run of beats anchored at a start time.
type HeartbeatSeriesSample struct {
	Span  Interval
	Beats []Heartbeat
}

func (h *HeartbeatSeriesSample) Kind() Kind         { return KindHeartbeatSeries }
func (h *HeartbeatSeriesSample) TypeName() string   { return HeartbeatSeriesType }
func (h *HeartbeatSeriesSample) Interval() Interval { return h.Span }

func (h *HeartbeatSeriesSample) Properties() Properties {
	beats := make([]any, 0, len(h.Beats))
	for _, b := range h.Beats {
		beats = append(beats, Properties{
			"timeSinceStart": b.TimeSinceStart,
			"value":          b.Value,
			"confidence":     int64(b.Confidence),
		})
	}
	p := Properties{
		"sdate":      FormatDate(h.Span.Start),
		"heartbeats": beats,
	}
	if !h.Span.End.Equal(h.Span.Start) {
		p["edate"] = FormatDate(h.Span.End)
	}
	return p
}
