package generator

import (
	"math"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/profile"
)

// sleepBlock emits the night's in-bed span and its phase segments, then
// returns the wake time. The block is pulled forward to midnight when the
// drawn duration would reach into the previous day.
func (g *Generator) sleepBlock(day time.Time, out *[]models.Sample) time.Time {
	s := g.config.Profile.Sleep

	wake := day.Add(time.Duration(g.sampleRange(s.WakeHour) * float64(time.Hour)))
	duration := time.Duration(g.sampleRange(s.DurationHours) * float64(time.Hour))
	start := wake.Add(-duration)
	if start.Before(day) {
		start = day
	}
	if !g.want[models.TypeSleepAnalysis] {
		return wake
	}

	*out = append(*out, &models.CategorySample{
		Type:  models.TypeSleepAnalysis,
		Span:  models.Interval{Start: start, End: wake},
		Value: models.SleepValueInBed,
	})

	awakenings := g.intRange(s.Awakenings)
	phases := []int{
		models.SleepValueAsleepCore,
		models.SleepValueAsleepDeep,
		models.SleepValueAsleepCore,
		models.SleepValueAsleepREM,
	}
	for t, i := start, 0; t.Before(wake); i++ {
		end := t.Add(time.Duration(20+g.rng.Intn(31)) * time.Minute)
		if end.After(wake) {
			end = wake
		}
		*out = append(*out, &models.CategorySample{
			Type:  models.TypeSleepAnalysis,
			Span:  models.Interval{Start: t, End: end},
			Value: phases[i%len(phases)],
		})
		t = end

		if awakenings > 0 && t.Before(wake) && g.rng.Float64() < 0.3 {
			awakeEnd := t.Add(time.Duration(1+g.rng.Intn(5)) * time.Minute)
			if awakeEnd.After(wake) {
				awakeEnd = wake
			}
			*out = append(*out, &models.CategorySample{
				Type:  models.TypeSleepAnalysis,
				Span:  models.Interval{Start: t, End: awakeEnd},
				Value: models.SleepValueAwake,
			})
			t = awakeEnd
			awakenings--
		}
	}
	return wake
}

// morningVitals stamps the once-a-day readings taken shortly after waking.
func (g *Generator) morningVitals(cursor, dayEnd time.Time, out *[]models.Sample) time.Time {
	p := g.config.Profile
	vitals := []struct {
		typeName string
		r        profile.Range
		unit     string
	}{
		{models.TypeRestingHeartRate, p.Heart.RestingRate, "count/min"},
		{models.TypeHeartRateVariability, p.Heart.VariabilityMS, "ms"},
		{models.TypeOxygenSaturation, p.Heart.OxygenSaturation, "%"},
		{models.TypeRespiratoryRate, p.Heart.RespiratoryRate, "count/min"},
		{models.TypeBodyMass, p.Activity.BodyMassKG, "kg"},
	}
	for _, v := range vitals {
		cursor = capTime(cursor.Add(time.Duration(1+g.rng.Intn(5))*time.Minute), dayEnd)
		if !g.want[v.typeName] {
			continue
		}
		*out = append(*out, g.quantityAt(v.typeName, cursor, round1(g.sampleRange(v.r)), v.unit))
	}
	return cursor
}

// mindfulSessions emits the day's mindful sitting spans. Sessions that would
// cross the day boundary are dropped.
func (g *Generator) mindfulSessions(cursor, dayEnd time.Time, out *[]models.Sample) time.Time {
	m := g.config.Profile.Mindfulness
	count := g.intRange(m.PerDay)
	for i := 0; i < count; i++ {
		start := cursor.Add(time.Duration(15+g.rng.Intn(90)) * time.Minute)
		duration := time.Duration(g.sampleRange(m.DurationMinutes) * float64(time.Minute))
		if start.Add(duration).After(dayEnd) {
			break
		}
		if g.want[models.TypeMindfulSession] {
			*out = append(*out, &models.CategorySample{
				Type: models.TypeMindfulSession,
				Span: models.Interval{Start: start, End: start.Add(duration)},
			})
		}
		cursor = start.Add(duration)
	}
	return cursor
}

// workoutBlock runs the day's workout sessions sequentially.
func (g *Generator) workoutBlock(cursor, dayEnd time.Time, out *[]models.Sample) time.Time {
	w := g.config.Profile.Workouts
	count := g.intRange(w.PerDay)
	for i := 0; i < count; i++ {
		start := cursor.Add(time.Duration(30+g.rng.Intn(121)) * time.Minute)
		duration := time.Duration(g.sampleRange(w.DurationMinutes) * float64(time.Minute))
		if start.Add(duration).After(dayEnd) {
			break
		}
		cursor = g.workout(start, duration, out)
	}
	return cursor
}

// workout emits one session plus the heart rate trace recorded during it.
func (g *Generator) workout(start time.Time, duration time.Duration, out *[]models.Sample) time.Time {
	p := g.config.Profile
	w := p.Workouts
	end := start.Add(duration)

	activity := w.Activities[g.rng.Intn(len(w.Activities))]
	code, _ := models.ActivityCode(activity)

	sample := &models.WorkoutSample{
		Span:              models.Interval{Start: start, End: end},
		ActivityCode:      code,
		Duration:          duration,
		TotalDistance:     round1(g.sampleRange(w.DistanceKM)),
		TotalEnergyBurned: round1(g.sampleRange(w.EnergyKcal)),
	}
	switch code {
	case models.ActivityRunning, models.ActivityWalking, models.ActivityHiking:
		steps := int(sample.TotalDistance * (1200 + 200*g.rng.Float64()))
		sample.StepCount = &steps
	}
	// roughly a third of the longer sessions include a pause
	if duration >= 4*time.Minute && g.rng.Float64() < 0.3 {
		pauseAt := start.Add(time.Duration(g.rng.Int63n(int64(duration / 2))))
		resumeAt := pauseAt.Add(time.Duration(1+g.rng.Intn(4)) * time.Minute)
		if resumeAt.After(end) {
			resumeAt = end
		}
		sample.Events = []models.WorkoutEvent{
			{TypeCode: models.WorkoutEventPause, Date: pauseAt},
			{TypeCode: models.WorkoutEventResume, Date: resumeAt},
		}
	}
	if g.want[models.WorkoutType] {
		*out = append(*out, sample)
	}

	if g.want[models.TypeHeartRate] {
		lo := p.Heart.RestingRate.Max
		hi := p.Heart.MaxRate.Max
		n := 2 + g.rng.Intn(3)
		for j := 0; j < n; j++ {
			at := start.Add(duration * time.Duration(j+1) / time.Duration(n+1))
			hr := lo + (hi-lo)*(0.5+0.4*g.rng.Float64())
			*out = append(*out, g.quantityAt(models.TypeHeartRate, at, math.Round(hr), "count/min"))
		}
	}
	if g.want[models.HeartbeatSeriesType] && duration >= 5*time.Minute {
		*out = append(*out, g.heartbeatSeries(start.Add(duration/2)))
	}
	return end
}

// dailyTotals stamps the day's movement aggregates once the workouts are
// done, plus a few ambient heart rate readings.
func (g *Generator) dailyTotals(cursor, dayEnd time.Time, out *[]models.Sample) time.Time {
	p := g.config.Profile
	totals := []struct {
		typeName string
		value    float64
		unit     string
	}{
		{models.TypeStepCount, math.Round(g.sampleRange(p.Activity.DailySteps)), "count"},
		{models.TypeActiveEnergyBurned, round1(g.sampleRange(p.Activity.ActiveEnergy)), "kcal"},
		{models.TypeDistanceWalkingRunning, round1(g.sampleRange(p.Activity.DailySteps) * 0.0007), "km"},
	}
	for _, tq := range totals {
		cursor = capTime(cursor.Add(time.Duration(1+g.rng.Intn(3))*time.Minute), dayEnd)
		if !g.want[tq.typeName] {
			continue
		}
		*out = append(*out, g.quantityAt(tq.typeName, cursor, tq.value, tq.unit))
	}

	if g.want[models.TypeHeartRate] {
		n := 2 + g.rng.Intn(3)
		for i := 0; i < n; i++ {
			cursor = capTime(cursor.Add(time.Duration(5+g.rng.Intn(20))*time.Minute), dayEnd)
			hr := g.sampleRange(p.Heart.RestingRate) + 5*g.rng.Float64()
			*out = append(*out, g.quantityAt(models.TypeHeartRate, cursor, math.Round(hr), "count/min"))
		}
	}
	return cursor
}

// dietaryBlock stamps the day's nutrition totals.
func (g *Generator) dietaryBlock(cursor, dayEnd time.Time, out *[]models.Sample) time.Time {
	d := g.config.Profile.Dietary
	meals := []struct {
		typeName string
		r        profile.Range
		unit     string
	}{
		{models.TypeDietaryEnergyConsumed, d.EnergyKcal, "kcal"},
		{models.TypeDietaryWater, d.WaterML, "mL"},
		{models.TypeDietaryProtein, d.ProteinG, "g"},
	}
	for _, m := range meals {
		cursor = capTime(cursor.Add(time.Duration(1+g.rng.Intn(5))*time.Minute), dayEnd)
		if !g.want[m.typeName] {
			continue
		}
		*out = append(*out, g.quantityAt(m.typeName, cursor, round1(g.sampleRange(m.r)), m.unit))
	}
	return cursor
}

// bloodPressure closes the day with one reading, emitted as a correlation
// when that type is selected, or as standalone members otherwise.
func (g *Generator) bloodPressure(cursor, dayEnd time.Time, out *[]models.Sample) {
	wantCorrelation := g.want[models.TypeBloodPressure]
	wantMembers := g.want[models.TypeBloodPressureSystolic] || g.want[models.TypeBloodPressureDiastolic]
	if !wantCorrelation && !wantMembers {
		return
	}

	bp := g.config.Profile.BloodPressure
	at := capTime(cursor.Add(time.Duration(5+g.rng.Intn(30))*time.Minute), dayEnd)
	span := models.Interval{Start: at, End: at}
	systolic := &models.QuantitySample{
		Type:  models.TypeBloodPressureSystolic,
		Span:  span,
		Value: math.Round(g.sampleRange(bp.Systolic)),
		Unit:  "mmHg",
	}
	diastolic := &models.QuantitySample{
		Type:  models.TypeBloodPressureDiastolic,
		Span:  span,
		Value: math.Round(g.sampleRange(bp.Diastolic)),
		Unit:  "mmHg",
	}

	if wantCorrelation {
		*out = append(*out, &models.CorrelationSample{
			Type:    models.TypeBloodPressure,
			Span:    span,
			Objects: []models.Sample{systolic, diastolic},
		})
		return
	}
	if g.want[systolic.Type] {
		*out = append(*out, systolic)
	}
	if g.want[diastolic.Type] {
		*out = append(*out, diastolic)
	}
}

// heartbeatSeries emits a short beat-by-beat recording anchored mid-session.
// Beat gaps wander around the drawn rate, never below 250ms.
func (g *Generator) heartbeatSeries(start time.Time) models.Sample {
	h := g.config.Profile.Heart
	bpm := h.RestingRate.Max + (h.MaxRate.Min-h.RestingRate.Max)*g.rng.Float64()

	count := 20 + g.rng.Intn(41)
	beats := make([]models.Heartbeat, 0, count)
	offset := 0.0
	for i := 0; i < count; i++ {
		gap := 60.0/bpm + g.rng.NormFloat64()*0.02
		if gap < 0.25 {
			gap = 0.25
		}
		offset += gap
		beats = append(beats, models.Heartbeat{
			TimeSinceStart: math.Round(offset*1000) / 1000,
			Value:          math.Round(60.0 / gap),
			Confidence:     g.rng.Intn(4),
		})
	}
	return &models.HeartbeatSeriesSample{
		Span:  models.Interval{Start: start, End: start.Add(time.Duration(offset * float64(time.Second)))},
		Beats: beats,
	}
}

// quantityAt builds an instantaneous quantity sample.
func (g *Generator) quantityAt(typeName string, at time.Time, value float64, unit string) models.Sample {
	return &models.QuantitySample{
		Type:  typeName,
		Span:  models.Interval{Start: at, End: at},
		Value: value,
		Unit:  unit,
	}
}

// sampleRange draws uniformly from the inclusive range.
func (g *Generator) sampleRange(r profile.Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}

// intRange draws from the range and rounds to the nearest whole count.
func (g *Generator) intRange(r profile.Range) int {
	return int(math.Round(g.sampleRange(r)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func capTime(t, limit time.Time) time.Time {
	if t.After(limit) {
		return limit
	}
	return t
}
