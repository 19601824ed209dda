package generator

import (
	"math/rand"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// Generator expands one Config into synthetic health samples. Every random
// draw flows from a single seeded source, so equal configs reproduce equal
// datasets.
type Generator struct {
	config Config
	rng    *rand.Rand
	want   map[string]bool
}

// New validates the config and prepares a generator for it.
func New(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		want:   typeSet(config.Metrics),
	}, nil
}

// Generate produces the nested document the writer serializes, keyed by type
// name.
func (g *Generator) Generate() models.Document {
	doc := models.Document{}
	for _, s := range g.GenerateSamples() {
		doc.Add(s.TypeName(), s.Properties())
	}
	return doc
}

// GenerateSamples produces typed samples in chronological day order. The
// random stream restarts from the seed on every call, so repeated calls on
// one generator yield identical output.
func (g *Generator) GenerateSamples() []models.Sample {
	g.rng = rand.New(rand.NewSource(g.config.Seed))
	var out []models.Sample
	last := dayOf(g.config.End)
	for day := dayOf(g.config.Start); !day.After(last); day = day.AddDate(0, 0, 1) {
		if !g.includesDay(day) {
			continue
		}
		g.generateDay(day, &out)
	}
	return out
}

// GenerateCount produces at most perType samples for each given type, keeping
// the most recent ones when the configured range yields more. An empty type
// list selects every supported type.
func (g *Generator) GenerateCount(types []string, perType int) (models.Document, error) {
	if perType <= 0 {
		return nil, &models.ValidationError{Field: "count", Message: "must be positive"}
	}
	if len(types) == 0 {
		types = models.SupportedTypes()
	}
	for _, name := range types {
		if !isSupported(name) {
			return nil, &models.ValidationError{Field: "types", Message: "unknown type " + name}
		}
	}

	saved := g.want
	g.want = typeSet(types)
	samples := g.GenerateSamples()
	g.want = saved

	doc := models.Document{}
	for _, s := range samples {
		doc.Add(s.TypeName(), s.Properties())
	}
	for name, list := range doc {
		if len(list) > perType {
			doc[name] = list[len(list)-perType:]
		}
	}
	return doc, nil
}

// generateDay walks the daily phase order, advancing one cursor so no two
// phases overlap: sleep, morning vitals, mindfulness, workouts, daily totals,
// dietary, blood pressure. Every emitted interval stays inside the calendar
// day.
func (g *Generator) generateDay(day time.Time, out *[]models.Sample) {
	dayEnd := day.Add(24*time.Hour - time.Second)

	cursor := g.sleepBlock(day, out)
	cursor = g.morningVitals(cursor, dayEnd, out)
	cursor = g.mindfulSessions(cursor, dayEnd, out)
	cursor = g.workoutBlock(cursor, dayEnd, out)
	cursor = g.dailyTotals(cursor, dayEnd, out)
	cursor = g.dietaryBlock(cursor, dayEnd, out)
	g.bloodPressure(cursor, dayEnd, out)
}

// typeSet builds the allowlist; empty input selects everything.
func typeSet(types []string) map[string]bool {
	if len(types) == 0 {
		types = models.SupportedTypes()
	}
	want := make(map[string]bool, len(types))
	for _, name := range types {
		want[name] = true
	}
	return want
}
