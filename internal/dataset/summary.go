package dataset

import (
	"sort"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// Summary aggregates per-type statistics while a dataset streams through it,
// without retaining the samples themselves.
type Summary struct {
	stats map[string]*TypeStats
}

// TypeStats collects the record count and covered time span for one type.
type TypeStats struct {
	TypeName string
	Count    int
	Failed   int
	Earliest time.Time
	Latest   time.Time
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{stats: make(map[string]*TypeStats)}
}

// Add folds one assembled record into the summary. Records that do not
// construct still count, under Failed.
func (s *Summary) Add(rec models.Record) {
	ts := s.stats[rec.TypeName]
	if ts == nil {
		ts = &TypeStats{TypeName: rec.TypeName}
		s.stats[rec.TypeName] = ts
	}
	ts.Count++

	sample, err := models.FromRecord(rec)
	if err != nil {
		ts.Failed++
		return
	}
	iv := sample.Interval()
	if ts.Earliest.IsZero() || iv.Start.Before(ts.Earliest) {
		ts.Earliest = iv.Start
	}
	if iv.End.After(ts.Latest) {
		ts.Latest = iv.End
	}
}

// Types returns the per-type statistics sorted by type name.
func (s *Summary) Types() []*TypeStats {
	out := make([]*TypeStats, 0, len(s.stats))
	for _, ts := range s.stats {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeName < out[j].TypeName })
	return out
}

// Total reports the record count across every type.
func (s *Summary) Total() int {
	total := 0
	for _, ts := range s.stats {
		total += ts.Count
	}
	return total
}
