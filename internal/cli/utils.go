package cli

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hksynth/hksynth-cli/internal/generator"
	"github.com/hksynth/hksynth-cli/internal/models"
)

// parseStamp accepts YYYY-MM-DD or RFC3339. The bool reports whether the
// input was a bare date.
func parseStamp(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid timestamp %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return t.UTC(), false, nil
}

// resolveRange turns --from/--to/--days into the generation window. A bare
// --to date extends to the end of that day, so --from and --to may name the
// same day.
func resolveRange(from, to string, days int) (time.Time, time.Time, error) {
	if from == "" && to == "" {
		if days <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("--days must be positive")
		}
		start, end := generator.LastDays(days)
		return start, end, nil
	}
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be given together")
	}
	start, _, err := parseStamp(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, bare, err := parseStamp(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if bare {
		end = end.Add(24*time.Hour - time.Second)
	}
	return start, end, nil
}

// parseMetrics splits a comma-separated type list, expanding bare names like
// "HeartRate" to their full identifiers.
func parseMetrics(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, expandTypeName(name))
	}
	return out
}

// expandTypeName resolves a bare metric name against the supported
// identifiers. Names already carrying the HK prefix pass through.
func expandTypeName(name string) string {
	if strings.HasPrefix(name, "HK") {
		return name
	}
	switch name {
	case "Workout":
		return models.WorkoutType
	case "HeartbeatSeries":
		return models.HeartbeatSeriesType
	}
	prefixes := []string{models.QuantityPrefix, models.CategoryPrefix, models.CorrelationPrefix}
	for _, full := range models.SupportedTypes() {
		for _, prefix := range prefixes {
			if full == prefix+name {
				return full
			}
		}
	}
	return name
}

// parseWeekdays reads a comma-separated weekday list like "mon,wed,fri".
func parseWeekdays(csv string) ([]time.Weekday, error) {
	short := map[string]time.Weekday{
		"sun": time.Sunday,
		"mon": time.Monday,
		"tue": time.Tuesday,
		"wed": time.Wednesday,
		"thu": time.Thursday,
		"fri": time.Friday,
		"sat": time.Saturday,
	}
	var out []time.Weekday
	for _, part := range strings.Split(csv, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := short[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		out = append(out, day)
	}
	return out, nil
}

func isPortAvailable(port int) bool {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
