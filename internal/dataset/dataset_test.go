package dataset

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
)

const testDocument = `{"HKQuantityTypeIdentifierHeartRate":[{"sdate":"2025-01-01T08:00:00Z","value":72,"unit":"count/min"}]}`

func writeAndReadBack(t *testing.T, name string) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "hksynth-dataset-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, name)

	w, err := Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	if _, err := io.WriteString(w, testDocument); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	return string(data)
}

func TestRoundTripByExtension(t *testing.T) {
	for _, name := range []string{"plain.json", "packed.json.gz", "packed.json.zst"} {
		if got := writeAndReadBack(t, name); got != testDocument {
			t.Errorf("%s: round trip changed the payload", name)
		}
	}
}

func TestSniffingIgnoresExtension(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-dataset-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// write gzip bytes, then hide them behind a neutral extension
	gzPath := filepath.Join(tmpDir, "export.json.gz")
	w, err := Create(gzPath)
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if _, err := io.WriteString(w, testDocument); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	hidden := filepath.Join(tmpDir, "export.bin")
	if err := os.Rename(gzPath, hidden); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}

	r, err := Open(hidden)
	if err != nil {
		t.Fatalf("failed to open renamed file: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if string(data) != testDocument {
		t.Error("expected transparent decompression of renamed gzip file")
	}
}

func TestFeedChunking(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-dataset-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "doc.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer r.Close()

	var rebuilt []byte
	chunks := 0
	if err := Feed(r, 7, func(chunk []byte) error {
		rebuilt = append(rebuilt, chunk...)
		chunks++
		return nil
	}); err != nil {
		t.Fatalf("failed to feed: %v", err)
	}
	if string(rebuilt) != testDocument {
		t.Error("expected chunked feed to deliver the full payload")
	}
	if chunks < len(testDocument)/7 {
		t.Errorf("expected small chunks, got %d calls", chunks)
	}
}

func TestEmptyFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-dataset-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open empty file: %v", err)
	}
	defer r.Close()
	if err := Feed(r, 16, func([]byte) error { return nil }); err != nil {
		t.Fatalf("failed to feed empty file: %v", err)
	}
}

func TestSummary(t *testing.T) {
	s := NewSummary()
	s.Add(models.Record{TypeName: models.TypeHeartRate, Props: models.Properties{
		"sdate": "2025-01-01T08:00:00Z", "value": int64(72), "unit": "count/min",
	}})
	s.Add(models.Record{TypeName: models.TypeHeartRate, Props: models.Properties{
		"sdate": "2025-01-02T09:30:00Z", "value": int64(80), "unit": "count/min",
	}})
	// missing value fails construction but still counts
	s.Add(models.Record{TypeName: models.TypeHeartRate, Props: models.Properties{
		"sdate": "2025-01-03T08:00:00Z",
	}})
	s.Add(models.Record{TypeName: "HKQuantityTypeIdentifierVO2Max", Props: models.Properties{
		"sdate": "2025-01-01T08:00:00Z", "value": 41.5, "unit": "mL/min·kg",
	}})

	if s.Total() != 4 {
		t.Errorf("expected total 4, got %d", s.Total())
	}
	types := s.Types()
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(types))
	}

	hr := types[0]
	if hr.TypeName != models.TypeHeartRate {
		t.Fatalf("expected sorted order with heart rate first, got %s", hr.TypeName)
	}
	if hr.Count != 3 || hr.Failed != 1 {
		t.Errorf("expected 3 counted with 1 failed, got %d/%d", hr.Count, hr.Failed)
	}
	wantEarliest := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	wantLatest := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	if !hr.Earliest.Equal(wantEarliest) || !hr.Latest.Equal(wantLatest) {
		t.Errorf("expected span %v..%v, got %v..%v", wantEarliest, wantLatest, hr.Earliest, hr.Latest)
	}
}
