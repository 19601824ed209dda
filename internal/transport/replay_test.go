package transport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
)

const replayDataset = `{
	"HKQuantityTypeIdentifierStepCount": [
		{"sdate": "2025-01-01T12:00:00Z", "value": 5000, "unit": "count"}
	],
	"HKQuantityTypeIdentifierHeartRate": [
		{"sdate": "2025-01-01T08:00:00Z", "value": 62, "unit": "count/min"},
		{"sdate": "2025-01-01T18:00:00Z", "value": 85, "unit": "count/min"}
	]
}`

func writeReplayFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "hksynth-replay-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	path := filepath.Join(tmpDir, "dataset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestEncodeFrame(t *testing.T) {
	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	sample := &models.QuantitySample{
		Type:  models.TypeHeartRate,
		Span:  models.Interval{Start: at, End: at},
		Value: 72,
		Unit:  "count/min",
	}

	frame, err := EncodeFrame(sample)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if frame.TypeName != models.TypeHeartRate {
		t.Errorf("wrong frame type: %s", frame.TypeName)
	}

	want := `{"sdate":"2025-01-01T08:00:00Z","type":"HKQuantityTypeIdentifierHeartRate","unit":"count/min","value":72}`
	if string(frame.Data) != want {
		t.Errorf("frame data mismatch:\ngot  %s\nwant %s", frame.Data, want)
	}

	// Equal samples must produce byte-equal frames.
	again, err := EncodeFrame(sample)
	if err != nil {
		t.Fatalf("failed to encode again: %v", err)
	}
	if string(again.Data) != string(frame.Data) {
		t.Error("repeated encoding should be byte-identical")
	}
}

func TestReplayerOrdersSamplesByStart(t *testing.T) {
	path := writeReplayFile(t, replayDataset)
	r := NewReplayer(path, ReplayConfig{Interval: time.Millisecond})

	count, err := r.Count()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 samples, got %d", count)
	}

	first, last, err := r.Span()
	if err != nil {
		t.Fatalf("failed to read span: %v", err)
	}
	if first.Hour() != 8 || last.Hour() != 18 {
		t.Errorf("unexpected span: %s .. %s", first, last)
	}

	frames := make(chan Frame, 8)
	if err := r.Replay(context.Background(), frames); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	close(frames)

	var order []string
	for f := range frames {
		order = append(order, f.TypeName)
	}
	want := []string{
		"HKQuantityTypeIdentifierHeartRate",
		"HKQuantityTypeIdentifierStepCount",
		"HKQuantityTypeIdentifierHeartRate",
	}
	if len(order) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("frame %d: got %s, want %s", i, order[i], want[i])
		}
	}
}

func TestReplayerSkipsUnplayableSamples(t *testing.T) {
	path := writeReplayFile(t, `{
		"HKQuantityTypeIdentifierHeartRate": [
			{"sdate": "2025-01-01T08:00:00Z", "value": 62, "unit": "count/min"},
			{"sdate": "2025-01-01T09:00:00Z"}
		]
	}`)
	r := NewReplayer(path, ReplayConfig{})

	count, err := r.Count()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 playable sample, got %d", count)
	}
}

func TestReplayerEmptyDataset(t *testing.T) {
	path := writeReplayFile(t, `{}`)
	r := NewReplayer(path, ReplayConfig{})

	if _, err := r.Count(); err == nil {
		t.Error("expected error for dataset without playable samples")
	}
}

func TestReplayerSpeedScalesGaps(t *testing.T) {
	// Two samples ten hours apart, replayed thirty-six-million times faster.
	r := NewReplayer(writeReplayFile(t, replayDataset), ReplayConfig{Speed: 36_000_000})

	frames := make(chan Frame, 8)
	start := time.Now()
	if err := r.Replay(context.Background(), frames); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	close(frames)

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("scaled replay took too long: %s", elapsed)
	}

	count := 0
	for range frames {
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 frames, got %d", count)
	}
}

func TestReplayerLoop(t *testing.T) {
	r := NewReplayer(writeReplayFile(t, replayDataset), ReplayConfig{Loop: true, Interval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := make(chan Frame, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Replay(ctx, frames)
		close(frames)
	}()

	// A single pass yields 3 frames, so anything beyond that proves looping.
	received := 0
	for range frames {
		received++
		if received >= 7 {
			cancel()
			break
		}
	}
	for range frames {
	}

	if err := <-errCh; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if received < 7 {
		t.Errorf("expected looped playback to exceed one pass, got %d frames", received)
	}
}
