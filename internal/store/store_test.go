package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
)

func testSample(value float64, at time.Time) models.Sample {
	return &models.QuantitySample{
		Type:  models.TypeHeartRate,
		Span:  models.Interval{Start: at, End: at},
		Value: value,
		Unit:  "count/min",
	}
}

func mustSave(t *testing.T, s HealthStore, sample models.Sample) {
	t.Helper()
	var saveErr error
	s.Save(context.Background(), sample, func(err error) { saveErr = err })
	if saveErr != nil {
		t.Fatalf("failed to save: %v", saveErr)
	}
}

func authorizeAll(t *testing.T, s HealthStore) {
	t.Helper()
	types := models.SupportedTypes()
	if err := s.Authorize(context.Background(), types, types); err != nil {
		t.Fatalf("failed to authorize: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	a, err := RecordOf(testSample(72, at))
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	b, err := RecordOf(testSample(72, at))
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	if a.UID != b.UID {
		t.Errorf("expected equal samples to share a uid, got %s and %s", a.UID, b.UID)
	}

	c, err := RecordOf(testSample(73, at))
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	if a.UID == c.UID {
		t.Error("expected different values to produce different uids")
	}
	if len(a.UID) != 16 {
		t.Errorf("expected a fixed-width uid, got %q", a.UID)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	authorizeAll(t, s)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustSave(t, s, testSample(float64(70+i), base.Add(time.Duration(i)*time.Minute)))
	}
	// saving a duplicate is a no-op
	mustSave(t, s, testSample(70, base))
	if s.Count(models.TypeHeartRate) != 5 {
		t.Fatalf("expected 5 stored records, got %d", s.Count(models.TypeHeartRate))
	}

	var collected []Record
	token := ""
	pages := 0
	for {
		page, err := s.Query(ctx, models.TypeHeartRate, token, 2)
		if err != nil {
			t.Fatalf("failed to query: %v", err)
		}
		collected = append(collected, page.Records...)
		pages++
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	if len(collected) != 5 {
		t.Fatalf("expected 5 records across pages, got %d", len(collected))
	}
	if pages < 3 {
		t.Errorf("expected at least 3 pages of 2, got %d", pages)
	}

	if err := s.Delete(ctx, collected[:2]); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	page, err := s.Query(ctx, models.TypeHeartRate, "", 10)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if len(page.Records) != 3 {
		t.Errorf("expected 3 records after delete, got %d", len(page.Records))
	}
	if page.Deleted != 2 {
		t.Errorf("expected a deleted count of 2, got %d", page.Deleted)
	}
}

func TestCursorSurvivesDeletion(t *testing.T) {
	s := NewMemoryStore()
	authorizeAll(t, s)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		mustSave(t, s, testSample(float64(60+i), base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := s.Query(ctx, models.TypeHeartRate, "", 2)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if err := s.Delete(ctx, first.Records); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	second, err := s.Query(ctx, models.TypeHeartRate, first.NextToken, 10)
	if err != nil {
		t.Fatalf("failed to query with stale cursor: %v", err)
	}
	if len(second.Records) != 2 {
		t.Fatalf("expected the remaining 2 records, got %d", len(second.Records))
	}
	for _, rec := range second.Records {
		for _, deleted := range first.Records {
			if rec.UID == deleted.UID {
				t.Errorf("cursor page returned deleted record %s", rec.UID)
			}
		}
	}
}

func TestUnauthorizedAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	var saveErr error
	s.Save(ctx, testSample(72, at), func(err error) { saveErr = err })
	if !errors.Is(saveErr, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized from save, got %v", saveErr)
	}
	if _, err := s.Query(ctx, models.TypeHeartRate, "", 10); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized from query, got %v", err)
	}

	// write-only grants do not open reads
	if err := s.Authorize(ctx, nil, []string{models.TypeHeartRate}); err != nil {
		t.Fatalf("failed to authorize: %v", err)
	}
	s.Save(ctx, testSample(72, at), func(err error) { saveErr = err })
	if saveErr != nil {
		t.Errorf("expected save to succeed after grant, got %v", saveErr)
	}
	if _, err := s.Query(ctx, models.TypeHeartRate, "", 10); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized from read-less query, got %v", err)
	}
}

func TestInvalidCursor(t *testing.T) {
	s := NewMemoryStore()
	authorizeAll(t, s)
	for _, token := range []string{"not base64!", "YWJj"} {
		if _, err := s.Query(context.Background(), models.TypeHeartRate, token, 10); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("token %q: expected ErrInvalidCursor, got %v", token, err)
		}
	}
}

func TestSQLiteStorePersistence(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "hksynth-store-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	path := filepath.Join(tmpDir, "health.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	authorizeAll(t, s)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mustSave(t, s, testSample(float64(70+i), base.Add(time.Duration(i)*time.Minute)))
	}
	// duplicate save hits the uid unique constraint and is ignored
	mustSave(t, s, testSample(70, base))

	page, err := s.Query(ctx, models.TypeHeartRate, "", 10)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if len(page.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(page.Records))
	}
	if !page.Records[0].Start.Equal(base) {
		t.Errorf("expected start %v, got %v", base, page.Records[0].Start)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()
	authorizeAll(t, reopened)

	page, err = reopened.Query(ctx, models.TypeHeartRate, "", 10)
	if err != nil {
		t.Fatalf("failed to query reopened store: %v", err)
	}
	if len(page.Records) != 3 {
		t.Fatalf("expected 3 records after reopen, got %d", len(page.Records))
	}

	if err := reopened.Delete(ctx, page.Records[:1]); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	page, err = reopened.Query(ctx, models.TypeHeartRate, "", 10)
	if err != nil {
		t.Fatalf("failed to query after delete: %v", err)
	}
	if len(page.Records) != 2 {
		t.Errorf("expected 2 records after delete, got %d", len(page.Records))
	}
	if page.Deleted != 1 {
		t.Errorf("expected a deleted count of 1, got %d", page.Deleted)
	}
}
