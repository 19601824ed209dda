package store

import (
	"context"
	"sync"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// MemoryStore keeps records in memory. It backs tests and the memory store
// selection.
type MemoryStore struct {
	auth authSet

	mu      sync.Mutex
	seq     int64
	rows    map[string][]memRow // by type, in save order
	uids    map[string]bool
	deleted map[string]int
}

type memRow struct {
	seq int64
	rec Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:    make(map[string][]memRow),
		uids:    make(map[string]bool),
		deleted: make(map[string]int),
	}
}

func (m *MemoryStore) Authorize(ctx context.Context, readTypes, writeTypes []string) error {
	m.auth.grant(readTypes, writeTypes)
	return nil
}

func (m *MemoryStore) Save(ctx context.Context, sample models.Sample, done func(error)) {
	rec, err := RecordOf(sample)
	if err != nil {
		done(err)
		return
	}
	if !m.auth.canWrite(rec.TypeName) {
		done(ErrNotAuthorized)
		return
	}

	m.mu.Lock()
	if !m.uids[rec.UID] {
		m.seq++
		m.rows[rec.TypeName] = append(m.rows[rec.TypeName], memRow{seq: m.seq, rec: rec})
		m.uids[rec.UID] = true
	}
	m.mu.Unlock()
	done(nil)
}

func (m *MemoryStore) Query(ctx context.Context, typeName, pageToken string, limit int) (Page, error) {
	if !m.auth.canRead(typeName) {
		return Page{}, ErrNotAuthorized
	}
	after, err := decodeCursor(pageToken)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 {
		limit = 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	page := Page{Deleted: m.deleted[typeName]}
	for _, row := range m.rows[typeName] {
		if row.seq <= after {
			continue
		}
		page.Records = append(page.Records, row.rec)
		if len(page.Records) == limit {
			page.NextToken = encodeCursor(row.seq)
			break
		}
	}
	return page, nil
}

func (m *MemoryStore) Delete(ctx context.Context, records []Record) error {
	for _, rec := range records {
		if !m.auth.canWrite(rec.TypeName) {
			return ErrNotAuthorized
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		rows := m.rows[rec.TypeName]
		for i, row := range rows {
			if row.rec.UID == rec.UID {
				m.rows[rec.TypeName] = append(rows[:i], rows[i+1:]...)
				delete(m.uids, rec.UID)
				m.deleted[rec.TypeName]++
				break
			}
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Count reports how many records of one type are stored.
func (m *MemoryStore) Count(typeName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[typeName])
}
