package store

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
)

// Sentinel errors shared by every store implementation.
var (
	ErrNotAuthorized = errors.New("store: not authorized")
	ErrInvalidCursor = errors.New("store: invalid page token")
)

// Record is one stored sample row. Payload holds the sample's canonical JSON
// property map.
type Record struct {
	UID      string
	TypeName string
	Start    time.Time
	End      time.Time
	Payload  []byte
}

// Page is one query result slice. Deleted reports how many records of the
// queried type have been removed so far.
type Page struct {
	Records   []Record
	Deleted   int
	NextToken string
}

// HealthStore is the sink generated and imported samples land in.
type HealthStore interface {
	// Authorize grants read and write access for the given type names. Every
	// other operation fails with ErrNotAuthorized until the types it touches
	// have been granted.
	Authorize(ctx context.Context, readTypes, writeTypes []string) error
	// Save persists one sample and reports the outcome through done. The
	// callback may fire after Save returns. Saving a sample that is already
	// stored succeeds without writing a duplicate.
	Save(ctx context.Context, sample models.Sample, done func(error))
	// Query pages through records of one type in stable order. An empty
	// pageToken starts from the beginning; an empty NextToken means the
	// listing is complete. Tokens stay valid across deletions.
	Query(ctx context.Context, typeName, pageToken string, limit int) (Page, error)
	// Delete removes the given records. Absent records are ignored.
	Delete(ctx context.Context, records []Record) error
	Close() error
}

// RecordOf renders a sample into its stored row form.
func RecordOf(s models.Sample) (Record, error) {
	payload, err := encoding.MarshalProperties(s.Properties())
	if err != nil {
		return Record{}, err
	}
	iv := s.Interval()
	return Record{
		UID:      Fingerprint(s.TypeName(), []byte(payload)),
		TypeName: s.TypeName(),
		Start:    iv.Start,
		End:      iv.End,
		Payload:  []byte(payload),
	}, nil
}

// authSet tracks which type names have been granted. The zero value grants
// nothing.
type authSet struct {
	mu    sync.Mutex
	read  map[string]bool
	write map[string]bool
}

func (a *authSet) grant(readTypes, writeTypes []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.read == nil {
		a.read = make(map[string]bool)
		a.write = make(map[string]bool)
	}
	for _, t := range readTypes {
		a.read[t] = true
	}
	for _, t := range writeTypes {
		a.write[t] = true
	}
}

func (a *authSet) canRead(typeName string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.read[typeName]
}

func (a *authSet) canWrite(typeName string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.write[typeName]
}

// Cursor tokens are opaque to callers: a base64 wrapping of the last row
// sequence seen, so they survive deletions of earlier rows.

func encodeCursor(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(seq, 10)))
}

func decodeCursor(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	seq, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || seq < 0 {
		return 0, ErrInvalidCursor
	}
	return seq, nil
}
