package orchestrator

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/hksynth/hksynth-cli/internal/dataset"
	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/store"
)

// errStopped ends the feed loop when the stop predicate fires. It never
// escapes Run.
var errStopped = errors.New("import stopped")

// Stats is the imported/skipped/failed triad import and populate report.
type Stats struct {
	Imported int
	Skipped  int
	Failed   int
}

// Total returns how many samples the run touched.
func (s Stats) Total() int {
	return s.Imported + s.Skipped + s.Failed
}

// Progress receives a running stats snapshot and the type name just
// processed. Callbacks run on the importer's goroutines and must not block.
type Progress func(stats Stats, typeName string)

// ImporterConfig tunes one import run. Zero values pick the defaults.
type ImporterConfig struct {
	ChunkSize   int
	MaxInFlight int
	Progress    Progress
	// Stop is polled after every completed sample; returning true ends the
	// run early without error.
	Stop func() bool
}

// Importer streams a dataset into the store one sample at a time. Memory
// stays bounded by the chunk size, one in-flight sample tree, and the save
// window.
type Importer struct {
	store       store.HealthStore
	chunkSize   int
	maxInFlight int
	progress    Progress
	stop        func() bool
}

// NewImporter builds an importer writing to st.
func NewImporter(st store.HealthStore, config ImporterConfig) *Importer {
	if config.ChunkSize <= 0 {
		config.ChunkSize = dataset.DefaultChunkSize
	}
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 16
	}
	return &Importer{
		store:       st,
		chunkSize:   config.ChunkSize,
		maxInFlight: config.MaxInFlight,
		progress:    config.Progress,
		stop:        config.Stop,
	}
}

// Run imports the dataset file at path. It returns once the store has
// acknowledged every sample that was handed to it.
func (imp *Importer) Run(ctx context.Context, path string) (Stats, error) {
	r, err := dataset.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()
	return imp.RunReader(ctx, r)
}

// RunReader imports from an already-open stream, decompressed by the caller.
func (imp *Importer) RunReader(ctx context.Context, r io.Reader) (Stats, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		stats Stats
	)
	sem := make(chan struct{}, imp.maxInFlight)

	onSample := func(rec models.Record) {
		sample, err := models.FromRecord(rec)
		if err != nil {
			mu.Lock()
			var unsupported *models.UnsupportedTypeError
			if errors.As(err, &unsupported) {
				stats.Skipped++
				log.Printf("skipping unsupported type %s", rec.TypeName)
			} else {
				stats.Failed++
				log.Printf("sample of %s failed: %v", rec.TypeName, err)
			}
			snapshot := stats
			mu.Unlock()
			imp.report(snapshot, rec.TypeName)
			return
		}

		sem <- struct{}{}
		wg.Add(1)
		imp.store.Save(ctx, sample, func(saveErr error) {
			mu.Lock()
			if saveErr != nil {
				stats.Failed++
				log.Printf("save of %s failed: %v", sample.TypeName(), saveErr)
			} else {
				stats.Imported++
			}
			snapshot := stats
			mu.Unlock()
			imp.report(snapshot, sample.TypeName())
			<-sem
			wg.Done()
		})
	}

	asm := encoding.NewAssembler(onSample, imp.stop)
	lexer := encoding.NewLexer(asm)
	err := dataset.Feed(r, imp.chunkSize, func(chunk []byte) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		lexer.Feed(string(chunk))
		if asm.Stopped() {
			return errStopped
		}
		return nil
	})
	wg.Wait()
	if errors.Is(err, errStopped) {
		err = nil
	}

	mu.Lock()
	final := stats
	mu.Unlock()
	return final, err
}

func (imp *Importer) report(stats Stats, typeName string) {
	if imp.progress != nil {
		imp.progress(stats, typeName)
	}
}
