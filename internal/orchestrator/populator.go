package orchestrator

import (
	"context"
	"log"
	"sync"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/store"
)

// Populator feeds generated samples straight into the store, with the same
// bounded save window the importer uses.
type Populator struct {
	store       store.HealthStore
	maxInFlight int
	progress    Progress
}

// PopulatorConfig tunes one populate run. Zero values pick the defaults.
type PopulatorConfig struct {
	MaxInFlight int
	Progress    Progress
}

// NewPopulator builds a populator writing to st.
func NewPopulator(st store.HealthStore, config PopulatorConfig) *Populator {
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 16
	}
	return &Populator{
		store:       st,
		maxInFlight: config.MaxInFlight,
		progress:    config.Progress,
	}
}

// Run saves every sample and returns once the store has acknowledged them
// all.
func (p *Populator) Run(ctx context.Context, samples []models.Sample) (Stats, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		stats Stats
	)
	sem := make(chan struct{}, p.maxInFlight)

	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return stats, err
		}
		sem <- struct{}{}
		wg.Add(1)
		sample := sample
		p.store.Save(ctx, sample, func(saveErr error) {
			mu.Lock()
			if saveErr != nil {
				stats.Failed++
				log.Printf("save of %s failed: %v", sample.TypeName(), saveErr)
			} else {
				stats.Imported++
			}
			snapshot := stats
			mu.Unlock()
			if p.progress != nil {
				p.progress(snapshot, sample.TypeName())
			}
			<-sem
			wg.Done()
		})
	}
	wg.Wait()

	mu.Lock()
	final := stats
	mu.Unlock()
	return final, nil
}
