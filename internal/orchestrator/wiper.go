package orchestrator

import (
	"context"
	"fmt"

	"github.com/hksynth/hksynth-cli/internal/store"
)

// WipeProgress receives the running deleted count and a page message after
// every deleted page.
type WipeProgress func(deleted int, message string)

// Wiper removes stored samples one type at a time in bounded pages. The next
// page is not requested until the previous page's deletions have been
// acknowledged, which caps store load; deletion is idempotent, so an
// interrupted run can simply be repeated.
type Wiper struct {
	store    store.HealthStore
	pageSize int
	progress WipeProgress
}

// WiperConfig tunes one wipe run. Zero values pick the defaults.
type WiperConfig struct {
	PageSize int
	Progress WipeProgress
}

// NewWiper builds a wiper against st.
func NewWiper(st store.HealthStore, config WiperConfig) *Wiper {
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	return &Wiper{
		store:    st,
		pageSize: config.PageSize,
		progress: config.Progress,
	}
}

// Run deletes every stored record of each given type and returns the total
// removed.
func (w *Wiper) Run(ctx context.Context, types []string) (int, error) {
	total := 0
	for _, name := range types {
		n, err := w.wipeType(ctx, name)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// wipeType cycles query-then-delete until the type's listing is empty. Each
// cycle queries from the start because the delete shifts the listing.
func (w *Wiper) wipeType(ctx context.Context, typeName string) (int, error) {
	deleted := 0
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		page, err := w.store.Query(ctx, typeName, "", w.pageSize)
		if err != nil {
			return deleted, err
		}
		if len(page.Records) == 0 {
			return deleted, nil
		}
		if err := w.store.Delete(ctx, page.Records); err != nil {
			return deleted, err
		}
		deleted += len(page.Records)
		if w.progress != nil {
			w.progress(deleted, fmt.Sprintf("deleted %d %s records", deleted, typeName))
		}
	}
}
