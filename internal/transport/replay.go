package transport

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/hksynth/hksynth-cli/internal/dataset"
	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
)

// ReplayConfig controls playback pacing.
type ReplayConfig struct {
	// Speed scales the historical gaps between samples. 1.0 replays in
	// real time, 60 squeezes an hour into a minute. Zero means 1.0.
	Speed float64
	// Interval, when set, spaces frames evenly and ignores Speed.
	Interval time.Duration
	// Loop restarts playback from the first sample after the last.
	Loop bool
}

// Replayer reads a dataset file once and replays its samples as wire frames
// in start-date order.
type Replayer struct {
	path   string
	config ReplayConfig

	samples []models.Sample
	loaded  bool
}

// NewReplayer creates a replayer for the dataset at path.
func NewReplayer(path string, config ReplayConfig) *Replayer {
	return &Replayer{
		path:   path,
		config: config,
	}
}

// load parses the dataset once and caches its samples sorted by start date.
func (r *Replayer) load() error {
	if r.loaded {
		return nil
	}

	rc, err := dataset.Open(r.path)
	if err != nil {
		return err
	}
	defer rc.Close()

	var samples []models.Sample
	skipped := 0
	asm := encoding.NewAssembler(func(rec models.Record) {
		sample, err := models.FromRecord(rec)
		if err != nil {
			skipped++
			return
		}
		samples = append(samples, sample)
	}, nil)
	lexer := encoding.NewLexer(asm)

	if err := dataset.Feed(rc, 0, func(chunk []byte) error {
		lexer.Feed(string(chunk))
		return nil
	}); err != nil {
		return err
	}
	if skipped > 0 {
		log.Printf("Replay: skipping %d unplayable samples in %s", skipped, r.path)
	}
	if len(samples) == 0 {
		return fmt.Errorf("dataset %s holds no playable samples", r.path)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		si, sj := samples[i].Interval(), samples[j].Interval()
		if !si.Start.Equal(sj.Start) {
			return si.Start.Before(sj.Start)
		}
		return samples[i].TypeName() < samples[j].TypeName()
	})

	r.samples = samples
	r.loaded = true
	return nil
}

// Count returns the number of playable samples in the dataset.
func (r *Replayer) Count() (int, error) {
	if err := r.load(); err != nil {
		return 0, err
	}
	return len(r.samples), nil
}

// Span returns the start dates of the first and last samples.
func (r *Replayer) Span() (time.Time, time.Time, error) {
	if err := r.load(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	first := r.samples[0].Interval().Start
	last := r.samples[len(r.samples)-1].Interval().Start
	return first, last, nil
}

// Replay sends frames to the output channel with timing. The caller owns the
// channel and closes it after Replay returns.
func (r *Replayer) Replay(ctx context.Context, output chan<- Frame) error {
	if err := r.load(); err != nil {
		return err
	}

	for {
		if err := r.replayOnce(ctx, output); err != nil {
			return err
		}

		if !r.config.Loop {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Continue looping
		}
	}

	return nil
}

func (r *Replayer) replayOnce(ctx context.Context, output chan<- Frame) error {
	var lastStart time.Time

	for i, sample := range r.samples {
		start := sample.Interval().Start

		// Calculate delay
		var delay time.Duration
		if i > 0 {
			if r.config.Interval > 0 {
				delay = r.config.Interval
			} else {
				delay = start.Sub(lastStart)
				if speed := r.speed(); delay > 0 && speed != 1.0 {
					delay = time.Duration(float64(delay) / speed)
				}
			}
		}
		lastStart = start

		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		frame, err := EncodeFrame(sample)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- frame:
		}
	}

	return nil
}

func (r *Replayer) speed() float64 {
	if r.config.Speed <= 0 {
		return 1.0
	}
	return r.config.Speed
}
