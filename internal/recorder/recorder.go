package recorder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hksynth/hksynth-cli/internal/transport"
)

// Recorder writes sample frames to an NDJSON file
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewRecorder creates a new recorder
func NewRecorder(filename string) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}

	return &Recorder{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Record writes one frame to the file followed by a newline
func (r *Recorder) Record(frame transport.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.writer.Write(frame.Data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if _, err := r.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// RecordFromChannel reads frames from a channel and records them
func (r *Recorder) RecordFromChannel(ctx context.Context, frames <-chan transport.Frame, onEntry func()) error {
	for {
		select {
		case <-ctx.Done():
			return r.Close()
		case frame, ok := <-frames:
			if !ok {
				return r.Close() // Channel closed
			}
			if err := r.Record(frame); err != nil {
				return err
			}
			if onEntry != nil {
				onEntry()
			}
		}
	}
}

// Flush flushes the buffer to disk
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Flush()
}

// Close flushes and closes the recorder
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
