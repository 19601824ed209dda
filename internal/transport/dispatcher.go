package transport

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Dispatcher copies frames from one source to multiple subscribers.
// When a subscriber's buffer is full, frames are dropped to prevent blocking
// the replayer. Dropped frames are logged and counted for monitoring.
type Dispatcher struct {
	source       <-chan Frame
	subscribers  []chan Frame
	bufferSize   int
	mu           sync.Mutex
	droppedTotal int64 // atomic counter for total dropped frames
}

func NewDispatcher(source <-chan Frame, bufferSize int) *Dispatcher {
	return &Dispatcher{
		source:      source,
		subscribers: make([]chan Frame, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel that receives copies of all source frames.
// Each subscriber gets its own buffered channel with the configured buffer size.
// Subscribers should be added before calling Run() to ensure they receive all frames.
func (d *Dispatcher) Subscribe() <-chan Frame {
	ch := make(chan Frame, d.bufferSize)
	d.mu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.mu.Unlock()
	return ch
}

// GetSubscriberCount returns the current number of active subscribers.
func (d *Dispatcher) GetSubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}

// GetDroppedCount returns the total number of frames that were dropped
// due to subscriber buffers being full. This counter is thread-safe.
func (d *Dispatcher) GetDroppedCount() int64 {
	return atomic.LoadInt64(&d.droppedTotal)
}

// Run blocks until ctx is cancelled or source closes
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-d.source:
			if !ok {
				return
			}
			d.dispatch(frame, ctx)
		}
	}
}

func (d *Dispatcher) dispatch(frame Frame, ctx context.Context) {
	d.mu.Lock()
	subs := d.subscribers // Copy slice reference to minimize lock time
	d.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- frame:
			// Successfully sent
		case <-ctx.Done():
			return
		default:
			// Buffer full - drop frame to prevent blocking the replayer
			dropped++
			atomic.AddInt64(&d.droppedTotal, 1)
		}
	}

	// Log dropped frames (only if any were dropped to avoid log spam)
	if dropped > 0 {
		log.Printf("Dispatcher: dropped %s frame for %d subscriber(s) (buffer full)", frame.TypeName, dropped)
	}
}

func (d *Dispatcher) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, sub := range d.subscribers {
		close(sub)
	}
}
