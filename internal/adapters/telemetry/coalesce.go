// Package telemetry implements ports.Tracer on OpenTelemetry and feeds span
// lifecycle and output to a ports.Renderer.
package telemetry

import (
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultChunkSize is the buffered size that forces a flush.
	DefaultChunkSize = 4096
	// DefaultFlushInterval bounds how long output stays buffered.
	DefaultFlushInterval = 50 * time.Millisecond
)

// ErrCoalescerClosed is returned by writes after Close.
var ErrCoalescerClosed = zerr.New("output coalescer is closed")

// Coalescer merges small writes into chunks handed to a sink, in write order.
// A chunk is delivered when it reaches the size limit or the interval elapses
// after the first buffered byte.
type Coalescer struct {
	limit    int
	interval time.Duration
	sink     func([]byte)

	mu     sync.Mutex
	buf    []byte
	timer  *time.Timer
	closed bool
}

// NewCoalescer creates a Coalescer. Non-positive limits select the defaults.
func NewCoalescer(limit int, interval time.Duration, sink func([]byte)) *Coalescer {
	if limit <= 0 {
		limit = DefaultChunkSize
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Coalescer{limit: limit, interval: interval, sink: sink}
}

// Write buffers p.
func (c *Coalescer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrCoalescerClosed
	}
	c.buf = append(c.buf, p...)

	switch {
	case len(c.buf) >= c.limit:
		c.flushLocked()
	case c.timer == nil:
		c.timer = time.AfterFunc(c.interval, c.Flush)
	}
	return len(p), nil
}

// Flush hands buffered output to the sink.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
}

// Close flushes and rejects further writes. It is safe to call more than once.
func (c *Coalescer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.flushLocked()
	return nil
}

func (c *Coalescer) flushLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if len(c.buf) == 0 {
		return
	}
	data := c.buf
	c.buf = nil
	// The sink runs under the lock so chunks keep their order.
	if c.sink != nil {
		c.sink(data)
	}
}
