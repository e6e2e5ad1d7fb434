// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "github.com/rs/zerolog"

// DefaultEventSize is the minimum payload budget assumed when sizing a
// default arena.
const DefaultEventSize = 256

// DefaultQueueSize is the default arena size in bytes, sized for 32
// events of DefaultEventSize each.
const DefaultQueueSize = 32 * DefaultEventSize

// Options configures queue creation.
type Options struct {
	sizeBytes int
	buffer    []byte
	logger    zerolog.Logger
}

// Builder creates Queues with fluent configuration.
//
// Example:
//
//	q := equeue.New(4096).WithLogger(log).Build()
type Builder struct {
	opts Options
}

// New creates a queue builder with the given arena size in bytes.
//
// Panics if sizeBytes is smaller than the minimum viable slot size.
func New(sizeBytes int) *Builder {
	if sizeBytes < minSlotSize {
		panic("equeue: sizeBytes must be >= minimum slot size")
	}
	return &Builder{opts: Options{
		sizeBytes: sizeBytes,
		logger:    zerolog.Nop(),
	}}
}

// WithBuffer supplies caller-owned backing storage for the arena instead
// of a heap-allocated one. The buffer must outlive the Queue and must
// not be accessed by the caller after this call.
func (b *Builder) WithBuffer(buf []byte) *Builder {
	if len(buf) < minSlotSize {
		panic("equeue: buffer too small for minimum slot size")
	}
	b.opts.buffer = buf
	b.opts.sizeBytes = len(buf)
	return b
}

// WithLogger installs a structured logger for diagnostic events
// (allocation exhaustion, and failure to post a chain trampoline on
// this queue).
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.opts.logger = logger
	return b
}

// Build creates the configured Queue.
func (b *Builder) Build() *Queue {
	buf := b.opts.buffer
	if buf == nil {
		buf = make([]byte, b.opts.sizeBytes)
	}
	q := &Queue{
		logger:   b.opts.logger,
		handlers: make(map[int32]handlerSlot),
	}
	q.arena.init(buf)
	q.wait.init()
	q.initDone()
	return q
}

// NewQueue is the one-line convenience constructor for a heap-owned
// arena of sizeBytes bytes, using a no-op logger.
func NewQueue(sizeBytes int) *Queue {
	return New(sizeBytes).Build()
}

// pad is cache line padding to prevent false sharing. Queue uses it to
// isolate cs and breakRequested, both touched from poster and
// dispatcher goroutines on every PostRaw/Cancel/BreakDispatch call.
type pad [64]byte
