// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
	"github.com/rs/zerolog"
)

// Queue is a bounded-memory, interrupt-safe event queue. The zero value
// is not usable; construct one with [New] or [NewQueue].
type Queue struct {
	_     pad
	cs    critical
	_     pad
	arena arena
	clock clock
	wait  waiter

	pendingHead    int32
	_              pad
	breakRequested atomix.Bool
	_              pad
	handlers       map[int32]handlerSlot

	update   func(timeoutMs int32)
	updateMu sync.Mutex

	chainMu     sync.Mutex
	chainedTo   *Queue
	trampolines map[*Queue]uint32

	logger zerolog.Logger
}

func (q *Queue) initDone() {
	q.pendingHead = noOffset
	q.clock.init()
}

// Tick returns the queue's current monotonic millisecond tick.
func (q *Queue) Tick() uint32 {
	return q.clock.now()
}

// PostRaw schedules handler to run after delayMs milliseconds, and
// every periodMs milliseconds thereafter if periodMs > 0. dtor, if
// non-nil, runs once after a one-shot event's handler or after a
// pending event is cancelled. payloadSize reserves that many bytes
// following the event header; handler and dtor receive a pointer to
// that region.
//
// Returns 0 if the arena has no region large enough for the request.
func (q *Queue) PostRaw(delayMs, periodMs int32, handler, dtor func(unsafe.Pointer), payloadSize int) uint32 {
	if delayMs < 0 {
		delayMs = 0
	}

	q.cs.lock()
	now := q.clock.now()
	offset, err := q.arena.alloc(payloadSize)
	if err != nil {
		q.cs.unlock()
		q.logger.Debug().Err(err).Int("payload_size", payloadSize).Msg("equeue: arena exhausted")
		return 0
	}
	h := q.arena.header(offset)
	h.targetMs = now + uint32(delayMs)
	h.periodMs = periodMs
	h.state = statePending
	q.handlers[offset] = handlerSlot{handler: handler, dtor: dtor}
	q.insertPendingLocked(offset, now)
	id := encodeID(offset, h.generation, q.arena.offsetBits)
	wasHead := q.pendingHead == offset
	q.cs.unlock()

	q.wait.signal()
	if wasHead {
		q.notifyUpdate()
	}
	return id
}

// Cancel removes a pending event by identifier. It returns false if id
// is zero, stale, or the event is no longer PENDING (already inflight,
// already cancelled, or never existed).
func (q *Queue) Cancel(id uint32) bool {
	offset, generation, ok := decodeID(id, q.arena.offsetBits)
	if !ok {
		return false
	}

	q.cs.lock()
	h := q.arena.header(offset)
	if h.generation != generation || h.state != statePending {
		q.cs.unlock()
		return false
	}
	q.removePendingLocked(offset)
	h.state = stateCancelled
	hs, hasHandler := q.handlers[offset]
	delete(q.handlers, offset)
	q.cs.unlock()

	if hasHandler && hs.dtor != nil {
		hs.dtor(q.payload(offset))
	}

	q.cs.lock()
	q.arena.free(offset)
	q.cs.unlock()

	q.wait.signal()
	q.notifyUpdate()
	return true
}

// TimeLeft returns the milliseconds remaining until id becomes due, or
// 0 if id is invalid, inflight, or already due.
func (q *Queue) TimeLeft(id uint32) int32 {
	offset, generation, ok := decodeID(id, q.arena.offsetBits)
	if !ok {
		return 0
	}
	q.cs.lock()
	defer q.cs.unlock()
	h := q.arena.header(offset)
	if h.generation != generation || h.state != statePending {
		return 0
	}
	d := delta(q.clock.now(), h.targetMs)
	if d < 0 {
		return 0
	}
	return d
}

// payload returns a pointer to the bytes following offset's header.
func (q *Queue) payload(offset int32) unsafe.Pointer {
	return unsafe.Pointer(&q.arena.buf[int(offset)+headerSize])
}

// headDelayLocked returns the delay to the pending list's head, or -1
// if the list is empty. Must be called with cs held.
func (q *Queue) headDelayLocked() int32 {
	if q.pendingHead == noOffset {
		return -1
	}
	h := q.arena.header(q.pendingHead)
	d := delta(q.clock.now(), h.targetMs)
	if d < 0 {
		return 0
	}
	return d
}

// insertPendingLocked inserts offset's slot into the sorted pending
// list, or appends it to the sibling chain of an existing node sharing
// the same due time. Must be called with cs held.
func (q *Queue) insertPendingLocked(offset int32, now uint32) {
	h := q.arena.header(offset)
	h.next = noOffset
	h.sibling = noOffset

	var prev int32 = noOffset
	cur := q.pendingHead
	for cur != noOffset {
		ch := q.arena.header(cur)
		if ch.targetMs == h.targetMs {
			last := cur
			for q.arena.header(last).sibling != noOffset {
				last = q.arena.header(last).sibling
			}
			q.arena.header(last).sibling = offset
			return
		}
		if before(now, h.targetMs, ch.targetMs) {
			break
		}
		prev = cur
		cur = ch.next
	}
	h.next = cur
	if prev == noOffset {
		q.pendingHead = offset
	} else {
		q.arena.header(prev).next = offset
	}
}

// removePendingLocked unlinks offset from the pending list, whether it
// is a primary node (promoting its first sibling, if any, in its place)
// or a sibling of some other primary node. Must be called with cs held.
func (q *Queue) removePendingLocked(offset int32) {
	var prev int32 = noOffset
	cur := q.pendingHead
	for cur != noOffset {
		ch := q.arena.header(cur)
		if cur == offset {
			successor := ch.sibling
			if successor != noOffset {
				sh := q.arena.header(successor)
				sh.next = ch.next
			}
			if prev == noOffset {
				if successor != noOffset {
					q.pendingHead = successor
				} else {
					q.pendingHead = ch.next
				}
			} else {
				if successor != noOffset {
					q.arena.header(prev).next = successor
				} else {
					q.arena.header(prev).next = ch.next
				}
			}
			return
		}
		// search this node's sibling chain
		sprev := cur
		sib := ch.sibling
		for sib != noOffset {
			if sib == offset {
				q.arena.header(sprev).sibling = q.arena.header(sib).sibling
				return
			}
			sprev = sib
			sib = q.arena.header(sib).sibling
		}
		prev = cur
		cur = ch.next
	}
}
